package client

import (
	"context"
	"errors"
	"movienest/src/auth"
	"movienest/src/routes"
	"movienest/src/testutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) (*httptest.Server, *routes.App) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app := routes.NewApp(routes.Deps{
		DB:            testutil.NewDB(t),
		Issuer:        auth.NewIssuer("client-test", 0),
		RatePerSecond: 100,
		RateBurst:     100,
	})
	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)
	return srv, app
}

func TestClient_RegisterAddRemove(t *testing.T) {
	srv, app := newServer(t)
	ctx := context.Background()

	_, err := app.Users.SeedAdmin(ctx, "admin", "adminpass")
	require.NoError(t, err)
	admin := New(srv.URL, newSession(t))
	_, err = admin.Login(ctx, "admin", "adminpass")
	require.NoError(t, err)
	require.True(t, admin.Session().IsAdmin())
	movie, err := admin.CreateMovie(ctx, MovieInput{MovieTitle: "Heat", MovieGenre: "Crime"})
	require.NoError(t, err)

	session := newSession(t)
	c := New(srv.URL, session)
	age := 30
	p, err := c.Register(ctx, RegisterInput{Username: "alice", Password: "secret1", Age: &age})
	require.NoError(t, err)
	assert.Equal(t, RoleUser, p.Role)
	assert.Equal(t, Authenticated, session.State())

	reloaded := NewSessionStore(session.Path())
	state, err := reloaded.Load()
	require.NoError(t, err)
	assert.Equal(t, Authenticated, state)

	_, err = c.AddToList(ctx, Watchlist, movie.MovieID)
	require.NoError(t, err)
	_, err = c.AddToList(ctx, Watchlist, movie.MovieID)
	assert.True(t, HasStatus(err, "DuplicateRelation"), "got %v", err)

	entries, err := c.List(ctx, Watchlist)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Heat", entries[0].Movie.MovieTitle)
	assert.NotZero(t, entries[0].ID())

	require.NoError(t, c.RemoveFromList(ctx, Watchlist, movie.MovieID))
	entries, err = c.List(ctx, Watchlist)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = c.CreateMovie(ctx, MovieInput{MovieTitle: "Nope"})
	assert.ErrorIs(t, err, ErrAdminRequired)

	require.NoError(t, c.Logout())
	_, err = c.List(ctx, Favorites)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestClient_LoginFailure(t *testing.T) {
	srv, _ := newServer(t)
	c := New(srv.URL, newSession(t))

	_, err := c.Login(context.Background(), "ghost", "whatever")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials.", apiErr.Message)
	assert.Equal(t, Anonymous, c.Session().State())
}

func TestClient_ValidationErrors(t *testing.T) {
	srv, _ := newServer(t)
	c := New(srv.URL, newSession(t))

	_, err := c.Register(context.Background(), RegisterInput{Username: "a b", Password: "123"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "ValidationError", apiErr.Status)
	assert.Len(t, apiErr.Errors, 2)
	assert.Contains(t, apiErr.Error(), "password")
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"statusCode":401,"message":"Authentication required","status":"Unauthorized"}`))
	}))
	defer srv.Close()

	session := newSession(t)
	require.NoError(t, session.Save(Principal{UserID: 1, Username: "alice", Role: RoleUser, Token: "stale"}))
	c := New(srv.URL, session)

	_, err := c.List(context.Background(), Favorites)
	assert.True(t, HasStatus(err, "Unauthorized"))
	assert.Equal(t, Anonymous, session.State())
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, newSession(t)).Movies(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Status)
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, newSession(t)).Movies(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
}
