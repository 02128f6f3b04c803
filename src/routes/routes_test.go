package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"movienest/src/auth"
	"movienest/src/testutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	t   *testing.T
	app *App
}

func newTestAPI(t *testing.T, rate float64, burst int) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app := NewApp(Deps{
		DB:            testutil.NewDB(t),
		Issuer:        auth.NewIssuer("test-secret", 0),
		RatePerSecond: rate,
		RateBurst:     burst,
	})
	return &testAPI{t: t, app: app}
}

func (a *testAPI) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.app.Router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type authBody struct {
	User struct {
		UserID uint   `json:"userId"`
		Role   string `json:"role"`
	} `json:"user"`
	Token string `json:"token"`
}

type errorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Status     string `json:"status"`
	Errors     []struct {
		PropertyName string `json:"propertyName"`
		ErrorMessage string `json:"errorMessage"`
	} `json:"errors"`
}

func (a *testAPI) adminToken() string {
	a.t.Helper()
	_, err := a.app.Users.SeedAdmin(context.Background(), "admin", "adminpass")
	require.NoError(a.t, err)
	w := a.do(http.MethodPost, "/api/v1/users/login", gin.H{"username": "admin", "password": "adminpass"}, "")
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return decode[authBody](a.t, w).Token
}

func (a *testAPI) createMovie(token, title string) uint {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/movies", gin.H{"movieTitle": title, "movieGenre": "Drama", "releaseYear": 2020}, token)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[struct {
		MovieID uint `json:"movieId"`
	}](a.t, w).MovieID
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, 100, 100)

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/healthz", nil, "").Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/readyz", nil, "").Code)
}

func TestWatchlistScenario(t *testing.T) {
	api := newTestAPI(t, 100, 100)
	admin := api.adminToken()
	var movieIDs []uint
	for i := 1; i <= 5; i++ {
		movieIDs = append(movieIDs, api.createMovie(admin, fmt.Sprintf("Movie %d", i)))
	}
	fifth := movieIDs[4]

	w := api.do(http.MethodPost, "/api/v1/users/register", gin.H{"username": "alice", "password": "secret1", "age": 30, "role": "admin"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	registered := decode[authBody](t, w)
	assert.Equal(t, "user", registered.User.Role)

	w = api.do(http.MethodPost, "/api/v1/users/login", gin.H{"username": "alice", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	alice := decode[authBody](t, w)

	w = api.do(http.MethodPost, "/api/v1/watchlist", gin.H{"userId": alice.User.UserID, "movieId": fifth}, alice.Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	entry := decode[struct {
		WatchlistID uint `json:"watchlistId"`
	}](t, w)

	w = api.do(http.MethodPost, "/api/v1/watchlist", gin.H{"movieId": fifth}, alice.Token)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DuplicateRelation", decode[errorBody](t, w).Status)

	type listed struct {
		MovieID uint `json:"movieId"`
		Movie   struct {
			MovieTitle string `json:"movieTitle"`
		} `json:"movie"`
	}
	w = api.do(http.MethodGet, fmt.Sprintf("/api/v1/watchlist/search?userId=%d", alice.User.UserID), nil, alice.Token)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[[]listed](t, w)
	require.Len(t, entries, 1)
	assert.Equal(t, fifth, entries[0].MovieID)
	assert.Equal(t, "Movie 5", entries[0].Movie.MovieTitle)

	w = api.do(http.MethodDelete, fmt.Sprintf("/api/v1/watchlist/%d", entry.WatchlistID), nil, alice.Token)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(http.MethodGet, "/api/v1/watchlist", nil, alice.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]listed](t, w))
}

func TestFavoritesRemoveByPairAndUserLists(t *testing.T) {
	api := newTestAPI(t, 100, 100)
	admin := api.adminToken()
	movie := api.createMovie(admin, "Amelie")

	w := api.do(http.MethodPost, "/api/v1/users/register", gin.H{"username": "bob", "password": "secret1"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	bob := decode[authBody](t, w)

	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/favorites", gin.H{"movieId": movie}, bob.Token).Code)
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/watchlist", gin.H{"movieId": movie}, bob.Token).Code)

	w = api.do(http.MethodDelete, fmt.Sprintf("/api/v1/favorites?userId=%d&movieId=%d", bob.User.UserID, movie), nil, bob.Token)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = api.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/lists", bob.User.UserID), nil, bob.Token)
	require.Equal(t, http.StatusOK, w.Code)
	lists := decode[struct {
		Watchlist []json.RawMessage `json:"watchlist"`
		Favorites []json.RawMessage `json:"favorites"`
	}](t, w)
	assert.Len(t, lists.Watchlist, 1)
	assert.Empty(t, lists.Favorites)
}

func TestListsAreScopedToOwner(t *testing.T) {
	api := newTestAPI(t, 100, 100)
	admin := api.adminToken()
	movie := api.createMovie(admin, "Heat")

	w := api.do(http.MethodPost, "/api/v1/users/register", gin.H{"username": "carol", "password": "secret1"}, "")
	carol := decode[authBody](t, w)
	w = api.do(http.MethodPost, "/api/v1/users/register", gin.H{"username": "dave", "password": "secret1"}, "")
	dave := decode[authBody](t, w)

	w = api.do(http.MethodPost, "/api/v1/watchlist", gin.H{"userId": dave.User.UserID, "movieId": movie}, carol.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodGet, fmt.Sprintf("/api/v1/watchlist/search?userId=%d", dave.User.UserID), nil, carol.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodPost, "/api/v1/watchlist", gin.H{"userId": dave.User.UserID, "movieId": movie}, admin)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = api.do(http.MethodGet, "/api/v1/watchlist", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	api := newTestAPI(t, 100, 100)
	w := api.do(http.MethodPost, "/api/v1/users/register", gin.H{"username": "erin", "password": "secret1"}, "")
	erin := decode[authBody](t, w)

	w = api.do(http.MethodPost, "/api/v1/movies", gin.H{"movieTitle": "Nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", decode[errorBody](t, w).Status)

	w = api.do(http.MethodPost, "/api/v1/movies", gin.H{"movieTitle": "Nope"}, erin.Token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", decode[errorBody](t, w).Status)

	w = api.do(http.MethodGet, "/api/v1/movies", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestValidationBody(t *testing.T) {
	api := newTestAPI(t, 100, 100)
	admin := api.adminToken()

	w := api.do(http.MethodPost, "/api/v1/movies", gin.H{"movieTitle": "", "rating": 11}, admin)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, 400, body.StatusCode)
	assert.Equal(t, "Validation failed", body.Message)
	assert.Equal(t, "ValidationError", body.Status)
	props := map[string]string{}
	for _, e := range body.Errors {
		props[e.PropertyName] = e.ErrorMessage
	}
	assert.Equal(t, "Movie title is required", props["movieTitle"])
	assert.Contains(t, props, "rating")

	w = api.do(http.MethodPost, "/api/v1/users/register", gin.H{"username": "a b", "password": "123"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, decode[errorBody](t, w).Errors, 2)

	w = api.do(http.MethodGet, "/api/v1/movies/search?year=soon", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/api/v1/movies/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMovieVersionConflict(t *testing.T) {
	api := newTestAPI(t, 100, 100)
	admin := api.adminToken()
	id := api.createMovie(admin, "Heat")
	path := fmt.Sprintf("/api/v1/movies/%d", id)

	w := api.do(http.MethodPut, path, gin.H{"movieId": id, "movieTitle": "Heat v2", "version": 1}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodPut, path, gin.H{"movieId": id, "movieTitle": "Heat stale", "version": 1}, admin)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EditConflict", decode[errorBody](t, w).Status)

	w = api.do(http.MethodPut, path, gin.H{"movieId": id + 1, "movieTitle": "Heat"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, path, nil, "")
	assert.Equal(t, "Heat v2", decode[struct {
		MovieTitle string `json:"movieTitle"`
	}](t, w).MovieTitle)

	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, path, nil, admin).Code)
	w = api.do(http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NotFound", decode[errorBody](t, w).Status)
}

func TestLoginFailureIsGeneric(t *testing.T) {
	api := newTestAPI(t, 100, 100)
	api.do(http.MethodPost, "/api/v1/users/register", gin.H{"username": "frank", "password": "secret1"}, "")

	wrong := api.do(http.MethodPost, "/api/v1/users/login", gin.H{"username": "frank", "password": "badpass"}, "")
	unknown := api.do(http.MethodPost, "/api/v1/users/login", gin.H{"username": "nobody", "password": "badpass"}, "")

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, "Invalid credentials.", decode[errorBody](t, wrong).Message)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestLoginIsRateLimited(t *testing.T) {
	api := newTestAPI(t, 0.001, 2)
	login := gin.H{"username": "ghost", "password": "whatever"}

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/v1/users/login", login, "").Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/v1/users/login", login, "").Code)

	w := api.do(http.MethodPost, "/api/v1/users/login", login, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "TooManyRequests", decode[errorBody](t, w).Status)
}

func TestRecommendedAndTrending(t *testing.T) {
	api := newTestAPI(t, 100, 100)
	admin := api.adminToken()
	movie := api.createMovie(admin, "Dune")

	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/v1/recommended", gin.H{"movieId": movie}, admin).Code)
	w := api.do(http.MethodPost, "/api/v1/recommended", gin.H{"movieId": movie}, admin)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodGet, "/api/v1/recommended", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]json.RawMessage](t, w), 1)

	for _, score := range []float64{2, 8.5} {
		w = api.do(http.MethodPost, "/api/v1/trending", gin.H{"movieId": movie, "trendingScore": score}, admin)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	w = api.do(http.MethodGet, "/api/v1/trending/score-range", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"min":2,"max":8.5,"average":5.25}`, w.Body.String())

	w = api.do(http.MethodGet, "/api/v1/trending/top?count=1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]json.RawMessage](t, w), 1)
}

func TestUpcomingRoutes(t *testing.T) {
	api := newTestAPI(t, 100, 100)
	admin := api.adminToken()

	w := api.do(http.MethodPost, "/api/v1/upcoming-movies", gin.H{"movieTitle": "Later", "movieGenre": "Action", "releaseDate": "2999-01-01"}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(http.MethodPost, "/api/v1/upcoming-movies", gin.H{"movieTitle": "Past", "releaseDate": "2000-01-01"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/api/v1/upcoming-movies/upcoming", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]json.RawMessage](t, w), 1)

	w = api.do(http.MethodGet, "/api/v1/upcoming-movies/genres", nil, "")
	assert.JSONEq(t, `["Action"]`, w.Body.String())
}

func TestRoleChangesApplyToIssuedTokens(t *testing.T) {
	api := newTestAPI(t, 100, 100)
	admin := api.adminToken()

	w := api.do(http.MethodPost, "/api/v1/users/register", gin.H{"username": "helen", "password": "secret1"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	helen := decode[authBody](t, w)
	rolePath := fmt.Sprintf("/api/v1/users/%d/role", helen.User.UserID)

	require.Equal(t, http.StatusOK, api.do(http.MethodPut, rolePath, gin.H{"role": "admin"}, admin).Code)
	w = api.do(http.MethodPost, "/api/v1/users/login", gin.H{"username": "helen", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	promoted := decode[authBody](t, w).Token

	w = api.do(http.MethodPost, "/api/v1/movies", gin.H{"movieTitle": "Ran"}, promoted)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Equal(t, http.StatusOK, api.do(http.MethodPut, rolePath, gin.H{"role": "user"}, admin).Code)
	w = api.do(http.MethodPost, "/api/v1/movies", gin.H{"movieTitle": "Kagemusha"}, promoted)
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", helen.User.UserID), nil, admin).Code)
	w = api.do(http.MethodGet, "/api/v1/watchlist", nil, promoted)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", decode[errorBody](t, w).Status)
}
