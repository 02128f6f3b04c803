package lists

import (
	"context"
	"fmt"
	"movienest/src/auth"
	"movienest/src/middlewares"
	lists "movienest/src/modules/lists/services"
	users "movienest/src/modules/users/models"
	"movienest/src/testutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordedEvents struct {
	mu     sync.Mutex
	events []string
}

func (r *recordedEvents) Publish(eventType string, id uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf("%s:%d", eventType, id))
}

type dbAccounts struct{ db *gorm.DB }

func (a dbAccounts) Get(ctx context.Context, id uint) (*users.User, error) {
	var u users.User
	if err := a.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func TestDeleteEventsCarryEntryID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	user := testutil.SeedUser(t, db, "alice", users.RoleUser)
	testutil.SeedMovie(t, db, "Filler", "Drama", 2000)
	first := testutil.SeedMovie(t, db, "Arrival", "Sci-Fi", 2016)
	second := testutil.SeedMovie(t, db, "Sicario", "Crime", 2015)

	service := lists.NewWatchlistService(db)
	events := &recordedEvents{}
	h := NewController(service, events)
	issuer := auth.NewIssuer("secret", 0)

	r := gin.New()
	r.Use(middlewares.ErrorHandler())
	g := r.Group("/watchlist", auth.RequireAuth(issuer, dbAccounts{db: db}))
	g.DELETE(":id", h.RemoveEntry)
	g.DELETE("", h.RemoveByPair)

	token, err := issuer.Issue(auth.Principal{UserID: user.ID, Username: user.Username, Role: user.Role})
	require.NoError(t, err)
	ctx := context.Background()
	byID, err := service.Add(ctx, user.ID, first.ID)
	require.NoError(t, err)
	byPair, err := service.Add(ctx, user.ID, second.ID)
	require.NoError(t, err)
	require.NotEqual(t, byPair.ID, second.ID)

	for _, path := range []string{
		fmt.Sprintf("/watchlist/%d", byID.ID),
		fmt.Sprintf("/watchlist?movieId=%d", second.ID),
	} {
		req := httptest.NewRequest(http.MethodDelete, path, strings.NewReader(""))
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	}

	assert.Equal(t, []string{
		fmt.Sprintf("watchlist.deleted:%d", byID.ID),
		fmt.Sprintf("watchlist.deleted:%d", byPair.ID),
	}, events.events)
}
