package upcoming

import (
	"context"
	catalog "movienest/src/modules/movies/lib"
	lib "movienest/src/modules/upcoming/lib"
	"movienest/src/testutil"
	"movienest/src/utils"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(testutil.NewDB(t), nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func request(title, genre, date string) lib.UpcomingRequest {
	return lib.UpcomingRequest{MovieTitle: title, MovieGenre: genre, ReleaseDate: date, ReleaseYear: testutil.IntPtr(2026)}
}

func TestCreate_RequiresFutureDate(t *testing.T) {
	svc := newService(t)

	_, err := svc.Create(context.Background(), request("Old", "Drama", "2025-12-31"))
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	_, err = svc.Create(context.Background(), request("Bad", "Drama", "soon"))
	assert.True(t, utils.IsKind(err, utils.KindValidation))

	m, err := svc.Create(context.Background(), request("New", "Drama, drama", "2026-03-01"))
	require.NoError(t, err)
	assert.Equal(t, "Drama", m.Genre)
}

func TestUpdate_AllowsPastDate(t *testing.T) {
	svc := newService(t)
	m, err := svc.Create(context.Background(), request("New", "Drama", "2026-03-01"))
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), m.ID, request("New (released)", "Drama", "2026-01-01"))
	require.NoError(t, err)
	assert.Equal(t, "New (released)", updated.Title)

	_, err = svc.Update(context.Background(), m.ID+9, request("x", "", "2026-03-01"))
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestUpcoming_FutureOnlyAscending(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	late, err := svc.Create(ctx, request("Late", "", "2026-09-01"))
	require.NoError(t, err)
	soon, err := svc.Create(ctx, request("Soon", "", "2026-02-01"))
	require.NoError(t, err)
	released, err := svc.Create(ctx, request("Released", "", "2026-02-10"))
	require.NoError(t, err)
	_, err = svc.Update(ctx, released.ID, request("Released", "", "2025-06-01"))
	require.NoError(t, err)

	list, err := svc.Upcoming(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, soon.ID, list[0].ID)
	assert.Equal(t, late.ID, list[1].ID)
}

func TestSearchGenresYears(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	for _, r := range []lib.UpcomingRequest{
		request("Mission", "Action,Spy", "2026-05-01"),
		request("Romcom", "Comedy,Romance", "2026-06-01"),
		{MovieTitle: "Epic", MovieGenre: "Action-Adventure", ReleaseDate: "2027-01-01", ReleaseYear: testutil.IntPtr(2027)},
	} {
		_, err := svc.Create(ctx, r)
		require.NoError(t, err)
	}

	found, err := svc.Search(ctx, catalog.Filter{Genre: "action"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Mission", found[0].Title)

	found, err = svc.Search(ctx, catalog.Filter{Year: testutil.IntPtr(2027)})
	require.NoError(t, err)
	require.Len(t, found, 1)

	genres, err := svc.Genres(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Action", "Action-Adventure", "Comedy", "Romance", "Spy"}, genres)

	years, err := svc.Years(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2026, 2027}, years)
}

func TestDelete(t *testing.T) {
	svc := newService(t)
	m, err := svc.Create(context.Background(), request("New", "", "2026-03-01"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), m.ID))
	_, err = svc.Get(context.Background(), m.ID)
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}
