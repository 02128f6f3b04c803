package trending

import (
	"context"
	lib "movienest/src/modules/trending/lib"
	"movienest/src/testutil"
	"movienest/src/utils"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func score(v float64) *float64 { return &v }

func seed(t *testing.T, svc *Service, db *gorm.DB, scores ...float64) []uint {
	t.Helper()
	var ids []uint
	for i, s := range scores {
		m := testutil.SeedMovie(t, db, string(rune('A'+i)), "", 2000+i)
		item, err := svc.Create(context.Background(), lib.TrendingRequest{MovieID: m.ID, TrendingScore: score(s)})
		require.NoError(t, err)
		ids = append(ids, item.ID)
	}
	return ids
}

func TestCreate(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db)
	m := testutil.SeedMovie(t, db, "Dune", "Sci-Fi", 2021)

	item, err := svc.Create(context.Background(), lib.TrendingRequest{MovieID: m.ID})
	require.NoError(t, err)
	assert.Zero(t, item.TrendingScore)
	require.NotNil(t, item.Movie)
	assert.Equal(t, "Dune", item.Movie.Title)

	_, err = svc.Create(context.Background(), lib.TrendingRequest{MovieID: m.ID + 5})
	assert.True(t, utils.IsKind(err, utils.KindNotFound))
}

func TestListOrdersByScore(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db)
	seed(t, svc, db, 3, 9.5, 6)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []float64{9.5, 6, 3}, []float64{list[0].TrendingScore, list[1].TrendingScore, list[2].TrendingScore})
}

func TestSearchAndTop(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db)
	seed(t, svc, db, 1, 5, 7.5, 9)

	found, err := svc.Search(context.Background(), lib.Filter{MinScore: score(5), MaxScore: score(8)})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, 7.5, found[0].TrendingScore)

	top, err := svc.Top(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, 9.0, top[0].TrendingScore)

	all, err := svc.Top(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestUpdateKeepsScoreWhenOmitted(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db)
	ids := seed(t, svc, db, 4.25)
	other := testutil.SeedMovie(t, db, "Other", "", 1990)

	updated, err := svc.Update(context.Background(), ids[0], lib.TrendingRequest{MovieID: other.ID})
	require.NoError(t, err)
	assert.Equal(t, other.ID, updated.MovieID)
	assert.Equal(t, 4.25, updated.TrendingScore)

	_, err = svc.Update(context.Background(), ids[0], lib.TrendingRequest{TrendingID: ids[0] + 1, MovieID: other.ID})
	assert.True(t, utils.IsKind(err, utils.KindBadRequest))
}

func TestScoreRange(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db)

	empty, err := svc.ScoreRange(context.Background())
	require.NoError(t, err)
	assert.Zero(t, empty)

	seed(t, svc, db, 1, 2, 2)
	r, err := svc.ScoreRange(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, r.Min)
	assert.Equal(t, 2.0, r.Max)
	assert.Equal(t, 1.67, r.Average)
}

func TestDelete(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewService(db)
	ids := seed(t, svc, db, 1)

	require.NoError(t, svc.Delete(context.Background(), ids[0]))
	assert.True(t, utils.IsKind(svc.Delete(context.Background(), ids[0]), utils.KindNotFound))
}
