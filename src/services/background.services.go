package services

import (
	"context"
	"movienest/src/cache"
	lists "movienest/src/modules/lists/models"
	recommendations "movienest/src/modules/recommendations/models"
	trending "movienest/src/modules/trending/models"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const jobTimeout = 2 * time.Minute

// CacheWarmer recomputes a service's cached lookups.
type CacheWarmer interface {
	WarmCache(ctx context.Context) error
}

// SetupBackgroundJobs starts the orphan sweep and the cache warm-up. The
// returned scheduler is stopped on shutdown.
func SetupBackgroundJobs(db *gorm.DB, store *cache.Store, warmers ...CacheWarmer) *cron.Cron {
	c := cron.New()

	_, _ = c.AddFunc("@every 15m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if _, err := SweepOrphans(ctx, db, store); err != nil {
			log.Error().Err(err).Msg("[Sweep] failed")
		}
	})
	_, _ = c.AddFunc("@every 10m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		WarmCaches(ctx, warmers...)
	})

	c.Start()
	log.Info().Int("warmers", len(warmers)).Msg("[Cron] Background jobs initialized")
	return c
}

// SweepOrphans deletes list, recommendation and trending rows whose movie or
// user no longer exists. Catalog cache entries are dropped when anything was
// removed.
func SweepOrphans(ctx context.Context, db *gorm.DB, store *cache.Store) (int64, error) {
	const (
		noMovie = "movie_id NOT IN (SELECT id FROM movies)"
		noUser  = "user_id NOT IN (SELECT id FROM users)"
	)
	var total int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		steps := []struct {
			model any
			where string
		}{
			{&lists.WatchlistEntry{}, noMovie + " OR " + noUser},
			{&lists.FavoriteEntry{}, noMovie + " OR " + noUser},
			{&recommendations.RecommendedMovie{}, noMovie},
			{&trending.TrendingMovie{}, noMovie},
		}
		for _, step := range steps {
			res := tx.Where(step.where).Delete(step.model)
			if res.Error != nil {
				return res.Error
			}
			total += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if total > 0 {
		store.Invalidate(ctx, cache.TagCatalog)
		log.Info().Int64("rows", total).Msg("[Sweep] removed orphaned rows")
	}
	return total, nil
}

// WarmCaches runs every warmer, logging failures.
func WarmCaches(ctx context.Context, warmers ...CacheWarmer) {
	for _, w := range warmers {
		if err := w.WarmCache(ctx); err != nil {
			log.Warn().Err(err).Msg("[Cache] warm-up failed")
		}
	}
}
