package recommendations

import (
	"context"
	"movienest/src/cache"
	movies "movienest/src/modules/movies/models"
	lib "movienest/src/modules/recommendations/lib"
	recommendations "movienest/src/modules/recommendations/models"
	"movienest/src/utils"
	"time"

	"gorm.io/gorm"
)

const (
	listCacheKey = "recommended:all"
	listCacheTTL = 30 * time.Minute
)

type Service struct {
	db    *gorm.DB
	cache *cache.Store
}

func NewService(db *gorm.DB, store *cache.Store) *Service {
	return &Service{db: db, cache: store}
}

// Add recommends movieID. A movie can be recommended at most once.
func (s *Service) Add(ctx context.Context, movieID uint) (*recommendations.RecommendedMovie, error) {
	if err := s.check(ctx, movieID, 0); err != nil {
		return nil, err
	}
	rec := recommendations.RecommendedMovie{MovieID: movieID}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			return nil, duplicate(movieID)
		}
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.TagCatalog)
	return s.Get(ctx, rec.ID)
}

func (s *Service) Get(ctx context.Context, id uint) (*recommendations.RecommendedMovie, error) {
	var rec recommendations.RecommendedMovie
	if err := s.db.WithContext(ctx).Preload("Movie").First(&rec, id).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NotFound("Recommendation %d not found", id)
		}
		return nil, err
	}
	return &rec, nil
}

func (s *Service) Update(ctx context.Context, id uint, req lib.RecommendationRequest) (*recommendations.RecommendedMovie, error) {
	if req.RecID != 0 && req.RecID != id {
		return nil, utils.BadRequest("Recommendation ID mismatch")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.check(ctx, req.MovieID, id); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Model(&recommendations.RecommendedMovie{}).
		Where("id = ?", id).
		Update("movie_id", req.MovieID).Error
	if err != nil {
		if utils.IsDuplicateKey(err) {
			return nil, duplicate(req.MovieID)
		}
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.TagCatalog)
	return s.Get(ctx, id)
}

func (s *Service) Remove(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&recommendations.RecommendedMovie{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.NotFound("Recommendation %d not found", id)
	}
	s.cache.Invalidate(ctx, cache.TagCatalog)
	return nil
}

func (s *Service) List(ctx context.Context) ([]recommendations.RecommendedMovie, error) {
	return cache.Remember(ctx, s.cache, listCacheKey, cache.TagCatalog, listCacheTTL, func(ctx context.Context) ([]recommendations.RecommendedMovie, error) {
		return s.SearchByMovie(ctx, nil)
	})
}

func (s *Service) SearchByMovie(ctx context.Context, movieID *uint) ([]recommendations.RecommendedMovie, error) {
	q := s.db.WithContext(ctx).Preload("Movie")
	if movieID != nil {
		q = q.Where("movie_id = ?", *movieID)
	}
	out := []recommendations.RecommendedMovie{}
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) check(ctx context.Context, movieID, exceptID uint) error {
	db := s.db.WithContext(ctx)
	if err := movies.EnsureExists(db, movieID); err != nil {
		return err
	}

	var count int64
	q := db.Model(&recommendations.RecommendedMovie{}).Where("movie_id = ?", movieID)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return duplicate(movieID)
	}
	return nil
}

func duplicate(movieID uint) error {
	return utils.Duplicate("Movie %d is already recommended", movieID)
}
