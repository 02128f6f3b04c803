package trending

import (
	"context"
	"math"
	movies "movienest/src/modules/movies/models"
	lib "movienest/src/modules/trending/lib"
	trending "movienest/src/modules/trending/models"
	"movienest/src/utils"

	"gorm.io/gorm"
)

const (
	DefaultTopCount = 10
	maxTopCount     = 100
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns every entry, highest score first.
func (s *Service) List(ctx context.Context) ([]trending.TrendingMovie, error) {
	return s.Search(ctx, lib.Filter{})
}

func (s *Service) Get(ctx context.Context, id uint) (*trending.TrendingMovie, error) {
	var item trending.TrendingMovie
	if err := s.db.WithContext(ctx).Preload("Movie").First(&item, id).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NotFound("Trending movie %d not found", id)
		}
		return nil, err
	}
	return &item, nil
}

func (s *Service) Create(ctx context.Context, req lib.TrendingRequest) (*trending.TrendingMovie, error) {
	if err := s.checkMovie(ctx, req.MovieID); err != nil {
		return nil, err
	}
	item := trending.TrendingMovie{MovieID: req.MovieID}
	if req.TrendingScore != nil {
		item.TrendingScore = roundScore(*req.TrendingScore)
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, item.ID)
}

// Update re-points the entry; a missing score keeps the current one.
func (s *Service) Update(ctx context.Context, id uint, req lib.TrendingRequest) (*trending.TrendingMovie, error) {
	if req.TrendingID != 0 && req.TrendingID != id {
		return nil, utils.BadRequest("Trending movie ID mismatch")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.checkMovie(ctx, req.MovieID); err != nil {
		return nil, err
	}

	changes := map[string]any{"movie_id": req.MovieID}
	if req.TrendingScore != nil {
		changes["trending_score"] = roundScore(*req.TrendingScore)
	}
	if err := s.db.WithContext(ctx).Model(&trending.TrendingMovie{}).Where("id = ?", id).Updates(changes).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&trending.TrendingMovie{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.NotFound("Trending movie %d not found", id)
	}
	return nil
}

func (s *Service) Search(ctx context.Context, f lib.Filter) ([]trending.TrendingMovie, error) {
	q := s.db.WithContext(ctx).Preload("Movie")
	if f.MovieID != nil {
		q = q.Where("movie_id = ?", *f.MovieID)
	}
	if f.MinScore != nil {
		q = q.Where("trending_score >= ?", *f.MinScore)
	}
	if f.MaxScore != nil {
		q = q.Where("trending_score <= ?", *f.MaxScore)
	}
	out := []trending.TrendingMovie{}
	if err := q.Order("trending_score DESC").Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Top returns the count highest-scored entries. Non-positive counts use the
// default.
func (s *Service) Top(ctx context.Context, count int) ([]trending.TrendingMovie, error) {
	if count <= 0 {
		count = DefaultTopCount
	}
	count = min(count, maxTopCount)

	out := []trending.TrendingMovie{}
	err := s.db.WithContext(ctx).Preload("Movie").
		Order("trending_score DESC").Order("id").
		Limit(count).
		Find(&out).Error
	return out, err
}

// ScoreRange reports zeros when there are no entries.
func (s *Service) ScoreRange(ctx context.Context) (trending.ScoreRange, error) {
	var row struct {
		Count   int64
		Min     float64
		Max     float64
		Average float64
	}
	err := s.db.WithContext(ctx).Model(&trending.TrendingMovie{}).
		Select("COUNT(*) AS count, COALESCE(MIN(trending_score), 0) AS min, COALESCE(MAX(trending_score), 0) AS max, COALESCE(AVG(trending_score), 0) AS average").
		Scan(&row).Error
	if err != nil {
		return trending.ScoreRange{}, err
	}
	if row.Count == 0 {
		return trending.ScoreRange{}, nil
	}
	return trending.ScoreRange{
		Min:     row.Min,
		Max:     row.Max,
		Average: math.Round(row.Average*100) / 100,
	}, nil
}

func (s *Service) checkMovie(ctx context.Context, movieID uint) error {
	return movies.EnsureExists(s.db.WithContext(ctx), movieID)
}

func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
