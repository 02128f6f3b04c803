package upcoming

import (
	"context"
	"movienest/src/cache"
	catalog "movienest/src/modules/movies/lib"
	lib "movienest/src/modules/upcoming/lib"
	upcoming "movienest/src/modules/upcoming/models"
	"movienest/src/utils"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	genresCacheKey = "upcoming:genres"
	yearsCacheKey  = "upcoming:years"
	cacheTTL       = 6 * time.Hour
)

type Service struct {
	db    *gorm.DB
	cache *cache.Store
	now   func() time.Time
}

func NewService(db *gorm.DB, store *cache.Store) *Service {
	return &Service{db: db, cache: store, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]upcoming.UpcomingMovie, error) {
	return s.Search(ctx, catalog.Filter{})
}

func (s *Service) Get(ctx context.Context, id uint) (*upcoming.UpcomingMovie, error) {
	var movie upcoming.UpcomingMovie
	if err := s.db.WithContext(ctx).First(&movie, id).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NotFound("Upcoming movie %d not found", id)
		}
		return nil, err
	}
	return &movie, nil
}

// Create requires a release date in the future.
func (s *Service) Create(ctx context.Context, req lib.UpcomingRequest) (*upcoming.UpcomingMovie, error) {
	var movie upcoming.UpcomingMovie
	if err := apply(&movie, req); err != nil {
		return nil, err
	}
	if !movie.ReleaseDate.After(s.now()) {
		return nil, utils.Validation(utils.FieldError{PropertyName: "releaseDate", ErrorMessage: "Release date must be in the future"})
	}
	if err := s.db.WithContext(ctx).Create(&movie).Error; err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.TagUpcoming)
	return &movie, nil
}

// Update allows past release dates so released titles can still be edited.
func (s *Service) Update(ctx context.Context, id uint, req lib.UpcomingRequest) (*upcoming.UpcomingMovie, error) {
	if req.UpcomingID != 0 && req.UpcomingID != id {
		return nil, utils.BadRequest("Upcoming movie ID mismatch")
	}
	var next upcoming.UpcomingMovie
	if err := apply(&next, req); err != nil {
		return nil, err
	}

	res := s.db.WithContext(ctx).Model(&upcoming.UpcomingMovie{}).Where("id = ?", id).Updates(map[string]any{
		"title":        next.Title,
		"genre":        next.Genre,
		"release_year": next.ReleaseYear,
		"img_url":      next.ImgURL,
		"description":  next.Description,
		"duration":     next.Duration,
		"release_date": next.ReleaseDate,
		"trailer_url":  next.TrailerURL,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.NotFound("Upcoming movie %d not found", id)
	}
	s.cache.Invalidate(ctx, cache.TagUpcoming)
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&upcoming.UpcomingMovie{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.NotFound("Upcoming movie %d not found", id)
	}
	s.cache.Invalidate(ctx, cache.TagUpcoming)
	return nil
}

func (s *Service) Search(ctx context.Context, f catalog.Filter) ([]upcoming.UpcomingMovie, error) {
	out := []upcoming.UpcomingMovie{}
	q := f.Apply(s.db.WithContext(ctx).Model(&upcoming.UpcomingMovie{}), catalog.CatalogColumns)
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Upcoming lists titles not yet released, soonest first.
func (s *Service) Upcoming(ctx context.Context) ([]upcoming.UpcomingMovie, error) {
	out := []upcoming.UpcomingMovie{}
	err := s.db.WithContext(ctx).
		Where("release_date > ?", s.now()).
		Order("release_date").Order("id").
		Find(&out).Error
	return out, err
}

func (s *Service) Genres(ctx context.Context) ([]string, error) {
	return cache.Remember(ctx, s.cache, genresCacheKey, cache.TagUpcoming, cacheTTL, s.loadGenres)
}

func (s *Service) loadGenres(ctx context.Context) ([]string, error) {
	var stored []string
	err := s.db.WithContext(ctx).Model(&upcoming.UpcomingMovie{}).
		Where("genre IS NOT NULL AND genre <> ''").
		Pluck("genre", &stored).Error
	if err != nil {
		return nil, err
	}
	return catalog.DistinctGenres(stored), nil
}

func (s *Service) Years(ctx context.Context) ([]int, error) {
	return cache.Remember(ctx, s.cache, yearsCacheKey, cache.TagUpcoming, cacheTTL, s.loadYears)
}

func (s *Service) loadYears(ctx context.Context) ([]int, error) {
	years := []int{}
	err := s.db.WithContext(ctx).Model(&upcoming.UpcomingMovie{}).
		Distinct().
		Where("release_year IS NOT NULL").
		Order("release_year").
		Pluck("release_year", &years).Error
	return years, err
}

func (s *Service) WarmCache(ctx context.Context) error {
	genres, err := s.loadGenres(ctx)
	if err != nil {
		return err
	}
	years, err := s.loadYears(ctx)
	if err != nil {
		return err
	}
	cache.Put(ctx, s.cache, genresCacheKey, cache.TagUpcoming, cacheTTL, genres)
	cache.Put(ctx, s.cache, yearsCacheKey, cache.TagUpcoming, cacheTTL, years)
	return nil
}

func apply(m *upcoming.UpcomingMovie, req lib.UpcomingRequest) error {
	title := strings.TrimSpace(req.MovieTitle)
	if title == "" {
		return utils.Validation(utils.FieldError{PropertyName: "movieTitle", ErrorMessage: "Movie title is required"})
	}
	date, ok := lib.ParseReleaseDate(req.ReleaseDate)
	if !ok {
		return utils.Validation(utils.FieldError{PropertyName: "releaseDate", ErrorMessage: "Release date must be a valid date"})
	}

	m.Title = title
	m.Genre = catalog.NormalizeGenres(req.MovieGenre)
	m.ReleaseYear = req.ReleaseYear
	m.ImgURL = strings.TrimSpace(req.ImgURL)
	m.Description = req.Description
	m.Duration = req.Duration
	m.ReleaseDate = date
	m.TrailerURL = nil
	if req.TrailerURL != nil && strings.TrimSpace(*req.TrailerURL) != "" {
		trailer := strings.TrimSpace(*req.TrailerURL)
		m.TrailerURL = &trailer
	}
	return nil
}
