package movies

import (
	"context"
	"math"
	"movienest/src/cache"
	lists "movienest/src/modules/lists/services"
	lib "movienest/src/modules/movies/lib"
	movies "movienest/src/modules/movies/models"
	recommendations "movienest/src/modules/recommendations/models"
	trending "movienest/src/modules/trending/models"
	"movienest/src/utils"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	genresCacheKey = "movies:genres"
	yearsCacheKey  = "movies:years"
	cacheTTL       = 6 * time.Hour
)

type Service struct {
	db        *gorm.DB
	cache     *cache.Store
	watchlist *lists.WatchlistService
	favorites *lists.FavoriteService
}

func NewService(db *gorm.DB, store *cache.Store) *Service {
	return &Service{
		db:        db,
		cache:     store,
		watchlist: lists.NewWatchlistService(db),
		favorites: lists.NewFavoriteService(db),
	}
}

func (s *Service) List(ctx context.Context) ([]movies.Movie, error) {
	return s.Search(ctx, lib.Filter{})
}

func (s *Service) Get(ctx context.Context, id uint) (*movies.Movie, error) {
	var movie movies.Movie
	if err := s.db.WithContext(ctx).First(&movie, id).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NotFound("Movie %d not found", id)
		}
		return nil, err
	}
	return &movie, nil
}

func (s *Service) Create(ctx context.Context, req lib.MovieRequest) (*movies.Movie, error) {
	if err := checkTitle(req.MovieTitle); err != nil {
		return nil, err
	}
	movie := movies.Movie{Version: 1}
	applyRequest(&movie, req)

	if err := s.db.WithContext(ctx).Create(&movie).Error; err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, cache.TagCatalog)
	return &movie, nil
}

// Update replaces every editable field. When req.Version is set the write
// only lands if the stored version still matches; otherwise last writer wins.
func (s *Service) Update(ctx context.Context, id uint, req lib.MovieRequest) (*movies.Movie, error) {
	if req.MovieID != 0 && req.MovieID != id {
		return nil, utils.BadRequest("Movie ID mismatch")
	}
	if err := checkTitle(req.MovieTitle); err != nil {
		return nil, err
	}

	var next movies.Movie
	applyRequest(&next, req)

	q := s.db.WithContext(ctx).Model(&movies.Movie{}).Where("id = ?", id)
	if req.Version != nil {
		q = q.Where("version = ?", *req.Version)
	}
	res := q.Updates(map[string]any{
		"title":        next.Title,
		"genre":        next.Genre,
		"release_year": next.ReleaseYear,
		"img_url":      next.ImgURL,
		"rating":       next.Rating,
		"description":  next.Description,
		"duration":     next.Duration,
		"version":      gorm.Expr("version + 1"),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, utils.EditConflict("Movie %d was modified by another request", id)
	}

	s.cache.Invalidate(ctx, cache.TagCatalog)
	return s.Get(ctx, id)
}

// SetPoster points the movie at a stored poster image.
func (s *Service) SetPoster(ctx context.Context, id uint, url string) (*movies.Movie, error) {
	res := s.db.WithContext(ctx).Model(&movies.Movie{}).Where("id = ?", id).
		Updates(map[string]any{"img_url": url, "version": gorm.Expr("version + 1")})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, utils.NotFound("Movie %d not found", id)
	}
	s.cache.Invalidate(ctx, cache.TagCatalog)
	return s.Get(ctx, id)
}

// Delete removes the movie together with every list, recommendation and
// trending row that references it.
func (s *Service) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed, err := s.watchlist.DeleteByMovie(tx, id)
		if err != nil {
			return err
		}
		n, err := s.favorites.DeleteByMovie(tx, id)
		if err != nil {
			return err
		}
		removed += n

		for _, model := range []any{&recommendations.RecommendedMovie{}, &trending.TrendingMovie{}} {
			res := tx.Where("movie_id = ?", id).Delete(model)
			if res.Error != nil {
				return res.Error
			}
			removed += res.RowsAffected
		}

		res := tx.Delete(&movies.Movie{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.NotFound("Movie %d not found", id)
		}
		log.Info().Uint("movie_id", id).Int64("references", removed).Msg("[Movies] deleted movie")
		return nil
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cache.TagCatalog)
	return nil
}

func (s *Service) Search(ctx context.Context, f lib.Filter) ([]movies.Movie, error) {
	result := []movies.Movie{}
	q := f.Apply(s.db.WithContext(ctx).Model(&movies.Movie{}), lib.CatalogColumns)
	if err := q.Order("id").Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Genres lists each distinct genre tag across the catalog.
func (s *Service) Genres(ctx context.Context) ([]string, error) {
	return cache.Remember(ctx, s.cache, genresCacheKey, cache.TagCatalog, cacheTTL, s.loadGenres)
}

func (s *Service) loadGenres(ctx context.Context) ([]string, error) {
	var stored []string
	err := s.db.WithContext(ctx).Model(&movies.Movie{}).
		Where("genre IS NOT NULL AND genre <> ''").
		Pluck("genre", &stored).Error
	if err != nil {
		return nil, err
	}
	return lib.DistinctGenres(stored), nil
}

func (s *Service) Years(ctx context.Context) ([]int, error) {
	return cache.Remember(ctx, s.cache, yearsCacheKey, cache.TagCatalog, cacheTTL, s.loadYears)
}

func (s *Service) loadYears(ctx context.Context) ([]int, error) {
	years := []int{}
	err := s.db.WithContext(ctx).Model(&movies.Movie{}).
		Distinct().
		Where("release_year IS NOT NULL").
		Order("release_year").
		Pluck("release_year", &years).Error
	return years, err
}

// WarmCache recomputes the cached genre and year lists.
func (s *Service) WarmCache(ctx context.Context) error {
	genres, err := s.loadGenres(ctx)
	if err != nil {
		return err
	}
	years, err := s.loadYears(ctx)
	if err != nil {
		return err
	}
	cache.Put(ctx, s.cache, genresCacheKey, cache.TagCatalog, cacheTTL, genres)
	cache.Put(ctx, s.cache, yearsCacheKey, cache.TagCatalog, cacheTTL, years)
	return nil
}

func (s *Service) Dropdown(ctx context.Context) ([]lib.MovieOption, error) {
	options := []lib.MovieOption{}
	err := s.db.WithContext(ctx).Model(&movies.Movie{}).
		Select("id AS movie_id", "title AS movie_title").
		Order("title").
		Scan(&options).Error
	return options, err
}

func applyRequest(m *movies.Movie, req lib.MovieRequest) {
	m.Title = strings.TrimSpace(req.MovieTitle)
	m.Genre = lib.NormalizeGenres(req.MovieGenre)
	m.ReleaseYear = req.ReleaseYear
	m.ImgURL = strings.TrimSpace(req.ImgURL)
	m.Description = req.Description
	m.Duration = req.Duration
	m.Rating = nil
	if req.Rating != nil {
		r := math.Round(*req.Rating*10) / 10
		m.Rating = &r
	}
}

func checkTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return utils.Validation(utils.FieldError{PropertyName: "movieTitle", ErrorMessage: "Movie title is required"})
	}
	return nil
}
