package lists

import (
	"context"
	lists "movienest/src/modules/lists/models"
	movies "movienest/src/modules/movies/models"
	users "movienest/src/modules/users/models"
	"movienest/src/utils"

	"gorm.io/gorm"
)

// Entry is satisfied by the pointer types of every per-user list model.
type Entry[E any] interface {
	*E
	EntryID() uint
	Pair() (uint, uint)
	SetPair(userID, movieID uint)
}

// Service keeps one relation of (user, movie) pairs. The same code backs the
// watchlist and the favorites.
type Service[E any, P Entry[E]] struct {
	db   *gorm.DB
	noun string
}

type (
	WatchlistService = Service[lists.WatchlistEntry, *lists.WatchlistEntry]
	FavoriteService  = Service[lists.FavoriteEntry, *lists.FavoriteEntry]
)

func NewWatchlistService(db *gorm.DB) *WatchlistService {
	return &WatchlistService{db: db, noun: "watchlist"}
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db, noun: "favorites"}
}

// Noun names the relation in messages and event types.
func (s *Service[E, P]) Noun() string {
	return s.noun
}

func (s *Service[E, P]) Add(ctx context.Context, userID, movieID uint) (*E, error) {
	db := s.db.WithContext(ctx)
	if err := checkRefs(db, userID, movieID); err != nil {
		return nil, err
	}
	if err := s.checkPair(db, userID, movieID, 0); err != nil {
		return nil, err
	}

	item := P(new(E))
	item.SetPair(userID, movieID)
	if err := db.Create(item).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			return nil, s.duplicate(movieID)
		}
		return nil, err
	}
	return s.Get(ctx, item.EntryID())
}

func (s *Service[E, P]) Get(ctx context.Context, id uint) (*E, error) {
	item := new(E)
	if err := s.db.WithContext(ctx).Preload("Movie").First(item, id).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NotFound("No %s entry with id %d", s.noun, id)
		}
		return nil, err
	}
	return item, nil
}

// Update re-points an entry under the same rules as Add.
func (s *Service[E, P]) Update(ctx context.Context, id, userID, movieID uint) (*E, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	if err := checkRefs(db, userID, movieID); err != nil {
		return nil, err
	}
	if err := s.checkPair(db, userID, movieID, id); err != nil {
		return nil, err
	}

	err = db.Model(P(item)).Updates(map[string]any{"user_id": userID, "movie_id": movieID}).Error
	if err != nil {
		if utils.IsDuplicateKey(err) {
			return nil, s.duplicate(movieID)
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service[E, P]) Remove(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(P(new(E)), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.NotFound("No %s entry with id %d", s.noun, id)
	}
	return nil
}

// RemoveByPair deletes the entry for (userID, movieID) and returns its id.
func (s *Service[E, P]) RemoveByPair(ctx context.Context, userID, movieID uint) (uint, error) {
	var id uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item := P(new(E))
		if err := tx.Where("user_id = ? AND movie_id = ?", userID, movieID).First(item).Error; err != nil {
			if utils.IsNotFound(err) {
				return utils.NotFound("Movie %d is not in the %s of user %d", movieID, s.noun, userID)
			}
			return err
		}
		id = item.EntryID()
		return tx.Delete(item).Error
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Service[E, P]) ListByUser(ctx context.Context, userID uint) ([]E, error) {
	return s.Search(ctx, &userID, nil)
}

// Search filters by either id; with neither it returns every entry.
func (s *Service[E, P]) Search(ctx context.Context, userID, movieID *uint) ([]E, error) {
	q := s.db.WithContext(ctx).Preload("Movie")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	if movieID != nil {
		q = q.Where("movie_id = ?", *movieID)
	}
	out := []E{}
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByMovie runs inside the caller's transaction.
func (s *Service[E, P]) DeleteByMovie(tx *gorm.DB, movieID uint) (int64, error) {
	res := tx.Where("movie_id = ?", movieID).Delete(P(new(E)))
	return res.RowsAffected, res.Error
}

// DeleteByUser runs inside the caller's transaction.
func (s *Service[E, P]) DeleteByUser(tx *gorm.DB, userID uint) (int64, error) {
	res := tx.Where("user_id = ?", userID).Delete(P(new(E)))
	return res.RowsAffected, res.Error
}

func (s *Service[E, P]) checkPair(db *gorm.DB, userID, movieID, exceptID uint) error {
	var count int64
	q := db.Model(P(new(E))).Where("user_id = ? AND movie_id = ?", userID, movieID)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return s.duplicate(movieID)
	}
	return nil
}

func (s *Service[E, P]) duplicate(movieID uint) error {
	return utils.Duplicate("Movie %d is already in the %s", movieID, s.noun)
}

func checkRefs(db *gorm.DB, userID, movieID uint) error {
	var count int64
	if err := db.Model(&users.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return utils.NotFound("User %d not found", userID)
	}
	return movies.EnsureExists(db, movieID)
}
