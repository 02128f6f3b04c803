package lists

import (
	movies "movienest/src/modules/movies/models"
	users "movienest/src/modules/users/models"
	"time"

	"gorm.io/gorm"
)

// WatchlistEntry marks a movie the user wants to watch later.
type WatchlistEntry struct {
	ID        uint          `json:"watchlistId" gorm:"primaryKey"`
	UserID    uint          `json:"userId" gorm:"not null;uniqueIndex:idx_watchlist_user_movie"`
	MovieID   uint          `json:"movieId" gorm:"not null;uniqueIndex:idx_watchlist_user_movie;index"`
	Movie     *movies.Movie `json:"movie,omitempty" gorm:"foreignKey:MovieID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	User      *users.User   `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt time.Time     `json:"createdAt"`
}

func (WatchlistEntry) TableName() string { return "watchlist" }

func (e *WatchlistEntry) EntryID() uint                { return e.ID }
func (e *WatchlistEntry) Pair() (uint, uint)           { return e.UserID, e.MovieID }
func (e *WatchlistEntry) SetPair(userID, movieID uint) { e.UserID, e.MovieID = userID, movieID }

// FavoriteEntry is independent of the watchlist: a movie may be in both.
type FavoriteEntry struct {
	ID        uint          `json:"favoriteId" gorm:"primaryKey"`
	UserID    uint          `json:"userId" gorm:"not null;uniqueIndex:idx_favorite_user_movie"`
	MovieID   uint          `json:"movieId" gorm:"not null;uniqueIndex:idx_favorite_user_movie;index"`
	Movie     *movies.Movie `json:"movie,omitempty" gorm:"foreignKey:MovieID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	User      *users.User   `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt time.Time     `json:"createdAt"`
}

func (FavoriteEntry) TableName() string { return "favorites" }

func (e *FavoriteEntry) EntryID() uint                { return e.ID }
func (e *FavoriteEntry) Pair() (uint, uint)           { return e.UserID, e.MovieID }
func (e *FavoriteEntry) SetPair(userID, movieID uint) { e.UserID, e.MovieID = userID, movieID }

func MigrateLists(db *gorm.DB) error {
	return db.AutoMigrate(&WatchlistEntry{}, &FavoriteEntry{})
}
