package upcoming

import (
	"time"

	"gorm.io/gorm"
)

// UpcomingMovie carries its own copy of the movie fields; it is not linked to
// the catalog.
type UpcomingMovie struct {
	ID          uint      `json:"upcomingId" gorm:"primaryKey"`
	Title       string    `json:"movieTitle" gorm:"type:varchar(255);not null"`
	Genre       string    `json:"movieGenre" gorm:"type:varchar(100)"`
	ReleaseYear *int      `json:"releaseYear" gorm:"index"`
	ImgURL      string    `json:"imgUrl" gorm:"type:text"`
	Description string    `json:"description" gorm:"type:text"`
	Duration    *int      `json:"duration"`
	ReleaseDate time.Time `json:"releaseDate" gorm:"not null;index"`
	TrailerURL  *string   `json:"trailerUrl"`
}

func (UpcomingMovie) TableName() string { return "upcoming_movies" }

func MigrateUpcoming(db *gorm.DB) error {
	return db.AutoMigrate(&UpcomingMovie{})
}
