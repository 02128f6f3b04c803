package movies

import (
	"movienest/src/utils"
	"time"

	"gorm.io/gorm"
)

type Movie struct {
	ID          uint      `json:"movieId" gorm:"primaryKey"`
	Title       string    `json:"movieTitle" gorm:"type:varchar(255);not null"`
	Genre       string    `json:"movieGenre" gorm:"type:varchar(100)"`
	ReleaseYear *int      `json:"releaseYear" gorm:"index"`
	ImgURL      string    `json:"imgUrl" gorm:"type:text"`
	Rating      *float64  `json:"rating" gorm:"type:decimal(3,1)"`
	Description string    `json:"description" gorm:"type:text"`
	Duration    *int      `json:"duration"`
	Version     int       `json:"version" gorm:"not null;default:1"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EnsureExists returns a NotFound ServiceError unless movie id is stored.
// Rows that reference a movie check it through here before writing.
func EnsureExists(db *gorm.DB, id uint) error {
	var count int64
	if err := db.Model(&Movie{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return utils.NotFound("Movie %d not found", id)
	}
	return nil
}

func MigrateMovies(db *gorm.DB) error {
	return db.AutoMigrate(&Movie{})
}
