package recommendations

import (
	movies "movienest/src/modules/movies/models"

	"gorm.io/gorm"
)

// RecommendedMovie is catalog-wide curation, not per user.
type RecommendedMovie struct {
	ID      uint          `json:"recId" gorm:"primaryKey"`
	MovieID uint          `json:"movieId" gorm:"not null;uniqueIndex"`
	Movie   *movies.Movie `json:"movie,omitempty" gorm:"foreignKey:MovieID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (RecommendedMovie) TableName() string { return "recommended_movies" }

func MigrateRecommendations(db *gorm.DB) error {
	return db.AutoMigrate(&RecommendedMovie{})
}
