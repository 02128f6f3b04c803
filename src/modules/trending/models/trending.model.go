package trending

import (
	movies "movienest/src/modules/movies/models"

	"gorm.io/gorm"
)

type TrendingMovie struct {
	ID            uint          `json:"trendingId" gorm:"primaryKey"`
	MovieID       uint          `json:"movieId" gorm:"not null;index"`
	Movie         *movies.Movie `json:"movie,omitempty" gorm:"foreignKey:MovieID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	TrendingScore float64       `json:"trendingScore" gorm:"type:decimal(5,2);not null;default:0"`
}

func (TrendingMovie) TableName() string { return "trending_movies" }

// ScoreRange summarises every trending score.
type ScoreRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
}

func MigrateTrending(db *gorm.DB) error {
	return db.AutoMigrate(&TrendingMovie{})
}
