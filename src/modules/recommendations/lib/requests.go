package recommendations

type RecommendationRequest struct {
	RecID   uint `json:"recId"`
	MovieID uint `json:"movieId" binding:"required,gt=0"`
}
