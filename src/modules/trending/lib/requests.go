package trending

type TrendingRequest struct {
	TrendingID    uint     `json:"trendingId"`
	MovieID       uint     `json:"movieId" binding:"required,gt=0"`
	TrendingScore *float64 `json:"trendingScore" binding:"omitempty,gte=0,lte=999.99"`
}

// Filter narrows the trending search; nil fields are ignored.
type Filter struct {
	MovieID  *uint
	MinScore *float64
	MaxScore *float64
}
