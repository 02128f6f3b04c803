package movies

// MovieRequest is the body of create and update calls. MovieID and Version are
// only read on update.
type MovieRequest struct {
	MovieID     uint     `json:"movieId"`
	MovieTitle  string   `json:"movieTitle" binding:"required,max=255"`
	MovieGenre  string   `json:"movieGenre" binding:"max=100"`
	ReleaseYear *int     `json:"releaseYear" binding:"omitempty,gte=1900,lte=2100"`
	ImgURL      string   `json:"imgUrl" binding:"max=500"`
	Rating      *float64 `json:"rating" binding:"omitempty,gte=0,lte=10"`
	Description string   `json:"description" binding:"max=2000"`
	Duration    *int     `json:"duration" binding:"omitempty,gt=0,lte=480"`
	Version     *int     `json:"version" binding:"omitempty,gt=0"`
}

// MovieOption feeds admin dropdowns.
type MovieOption struct {
	MovieID    uint   `json:"movieId"`
	MovieTitle string `json:"movieTitle"`
}
