package client

import "time"

type User struct {
	UserID   uint    `json:"userId"`
	Username string  `json:"username"`
	FullName string  `json:"fullName"`
	Age      *int    `json:"age"`
	Email    *string `json:"email"`
	Role     string  `json:"role"`
}

type Movie struct {
	MovieID     uint     `json:"movieId"`
	MovieTitle  string   `json:"movieTitle"`
	MovieGenre  string   `json:"movieGenre"`
	ReleaseYear *int     `json:"releaseYear"`
	ImgURL      string   `json:"imgUrl"`
	Rating      *float64 `json:"rating"`
	Description string   `json:"description"`
	Duration    *int     `json:"duration"`
	Version     int      `json:"version"`
}

type MovieInput struct {
	MovieTitle  string   `json:"movieTitle"`
	MovieGenre  string   `json:"movieGenre,omitempty"`
	ReleaseYear *int     `json:"releaseYear,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Description string   `json:"description,omitempty"`
	Duration    *int     `json:"duration,omitempty"`
}

// ListEntry is a watchlist or favorites row. Only one of the ids is set,
// depending on the list.
type ListEntry struct {
	WatchlistID uint      `json:"watchlistId,omitempty"`
	FavoriteID  uint      `json:"favoriteId,omitempty"`
	UserID      uint      `json:"userId"`
	MovieID     uint      `json:"movieId"`
	Movie       *Movie    `json:"movie,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (e ListEntry) ID() uint {
	if e.WatchlistID != 0 {
		return e.WatchlistID
	}
	return e.FavoriteID
}

type Recommendation struct {
	RecID   uint   `json:"recId"`
	MovieID uint   `json:"movieId"`
	Movie   *Movie `json:"movie,omitempty"`
}

type Trending struct {
	TrendingID    uint    `json:"trendingId"`
	MovieID       uint    `json:"movieId"`
	Movie         *Movie  `json:"movie,omitempty"`
	TrendingScore float64 `json:"trendingScore"`
}

type Upcoming struct {
	UpcomingID  uint      `json:"upcomingId"`
	MovieTitle  string    `json:"movieTitle"`
	MovieGenre  string    `json:"movieGenre"`
	ReleaseDate time.Time `json:"releaseDate"`
	TrailerURL  *string   `json:"trailerUrl"`
}
