package upcoming

import (
	"strings"
	"time"
)

type UpcomingRequest struct {
	UpcomingID  uint    `json:"upcomingId"`
	MovieTitle  string  `json:"movieTitle" binding:"required,max=255"`
	MovieGenre  string  `json:"movieGenre" binding:"max=100"`
	ReleaseYear *int    `json:"releaseYear" binding:"omitempty,gte=1900,lte=2100"`
	ImgURL      string  `json:"imgUrl" binding:"max=500"`
	Description string  `json:"description" binding:"max=2000"`
	Duration    *int    `json:"duration" binding:"omitempty,gt=0,lte=480"`
	ReleaseDate string  `json:"releaseDate" binding:"required"`
	TrailerURL  *string `json:"trailerUrl" binding:"omitempty,url,max=500"`
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

// ParseReleaseDate accepts RFC 3339 timestamps as well as bare dates and
// zone-less timestamps, which are read as UTC.
func ParseReleaseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
