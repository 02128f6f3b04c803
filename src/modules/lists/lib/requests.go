package lists

// EntryRequest adds or re-points a list entry. A zero UserID means the
// caller's own list.
type EntryRequest struct {
	UserID  uint `json:"userId"`
	MovieID uint `json:"movieId" binding:"required,gt=0"`
}
