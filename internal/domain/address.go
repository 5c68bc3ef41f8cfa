package domain

import "time"

// SavedAddress is a labeled location a rider keeps for quick selection.
// Coordinates and place ID are present only when geocoding succeeded; the
// free-text address alone is always usable.
type SavedAddress struct {
	ID        string
	UserID    string
	Label     string
	Address   string
	Lat       float64
	Lng       float64
	Geocoded  bool
	PlaceID   string
	CreatedAt time.Time
}
