package places

import (
	"errors"
	"time"
)

var (
	// ErrPlaceNotFound indicates the requested place does not exist.
	ErrPlaceNotFound = errors.New("places: place not found")
	// ErrMissingName indicates a place submission without a name.
	ErrMissingName = errors.New("places: name is required")
	// ErrMissingCity indicates a place submission without a city.
	ErrMissingCity = errors.New("places: city is required")
)

// Place models a point of interest in the directory. Rows are owned by the
// catalog; the interaction subsystem only ever reads them. Derived aggregates
// (average rating, favorite count) are computed on demand and never stored here.
type Place struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;size:320;not null"`
	Slug      string    `gorm:"column:slug;size:190;not null;uniqueIndex:idx_places_slug"`
	City      string    `gorm:"column:city;size:190;not null;index:idx_places_city"`
	Category  string    `gorm:"column:category;size:190;index:idx_places_category"`
	Latitude  *float64  `gorm:"column:latitude"`
	Longitude *float64  `gorm:"column:longitude"`
	ImageURL  string    `gorm:"column:image_url;size:512"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName provides the explicit table binding for GORM.
func (Place) TableName() string {
	return "places"
}

// NewPlaceRequest carries a visitor-submitted place.
type NewPlaceRequest struct {
	Name      string
	City      string
	Category  string
	Latitude  *float64
	Longitude *float64
	ImageURL  string
}
