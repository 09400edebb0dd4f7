package store

import (
	"errors"
	"time"

	"github.com/kotrzina/meteoam/pkg/meteoam"
)

var ErrNotFound = errors.New("not found")

// Storage caches forecasts and remembers unused location identifiers
type Storage interface {
	GetForecast(id uint64) (*meteoam.ForecastResult, error)                           // get cached forecast, ErrNotFound on miss
	SetForecast(id uint64, forecast *meteoam.ForecastResult, ttl time.Duration) error // cache forecast for ttl

	MarkUnused(id uint64) error       // remember identifier without location
	IsUnused(id uint64) (bool, error) // is identifier known to be unused
}

// Location is a registry record of a known location identifier
type Location struct {
	ID             uint64    `json:"id"`
	Name           string    `json:"name"`
	Region         string    `json:"region"`
	NameWithRegion string    `json:"name_with_region"`
	CrawledAt      time.Time `json:"crawled_at"`
}

// Registry keeps the locations found by the crawler
type Registry interface {
	UpsertLocation(location Location) error                      // insert or update location
	GetLocation(id uint64) (Location, error)                     // get location, ErrNotFound on miss
	SearchLocations(query string, limit int) ([]Location, error) // accent insensitive search by name, ordered by id
}

// NewLocation creates a registry record from a parsed location
func NewLocation(id uint64, info meteoam.LocationInfo, at time.Time) Location {
	return Location{
		ID:             id,
		Name:           info.Name,
		Region:         info.Region,
		NameWithRegion: info.NameWithRegion,
		CrawledAt:      at,
	}
}
