package store

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kotrzina/meteoam/pkg/meteoam"
	"github.com/kotrzina/meteoam/pkg/utils"
	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps forecasts in process memory
// Used when no Redis is configured and in tests.
type MemoryStore struct {
	forecasts *cache.Cache
	unused    *cache.Cache
}

// NewMemoryStore creates a MemoryStore, expired forecasts are removed every cleanupInterval
// Zero cleanupInterval disables the cleanup, expired items are still never returned.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		forecasts: cache.New(cache.NoExpiration, cleanupInterval),
		unused:    cache.New(cache.NoExpiration, 0),
	}
}

func (s *MemoryStore) GetForecast(id uint64) (*meteoam.ForecastResult, error) {
	item, found := s.forecasts.Get(key(id))
	if !found {
		return nil, ErrNotFound
	}

	return item.(*meteoam.ForecastResult), nil
}

func (s *MemoryStore) SetForecast(id uint64, forecast *meteoam.ForecastResult, ttl time.Duration) error {
	s.forecasts.Set(key(id), forecast, ttl)
	return nil
}

func (s *MemoryStore) MarkUnused(id uint64) error {
	s.unused.Set(key(id), true, cache.NoExpiration)
	return nil
}

func (s *MemoryStore) IsUnused(id uint64) (bool, error) {
	_, found := s.unused.Get(key(id))
	return found, nil
}

// MemoryRegistry keeps crawled locations in process memory
type MemoryRegistry struct {
	locations *cache.Cache
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		locations: cache.New(cache.NoExpiration, 0),
	}
}

func (r *MemoryRegistry) UpsertLocation(location Location) error {
	r.locations.Set(key(location.ID), location, cache.NoExpiration)
	return nil
}

func (r *MemoryRegistry) GetLocation(id uint64) (Location, error) {
	item, found := r.locations.Get(key(id))
	if !found {
		return Location{}, ErrNotFound
	}

	return item.(Location), nil
}

func (r *MemoryRegistry) SearchLocations(query string, limit int) ([]Location, error) {
	query = utils.NormalizeText(query)

	locations := []Location{}
	for _, item := range r.locations.Items() {
		location := item.Object.(Location)
		if strings.Contains(utils.NormalizeText(location.Name), query) {
			locations = append(locations, location)
		}
	}

	sort.Slice(locations, func(i, j int) bool {
		return locations[i].ID < locations[j].ID
	})

	if limit > 0 && len(locations) > limit {
		locations = locations[:limit]
	}

	return locations, nil
}

func key(id uint64) string {
	return strconv.FormatUint(id, 10)
}
