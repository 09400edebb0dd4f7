package forecast

import (
	"context"
	"errors"
	"time"

	"github.com/kotrzina/meteoam/pkg/meteoam"
	"github.com/kotrzina/meteoam/pkg/prometheus"
	"github.com/kotrzina/meteoam/pkg/store"
	"github.com/sirupsen/logrus"
)

type Fetcher interface {
	GetLocationData(ctx context.Context, id uint64) (*meteoam.ForecastResult, error)
}

// Service serves forecasts from the cache and downloads them on miss
type Service struct {
	fetcher  Fetcher
	storage  store.Storage
	registry store.Registry
	ttl      time.Duration

	monitor *prometheus.Monitor
	logger  *logrus.Logger
}

func New(
	fetcher Fetcher,
	storage store.Storage,
	registry store.Registry,
	ttl time.Duration,
	monitor *prometheus.Monitor,
	logger *logrus.Logger,
) *Service {
	return &Service{
		fetcher:  fetcher,
		storage:  storage,
		registry: registry,
		ttl:      ttl,
		monitor:  monitor,
		logger:   logger,
	}
}

// GetForecast returns the forecast of the location
// Identifiers known as unused fail with meteoam.ErrUnusedIdentifier without a request.
func (s *Service) GetForecast(ctx context.Context, id uint64) (*meteoam.ForecastResult, error) {
	unused, err := s.storage.IsUnused(id)
	if err != nil {
		s.logger.Warnf("Could not check unused identifier %d: %v", id, err)
	}
	if unused {
		s.monitor.CacheRequests.WithLabelValues("unused").Inc()
		return nil, &meteoam.IdentifierError{ID: id, Err: meteoam.ErrUnusedIdentifier}
	}

	cached, err := s.storage.GetForecast(id)
	if err == nil {
		s.monitor.CacheRequests.WithLabelValues("hit").Inc()
		return cached, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.logger.Warnf("Could not read cached forecast %d: %v", id, err)
	}
	s.monitor.CacheRequests.WithLabelValues("miss").Inc()

	result, err := s.fetcher.GetLocationData(ctx, id)
	if errors.Is(err, meteoam.ErrUnusedIdentifier) {
		if markErr := s.storage.MarkUnused(id); markErr != nil {
			s.logger.Warnf("Could not mark identifier %d as unused: %v", id, markErr)
		}
	}
	if err != nil {
		return nil, err
	}

	if err := s.storage.SetForecast(id, result, s.ttl); err != nil {
		s.logger.Warnf("Could not cache forecast %d: %v", id, err)
	}
	if err := s.registry.UpsertLocation(store.NewLocation(id, result.Location, time.Now())); err != nil {
		s.logger.Warnf("Could not store location %d: %v", id, err)
	}

	return result, nil
}

// GetSummary returns day summaries of the location forecast
func (s *Service) GetSummary(ctx context.Context, id uint64) (meteoam.ForecastSummary, error) {
	result, err := s.GetForecast(ctx, id)
	if err != nil {
		return meteoam.ForecastSummary{}, err
	}

	return result.Summarize(), nil
}

// SearchLocations searches known locations by name
func (s *Service) SearchLocations(query string, limit int) ([]store.Location, error) {
	return s.registry.SearchLocations(query, limit)
}
