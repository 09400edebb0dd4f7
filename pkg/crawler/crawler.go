package crawler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kotrzina/meteoam/pkg/config"
	"github.com/kotrzina/meteoam/pkg/meteoam"
	"github.com/kotrzina/meteoam/pkg/prometheus"
	"github.com/kotrzina/meteoam/pkg/store"
	"github.com/kotrzina/meteoam/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var (
	ErrAlreadyRunning = errors.New("crawler is already running")
	ErrInvalidRange   = errors.New("invalid identifier range")
	ErrTooManyBlocks  = errors.New("too many blocked requests")
)

type Fetcher interface {
	GetLocationData(ctx context.Context, id uint64) (*meteoam.ForecastResult, error)
}

type Notifier interface {
	Notify(message string) error
}

// Report describes a finished crawl
type Report struct {
	From     uint64        `json:"from"`
	To       uint64        `json:"to"`
	LastID   uint64        `json:"last_id"`
	Found    int           `json:"found"`
	Unused   int           `json:"unused"`
	Skipped  int           `json:"skipped"` // already known as unused
	Failed   int           `json:"failed"`
	Blocked  int           `json:"blocked"`
	Aborted  bool          `json:"aborted"`
	Duration time.Duration `json:"duration"`
}

func (r Report) Message() string {
	status := "finished"
	if r.Aborted {
		status = "aborted"
	}

	return fmt.Sprintf(
		"🌦 **Crawl %d-%d %s** at %d in %s: %d locations, %d unused, %d skipped, %d failed, %d blocked",
		r.From, r.To, status, r.LastID, utils.FormatDuration(r.Duration),
		r.Found, r.Unused, r.Skipped, r.Failed, r.Blocked,
	)
}

// Crawler walks a range of location identifiers and records found locations
// Identifiers are sparse, unused ones are remembered in the storage.
type Crawler struct {
	mux     sync.Mutex
	running bool
	wg      sync.WaitGroup

	fetcher  Fetcher
	storage  store.Storage
	registry store.Registry
	notifier Notifier

	limiter           *rate.Limiter
	blockPause        time.Duration
	maxBlockedRetries int
	cacheTTL          time.Duration

	monitor *prometheus.Monitor
	logger  *logrus.Logger
}

func New(
	conf *config.Config,
	fetcher Fetcher,
	storage store.Storage,
	registry store.Registry,
	notifier Notifier,
	monitor *prometheus.Monitor,
	logger *logrus.Logger,
) *Crawler {
	return &Crawler{
		fetcher:  fetcher,
		storage:  storage,
		registry: registry,
		notifier: notifier,

		limiter:           rate.NewLimiter(rate.Limit(conf.CrawlRPS), 1),
		blockPause:        conf.CrawlBlockPause,
		maxBlockedRetries: conf.CrawlMaxBlockedRetries,
		cacheTTL:          conf.CacheTTL,

		monitor: monitor,
		logger:  logger,
	}
}

// IsRunning reports whether a crawl is in progress
func (c *Crawler) IsRunning() bool {
	c.mux.Lock()
	defer c.mux.Unlock()

	return c.running
}

// Start runs the crawl in background, only one crawl can run at a time
func (c *Crawler) Start(ctx context.Context, from, to uint64) error {
	if err := c.acquire(from, to); err != nil {
		return err
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.release()

		if _, err := c.crawl(ctx, from, to); err != nil {
			c.logger.Errorf("Crawl %d-%d failed: %v", from, to, err)
		}
	}()

	return nil
}

// Wait blocks until the background crawl finishes
func (c *Crawler) Wait() {
	c.wg.Wait()
}

// Run crawls identifiers from..to (inclusive) and blocks until done
func (c *Crawler) Run(ctx context.Context, from, to uint64) (Report, error) {
	if err := c.acquire(from, to); err != nil {
		return Report{}, err
	}
	defer c.release()

	return c.crawl(ctx, from, to)
}

func (c *Crawler) acquire(from, to uint64) error {
	if from > to {
		return fmt.Errorf("%w: %d-%d", ErrInvalidRange, from, to)
	}

	c.mux.Lock()
	defer c.mux.Unlock()

	if c.running {
		return ErrAlreadyRunning
	}
	c.running = true
	c.monitor.CrawlRunning.WithLabelValues().Set(1)

	return nil
}

func (c *Crawler) release() {
	c.mux.Lock()
	defer c.mux.Unlock()

	c.running = false
	c.monitor.CrawlRunning.WithLabelValues().Set(0)
}

func (c *Crawler) crawl(ctx context.Context, from, to uint64) (Report, error) {
	start := time.Now()
	report := Report{From: from, To: to}

	c.logger.WithFields(logrus.Fields{
		"from": from,
		"to":   to,
	}).Info("Crawl started")

	var err error
	for id := from; ; id++ {
		report.LastID = id
		c.monitor.CrawlLastID.WithLabelValues().Set(float64(id))

		if err = c.visit(ctx, id, &report); err != nil {
			report.Aborted = true
			break
		}

		if id == to {
			break
		}
	}

	report.Duration = time.Since(start)
	c.logger.WithFields(logrus.Fields{
		"from":    report.From,
		"to":      report.To,
		"last_id": report.LastID,
		"found":   report.Found,
		"unused":  report.Unused,
		"skipped": report.Skipped,
		"failed":  report.Failed,
		"blocked": report.Blocked,
		"aborted": report.Aborted,
	}).Infof("Crawl done in %s", utils.FormatDuration(report.Duration))

	if c.notifier != nil {
		if notifyErr := c.notifier.Notify(report.Message()); notifyErr != nil {
			c.logger.Warnf("Could not send crawl report: %v", notifyErr)
		}
	}

	return report, err
}

// visit fetches one identifier, retrying after a pause when the request is blocked
func (c *Crawler) visit(ctx context.Context, id uint64, report *Report) error {
	unused, err := c.storage.IsUnused(id)
	if err != nil {
		c.logger.Warnf("Could not check unused identifier %d: %v", id, err)
	}
	if unused {
		report.Skipped++
		c.monitor.CrawlLocations.WithLabelValues("skipped").Inc()
		return nil
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait canceled: %w", err)
		}

		result, err := c.fetcher.GetLocationData(ctx, id)
		outcome := meteoam.Outcome(err)
		c.monitor.CrawlLocations.WithLabelValues(outcome).Inc()

		switch {
		case err == nil:
			report.Found++
			c.record(id, result)
			return nil

		case errors.Is(err, meteoam.ErrUnusedIdentifier):
			report.Unused++
			if err := c.storage.MarkUnused(id); err != nil {
				c.logger.Warnf("Could not mark identifier %d as unused: %v", id, err)
			}
			return nil

		case errors.Is(err, meteoam.ErrBlockedRequest):
			report.Blocked++
			if attempt >= c.maxBlockedRetries {
				return fmt.Errorf("%w: id %d", ErrTooManyBlocks, id)
			}

			c.logger.WithFields(logrus.Fields{
				"id":      id,
				"attempt": attempt + 1,
			}).Warnf("Request blocked, pausing for %s", utils.FormatDuration(c.blockPause))

			if err := sleep(ctx, c.blockPause); err != nil {
				return err
			}

		case ctx.Err() != nil:
			return ctx.Err()

		default:
			report.Failed++
			c.logger.WithFields(logrus.Fields{
				"id":      id,
				"outcome": outcome,
			}).Warnf("Could not crawl identifier: %v", err)
			return nil
		}
	}
}

func (c *Crawler) record(id uint64, result *meteoam.ForecastResult) {
	if err := c.registry.UpsertLocation(store.NewLocation(id, result.Location, time.Now())); err != nil {
		c.logger.Warnf("Could not store location %d: %v", id, err)
	}

	if err := c.storage.SetForecast(id, result, c.cacheTTL); err != nil {
		c.logger.Warnf("Could not cache forecast %d: %v", id, err)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
