package meteoam

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/kotrzina/meteoam/pkg/config"
	"github.com/kotrzina/meteoam/pkg/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:133.0) Gecko/20100101 Firefox/133.0"

// Client downloads location pages from meteoam and parses them
type Client struct {
	baseURL string
	client  *http.Client

	monitor *prometheus.Monitor
	logger  *logrus.Logger
}

func NewClient(conf *config.Config, monitor *prometheus.Monitor, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(conf.BaseURL, "/"),
		client: &http.Client{
			Timeout: conf.Timeout,
		},
		monitor: monitor,
		logger:  logger,
	}
}

// LocationURL returns the forecast page url of the location
func (c *Client) LocationURL(id uint64) string {
	return fmt.Sprintf("%s/ta/previsione/%d", c.baseURL, id)
}

// GetLocationData downloads and parses the forecast page of the location
func (c *Client) GetLocationData(ctx context.Context, id uint64) (*ForecastResult, error) {
	body, err := c.fetch(ctx, id)
	if err == nil {
		var result *ForecastResult
		result, err = ParsePage(id, body)
		if err == nil {
			c.monitor.Requests.WithLabelValues(Outcome(nil)).Inc()
			return result, nil
		}
	}

	outcome := Outcome(err)
	c.monitor.Requests.WithLabelValues(outcome).Inc()
	c.logger.WithFields(logrus.Fields{
		"id":      id,
		"outcome": outcome,
	}).Debugf("Could not get location data: %v", err)

	return nil, err
}

// fetch downloads the raw page
// Status code is not checked, both blocked and unused pages come with 403
// and the page content decides.
func (c *Client) fetch(ctx context.Context, id uint64) ([]byte, error) {
	start := time.Now()
	defer func() {
		c.monitor.FetchDuration.WithLabelValues().Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.LocationURL(id), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: could not create request: %w", ErrFetch, err)
	}
	req.Header.Add("User-Agent", userAgent)
	req.Header.Add("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read body: %w", ErrFetch, err)
	}

	c.logger.WithFields(logrus.Fields{
		"id":     id,
		"status": resp.StatusCode,
		"bytes":  len(content),
	}).Debug("Location page downloaded")

	body, err := decodeBody(resp.Header.Get("Content-Type"), content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	return body, nil
}

// decodeBody converts single-byte legacy charsets to utf-8
func decodeBody(contentType string, content []byte) ([]byte, error) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return content, nil
	}

	var charset *charmap.Charmap
	switch strings.ToLower(params["charset"]) {
	case "iso-8859-1", "latin1":
		charset = charmap.ISO8859_1
	case "iso-8859-15":
		charset = charmap.ISO8859_15
	case "windows-1252", "cp1252":
		charset = charmap.Windows1252
	default:
		return content, nil
	}

	out, err := charset.NewDecoder().Bytes(content)
	if err != nil {
		return nil, fmt.Errorf("could not decode %s: %w", params["charset"], err)
	}

	return out, nil
}
