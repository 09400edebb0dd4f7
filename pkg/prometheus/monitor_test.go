package prometheus

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMonitor(t *testing.T) {
	monitor := New()

	if monitor.Registry == nil {
		t.Fatal("Registry should not be nil")
	}

	tests := []struct {
		name   string
		metric interface{}
	}{
		{"Requests", monitor.Requests},
		{"FetchDuration", monitor.FetchDuration},
		{"CacheRequests", monitor.CacheRequests},
		{"CrawlLocations", monitor.CrawlLocations},
		{"CrawlLastID", monitor.CrawlLastID},
		{"CrawlRunning", monitor.CrawlRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s should not be nil", tt.name)
			}
		})
	}
}

func TestMonitorRequests(t *testing.T) {
	monitor := New()
	monitor.Requests.WithLabelValues("ok").Inc()
	monitor.Requests.WithLabelValues("ok").Inc()
	monitor.Requests.WithLabelValues("blocked").Inc()

	if got := testutil.ToFloat64(monitor.Requests.WithLabelValues("ok")); got != 2 {
		t.Errorf("ok requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(monitor.Requests.WithLabelValues("blocked")); got != 1 {
		t.Errorf("blocked requests = %v, want 1", got)
	}
}
