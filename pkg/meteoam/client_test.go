package meteoam

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/kotrzina/meteoam/pkg/config"
	"github.com/kotrzina/meteoam/pkg/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://meteoam.test"

func createTestClient(t *testing.T) *Client {
	t.Helper()

	logger := logrus.New()
	var buf bytes.Buffer
	logger.SetOutput(&buf)

	c := NewClient(&config.Config{BaseURL: testBaseURL + "/", Timeout: time.Second}, prometheus.New(), logger)
	httpmock.ActivateNonDefault(c.client)
	t.Cleanup(httpmock.DeactivateAndReset)

	return c
}

func TestClient_LocationURL(t *testing.T) {
	c := createTestClient(t)
	assert.Equal(t, "http://meteoam.test/ta/previsione/1234", c.LocationURL(1234))
}

func TestClient_GetLocationData(t *testing.T) {
	c := createTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/ta/previsione/1234",
		func(req *http.Request) (*http.Response, error) {
			assert.Contains(t, req.Header.Get("User-Agent"), "Mozilla")
			return httpmock.NewBytesResponse(http.StatusOK, readFixture(t, "roma.html")), nil
		})

	result, err := c.GetLocationData(context.Background(), 1234)
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), result.RequestedID)
	assert.Equal(t, "Roma (RM)", result.Location.NameWithRegion)
	assert.Len(t, result.Forecast.Today, 3)

	assert.Equal(t, 1, httpmock.GetTotalCallCount())
	assert.InDelta(t, 1, testutil.ToFloat64(c.monitor.Requests.WithLabelValues("ok")), 0.001)
}

func TestClient_GetLocationData_Blocked(t *testing.T) {
	c := createTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/ta/previsione/77",
		httpmock.NewStringResponder(http.StatusForbidden, blockedBody))

	result, err := c.GetLocationData(context.Background(), 77)
	assert.Nil(t, result)
	require.ErrorIs(t, err, ErrBlockedRequest)

	var idErr *IdentifierError
	require.True(t, errors.As(err, &idErr))
	assert.Equal(t, uint64(77), idErr.ID)
	assert.InDelta(t, 1, testutil.ToFloat64(c.monitor.Requests.WithLabelValues("blocked")), 0.001)
}

func TestClient_GetLocationData_UnusedLatin1(t *testing.T) {
	c := createTestClient(t)
	body := []byte("<html><body><h1 class=\"page-header\">Previsioni per localit\xe0</h1></body></html>")
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/ta/previsione/5",
		func(_ *http.Request) (*http.Response, error) {
			resp := httpmock.NewBytesResponse(http.StatusForbidden, body)
			resp.Header.Set("Content-Type", "text/html; charset=ISO-8859-1")
			return resp, nil
		})

	result, err := c.GetLocationData(context.Background(), 5)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUnusedIdentifier)
}

func TestClient_GetLocationData_TransportError(t *testing.T) {
	c := createTestClient(t)
	httpmock.RegisterResponder(http.MethodGet, testBaseURL+"/ta/previsione/1",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	result, err := c.GetLocationData(context.Background(), 1)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrFetch)
	assert.InDelta(t, 1, testutil.ToFloat64(c.monitor.Requests.WithLabelValues("fetch")), 0.001)
}

func TestDecodeBody(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		input       []byte
		expected    string
	}{
		{"utf-8", "text/html; charset=utf-8", []byte("localit\xc3\xa0"), "località"},
		{"latin1", "text/html; charset=ISO-8859-1", []byte("localit\xe0"), "località"},
		{"windows-1252", "text/html; charset=windows-1252", []byte("localit\xe0"), "località"},
		{"no header", "", []byte("localit\xc3\xa0"), "località"},
		{"no charset", "text/html", []byte("localit\xc3\xa0"), "località"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := decodeBody(tt.contentType, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}
}
