package rtt

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railannouncements/internal/stations"
)

const mainService = `{
  "serviceUid": "W12345",
  "runDate": "2024-05-01",
  "atocName": "LNER",
  "origin": [{"tiploc": "KNGX", "description": "London Kings Cross"}],
  "destination": [{"tiploc": "EDINBUR", "description": "Edinburgh"}],
  "locations": [
    {
      "tiploc": "YORK",
      "description": "York",
      "displayAs": "CALL",
      "origin": [{"tiploc": "KNGX"}],
      "destination": [{"tiploc": "UNKNOWN"}],
      "associations": [{"type": "divide", "associatedUid": "W99999", "associatedRunDate": "2024-05-01"}]
    }
  ]
}`

const dividedService = `{
  "serviceUid": "W99999",
  "runDate": "2024-05-01",
  "origin": [{"tiploc": "YORK"}],
  "destination": [{"tiploc": "LEEDS"}],
  "locations": [
    {"tiploc": "LEEDS", "displayAs": "DESTINATION", "origin": [], "destination": [],
     "associations": [{"type": "join", "associatedUid": "W00000", "associatedRunDate": "2024-05-01"}]}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	table, err := stations.Default()
	require.NoError(t, err)

	return NewClient(Config{
		BaseURL:  srv.URL,
		Username: "user",
		Password: "pass",
		Timeout:  5 * time.Second,
	}, table, log.New(io.Discard, "", 0))
}

func TestServiceFillsCRSAndFollowsAssociations(t *testing.T) {
	var requests atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "user" || pass != "pass" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/service/W12345/2024/05/01":
			_, _ = io.WriteString(w, mainService)
		case "/service/W99999/2024/05/01":
			_, _ = io.WriteString(w, dividedService)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	svc, err := c.Service(context.Background(), "W12345", "2024-05-01")
	require.NoError(t, err)

	assert.Equal(t, "KGX", svc.Origin[0].Crs)
	assert.Equal(t, "EDB", svc.Destination[0].Crs)
	assert.Equal(t, "KGX", svc.Locations[0].Origin[0].Crs)
	assert.Empty(t, svc.Locations[0].Destination[0].Crs)

	divided := svc.Locations[0].Associations[0].Service
	require.NotNil(t, divided)
	assert.Equal(t, "W99999", divided.ServiceUID)
	assert.Equal(t, "LDS", divided.Destination[0].Crs)

	// only one level deep
	assert.Nil(t, divided.Locations[0].Associations[0].Service)
	assert.Equal(t, int32(2), requests.Load())
}

func TestServiceUpstreamErrorField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"error": "No schedule found"}`)
	})

	_, err := c.Service(context.Background(), "X", "2024-05-01")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "No schedule found", apiErr.Error())
}

func TestServiceNon2xx(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Service(context.Background(), "X", "2024-05-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestServiceFailsWhenAssociationFails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/service/W12345/2024/05/01" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, mainService)
	})

	svc, err := c.Service(context.Background(), "W12345", "2024-05-01")
	assert.Nil(t, svc)
	assert.Error(t, err)
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2024-01-31"))
	assert.False(t, ValidDate("2024-1-31"))
	assert.False(t, ValidDate("31/01/2024"))
	assert.False(t, ValidDate("2024-01-31x"))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})
	_, err := c.Service(context.Background(), "X", "yesterday")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
