package darwin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railannouncements/internal/stations"
)

const boardJSON = `{
  "trainServices": [
    {
      "rid": "202401017654321",
      "trainid": "1S12",
      "cancelReason": {"tiploc": "YORK", "near": true, "value": 104},
      "delayReason": {"tiploc": "ZZZZZZZ", "near": true, "value": 501},
      "subsequentLocations": [
        {
          "locationName": "York",
          "tiploc": "YORK",
          "associations": [
            {"category": 1, "rid": "DIVIDE1", "trainid": "1S13"},
            {"category": 3, "rid": "LINKTO1", "trainid": "2Y00"}
          ]
        },
        {
          "locationName": "Newcastle",
          "tiploc": "NWCSTLE",
          "associations": [
            {"category": 0, "rid": "JOIN1", "trainid": "1S14"},
            {"category": 2, "rid": "LINKFROM1", "trainid": "2Y01"}
          ]
        }
      ]
    },
    {
      "rid": "202401017654322",
      "trainid": "1E99",
      "cancelReason": {"tiploc": "YORK", "near": false, "value": 104},
      "subsequentLocations": [{"locationName": "Doncaster", "tiploc": "DONC", "associations": null}]
    }
  ],
  "crs": "KGX",
  "locationName": "London Kings Cross",
  "nrccMessages": [{"category": 0, "severity": 1, "xhtmlMessage": "<p>Disruption at <a href=\"#\">York</a>.</p><p>More soon.</p>"}]
}`

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testTable(t *testing.T) stations.Table {
	t.Helper()
	table, err := stations.Default()
	require.NoError(t, err)
	return table
}

type fakeUpstream struct {
	mu        sync.Mutex
	serviceFn func(rid string) (*ServiceDetail, error)
	calls     []string
	inFlight  atomic.Int32
	maxSeen   atomic.Int32
}

func (f *fakeUpstream) StaffDepartures(ctx context.Context, crs string, q BoardQuery) (*Board, error) {
	var b Board
	if err := json.Unmarshal([]byte(boardJSON), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (f *fakeUpstream) Service(ctx context.Context, rid string) (*ServiceDetail, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, rid)
	f.mu.Unlock()

	if f.serviceFn != nil {
		return f.serviceFn(rid)
	}
	return &ServiceDetail{Rid: rid, TrainID: "detail-" + rid}, nil
}

func TestEnrichAttachesJoinsAndDividesOnly(t *testing.T) {
	up := &fakeUpstream{}
	e := NewEnricher(up, testTable(t), EnricherConfig{Concurrency: 2, MaxAssociations: 10}, nil, testLogger())

	board, err := e.Departures(context.Background(), "KGX", DefaultBoardQuery())
	require.NoError(t, err)

	york := board.TrainServices[0].SubsequentLocations[0]
	ncl := board.TrainServices[0].SubsequentLocations[1]

	require.NotNil(t, york.Associations[0].Service)
	assert.Equal(t, "DIVIDE1", york.Associations[0].Service.Rid)
	assert.Nil(t, york.Associations[1].Service)
	require.NotNil(t, ncl.Associations[0].Service)
	assert.Equal(t, "JOIN1", ncl.Associations[0].Service.Rid)
	assert.Nil(t, ncl.Associations[1].Service)

	assert.ElementsMatch(t, []string{"DIVIDE1", "JOIN1"}, up.calls)

	out, err := json.Marshal(board)
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, json.Unmarshal(out, &generic))
	assocs := generic["trainServices"].([]any)[0].(map[string]any)["subsequentLocations"].([]any)[0].(map[string]any)["associations"].([]any)
	assert.Contains(t, assocs[0].(map[string]any), "service")
	assert.NotContains(t, assocs[1].(map[string]any), "service")
}

func TestEnrichResolvesNearReasons(t *testing.T) {
	e := NewEnricher(&fakeUpstream{}, testTable(t), EnricherConfig{Concurrency: 1}, nil, testLogger())

	board, err := e.Departures(context.Background(), "KGX", DefaultBoardQuery())
	require.NoError(t, err)

	out, err := json.Marshal(board.TrainServices[0].CancelReason)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tiploc":"YORK","near":true,"value":104,"stationName":"York"}`, string(out))

	out, err = json.Marshal(board.TrainServices[0].DelayReason)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tiploc":"ZZZZZZZ","near":true,"value":501,"stationName":null}`, string(out))

	out, err = json.Marshal(board.TrainServices[1].CancelReason)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tiploc":"YORK","near":false,"value":104}`, string(out))
	assert.Nil(t, board.TrainServices[1].DelayReason)
}

func TestEnrichNrccPlainText(t *testing.T) {
	e := NewEnricher(&fakeUpstream{}, testTable(t), EnricherConfig{Concurrency: 1}, nil, testLogger())

	board, err := e.Departures(context.Background(), "KGX", DefaultBoardQuery())
	require.NoError(t, err)
	assert.Equal(t, "Disruption at York. More soon.", board.NrccMessages[0].PlainText)
}

func TestEnrichFailsWholeRequest(t *testing.T) {
	defer leaktest.Check(t)()

	up := &fakeUpstream{serviceFn: func(rid string) (*ServiceDetail, error) {
		if rid == "JOIN1" {
			return nil, &UpstreamError{Path: "/service/" + rid, StatusCode: 502}
		}
		return &ServiceDetail{Rid: rid}, nil
	}}
	e := NewEnricher(up, testTable(t), EnricherConfig{Concurrency: 4}, nil, testLogger())

	board, err := e.Departures(context.Background(), "KGX", DefaultBoardQuery())
	assert.Nil(t, board)
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, 502, upErr.StatusCode)
}

func TestEnrichAssociationCap(t *testing.T) {
	up := &fakeUpstream{}
	e := NewEnricher(up, testTable(t), EnricherConfig{Concurrency: 1, MaxAssociations: 1}, nil, testLogger())

	_, err := e.Departures(context.Background(), "KGX", DefaultBoardQuery())
	assert.ErrorIs(t, err, ErrTooManyAssociations)
	assert.Empty(t, up.calls)
}

func TestEnrichRespectsConcurrencyLimit(t *testing.T) {
	defer leaktest.Check(t)()

	board := &Board{}
	svc := &TrainService{}
	loc := &TimingLocation{}
	for i := range 20 {
		loc.Associations = append(loc.Associations, &Association{Category: CategoryDivide, Rid: fmt.Sprintf("R%d", i)})
	}
	svc.SubsequentLocations = []*TimingLocation{loc}
	board.TrainServices = []*TrainService{svc}

	up := &fakeUpstream{serviceFn: func(rid string) (*ServiceDetail, error) {
		time.Sleep(5 * time.Millisecond)
		return &ServiceDetail{Rid: rid}, nil
	}}
	e := NewEnricher(up, testTable(t), EnricherConfig{Concurrency: 3}, nil, testLogger())

	require.NoError(t, e.Enrich(context.Background(), board))
	assert.LessOrEqual(t, up.maxSeen.Load(), int32(3))
	for i, a := range loc.Associations {
		require.NotNil(t, a.Service)
		assert.Equal(t, fmt.Sprintf("R%d", i), a.Service.Rid)
	}
}

func TestEnrichDeadline(t *testing.T) {
	up := &fakeUpstream{serviceFn: func(rid string) (*ServiceDetail, error) {
		time.Sleep(200 * time.Millisecond)
		return &ServiceDetail{Rid: rid}, nil
	}}
	slow := &contextAwareUpstream{fakeUpstream: up}
	e := NewEnricher(slow, testTable(t), EnricherConfig{Concurrency: 1, Deadline: 20 * time.Millisecond}, nil, testLogger())

	_, err := e.Departures(context.Background(), "KGX", DefaultBoardQuery())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// contextAwareUpstream gives up as soon as the caller's context is done.
type contextAwareUpstream struct {
	*fakeUpstream
}

func (c *contextAwareUpstream) Service(ctx context.Context, rid string) (*ServiceDetail, error) {
	done := make(chan struct{})
	var svc *ServiceDetail
	var err error
	go func() {
		svc, err = c.fakeUpstream.Service(ctx, rid)
		close(done)
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
		return svc, err
	}
}

func TestEnrichCachesServices(t *testing.T) {
	up := &fakeUpstream{}
	e := NewEnricher(up, testTable(t), EnricherConfig{Concurrency: 2}, NewMemoryCache(time.Minute), testLogger())

	_, err := e.Departures(context.Background(), "KGX", DefaultBoardQuery())
	require.NoError(t, err)
	_, err = e.Departures(context.Background(), "KGX", DefaultBoardQuery())
	require.NoError(t, err)

	assert.Len(t, up.calls, 2)
}

func TestClientAgainstFakeAPI(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/staffdepartures/"):
			gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
			_, _ = io.WriteString(w, boardJSON)
		case r.URL.Path == "/service/DIVIDE1":
			_, _ = io.WriteString(w, `{"rid":"DIVIDE1","trainid":"1S13","locations":[{"tiploc":"YORK","length":5}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, nil)

	board, err := c.StaffDepartures(context.Background(), "KGX", BoardQuery{MaxServices: 5, TimeOffset: -10, TimeWindow: 60})
	require.NoError(t, err)
	assert.Equal(t, "/staffdepartures/KGX/5", gotPath)
	assert.Contains(t, gotQuery, "expand=true")
	assert.Contains(t, gotQuery, "timeOffset=-10")
	assert.Contains(t, gotQuery, "timeWindow=60")
	assert.Len(t, board.TrainServices, 2)

	svc, err := c.Service(context.Background(), "DIVIDE1")
	require.NoError(t, err)
	assert.Equal(t, "1S13", svc.TrainID)
	require.Len(t, svc.Locations, 1)
	assert.Equal(t, "YORK", svc.Locations[0].Tiploc)
	require.NotNil(t, svc.Locations[0].Length)
	assert.Equal(t, 5, *svc.Locations[0].Length)

	_, err = c.Service(context.Background(), "MISSING")
	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusNotFound, upErr.StatusCode)
}

func TestPlainText(t *testing.T) {
	got, err := plainText(`Line one<br/>line   two <b>bold</b>`)
	require.NoError(t, err)
	assert.Equal(t, "Line one line two bold", got)
}
