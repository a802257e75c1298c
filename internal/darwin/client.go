package darwin

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/imroc/req/v3"
	"golang.org/x/time/rate"
)

const userAgent = "railannouncements (+https://github.com/railannouncements)"

// UpstreamError is returned when the departures API answers with a non-2xx status.
type UpstreamError struct {
	Path       string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d", e.Path, e.StatusCode)
}

// BoardQuery selects the window of departures to fetch.
type BoardQuery struct {
	MaxServices int
	TimeOffset  int
	TimeWindow  int
}

func DefaultBoardQuery() BoardQuery {
	return BoardQuery{MaxServices: 10, TimeOffset: 0, TimeWindow: 120}
}

// Client talks to the staff departures API. Every call waits on the limiter
// when one is set.
type Client struct {
	http    *req.Client
	limiter *rate.Limiter
}

func NewClient(baseURL string, timeout time.Duration, limiter *rate.Limiter) *Client {
	return &Client{
		http: req.C().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetUserAgent(userAgent).
			SetCommonHeader("Accept", "application/json"),
		limiter: limiter,
	}
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

func (c *Client) StaffDepartures(ctx context.Context, crs string, q BoardQuery) (*Board, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"crs": crs,
			"max": strconv.Itoa(q.MaxServices),
		}).
		SetQueryParams(map[string]string{
			"expand":     "true",
			"timeOffset": strconv.Itoa(q.TimeOffset),
			"timeWindow": strconv.Itoa(q.TimeWindow),
		}).
		Get("/staffdepartures/{crs}/{max}")
	if err != nil {
		return nil, fmt.Errorf("departure board request failed: %w", err)
	}
	if !resp.IsSuccessState() {
		return nil, &UpstreamError{Path: "/staffdepartures/" + crs, StatusCode: resp.StatusCode}
	}

	var board Board
	if err := resp.Unmarshal(&board); err != nil {
		return nil, fmt.Errorf("departure board decode failed: %w", err)
	}
	return &board, nil
}

func (c *Client) Service(ctx context.Context, rid string) (*ServiceDetail, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("rid", rid).
		Get("/service/{rid}")
	if err != nil {
		return nil, fmt.Errorf("service %s request failed: %w", rid, err)
	}
	if !resp.IsSuccessState() {
		return nil, &UpstreamError{Path: "/service/" + rid, StatusCode: resp.StatusCode}
	}

	var svc ServiceDetail
	if err := resp.Unmarshal(&svc); err != nil {
		return nil, fmt.Errorf("service %s decode failed: %w", rid, err)
	}
	return &svc, nil
}
