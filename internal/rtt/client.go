// Package rtt looks services up on the Realtime Trains API so a saved
// calling pattern can be imported into an announcement.
package rtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/imroc/req/v3"
	"golang.org/x/sync/errgroup"

	"railannouncements/internal/stations"
)

var (
	ErrInvalidDate = errors.New("invalid date")

	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// APIError carries the error text the RTT API put in its body.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

type Config struct {
	BaseURL     string
	Username    string
	Password    string
	Timeout     time.Duration
	Concurrency int
}

type Client struct {
	http        *req.Client
	stations    stations.Table
	concurrency int
	logger      *log.Logger
}

func NewClient(cfg Config, table stations.Table, logger *log.Logger) *Client {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 4
	}
	return &Client{
		http: req.C().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(cfg.Timeout).
			SetUserAgent("railannouncements.co.uk").
			SetCommonBasicAuth(cfg.Username, cfg.Password).
			SetCommonHeader("Accept", "application/json"),
		stations:    table,
		concurrency: cfg.Concurrency,
		logger:      logger,
	}
}

// ValidDate reports whether date is in YYYY-MM-DD form.
func ValidDate(date string) bool {
	return datePattern.MatchString(date)
}

// Service fetches a service and the services it divides into or joins with,
// one level deep.
func (c *Client) Service(ctx context.Context, uid, date string) (*Service, error) {
	svc, err := c.fetch(ctx, uid, date)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, loc := range svc.Locations {
		for _, a := range loc.Associations {
			if a == nil {
				continue
			}
			g.Go(func() error {
				assoc, err := c.fetch(gctx, a.AssociatedUID, a.AssociatedRunDate)
				if err != nil {
					return err
				}
				a.Service = assoc
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return svc, nil
}

func (c *Client) fetch(ctx context.Context, uid, date string) (*Service, error) {
	if !ValidDate(date) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"uid":   uid,
			"year":  date[0:4],
			"month": date[5:7],
			"day":   date[8:10],
		}).
		Get("/service/{uid}/{year}/{month}/{day}")
	if err != nil {
		return nil, fmt.Errorf("rtt request failed: %w", err)
	}
	if !resp.IsSuccessState() {
		return nil, fmt.Errorf("failed to fetch RTT service: %s", resp.Status)
	}

	body := resp.Bytes()
	var apiErr struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != nil {
		return nil, &APIError{Message: *apiErr.Error}
	}

	var svc Service
	if err := json.Unmarshal(body, &svc); err != nil {
		return nil, fmt.Errorf("rtt decode failed: %w", err)
	}
	if svc.Locations == nil {
		svc.Locations = []*Location{}
	}
	c.fillCRS(&svc)

	c.logger.Printf("rtt: service fetched | uid: %s | date: %s | locations: %d", uid, date, len(svc.Locations))
	return &svc, nil
}

func (c *Client) fillCRS(svc *Service) {
	fill := func(points []*EndPoint) {
		for _, p := range points {
			if p == nil {
				continue
			}
			if st, ok := c.stations.Lookup(p.Tiploc); ok {
				p.Crs = st.CRS
			}
		}
	}

	fill(svc.Origin)
	fill(svc.Destination)
	for _, loc := range svc.Locations {
		if loc == nil {
			continue
		}
		fill(loc.Origin)
		fill(loc.Destination)
	}
}
