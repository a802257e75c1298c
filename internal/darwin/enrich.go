package darwin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"railannouncements/internal/stations"
)

var ErrTooManyAssociations = errors.New("too many associated services to resolve")

// Upstream is the subset of Client the enricher needs.
type Upstream interface {
	StaffDepartures(ctx context.Context, crs string, q BoardQuery) (*Board, error)
	Service(ctx context.Context, rid string) (*ServiceDetail, error)
}

type EnricherConfig struct {
	// Concurrency bounds in-flight service fetches per request.
	Concurrency int
	// MaxAssociations caps the service fetches a single board may trigger.
	MaxAssociations int
	// Deadline bounds the whole request, board fetch included. Zero disables it.
	Deadline time.Duration
}

// Enricher fetches a departure board and fills in everything the UI needs
// that the board itself leaves out.
type Enricher struct {
	upstream Upstream
	stations stations.Table
	cfg      EnricherConfig
	cache    ServiceCache
	logger   *log.Logger
}

// NewEnricher builds an enricher. cache may be nil.
func NewEnricher(upstream Upstream, table stations.Table, cfg EnricherConfig, cache ServiceCache, logger *log.Logger) *Enricher {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Enricher{
		upstream: upstream,
		stations: table,
		cfg:      cfg,
		cache:    cache,
		logger:   logger,
	}
}

// Departures returns the fully enriched board or an error. Nothing partial is
// ever returned.
func (e *Enricher) Departures(ctx context.Context, crs string, q BoardQuery) (*Board, error) {
	if e.cfg.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Deadline)
		defer cancel()
	}

	board, err := e.upstream.StaffDepartures(ctx, crs, q)
	if err != nil {
		return nil, err
	}
	if err := e.Enrich(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

// Enrich mutates board in place.
func (e *Enricher) Enrich(ctx context.Context, board *Board) error {
	var pending []*Association
	for _, svc := range board.TrainServices {
		if svc == nil {
			continue
		}
		e.resolveReason(svc.CancelReason)
		e.resolveReason(svc.DelayReason)

		for _, loc := range svc.SubsequentLocations {
			if loc == nil {
				continue
			}
			for _, a := range loc.Associations {
				if a != nil && a.Resolvable() {
					pending = append(pending, a)
				}
			}
		}
	}

	if e.cfg.MaxAssociations > 0 && len(pending) > e.cfg.MaxAssociations {
		return fmt.Errorf("%w: %d exceeds limit of %d", ErrTooManyAssociations, len(pending), e.cfg.MaxAssociations)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)
	for _, a := range pending {
		g.Go(func() error {
			svc, err := e.service(gctx, a.Rid)
			if err != nil {
				return err
			}
			a.Service = svc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, msg := range board.NrccMessages {
		if msg == nil || msg.XhtmlMessage == "" {
			continue
		}
		text, err := plainText(msg.XhtmlMessage)
		if err != nil {
			e.logger.Printf("darwin: nrcc message left as html | error: %v", err)
			continue
		}
		msg.PlainText = text
	}

	e.logger.Printf("darwin: board enriched | crs: %s | services: %d | associations: %d",
		board.Crs, len(board.TrainServices), len(pending))
	return nil
}

func (e *Enricher) resolveReason(r *LatenessReason) {
	if r == nil || !r.Near {
		return
	}
	if st, ok := e.stations.Lookup(r.Tiploc); ok {
		name := st.FullName
		r.SetStationName(&name)
		return
	}
	r.SetStationName(nil)
}

func (e *Enricher) service(ctx context.Context, rid string) (*ServiceDetail, error) {
	if e.cache != nil {
		if svc, ok := e.cache.Get(rid); ok {
			return svc, nil
		}
	}

	svc, err := e.upstream.Service(ctx, rid)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Set(rid, svc)
	}
	return svc, nil
}
