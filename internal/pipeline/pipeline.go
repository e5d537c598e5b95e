package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/couchcryptid/station-catalog-etl/internal/domain"
	"github.com/couchcryptid/station-catalog-etl/internal/observability"
)

// Source provides the raw station listing.
type Source interface {
	Fetch(ctx context.Context) (io.ReadCloser, error)
}

// Transformer converts a listing into active catalog entries.
type Transformer interface {
	Transform(r io.Reader) (entries []domain.CatalogEntry, parsed int, err error)
}

// Prober checks that a feed URL is being served.
type Prober interface {
	Probe(ctx context.Context, url string) error
}

// Sink persists the finished tables.
type Sink interface {
	Name() string
	Write(ctx context.Context, tables domain.Tables) error
}

// Summary counts what one run did.
type Summary struct {
	Parsed       int
	Active       int
	Candidates   int
	ProbeOK      int
	ProbeFailed  int
	URLRows      int
	LocationRows int
}

// Pipeline runs the fetch → parse → derive → filter → validate → persist
// sequence once.
type Pipeline struct {
	source      Source
	transformer Transformer
	prober      Prober
	sinks       []Sink
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// New creates a Pipeline with the given stages and observability.
func New(src Source, t Transformer, prober Prober, sinks []Sink, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:      src,
		transformer: t,
		prober:      prober,
		sinks:       sinks,
		logger:      logger,
		metrics:     metrics,
	}
}

// Run executes every stage in order. Any fetch, parse or sink error aborts
// the run; probe failures only clear the affected URL.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	var sum Summary

	p.logger.Info("catalog build started")

	listing, err := p.source.Fetch(ctx)
	if err != nil {
		return sum, fmt.Errorf("fetch listing: %w", err)
	}
	defer func() {
		if err := listing.Close(); err != nil {
			p.logger.Warn("close listing failed", "error", err)
		}
	}()

	entries, parsed, err := p.transformer.Transform(listing)
	if err != nil {
		return sum, fmt.Errorf("parse listing: %w", err)
	}
	sum.Parsed = parsed
	sum.Active = len(entries)

	if err := p.validateURLs(ctx, entries, &sum); err != nil {
		return sum, fmt.Errorf("validate feed urls: %w", err)
	}

	tables := domain.BuildTables(entries)
	sum.URLRows = len(tables.URLs)
	sum.LocationRows = len(tables.Locations)
	p.metrics.RowsWritten.WithLabelValues("urls").Set(float64(sum.URLRows))
	p.metrics.RowsWritten.WithLabelValues("locations").Set(float64(sum.LocationRows))

	for _, s := range p.sinks {
		if err := s.Write(ctx, tables); err != nil {
			return sum, fmt.Errorf("persist to %s: %w", s.Name(), err)
		}
	}

	elapsed := time.Since(start)
	p.metrics.RunDuration.Set(elapsed.Seconds())
	p.metrics.LastSuccessSeconds.SetToCurrentTime()

	p.logger.Info("catalog build finished",
		"parsed", sum.Parsed,
		"active", sum.Active,
		"candidates", sum.Candidates,
		"probe_ok", sum.ProbeOK,
		"probe_failed", sum.ProbeFailed,
		"url_rows", sum.URLRows,
		"location_rows", sum.LocationRows,
		"duration", elapsed,
	)
	return sum, nil
}

// validateURLs probes every candidate URL in turn and clears the ones that
// fail. It stops early only when ctx is done, so a cancelled run never
// mistakes cancellation for dead feeds.
func (p *Pipeline) validateURLs(ctx context.Context, entries []domain.CatalogEntry, sum *Summary) error {
	for i := range entries {
		e := &entries[i]
		if e.URL == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		sum.Candidates++

		start := time.Now()
		err := p.prober.Probe(ctx, e.URL)
		p.metrics.ProbeDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Warn("feed probe failed, dropping url",
				"site", e.Site,
				"name", e.Name,
				"url", e.URL,
				"error", err,
			)
			p.metrics.ProbeResults.WithLabelValues("error").Inc()
			sum.ProbeFailed++
			e.URL = ""
			continue
		}
		p.metrics.ProbeResults.WithLabelValues("ok").Inc()
		sum.ProbeOK++
	}
	p.logger.Info("feed urls validated", "candidates", sum.Candidates, "ok", sum.ProbeOK, "failed", sum.ProbeFailed)
	return nil
}
