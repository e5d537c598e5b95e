package pipeline

import (
	"io"
	"log/slog"

	"github.com/couchcryptid/station-catalog-etl/internal/domain"
	"github.com/couchcryptid/station-catalog-etl/internal/observability"
)

// StationTransformer turns a raw listing into active catalog entries with
// candidate feed URLs: parse, derive, filter.
type StationTransformer struct {
	feedBaseURL string
	strict      bool
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewTransformer creates a StationTransformer. With strict set, a malformed
// listing field fails the run instead of being nulled.
func NewTransformer(feedBaseURL string, strict bool, logger *slog.Logger, metrics *observability.Metrics) *StationTransformer {
	return &StationTransformer{
		feedBaseURL: feedBaseURL,
		strict:      strict,
		logger:      logger,
		metrics:     metrics,
	}
}

// Transform parses the listing and returns only active stations.
// It also reports how many stations were parsed in total.
func (t *StationTransformer) Transform(r io.Reader) ([]domain.CatalogEntry, int, error) {
	stations, fieldErrs, err := domain.ParseListing(r, domain.ListingSchema(), t.strict)
	if err != nil {
		return nil, 0, err
	}
	for _, fe := range fieldErrs {
		t.logger.Warn("listing field nulled",
			"line", fe.Line,
			"column", fe.Column,
			"value", fe.Value,
			"error", fe.Err,
		)
	}
	t.metrics.ParseFieldErrors.Add(float64(len(fieldErrs)))
	t.metrics.StationsParsed.Set(float64(len(stations)))

	entries := domain.Derive(stations, t.feedBaseURL)
	for _, e := range entries {
		if e.StateCode == "" {
			t.logger.Debug("unmapped state, no feed url", "site", e.Site, "state", e.State)
		}
	}

	active := domain.FilterActive(entries)
	t.metrics.StationsActive.Set(float64(len(active)))

	candidates := map[string]int{domain.ProductStandard: 0, domain.ProductAntarctic: 0}
	for _, e := range active {
		if e.URL != "" {
			candidates[domain.ProductCode(e.State)]++
		}
	}
	for product, n := range candidates {
		t.metrics.CandidateURLs.WithLabelValues(product).Set(float64(n))
	}

	t.logger.Info("listing transformed",
		"parsed", len(stations),
		"active", len(active),
		"field_errors", len(fieldErrs),
	)
	return active, len(stations), nil
}
