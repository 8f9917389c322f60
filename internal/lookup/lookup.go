// Package lookup estimates the supply areas of an apartment complex from its
// name using an external service. Answers are best effort: any failure is
// reported as "not found" and never affects the calculator's own state.
package lookup

import (
	"context"
	"strings"

	"github.com/iwvelando/repair-reserve/pkg/mathutil"
	"go.uber.org/zap"
)

// Source is a citation backing a lookup answer.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Result is a lookup answer. Unusable areas are 0, never missing.
type Result struct {
	TotalArea     float64  `json:"totalArea"`
	HouseholdArea float64  `json:"householdArea"`
	Found         bool     `json:"found"`
	Sources       []Source `json:"sources"`
}

// Lookup resolves a complex name to area estimates.
type Lookup interface {
	Lookup(ctx context.Context, name string) (Result, error)
}

// Normalize clamps unusable areas to 0, drops sources without a URI and marks
// the answer not found when neither area is usable.
func (r Result) Normalize() Result {
	r.TotalArea = usableArea(r.TotalArea)
	r.HouseholdArea = usableArea(r.HouseholdArea)
	if r.TotalArea == 0 && r.HouseholdArea == 0 {
		r.Found = false
	}

	sources := make([]Source, 0, len(r.Sources))
	for _, s := range r.Sources {
		uri := strings.TrimSpace(s.URI)
		if uri == "" {
			continue
		}
		title := strings.TrimSpace(s.Title)
		if title == "" {
			title = uri
		}
		sources = append(sources, Source{Title: title, URI: uri})
	}
	r.Sources = sources
	return r
}

func usableArea(v float64) float64 {
	if !mathutil.IsFinite(v) || v <= 0 {
		return 0
	}
	return v
}

// NormalizeName trims and collapses whitespace so equivalent names share a cache entry.
func NormalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Service wraps a Lookup so callers never see an error.
type Service struct {
	logger *zap.Logger
	lookup Lookup
}

// NewService creates a Service. A nil lookup always answers not found.
func NewService(logger *zap.Logger, l Lookup) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger, lookup: l}
}

// Lookup returns the normalized answer for name, or a not-found result when
// the name is blank or the underlying lookup fails.
func (s *Service) Lookup(ctx context.Context, name string) Result {
	notFound := Result{Sources: []Source{}}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" || s.lookup == nil {
		return notFound
	}

	res, err := s.lookup.Lookup(ctx, trimmed)
	if err != nil {
		s.logger.Warn("complex lookup failed",
			zap.String("op", "lookup.Service.Lookup"),
			zap.String("name", trimmed),
			zap.Error(err),
		)
		return notFound
	}

	res = res.Normalize()
	s.logger.Debug("complex lookup finished",
		zap.String("op", "lookup.Service.Lookup"),
		zap.String("name", trimmed),
		zap.Bool("found", res.Found),
		zap.Int("sources", len(res.Sources)),
	)
	return res
}
