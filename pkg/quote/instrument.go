package quote

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/vango-dev/quoteboard/internal/errors"
	"github.com/vango-dev/quoteboard/pkg/telemetry"
)

// Lookup outcomes recorded on metrics.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeTimeout  = "timeout"
	OutcomeCanceled = "canceled"
	OutcomeError    = "error"
)

type instrumented struct {
	delegate Service
	tel      *telemetry.Telemetry
}

// Instrument wraps svc with a span and a metric sample per call.
func Instrument(svc Service, tel *telemetry.Telemetry) Service {
	if tel == nil {
		return svc
	}
	return &instrumented{delegate: svc, tel: tel}
}

func (s *instrumented) Lookup(ctx context.Context, symbol string) (Quote, error) {
	ctx, span := s.tel.StartLookup(ctx, "quote", symbol)
	start := time.Now()
	q, err := s.delegate.Lookup(ctx, symbol)
	s.tel.M().RecordLookup("quote", Outcome(err), time.Since(start).Seconds())
	telemetry.EndSpan(span, err)
	return q, err
}

func (s *instrumented) Search(ctx context.Context, keywords string) ([]Match, error) {
	ctx, span := s.tel.StartLookup(ctx, "search", keywords)
	start := time.Now()
	matches, err := s.delegate.Search(ctx, keywords)
	s.tel.M().RecordLookup("search", Outcome(err), time.Since(start).Seconds())
	telemetry.EndSpan(span, err)
	return matches, err
}

// Outcome classifies a lookup error for metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case stderrors.Is(err, ErrNotFound):
		return OutcomeNotFound
	case stderrors.Is(err, context.DeadlineExceeded), errors.CodeOf(err) == "E202":
		return OutcomeTimeout
	case stderrors.Is(err, context.Canceled):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}
