// Package enrich suggests a description and tags for a link.
//
// Enrichment is best effort: implementations never return an error, they
// log it and hand back an empty Result instead.
package enrich

import (
	"context"

	"github.com/MrSnakeDoc/linkvault/internal/domain"
	"github.com/MrSnakeDoc/linkvault/internal/metrics"
)

// Result is a suggestion. The zero value means "nothing to add".
type Result = domain.Enrichment

// Enricher produces suggestions for one link.
type Enricher interface {
	Enrich(ctx context.Context, title, url string) Result
}

// Observer receives one outcome per enrichment call, one of the
// metrics.Outcome* values.
type Observer interface {
	ObserveEnrichment(outcome string)
}

// Func adapts a plain function to Enricher.
type Func func(ctx context.Context, title, url string) Result

func (f Func) Enrich(ctx context.Context, title, url string) Result { return f(ctx, title, url) }

// Noop is used when no AI backend is configured.
type Noop struct {
	Observer Observer
}

func (n Noop) Enrich(context.Context, string, string) Result {
	if n.Observer != nil {
		n.Observer.ObserveEnrichment(metrics.OutcomeDisabled)
	}
	return Result{}
}

// Mode names the enricher kind for status reporting.
func Mode(e Enricher) string {
	switch e.(type) {
	case nil, Noop, *Noop:
		return "disabled"
	case *Gemini:
		return "gemini"
	default:
		return "custom"
	}
}
