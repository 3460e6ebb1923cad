package episodes

import (
	"context"
	"errors"

	"github.com/killallgit/podcast-runtime/internal/models"
)

// Aggregator numbers, counts and sums episodes while forwarding them to a
// sink in fetch order
type Aggregator struct {
	sink  Sink
	limit int

	// OnPage, when set, is called after each page has been forwarded; an
	// error stops the run
	OnPage func(page *models.Page, running models.Summary) error
}

// NewAggregator creates an aggregator forwarding to sink. A positive limit
// stops pulling pages once the forwarded count reaches it; truncation only
// happens at page boundaries, so up to one extra page may be forwarded.
func NewAggregator(sink Sink, limit int) *Aggregator {
	return &Aggregator{sink: sink, limit: limit}
}

// Run drains pages and returns the summary of everything forwarded. On
// error the summary still reflects the episodes forwarded before it.
func (a *Aggregator) Run(ctx context.Context, pages PageIterator) (models.Summary, error) {
	var summary models.Summary

	for {
		page, err := pages.Next(ctx)
		if errors.Is(err, ErrDone) {
			return summary, nil
		}
		if err != nil {
			return summary, err
		}

		for _, ep := range page.Episodes {
			ep.Number = summary.Episodes + 1
			if err := a.sink.WriteEpisode(ep); err != nil {
				return summary, err
			}
			summary.Add(ep)
		}

		if a.OnPage != nil {
			if err := a.OnPage(page, summary); err != nil {
				return summary, err
			}
		}

		if a.limit > 0 && summary.Episodes >= a.limit {
			return summary, nil
		}
	}
}
