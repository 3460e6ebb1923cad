package episodes

import (
	"context"

	"github.com/killallgit/podcast-runtime/internal/models"
)

// PageSource fetches one page of a show's episodes
type PageSource interface {
	GetEpisodes(ctx context.Context, showID string, offset, limit int) (*models.Page, error)
}

// PageIterator yields pages until it returns ErrDone
type PageIterator interface {
	Next(ctx context.Context) (*models.Page, error)
}

// Sink receives every episode the aggregator forwards
type Sink interface {
	WriteEpisode(ep models.Episode) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ep models.Episode) error

// WriteEpisode calls f(ep)
func (f SinkFunc) WriteEpisode(ep models.Episode) error {
	return f(ep)
}
