package episodes

import (
	"context"

	"github.com/killallgit/podcast-runtime/internal/models"
	apperrors "github.com/killallgit/podcast-runtime/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultPageSize is the number of episodes requested per page
const DefaultPageSize = 50

// Pager walks a show's episode listing one page at a time. It is single
// pass: once it returns ErrDone or an error it stays finished.
//
// The offset of each request is the number of items already retrieved, so
// episodes published mid-walk can shift the listing; that drift is accepted.
type Pager struct {
	source   PageSource
	showID   string
	pageSize int
	limit    int

	offset   int
	emitted  int
	total    int
	requests  int
	done      bool
	exhausted bool
}

// NewPager creates a pager over showID. A non-positive pageSize means
// DefaultPageSize; a non-positive limit means no limit. The limit is soft:
// the page that reaches it is returned whole and no further page is fetched.
func NewPager(source PageSource, showID string, pageSize, limit int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if limit < 0 {
		limit = 0
	}
	return &Pager{
		source:   source,
		showID:   showID,
		pageSize: pageSize,
		limit:    limit,
	}
}

// Next fetches the next page, or returns ErrDone when there is none
func (p *Pager) Next(ctx context.Context) (*models.Page, error) {
	if p.done {
		return nil, ErrDone
	}

	if err := ctx.Err(); err != nil {
		p.done = true
		return nil, apperrors.FetchError(p.offset, err)
	}

	page, err := p.source.GetEpisodes(ctx, p.showID, p.offset, p.pageSize)
	if err != nil {
		p.done = true
		if apperrors.GetCode(err) == apperrors.ErrCodeInternal {
			err = apperrors.FetchError(p.offset, err)
		}
		return nil, err
	}

	p.requests++
	p.total = page.Total
	p.offset = page.NextOffset()
	p.emitted += len(page.Episodes)

	logrus.WithFields(logrus.Fields{
		"show_id": p.showID,
		"offset":  page.Offset,
		"count":   len(page.Episodes),
		"total":   page.Total,
	}).Debug("fetched page")

	switch {
	case !page.HasNext:
		p.done = true
		p.exhausted = true
	case page.Retrieved == 0:
		// an empty page that claims a successor would loop forever
		p.done = true
		p.exhausted = true
	case p.limit > 0 && p.emitted >= p.limit:
		p.done = true
	}

	return page, nil
}

// Total returns the platform's declared episode count from the latest page
func (p *Pager) Total() int {
	return p.total
}

// Emitted returns the number of episodes returned so far
func (p *Pager) Emitted() int {
	return p.emitted
}

// Requests returns the number of page requests that succeeded
func (p *Pager) Requests() int {
	return p.requests
}

// Exhausted reports whether the listing itself ran out, as opposed to the
// walk stopping at the limit or on an error
func (p *Pager) Exhausted() bool {
	return p.exhausted
}

// Done reports whether the pager is exhausted
func (p *Pager) Done() bool {
	return p.done
}
