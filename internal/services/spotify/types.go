package spotify

import (
	"fmt"

	"github.com/killallgit/podcast-runtime/internal/models"
)

// EpisodesResponse is the paging object returned by /shows/{id}/episodes.
// Pointer fields are required and checked by validate.
type EpisodesResponse struct {
	Href   string           `json:"href"`
	Items  []*EpisodeObject `json:"items"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
	Total  *int             `json:"total"`
	Next   *string          `json:"next"`
}

// EpisodeObject is a simplified episode. The API returns null entries for
// episodes unavailable in the requested market.
type EpisodeObject struct {
	ID         string  `json:"id"`
	Name       *string `json:"name"`
	DurationMs *int64  `json:"duration_ms"`
}

// ShowObject is the subset of /shows/{id} we read
type ShowObject struct {
	ID            string  `json:"id"`
	Name          *string `json:"name"`
	Publisher     string  `json:"publisher"`
	TotalEpisodes int     `json:"total_episodes"`
}

// errorResponse is the regular error object the Web API sends on failure
type errorResponse struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func (r *EpisodesResponse) validate() error {
	if r.Items == nil {
		return fmt.Errorf("missing required field %q", "items")
	}
	if r.Total == nil {
		return fmt.Errorf("missing required field %q", "total")
	}
	for i, item := range r.Items {
		if item == nil {
			continue
		}
		if item.Name == nil {
			return fmt.Errorf("item %d: missing required field %q", i, "name")
		}
		if item.DurationMs == nil {
			return fmt.Errorf("item %d: missing required field %q", i, "duration_ms")
		}
		if *item.DurationMs < 0 {
			return fmt.Errorf("item %d: negative duration_ms %d", i, *item.DurationMs)
		}
	}
	return nil
}

func (s *ShowObject) validate() error {
	if s.Name == nil {
		return fmt.Errorf("missing required field %q", "name")
	}
	return nil
}

// toPage converts a validated response into a page requested at offset.
// Episode numbers are left zero; the aggregator assigns positions.
func (r *EpisodesResponse) toPage(offset int) *models.Page {
	page := &models.Page{
		Episodes:  make([]models.Episode, 0, len(r.Items)),
		Offset:    offset,
		Retrieved: len(r.Items),
		Total:     *r.Total,
		HasNext:   r.Next != nil && *r.Next != "",
	}
	for _, item := range r.Items {
		if item == nil {
			continue
		}
		page.Episodes = append(page.Episodes, models.Episode{
			Title:      *item.Name,
			DurationMs: *item.DurationMs,
		})
	}
	return page
}

func (s *ShowObject) toModel() *models.Show {
	return &models.Show{
		ID:            s.ID,
		Name:          *s.Name,
		Publisher:     s.Publisher,
		TotalEpisodes: s.TotalEpisodes,
	}
}
