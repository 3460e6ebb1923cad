// Package testsupport holds fakes shared by package tests.
package testsupport

import (
	"context"
	"fmt"

	"github.com/killallgit/podcast-runtime/internal/models"
	apperrors "github.com/killallgit/podcast-runtime/pkg/errors"
)

// EpisodeTitle is the title the fakes give the episode at zero-based index i
func EpisodeTitle(i int) string {
	return fmt.Sprintf("Episode %d", i+1)
}

// EpisodeDuration is the duration the fakes give the episode at index i
func EpisodeDuration(i int) int64 {
	return int64(i+1)*60_000 + 123
}

// TotalDuration sums EpisodeDuration over the first n episodes
func TotalDuration(n int) int64 {
	var total int64
	for i := 0; i < n; i++ {
		total += EpisodeDuration(i)
	}
	return total
}

// FakeSource serves a show of Episodes items from memory and records the
// offset of every request.
type FakeSource struct {
	Episodes int
	// FailOn makes the n-th request (1-based) fail; zero never fails
	FailOn  int
	Offsets []int
}

// GetEpisodes implements episodes.PageSource
func (f *FakeSource) GetEpisodes(ctx context.Context, showID string, offset, limit int) (*models.Page, error) {
	f.Offsets = append(f.Offsets, offset)
	if f.FailOn == len(f.Offsets) {
		return nil, apperrors.FetchError(offset, fmt.Errorf("simulated failure on request %d", f.FailOn))
	}

	end := min(offset+limit, f.Episodes)
	page := &models.Page{Offset: offset, Total: f.Episodes}
	for i := offset; i < end; i++ {
		page.Episodes = append(page.Episodes, models.Episode{
			Title:      EpisodeTitle(i),
			DurationMs: EpisodeDuration(i),
		})
	}
	page.Retrieved = len(page.Episodes)
	page.HasNext = end < f.Episodes
	return page, nil
}

// Requests returns how many pages were requested
func (f *FakeSource) Requests() int {
	return len(f.Offsets)
}
