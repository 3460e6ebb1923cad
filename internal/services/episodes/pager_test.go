package episodes

import (
	"context"
	"errors"
	"testing"

	"github.com/killallgit/podcast-runtime/internal/models"
	"github.com/killallgit/podcast-runtime/internal/testsupport"
	apperrors "github.com/killallgit/podcast-runtime/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, p *Pager) []models.Episode {
	t.Helper()
	var out []models.Episode
	for {
		page, err := p.Next(context.Background())
		if errors.Is(err, ErrDone) {
			return out
		}
		require.NoError(t, err)
		out = append(out, page.Episodes...)
	}
}

func TestPager_YieldsAllEpisodes(t *testing.T) {
	tests := []struct {
		name     string
		episodes int
		pageSize int
	}{
		{"exact multiple", 100, 50},
		{"partial last page", 101, 50},
		{"single page", 7, 50},
		{"page size one", 5, 1},
		{"large show", 701, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &testsupport.FakeSource{Episodes: tt.episodes}
			pager := NewPager(src, "show", tt.pageSize, 0)

			got := drain(t, pager)

			wantRequests := (tt.episodes + tt.pageSize - 1) / tt.pageSize
			assert.Len(t, got, tt.episodes)
			assert.Equal(t, wantRequests, src.Requests())
			assert.Equal(t, wantRequests, pager.Requests())
			for i, off := range src.Offsets {
				assert.Equal(t, i*tt.pageSize, off, "request %d", i)
			}
			for i, ep := range got {
				assert.Equal(t, testsupport.EpisodeTitle(i), ep.Title)
			}
			assert.Equal(t, tt.episodes, pager.Total())
			assert.True(t, pager.Done())
			assert.True(t, pager.Exhausted())
		})
	}
}

func TestPager_SoftLimit(t *testing.T) {
	tests := []struct {
		name     string
		episodes int
		pageSize int
		limit    int
		want     int
	}{
		{"limit inside first page", 200, 50, 10, 50},
		{"limit on page boundary", 200, 50, 100, 100},
		{"limit one past boundary", 200, 50, 101, 150},
		{"limit above total", 30, 50, 100, 30},
		{"limit equals total", 120, 50, 120, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &testsupport.FakeSource{Episodes: tt.episodes}
			pager := NewPager(src, "show", tt.pageSize, tt.limit)
			got := drain(t, pager)

			assert.Len(t, got, tt.want)
			assert.Equal(t, tt.want == tt.episodes, pager.Exhausted())
			if tt.episodes >= tt.limit {
				assert.GreaterOrEqual(t, len(got), tt.limit)
				assert.Less(t, len(got)-tt.pageSize, tt.limit)
			}
		})
	}
}

func TestPager_DefaultPageSize(t *testing.T) {
	src := &testsupport.FakeSource{Episodes: 120}
	drain(t, NewPager(src, "show", 0, 0))

	assert.Equal(t, []int{0, 50, 100}, src.Offsets)
}

func TestPager_FailureIsFinal(t *testing.T) {
	src := &testsupport.FakeSource{Episodes: 250, FailOn: 3}
	pager := NewPager(src, "show", 50, 0)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := pager.Next(ctx)
		require.NoError(t, err)
	}

	_, err := pager.Next(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeFetch))
	offset, _ := apperrors.GetDetail(err, "offset")
	assert.Equal(t, 100, offset)

	_, err = pager.Next(ctx)
	assert.ErrorIs(t, err, ErrDone)
	assert.Equal(t, 3, src.Requests())
	assert.False(t, pager.Exhausted())
}

type plainErrSource struct{}

func (plainErrSource) GetEpisodes(ctx context.Context, showID string, offset, limit int) (*models.Page, error) {
	return nil, errors.New("socket closed")
}

func TestPager_WrapsPlainErrors(t *testing.T) {
	_, err := NewPager(plainErrSource{}, "show", 50, 0).Next(context.Background())

	assert.True(t, apperrors.Is(err, apperrors.ErrCodeFetch))
}

func TestPager_CancelledContext(t *testing.T) {
	src := &testsupport.FakeSource{Episodes: 10}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPager(src, "show", 50, 0).Next(ctx)

	assert.True(t, apperrors.Is(err, apperrors.ErrCodeFetch))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, src.Requests())
}

type stuckSource struct{ calls int }

func (s *stuckSource) GetEpisodes(ctx context.Context, showID string, offset, limit int) (*models.Page, error) {
	s.calls++
	return &models.Page{Offset: offset, Total: 10, HasNext: true}, nil
}

func TestPager_StopsOnEmptyPage(t *testing.T) {
	src := &stuckSource{}
	got := drain(t, NewPager(src, "show", 50, 0))

	assert.Empty(t, got)
	assert.Equal(t, 1, src.calls)
}

func TestPager_SkippedItemsAdvanceOffset(t *testing.T) {
	src := &gappySource{}
	pager := NewPager(src, "show", 3, 0)
	got := drain(t, pager)

	assert.Len(t, got, 4)
	assert.Equal(t, []int{0, 3}, src.offsets)
	assert.True(t, pager.Exhausted())
}

// gappySource returns pages where one raw item per page was unavailable
type gappySource struct{ offsets []int }

func (g *gappySource) GetEpisodes(ctx context.Context, showID string, offset, limit int) (*models.Page, error) {
	g.offsets = append(g.offsets, offset)
	return &models.Page{
		Episodes:  []models.Episode{{Title: "a", DurationMs: 1}, {Title: "b", DurationMs: 2}},
		Offset:    offset,
		Retrieved: 3,
		Total:     6,
		HasNext:   offset+3 < 6,
	}, nil
}
