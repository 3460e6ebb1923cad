package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/killallgit/podcast-runtime/internal/models"
	apperrors "github.com/killallgit/podcast-runtime/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEpisodes() []models.Episode {
	return []models.Episode{
		{Number: 1, Title: "Pilot", DurationMs: 1_800_000},
		{Number: 2, Title: "Commas, \"quotes\" and more", DurationMs: 2_400_123},
		{Number: 3, Title: "Ünïcödé ☕", DurationMs: 61_000},
	}
}

func TestWriter_Stdout(t *testing.T) {
	buf := new(bytes.Buffer)
	w, err := NewWriter(buf, StdoutName)
	require.NoError(t, err)

	summary := models.Summary{}
	for _, ep := range sampleEpisodes()[:1] {
		require.NoError(t, w.WriteEpisode(ep))
		summary.Add(ep)
	}
	require.NoError(t, w.Close(&summary))

	assert.Equal(t, "number,name,runtime_ms\n1,Pilot,1800000\n1 episodes, totaling 0 hours, 30 minutes\n", buf.String())
	assert.Equal(t, StateClosed, w.State())
	assert.Equal(t, 1, w.Rows())
}

func TestWriter_RoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/out", 0755))
	w, err := Create(fs, "/out/show.csv")
	require.NoError(t, err)

	summary := models.Summary{}
	for _, ep := range sampleEpisodes() {
		require.NoError(t, w.WriteEpisode(ep))
		summary.Add(ep)
	}
	require.NoError(t, w.Close(&summary))

	f, err := fs.Open("/out/show.csv")
	require.NoError(t, err)
	defer f.Close()

	report, err := ReadReport(f)
	require.NoError(t, err)
	assert.Equal(t, sampleEpisodes(), report.Episodes)
	require.NotNil(t, report.Summary)
	assert.Equal(t, SummaryLine{Episodes: 3, Hours: 1, Minutes: 11}, *report.Summary)
}

func TestWriter_CloseWithoutSummary(t *testing.T) {
	fs := afero.NewMemMapFs()
	w, err := Create(fs, "partial.csv")
	require.NoError(t, err)

	require.NoError(t, w.WriteEpisode(sampleEpisodes()[0]))
	require.NoError(t, w.Close(nil))

	data, err := afero.ReadFile(fs, "partial.csv")
	require.NoError(t, err)

	report, err := ReadReport(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, report.Episodes, 1)
	assert.Nil(t, report.Summary)
}

func TestWriter_ClosedState(t *testing.T) {
	w, err := NewWriter(new(bytes.Buffer), StdoutName)
	require.NoError(t, err)
	require.NoError(t, w.Close(nil))

	// second close is a no-op
	require.NoError(t, w.Close(&models.Summary{}))

	err = w.WriteEpisode(sampleEpisodes()[0])
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeOutput))
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, w.Flush())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("no space left on device")
}

func TestWriter_OutputErrors(t *testing.T) {
	// the header is buffered, so the failure surfaces on flush
	w, err := NewWriter(failingWriter{}, "full.csv")
	require.NoError(t, err)
	require.NoError(t, w.WriteEpisode(sampleEpisodes()[0]))

	err = w.Flush()
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeOutput))

	err = w.Close(&models.Summary{})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeOutput))
}

func TestCreate_ReadOnlyFs(t *testing.T) {
	_, err := Create(afero.NewReadOnlyFs(afero.NewMemMapFs()), "out.csv")

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeOutput))
}
