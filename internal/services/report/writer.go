// Package report writes the per-episode runtime table and its summary line.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/killallgit/podcast-runtime/internal/models"
	apperrors "github.com/killallgit/podcast-runtime/pkg/errors"
	"github.com/spf13/afero"
)

// StdoutName labels the standard output destination in messages
const StdoutName = "<stdout>"

// Header is the first row of every report
var Header = []string{"number", "name", "runtime_ms"}

// ErrClosed is returned by writes after Close
var ErrClosed = errors.New("report writer is closed")

// State is the writer lifecycle
type State int

const (
	StateOpen State = iota
	StateClosed
)

func (s State) String() string {
	if s == StateClosed {
		return "closed"
	}
	return "open"
}

// Writer emits one CSV row per episode and, on Close, the summary line.
// It owns its destination until closed.
type Writer struct {
	dest   string
	out    io.Writer
	closer io.Closer
	csv    *csv.Writer
	state  State
	rows   int
}

// NewWriter writes a report to out, which the writer never closes
func NewWriter(out io.Writer, dest string) (*Writer, error) {
	w := &Writer{
		dest: dest,
		out:  out,
		csv:  csv.NewWriter(out),
	}
	if err := w.csv.Write(Header); err != nil {
		return nil, apperrors.OutputError(dest, err)
	}
	return w, nil
}

// Create truncates or creates path on fs and writes a report to it
func Create(fs afero.Fs, path string) (*Writer, error) {
	f, err := fs.Create(path)
	if err != nil {
		return nil, apperrors.OutputError(path, err)
	}
	return NewFileWriter(f, path)
}

// NewFileWriter writes a report to an open file and closes it on Close
func NewFileWriter(f afero.File, dest string) (*Writer, error) {
	w, err := NewWriter(f, dest)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.closer = f
	return w, nil
}

// WriteEpisode appends one row
func (w *Writer) WriteEpisode(ep models.Episode) error {
	if w.state == StateClosed {
		return apperrors.OutputError(w.dest, ErrClosed)
	}

	record := []string{
		strconv.Itoa(ep.Number),
		ep.Title,
		strconv.FormatInt(ep.DurationMs, 10),
	}
	if err := w.csv.Write(record); err != nil {
		return apperrors.OutputError(w.dest, err)
	}
	w.rows++
	return nil
}

// Flush pushes buffered rows to the destination
func (w *Writer) Flush() error {
	if w.state == StateClosed {
		return nil
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return apperrors.OutputError(w.dest, err)
	}
	return nil
}

// Close flushes the rows, writes the summary line when summary is not nil
// and releases the destination. Closing twice is a no-op.
func (w *Writer) Close(summary *models.Summary) error {
	if w.state == StateClosed {
		return nil
	}
	w.state = StateClosed

	w.csv.Flush()
	err := w.csv.Error()

	if err == nil && summary != nil {
		_, err = fmt.Fprintln(w.out, summary.String())
	}

	if w.closer != nil {
		if cerr := w.closer.Close(); err == nil {
			err = cerr
		}
	}

	if err != nil {
		return apperrors.OutputError(w.dest, err)
	}
	return nil
}

// Rows returns the number of episode rows written
func (w *Writer) Rows() int {
	return w.rows
}

// State returns the lifecycle state
func (w *Writer) State() State {
	return w.state
}

// Destination names where the report goes
func (w *Writer) Destination() string {
	return w.dest
}
