// Package census runs the whole pipeline: resolve the show, page through its
// episodes, write the report and total the runtime.
package census

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/killallgit/podcast-runtime/internal/models"
	"github.com/killallgit/podcast-runtime/internal/services/episodes"
	"github.com/killallgit/podcast-runtime/internal/services/report"
	"github.com/killallgit/podcast-runtime/internal/services/resolver"
	apperrors "github.com/killallgit/podcast-runtime/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// API is the part of the platform client a census needs
type API interface {
	episodes.PageSource
	GetShow(ctx context.Context, showID string) (*models.Show, error)
}

// Options is the immutable configuration of one run
type Options struct {
	// ShowRef is a share URL, URI or bare show ID
	ShowRef string
	// OutPath is the report file; empty derives one from the show name
	OutPath string
	// Stdout sends the report to standard output and wins over OutPath
	Stdout   bool
	Limit    int
	PageSize int
	// Dir is where a derived file name is placed
	Dir string
}

// Result describes a finished run
type Result struct {
	ShowID      string
	Summary     models.Summary
	Destination string
	// DeclaredTotal is the platform's episode count from the last page
	DeclaredTotal int
	// Exhausted is set when the listing ran out rather than the run
	// stopping at the limit or on an error
	Exhausted bool
}

// Complete reports whether every available episode was written. Episodes
// the platform lists as unavailable do not count against it.
func (r *Result) Complete() bool {
	return r.Exhausted
}

// Runner executes censuses against one API and filesystem
type Runner struct {
	api    API
	fs     afero.Fs
	stdout io.Writer

	// Progress, when set, receives a running "fetched n/total" line
	Progress io.Writer
}

// NewRunner creates a runner. stdout receives the report in Stdout mode.
func NewRunner(api API, fs afero.Fs, stdout io.Writer) *Runner {
	return &Runner{api: api, fs: fs, stdout: stdout}
}

// Run performs one census. When a page request fails after rows were
// written, those rows stay in the destination, no summary line is added
// and the returned Result holds the partial summary alongside the error.
//
// A name derived from the show is only claimed once the run is over: the
// report is written to a temporary file beside it and renamed to
// "<show>.csv" when complete, or "<show>_1-<n>.csv" otherwise.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	showID, err := resolver.Resolve(opts.ShowRef)
	if err != nil {
		return nil, err
	}

	log := logrus.WithField("show_id", showID)
	result := &Result{ShowID: showID}

	w, show, err := r.openDestination(ctx, showID, opts)
	if err != nil {
		return nil, err
	}
	result.Destination = w.Destination()

	closed := false
	defer func() {
		if !closed {
			_ = w.Close(nil)
		}
	}()

	pager := episodes.NewPager(r.api, showID, opts.PageSize, opts.Limit)
	agg := episodes.NewAggregator(w, opts.Limit)
	agg.OnPage = func(page *models.Page, running models.Summary) error {
		r.reportProgress(running.Episodes, page.Total)
		return w.Flush()
	}

	summary, runErr := agg.Run(ctx, pager)
	r.finishProgress(summary.Episodes)
	result.Summary = summary
	result.DeclaredTotal = pager.Total()
	result.Exhausted = runErr == nil && pager.Exhausted()

	closed = true
	if runErr != nil {
		log.WithError(runErr).WithField("count", summary.Episodes).Warn("census stopped early")
		_ = w.Close(nil)
	} else if err := w.Close(&summary); err != nil {
		r.discard(show, result.Destination)
		return result, err
	}

	if show != nil {
		final, err := r.claimName(result, show.Name)
		switch {
		case err != nil && runErr == nil:
			return result, err
		case err != nil:
			log.WithError(err).Warn("could not rename partial report")
		default:
			result.Destination = final
		}
	}

	if runErr != nil {
		return result, runErr
	}

	log.WithFields(logrus.Fields{
		"destination": result.Destination,
		"count":       summary.Episodes,
		"total_ms":    summary.TotalDurationMs,
		"requests":    pager.Requests(),
	}).Info("census complete")

	return result, nil
}

// openDestination picks stdout, the requested path, or a temporary file
// next to the name derived from the show. The show is returned only when
// the name is derived.
func (r *Runner) openDestination(ctx context.Context, showID string, opts Options) (*report.Writer, *models.Show, error) {
	if opts.Stdout {
		w, err := report.NewWriter(r.stdout, report.StdoutName)
		return w, nil, err
	}

	if opts.OutPath != "" {
		w, err := report.Create(r.fs, opts.OutPath)
		return w, nil, err
	}

	show, err := r.api.GetShow(ctx, showID)
	if err != nil {
		return nil, nil, err
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	f, err := afero.TempFile(r.fs, dir, "."+report.Sanitize(show.Name)+"-*.csv.tmp")
	if err != nil {
		return nil, nil, apperrors.OutputError(filepath.Join(dir, report.FileName(show.Name)), err)
	}

	logrus.WithFields(logrus.Fields{"show_id": showID, "name": show.Name, "path": f.Name()}).Debug("writing report to temporary file")

	w, err := report.NewFileWriter(f, f.Name())
	if err != nil {
		_ = r.fs.Remove(f.Name())
		return nil, nil, err
	}
	return w, show, nil
}

// claimName moves the temporary report to its final name. A run that wrote
// nothing leaves no file behind, so an earlier report keeps its name.
func (r *Runner) claimName(result *Result, showName string) (string, error) {
	tmp := result.Destination
	dir := filepath.Dir(tmp)

	var name string
	switch {
	case result.Complete():
		name = report.FileName(showName)
	case result.Summary.Episodes > 0:
		name = report.RangeFileName(showName, 1, result.Summary.Episodes)
	default:
		if err := r.fs.Remove(tmp); err != nil {
			return "", apperrors.OutputError(tmp, err)
		}
		return "", nil
	}

	target := filepath.Join(dir, name)
	if err := r.fs.Rename(tmp, target); err != nil {
		return "", apperrors.OutputError(target, err)
	}
	// temporary files are created private
	if err := r.fs.Chmod(target, 0o644); err != nil {
		logrus.WithError(err).WithField("path", target).Debug("could not set report permissions")
	}
	return target, nil
}

// discard removes a temporary report that could not be finished
func (r *Runner) discard(show *models.Show, path string) {
	if show == nil {
		return
	}
	if err := r.fs.Remove(path); err != nil {
		logrus.WithError(err).WithField("path", path).Debug("could not remove temporary report")
	}
}

func (r *Runner) reportProgress(done, total int) {
	if r.Progress == nil {
		return
	}
	fmt.Fprintf(r.Progress, "\rfetched %d/%d episodes", done, total)
}

func (r *Runner) finishProgress(done int) {
	if r.Progress == nil || done == 0 {
		return
	}
	fmt.Fprintln(r.Progress)
}
