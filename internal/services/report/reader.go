package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/killallgit/podcast-runtime/internal/models"
)

var summaryLine = regexp.MustCompile(`^(\d+) episodes, totaling (\d+) hours, (\d+) minutes$`)

// SummaryLine is the parsed trailing summary of a report
type SummaryLine struct {
	Episodes int
	Hours    int64
	Minutes  int64
}

// Report is a report read back from its CSV form
type Report struct {
	Episodes []models.Episode
	// Summary is nil when the run ended without writing one
	Summary *SummaryLine
}

// ReadReport parses rows and the optional summary line written by Writer
func ReadReport(r io.Reader) (*Report, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if strings.Join(header, ",") != strings.Join(Header, ",") {
		return nil, fmt.Errorf("unexpected header %q", header)
	}

	report := &Report{}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return report, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(report.Episodes)+1, err)
		}

		if report.Summary != nil {
			return nil, fmt.Errorf("row after summary line")
		}

		if s, ok := parseSummary(record); ok {
			report.Summary = s
			continue
		}

		ep, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(report.Episodes)+1, err)
		}
		report.Episodes = append(report.Episodes, ep)
	}
}

func parseRow(record []string) (models.Episode, error) {
	if len(record) != len(Header) {
		return models.Episode{}, fmt.Errorf("expected %d fields, got %d", len(Header), len(record))
	}
	number, err := strconv.Atoi(record[0])
	if err != nil {
		return models.Episode{}, fmt.Errorf("number: %w", err)
	}
	duration, err := strconv.ParseInt(record[2], 10, 64)
	if err != nil {
		return models.Episode{}, fmt.Errorf("runtime_ms: %w", err)
	}
	return models.Episode{Number: number, Title: record[1], DurationMs: duration}, nil
}

func parseSummary(record []string) (*SummaryLine, bool) {
	m := summaryLine.FindStringSubmatch(strings.Join(record, ","))
	if m == nil {
		return nil, false
	}
	episodes, _ := strconv.Atoi(m[1])
	hours, _ := strconv.ParseInt(m[2], 10, 64)
	minutes, _ := strconv.ParseInt(m[3], 10, 64)
	return &SummaryLine{Episodes: episodes, Hours: hours, Minutes: minutes}, true
}
