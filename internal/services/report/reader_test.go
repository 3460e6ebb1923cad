package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadReport_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong header", "a,b,c\n"},
		{"bad number", "number,name,runtime_ms\nx,Pilot,10\n"},
		{"bad runtime", "number,name,runtime_ms\n1,Pilot,ten\n"},
		{"short row", "number,name,runtime_ms\n1,Pilot\n"},
		{"row after summary", "number,name,runtime_ms\n1 episodes, totaling 0 hours, 0 minutes\n1,Pilot,10\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadReport(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestReadReport_TitleLooksLikeSummary(t *testing.T) {
	input := "number,name,runtime_ms\n1,\"5 episodes, totaling 1 hours, 2 minutes\",100\n"

	report, err := ReadReport(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, report.Episodes, 1)
	assert.Equal(t, "5 episodes, totaling 1 hours, 2 minutes", report.Episodes[0].Title)
	assert.Nil(t, report.Summary)
}
