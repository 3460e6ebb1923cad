package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name:     "detailed",
			args:     []string{"version"},
			contains: []string{"podcast-runtime", "Version:      vdev", "Go Version:"},
		},
		{
			name:     "short",
			args:     []string{"version", "--short"},
			contains: []string{"vdev"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "", tt.args...)

			require.NoError(t, h.cmd.Execute())
			for _, want := range tt.contains {
				assert.Contains(t, h.stdout.String(), want)
			}
		})
	}
}

func TestVersionCommand_Short(t *testing.T) {
	h := newHarness(t, "", "version", "-s")

	require.NoError(t, h.cmd.Execute())
	assert.Equal(t, "vdev\n", h.stdout.String())
}
