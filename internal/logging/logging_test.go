package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_TextFormat(t *testing.T) {
	buf := new(bytes.Buffer)
	Setup(Options{Level: "debug", Output: buf})

	logrus.WithField("show_id", "abc").Debug("fetching page")

	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.Contains(t, buf.String(), "fetching page")
	assert.Contains(t, buf.String(), "show_id=abc")
}

func TestSetup_JSONFormat(t *testing.T) {
	buf := new(bytes.Buffer)
	Setup(Options{Level: "info", JSON: true, Output: buf})

	logrus.WithField("offset", 50).Info("page fetched")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "page fetched", entry["msg"])
	assert.Equal(t, float64(50), entry["offset"])
}

func TestSetup_UnknownLevel(t *testing.T) {
	buf := new(bytes.Buffer)
	Setup(Options{Level: "chatty", Output: buf})

	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
	assert.Contains(t, buf.String(), "unknown log level")

	buf.Reset()
	logrus.Info("hidden")
	assert.Empty(t, buf.String())
}
