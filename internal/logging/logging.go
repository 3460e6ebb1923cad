// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Options selects the logger's level, format and sink
type Options struct {
	Level string
	JSON  bool
	// Output defaults to os.Stderr; stdout is reserved for report rows
	Output io.Writer
}

// Setup applies opts to the standard logrus logger. An unknown level falls
// back to warn and is reported once at that level.
func Setup(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	logrus.SetOutput(out)

	if opts.JSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	}

	lvl, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		logrus.SetLevel(logrus.WarnLevel)
		logrus.WithField("level", opts.Level).Warn("unknown log level, using warn")
		return
	}
	logrus.SetLevel(lvl)
}
