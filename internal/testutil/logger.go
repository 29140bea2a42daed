package testutil

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewTestLogger creates a logger that discards output, suitable for tests.
func NewTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
