package game

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NopLogger returns a logger that discards everything written to it. Constructors fall back to it when
// no logger is passed.
func NopLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}
