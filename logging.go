package pdfmerge

import (
	"io"

	"github.com/sirupsen/logrus"
)

// discardLogger is used when the caller supplies no logger.
func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}
