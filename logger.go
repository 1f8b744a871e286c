package bigquery

import (
	"github.com/sirupsen/logrus"
)

var logger logrus.FieldLogger = newDefaultLogger()

func newDefaultLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

// SetLogger replaces the package logger. Pass a logrus.FieldLogger configured
// with the desired level and formatter; the client logs request submissions
// and page fetches at debug level.
func SetLogger(l logrus.FieldLogger) {
	logger = l
}
