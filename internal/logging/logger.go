package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var logger *logrus.Logger

func init() {
	logger = logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: false,
	})
	logger.SetLevel(logrus.InfoLevel)
}

func GetLogger() *logrus.Logger {
	return logger
}

func SetLogLevel(level string) error {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logger.SetLevel(logLevel)
	return nil
}

func SetFormatter(formatter logrus.Formatter) {
	logger.SetFormatter(formatter)
}

// SetOutput redirects the process logger, e.g. to stderr when the chart is
// streamed to stdout.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}
