package logrus

import (
	"fmt"
	"io"
	"os"

	"github.com/lukasz-zimnoch/dexly/portfolio"
	"github.com/sirupsen/logrus"
)

var fieldMap = logrus.FieldMap{
	logrus.FieldKeyLevel: "severity",
	logrus.FieldKeyMsg:   "message",
}

type wrapper struct {
	*logrus.Entry
}

func (w *wrapper) WithField(key string, value interface{}) portfolio.Logger {
	return &wrapper{w.Entry.WithField(key, value)}
}

func (w *wrapper) WithFields(fields map[string]interface{}) portfolio.Logger {
	return &wrapper{w.Entry.WithFields(fields)}
}

// ConfigureStandardLogger sets up the logrus standard logger to write to
// stdout and returns it as a portfolio.Logger.
func ConfigureStandardLogger(format, level string) (portfolio.Logger, error) {
	if err := configure(logrus.StandardLogger(), os.Stdout, format, level); err != nil {
		return nil, err
	}

	return &wrapper{
		logrus.StandardLogger().WithFields(map[string]interface{}{}),
	}, nil
}

// NewLogger returns a logger independent of the standard one.
func NewLogger(output io.Writer, format, level string) (portfolio.Logger, error) {
	logger := logrus.New()

	if err := configure(logger, output, format, level); err != nil {
		return nil, err
	}

	return &wrapper{logger.WithFields(map[string]interface{}{})}, nil
}

func configure(
	logger *logrus.Logger,
	output io.Writer,
	format string,
	level string,
) error {
	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			FieldMap: fieldMap,
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			FieldMap:      fieldMap,
		})
	}

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("could not parse log level: [%v]", err)
	}

	logger.SetLevel(logLevel)

	logger.SetOutput(output)

	return nil
}
