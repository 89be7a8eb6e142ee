// Package log forwards the messages of the echo logger to a log.Logger.
package log

import (
	"encoding/json"
	"strings"

	"github.com/dragonwatch/dragonwatch/log"
)

type logwrapper struct {
	logger log.Logger
}

type logentry struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// NewWrapper returns a writer for echo's Logger.SetOutput. Each JSON entry
// is logged with its level. Anything else is logged with debug level.
func NewWrapper(logger log.Logger) *logwrapper {
	if logger == nil {
		logger = log.New("")
	}

	return &logwrapper{
		logger: logger,
	}
}

func (b *logwrapper) Write(p []byte) (int, error) {
	entry := logentry{}
	if err := json.Unmarshal(p, &entry); err != nil || len(entry.Message) == 0 {
		b.logger.Debug().Log("%s", strings.TrimSpace(string(p)))
		return len(p), nil
	}

	var logger log.Logger

	switch strings.ToUpper(entry.Level) {
	case "ERROR", "FATAL", "PANIC":
		logger = b.logger.Error()
	case "WARN":
		logger = b.logger.Warn()
	case "INFO":
		logger = b.logger.Info()
	default:
		logger = b.logger.Debug()
	}

	for _, line := range strings.Split(entry.Message, "\n") {
		logger.Log("%s", line)
	}

	return len(p), nil
}
