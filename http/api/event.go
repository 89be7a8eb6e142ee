package api

import (
	"fmt"
	"strings"

	"github.com/dragonwatch/dragonwatch/encoding/json"
	"github.com/dragonwatch/dragonwatch/log"
)

// LogEvent is a single entry of the application log
type LogEvent struct {
	Timestamp int64  `json:"ts" format:"int64"`
	Level     string `json:"level"`
	Component string `json:"event"`
	Message   string `json:"message"`
	Caller    string `json:"caller"`

	Data map[string]string `json:"data"`
}

// Unmarshal converts a log.Event to a LogEvent. All fields of the event are
// converted to strings.
func (e *LogEvent) Unmarshal(le *log.Event) {
	e.Timestamp = le.Time.Unix()
	e.Level = strings.ToLower(le.Level.String())
	e.Component = strings.ToLower(le.Component)
	e.Message = le.Message
	e.Caller = le.Caller

	e.Data = make(map[string]string, len(le.Data))

	for k, v := range le.Data {
		e.Data[k] = fieldString(v)
	}
}

func fieldString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case error:
		return val.Error()
	case fmt.Stringer:
		return val.String()
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err.Error()
	}

	return string(data)
}
