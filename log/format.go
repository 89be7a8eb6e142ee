package log

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dragonwatch/dragonwatch/encoding/json"
)

type Formatter interface {
	Bytes(e *Event) []byte
	String(e *Event) string
}

type jsonFormatter struct{}

func NewJSONFormatter() Formatter {
	return &jsonFormatter{}
}

func (f *jsonFormatter) Bytes(e *Event) []byte {
	data := Fields{}
	for k, v := range e.Data {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		data[k] = v
	}

	data["ts"] = e.Time
	data["level"] = e.Level.String()
	data["component"] = e.Component

	if len(e.Caller) != 0 {
		data["caller"] = e.Caller
	}

	if len(e.Message) != 0 {
		data["message"] = e.Message
	}

	raw, _ := json.Marshal(data)

	return append(raw, '\n')
}

func (f *jsonFormatter) String(e *Event) string {
	return string(f.Bytes(e))
}

type consoleFormatter struct {
	color bool
}

func NewConsoleFormatter(useColor bool) Formatter {
	return &consoleFormatter{
		color: useColor,
	}
}

func (f *consoleFormatter) Bytes(e *Event) []byte {
	return []byte(f.String(e))
}

func (f *consoleFormatter) String(e *Event) string {
	datetime := e.Time.UTC().Format(time.RFC3339)
	level := e.Level.String()

	if f.color {
		switch e.Level {
		case Ldebug:
			level = fmt.Sprintf("\033[35m%s\033[0m", level)
		case Linfo:
			level = fmt.Sprintf("\033[34m%s\033[0m", level)
		case Lwarn:
			level = fmt.Sprintf("\033[33m%s\033[0m", level)
		case Lerror:
			level = fmt.Sprintf("\033[31m\033[5m%s\033[0m", level)
		default:
		}
	}

	message := fmt.Sprintf("%s %s %s", f.writeKV("ts", datetime), f.writeKV("level", level), f.writeKV("component", strconv.Quote(e.Component)))

	if len(e.Message) != 0 {
		message += fmt.Sprintf(" %s", f.writeKV("msg", strconv.Quote(e.Message)))
	}

	for _, key := range sortedKeys(e.Data) {
		message += fmt.Sprintf(" %s", f.writeKV(key, formatValue(e.Data[key])))
	}

	message += "\n"

	return message
}

func (f *consoleFormatter) writeKV(key string, value string) string {
	if !f.color {
		return fmt.Sprintf("%s=%s", key, value)
	}

	if key == "error" {
		value = "\033[31m" + value + "\033[0m"
	}

	return fmt.Sprintf("\033[90m%s=\033[0m%s", key, value)
}

// textFormatter writes lines in the layout of the monitor.log file:
// "2006-01-02 15:04:05,000 - LEVEL - message key=value".
type textFormatter struct{}

func NewTextFormatter() Formatter {
	return &textFormatter{}
}

func (f *textFormatter) Bytes(e *Event) []byte {
	return []byte(f.String(e))
}

func (f *textFormatter) String(e *Event) string {
	var b strings.Builder

	ts := e.Time.Local()

	b.WriteString(ts.Format("2006-01-02 15:04:05"))
	b.WriteString(fmt.Sprintf(",%03d", ts.Nanosecond()/int(time.Millisecond)))
	b.WriteString(" - ")
	b.WriteString(e.Level.String())
	b.WriteString(" - ")

	if len(e.Component) != 0 {
		b.WriteString("[" + e.Component + "] ")
	}

	b.WriteString(e.Message)

	for _, key := range sortedKeys(e.Data) {
		b.WriteString(" " + key + "=" + formatValue(e.Data[key]))
	}

	b.WriteString("\n")

	return b.String()
}

func sortedKeys(data Fields) []string {
	keys := make([]string, 0, len(data))

	for key := range data {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

func formatValue(value interface{}) string {
	switch val := value.(type) {
	case bool:
		return strconv.FormatBool(val)
	case string:
		return strconv.Quote(val)
	case error:
		return strconv.Quote(val.Error())
	case fmt.Stringer:
		return strconv.Quote(val.String())
	}

	if jsonvalue, err := json.Marshal(value); err == nil {
		return string(jsonvalue)
	} else {
		return strconv.Quote(err.Error())
	}
}
