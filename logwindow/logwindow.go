// Package logwindow reads log files and keeps the lines whose leading
// "[HH:MM:SS.mmm]" timestamp falls into a trailing time window.
package logwindow

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dragonwatch/dragonwatch/glob"
	"github.com/dragonwatch/dragonwatch/log"
	timesrc "github.com/dragonwatch/dragonwatch/time"

	"github.com/lestrrat-go/strftime"
)

// timestampLength is the length of "[HH:MM:SS.mmm]"
const timestampLength = 14

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type Config struct {
	// Clock provides "now". Defaults to the system clock.
	Clock timesrc.Source

	Logger log.Logger
}

type Reader struct {
	clock  timesrc.Source
	logger log.Logger
}

func New(config Config) *Reader {
	r := &Reader{
		clock:  config.Clock,
		logger: config.Logger,
	}

	if r.clock == nil {
		r.clock = &timesrc.StdSource{}
	}

	if r.logger == nil {
		r.logger = log.New("")
	}

	return r
}

// Read returns the qualifying lines of all files joined by "\n". Files are
// visited in the given order, lines in file order. An empty string is
// returned if no line qualifies.
func (r *Reader) Read(paths []string, window time.Duration) string {
	return strings.Join(r.ReadLines(paths, window), "\n")
}

// ReadLines is like Read, but returns the individual lines.
func (r *Reader) ReadLines(paths []string, window time.Duration) []string {
	now := r.clock.Now()
	lines := []string{}

	for _, path := range r.Expand(paths) {
		lines = append(lines, r.readFile(path, now, window)...)
	}

	return lines
}

// Expand resolves strftime placeholders with the current date and replaces
// glob patterns by their matches, sorted lexically. Entries that can't be
// resolved are dropped with a warning.
func (r *Reader) Expand(paths []string) []string {
	now := r.clock.Now()
	files := []string{}

	for _, p := range paths {
		path, err := strftime.Format(p, now)
		if err != nil {
			r.logger.Warn().WithError(err).WithField("path", p).Log("Invalid path pattern")
			continue
		}

		if !glob.IsPattern(path) {
			files = append(files, path)
			continue
		}

		matches, err := glob.Expand(path)
		if err != nil {
			r.logger.Warn().WithError(err).WithField("path", path).Log("Invalid path pattern")
			continue
		}

		if len(matches) == 0 {
			r.logger.Warn().WithField("path", path).Log("Log file not found")
			continue
		}

		files = append(files, matches...)
	}

	return files
}

func (r *Reader) readFile(path string, now time.Time, window time.Duration) []string {
	logger := r.logger.WithField("path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Log("Log file not found")
		} else {
			logger.Error().WithError(err).Log("Reading log file failed")
		}
		return nil
	}

	if !utf8.Valid(data) {
		logger.Error().Log("Log file is not valid UTF-8")
		return nil
	}

	data = bytes.TrimPrefix(data, utf8BOM)

	lines := []string{}
	earliest := now.Add(-window)

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}

		t, ok := Timestamp(line, now)
		if !ok {
			logger.Warn().WithField("line", i+1).Log("Skipping line without valid timestamp")
			continue
		}

		if t.Before(earliest) || t.After(now) {
			continue
		}

		lines = append(lines, line)
	}

	return lines
}

// Timestamp parses the leading "[HH:MM:SS.mmm]" of a line and places it on
// the date of now, in the location of now. If the resulting instant is later
// than now, it is moved back by one day.
func Timestamp(line string, now time.Time) (time.Time, bool) {
	if len(line) < timestampLength {
		return time.Time{}, false
	}

	s := line[:timestampLength]
	if s[0] != '[' || s[3] != ':' || s[6] != ':' || s[9] != '.' || s[13] != ']' {
		return time.Time{}, false
	}

	hour, ok := digits(s[1:3])
	if !ok || hour > 23 {
		return time.Time{}, false
	}

	minute, ok := digits(s[4:6])
	if !ok || minute > 59 {
		return time.Time{}, false
	}

	second, ok := digits(s[7:9])
	if !ok || second > 59 {
		return time.Time{}, false
	}

	milli, ok := digits(s[10:13])
	if !ok {
		return time.Time{}, false
	}

	t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, second, milli*int(time.Millisecond), now.Location())
	if t.After(now) {
		t = t.AddDate(0, 0, -1)
	}

	return t, true
}

func digits(s string) (int, bool) {
	n := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}

	return n, true
}
