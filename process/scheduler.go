package process

import (
	"fmt"
	"time"

	"github.com/adhocore/gronx"
)

type Scheduler interface {
	// Next returns the duration until the next scheduled time in reference
	// to time.Now(). If there's no next scheduled time, a negative duration
	// and an error will be returned.
	Next() (time.Duration, error)

	// NextAfter returns the same as Next(), but with the given reference
	// time.
	NextAfter(after time.Time) (time.Duration, error)
}

type scheduleKind int

const (
	kindPointInTime scheduleKind = iota
	kindCron
	kindInterval
)

type scheduler struct {
	pattern  string
	pit      time.Time
	interval time.Duration
	kind     scheduleKind
}

// NewScheduler parses a schedule pattern. The pattern is either a Go
// duration ("4h", "90m"), a cron expression ("0 */4 * * *") or a point
// in time in RFC3339 format.
func NewScheduler(pattern string) (Scheduler, error) {
	s := &scheduler{
		pattern: pattern,
	}

	if d, err := time.ParseDuration(pattern); err == nil {
		if d <= 0 {
			return nil, fmt.Errorf("interval must be positive: %s", pattern)
		}

		s.interval = d
		s.kind = kindInterval

		return s, nil
	}

	t, err := time.Parse(time.RFC3339, pattern)
	if err == nil {
		s.pit = t
		s.kind = kindPointInTime

		return s, nil
	}

	cron := gronx.New()
	if !cron.IsValid(pattern) {
		return nil, fmt.Errorf("invalid schedule '%s': expected duration, cron expression or RFC3339 time", pattern)
	}

	s.kind = kindCron

	return s, nil
}

func (s *scheduler) Next() (time.Duration, error) {
	return s.NextAfter(time.Now())
}

func (s *scheduler) NextAfter(after time.Time) (time.Duration, error) {
	var t time.Time
	var err error

	switch s.kind {
	case kindInterval:
		return s.interval, nil
	case kindCron:
		t, err = gronx.NextTickAfter(s.pattern, after, false)
		if err != nil {
			return time.Duration(-1), fmt.Errorf("no next time has been scheduled")
		}
	default:
		t = s.pit
	}

	d := t.Sub(after)
	if d < time.Duration(0) {
		return d, fmt.Errorf("no next time has been scheduled")
	}

	return d, nil
}

func (s *scheduler) String() string {
	return s.pattern
}
