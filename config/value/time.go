package value

import (
	"fmt"
	"time"

	"github.com/dragonwatch/dragonwatch/process"
)

// duration, must be positive

type Duration time.Duration

func NewDuration(p *time.Duration, val time.Duration) *Duration {
	*p = val

	return (*Duration)(p)
}

func (d *Duration) Set(val string) error {
	v, err := time.ParseDuration(val)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d *Duration) String() string {
	return time.Duration(*d).String()
}

func (d *Duration) Validate() error {
	if time.Duration(*d) <= 0 {
		return fmt.Errorf("the duration must be positive")
	}

	return nil
}

func (d *Duration) IsEmpty() bool {
	return time.Duration(*d) == 0
}

// schedule: cron expression, RFC3339 point in time, or an interval like "4h"

type Schedule string

func NewSchedule(p *string, val string) *Schedule {
	*p = val

	return (*Schedule)(p)
}

func (s *Schedule) Set(val string) error {
	*s = Schedule(val)
	return nil
}

func (s *Schedule) String() string {
	return string(*s)
}

func (s *Schedule) Validate() error {
	if len(string(*s)) == 0 {
		return nil
	}

	_, err := process.NewScheduler(string(*s))

	return err
}

func (s *Schedule) IsEmpty() bool {
	return len(string(*s)) == 0
}
