package watchdog

import "time"

// Backoff describes a growing wait interval.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	Factor  float64
}

// DefaultBackoff starts at 60s and grows by factor 1.5 up to 300s.
var DefaultBackoff = Backoff{
	Initial: 60 * time.Second,
	Max:     300 * time.Second,
	Factor:  1.5,
}

// Next returns the interval that follows d.
func (b Backoff) Next(d time.Duration) time.Duration {
	next := time.Duration(float64(d) * b.Factor)
	if next > b.Max {
		next = b.Max
	}

	return next
}

func (b Backoff) normalize() Backoff {
	if b.Initial <= 0 {
		b.Initial = DefaultBackoff.Initial
	}

	if b.Max < b.Initial {
		b.Max = b.Initial
	}

	if b.Factor < 1 {
		b.Factor = 1
	}

	return b
}
