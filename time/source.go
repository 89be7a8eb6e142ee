// Package time provides a replaceable clock for components that reason
// about wall-clock time.
package time

import (
	"sync"
	"time"
)

type Source interface {
	Now() time.Time
}

type StdSource struct{}

func (s *StdSource) Now() time.Time {
	return time.Now()
}

// TestSource is a clock that only moves when told so.
type TestSource struct {
	N time.Time

	lock sync.Mutex
}

func (t *TestSource) Now() time.Time {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.N
}

func (t *TestSource) Set(n time.Time) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.N = n
}

func (t *TestSource) Add(d time.Duration) {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.N = t.N.Add(d)
}
