// Package psutil answers whether processes with a given executable name
// are currently running on this machine.
package psutil

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

var DefaultUtil Util

func init() {
	DefaultUtil = New()
}

// Process is a snapshot of a running process
type Process struct {
	PID     int32     `json:"pid"`
	Name    string    `json:"name"`
	Created time.Time `json:"created_at"`
	Memory  uint64    `json:"memory_rss_bytes"`
}

type Util interface {
	// Running returns whether at least one process with exactly the given
	// executable name exists.
	Running(name string) (bool, error)

	// Processes returns a snapshot of all processes, sorted by PID.
	Processes() ([]Process, error)
}

type snapshotFunc func(ctx context.Context, details bool) ([]Process, error)

type util struct {
	timeout  time.Duration
	snapshot snapshotFunc
}

// New returns a Util that queries the operating system.
func New() Util {
	u := &util{
		timeout:  10 * time.Second,
		snapshot: systemSnapshot,
	}

	return u
}

func (u *util) Running(name string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), u.timeout)
	defer cancel()

	list, err := u.snapshot(ctx, false)
	if err != nil {
		return false, err
	}

	for _, p := range list {
		if p.Name == name {
			return true, nil
		}
	}

	return false, nil
}

func (u *util) Processes() ([]Process, error) {
	ctx, cancel := context.WithTimeout(context.Background(), u.timeout)
	defer cancel()

	list, err := u.snapshot(ctx, true)
	if err != nil {
		return nil, err
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].PID < list[j].PID
	})

	return list, nil
}

func systemSnapshot(ctx context.Context, details bool) ([]Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]Process, 0, len(procs))

	for _, proc := range procs {
		name, err := proc.NameWithContext(ctx)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return nil, err
			}

			// The process vanished or is not accessible
			continue
		}

		p := Process{
			PID:  proc.Pid,
			Name: name,
		}

		if details {
			if created, err := proc.CreateTimeWithContext(ctx); err == nil {
				p.Created = time.UnixMilli(created)
			}

			if mem, err := proc.MemoryInfoWithContext(ctx); err == nil && mem != nil {
				p.Memory = mem.RSS
			}
		}

		list = append(list, p)
	}

	return list, nil
}
