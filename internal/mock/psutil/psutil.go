package psutil

import (
	"sync"

	"github.com/dragonwatch/dragonwatch/psutil"
)

// MockPSUtil is a scripted psutil.Util. Every call to Running consumes the
// next entry of the script for that name. The last entry sticks once the
// script is exhausted. Names without a script are reported as not running.
type MockPSUtil struct {
	Lock sync.Mutex

	Scripts map[string][]bool
	Errors  []error
	Calls   map[string]int

	List      []psutil.Process
	ListError error
}

func New() *MockPSUtil {
	u := &MockPSUtil{
		Scripts: map[string][]bool{},
		Calls:   map[string]int{},
	}

	return u
}

// Script sets the sequence of running states for a name
func (u *MockPSUtil) Script(name string, states ...bool) {
	u.Lock.Lock()
	defer u.Lock.Unlock()

	u.Scripts[name] = states
}

// Fail queues errors. Each call to Running consumes one queued error
// before consulting the scripts. A nil entry lets the call through.
func (u *MockPSUtil) Fail(errs ...error) {
	u.Lock.Lock()
	defer u.Lock.Unlock()

	u.Errors = append(u.Errors, errs...)
}

func (u *MockPSUtil) Running(name string) (bool, error) {
	u.Lock.Lock()
	defer u.Lock.Unlock()

	u.Calls[name]++

	if len(u.Errors) != 0 {
		err := u.Errors[0]
		u.Errors = u.Errors[1:]

		if err != nil {
			return false, err
		}
	}

	script := u.Scripts[name]
	if len(script) == 0 {
		return false, nil
	}

	state := script[0]
	if len(script) > 1 {
		u.Scripts[name] = script[1:]
	}

	return state, nil
}

func (u *MockPSUtil) Processes() ([]psutil.Process, error) {
	u.Lock.Lock()
	defer u.Lock.Unlock()

	if u.ListError != nil {
		return nil, u.ListError
	}

	list := make([]psutil.Process, len(u.List))
	copy(list, u.List)

	return list, nil
}

func (u *MockPSUtil) CallCount(name string) int {
	u.Lock.Lock()
	defer u.Lock.Unlock()

	return u.Calls[name]
}
