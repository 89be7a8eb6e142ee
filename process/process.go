// Package process launches an external program and keeps track of its
// lifecycle. The launched program runs detached from the watchdog, i.e.
// it keeps its own process group and isn't tied to the watchdog's console.
package process

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dragonwatch/dragonwatch/log"
)

// Process represents a launchable program
type Process interface {
	// Status returns the current status of this process
	Status() Status

	// Start starts the process. If the process is already running, nothing
	// happens.
	Start() error

	// Stop stops the process. If wait is true, Stop blocks until the
	// process exited.
	Stop(wait bool) error

	// IsRunning returns whether the process is currently running
	IsRunning() bool
}

// Config is the configuration of a process
type Config struct {
	Binary        string                       // Path to the binary
	Args          []string                     // List of arguments for the binary
	Dir           string                       // Working directory, defaults to the directory of the binary
	Env           []string                     // Environment, nil inherits the environment of the watchdog
	KillTimeout   time.Duration                // Time to wait after an interrupt before killing the process, defaults to 5s
	OnStart       func(pid int32)              // A callback which is called after the process started
	OnExit        func(state string, code int) // A callback which is called after the process exited
	OnStateChange func(from, to string)        // A callback which is called after a state changed
	Logger        log.Logger
}

// Status represents the current status of a process
type Status struct {
	PID       int32         // Process ID of the last launched process, -1 if not running
	State     string        // Current state
	States    States        // Cumulative history of states
	Time      time.Time     // Time of last state change
	Duration  time.Duration // Duration since last state change
	ExitCode  int           // Exit code of the last run, -1 if it has been killed by a signal
	Binary    string        // Path to the binary
	Arguments []string      // Arguments of the binary
}

// States is the cumulative history of states
type States struct {
	Finished  uint64
	Starting  uint64
	Running   uint64
	Finishing uint64
	Failed    uint64
	Killed    uint64
}

type stateType string

const (
	stateFinished  stateType = "finished"
	stateStarting  stateType = "starting"
	stateRunning   stateType = "running"
	stateFinishing stateType = "finishing"
	stateFailed    stateType = "failed"
	stateKilled    stateType = "killed"
)

func (s stateType) String() string {
	return string(s)
}

func (s stateType) IsRunning() bool {
	return s == stateStarting || s == stateRunning || s == stateFinishing
}

type process struct {
	binary string
	args   []string
	dir    string
	env    []string
	cmd    *exec.Cmd
	pid    atomic.Int32
	state  struct {
		state    stateType
		time     time.Time
		states   States
		exitCode int
		lock     sync.Mutex
	}
	order struct {
		order string
		lock  sync.Mutex
	}
	exited      chan struct{}
	killTimeout time.Duration
	killTimer   *time.Timer
	killLock    sync.Mutex
	logger      log.Logger
	callbacks   struct {
		onStart       func(pid int32)
		onExit        func(state string, code int)
		onStateChange func(from, to string)
		lock          sync.Mutex
	}
}

var _ Process = &process{}

// New creates a new process with the given configuration
func New(config Config) (Process, error) {
	if len(config.Binary) == 0 {
		return nil, fmt.Errorf("no valid binary given")
	}

	p := &process{
		binary:      config.Binary,
		args:        make([]string, len(config.Args)),
		dir:         config.Dir,
		env:         config.Env,
		killTimeout: config.KillTimeout,
		logger:      config.Logger,
	}

	copy(p.args, config.Args)

	// A relative binary is resolved against the working directory if
	// it exists there, otherwise it is looked up in PATH.
	if !filepath.IsAbs(p.binary) {
		base := p.dir
		if len(base) == 0 {
			base, _ = os.Getwd()
		}

		candidate := filepath.Join(base, p.binary)
		if finfo, err := os.Stat(candidate); err == nil && !finfo.IsDir() {
			p.binary = candidate
		}
	}

	if len(p.dir) == 0 && filepath.IsAbs(p.binary) {
		p.dir = filepath.Dir(p.binary)
	}

	if p.killTimeout <= 0 {
		p.killTimeout = 5 * time.Second
	}

	if p.logger == nil {
		p.logger = log.New("")
	}

	p.logger = p.logger.WithFields(log.Fields{
		"binary": p.binary,
	})

	p.pid.Store(-1)
	p.order.order = "stop"
	p.initState(stateFinished)

	p.callbacks.onStart = config.OnStart
	p.callbacks.onExit = config.OnExit
	p.callbacks.onStateChange = config.OnStateChange

	return p, nil
}

func (p *process) initState(state stateType) {
	p.state.lock.Lock()
	defer p.state.lock.Unlock()

	p.state.state = state
	p.state.time = time.Now()
	p.state.exitCode = 0
}

// setState sets a new state. It also checks if the transition
// of the current state to the new state is allowed. If not,
// the current state will not be changed. It returns the previous
// state or an error.
func (p *process) setState(state stateType) (stateType, error) {
	p.state.lock.Lock()

	prevState := p.state.state
	failed := false

	if prevState == state {
		p.state.lock.Unlock()
		return prevState, nil
	}

	switch prevState {
	case stateFinished, stateFailed, stateKilled:
		switch state {
		case stateStarting:
			p.state.states.Starting++
		default:
			failed = true
		}
	case stateStarting:
		switch state {
		case stateRunning:
			p.state.states.Running++
		case stateFailed:
			p.state.states.Failed++
		default:
			failed = true
		}
	case stateRunning:
		switch state {
		case stateFinished:
			p.state.states.Finished++
		case stateFinishing:
			p.state.states.Finishing++
		case stateFailed:
			p.state.states.Failed++
		case stateKilled:
			p.state.states.Killed++
		default:
			failed = true
		}
	case stateFinishing:
		switch state {
		case stateFinished:
			p.state.states.Finished++
		case stateFailed:
			p.state.states.Failed++
		case stateKilled:
			p.state.states.Killed++
		default:
			failed = true
		}
	default:
		p.state.lock.Unlock()
		return "", fmt.Errorf("current state is unhandled: %s", prevState)
	}

	if failed {
		p.state.lock.Unlock()
		return "", fmt.Errorf("can't change from state %s to %s", prevState, state)
	}

	p.state.state = state
	p.state.time = time.Now()
	p.state.lock.Unlock()

	p.callbacks.lock.Lock()
	if p.callbacks.onStateChange != nil {
		p.callbacks.onStateChange(prevState.String(), state.String())
	}
	p.callbacks.lock.Unlock()

	return prevState, nil
}

func (p *process) getState() stateType {
	p.state.lock.Lock()
	defer p.state.lock.Unlock()

	return p.state.state
}

func (p *process) getOrder() string {
	p.order.lock.Lock()
	defer p.order.lock.Unlock()

	return p.order.order
}

// setOrder sets the order to the given value. If the order already has that
// order, it returns true. Otherwise false.
func (p *process) setOrder(order string) bool {
	p.order.lock.Lock()
	defer p.order.lock.Unlock()

	if p.order.order == order {
		return true
	}

	p.order.order = order

	return false
}

func (p *process) Status() Status {
	p.state.lock.Lock()
	stateTime := p.state.time
	s := Status{
		PID:      p.pid.Load(),
		State:    p.state.state.String(),
		States:   p.state.states,
		Time:     stateTime,
		Duration: time.Since(stateTime),
		ExitCode: p.state.exitCode,
		Binary:   p.binary,
	}
	p.state.lock.Unlock()

	s.Arguments = make([]string, len(p.args))
	copy(s.Arguments, p.args)

	return s
}

func (p *process) IsRunning() bool {
	return p.getState().IsRunning()
}

func (p *process) Start() error {
	if p.getState().IsRunning() {
		return nil
	}

	p.setOrder("start")

	err := p.start()
	if err != nil {
		p.setOrder("stop")
		p.logger.WithError(err).Error().Log("Starting failed")
	}

	return err
}

func (p *process) start() error {
	if _, err := p.setState(stateStarting); err != nil {
		return err
	}

	p.logger.Info().WithField("args", p.args).Log("Starting")

	p.cmd = exec.Command(p.binary, p.args...)
	p.cmd.Dir = p.dir
	p.cmd.Env = p.env
	p.cmd.Stdout = p.logger.WithField("stream", "stdout")
	p.cmd.Stderr = p.logger.WithField("stream", "stderr")
	p.cmd.SysProcAttr = detachedProcAttr()

	if err := p.cmd.Start(); err != nil {
		p.setState(stateFailed)

		p.state.lock.Lock()
		p.state.exitCode = -1
		p.state.lock.Unlock()

		return fmt.Errorf("launching %s: %w", p.binary, err)
	}

	pid := int32(p.cmd.Process.Pid)
	p.pid.Store(pid)
	p.exited = make(chan struct{})

	p.setState(stateRunning)

	p.logger.Info().WithField("pid", pid).Log("Started")

	p.callbacks.lock.Lock()
	if p.callbacks.onStart != nil {
		p.callbacks.onStart(pid)
	}
	p.callbacks.lock.Unlock()

	go p.waiter(p.cmd, p.exited)

	return nil
}

func (p *process) Stop(wait bool) error {
	if p.setOrder("stop") && !p.IsRunning() {
		return nil
	}

	return p.stop(wait)
}

func (p *process) stop(wait bool) error {
	// If the process is currently not running, bail out
	if !p.IsRunning() {
		return nil
	}

	// If the process in starting state, wait until the process has been started
	for p.getState() == stateStarting {
		time.Sleep(100 * time.Millisecond)
	}

	if !p.IsRunning() {
		return nil
	}

	// If the process is already in the finishing state, don't do anything
	if state, _ := p.setState(stateFinishing); state == stateFinishing {
		if wait {
			<-p.exited
		}
		return nil
	}

	p.logger.Info().Log("Stopping")

	cmd := p.cmd
	exited := p.exited

	var err error
	if runtime.GOOS == "windows" {
		// Windows doesn't know the SIGINT
		err = cmd.Process.Kill()
	} else {
		err = cmd.Process.Signal(os.Interrupt)

		// Kill the process the hard way in case the interrupt didn't have an effect.
		p.killLock.Lock()
		p.killTimer = time.AfterFunc(p.killTimeout, func() {
			cmd.Process.Kill()
		})
		p.killLock.Unlock()
	}

	if errors.Is(err, os.ErrProcessDone) {
		err = nil
	}

	if wait {
		<-exited
	}

	return err
}

func (p *process) waiter(cmd *exec.Cmd, exited chan struct{}) {
	defer close(exited)

	// The process exited normally, i.e. the return code is zero and no signal has been raised
	state := stateFinished
	exitCode := 0

	if err := cmd.Wait(); err != nil {
		var exiterr *exec.ExitError
		if errors.As(err, &exiterr) {
			exitCode = exiterr.ExitCode()

			p.logger.Debug().WithFields(log.Fields{
				"exit_code":   exitCode,
				"exit_string": exiterr.String(),
			}).Log("Exited")

			if exitCode == -1 || p.getOrder() == "stop" {
				// Terminated by a signal or on request
				state = stateKilled
			} else {
				// The process exited by itself with a non-zero return code
				state = stateFailed
			}
		} else {
			// Some other error regarding I/O triggered during Wait()
			p.logger.WithError(err).Debug().Log("Killed")
			state = stateKilled
			exitCode = -1
		}
	}

	p.killLock.Lock()
	if p.killTimer != nil {
		p.killTimer.Stop()
		p.killTimer = nil
	}
	p.killLock.Unlock()

	p.state.lock.Lock()
	p.state.exitCode = exitCode
	p.state.lock.Unlock()

	p.setState(state)
	p.pid.Store(-1)
	p.setOrder("stop")

	p.logger.Info().WithFields(log.Fields{
		"state":     state.String(),
		"exit_code": exitCode,
	}).Log("Stopped")

	// Call the onExit callback
	p.callbacks.lock.Lock()
	if p.callbacks.onExit != nil {
		p.callbacks.onExit(state.String(), exitCode)
	}
	p.callbacks.lock.Unlock()
}
