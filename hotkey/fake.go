package hotkey

import (
	"errors"
	"sync"
)

// Fake is an in-process Backend. Simulated events are delivered to the
// interception callback on the hook goroutine, the same way an OS hook
// delivers them.
type Fake struct {
	mu         sync.Mutex
	installErr error
	emit       func(RawEvent)

	events   chan RawEvent
	pumpErr  chan error
	stop     chan struct{}
	stopOnce sync.Once
	stopped  chan struct{}

	installed   chan struct{}
	uninstalled chan struct{}
}

func NewFake() *Fake {
	return &Fake{
		events:      make(chan RawEvent),
		pumpErr:     make(chan error, 1),
		stop:        make(chan struct{}),
		stopped:     make(chan struct{}),
		installed:   make(chan struct{}),
		uninstalled: make(chan struct{}),
	}
}

// FailInstall makes the next Install return err.
func (f *Fake) FailInstall(err error) {
	f.mu.Lock()
	f.installErr = err
	f.mu.Unlock()
}

func (f *Fake) Install(emit func(RawEvent)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.installErr != nil {
		close(f.stopped)
		return f.installErr
	}
	f.emit = emit
	close(f.installed)
	return nil
}

func (f *Fake) Pump() error {
	defer close(f.stopped)
	for {
		select {
		case ev := <-f.events:
			f.emit(ev)
		case err := <-f.pumpErr:
			return err
		case <-f.stop:
			return nil
		}
	}
}

func (f *Fake) Wake() error {
	f.stopOnce.Do(func() { close(f.stop) })
	return nil
}

func (f *Fake) Uninstall() error {
	select {
	case <-f.uninstalled:
		return errors.New("fake: already uninstalled")
	default:
	}
	close(f.uninstalled)
	return nil
}

// Installed is closed once Install succeeds.
func (f *Fake) Installed() <-chan struct{} { return f.installed }

// Uninstalled is closed once Uninstall runs.
func (f *Fake) Uninstalled() <-chan struct{} { return f.uninstalled }

// SimKeydown delivers a key-down for k and returns once the hook goroutine
// has taken it. It reports false when the pump has stopped.
func (f *Fake) SimKeydown(k Key) bool { return f.SimNative(k.Native(), true) }

func (f *Fake) SimKeyup(k Key) bool { return f.SimNative(k.Native(), false) }

// SimNative delivers an event with an arbitrary native code.
func (f *Fake) SimNative(code uint32, down bool) bool {
	select {
	case f.events <- RawEvent{Code: code, Down: down}:
		return true
	case <-f.stopped:
		return false
	}
}

// SimPumpError makes the running Pump fail with err.
func (f *Fake) SimPumpError(err error) {
	select {
	case f.pumpErr <- err:
	case <-f.stopped:
	}
}

func (f *Fake) Diagnose() (string, error) {
	return "fake backend (simulated key events)", nil
}
