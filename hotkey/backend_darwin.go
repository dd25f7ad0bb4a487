//go:build darwin

package hotkey

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	hook "github.com/robotn/gohook"
)

// The event tap needs the Accessibility permission. Without it the tap
// never reports itself enabled.
const tapEnableTimeout = 2 * time.Second

// gohook keeps a single process-wide tap.
var tapInUse atomic.Bool

// tapBackend observes keys through a passive CGEventTap via gohook.
type tapBackend struct {
	events   chan hook.Event
	emit     func(RawEvent)
	stop     chan struct{}
	stopOnce sync.Once
	endOnce  sync.Once
}

// NewSystemBackend returns the event tap backend.
func NewSystemBackend() Backend {
	return &tapBackend{stop: make(chan struct{})}
}

func (b *tapBackend) Install(emit func(RawEvent)) error {
	if !tapInUse.CompareAndSwap(false, true) {
		return errors.New("event tap already in use by another hook")
	}
	b.emit = emit
	b.events = hook.Start()
	if b.events == nil {
		tapInUse.Store(false)
		return errors.New("hook.Start returned no event channel")
	}

	timeout := time.After(tapEnableTimeout)
	for {
		select {
		case ev, ok := <-b.events:
			if !ok {
				tapInUse.Store(false)
				return errors.New("event tap closed before it was enabled")
			}
			if ev.Kind == hook.HookEnabled {
				return nil
			}
		case <-timeout:
			b.end()
			return fmt.Errorf("event tap not enabled after %s (grant Accessibility permission in System Settings > Privacy & Security)", tapEnableTimeout)
		}
	}
}

func (b *tapBackend) Pump() error {
	for {
		select {
		case ev, ok := <-b.events:
			if !ok {
				return errors.New("event tap closed")
			}
			switch ev.Kind {
			case hook.KeyHold:
				// KeyHold is the physical press; KeyDown is the typed character.
				b.emit(RawEvent{Code: macToNative(ev.Rawcode), Down: true})
			case hook.KeyUp:
				b.emit(RawEvent{Code: macToNative(ev.Rawcode), Down: false})
			case hook.HookDisabled:
				return errors.New("event tap disabled by the system")
			}
		case <-b.stop:
			return nil
		}
	}
}

func (b *tapBackend) Wake() error {
	b.stopOnce.Do(func() { close(b.stop) })
	return nil
}

func (b *tapBackend) Uninstall() error {
	b.end()
	return nil
}

func (b *tapBackend) end() {
	b.endOnce.Do(func() {
		hook.End()
		tapInUse.Store(false)
	})
}

func (b *tapBackend) Diagnose() (string, error) {
	return Diagnose()
}

// Diagnose reports how keys are captured on macOS.
func Diagnose() (string, error) {
	return "event tap via gohook (needs Accessibility permission)", nil
}
