//go:build windows || darwin

package hotkey

import (
	"fmt"
	"sync"

	xhotkey "golang.design/x/hotkey"
)

// registeredBackend asks the OS for each bound key individually
// (RegisterHotKey on Windows, Carbon hot keys on macOS) instead of
// observing the whole keyboard. The OS delivers a registered key only to
// this process, so other applications stop seeing it while it is bound.
type registeredBackend struct {
	mu      sync.Mutex
	watched map[Key]*watchedKey

	emit     func(RawEvent)
	raw      chan RawEvent
	stop     chan struct{}
	stopOnce sync.Once
}

type watchedKey struct {
	hk   *xhotkey.Hotkey
	done chan struct{}
}

// NewRegisteredBackend returns a backend that registers every bound key
// with the OS. Use it where a global keyboard tap is refused.
func NewRegisteredBackend() Backend {
	return &registeredBackend{
		watched: make(map[Key]*watchedKey),
		raw:     make(chan RawEvent, 16),
		stop:    make(chan struct{}),
	}
}

func (b *registeredBackend) Install(emit func(RawEvent)) error {
	b.emit = emit
	return nil
}

func (b *registeredBackend) Pump() error {
	for {
		select {
		case ev := <-b.raw:
			b.emit(ev)
		case <-b.stop:
			return nil
		}
	}
}

func (b *registeredBackend) Wake() error {
	b.stopOnce.Do(func() { close(b.stop) })
	return nil
}

func (b *registeredBackend) Uninstall() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var firstErr error
	for k, w := range b.watched {
		close(w.done)
		if err := w.hk.Unregister(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("unregister %s: %w", k, err)
		}
		delete(b.watched, k)
	}
	return firstErr
}

func (b *registeredBackend) Watch(k Key) error {
	code, ok := registeredCode(k)
	if !ok {
		return fmt.Errorf("%s cannot be registered on this platform", k)
	}
	hk := xhotkey.New(nil, code)
	if err := hk.Register(); err != nil {
		return err
	}
	w := &watchedKey{hk: hk, done: make(chan struct{})}

	b.mu.Lock()
	b.watched[k] = w
	b.mu.Unlock()

	go b.forward(k, w)
	return nil
}

func (b *registeredBackend) forward(k Key, w *watchedKey) {
	keydown := w.hk.Keydown()
	keyup := w.hk.Keyup()
	for {
		var ev RawEvent
		select {
		case <-keydown:
			ev = RawEvent{Code: k.Native(), Down: true}
		case <-keyup:
			ev = RawEvent{Code: k.Native(), Down: false}
		case <-w.done:
			return
		}
		select {
		case b.raw <- ev:
		case <-w.done:
			return
		case <-b.stop:
			return
		}
	}
}

func (b *registeredBackend) Unwatch(k Key) {
	b.mu.Lock()
	w, ok := b.watched[k]
	delete(b.watched, k)
	b.mu.Unlock()
	if !ok {
		return
	}
	close(w.done)
	w.hk.Unregister()
}

func (b *registeredBackend) Diagnose() (string, error) {
	return "per-key OS registration (golang.design/x/hotkey)", nil
}
