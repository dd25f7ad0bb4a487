package hotkey

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Hook captures key presses system-wide and runs the callback registered
// for the pressed key. Callbacks run one at a time on a dispatch goroutine
// in the order the presses happened.
type Hook struct {
	backend  Backend
	registry *Registry
	events   *eventQueue
	log      zerolog.Logger

	closed    atomic.Bool
	closeOnce sync.Once

	hookDone     chan struct{}
	dispatchDone chan struct{}

	errMu sync.Mutex
	err   error
}

type options struct {
	backend Backend
	logger  zerolog.Logger
}

type Option func(*options)

// WithBackend replaces the platform backend, e.g. with a Fake.
func WithBackend(b Backend) Option {
	return func(o *options) { o.backend = b }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New installs the keyboard hook and starts dispatching. It blocks until
// the hook goroutine reports that the interception point is installed.
// On failure no goroutines are left running.
func New(opts ...Option) (*Hook, error) {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.backend == nil {
		o.backend = NewSystemBackend()
	}

	h := &Hook{
		backend:      o.backend,
		registry:     NewRegistry(),
		events:       newEventQueue(),
		log:          o.logger.With().Str("component", "hotkey").Logger(),
		hookDone:     make(chan struct{}),
		dispatchDone: make(chan struct{}),
	}

	ready := make(chan error, 1)
	go h.runHookThread(ready)
	go h.dispatch()

	if err := <-ready; err != nil {
		<-h.hookDone
		<-h.dispatchDone
		h.log.Error().Err(err).Msg("hook install failed")
		return nil, err
	}
	h.log.Info().Msg("hook installed")
	return h, nil
}

func (h *Hook) runHookThread(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(h.hookDone)
	// Closing the queue is what lets the dispatcher exit.
	defer h.events.Close()

	reported := false
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err := fmt.Errorf("%w: hook goroutine panicked: %v", ErrThreadCommunication, r)
		if !reported {
			ready <- err
			return
		}
		h.setErr(err)
		h.log.Error().Err(err).Msg("hook goroutine stopped")
	}()

	if err := h.backend.Install(h.intercept); err != nil {
		reported = true
		ready <- fmt.Errorf("%w: %w", ErrInstall, err)
		return
	}
	reported = true
	ready <- nil

	// Runs before the recover above, so a panicking Pump still unhooks.
	defer func() {
		if err := h.backend.Uninstall(); err != nil {
			h.log.Warn().Err(err).Msg("uninstall hook")
		}
		h.log.Info().Msg("hook uninstalled")
	}()

	if err := h.backend.Pump(); err != nil {
		err = fmt.Errorf("%w: %w", ErrEventLoop, err)
		h.setErr(err)
		h.log.Error().Err(err).Msg("event loop stopped")
	}
}

// intercept runs inside the OS interception callback. It must not block.
func (h *Hook) intercept(ev RawEvent) {
	if !ev.Down {
		return
	}
	k, ok := FromNative(ev.Code)
	if !ok {
		return
	}
	h.events.Push(k)
}

func (h *Hook) dispatch() {
	defer close(h.dispatchDone)
	for {
		k, ok := h.events.Pop()
		if !ok {
			return
		}
		if h.closed.Load() {
			continue
		}
		h.fire(k)
	}
}

func (h *Hook) fire(k Key) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error().Str("key", k.String()).Interface("panic", r).Msg("hotkey callback panicked")
		}
	}()
	if h.registry.invoke(k, h.closed.Load) {
		h.log.Debug().Str("key", k.String()).Msg("hotkey fired")
	}
}

// Register binds cb to key. cb runs on the dispatch goroutine with the
// registry locked, so it must not call Register or Unregister on the same
// Hook.
func (h *Hook) Register(key Key, cb func()) error {
	if !key.Valid() {
		return fmt.Errorf("hotkey: key %s is not in the catalog", key)
	}
	var watch func(Key) error
	if w, ok := h.backend.(KeyWatcher); ok {
		watch = func(k Key) error {
			if err := w.Watch(k); err != nil {
				return fmt.Errorf("%w: watch %s: %w", ErrInstall, k, err)
			}
			return nil
		}
	}
	if err := h.registry.add(key, cb, watch); err != nil {
		return err
	}
	h.log.Debug().Str("key", key.String()).Msg("registered")
	return nil
}

// Unregister removes the binding for key. A callback already running for
// key is allowed to finish.
func (h *Hook) Unregister(key Key) error {
	if err := h.registry.Unregister(key); err != nil {
		return err
	}
	if w, ok := h.backend.(KeyWatcher); ok {
		w.Unwatch(key)
	}
	h.log.Debug().Str("key", key.String()).Msg("unregistered")
	return nil
}

// Registered returns the keys that currently have a callback.
func (h *Hook) Registered() []Key {
	return h.registry.Registered()
}

// Close asks the hook goroutine to uninstall the hook and returns without
// waiting for it. No callback starts after Close returns; one that is
// already running finishes first, so Close must not be called from a
// callback. Use Done or Wait to observe the teardown.
func (h *Hook) Close() error {
	var err error
	h.closeOnce.Do(func() {
		h.closed.Store(true)
		if werr := h.backend.Wake(); werr != nil {
			err = fmt.Errorf("%w: %w", ErrThreadCommunication, werr)
			h.log.Warn().Err(err).Msg("post shutdown sentinel")
		}
		h.registry.barrier()
	})
	return err
}

// Done is closed once the hook is uninstalled and every queued event has
// been drained, whether after Close or because the event loop failed.
func (h *Hook) Done() <-chan struct{} {
	return h.dispatchDone
}

// Err reports the failure that stopped capture in the background, if any.
func (h *Hook) Err() error {
	h.errMu.Lock()
	defer h.errMu.Unlock()
	return h.err
}

// Wait blocks until Done is closed or ctx ends.
func (h *Hook) Wait(ctx context.Context) error {
	select {
	case <-h.dispatchDone:
		return h.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hook) setErr(err error) {
	h.errMu.Lock()
	if h.err == nil {
		h.err = err
	}
	h.errMu.Unlock()
}
