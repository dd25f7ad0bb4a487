package hotkey

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Registry maps keys to callbacks. Every operation takes the same lock, so
// concurrent registration from several goroutines is serialized.
type Registry struct {
	mu        sync.Mutex
	callbacks map[Key]func()
}

func NewRegistry() *Registry {
	return &Registry{callbacks: make(map[Key]func())}
}

// Register binds cb to key. It never replaces an existing binding.
func (r *Registry) Register(key Key, cb func()) error {
	return r.add(key, cb, nil)
}

// add binds cb to key once watch, if set, succeeds. Both happen under the
// lock, so a press cannot reach cb before watch has accepted the key.
func (r *Registry) add(key Key, cb func(), watch func(Key) error) error {
	if cb == nil {
		return errors.New("hotkey: nil callback")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.callbacks[key]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, key)
	}
	if watch != nil {
		if err := watch(key); err != nil {
			return err
		}
	}
	r.callbacks[key] = cb
	return nil
}

func (r *Registry) Unregister(key Key) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.callbacks[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNotRegistered, key)
	}
	delete(r.callbacks, key)
	return nil
}

// invoke runs the callback bound to key with the lock held for the whole
// call, unless stopped reports true under the lock. It reports whether a
// callback ran.
func (r *Registry) invoke(key Key, stopped func() bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stopped != nil && stopped() {
		return false
	}
	cb, ok := r.callbacks[key]
	if !ok {
		return false
	}
	cb()
	return true
}

// barrier returns once no callback is running.
func (r *Registry) barrier() {
	r.mu.Lock()
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.callbacks)
}

// Registered returns the bound keys in native code order.
func (r *Registry) Registered() []Key {
	r.mu.Lock()
	keys := make([]Key, 0, len(r.callbacks))
	for k := range r.callbacks {
		keys = append(keys, k)
	}
	r.mu.Unlock()
	slices.Sort(keys)
	return keys
}
