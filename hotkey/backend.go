package hotkey

// RawEvent is a keyboard event as seen by the interception callback. Code
// is in the catalog's native space; codes a backend cannot translate are
// reported as 0 and dropped.
type RawEvent struct {
	Code uint32
	Down bool
}

// Backend is the OS side of a Hook. A Hook calls Install, Pump and
// Uninstall on one goroutine locked to its OS thread; Wake may be called
// from any goroutine, before or during Pump.
type Backend interface {
	// Install installs the interception point. emit must be called on the
	// installing thread for every keyboard event and returns immediately.
	Install(emit func(RawEvent)) error
	// Pump services the thread's event queue until Wake is called.
	Pump() error
	// Wake posts the termination sentinel to the pumping thread.
	Wake() error
	// Uninstall removes the interception point after Pump returns.
	Uninstall() error
}

// KeyWatcher is implemented by backends that can only observe keys they
// were told about. A Hook calls Watch after a key is registered and Unwatch
// after it is unregistered.
type KeyWatcher interface {
	Watch(k Key) error
	Unwatch(k Key)
}

// Diagnoser is implemented by backends that can describe whether they are
// usable on this machine without installing anything.
type Diagnoser interface {
	Diagnose() (string, error)
}
