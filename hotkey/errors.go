package hotkey

import "errors"

var (
	// ErrInstall reports that the OS refused to install the interception point.
	ErrInstall = errors.New("hotkey: cannot install keyboard hook")

	ErrAlreadyRegistered = errors.New("hotkey: key already registered")
	ErrNotRegistered     = errors.New("hotkey: key not registered")

	// ErrThreadCommunication reports that the hook goroutine stopped before
	// it could answer, or that the shutdown sentinel could not be posted.
	ErrThreadCommunication = errors.New("hotkey: hook thread unreachable")

	// ErrEventLoop reports that retrieving events from the OS failed after
	// startup. Capture has stopped when a Hook reports it.
	ErrEventLoop = errors.New("hotkey: event loop failed")
)
