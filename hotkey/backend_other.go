//go:build !windows && !linux && !darwin

package hotkey

import (
	"errors"
	"runtime"
)

var errUnsupported = errors.New("global key capture is not supported on " + runtime.GOOS)

type unsupportedBackend struct{}

// NewSystemBackend returns a backend whose Install always fails.
func NewSystemBackend() Backend { return unsupportedBackend{} }

func (unsupportedBackend) Install(func(RawEvent)) error { return errUnsupported }
func (unsupportedBackend) Pump() error                  { return nil }
func (unsupportedBackend) Wake() error                  { return nil }
func (unsupportedBackend) Uninstall() error             { return nil }

func Diagnose() (string, error) { return "", errUnsupported }
