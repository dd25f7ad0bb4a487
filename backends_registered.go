//go:build windows || darwin

package main

import (
	"fmt"

	"splitkeys/hotkey"
)

const backendNames = "system, registered"

func newBackend(name string) (hotkey.Backend, error) {
	switch name {
	case "system", "":
		return hotkey.NewSystemBackend(), nil
	case "registered":
		// Registered keys are delivered to this process only.
		return hotkey.NewRegisteredBackend(), nil
	}
	return nil, fmt.Errorf("unknown backend %q (use %s)", name, backendNames)
}
