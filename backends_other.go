//go:build !windows && !darwin

package main

import (
	"fmt"

	"splitkeys/hotkey"
)

const backendNames = "system"

func newBackend(name string) (hotkey.Backend, error) {
	if name == "system" || name == "" {
		return hotkey.NewSystemBackend(), nil
	}
	return nil, fmt.Errorf("unknown backend %q (use %s)", name, backendNames)
}
