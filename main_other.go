//go:build !linux

package main

import (
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

// Carbon hot keys (macOS) must be registered from the main thread, so run
// hands it to mainthread.
func main() {
	mainthread.Init(run)
}
