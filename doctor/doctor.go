package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/micmonay/keybd_event"

	"splitkeys/hotkey"
	"splitkeys/log"
)

const totalChecks = 5

// Run executes diagnostic checks and returns an exit code (0=all pass, 1=any fail).
// key is the binding the user is asked to press in the last check.
// newBackend returns a fresh backend of the kind the app will use.
func Run(logDir string, key hotkey.Key, newBackend func() hotkey.Backend) int {
	if newBackend == nil {
		newBackend = hotkey.NewSystemBackend
	}
	resetTerminal()
	setupInterruptHandler()

	fmt.Println("splitkeys doctor - system diagnostics")
	fmt.Println("=====================================")

	allPass := checkLogDir(logDir)

	if !checkBackend(newBackend()) {
		allPass = false
	}
	if !checkInstall(newBackend) {
		// Nothing below can work without a hook.
		allPass = false
	} else {
		if !checkInjection(newBackend) {
			allPass = false
		}
		if !checkManualKey(key, newBackend) {
			allPass = false
		}
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func header(n int, title string) {
	fmt.Println()
	fmt.Printf("[%d/%d] %s\n", n, totalChecks, title)
}

func checkLogDir(dir string) bool {
	header(1, "Log directory")
	if dir == "" {
		fmt.Println("  FAIL: no log directory resolved")
		return false
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		fmt.Printf("  FAIL: cannot create %s: %v\n", dir, err)
		return false
	}
	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok\n"), 0644); err != nil {
		fmt.Printf("  FAIL: %s is not writable: %v\n", dir, err)
		return false
	}
	os.Remove(probe)
	fmt.Printf("  PASS: %s\n", dir)
	return true
}

func checkBackend(b hotkey.Backend) bool {
	header(2, "Capture backend")
	diagnose := hotkey.Diagnose
	if d, ok := b.(hotkey.Diagnoser); ok {
		diagnose = d.Diagnose
	}
	msg, err := diagnose()
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Printf("  PASS: %s\n", msg)
	return true
}

// checkInstall installs a hook and tears it down again.
func checkInstall(newBackend func() hotkey.Backend) bool {
	header(3, "Hook install and uninstall")
	h, err := hotkey.New(hotkey.WithBackend(newBackend()), hotkey.WithLogger(log.Logger()))
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		if runtime.GOOS == "darwin" {
			fmt.Println("  Grant Accessibility access to your terminal in System Settings > Privacy & Security")
		}
		return false
	}
	if err := closeAndWait(h); err != nil {
		fmt.Printf("  FAIL: hook did not shut down: %v\n", err)
		return false
	}
	fmt.Println("  PASS: hook installed and removed")
	return true
}

// checkInjection sends a synthetic F12 press and expects the hook to see it.
func checkInjection(newBackend func() hotkey.Backend) bool {
	header(4, "Synthetic key round-trip")

	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		fmt.Printf("  FAIL: cannot create virtual keyboard: %v\n", err)
		if runtime.GOOS == "linux" {
			fmt.Println("  Fix with: sudo chmod 660 /dev/uinput && sudo chgrp input /dev/uinput")
		}
		return false
	}
	if runtime.GOOS == "linux" {
		// The uinput device must settle before the kernel routes its events.
		time.Sleep(2 * time.Second)
	}

	h, err := hotkey.New(hotkey.WithBackend(newBackend()), hotkey.WithLogger(log.Logger()))
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	defer closeAndWait(h)

	seen := make(chan struct{}, 1)
	if err := h.Register(hotkey.F12, func() {
		select {
		case seen <- struct{}{}:
		default:
		}
	}); err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}

	kb.SetKeys(keybd_event.VK_F12)
	if err := kb.Launching(); err != nil {
		fmt.Printf("  FAIL: inject F12: %v\n", err)
		return false
	}

	select {
	case <-seen:
		fmt.Println("  PASS: injected F12 observed")
		return true
	case <-h.Done():
		fmt.Printf("  FAIL: hook stopped: %v\n", h.Err())
		return false
	case <-time.After(3 * time.Second):
		fmt.Println("  FAIL: injected F12 was not observed")
		return false
	}
}

func checkManualKey(key hotkey.Key, newBackend func() hotkey.Backend) bool {
	header(5, "Hotkey detection")
	if !key.Valid() {
		fmt.Println("  FAIL: no key is bound to any action")
		return false
	}
	fmt.Printf("Press %s...\n", key)

	h, err := hotkey.New(hotkey.WithBackend(newBackend()), hotkey.WithLogger(log.Logger()))
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	defer closeAndWait(h)

	pressed := make(chan struct{}, 1)
	if err := h.Register(key, func() {
		select {
		case pressed <- struct{}{}:
		default:
		}
	}); err != nil {
		fmt.Printf("  FAIL: could not register %s: %v\n", key, err)
		return false
	}

	select {
	case <-pressed:
		fmt.Println("  PASS: hotkey detected")
		// The key may have reached the terminal too.
		resetTerminal()
		return true
	case <-time.After(10 * time.Second):
		fmt.Println("  FAIL: timeout waiting for hotkey")
		return false
	}
}

// closeAndWait lets the next check install its own hook; macOS allows only
// one event tap per process.
func closeAndWait(h *hotkey.Hook) error {
	if err := h.Close(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return h.Wait(ctx)
}
