//go:build windows

package hotkey

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procPeekMessageW        = user32.NewProc("PeekMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
	procGetModuleHandleW    = kernel32.NewProc("GetModuleHandleW")
)

const (
	whKeyboardLL = 13
	wmKeyDown    = 0x0100
	wmSysKeyDown = 0x0104
	wmUser       = 0x0400
	pmNoRemove   = 0x0000
	msgExit      = wmUser
)

type kbdllHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

// winMsg mirrors the Win32 MSG struct.
type winMsg struct {
	hwnd     uintptr
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	pt       struct{ x, y int32 }
	lPrivate uint32
}

// hooksByThread maps the id of each installing thread to its backend. The
// OS calls the hook procedure on the installing thread, so the procedure
// finds its own state without sharing it.
var hooksByThread sync.Map

var lowLevelKeyboardCallback = windows.NewCallback(lowLevelKeyboardProc)

func lowLevelKeyboardProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	var hhk uintptr
	if v, ok := hooksByThread.Load(windows.GetCurrentThreadId()); ok {
		b := v.(*windowsBackend)
		hhk = b.hhk
		if nCode >= 0 {
			kb := (*kbdllHookStruct)(unsafe.Pointer(lParam))
			down := wParam == wmKeyDown || wParam == wmSysKeyDown
			b.emit(RawEvent{Code: kb.VkCode, Down: down})
		}
	}
	// Never swallow the event.
	ret, _, _ := procCallNextHookEx.Call(hhk, uintptr(nCode), wParam, lParam)
	return ret
}

// windowsBackend installs a WH_KEYBOARD_LL hook and pumps the installing
// thread's message queue.
type windowsBackend struct {
	threadID atomic.Uint32
	hhk      uintptr
	emit     func(RawEvent)
}

// NewSystemBackend returns the low-level keyboard hook backend. Events
// injected by other programs are observed too.
func NewSystemBackend() Backend {
	return &windowsBackend{}
}

func (b *windowsBackend) Install(emit func(RawEvent)) error {
	if err := user32.Load(); err != nil {
		return fmt.Errorf("user32.dll is unavailable: %w", err)
	}
	b.emit = emit
	tid := windows.GetCurrentThreadId()

	// PeekMessageW creates the thread's message queue, so a Wake posted
	// before Pump starts is not lost.
	var msg winMsg
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0, pmNoRemove)

	hooksByThread.Store(tid, b)
	mod, _, _ := procGetModuleHandleW.Call(0)
	hhk, _, err := procSetWindowsHookExW.Call(whKeyboardLL, lowLevelKeyboardCallback, mod, 0)
	if hhk == 0 {
		hooksByThread.Delete(tid)
		return fmt.Errorf("SetWindowsHookExW: %w", err)
	}
	b.hhk = hhk
	b.threadID.Store(tid)
	return nil
}

func (b *windowsBackend) Pump() error {
	for {
		var msg winMsg
		ret, _, err := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		switch int32(ret) {
		case -1:
			return fmt.Errorf("GetMessageW: %w", err)
		case 0:
			return nil
		}
		if msg.message == msgExit {
			return nil
		}
	}
}

func (b *windowsBackend) Wake() error {
	tid := b.threadID.Load()
	if tid == 0 {
		return errors.New("hook thread id unknown")
	}
	ret, _, err := procPostThreadMessageW.Call(uintptr(tid), msgExit, 0, 0)
	if ret == 0 {
		return fmt.Errorf("PostThreadMessageW: %w", err)
	}
	return nil
}

func (b *windowsBackend) Uninstall() error {
	defer hooksByThread.Delete(b.threadID.Load())
	ret, _, err := procUnhookWindowsHookEx.Call(b.hhk)
	if ret == 0 {
		return fmt.Errorf("UnhookWindowsHookEx: %w", err)
	}
	return nil
}

func (b *windowsBackend) Diagnose() (string, error) {
	return Diagnose()
}

// Diagnose checks that the low-level hook API is available.
func Diagnose() (string, error) {
	if err := user32.Load(); err != nil {
		return "", fmt.Errorf("user32.dll is unavailable: %w", err)
	}
	return "low-level keyboard hook (WH_KEYBOARD_LL)", nil
}
