//go:build linux

package hotkey

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	evKey     = 1
	keyPress  = 1
	keyRepeat = 2
)

// input_event is 24 bytes on 64-bit Linux:
// timeval (16 bytes) + type (2) + code (2) + value (4)
const inputEventSize = 24

// evdevBackend reads every keyboard under /dev/input without grabbing it,
// so other programs keep receiving the same events.
// Requires the user to be in the 'input' group.
type evdevBackend struct {
	paths []string
	files []*os.File
	emit  func(RawEvent)

	raw      chan RawEvent
	failed   chan error
	stop     chan struct{}
	stopOnce sync.Once
	readers  sync.WaitGroup
}

// NewSystemBackend returns the evdev backend reading all keyboards.
func NewSystemBackend() Backend {
	return NewEvdevBackend()
}

// NewEvdevBackend reads the given device paths, or every keyboard found
// under /dev/input when none are given.
func NewEvdevBackend(paths ...string) Backend {
	return &evdevBackend{
		paths:  paths,
		raw:    make(chan RawEvent, 64),
		failed: make(chan error, 1),
		stop:   make(chan struct{}),
	}
}

func (b *evdevBackend) Install(emit func(RawEvent)) error {
	paths := b.paths
	if len(paths) == 0 {
		keyboards, err := findKeyboards()
		if err != nil {
			return fmt.Errorf("finding keyboards: %w", err)
		}
		if len(keyboards) == 0 {
			return fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
		}
		paths = keyboards
	}

	b.emit = emit
	var openErr error
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			openErr = err
			continue
		}
		b.files = append(b.files, f)
	}
	if len(b.files) == 0 {
		return fmt.Errorf("could not open any keyboard device (run: sudo usermod -aG input $USER, then re-login): %w", openErr)
	}

	b.readers.Add(len(b.files))
	for _, f := range b.files {
		go b.readEvents(f)
	}
	go func() {
		b.readers.Wait()
		select {
		case <-b.stop:
		default:
			b.failed <- errors.New("all keyboard devices stopped reporting")
		}
	}()
	return nil
}

func (b *evdevBackend) readEvents(f *os.File) {
	defer b.readers.Done()
	buf := make([]byte, inputEventSize*16)

	for {
		n, err := f.Read(buf)
		if err != nil {
			return
		}

		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			evType := binary.LittleEndian.Uint16(buf[i+16:])
			evCode := binary.LittleEndian.Uint16(buf[i+18:])
			evValue := int32(binary.LittleEndian.Uint32(buf[i+20:]))

			if evType != evKey {
				continue
			}

			ev := RawEvent{
				Code: evdevToNative(evCode),
				Down: evValue == keyPress || evValue == keyRepeat,
			}
			select {
			case b.raw <- ev:
			case <-b.stop:
				return
			}
		}
	}
}

// Pump hands device events to the interception callback on the hook
// goroutine, in the order the readers delivered them.
func (b *evdevBackend) Pump() error {
	for {
		select {
		case ev := <-b.raw:
			b.emit(ev)
		case err := <-b.failed:
			return err
		case <-b.stop:
			return nil
		}
	}
}

func (b *evdevBackend) Wake() error {
	b.stopOnce.Do(func() { close(b.stop) })
	return nil
}

func (b *evdevBackend) Uninstall() error {
	b.stopOnce.Do(func() { close(b.stop) })
	var errs []error
	for _, f := range b.files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	b.files = nil
	return errors.Join(errs...)
}

func (b *evdevBackend) Diagnose() (string, error) {
	return Diagnose()
}

func findKeyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}

	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		path := filepath.Join("/dev/input", e.Name())
		if isKeyboard(e.Name()) {
			keyboards = append(keyboards, path)
		}
	}
	return keyboards, nil
}

func isKeyboard(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	// Real keyboards have long key capability bitmaps
	caps := strings.TrimSpace(string(data))
	return len(caps) > 10
}

// Diagnose checks evdev access and returns a status message.
func Diagnose() (string, error) {
	keyboards, err := findKeyboards()
	if err != nil {
		return "", fmt.Errorf("cannot scan input devices: %w", err)
	}
	if len(keyboards) == 0 {
		return "", fmt.Errorf("no keyboard devices found (is user in 'input' group?)")
	}

	var opened string
	for _, path := range keyboards {
		f, err := os.Open(path)
		if err == nil {
			f.Close()
			opened = path
			break
		}
	}
	if opened == "" {
		return "", fmt.Errorf("found %d keyboard(s) but cannot open any (run: sudo usermod -aG input $USER)", len(keyboards))
	}

	return fmt.Sprintf("%d keyboard(s) found, opened %s", len(keyboards), opened), nil
}
