package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"splitkeys/beep"
	"splitkeys/hotkey"
	"splitkeys/log"
)

// runTestMode drives the timer headlessly from script commands:
//
//	DOWN <key>        key press
//	UP <key>          key release
//	RAW <code> [up]   event with a native code, in the catalog or not
//	SLEEP <ms>
//	SYNC              wait until every earlier event was handled
//	STATE             print the stopwatch state
//	QUIT
//
// Output goes to out, one line per handled action.
func runTestMode(in io.Reader, out io.Writer, b Bindings, segments int) error {
	beep.Disable()

	fk := hotkey.NewFake()
	h, err := hotkey.New(hotkey.WithBackend(fk), hotkey.WithLogger(log.Logger()))
	if err != nil {
		return err
	}
	defer func() {
		h.Close()
		<-h.Done()
	}()

	sink := newLineSink(out)
	sw := NewStopwatch(segments, nil)
	tm := newTimer(sw, sink)
	if err := b.Register(h, tm.handle); err != nil {
		return err
	}
	log.SessionStart("fake", len(b))
	defer func() { log.SessionEnd(int(tm.runs.Load())) }()
	sink.Status("ready " + b.String())

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		cmd, args := strings.ToUpper(fields[0]), fields[1:]
		switch cmd {
		case "DOWN", "UP":
			if len(args) != 1 {
				sink.Error(fmt.Errorf("%s needs a key", cmd))
				continue
			}
			k, err := hotkey.ParseKey(args[0])
			if err != nil {
				sink.Error(err)
				continue
			}
			fk.SimNative(k.Native(), cmd == "DOWN")
		case "RAW":
			if len(args) == 0 {
				sink.Error(fmt.Errorf("RAW needs a code"))
				continue
			}
			code, err := strconv.ParseUint(args[0], 0, 32)
			if err != nil {
				sink.Error(fmt.Errorf("RAW %s: %w", args[0], err))
				continue
			}
			down := len(args) < 2 || !strings.EqualFold(args[1], "up")
			fk.SimNative(uint32(code), down)
		case "SLEEP":
			if len(args) == 1 {
				if ms, err := strconv.Atoi(args[0]); err == nil {
					time.Sleep(time.Duration(ms) * time.Millisecond)
				}
			}
		case "SYNC":
			if err := syncHook(h, fk); err != nil {
				sink.Error(err)
			}
		case "STATE":
			sink.State(sw.Snapshot())
		case "QUIT":
			return nil
		default:
			sink.Error(fmt.Errorf("unknown command %q", cmd))
		}
	}
	return scanner.Err()
}

// syncHook presses a spare key and waits for its callback. Events are
// dispatched in order, so everything pressed before it has been handled.
func syncHook(h *hotkey.Hook, fk *hotkey.Fake) error {
	spare, ok := spareKey(h)
	if !ok {
		return fmt.Errorf("SYNC: no spare key")
	}
	done := make(chan struct{})
	if err := h.Register(spare, func() { close(done) }); err != nil {
		return fmt.Errorf("SYNC: %w", err)
	}
	defer h.Unregister(spare)

	if !fk.SimKeydown(spare) {
		return fmt.Errorf("SYNC: hook stopped")
	}
	select {
	case <-done:
		return nil
	case <-h.Done():
		return fmt.Errorf("SYNC: hook stopped")
	case <-time.After(5 * time.Second):
		return fmt.Errorf("SYNC: timed out")
	}
}

func spareKey(h *hotkey.Hook) (hotkey.Key, bool) {
	used := make(map[hotkey.Key]bool)
	for _, k := range h.Registered() {
		used[k] = true
	}
	keys := hotkey.Keys()
	for i := len(keys) - 1; i >= 0; i-- {
		if !used[keys[i]] {
			return keys[i], true
		}
	}
	return 0, false
}
