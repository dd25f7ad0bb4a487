package main

import (
	"fmt"
	"io"
	"sync"

	"splitkeys/hotkey"
)

// EventSink abstracts the display layer so the Bubble Tea TUI and the
// plain line output receive the same timer events.
type EventSink interface {
	Action(action Action, key hotkey.Key, outcome Outcome, snap Snapshot)
	Status(text string)
	Error(err error)
}

// lineSink writes one line per event. It is used without a TUI and in test
// mode, where the lines are the observable output.
type lineSink struct {
	mu sync.Mutex
	w  io.Writer
}

func newLineSink(w io.Writer) *lineSink {
	return &lineSink{w: w}
}

func (s *lineSink) Action(action Action, key hotkey.Key, outcome Outcome, snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "%s key=%s result=%s phase=%s splits=%d\n",
		action, key, outcome, snap.Phase, len(snap.Splits))
}

func (s *lineSink) State(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "state phase=%s splits=%d elapsed=%s\n", snap.Phase, len(snap.Splits), formatDuration(snap.Elapsed))
}

func (s *lineSink) Status(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "status %s\n", text)
}

func (s *lineSink) Error(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "error %v\n", err)
}

func (o Outcome) String() string {
	switch o {
	case NoChange:
		return "none"
	case Started:
		return "started"
	case SplitDone:
		return "split"
	case Skipped:
		return "skipped"
	case Undone:
		return "undone"
	case PausedRun:
		return "paused"
	case Resumed:
		return "resumed"
	case Finished:
		return "finished"
	case ResetRun:
		return "reset"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}
