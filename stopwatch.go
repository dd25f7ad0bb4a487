package main

import (
	"fmt"
	"sync"
	"time"
)

type Phase int

const (
	NotRunning Phase = iota
	Running
	Paused
	Ended
)

func (p Phase) String() string {
	switch p {
	case NotRunning:
		return "ready"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Outcome tells the caller what an action changed.
type Outcome int

const (
	NoChange Outcome = iota
	Started
	SplitDone
	Skipped
	Undone
	PausedRun
	Resumed
	Finished
	ResetRun
)

// Split is one completed segment. At is the run time when the segment
// ended; a skipped segment has no time.
type Split struct {
	At      time.Duration
	Skipped bool
}

// Snapshot is a consistent copy of the stopwatch for rendering.
type Snapshot struct {
	Phase    Phase
	Elapsed  time.Duration
	Paused   time.Duration
	Splits   []Split
	Segments int
}

// Stopwatch is the run timer driven by the hotkeys. All methods are safe
// for concurrent use.
type Stopwatch struct {
	mu       sync.Mutex
	now      func() time.Time
	segments int

	phase      Phase
	start      time.Time
	pausedAt   time.Time
	pauseTotal time.Duration
	final      time.Duration
	splits     []Split
}

// NewStopwatch returns a stopwatch that ends the run after the given number
// of segments, or never when segments is 0. now defaults to time.Now.
func NewStopwatch(segments int, now func() time.Time) *Stopwatch {
	if now == nil {
		now = time.Now
	}
	return &Stopwatch{now: now, segments: max(segments, 0)}
}

// Split starts a run, or records the current segment and ends the run after
// the last one.
func (s *Stopwatch) Split() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.phase {
	case NotRunning:
		s.phase = Running
		s.start = s.now()
		return Started
	case Running:
		s.splits = append(s.splits, Split{At: s.elapsedLocked()})
		if s.lastSegmentDone() {
			s.final = s.elapsedLocked()
			s.phase = Ended
			return Finished
		}
		return SplitDone
	}
	return NoChange
}

// SkipSplit marks the current segment as skipped. The last segment of a
// run with a fixed segment count cannot be skipped.
func (s *Stopwatch) SkipSplit() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != Running {
		return NoChange
	}
	if s.segments > 0 && len(s.splits) >= s.segments-1 {
		return NoChange
	}
	s.splits = append(s.splits, Split{Skipped: true})
	return Skipped
}

// UndoSplit removes the last split. Undoing the final split of an ended run
// resumes it.
func (s *Stopwatch) UndoSplit() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == NotRunning || len(s.splits) == 0 {
		return NoChange
	}
	s.splits = s.splits[:len(s.splits)-1]
	if s.phase == Ended {
		s.phase = Running
		s.final = 0
	}
	return Undone
}

func (s *Stopwatch) TogglePause() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.phase {
	case Running:
		s.phase = Paused
		s.pausedAt = s.now()
		return PausedRun
	case Paused:
		s.pauseTotal += s.now().Sub(s.pausedAt)
		s.phase = Running
		return Resumed
	}
	return NoChange
}

// Reset clears the run. It returns the state just before the reset so the
// caller can record the attempt.
func (s *Stopwatch) Reset() (Snapshot, Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == NotRunning {
		return s.snapshotLocked(), NoChange
	}
	last := s.snapshotLocked()
	s.phase = NotRunning
	s.splits = nil
	s.pauseTotal = 0
	s.final = 0
	return last, ResetRun
}

func (s *Stopwatch) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Stopwatch) snapshotLocked() Snapshot {
	snap := Snapshot{
		Phase:    s.phase,
		Elapsed:  s.elapsedLocked(),
		Paused:   s.pauseTotal,
		Segments: s.segments,
		Splits:   make([]Split, len(s.splits)),
	}
	copy(snap.Splits, s.splits)
	if s.phase == Paused {
		snap.Paused += s.now().Sub(s.pausedAt)
	}
	return snap
}

func (s *Stopwatch) elapsedLocked() time.Duration {
	switch s.phase {
	case Running:
		return s.now().Sub(s.start) - s.pauseTotal
	case Paused:
		return s.pausedAt.Sub(s.start) - s.pauseTotal
	case Ended:
		return s.final
	}
	return 0
}

func (s *Stopwatch) lastSegmentDone() bool {
	return s.segments > 0 && len(s.splits) >= s.segments
}

// SegmentTime returns the duration of segment i, measured from the last
// timed split before it. Skipped segments report false.
func (snap Snapshot) SegmentTime(i int) (time.Duration, bool) {
	if i < 0 || i >= len(snap.Splits) || snap.Splits[i].Skipped {
		return 0, false
	}
	var prev time.Duration
	for j := i - 1; j >= 0; j-- {
		if !snap.Splits[j].Skipped {
			prev = snap.Splits[j].At
			break
		}
	}
	return snap.Splits[i].At - prev, true
}

// formatDuration renders d as m:ss.cc, or h:mm:ss.cc past an hour.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	cs := d.Milliseconds() / 10
	h := cs / 360000
	m := cs / 6000 % 60
	sec := cs / 100 % 60
	cs %= 100
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, sec, cs)
	}
	return fmt.Sprintf("%d:%02d.%02d", m, sec, cs)
}
