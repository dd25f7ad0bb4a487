package main

import (
	"fmt"
	"strings"
	"sync/atomic"

	"splitkeys/beep"
	"splitkeys/hotkey"
	"splitkeys/log"
)

// timer applies hotkey actions to the stopwatch and reports them. handle
// runs on the hook's dispatch goroutine, one action at a time.
type timer struct {
	sw   *Stopwatch
	sink EventSink
	runs atomic.Int64
}

func newTimer(sw *Stopwatch, sink EventSink) *timer {
	return &timer{sw: sw, sink: sink}
}

func (t *timer) handle(action Action, key hotkey.Key) {
	var outcome Outcome
	var last Snapshot
	switch action {
	case ActionSplit:
		outcome = t.sw.Split()
	case ActionSkip:
		outcome = t.sw.SkipSplit()
	case ActionUndo:
		outcome = t.sw.UndoSplit()
	case ActionPause:
		outcome = t.sw.TogglePause()
	case ActionReset:
		last, outcome = t.sw.Reset()
	}
	snap := t.sw.Snapshot()

	log.Action(string(action), key.String(), snap.Phase.String())
	if cue, ok := cueFor(outcome); ok {
		beep.Play(cue)
	}

	switch outcome {
	case SplitDone, Finished:
		n := len(snap.Splits)
		log.SplitText(fmt.Sprintf("split %d\t%s", n, formatDuration(snap.Splits[n-1].At)))
	case Skipped:
		log.SplitText(fmt.Sprintf("split %d\tskipped", len(snap.Splits)))
	}
	switch outcome {
	case Finished:
		t.recordRun(snap, true)
	case ResetRun:
		if last.Phase != Ended {
			t.recordRun(last, false)
		}
	}

	t.sink.Action(action, key, outcome, snap)
}

func (t *timer) recordRun(snap Snapshot, finished bool) {
	t.runs.Add(1)
	skipped := 0
	for _, s := range snap.Splits {
		if s.Skipped {
			skipped++
		}
	}
	log.RunMetrics(log.Run{
		Segments: len(snap.Splits),
		Skipped:  skipped,
		Total:    snap.Elapsed,
		Paused:   snap.Paused,
		Finished: finished,
	})
}

func cueFor(o Outcome) (beep.Cue, bool) {
	switch o {
	case Started:
		return beep.Start, true
	case SplitDone:
		return beep.Split, true
	case Skipped:
		return beep.Skip, true
	case Undone:
		return beep.Undo, true
	case PausedRun:
		return beep.Pause, true
	case Resumed:
		return beep.Resume, true
	case Finished:
		return beep.Finish, true
	case ResetRun:
		return beep.Reset, true
	}
	return 0, false
}

// splitsText renders the splits as tab-separated lines for the clipboard.
func splitsText(snap Snapshot) string {
	var b strings.Builder
	for i, s := range snap.Splits {
		if s.Skipped {
			fmt.Fprintf(&b, "%d\t-\t-\n", i+1)
			continue
		}
		seg, _ := snap.SegmentTime(i)
		fmt.Fprintf(&b, "%d\t%s\t%s\n", i+1, formatDuration(seg), formatDuration(s.At))
	}
	return b.String()
}
