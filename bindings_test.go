package main

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"splitkeys/hotkey"
)

func TestParseBindingsDefaults(t *testing.T) {
	b, err := ParseBindings("")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := b.String(), "split=Numpad1,skip=Numpad2,undo=Numpad8,pause=Numpad5,reset=Numpad3"; got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}

func TestParseBindingsOverrides(t *testing.T) {
	b, err := ParseBindings(" split = F1 , Reset=kp0,pause=none")
	if err != nil {
		t.Fatal(err)
	}
	if b[ActionSplit] != hotkey.F1 || b[ActionReset] != hotkey.Numpad0 {
		t.Errorf("bindings = %v", b)
	}
	if _, ok := b[ActionPause]; ok {
		t.Error("pause still bound after pause=none")
	}
	if b[ActionUndo] != hotkey.Numpad8 {
		t.Errorf("undo lost its default: %s", b[ActionUndo])
	}

	again, err := ParseBindings(b.String())
	if err != nil {
		t.Fatal(err)
	}
	if again.String() != b.String() {
		t.Errorf("String does not parse back: %q vs %q", again.String(), b.String())
	}
}

func TestParseBindingsErrors(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"split", "want action=key"},
		{"jump=F1", "unknown action"},
		{"split=F99", "unknown key"},
		{"split=Numpad2", "bound to both"},
	}
	for _, tt := range tests {
		_, err := ParseBindings(tt.in)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("ParseBindings(%q) = %v, want error containing %q", tt.in, err, tt.want)
		}
	}
}

func TestBindingsRegister(t *testing.T) {
	fk := hotkey.NewFake()
	h, err := hotkey.New(hotkey.WithBackend(fk))
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	var mu sync.Mutex
	var got []Action
	fired := make(chan struct{}, 8)
	b := DefaultBindings()
	if err := b.Register(h, func(a Action, _ hotkey.Key) {
		mu.Lock()
		got = append(got, a)
		mu.Unlock()
		fired <- struct{}{}
	}); err != nil {
		t.Fatal(err)
	}
	if n := len(h.Registered()); n != len(actions) {
		t.Fatalf("registered %d keys, want %d", n, len(actions))
	}

	fk.SimKeydown(hotkey.Numpad1)
	fk.SimKeydown(hotkey.Numpad3)
	for i := 0; i < 2; i++ {
		select {
		case <-fired:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for action")
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got[0] != ActionSplit || got[1] != ActionReset {
		t.Errorf("actions = %v, want [split reset]", got)
	}
}

func TestBindingsRegisterRollsBack(t *testing.T) {
	h, err := hotkey.New(hotkey.WithBackend(hotkey.NewFake()))
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	// Another owner already holds the reset key.
	h.Register(hotkey.Numpad3, func() {})

	err = DefaultBindings().Register(h, func(Action, hotkey.Key) {})
	if !errors.Is(err, hotkey.ErrAlreadyRegistered) {
		t.Fatalf("Register = %v, want ErrAlreadyRegistered", err)
	}
	if got := h.Registered(); len(got) != 1 || got[0] != hotkey.Numpad3 {
		t.Errorf("Registered = %v, want only Numpad3", got)
	}
}

func TestBindingsStringKeepsUnbound(t *testing.T) {
	b := Bindings{ActionSplit: hotkey.F1, ActionReset: hotkey.F4}
	want := "split=F1,skip=none,undo=none,pause=none,reset=F4"
	if got := b.String(); got != want {
		t.Fatalf("String = %q, want %q", got, want)
	}
	again, err := ParseBindings(b.String())
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 2 || again[ActionSplit] != hotkey.F1 || again[ActionReset] != hotkey.F4 {
		t.Errorf("parsed back %v, want only split and reset", again)
	}
}

func TestBindingsFirst(t *testing.T) {
	b, err := ParseBindings("split=none,skip=none,undo=F7")
	if err != nil {
		t.Fatal(err)
	}
	a, k, ok := b.First()
	if !ok || a != ActionUndo || k != hotkey.F7 {
		t.Errorf("First = %s %s %v, want undo F7 true", a, k, ok)
	}
	if _, _, ok := (Bindings{}).First(); ok {
		t.Error("First reported a binding on empty bindings")
	}
}
