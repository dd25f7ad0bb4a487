package main

import (
	"errors"
	"fmt"
	"strings"

	"splitkeys/hotkey"
)

type Action string

const (
	ActionSplit Action = "split"
	ActionSkip  Action = "skip"
	ActionUndo  Action = "undo"
	ActionPause Action = "pause"
	ActionReset Action = "reset"
)

// actions lists every action in display order.
var actions = []Action{ActionSplit, ActionSkip, ActionUndo, ActionPause, ActionReset}

// Bindings maps each action to the key that triggers it.
type Bindings map[Action]hotkey.Key

func DefaultBindings() Bindings {
	return Bindings{
		ActionSplit: hotkey.Numpad1,
		ActionSkip:  hotkey.Numpad2,
		ActionUndo:  hotkey.Numpad8,
		ActionPause: hotkey.Numpad5,
		ActionReset: hotkey.Numpad3,
	}
}

// ParseBindings reads "action=key,..." on top of the defaults. Actions not
// mentioned keep their default key; "action=none" unbinds one.
func ParseBindings(s string) (Bindings, error) {
	b := DefaultBindings()
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		name, keyName, ok := strings.Cut(field, "=")
		if !ok {
			return nil, fmt.Errorf("binding %q: want action=key", field)
		}
		action := Action(strings.ToLower(strings.TrimSpace(name)))
		if !isAction(action) {
			return nil, fmt.Errorf("binding %q: unknown action %q", field, name)
		}
		if strings.EqualFold(strings.TrimSpace(keyName), "none") {
			delete(b, action)
			continue
		}
		k, err := hotkey.ParseKey(keyName)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", field, err)
		}
		b[action] = k
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func isAction(a Action) bool {
	for _, x := range actions {
		if x == a {
			return true
		}
	}
	return false
}

// Validate rejects two actions sharing one key.
func (b Bindings) Validate() error {
	seen := make(map[hotkey.Key]Action, len(b))
	for _, a := range actions {
		k, ok := b[a]
		if !ok {
			continue
		}
		if other, dup := seen[k]; dup {
			return fmt.Errorf("%s is bound to both %s and %s", k, other, a)
		}
		seen[k] = a
	}
	return nil
}

// String renders the bindings in the format ParseBindings accepts. Unbound
// actions are written as action=none so parsing does not restore defaults.
func (b Bindings) String() string {
	var parts []string
	for _, a := range actions {
		if k, ok := b[a]; ok {
			parts = append(parts, fmt.Sprintf("%s=%s", a, k))
		} else {
			parts = append(parts, fmt.Sprintf("%s=none", a))
		}
	}
	return strings.Join(parts, ",")
}

// First returns the first bound action in display order.
func (b Bindings) First() (Action, hotkey.Key, bool) {
	for _, a := range actions {
		if k, ok := b[a]; ok {
			return a, k, true
		}
	}
	return "", 0, false
}

// Register binds every action on h. fn runs on the hook's dispatch
// goroutine. On error nothing stays registered.
func (b Bindings) Register(h *hotkey.Hook, fn func(Action, hotkey.Key)) error {
	var done []hotkey.Key
	for _, a := range actions {
		k, ok := b[a]
		if !ok {
			continue
		}
		if err := h.Register(k, func() { fn(a, k) }); err != nil {
			var errs []error
			for _, d := range done {
				errs = append(errs, h.Unregister(d))
			}
			return errors.Join(append([]error{fmt.Errorf("bind %s to %s: %w", a, k, err)}, errs...)...)
		}
		done = append(done, k)
	}
	return nil
}

// Unregister removes every binding from h.
func (b Bindings) Unregister(h *hotkey.Hook) {
	for _, a := range actions {
		if k, ok := b[a]; ok {
			h.Unregister(k)
		}
	}
}
