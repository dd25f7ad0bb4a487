package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/muesli/cancelreader"
	"golang.org/x/term"

	"splitkeys/hotkey"
	"splitkeys/log"
)

var errSetupAborted = errors.New("setup aborted")

// learnBindings asks for one key per action and captures it globally
// through h. Escape keeps the current key for that action.
func learnBindings(h *hotkey.Hook, current Bindings) (Bindings, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("setup needs an interactive terminal")
	}
	// Raw mode keeps pressed keys from echoing into the prompt.
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	// The watcher must stop reading before the TUI takes over stdin.
	in, err := cancelreader.NewReader(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("reading terminal: %w", err)
	}
	defer in.Close()
	defer in.Cancel()

	abort := make(chan struct{})
	go watchCtrlC(in, abort)

	return learn(h, current, abort, os.Stdout, "\r\n")
}

// watchCtrlC closes abort when Ctrl+C arrives on r. In raw mode the
// terminal no longer turns it into a signal.
func watchCtrlC(r io.Reader, abort chan<- struct{}) {
	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		if err != nil {
			return
		}
		for _, c := range buf[:n] {
			if c == 3 {
				close(abort)
				return
			}
		}
	}
}

// learn does the capture half of learnBindings. nl is the line ending,
// which must include \r while the terminal is raw.
func learn(h *hotkey.Hook, current Bindings, abort <-chan struct{}, out io.Writer, nl string) (Bindings, error) {
	pressed := make(chan hotkey.Key, 1)
	var registered []hotkey.Key
	defer func() {
		for _, k := range registered {
			h.Unregister(k)
		}
	}()
	var unavailable []string
	var lastErr error
	for _, k := range hotkey.Keys() {
		if k <= hotkey.XButton2 {
			// mouse buttons
			continue
		}
		err := h.Register(k, func() {
			select {
			case pressed <- k:
			default:
			}
		})
		if err != nil {
			// Per-key backends refuse keys other programs hold.
			log.Warnf("setup: cannot capture %s: %v", k, err)
			unavailable = append(unavailable, k.String())
			lastErr = err
			continue
		}
		registered = append(registered, k)
	}
	if len(registered) == 0 {
		return nil, fmt.Errorf("no key can be captured: %w", lastErr)
	}

	fmt.Fprintf(out, "Press the key for each action (Esc keeps the current key, Ctrl+C aborts)%s", nl)
	if len(unavailable) > 0 {
		fmt.Fprintf(out, "Not available: %s%s", strings.Join(unavailable, " "), nl)
	}
	fmt.Fprint(out, nl)
	learned := make(Bindings, len(actions))
	for i, a := range actions {
		if i > 0 {
			// Let the previous key go up before the next prompt.
			time.Sleep(150 * time.Millisecond)
		}
		drain(pressed)

		cur, hasCur := current[a]
		prompt := fmt.Sprintf("  %-6s", a)
		if hasCur {
			prompt += fmt.Sprintf(" [%s]", cur)
		}
		fmt.Fprintf(out, "%s: ", prompt)

		for {
			var k hotkey.Key
			select {
			case k = <-pressed:
			case <-abort:
				fmt.Fprint(out, nl)
				return nil, errSetupAborted
			case <-h.Done():
				fmt.Fprint(out, nl)
				return nil, fmt.Errorf("hook stopped: %v", h.Err())
			}

			if k == hotkey.Escape {
				if !hasCur {
					fmt.Fprintf(out, "(unbound)%s", nl)
					break
				}
				k = cur
			}
			if other, taken := boundTo(learned, k); taken {
				fmt.Fprintf(out, "%s is already %s, try another: ", k, other)
				continue
			}
			learned[a] = k
			fmt.Fprintf(out, "%s%s", k, nl)
			break
		}
	}
	return learned, nil
}

func drain(ch <-chan hotkey.Key) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

func boundTo(b Bindings, k hotkey.Key) (Action, bool) {
	for a, x := range b {
		if x == k {
			return a, true
		}
	}
	return "", false
}
