package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"splitkeys/beep"
	"splitkeys/doctor"
	"splitkeys/hotkey"
	"splitkeys/log"
	"splitkeys/shutdown"
)

var version = "dev"

var shutdownOnce sync.Once

// gracefulShutdown uninstalls the hook and flushes the logs. It waits a
// bounded time for the hook goroutine so a stuck OS call cannot hang exit.
func gracefulShutdown(h *hotkey.Hook, tm *timer) {
	shutdownOnce.Do(func() {
		if h != nil {
			if err := h.Close(); err != nil {
				log.Warnf("hook close: %v", err)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := h.Wait(ctx); err != nil {
				log.Warnf("hook shutdown: %v", err)
			}
			cancel()
		}
		if tm != nil {
			log.SessionEnd(int(tm.runs.Load()))
		}
		log.Close()
	})
}

func run() {
	keysFlag := flag.String("keys", "", "Key bindings as action=key,... (actions: split, skip, undo, pause, reset; env SPLITKEYS_KEYS)")
	segmentsFlag := flag.Int("segments", 0, "Number of segments per run; the last split ends the run (0 = open-ended)")
	backendFlag := flag.String("backend", "system", "Capture backend: "+backendNames)
	setupFlag := flag.Bool("setup", false, "Learn key bindings interactively before starting")
	beepFlag := flag.Bool("beep", true, "Play a sound on every action")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	profileFlag := flag.String("profile", "", "Enable pprof profiling server (e.g., :6060 or localhost:6060)")
	testFlag := flag.Bool("test", false, "Test mode (headless, stdin-driven)")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("splitkeys %s\n", version)
		os.Exit(0)
	}

	// Resolve log directory early
	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to resolve log directory: %v\n", err)
		os.Exit(1)
	}
	log.SetDir(logPath)

	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if *profileFlag != "" {
		go func() {
			fmt.Fprintf(os.Stderr, "pprof server listening on http://%s/debug/pprof/\n", *profileFlag)
			if err := http.ListenAndServe(*profileFlag, nil); err != nil {
				fmt.Fprintf(os.Stderr, "pprof server error: %v\n", err)
			}
		}()
	}

	keys := *keysFlag
	if keys == "" {
		keys = os.Getenv("SPLITKEYS_KEYS")
	}
	bindings, err := ParseBindings(keys)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *segmentsFlag < 0 {
		fmt.Fprintln(os.Stderr, "Error: -segments must not be negative")
		os.Exit(1)
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}

	if *doctorFlag {
		if _, err := newBackend(*backendFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		_, key, ok := bindings.First()
		if !ok {
			key = DefaultBindings()[ActionSplit]
		}
		code := doctor.Run(log.Dir(), key, func() hotkey.Backend {
			b, _ := newBackend(*backendFlag)
			return b
		})
		log.Close()
		os.Exit(code)
	}

	if *testFlag {
		err := runTestMode(os.Stdin, os.Stdout, bindings, *segmentsFlag)
		log.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if !*beepFlag {
		beep.Disable()
	}
	if !beep.Disabled() {
		go beep.Init()
	}

	backend, err := newBackend(*backendFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	hk, err := hotkey.New(hotkey.WithBackend(backend), hotkey.WithLogger(log.Logger()))
	if err != nil {
		log.Errorf("hook install error: %v", err)
		fmt.Fprintf(os.Stderr, "Error installing keyboard hook: %v\n", err)
		if errors.Is(err, hotkey.ErrInstall) {
			fmt.Fprintln(os.Stderr, "Run 'splitkeys -doctor' for details.")
		}
		os.Exit(1)
	}

	if *setupFlag {
		learned, err := learnBindings(hk, bindings)
		if err != nil {
			gracefulShutdown(hk, nil)
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		bindings = learned
		fmt.Printf("Bindings: %s\n", bindings)
		fmt.Printf("Reuse them with: splitkeys -keys %q\n", bindings.String())
	}

	sw := NewStopwatch(*segmentsFlag, nil)
	var sink EventSink
	if *tuiFlag {
		tuiMu.Lock()
		tuiProgram = NewTUIProgram(sw, bindings)
		tuiMu.Unlock()
		sink = tuiSink{}
	} else {
		sink = newLineSink(os.Stdout)
	}
	tm := newTimer(sw, sink)

	if err := bindings.Register(hk, tm.handle); err != nil {
		log.Errorf("bind keys: %v", err)
		gracefulShutdown(hk, nil)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log.SessionStart(*backendFlag, len(bindings))

	ctx, stop := shutdown.Context(context.Background())
	defer stop()

	// The hook stops on its own only when the event loop fails.
	go func() {
		select {
		case <-hk.Done():
			if err := hk.Err(); err != nil {
				log.Errorf("hook stopped: %v", err)
				beep.Play(beep.Error)
				sink.Error(err)
				sink.Status("capture stopped, restart splitkeys")
			}
		case <-ctx.Done():
		}
	}()

	if *tuiFlag {
		// Send blocks until the program runs.
		go sink.Status(backendStatus(*backendFlag, backend))
		go func() {
			<-ctx.Done()
			tuiProgram.Quit()
		}()
		if _, err := tuiProgram.Run(); err != nil {
			log.Errorf("TUI error: %v", err)
		}
	} else {
		sink.Status(backendStatus(*backendFlag, backend))
		sink.Status("bindings " + bindings.String())
		<-ctx.Done()
	}

	gracefulShutdown(hk, tm)
}

func backendStatus(name string, b hotkey.Backend) string {
	status := "backend: " + name
	if d, ok := b.(hotkey.Diagnoser); ok {
		if msg, err := d.Diagnose(); err == nil {
			status += " (" + msg + ")"
		}
	}
	return status
}
