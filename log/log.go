package log

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	diagLog    zerolog.Logger
	diagFile   *os.File
	splitsFile *os.File
	logMu      sync.Mutex
	logReady   bool
	pid        int
	dir        string
)

// Run summarizes a finished or reset attempt.
type Run struct {
	Segments int
	Skipped  int
	Total    time.Duration
	Paused   time.Duration
	Finished bool
}

func ResolveDir(flagPath string) (string, error) {
	// Priority 1: -logpath flag
	if flagPath != "" {
		return absPath(flagPath)
	}

	// Priority 2: SPLITKEYS_LOG_PATH environment variable
	if envPath := os.Getenv("SPLITKEYS_LOG_PATH"); envPath != "" {
		return absPath(envPath)
	}

	// Priority 3: Default OS-specific location
	return getDefaultDir()
}

func absPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, p), nil
}

func SetDir(d string) {
	dir = d
}

func Dir() string {
	return dir
}

func EnsureDir() error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}

func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if err := EnsureDir(); err != nil {
		return err
	}

	pid = os.Getpid()

	var err error

	diagPath := filepath.Join(dir, "diagnostics_log.txt")
	diagFile, err = os.OpenFile(diagPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	splitsPath := filepath.Join(dir, "splits_log.txt")
	splitsFile, err = os.OpenFile(splitsPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		diagFile.Close()
		return err
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        diagFile,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}
	diagLog = zerolog.New(consoleWriter).With().Timestamp().Int("pid", pid).Logger()

	logReady = true
	return nil
}

func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		diagFile.Close()
		diagFile = nil
	}
	if splitsFile != nil {
		splitsFile.Close()
		splitsFile = nil
	}
	logReady = false
}

// Logger returns the diagnostics logger for packages that take a
// zerolog.Logger, or a disabled logger before Init.
func Logger() zerolog.Logger {
	if !logReady {
		return zerolog.Nop()
	}
	return diagLog
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Error(msg string) {
	if logReady {
		diagLog.Error().Msg(msg)
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

// Action records a hotkey-triggered stopwatch action.
func Action(action, key, phase string) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("action", action).
		Str("key", key).
		Str("phase", phase).
		Msg("hotkey_action")
}

func RunMetrics(r Run) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("segments", r.Segments).
		Int("skipped", r.Skipped).
		Dur("total", r.Total).
		Dur("paused", r.Paused).
		Bool("finished", r.Finished).
		Msg("run")
}

// SplitText appends one line to splits_log.txt.
func SplitText(text string) {
	if !logReady {
		return
	}
	logMu.Lock()
	defer logMu.Unlock()
	line := fmt.Sprintf("%s\t[%d]\t%s\n", time.Now().Format("2006-01-02 15:04:05"), pid, text)
	splitsFile.WriteString(line)
}

func SessionStart(backend string, bindings int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("backend", backend).
		Int("bindings", bindings).
		Msg("session_start")
}

func SessionEnd(runs int) {
	if !logReady {
		return
	}
	diagLog.Info().
		Int("runs", runs).
		Msg("session_end")
}
