package log

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func setupLogDir(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	SetDir(tmp)
	t.Cleanup(func() { Close(); SetDir("") })
	return tmp
}

func TestResolveDirFlag(t *testing.T) {
	t.Setenv("SPLITKEYS_LOG_PATH", "/tmp/ignored")
	abs := filepath.Join(t.TempDir(), "mylog")
	got, err := ResolveDir(abs)
	if err != nil {
		t.Fatal(err)
	}
	if got != abs {
		t.Errorf("got %q, want %q", got, abs)
	}
}

func TestResolveDirFlagRelative(t *testing.T) {
	got, err := ResolveDir("logs")
	if err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(wd, "logs")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveDirEnv(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "env-log")
	t.Setenv("SPLITKEYS_LOG_PATH", abs)
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if got != abs {
		t.Errorf("got %q, want %q", got, abs)
	}
}

func TestResolveDirDefault(t *testing.T) {
	t.Setenv("SPLITKEYS_LOG_PATH", "")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "splitkeys") {
		t.Errorf("default directory %q does not name the app", got)
	}
}

func TestResolveDirXDGState(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG layout applies to Linux only")
	}
	state := t.TempDir()
	t.Setenv("SPLITKEYS_LOG_PATH", "")
	t.Setenv("XDG_STATE_HOME", state)
	got, err := ResolveDir("")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(state, "splitkeys", "logs"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestInitCreatesFiles(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"diagnostics_log.txt", "splits_log.txt"} {
		path := filepath.Join(tmp, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s not created: %v", name, err)
		}
	}
}

func TestSplitText(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}

	SplitText("split 1\t0:12.345")

	data, err := os.ReadFile(filepath.Join(tmp, "splits_log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	line := string(data)
	if !strings.Contains(line, "split 1") {
		t.Errorf("splits_log.txt missing text, got: %q", line)
	}
	// format: "2006-01-02 15:04:05\t[pid]\ttext\n"
	if !strings.HasSuffix(line, "\n") || strings.Count(line, "\t") < 2 {
		t.Errorf("expected tab-separated line, got: %q", line)
	}
}

func TestDiagnosticsWritten(t *testing.T) {
	tmp := setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Action("split", "Numpad1", "running")
	RunMetrics(Run{Segments: 3, Total: 90 * time.Second, Finished: true})
	l := Logger()
	l.Info().Str("component", "test").Msg("via logger")
	Close()

	data, err := os.ReadFile(filepath.Join(tmp, "diagnostics_log.txt"))
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{"hotkey_action", "action=split", "key=Numpad1", "segments=3", "via logger"} {
		if !strings.Contains(out, want) {
			t.Errorf("diagnostics log missing %q:\n%s", want, out)
		}
	}
}

func TestLoggerBeforeInit(t *testing.T) {
	Close()
	// Must not panic or write anywhere.
	l := Logger()
	l.Info().Msg("dropped")
	SplitText("dropped")
	Action("split", "A", "running")
}

func TestCloseIdempotent(t *testing.T) {
	setupLogDir(t)

	if err := Init(); err != nil {
		t.Fatal(err)
	}
	Close()
	Close() // should not panic
}
