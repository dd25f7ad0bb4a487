//go:build !windows

package doctor

import (
	"os"
	"os/exec"

	"golang.org/x/term"

	"splitkeys/shutdown"
)

// resetTerminal restores cooked mode in case a captured key or a crashed
// TUI left the terminal raw.
func resetTerminal() {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return
	}
	cmd := exec.Command("stty", "sane")
	cmd.Stdin = os.Stdin
	cmd.Run()
}

func setupInterruptHandler() {
	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	go func() {
		<-sigChan
		println("\nInterrupted")
		os.Exit(1)
	}()
}
