package console

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal when stdout is a TTY. Used by watch mode
// before each recompilation cycle.
func ClearScreen() {
	if !IsTerminal() {
		return
	}
	fmt.Print("\033[2J\033[H")
}

// ClearLine clears the current line on stderr when it is a TTY.
func ClearLine() {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return
	}
	fmt.Fprint(os.Stderr, "\033[2K\r")
}
