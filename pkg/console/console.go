// Package console renders compiler diagnostics and status messages for the
// terminal. Errors carry file:line:column positions so output can be consumed
// by editors the same way compiler output is.
package console

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrorPosition identifies a location in a source document.
type ErrorPosition struct {
	File   string
	Line   int
	Column int
}

// CompilerError is a positioned diagnostic with optional source context.
type CompilerError struct {
	Position ErrorPosition
	Type     string // "error" or "warning"
	Message  string
	Context  []string // source lines surrounding the position
	Hint     string
}

func (e CompilerError) Error() string {
	return FormatError(e)
}

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// colorsEnabled reports whether styled output should be used. NO_COLOR and
// non-TTY stderr both disable styling.
func colorsEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func styled(style lipgloss.Style, s string) string {
	if !colorsEnabled() {
		return s
	}
	return style.Render(s)
}

// FormatError renders a CompilerError in the conventional
// "file:line:column: type: message" shape with numbered context lines.
func FormatError(err CompilerError) string {
	var sb strings.Builder

	file := ToRelativePath(err.Position.File)
	header := fmt.Sprintf("%s:%d:%d: %s: %s", file, err.Position.Line, err.Position.Column, err.Type, err.Message)
	if err.Type == "warning" {
		sb.WriteString(styled(warningStyle, header))
	} else {
		sb.WriteString(styled(errorStyle, header))
	}
	sb.WriteString("\n")

	if len(err.Context) > 0 {
		// Context lines are centered on the reported line.
		startLine := err.Position.Line - len(err.Context)/2
		if startLine < 1 {
			startLine = 1
		}
		for i, line := range err.Context {
			lineNum := startLine + i
			marker := " "
			if lineNum == err.Position.Line {
				marker = ">"
			}
			sb.WriteString(styled(dimStyle, fmt.Sprintf("%s %3d | %s", marker, lineNum, line)))
			sb.WriteString("\n")
		}
		if err.Position.Column > 0 {
			caretPad := strings.Repeat(" ", 8+err.Position.Column-1)
			sb.WriteString(styled(errorStyle, caretPad+"^"))
			sb.WriteString("\n")
		}
	}

	if err.Hint != "" {
		sb.WriteString(styled(infoStyle, "  hint: "+err.Hint))
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatErrorWithSuggestions renders an unpositioned error with a bulleted
// list of follow-up actions.
func FormatErrorWithSuggestions(message string, suggestions []string) string {
	var sb strings.Builder
	sb.WriteString(styled(errorStyle, "✗ "+message))
	sb.WriteString("\n")
	if len(suggestions) > 0 {
		sb.WriteString("\nSuggestions:\n")
		for _, s := range suggestions {
			sb.WriteString("  • " + s + "\n")
		}
	}
	return sb.String()
}

// FormatErrorMessage renders a one-line error message.
func FormatErrorMessage(message string) string {
	return styled(errorStyle, "✗ "+message)
}

// FormatSuccessMessage renders a one-line success message.
func FormatSuccessMessage(message string) string {
	return styled(successStyle, "✓ "+message)
}

// FormatInfoMessage renders a one-line informational message.
func FormatInfoMessage(message string) string {
	return styled(infoStyle, "ℹ "+message)
}

// FormatWarningMessage renders a one-line warning message.
func FormatWarningMessage(message string) string {
	return styled(warningStyle, "⚠ "+message)
}

// FormatLocationMessage renders a message that refers to a filesystem path.
func FormatLocationMessage(message string) string {
	return styled(infoStyle, "📁 "+message)
}

// ToRelativePath converts absolute paths to paths relative to the working
// directory when possible. Relative paths are returned unchanged. Paths
// outside the working directory keep their absolute form readable by falling
// back to the original.
func ToRelativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}
	return rel
}
