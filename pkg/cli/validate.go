package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bpelmig/bpelmig/pkg/console"
	"github.com/bpelmig/bpelmig/pkg/logger"
	"github.com/bpelmig/bpelmig/pkg/parser"
	"github.com/bpelmig/bpelmig/pkg/prd"
)

var validateLog = logger.New("cli:validate")

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [summary.json|dir]...",
		Short: "Validate JSON summaries against the summary schema",
		Long: `Validate checks compiled summary files against the embedded summary
schema and reports each violation with its file, line and column. Passing a
directory validates every summaries/*.json beneath it; with no arguments
the current directory is used.

Examples:
  bpelmig validate
  bpelmig validate summaries/OrderProcess.json
  bpelmig validate build/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			return RunValidate(args)
		},
	}
}

// RunValidate validates each named summary file or directory of summaries.
func RunValidate(targets []string) error {
	var files []string
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", target, err)
		}
		if !info.IsDir() {
			files = append(files, target)
			continue
		}
		matches, _ := filepath.Glob(filepath.Join(target, "summaries", "*.json"))
		if len(matches) == 0 {
			matches, _ = filepath.Glob(filepath.Join(target, "*.json"))
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return fmt.Errorf("%s", console.FormatErrorWithSuggestions(
			"no summary files found",
			[]string{
				"Run `bpelmig compile` first to produce summaries/",
				"Pass summary files or a project root explicitly",
			}))
	}

	validateLog.Printf("Validating %d summary files", len(files))
	failures := 0
	for _, file := range files {
		if err := validateSummaryFile(file); err != nil {
			failures++
			fmt.Fprintln(os.Stderr, err.Error())
		} else {
			fmt.Println(console.FormatSuccessMessage(console.ToRelativePath(file) + " is valid"))
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d summaries failed validation", failures, len(files))
	}
	return nil
}

// validateSummaryFile validates one file and renders every schema violation
// as a positioned compiler error.
func validateSummaryFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	err = prd.ValidateSummaryBytes(data)
	if err == nil {
		return nil
	}

	infos := parser.ExtractJSONPathFromValidationError(err)
	if len(infos) == 0 {
		return fmt.Errorf("%s: %w", path, err)
	}

	content := string(data)
	var rendered []string
	for _, info := range infos {
		location := parser.LocateJSONPathInJSON(content, info.Path)
		compilerErr := console.CompilerError{
			Position: console.ErrorPosition{
				File:   path,
				Line:   location.Line,
				Column: location.Column,
			},
			Type:    "error",
			Message: summarizeViolation(info),
			Context: contextLinesAround(content, location.Line),
		}
		rendered = append(rendered, console.FormatError(compilerErr))
	}
	return fmt.Errorf("%s", strings.Join(rendered, ""))
}

// summarizeViolation flattens a jsonschema error message to a single line
// prefixed with its instance path.
func summarizeViolation(info parser.JSONPathInfo) string {
	message := info.Message
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	if info.Path == "" {
		return message
	}
	return fmt.Sprintf("%s: %s", info.Path, message)
}

// contextLinesAround returns up to two lines either side of line (1-based)
// for error display.
func contextLinesAround(content string, line int) []string {
	lines := strings.Split(content, "\n")
	start := line - 3
	if start < 0 {
		start = 0
	}
	end := line + 2
	if end > len(lines) {
		end = len(lines)
	}
	return lines[start:end]
}
