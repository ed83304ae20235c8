// Package prompts carries the agent instruction documents this tool was
// built around: the analyst prompt that turns a structural extraction into a
// requirements document, and the implementer prompt that turns requirements
// into Spring Boot code. The documents are embedded but can be overridden
// per project.
package prompts

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bpelmig/bpelmig/pkg/logger"
)

var promptsLog = logger.New("prompts:loader")

//go:embed templates/*.md
var templates embed.FS

// Key identifies one of the shipped prompt documents.
type Key string

const (
	// KeyAnalyst is the BPEL-to-PRD analyst prompt.
	KeyAnalyst Key = "analyst"
	// KeyImplementer is the PRD-to-Spring implementer prompt.
	KeyImplementer Key = "implementer"
)

// Keys lists the available prompt documents.
func Keys() []Key {
	return []Key{KeyAnalyst, KeyImplementer}
}

// Get returns the prompt document for key. When overrideDir is non-empty
// and contains <key>.md, that file takes precedence over the embedded
// default, letting teams tune the prompts without rebuilding the tool.
func Get(key Key, overrideDir string) (string, error) {
	filename := string(key) + ".md"

	if strings.TrimSpace(overrideDir) != "" {
		overridePath := filepath.Join(overrideDir, filename)
		content, err := os.ReadFile(overridePath)
		if err == nil {
			promptsLog.Printf("Using override prompt from %s", overridePath)
			return string(content), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to read override prompt %s: %w", overridePath, err)
		}
	}

	content, err := templates.ReadFile("templates/" + filename)
	if err != nil {
		return "", fmt.Errorf("unrecognized prompt key %q", key)
	}
	return string(content), nil
}

// Values holds the artifact content substituted into a prompt document.
type Values struct {
	ProcessName string
	ProcessFile string
	SummaryJSON string
	PRD         string
	BasePackage string
}

// Render substitutes the {{NAME}} placeholders of a prompt document.
// Unknown placeholders are left intact so override prompts can carry their
// own markers.
func Render(document string, values Values) string {
	replacer := strings.NewReplacer(
		"{{PROCESS_NAME}}", values.ProcessName,
		"{{PROCESS_FILE}}", values.ProcessFile,
		"{{SUMMARY_JSON}}", values.SummaryJSON,
		"{{PRD}}", values.PRD,
		"{{BASE_PACKAGE}}", values.BasePackage,
	)
	return replacer.Replace(document)
}
