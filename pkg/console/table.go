package console

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TableConfig describes a table to render.
type TableConfig struct {
	Title     string
	Headers   []string
	Rows      [][]string
	ShowTotal bool
	TotalRow  []string
}

// RenderTable renders a plain-text aligned table. An empty config renders to
// an empty string.
func RenderTable(config TableConfig) string {
	if len(config.Headers) == 0 {
		return ""
	}

	widths := make([]int, len(config.Headers))
	for i, h := range config.Headers {
		widths[i] = len(h)
	}
	measure := func(row []string) {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	for _, row := range config.Rows {
		measure(row)
	}
	if config.ShowTotal {
		measure(config.TotalRow)
	}

	var sb strings.Builder
	if config.Title != "" {
		sb.WriteString(styled(infoStyle, config.Title))
		sb.WriteString("\n")
	}

	writeRow := func(row []string) {
		cells := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		sb.WriteString(strings.TrimRight(strings.Join(cells, "  "), " "))
		sb.WriteString("\n")
	}

	writeRow(config.Headers)
	separators := make([]string, len(widths))
	for i, w := range widths {
		separators[i] = strings.Repeat("-", w)
	}
	writeRow(separators)
	for _, row := range config.Rows {
		writeRow(row)
	}
	if config.ShowTotal {
		writeRow(separators)
		writeRow(config.TotalRow)
	}

	return sb.String()
}

// RenderTableAsJSON renders the table rows as a JSON array of objects keyed
// by snake_cased headers, for --json output modes.
func RenderTableAsJSON(config TableConfig) (string, error) {
	if len(config.Headers) == 0 {
		return "[]", nil
	}

	keys := make([]string, len(config.Headers))
	for i, h := range config.Headers {
		keys[i] = strings.ReplaceAll(strings.ToLower(h), " ", "_")
	}

	records := make([]map[string]string, 0, len(config.Rows))
	for _, row := range config.Rows {
		record := make(map[string]string, len(keys))
		for i, key := range keys {
			if i < len(row) {
				record[key] = row[i]
			} else {
				record[key] = ""
			}
		}
		records = append(records, record)
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal table as JSON: %w", err)
	}
	return string(out), nil
}
