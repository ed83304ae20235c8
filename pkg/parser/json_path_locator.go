package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bpelmig/bpelmig/pkg/logger"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

var jsonPathLog = logger.New("parser:json_path_locator")

// JSONPathLocation represents a location in JSON source corresponding to a
// JSON path.
type JSONPathLocation struct {
	Line   int
	Column int
	Found  bool
}

// JSONPathInfo holds information about a validation error and its path.
type JSONPathInfo struct {
	Path     string   // JSON path like "/variables/1" or "/name"
	Message  string   // Error message
	Location []string // Instance location from jsonschema (e.g., ["variables", "1"])
}

// ExtractJSONPathFromValidationError extracts JSON path information from
// jsonschema validation errors.
func ExtractJSONPathFromValidationError(err error) []JSONPathInfo {
	var paths []JSONPathInfo

	if validationError, ok := err.(*jsonschema.ValidationError); ok {
		causes := validationError.Causes
		if len(causes) == 0 {
			causes = []*jsonschema.ValidationError{validationError}
		}
		for _, cause := range causes {
			paths = append(paths, JSONPathInfo{
				Path:     convertInstanceLocationToJSONPath(cause.InstanceLocation),
				Message:  cause.Error(),
				Location: cause.InstanceLocation,
			})
		}
	}

	return paths
}

func convertInstanceLocationToJSONPath(location []string) string {
	if len(location) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range location {
		sb.WriteString("/")
		sb.WriteString(part)
	}
	return sb.String()
}

// LocateJSONPathInJSON finds the line/column position of a JSON path in
// indented JSON source. The search is lexical: object keys are matched as
// quoted strings, array indices by counting element starts inside the
// bracket pair. Good enough to point an editor at the failing region of a
// summary file.
func LocateJSONPathInJSON(jsonContent string, jsonPath string) JSONPathLocation {
	jsonPathLog.Printf("Locating JSON path in summary: %s", jsonPath)

	if jsonPath == "" {
		return JSONPathLocation{Line: 1, Column: 1, Found: true}
	}

	segments := parseJSONPath(jsonPath)
	if len(segments) == 0 {
		return JSONPathLocation{Line: 1, Column: 1, Found: true}
	}

	lines := strings.Split(jsonContent, "\n")
	location := JSONPathLocation{Line: 1, Column: 1}
	searchFrom := 0

	for _, segment := range segments {
		if index, err := strconv.Atoi(segment); err == nil {
			line, ok := locateArrayIndex(lines, searchFrom, index)
			if !ok {
				jsonPathLog.Printf("Array index %d not found after line %d", index, searchFrom)
				return location
			}
			searchFrom = line
			location = JSONPathLocation{Line: line + 1, Column: indentOf(lines[line]) + 1, Found: true}
			continue
		}

		needle := fmt.Sprintf("%q:", segment)
		found := false
		for i := searchFrom; i < len(lines); i++ {
			if col := strings.Index(lines[i], needle); col >= 0 {
				searchFrom = i
				location = JSONPathLocation{Line: i + 1, Column: col + 1, Found: true}
				found = true
				break
			}
		}
		if !found {
			jsonPathLog.Printf("Key %q not found after line %d", segment, searchFrom)
			return location
		}
	}

	jsonPathLog.Printf("Location result: line=%d, column=%d, found=%v", location.Line, location.Column, location.Found)
	return location
}

// locateArrayIndex finds the line of the index-th element start after the
// array opening bracket at or after startLine. Elements are assumed to start
// on their own lines, which holds for the indented JSON this tool emits.
func locateArrayIndex(lines []string, startLine, index int) (int, bool) {
	open := -1
	for i := startLine; i < len(lines); i++ {
		if strings.Contains(lines[i], "[") {
			open = i
			break
		}
	}
	if open < 0 {
		return 0, false
	}

	openIndent := indentOf(lines[open])
	count := -1
	for i := open + 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "]") && indentOf(lines[i]) <= openIndent {
			break
		}
		// Element starts sit one indent level inside the bracket.
		if indentOf(lines[i]) == openIndent+2 && startsValue(trimmed) {
			count++
			if count == index {
				return i, true
			}
		}
	}
	return 0, false
}

// startsValue reports whether a trimmed line begins a new array element in
// indented JSON output.
func startsValue(trimmed string) bool {
	if trimmed == "" {
		return false
	}
	switch trimmed[0] {
	case '{', '[', '"', 't', 'f', 'n', '-':
		return true
	}
	return trimmed[0] >= '0' && trimmed[0] <= '9'
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// parseJSONPath splits "/variables/1/name" into its segments.
func parseJSONPath(path string) []string {
	var segments []string
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}
