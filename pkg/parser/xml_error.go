package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/bpelmig/bpelmig/pkg/console"
	"github.com/bpelmig/bpelmig/pkg/logger"
)

var xmlErrorLog = logger.New("parser:xml_error")

// ParseError is a positioned failure to read a source document. It renders
// in compiler style with surrounding source context.
type ParseError struct {
	File    string
	Line    int
	Column  int
	Message string
	// Content is the full document text, used to extract context lines.
	Content string
}

func (e *ParseError) Error() string {
	compilerErr := console.CompilerError{
		Position: console.ErrorPosition{
			File:   e.File,
			Line:   e.Line,
			Column: e.Column,
		},
		Type:    "error",
		Message: e.Message,
		Context: contextLines(e.Content, e.Line),
	}
	return console.FormatError(compilerErr)
}

// contextLines returns up to two lines each side of the reported line.
func contextLines(content string, line int) []string {
	if content == "" || line <= 0 {
		return nil
	}
	lines := strings.Split(content, "\n")
	start := max(1, line-2)
	end := min(len(lines), line+2)

	var context []string
	for i := start; i <= end; i++ {
		context = append(context, lines[i-1])
	}
	return context
}

// ExtractXMLError extracts line information from encoding/xml parse errors.
// The stdlib reports lines but not columns, so column is zero unless a
// richer error is wrapped.
func ExtractXMLError(err error) (line int, column int, message string) {
	xmlErrorLog.Printf("Extracting XML error information: %v", err)

	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		xmlErrorLog.Printf("Extracted error location from xml.SyntaxError: line=%d", syntaxErr.Line)
		return syntaxErr.Line, 0, syntaxErr.Msg
	}

	// Fallback string parsing for wrapped errors that lost their type.
	errStr := err.Error()
	if strings.Contains(errStr, "XML syntax error on line ") {
		parts := strings.SplitN(errStr, "XML syntax error on line ", 2)
		if len(parts) > 1 {
			lineInfo := parts[1]
			if colonIndex := strings.Index(lineInfo, ":"); colonIndex > 0 {
				if _, parseErr := fmt.Sscanf(lineInfo[:colonIndex], "%d", &line); parseErr == nil {
					message = strings.TrimSpace(lineInfo[colonIndex+1:])
					xmlErrorLog.Printf("Extracted error location from string: line=%d", line)
					return line, 0, message
				}
			}
		}
	}

	xmlErrorLog.Print("No location information in error")
	return 0, 0, errStr
}
