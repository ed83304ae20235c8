// Package parser reads Oracle BPEL process documents and their sibling WSDL
// and XSD files into the normalized representation defined by pkg/bpel.
// Parsing is strictly structural: expressions, conditions and XPath strings
// are carried verbatim and never evaluated or rewritten.
package parser

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/bpelmig/bpelmig/pkg/bpel"
	"github.com/bpelmig/bpelmig/pkg/logger"
)

var documentLog = logger.New("parser:document")

// element is a raw XML element with source positions, built before any BPEL
// interpretation happens so diagnostics can point at the exact input line.
type element struct {
	name     xml.Name
	attrs    []xml.Attr
	children []*element
	text     string
	pos      bpel.Position
}

// attr returns the value of the named attribute, ignoring namespace prefixes.
func (e *element) attr(local string) string {
	for _, a := range e.attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// child returns the first direct child with the given local name, or nil.
func (e *element) child(local string) *element {
	for _, c := range e.children {
		if c.name.Local == local {
			return c
		}
	}
	return nil
}

// childrenNamed returns all direct children with the given local name.
func (e *element) childrenNamed(local string) []*element {
	var out []*element
	for _, c := range e.children {
		if c.name.Local == local {
			out = append(out, c)
		}
	}
	return out
}

// innerText returns the element's character data with surrounding whitespace
// trimmed. Expression content inside condition elements goes through here,
// so no further normalization is applied.
func (e *element) innerText() string {
	return strings.TrimSpace(e.text)
}

// lineIndex maps byte offsets to 1-based line and column numbers.
type lineIndex struct {
	// lineStarts[i] is the byte offset of the start of line i+1.
	lineStarts []int64
}

func newLineIndex(content []byte) *lineIndex {
	idx := &lineIndex{lineStarts: []int64{0}}
	for i, b := range content {
		if b == '\n' {
			idx.lineStarts = append(idx.lineStarts, int64(i+1))
		}
	}
	return idx
}

func (idx *lineIndex) position(offset int64) bpel.Position {
	line := 1
	for i := len(idx.lineStarts) - 1; i >= 0; i-- {
		if offset >= idx.lineStarts[i] {
			line = i + 1
			break
		}
	}
	column := int(offset-idx.lineStarts[line-1]) + 1
	return bpel.Position{Line: line, Column: column}
}

// readDocument parses content into a raw element tree with positions.
func readDocument(content []byte) (*element, *lineIndex, error) {
	idx := newLineIndex(content)
	decoder := xml.NewDecoder(bytes.NewReader(content))

	var root *element
	var stack []*element

	for {
		offset := decoder.InputOffset()
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, idx, err
		}

		switch tok := token.(type) {
		case xml.StartElement:
			el := &element{
				name:  tok.Name,
				attrs: append([]xml.Attr(nil), tok.Attr...),
				pos:   idx.position(offset),
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, idx, fmt.Errorf("multiple root elements in document")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, idx, fmt.Errorf("unbalanced end element </%s>", tok.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(tok)
			}
		}
	}

	if root == nil {
		return nil, idx, fmt.Errorf("document contains no elements")
	}
	if len(stack) != 0 {
		return nil, idx, fmt.Errorf("document ended with %d unclosed elements", len(stack))
	}

	documentLog.Printf("Read document: root=%s, namespace=%s", root.name.Local, root.name.Space)
	return root, idx, nil
}
