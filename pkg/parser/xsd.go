package parser

import (
	"fmt"
	"os"

	"github.com/bpelmig/bpelmig/pkg/logger"
)

var xsdLog = logger.New("parser:xsd")

// XSD is a shallow view of a schema document: just enough to resolve the
// element and type names that variables reference. Nested structure is not
// needed for requirements extraction.
type XSD struct {
	SourceFile      string
	TargetNamespace string
	Elements        []string
	ComplexTypes    []string
	SimpleTypes     []string
}

// ParseXSDFile reads and parses a .xsd document from disk.
func ParseXSDFile(path string) (*XSD, error) {
	xsdLog.Printf("Parsing XSD file: %s", path)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read XSD file: %w", err)
	}
	return ParseXSD(content, path)
}

// ParseXSD parses schema document content.
func ParseXSD(content []byte, sourceFile string) (*XSD, error) {
	root, _, err := readDocument(content)
	if err != nil {
		line, column, message := ExtractXMLError(err)
		return nil, &ParseError{
			File:    sourceFile,
			Line:    line,
			Column:  column,
			Message: message,
			Content: string(content),
		}
	}
	if root.name.Local != "schema" {
		return nil, &ParseError{
			File:    sourceFile,
			Line:    root.pos.Line,
			Column:  root.pos.Column,
			Message: fmt.Sprintf("expected <schema> root element, found <%s>", root.name.Local),
			Content: string(content),
		}
	}

	xsd := &XSD{
		SourceFile:      sourceFile,
		TargetNamespace: root.attr("targetNamespace"),
	}
	for _, el := range root.childrenNamed("element") {
		xsd.Elements = append(xsd.Elements, el.attr("name"))
	}
	for _, ct := range root.childrenNamed("complexType") {
		xsd.ComplexTypes = append(xsd.ComplexTypes, ct.attr("name"))
	}
	for _, st := range root.childrenNamed("simpleType") {
		xsd.SimpleTypes = append(xsd.SimpleTypes, st.attr("name"))
	}

	xsdLog.Printf("Parsed XSD %s: elements=%d, complexTypes=%d", sourceFile, len(xsd.Elements), len(xsd.ComplexTypes))
	return xsd, nil
}
