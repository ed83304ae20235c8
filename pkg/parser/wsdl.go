package parser

import (
	"fmt"
	"os"
	"strings"

	"github.com/bpelmig/bpelmig/pkg/logger"
)

var wsdlLog = logger.New("parser:wsdl")

// WSDL is the subset of a WSDL document the extractor needs: message shapes,
// port types with their operations, and partner link types.
type WSDL struct {
	SourceFile      string
	TargetNamespace string

	Messages         []WSDLMessage
	PortTypes        []PortType
	PartnerLinkTypes []PartnerLinkType
}

// WSDLMessage is a named message with its parts.
type WSDLMessage struct {
	Name  string
	Parts []MessagePart
}

// MessagePart is one part of a WSDL message.
type MessagePart struct {
	Name    string
	Element string
	Type    string
}

// PortType groups the operations of one service interface.
type PortType struct {
	Name       string
	Operations []Operation
}

// Operation is a WSDL operation with its input/output/fault messages.
type Operation struct {
	Name   string
	Input  string
	Output string
	Faults []string
}

// PartnerLinkType connects BPEL partner links to WSDL port types via roles.
type PartnerLinkType struct {
	Name  string
	Roles []Role
}

// Role is one side of a partner link type.
type Role struct {
	Name     string
	PortType string
}

// ParseWSDLFile reads and parses a .wsdl document from disk.
func ParseWSDLFile(path string) (*WSDL, error) {
	wsdlLog.Printf("Parsing WSDL file: %s", path)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read WSDL file: %w", err)
	}
	return ParseWSDL(content, path)
}

// ParseWSDL parses WSDL document content.
func ParseWSDL(content []byte, sourceFile string) (*WSDL, error) {
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
	if root.name.Local != "definitions" {
		return nil, &ParseError{
			File:    sourceFile,
			Line:    root.pos.Line,
			Column:  root.pos.Column,
			Message: fmt.Sprintf("expected <definitions> root element, found <%s>", root.name.Local),
			Content: string(content),
		}
	}

	wsdl := &WSDL{
		SourceFile:      sourceFile,
		TargetNamespace: root.attr("targetNamespace"),
	}

	for _, msg := range root.childrenNamed("message") {
		message := WSDLMessage{Name: msg.attr("name")}
		for _, part := range msg.childrenNamed("part") {
			message.Parts = append(message.Parts, MessagePart{
				Name:    part.attr("name"),
				Element: part.attr("element"),
				Type:    part.attr("type"),
			})
		}
		wsdl.Messages = append(wsdl.Messages, message)
	}

	for _, pt := range root.childrenNamed("portType") {
		portType := PortType{Name: pt.attr("name")}
		for _, op := range pt.childrenNamed("operation") {
			operation := Operation{Name: op.attr("name")}
			if in := op.child("input"); in != nil {
				operation.Input = in.attr("message")
			}
			if out := op.child("output"); out != nil {
				operation.Output = out.attr("message")
			}
			for _, fault := range op.childrenNamed("fault") {
				operation.Faults = append(operation.Faults, fault.attr("name"))
			}
			portType.Operations = append(portType.Operations, operation)
		}
		wsdl.PortTypes = append(wsdl.PortTypes, portType)
	}

	for _, plt := range root.childrenNamed("partnerLinkType") {
		partnerLinkType := PartnerLinkType{Name: plt.attr("name")}
		for _, role := range plt.childrenNamed("role") {
			r := Role{Name: role.attr("name"), PortType: role.attr("portType")}
			// BPEL4WS 1.1 nests the port type in a child element.
			if r.PortType == "" {
				if pt := role.child("portType"); pt != nil {
					r.PortType = pt.attr("name")
				}
			}
			partnerLinkType.Roles = append(partnerLinkType.Roles, r)
		}
		wsdl.PartnerLinkTypes = append(wsdl.PartnerLinkTypes, partnerLinkType)
	}

	wsdlLog.Printf("Parsed WSDL %s: messages=%d, portTypes=%d, partnerLinkTypes=%d",
		sourceFile, len(wsdl.Messages), len(wsdl.PortTypes), len(wsdl.PartnerLinkTypes))
	return wsdl, nil
}

// ServiceCatalog indexes parsed WSDL and XSD documents for partner link and
// variable type resolution.
type ServiceCatalog struct {
	wsdls []*WSDL
	xsds  []*XSD
}

// NewServiceCatalog builds a catalog over the given WSDL and XSD documents.
func NewServiceCatalog(wsdls []*WSDL, xsds []*XSD) *ServiceCatalog {
	return &ServiceCatalog{wsdls: wsdls, xsds: xsds}
}

// Empty reports whether the catalog has no WSDL documents to resolve from.
func (c *ServiceCatalog) Empty() bool {
	return c == nil || len(c.wsdls) == 0
}

// HasSchemas reports whether any XSD documents were loaded.
func (c *ServiceCatalog) HasSchemas() bool {
	return c != nil && len(c.xsds) > 0
}

// ResolveSchemaRef looks up a QName referencing a top-level schema element
// or type and reports what it resolves to: "element", "complexType" or
// "simpleType". Matching is by local name, like ResolveRole.
func (c *ServiceCatalog) ResolveSchemaRef(ref string) (kind string, ok bool) {
	if c == nil {
		return "", false
	}
	local := localName(ref)
	for _, xsd := range c.xsds {
		for _, name := range xsd.Elements {
			if name == local {
				return "element", true
			}
		}
		for _, name := range xsd.ComplexTypes {
			if name == local {
				return "complexType", true
			}
		}
		for _, name := range xsd.SimpleTypes {
			if name == local {
				return "simpleType", true
			}
		}
	}
	return "", false
}

// ResolveRole finds the port type bound to a partner link type role and the
// operation names that port type offers. QName prefixes on the inputs are
// ignored; matching is by local name.
func (c *ServiceCatalog) ResolveRole(partnerLinkType, role string) (portType string, operations []string, ok bool) {
	if c == nil {
		return "", nil, false
	}
	pltLocal := localName(partnerLinkType)
	for _, wsdl := range c.wsdls {
		for _, plt := range wsdl.PartnerLinkTypes {
			if plt.Name != pltLocal {
				continue
			}
			for _, r := range plt.Roles {
				if role != "" && r.Name != role {
					continue
				}
				portType = r.PortType
				operations = c.OperationsOf(portType)
				return portType, operations, true
			}
		}
	}
	return "", nil, false
}

// OperationsOf returns the operation names of the named port type.
func (c *ServiceCatalog) OperationsOf(portType string) []string {
	local := localName(portType)
	for _, wsdl := range c.wsdls {
		for _, pt := range wsdl.PortTypes {
			if pt.Name != local {
				continue
			}
			var names []string
			for _, op := range pt.Operations {
				names = append(names, op.Name)
			}
			return names
		}
	}
	return nil
}

// HasOperation reports whether any known port type declares the operation.
func (c *ServiceCatalog) HasOperation(portType, operation string) bool {
	for _, name := range c.OperationsOf(portType) {
		if name == operation {
			return true
		}
	}
	return false
}

func localName(qname string) string {
	if idx := strings.LastIndex(qname, ":"); idx >= 0 {
		return qname[idx+1:]
	}
	return qname
}
