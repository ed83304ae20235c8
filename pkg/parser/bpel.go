package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/bpelmig/bpelmig/pkg/bpel"
	"github.com/bpelmig/bpelmig/pkg/logger"
)

var bpelLog = logger.New("parser:bpel")

// Namespaces recognized on BPEL process documents.
const (
	NamespaceBPEL20Executable = "http://docs.oasis-open.org/wsbpel/2.0/process/executable"
	NamespaceBPEL20Abstract   = "http://docs.oasis-open.org/wsbpel/2.0/process/abstract"
	NamespaceBPEL11           = "http://schemas.xmlsoap.org/ws/2003/03/business-process/"
	NamespaceOracleExtension  = "http://schemas.oracle.com/bpel/extension"
	NamespaceBPEL4People      = "http://docs.oasis-open.org/ns/bpel4people/bpel4people/200803"
)

// bpelNamespaces maps recognized process namespaces to the language version.
var bpelNamespaces = map[string]string{
	NamespaceBPEL20Executable: "2.0",
	NamespaceBPEL20Abstract:   "2.0",
	NamespaceBPEL11:           "1.1",
}

// ParseProcessFile reads and parses a .bpel document from disk.
func ParseProcessFile(path string) (*bpel.Process, error) {
	bpelLog.Printf("Parsing process file: %s", path)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read process file: %w", err)
	}
	process, err := ParseProcess(content, path)
	if err != nil {
		return nil, err
	}
	return process, nil
}

// ParseProcess parses BPEL document content into the normalized
// representation. sourceFile is recorded on the result and used in
// diagnostics.
func ParseProcess(content []byte, sourceFile string) (*bpel.Process, error) {
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

	if root.name.Local != "process" {
		return nil, &ParseError{
			File:    sourceFile,
			Line:    root.pos.Line,
			Column:  root.pos.Column,
			Message: fmt.Sprintf("expected <process> root element, found <%s>", root.name.Local),
			Content: string(content),
		}
	}
	version, ok := bpelNamespaces[root.name.Space]
	if !ok {
		return nil, &ParseError{
			File:    sourceFile,
			Line:    root.pos.Line,
			Column:  root.pos.Column,
			Message: fmt.Sprintf("unrecognized process namespace %q", root.name.Space),
			Content: string(content),
		}
	}

	hash := sha256.Sum256(content)
	process := &bpel.Process{
		Name:            root.attr("name"),
		TargetNamespace: root.attr("targetNamespace"),
		Version:         version,
		SourceFile:      sourceFile,
		SourceHash:      hex.EncodeToString(hash[:]),
	}

	if doc := root.child("documentation"); doc != nil {
		process.Documentation = doc.innerText()
	}
	if pls := root.child("partnerLinks"); pls != nil {
		process.PartnerLinks = parsePartnerLinks(pls)
	}
	if vars := root.child("variables"); vars != nil {
		process.Variables = parseVariables(vars, "")
	}
	if sets := root.child("correlationSets"); sets != nil {
		process.CorrelationSets = parseCorrelationSets(sets, "")
	}
	if fh := root.child("faultHandlers"); fh != nil {
		process.FaultHandlers = parseFaultHandlers(fh, "")
	}
	if ch := root.child("compensationHandler"); ch != nil {
		process.CompensationHandler = firstActivity(ch)
	}
	if eh := root.child("eventHandlers"); eh != nil {
		process.EventHandlers = parseEventHandlers(eh)
	}
	process.Activity = firstActivity(root)

	bpelLog.Printf("Parsed process %s: version=%s, partnerLinks=%d, variables=%d",
		process.Name, process.Version, len(process.PartnerLinks), len(process.Variables))
	return process, nil
}

func parsePartnerLinks(el *element) []bpel.PartnerLink {
	var out []bpel.PartnerLink
	for _, pl := range el.childrenNamed("partnerLink") {
		out = append(out, bpel.PartnerLink{
			Name:            pl.attr("name"),
			PartnerLinkType: pl.attr("partnerLinkType"),
			MyRole:          pl.attr("myRole"),
			PartnerRole:     pl.attr("partnerRole"),
			Pos:             pl.pos,
		})
	}
	return out
}

func parseVariables(el *element, scope string) []bpel.Variable {
	var out []bpel.Variable
	for _, v := range el.childrenNamed("variable") {
		out = append(out, bpel.Variable{
			Name:        v.attr("name"),
			MessageType: v.attr("messageType"),
			Element:     v.attr("element"),
			Type:        v.attr("type"),
			Scope:       scope,
			Pos:         v.pos,
		})
	}
	return out
}

func parseCorrelationSets(el *element, scope string) []bpel.CorrelationSet {
	var out []bpel.CorrelationSet
	for _, cs := range el.childrenNamed("correlationSet") {
		set := bpel.CorrelationSet{
			Name:  cs.attr("name"),
			Scope: scope,
			Pos:   cs.pos,
		}
		if props := cs.attr("properties"); props != "" {
			set.Properties = splitQNameList(props)
		}
		out = append(out, set)
	}
	return out
}

func parseFaultHandlers(el *element, scope string) []bpel.FaultHandler {
	var out []bpel.FaultHandler
	for _, c := range el.childrenNamed("catch") {
		out = append(out, bpel.FaultHandler{
			FaultName:     c.attr("faultName"),
			FaultVariable: c.attr("faultVariable"),
			Scope:         scope,
			Handler:       firstActivity(c),
		})
	}
	if all := el.child("catchAll"); all != nil {
		out = append(out, bpel.FaultHandler{
			CatchAll: true,
			Scope:    scope,
			Handler:  firstActivity(all),
		})
	}
	return out
}

func parseEventHandlers(el *element) []bpel.EventHandler {
	var out []bpel.EventHandler
	for _, ev := range el.childrenNamed("onEvent") {
		out = append(out, bpel.EventHandler{
			Kind:      "onEvent",
			Operation: ev.attr("operation"),
			Handler:   firstActivity(ev),
		})
	}
	// BPEL4WS 1.1 spells message events onMessage inside eventHandlers.
	for _, ev := range el.childrenNamed("onMessage") {
		out = append(out, bpel.EventHandler{
			Kind:      "onEvent",
			Operation: ev.attr("operation"),
			Handler:   firstActivity(ev),
		})
	}
	for _, ev := range el.childrenNamed("onAlarm") {
		handler := bpel.EventHandler{Kind: "onAlarm", Handler: firstActivity(ev)}
		handler.For, handler.Until = alarmExpressions(ev)
		if repeat := ev.child("repeatEvery"); repeat != nil {
			handler.Repeat = repeat.innerText()
		}
		out = append(out, handler)
	}
	return out
}

// alarmExpressions extracts the for/until expressions of a wait or alarm,
// accepting both the 2.0 child-element and 1.1 attribute spellings.
func alarmExpressions(el *element) (forExpr, untilExpr string) {
	if f := el.child("for"); f != nil {
		forExpr = f.innerText()
	} else {
		forExpr = el.attr("for")
	}
	if u := el.child("until"); u != nil {
		untilExpr = u.innerText()
	} else {
		untilExpr = el.attr("until")
	}
	return forExpr, untilExpr
}

// condition extracts the boolean expression of an activity, verbatim,
// together with any expressionLanguage override.
func condition(el *element) (expr, language string) {
	if c := el.child("condition"); c != nil {
		return c.innerText(), c.attr("expressionLanguage")
	}
	return el.attr("condition"), el.attr("expressionLanguage")
}

func splitQNameList(s string) []string {
	return strings.Fields(s)
}
