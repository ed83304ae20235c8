// Package bpel defines the normalized intermediate representation that BPEL
// process documents are parsed into. The IR preserves everything needed to
// write a requirements document: partner links, variables, correlation sets,
// the full activity tree in document order, fault and compensation handlers,
// and verbatim copies of every XPath or condition expression found in the
// source.
package bpel

// Process is the root of the IR for a single .bpel document.
type Process struct {
	Name            string `json:"name"`
	TargetNamespace string `json:"targetNamespace"`
	// Version distinguishes WS-BPEL 2.0 from BPEL4WS 1.1 documents, detected
	// from the process element's namespace.
	Version       string `json:"version"`
	SourceFile    string `json:"sourceFile"`
	Documentation string `json:"documentation,omitempty"`
	// SourceHash is the hex SHA-256 of the source document, recorded so a
	// requirements document can be traced back to the exact input revision.
	SourceHash string `json:"sourceHash"`

	PartnerLinks    []PartnerLink    `json:"partnerLinks,omitempty"`
	Variables       []Variable       `json:"variables,omitempty"`
	CorrelationSets []CorrelationSet `json:"correlationSets,omitempty"`

	// Activity is the process body in document order.
	Activity *Activity `json:"activity,omitempty"`

	FaultHandlers       []FaultHandler `json:"faultHandlers,omitempty"`
	CompensationHandler *Activity      `json:"compensationHandler,omitempty"`
	EventHandlers       []EventHandler `json:"eventHandlers,omitempty"`

	// Gaps collects ambiguities found during extraction. Parsing never
	// guesses at unclear business logic; it records a gap instead.
	Gaps []Gap `json:"gaps,omitempty"`
}

// PartnerLink is a declared conversation partner. Role port types and
// operations are resolved when the sibling WSDL documents are available.
type PartnerLink struct {
	Name            string   `json:"name"`
	PartnerLinkType string   `json:"partnerLinkType"`
	MyRole          string   `json:"myRole,omitempty"`
	PartnerRole     string   `json:"partnerRole,omitempty"`
	PortType        string   `json:"portType,omitempty"`
	Operations      []string `json:"operations,omitempty"`
	Pos             Position `json:"-"`
}

// Variable is a process-scoped or scope-scoped variable declaration.
type Variable struct {
	Name        string   `json:"name"`
	MessageType string   `json:"messageType,omitempty"`
	Element     string   `json:"element,omitempty"`
	Type        string   `json:"type,omitempty"`
	Scope       string   `json:"scope,omitempty"` // empty means process scope
	Pos         Position `json:"-"`
}

// CorrelationSet routes messages to a running instance via shared properties.
type CorrelationSet struct {
	Name       string   `json:"name"`
	Properties []string `json:"properties,omitempty"`
	Scope      string   `json:"scope,omitempty"`
	Pos        Position `json:"-"`
}

// FaultHandler is a catch or catchAll block together with its handler body.
type FaultHandler struct {
	FaultName     string    `json:"faultName,omitempty"` // empty for catchAll
	FaultVariable string    `json:"faultVariable,omitempty"`
	CatchAll      bool      `json:"catchAll,omitempty"`
	Scope         string    `json:"scope,omitempty"`
	Handler       *Activity `json:"handler,omitempty"`
}

// EventHandler is an onEvent or onAlarm handler attached to the process or a
// scope.
type EventHandler struct {
	Kind      string `json:"kind"` // "onEvent" or "onAlarm"
	Operation string `json:"operation,omitempty"`
	// For and Until carry the alarm expressions verbatim.
	For     string    `json:"for,omitempty"`
	Until   string    `json:"until,omitempty"`
	Repeat  string    `json:"repeatEvery,omitempty"`
	Handler *Activity `json:"handler,omitempty"`
}

// Position is a line/column location in the source document.
type Position struct {
	Line   int `json:"-"`
	Column int `json:"-"`
}

// GapCategory classifies why an extraction could not be completed
// deterministically.
type GapCategory string

const (
	GapUnresolvedService GapCategory = "unresolved-service"
	GapUnresolvedType    GapCategory = "unresolved-type"
	GapOpaqueCondition   GapCategory = "opaque-condition"
	GapExpression        GapCategory = "expression-language"
	GapExtension         GapCategory = "vendor-extension"
	GapCorrelation       GapCategory = "correlation"
	GapLoopBound         GapCategory = "loop-bound"
	GapHumanTask         GapCategory = "human-task"
)

// Gap is a recorded ambiguity or assumption. Gaps are rendered as the
// "Gaps and Assumptions" table of the requirements document and never block
// extraction unless strict mode is requested.
type Gap struct {
	ID               string      `json:"id"`
	Category         GapCategory `json:"category"`
	Description      string      `json:"description"`
	Question         string      `json:"question"`
	ProposedDefault  string      `json:"proposedDefault"`
	Risk             string      `json:"risk"` // low, medium, high
	ValidationMethod string      `json:"validationMethod"`
	Location         string      `json:"location,omitempty"` // activity path in the process
}
