package bpel

// ActivityKind identifies a BPEL activity element. BPEL4WS 1.1 spellings are
// normalized to their WS-BPEL 2.0 equivalents during parsing (switch becomes
// if, terminate becomes exit) with the original spelling kept in SourceTag.
type ActivityKind string

const (
	KindSequence    ActivityKind = "sequence"
	KindFlow        ActivityKind = "flow"
	KindIf          ActivityKind = "if"
	KindWhile       ActivityKind = "while"
	KindRepeatUntil ActivityKind = "repeatUntil"
	KindForEach     ActivityKind = "forEach"
	KindPick        ActivityKind = "pick"
	KindScope       ActivityKind = "scope"
	KindInvoke      ActivityKind = "invoke"
	KindReceive     ActivityKind = "receive"
	KindReply       ActivityKind = "reply"
	KindAssign      ActivityKind = "assign"
	KindThrow       ActivityKind = "throw"
	KindRethrow     ActivityKind = "rethrow"
	KindWait        ActivityKind = "wait"
	KindEmpty       ActivityKind = "empty"
	KindExit        ActivityKind = "exit"
	KindCompensate  ActivityKind = "compensate"
	KindValidate    ActivityKind = "validate"
	KindHumanTask   ActivityKind = "humanTask"
	KindExtension   ActivityKind = "extension"
)

// Activity is one node of the process activity tree. Only the fields
// relevant to the node's Kind are populated. The tree preserves document
// order exactly.
type Activity struct {
	Kind ActivityKind `json:"kind"`
	Name string       `json:"name,omitempty"`
	// SourceTag is the element name as written in the document, including
	// its namespace prefix for extension activities.
	SourceTag string   `json:"sourceTag,omitempty"`
	Pos       Position `json:"-"`

	// Messaging activities.
	PartnerLink    string `json:"partnerLink,omitempty"`
	PortType       string `json:"portType,omitempty"`
	Operation      string `json:"operation,omitempty"`
	InputVariable  string `json:"inputVariable,omitempty"`
	OutputVariable string `json:"outputVariable,omitempty"`
	Variable       string `json:"variable,omitempty"`
	CreateInstance bool   `json:"createInstance,omitempty"`

	// Correlations referenced by this activity.
	Correlations []CorrelationRef `json:"correlations,omitempty"`

	// Condition carries the boolean expression of if branches, while and
	// repeatUntil loops, and link transition conditions. Always verbatim.
	Condition string `json:"condition,omitempty"`
	// ExpressionLanguage is recorded when the document overrides the default.
	ExpressionLanguage string `json:"expressionLanguage,omitempty"`

	// Wait and alarm expressions, verbatim.
	For   string `json:"for,omitempty"`
	Until string `json:"until,omitempty"`

	// Throw and compensate targets.
	FaultName     string `json:"faultName,omitempty"`
	FaultVariable string `json:"faultVariable,omitempty"`
	TargetScope   string `json:"targetScope,omitempty"`

	// Assign copy operations, verbatim from and to specs.
	Copies []Copy `json:"copies,omitempty"`

	// forEach counter fields, verbatim expressions.
	CounterName string `json:"counterName,omitempty"`
	StartValue  string `json:"startValue,omitempty"`
	FinalValue  string `json:"finalValue,omitempty"`
	Parallel    bool   `json:"parallel,omitempty"`

	// Branches carry the arms of if and pick activities.
	Branches []Branch `json:"branches,omitempty"`

	// Flow link declarations and this activity's link endpoints.
	Links   []Link    `json:"links,omitempty"`
	Sources []LinkRef `json:"sources,omitempty"`
	Targets []LinkRef `json:"targets,omitempty"`
	// JoinCondition is the verbatim joinCondition of a link target set.
	JoinCondition string `json:"joinCondition,omitempty"`

	// Scope-attached handlers and declarations.
	FaultHandlers       []FaultHandler   `json:"faultHandlers,omitempty"`
	CompensationHandler *Activity        `json:"compensationHandler,omitempty"`
	EventHandlers       []EventHandler   `json:"eventHandlers,omitempty"`
	Variables           []Variable       `json:"variables,omitempty"`
	CorrelationSets     []CorrelationSet `json:"correlationSets,omitempty"`

	// Children holds nested activities for structured kinds.
	Children []*Activity `json:"children,omitempty"`

	// Attributes preserves the raw attributes of extension activities whose
	// semantics the extractor does not understand.
	Attributes map[string]string `json:"attributes,omitempty"`
}

// CorrelationRef is a correlation usage on a messaging activity.
type CorrelationRef struct {
	Set      string `json:"set"`
	Initiate string `json:"initiate,omitempty"`
	Pattern  string `json:"pattern,omitempty"`
}

// Copy is a single assign copy operation, both sides verbatim.
type Copy struct {
	From string `json:"from"`
	To   string `json:"to"`
	// FromVariable and ToVariable are populated when the copy addresses
	// variables directly rather than via expressions.
	FromVariable string `json:"fromVariable,omitempty"`
	ToVariable   string `json:"toVariable,omitempty"`
}

// Branch is one arm of an if or pick activity.
type Branch struct {
	// Kind is "if", "elseif", "else", "onMessage" or "onAlarm".
	Kind      string `json:"kind"`
	Condition string `json:"condition,omitempty"`
	// onMessage fields.
	PartnerLink string `json:"partnerLink,omitempty"`
	Operation   string `json:"operation,omitempty"`
	Variable    string `json:"variable,omitempty"`
	// onAlarm expressions, verbatim.
	For   string `json:"for,omitempty"`
	Until string `json:"until,omitempty"`

	Body *Activity `json:"body,omitempty"`
	Pos  Position  `json:"-"`
}

// Link is a flow link declaration.
type Link struct {
	Name string `json:"name"`
}

// LinkRef is a source or target endpoint of a flow link on an activity.
type LinkRef struct {
	Link string `json:"link"`
	// TransitionCondition is verbatim when present.
	TransitionCondition string `json:"transitionCondition,omitempty"`
}

// Walk visits a and every activity nested beneath it in document order,
// including branch bodies and attached handlers. The walk stops when fn
// returns false.
func Walk(a *Activity, fn func(*Activity) bool) bool {
	if a == nil {
		return true
	}
	if !fn(a) {
		return false
	}
	for _, child := range a.Children {
		if !Walk(child, fn) {
			return false
		}
	}
	for i := range a.Branches {
		if !Walk(a.Branches[i].Body, fn) {
			return false
		}
	}
	for i := range a.FaultHandlers {
		if !Walk(a.FaultHandlers[i].Handler, fn) {
			return false
		}
	}
	if !Walk(a.CompensationHandler, fn) {
		return false
	}
	for i := range a.EventHandlers {
		if !Walk(a.EventHandlers[i].Handler, fn) {
			return false
		}
	}
	return true
}

// Activities returns every activity of the process in document order,
// including handler bodies.
func (p *Process) Activities() []*Activity {
	var out []*Activity
	collect := func(a *Activity) bool {
		out = append(out, a)
		return true
	}
	Walk(p.Activity, collect)
	for i := range p.FaultHandlers {
		Walk(p.FaultHandlers[i].Handler, collect)
	}
	Walk(p.CompensationHandler, collect)
	for i := range p.EventHandlers {
		Walk(p.EventHandlers[i].Handler, collect)
	}
	return out
}
