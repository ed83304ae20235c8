package parser

import (
	"github.com/bpelmig/bpelmig/pkg/bpel"
	"github.com/bpelmig/bpelmig/pkg/logger"
)

var activitiesLog = logger.New("parser:activities")

// activityKinds maps BPEL element names to normalized activity kinds.
// BPEL4WS 1.1 spellings map onto their 2.0 equivalents.
var activityKinds = map[string]bpel.ActivityKind{
	"sequence":        bpel.KindSequence,
	"flow":            bpel.KindFlow,
	"if":              bpel.KindIf,
	"switch":          bpel.KindIf,
	"while":           bpel.KindWhile,
	"repeatUntil":     bpel.KindRepeatUntil,
	"forEach":         bpel.KindForEach,
	"pick":            bpel.KindPick,
	"scope":           bpel.KindScope,
	"invoke":          bpel.KindInvoke,
	"receive":         bpel.KindReceive,
	"reply":           bpel.KindReply,
	"assign":          bpel.KindAssign,
	"throw":           bpel.KindThrow,
	"rethrow":         bpel.KindRethrow,
	"wait":            bpel.KindWait,
	"empty":           bpel.KindEmpty,
	"exit":            bpel.KindExit,
	"terminate":       bpel.KindExit,
	"compensate":      bpel.KindCompensate,
	"compensateScope": bpel.KindCompensate,
	"validate":        bpel.KindValidate,
}

// nonActivityChildren are structural children of process and scope elements
// that must not be treated as body activities.
var nonActivityChildren = map[string]bool{
	"partnerLinks":        true,
	"variables":           true,
	"correlationSets":     true,
	"correlations":        true,
	"faultHandlers":       true,
	"compensationHandler": true,
	"terminationHandler":  true,
	"eventHandlers":       true,
	"documentation":       true,
	"import":              true,
	"links":               true,
	"condition":           true,
	"targets":             true,
	"sources":             true,
	"target":              true,
	"source":              true,
	"for":                 true,
	"until":               true,
	"repeatEvery":         true,
	"startCounterValue":   true,
	"finalCounterValue":   true,
	"completionCondition": true,
	"joinCondition":       true,
	"elseif":              true,
	"else":                true,
	"case":                true,
	"otherwise":           true,
	"onMessage":           true,
	"onAlarm":             true,
	"onEvent":             true,
	"copy":                true,
	"catch":               true,
	"catchAll":            true,
	"extensions":          true,
}

// firstActivity returns the first activity child of el converted to the IR,
// or nil when el has no activity body.
func firstActivity(el *element) *bpel.Activity {
	for _, child := range el.children {
		if isActivityElement(child) {
			return convertActivity(child)
		}
	}
	return nil
}

// childActivities converts every activity child of el in document order.
func childActivities(el *element) []*bpel.Activity {
	var out []*bpel.Activity
	for _, child := range el.children {
		if isActivityElement(child) {
			out = append(out, convertActivity(child))
		}
	}
	return out
}

func isActivityElement(el *element) bool {
	if nonActivityChildren[el.name.Local] {
		return false
	}
	if _, ok := activityKinds[el.name.Local]; ok {
		return true
	}
	// WS-BPEL 2.0 wraps vendor activities in extensionActivity.
	if el.name.Local == "extensionActivity" {
		return true
	}
	// Anything else in activity position is a human task or vendor
	// extension activity and is preserved as such.
	return el.name.Space != "" && !isBPELNamespace(el.name.Space)
}

func isBPELNamespace(space string) bool {
	_, ok := bpelNamespaces[space]
	return ok
}

// convertActivity turns one raw element into an IR activity node.
func convertActivity(el *element) *bpel.Activity {
	if el.name.Local == "extensionActivity" {
		for _, child := range el.children {
			return convertForeignActivity(child)
		}
		return &bpel.Activity{Kind: bpel.KindExtension, SourceTag: el.name.Local, Pos: el.pos}
	}
	kind, known := activityKinds[el.name.Local]
	if !known {
		return convertForeignActivity(el)
	}

	a := &bpel.Activity{
		Kind:      kind,
		Name:      el.attr("name"),
		SourceTag: el.name.Local,
		Pos:       el.pos,
	}
	convertLinkEndpoints(el, a)

	switch kind {
	case bpel.KindSequence:
		a.Children = childActivities(el)
	case bpel.KindFlow:
		if links := el.child("links"); links != nil {
			for _, l := range links.childrenNamed("link") {
				a.Links = append(a.Links, bpel.Link{Name: l.attr("name")})
			}
		}
		a.Children = childActivities(el)
	case bpel.KindIf:
		convertBranching(el, a)
	case bpel.KindWhile, bpel.KindRepeatUntil:
		a.Condition, a.ExpressionLanguage = condition(el)
		a.Children = childActivities(el)
	case bpel.KindForEach:
		a.CounterName = el.attr("counterName")
		a.Parallel = el.attr("parallel") == "yes"
		if start := el.child("startCounterValue"); start != nil {
			a.StartValue = start.innerText()
		}
		if final := el.child("finalCounterValue"); final != nil {
			a.FinalValue = final.innerText()
		}
		a.Children = childActivities(el)
	case bpel.KindPick:
		a.CreateInstance = el.attr("createInstance") == "yes"
		convertPickBranches(el, a)
	case bpel.KindScope:
		convertScope(el, a)
	case bpel.KindInvoke, bpel.KindReceive, bpel.KindReply:
		a.PartnerLink = el.attr("partnerLink")
		a.PortType = el.attr("portType")
		a.Operation = el.attr("operation")
		a.InputVariable = el.attr("inputVariable")
		a.OutputVariable = el.attr("outputVariable")
		a.Variable = el.attr("variable")
		a.FaultName = el.attr("faultName")
		a.CreateInstance = el.attr("createInstance") == "yes"
		convertCorrelations(el, a)
		// An inline invoke fault handler is legal in 2.0.
		for _, c := range el.childrenNamed("catch") {
			a.FaultHandlers = append(a.FaultHandlers, bpel.FaultHandler{
				FaultName:     c.attr("faultName"),
				FaultVariable: c.attr("faultVariable"),
				Handler:       firstActivity(c),
			})
		}
	case bpel.KindAssign:
		for _, cp := range el.childrenNamed("copy") {
			a.Copies = append(a.Copies, convertCopy(cp))
		}
	case bpel.KindThrow:
		a.FaultName = el.attr("faultName")
		a.FaultVariable = el.attr("faultVariable")
	case bpel.KindWait:
		a.For, a.Until = alarmExpressions(el)
	case bpel.KindCompensate:
		a.TargetScope = el.attr("scope")
		if a.TargetScope == "" {
			a.TargetScope = el.attr("target")
		}
	case bpel.KindValidate:
		a.Variable = el.attr("variables")
	}

	return a
}

// convertForeignActivity preserves human-task and vendor extension elements
// without interpreting them. Their attributes are carried so the
// requirements document can describe what the source contained.
func convertForeignActivity(el *element) *bpel.Activity {
	kind := bpel.KindExtension
	if el.name.Space == NamespaceBPEL4People || el.name.Local == "peopleActivity" || el.name.Local == "humanTask" {
		kind = bpel.KindHumanTask
	}
	activitiesLog.Printf("Preserving foreign activity <%s> in namespace %s as %s", el.name.Local, el.name.Space, kind)

	a := &bpel.Activity{
		Kind:      kind,
		Name:      el.attr("name"),
		SourceTag: el.name.Local,
		Pos:       el.pos,
		Attributes: map[string]string{
			"xmlns": el.name.Space,
		},
	}
	for _, attr := range el.attrs {
		a.Attributes[attr.Name.Local] = attr.Value
	}
	return a
}

// convertBranching handles both the 2.0 if/elseif/else form and the 1.1
// switch/case/otherwise form, normalizing to if branches.
func convertBranching(el *element, a *bpel.Activity) {
	if el.name.Local == "switch" {
		for i, c := range el.childrenNamed("case") {
			kind := "elseif"
			if i == 0 {
				kind = "if"
			}
			cond, _ := condition(c)
			a.Branches = append(a.Branches, bpel.Branch{
				Kind:      kind,
				Condition: cond,
				Body:      firstActivity(c),
				Pos:       c.pos,
			})
		}
		if otherwise := el.child("otherwise"); otherwise != nil {
			a.Branches = append(a.Branches, bpel.Branch{
				Kind: "else",
				Body: firstActivity(otherwise),
				Pos:  otherwise.pos,
			})
		}
		return
	}

	cond, lang := condition(el)
	a.ExpressionLanguage = lang
	a.Branches = append(a.Branches, bpel.Branch{
		Kind:      "if",
		Condition: cond,
		Body:      firstActivity(el),
		Pos:       el.pos,
	})
	for _, elseif := range el.childrenNamed("elseif") {
		cond, _ := condition(elseif)
		a.Branches = append(a.Branches, bpel.Branch{
			Kind:      "elseif",
			Condition: cond,
			Body:      firstActivity(elseif),
			Pos:       elseif.pos,
		})
	}
	if elseEl := el.child("else"); elseEl != nil {
		a.Branches = append(a.Branches, bpel.Branch{
			Kind: "else",
			Body: firstActivity(elseEl),
			Pos:  elseEl.pos,
		})
	}
}

func convertPickBranches(el *element, a *bpel.Activity) {
	for _, om := range el.childrenNamed("onMessage") {
		a.Branches = append(a.Branches, bpel.Branch{
			Kind:        "onMessage",
			PartnerLink: om.attr("partnerLink"),
			Operation:   om.attr("operation"),
			Variable:    om.attr("variable"),
			Body:        firstActivity(om),
			Pos:         om.pos,
		})
	}
	for _, oa := range el.childrenNamed("onAlarm") {
		branch := bpel.Branch{Kind: "onAlarm", Body: firstActivity(oa), Pos: oa.pos}
		branch.For, branch.Until = alarmExpressions(oa)
		a.Branches = append(a.Branches, branch)
	}
}

func convertScope(el *element, a *bpel.Activity) {
	if vars := el.child("variables"); vars != nil {
		a.Variables = parseVariables(vars, a.Name)
	}
	if sets := el.child("correlationSets"); sets != nil {
		a.CorrelationSets = parseCorrelationSets(sets, a.Name)
	}
	if fh := el.child("faultHandlers"); fh != nil {
		a.FaultHandlers = parseFaultHandlers(fh, a.Name)
	}
	if ch := el.child("compensationHandler"); ch != nil {
		a.CompensationHandler = firstActivity(ch)
	}
	if eh := el.child("eventHandlers"); eh != nil {
		a.EventHandlers = parseEventHandlers(eh)
	}
	a.Children = childActivities(el)
}

func convertCorrelations(el *element, a *bpel.Activity) {
	correlations := el.child("correlations")
	if correlations == nil {
		return
	}
	for _, c := range correlations.childrenNamed("correlation") {
		a.Correlations = append(a.Correlations, bpel.CorrelationRef{
			Set:      c.attr("set"),
			Initiate: c.attr("initiate"),
			Pattern:  c.attr("pattern"),
		})
	}
}

// convertCopy extracts one assign copy, keeping both sides verbatim. The
// from side may be an expression (2.0 element text or 1.1 attribute), a
// literal, or a variable/part reference; the to side may be an expression or
// a variable/part reference.
func convertCopy(el *element) bpel.Copy {
	cp := bpel.Copy{}
	if from := el.child("from"); from != nil {
		cp.From, cp.FromVariable = copySide(from)
	}
	if to := el.child("to"); to != nil {
		cp.To, cp.ToVariable = copySide(to)
	}
	return cp
}

func copySide(el *element) (spec, variable string) {
	variable = el.attr("variable")
	if expr := el.attr("expression"); expr != "" {
		return expr, variable
	}
	if literal := el.child("literal"); literal != nil {
		return literal.innerText(), variable
	}
	if query := el.child("query"); query != nil {
		return query.innerText(), variable
	}
	if query := el.attr("query"); query != "" {
		return query, variable
	}
	return el.innerText(), variable
}

// convertLinkEndpoints records flow link sources and targets, accepting both
// the 2.0 wrapper elements and the 1.1 direct children.
func convertLinkEndpoints(el *element, a *bpel.Activity) {
	appendSource := func(s *element) {
		ref := bpel.LinkRef{Link: s.attr("linkName")}
		if tc := s.child("transitionCondition"); tc != nil {
			ref.TransitionCondition = tc.innerText()
		} else {
			ref.TransitionCondition = s.attr("transitionCondition")
		}
		a.Sources = append(a.Sources, ref)
	}
	appendTarget := func(t *element) {
		a.Targets = append(a.Targets, bpel.LinkRef{Link: t.attr("linkName")})
	}

	if sources := el.child("sources"); sources != nil {
		for _, s := range sources.childrenNamed("source") {
			appendSource(s)
		}
	}
	if targets := el.child("targets"); targets != nil {
		if jc := targets.child("joinCondition"); jc != nil {
			a.JoinCondition = jc.innerText()
		}
		for _, t := range targets.childrenNamed("target") {
			appendTarget(t)
		}
	}
	for _, s := range el.childrenNamed("source") {
		appendSource(s)
	}
	for _, t := range el.childrenNamed("target") {
		appendTarget(t)
	}
	if jc := el.attr("joinCondition"); jc != "" {
		a.JoinCondition = jc
	}
}
