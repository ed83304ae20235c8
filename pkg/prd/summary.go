// Package prd turns parsed BPEL processes into requirements artifacts: a
// markdown requirements document and a machine-readable JSON summary that is
// validated against an embedded schema before it is written.
package prd

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bpelmig/bpelmig/pkg/bpel"
	"github.com/bpelmig/bpelmig/pkg/logger"
	"github.com/bpelmig/bpelmig/pkg/parser"
)

var summaryLog = logger.New("prd:summary")

// Summary is the JSON artifact written to summaries/<process>.json. Its
// shape is pinned by the embedded schema.
type Summary struct {
	Process       ProcessMeta           `json:"process"`
	PartnerLinks  []bpel.PartnerLink    `json:"partnerLinks,omitempty"`
	Variables     []bpel.Variable       `json:"variables,omitempty"`
	Decisions     []Decision            `json:"decisions,omitempty"`
	Loops         []Loop                `json:"loops,omitempty"`
	Faults        []Fault               `json:"faults,omitempty"`
	Compensations []Compensation        `json:"compensations,omitempty"`
	Correlations  []bpel.CorrelationSet `json:"correlations,omitempty"`
	HumanTasks    []HumanTask           `json:"humanTasks,omitempty"`
	Gaps          []bpel.Gap            `json:"gaps,omitempty"`
}

// ProcessMeta is the metadata block of a summary.
type ProcessMeta struct {
	Name            string `json:"name"`
	TargetNamespace string `json:"targetNamespace"`
	Version         string `json:"version"`
	SourceFile      string `json:"sourceFile"`
	SourceHash      string `json:"sourceHash"`
	ActivityCount   int    `json:"activityCount"`
	GeneratedAt     string `json:"generatedAt"`
	// RunID ties all artifacts of one compilation run together.
	RunID string `json:"runId"`
}

// Decision captures a branching point: an if, a pick, or a guarded flow
// link. Conditions are verbatim source text.
type Decision struct {
	Path     string           `json:"path"`
	Kind     string           `json:"kind"`
	Branches []DecisionBranch `json:"branches,omitempty"`
}

// DecisionBranch is one arm of a decision.
type DecisionBranch struct {
	Label     string `json:"label"`
	Condition string `json:"condition,omitempty"`
}

// Loop captures an iteration construct with its verbatim bounds.
type Loop struct {
	Path        string `json:"path"`
	Kind        string `json:"kind"`
	Condition   string `json:"condition,omitempty"`
	CounterName string `json:"counterName,omitempty"`
	StartValue  string `json:"startValue,omitempty"`
	FinalValue  string `json:"finalValue,omitempty"`
	Parallel    bool   `json:"parallel,omitempty"`
}

// Fault is a fault handler attachment.
type Fault struct {
	Scope         string `json:"scope,omitempty"` // empty means process level
	FaultName     string `json:"faultName,omitempty"`
	FaultVariable string `json:"faultVariable,omitempty"`
	CatchAll      bool   `json:"catchAll,omitempty"`
	Handler       string `json:"handler,omitempty"` // summary of the handler body
}

// Compensation is a compensation handler attachment.
type Compensation struct {
	Scope   string `json:"scope,omitempty"`
	Handler string `json:"handler,omitempty"`
}

// HumanTask is a human workflow step found in the source.
type HumanTask struct {
	Name       string            `json:"name,omitempty"`
	SourceTag  string            `json:"sourceTag"`
	Path       string            `json:"path"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// BuildSummary assembles the summary for a parsed process. The catalog may
// be empty; unresolved partner links then surface as gaps.
func BuildSummary(process *bpel.Process, catalog *parser.ServiceCatalog, runID string) *Summary {
	if runID == "" {
		runID = uuid.NewString()
	}

	summary := &Summary{
		Process: ProcessMeta{
			Name:            process.Name,
			TargetNamespace: process.TargetNamespace,
			Version:         process.Version,
			SourceFile:      process.SourceFile,
			SourceHash:      process.SourceHash,
			ActivityCount:   len(process.Activities()),
			GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
			RunID:           runID,
		},
		PartnerLinks: resolvePartnerLinks(process, catalog),
		Variables:    append([]bpel.Variable(nil), process.Variables...),
		Correlations: append([]bpel.CorrelationSet(nil), process.CorrelationSets...),
	}

	walkWithPath(process, func(path string, a *bpel.Activity) {
		switch a.Kind {
		case bpel.KindIf, bpel.KindPick:
			// A branchless switch is parseable but carries no decision.
			if decision := buildDecision(path, a); len(decision.Branches) > 0 {
				summary.Decisions = append(summary.Decisions, decision)
			}
		case bpel.KindWhile, bpel.KindRepeatUntil, bpel.KindForEach:
			summary.Loops = append(summary.Loops, Loop{
				Path:        path,
				Kind:        string(a.Kind),
				Condition:   a.Condition,
				CounterName: a.CounterName,
				StartValue:  a.StartValue,
				FinalValue:  a.FinalValue,
				Parallel:    a.Parallel,
			})
		case bpel.KindHumanTask:
			summary.HumanTasks = append(summary.HumanTasks, HumanTask{
				Name:       a.Name,
				SourceTag:  a.SourceTag,
				Path:       path,
				Attributes: a.Attributes,
			})
		case bpel.KindScope:
			summary.Variables = append(summary.Variables, a.Variables...)
			summary.Correlations = append(summary.Correlations, a.CorrelationSets...)
			for _, fh := range a.FaultHandlers {
				summary.Faults = append(summary.Faults, buildFault(fh))
			}
			if a.CompensationHandler != nil {
				summary.Compensations = append(summary.Compensations, Compensation{
					Scope:   a.Name,
					Handler: describeActivity(a.CompensationHandler),
				})
			}
		case bpel.KindFlow:
			if decision, ok := buildLinkDecision(path, a); ok {
				summary.Decisions = append(summary.Decisions, decision)
			}
		}
	})

	for _, fh := range process.FaultHandlers {
		summary.Faults = append(summary.Faults, buildFault(fh))
	}
	if process.CompensationHandler != nil {
		summary.Compensations = append(summary.Compensations, Compensation{
			Handler: describeActivity(process.CompensationHandler),
		})
	}

	summaryLog.Printf("Built summary for %s: decisions=%d, loops=%d, faults=%d, humanTasks=%d",
		process.Name, len(summary.Decisions), len(summary.Loops), len(summary.Faults), len(summary.HumanTasks))
	return summary
}

// resolvePartnerLinks enriches declared partner links with port types and
// operations from the WSDL catalog when available.
func resolvePartnerLinks(process *bpel.Process, catalog *parser.ServiceCatalog) []bpel.PartnerLink {
	links := append([]bpel.PartnerLink(nil), process.PartnerLinks...)
	if catalog.Empty() {
		return links
	}
	for i := range links {
		role := links[i].PartnerRole
		if role == "" {
			role = links[i].MyRole
		}
		if portType, operations, ok := catalog.ResolveRole(links[i].PartnerLinkType, role); ok {
			links[i].PortType = portType
			links[i].Operations = operations
		}
	}
	return links
}

func buildDecision(path string, a *bpel.Activity) Decision {
	decision := Decision{Path: path, Kind: string(a.Kind)}
	for _, branch := range a.Branches {
		label := branch.Kind
		if branch.Kind == "onMessage" {
			label = fmt.Sprintf("onMessage %s.%s", branch.PartnerLink, branch.Operation)
		}
		condition := branch.Condition
		if branch.Kind == "onAlarm" {
			condition = branch.For
			if condition == "" {
				condition = branch.Until
			}
		}
		decision.Branches = append(decision.Branches, DecisionBranch{Label: label, Condition: condition})
	}
	return decision
}

// buildLinkDecision reports guarded flow links as a decision when any link
// source carries a transition condition. Nested flows are not descended
// into: each flow reports the guarded links of its own subtree exactly once.
func buildLinkDecision(path string, flow *bpel.Activity) (Decision, bool) {
	decision := Decision{Path: path, Kind: "links"}
	var collect func(a *bpel.Activity)
	collect = func(a *bpel.Activity) {
		if a == nil || (a != flow && a.Kind == bpel.KindFlow) {
			return
		}
		for _, src := range a.Sources {
			if src.TransitionCondition != "" {
				decision.Branches = append(decision.Branches, DecisionBranch{
					Label:     src.Link,
					Condition: src.TransitionCondition,
				})
			}
		}
		for _, child := range a.Children {
			collect(child)
		}
		for i := range a.Branches {
			collect(a.Branches[i].Body)
		}
		for i := range a.FaultHandlers {
			collect(a.FaultHandlers[i].Handler)
		}
		collect(a.CompensationHandler)
		for i := range a.EventHandlers {
			collect(a.EventHandlers[i].Handler)
		}
	}
	collect(flow)
	return decision, len(decision.Branches) > 0
}

func buildFault(fh bpel.FaultHandler) Fault {
	return Fault{
		Scope:         fh.Scope,
		FaultName:     fh.FaultName,
		FaultVariable: fh.FaultVariable,
		CatchAll:      fh.CatchAll,
		Handler:       describeActivity(fh.Handler),
	}
}

// describeActivity renders a one-line description of a handler body.
func describeActivity(a *bpel.Activity) string {
	if a == nil {
		return ""
	}
	if a.Name != "" {
		return fmt.Sprintf("%s %q", a.Kind, a.Name)
	}
	return string(a.Kind)
}

// walkWithPath visits every activity with a stable slash-separated path that
// names each step by kind and, when present, name.
func walkWithPath(process *bpel.Process, fn func(path string, a *bpel.Activity)) {
	var visit func(prefix string, a *bpel.Activity)
	visit = func(prefix string, a *bpel.Activity) {
		if a == nil {
			return
		}
		segment := string(a.Kind)
		if a.Name != "" {
			segment = fmt.Sprintf("%s:%s", a.Kind, a.Name)
		}
		path := prefix + "/" + segment
		fn(path, a)

		for _, child := range a.Children {
			visit(path, child)
		}
		for i := range a.Branches {
			branchPath := fmt.Sprintf("%s/%s[%d]", path, a.Branches[i].Kind, i)
			if a.Branches[i].Body != nil {
				visit(branchPath, a.Branches[i].Body)
			}
		}
		for i := range a.FaultHandlers {
			visit(path+"/catch", a.FaultHandlers[i].Handler)
		}
		if a.CompensationHandler != nil {
			visit(path+"/compensationHandler", a.CompensationHandler)
		}
		for i := range a.EventHandlers {
			visit(path+"/"+a.EventHandlers[i].Kind, a.EventHandlers[i].Handler)
		}
	}
	visit("", process.Activity)
	for i := range process.FaultHandlers {
		visit("/faultHandlers", process.FaultHandlers[i].Handler)
	}
	if process.CompensationHandler != nil {
		visit("/compensationHandler", process.CompensationHandler)
	}
	for i := range process.EventHandlers {
		visit("/eventHandlers", process.EventHandlers[i].Handler)
	}
}
