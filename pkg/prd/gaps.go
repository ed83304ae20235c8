package prd

import (
	"fmt"
	"strings"

	"github.com/bpelmig/bpelmig/pkg/bpel"
	"github.com/bpelmig/bpelmig/pkg/logger"
	"github.com/bpelmig/bpelmig/pkg/parser"
)

var gapsLog = logger.New("prd:gaps")

// gapRule is one deterministic ambiguity detector. Rules fire on the IR and
// never guess at business intent: every hit becomes a row of the "Gaps and
// Assumptions" table with a fixed question, default, risk and validation
// method.
type gapRule struct {
	category   bpel.GapCategory
	risk       string
	validation string
}

var gapRules = map[bpel.GapCategory]gapRule{
	bpel.GapUnresolvedService: {
		category:   bpel.GapUnresolvedService,
		risk:       "high",
		validation: "confirm endpoint contract with the owning team",
	},
	bpel.GapUnresolvedType: {
		category:   bpel.GapUnresolvedType,
		risk:       "medium",
		validation: "locate the schema that declares the element or type",
	},
	bpel.GapOpaqueCondition: {
		category:   bpel.GapOpaqueCondition,
		risk:       "medium",
		validation: "review the original branch behavior with a domain expert",
	},
	bpel.GapExpression: {
		category:   bpel.GapExpression,
		risk:       "medium",
		validation: "execute the expression against sample payloads",
	},
	bpel.GapExtension: {
		category:   bpel.GapExtension,
		risk:       "high",
		validation: "inspect the vendor extension in the engine's runtime documentation",
	},
	bpel.GapCorrelation: {
		category:   bpel.GapCorrelation,
		risk:       "high",
		validation: "trace a live message exchange to confirm the routing key",
	},
	bpel.GapLoopBound: {
		category:   bpel.GapLoopBound,
		risk:       "medium",
		validation: "measure historical iteration counts in process logs",
	},
	bpel.GapHumanTask: {
		category:   bpel.GapHumanTask,
		risk:       "high",
		validation: "walk through the task flow with its business owners",
	},
}

// gapCollector assigns stable per-category sequence IDs.
type gapCollector struct {
	counts map[bpel.GapCategory]int
	gaps   []bpel.Gap
}

func (c *gapCollector) add(category bpel.GapCategory, location, description, question, proposedDefault string) {
	rule := gapRules[category]
	c.counts[category]++
	c.gaps = append(c.gaps, bpel.Gap{
		ID:               fmt.Sprintf("GAP-%s-%03d", category, c.counts[category]),
		Category:         category,
		Description:      description,
		Question:         question,
		ProposedDefault:  proposedDefault,
		Risk:             rule.risk,
		ValidationMethod: rule.validation,
		Location:         location,
	})
}

// DetectGaps runs every gap rule over the process and returns the findings
// in deterministic order.
func DetectGaps(process *bpel.Process, catalog *parser.ServiceCatalog) []bpel.Gap {
	collector := &gapCollector{counts: map[bpel.GapCategory]int{}}

	detectPartnerLinkGaps(process, catalog, collector)
	detectVariableGaps(process, catalog, collector)
	detectActivityGaps(process, collector)
	detectCorrelationGaps(process, collector)

	gapsLog.Printf("Detected %d gaps in process %s", len(collector.gaps), process.Name)
	return collector.gaps
}

func detectPartnerLinkGaps(process *bpel.Process, catalog *parser.ServiceCatalog, c *gapCollector) {
	for _, pl := range process.PartnerLinks {
		if catalog.Empty() {
			c.add(bpel.GapUnresolvedService, "partnerLink:"+pl.Name,
				fmt.Sprintf("partner link %q references type %q but no WSDL documents were found", pl.Name, pl.PartnerLinkType),
				"what service contract does this partner link bind to?",
				"treat as a REST client against an equivalent endpoint")
			continue
		}
		role := pl.PartnerRole
		if role == "" {
			role = pl.MyRole
		}
		if _, _, ok := catalog.ResolveRole(pl.PartnerLinkType, role); !ok {
			c.add(bpel.GapUnresolvedService, "partnerLink:"+pl.Name,
				fmt.Sprintf("partner link type %q role %q is not declared in any provided WSDL", pl.PartnerLinkType, role),
				"which WSDL defines this partner link type?",
				"locate the missing WSDL in the source system")
		}
	}
}

// detectVariableGaps checks variable element and type references against the
// loaded schema documents. Without any schemas the check is skipped: the
// missing contracts already surface as unresolved-service gaps.
func detectVariableGaps(process *bpel.Process, catalog *parser.ServiceCatalog, c *gapCollector) {
	if !catalog.HasSchemas() {
		return
	}
	check := func(location string, vars []bpel.Variable) {
		for _, v := range vars {
			ref, what := v.Element, "element"
			if ref == "" {
				ref, what = v.Type, "type"
			}
			if ref == "" || isBuiltinSchemaType(ref) {
				continue
			}
			if _, ok := catalog.ResolveSchemaRef(ref); !ok {
				c.add(bpel.GapUnresolvedType, location+"variable:"+v.Name,
					fmt.Sprintf("variable %q references %s %q which no provided schema declares", v.Name, what, ref),
					"which schema defines this message shape?",
					"model the payload from sample messages")
			}
		}
	}
	check("", process.Variables)
	walkWithPath(process, func(path string, a *bpel.Activity) {
		if a.Kind == bpel.KindScope {
			check(path+"/", a.Variables)
		}
	})
}

// isBuiltinSchemaType reports whether a QName uses the conventional prefixes
// for the XML Schema built-in types.
func isBuiltinSchemaType(ref string) bool {
	prefix, _, found := strings.Cut(ref, ":")
	if !found {
		return false
	}
	return prefix == "xs" || prefix == "xsd"
}

func detectActivityGaps(process *bpel.Process, c *gapCollector) {
	walkWithPath(process, func(path string, a *bpel.Activity) {
		switch a.Kind {
		case bpel.KindIf:
			for _, branch := range a.Branches {
				if branch.Kind != "else" && branch.Condition == "" {
					c.add(bpel.GapOpaqueCondition, path,
						"branch has an empty or unreadable condition",
						"what business rule decides this branch?",
						"treat the branch as never taken until confirmed")
				}
			}
		case bpel.KindWhile, bpel.KindRepeatUntil:
			if a.Condition == "" {
				c.add(bpel.GapLoopBound, path,
					fmt.Sprintf("%s loop has no readable exit condition", a.Kind),
					"what terminates this loop?",
					"assume a bounded retry loop with a small iteration cap")
			}
		case bpel.KindForEach:
			if a.StartValue == "" || a.FinalValue == "" {
				c.add(bpel.GapLoopBound, path,
					"forEach bounds are not literal expressions in the source",
					"what range does this loop iterate over?",
					"derive the range from the input collection size")
			}
		case bpel.KindExtension:
			c.add(bpel.GapExtension, path,
				fmt.Sprintf("vendor extension activity <%s> (%s) has no portable semantics", a.SourceTag, a.Attributes["xmlns"]),
				"what does this extension activity do at runtime?",
				"port the behavior manually after consulting engine documentation")
		case bpel.KindHumanTask:
			c.add(bpel.GapHumanTask, path,
				fmt.Sprintf("human task %q requires a workflow/task service in the target architecture", a.Name),
				"which user group completes this task and under what SLA?",
				"model as an asynchronous approval step with a task queue")
		}

		if a.ExpressionLanguage != "" && !isXPathLanguage(a.ExpressionLanguage) {
			c.add(bpel.GapExpression, path,
				fmt.Sprintf("expression language %q is not XPath and cannot be interpreted structurally", a.ExpressionLanguage),
				"what does this expression evaluate to?",
				"translate the expression manually")
		}
	})
}

func detectCorrelationGaps(process *bpel.Process, c *gapCollector) {
	for _, set := range process.CorrelationSets {
		if len(set.Properties) == 0 {
			c.add(bpel.GapCorrelation, "correlationSet:"+set.Name,
				fmt.Sprintf("correlation set %q declares no properties", set.Name),
				"which message fields route replies to the right instance?",
				"use a business key carried in every message")
		}
	}

	// Correlation sets referenced by activities but never declared.
	declared := map[string]bool{}
	for _, set := range process.CorrelationSets {
		declared[set.Name] = true
	}
	walkWithPath(process, func(path string, a *bpel.Activity) {
		for _, set := range a.CorrelationSets {
			declared[set.Name] = true
		}
	})
	walkWithPath(process, func(path string, a *bpel.Activity) {
		for _, ref := range a.Correlations {
			if !declared[ref.Set] {
				c.add(bpel.GapCorrelation, path,
					fmt.Sprintf("activity references undeclared correlation set %q", ref.Set),
					"where is this correlation set defined?",
					"check enclosing scopes in the original project")
			}
		}
	})
}

func isXPathLanguage(lang string) bool {
	switch lang {
	case "urn:oasis:names:tc:wsbpel:2.0:sublang:xpath1.0",
		"http://www.w3.org/TR/1999/REC-xpath-19991116":
		return true
	}
	return false
}
