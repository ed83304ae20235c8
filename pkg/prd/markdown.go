package prd

import (
	"fmt"
	"strings"

	"github.com/bpelmig/bpelmig/pkg/logger"
)

var markdownLog = logger.New("prd:markdown")

// RenderPRD renders the requirements document for one process. Output is
// deterministic for a given summary so regenerated documents diff cleanly.
func RenderPRD(summary *Summary) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Requirements: %s\n\n", summary.Process.Name)
	fmt.Fprintf(&sb, "Generated from `%s` (sha256 `%s`).\n\n", summary.Process.SourceFile, shortHash(summary.Process.SourceHash))

	sb.WriteString("## Process Overview\n\n")
	fmt.Fprintf(&sb, "- **Process name:** %s\n", summary.Process.Name)
	fmt.Fprintf(&sb, "- **Target namespace:** `%s`\n", summary.Process.TargetNamespace)
	fmt.Fprintf(&sb, "- **BPEL version:** %s\n", summary.Process.Version)
	fmt.Fprintf(&sb, "- **Activities:** %d\n", summary.Process.ActivityCount)
	fmt.Fprintf(&sb, "- **Open gaps:** %d\n\n", len(summary.Gaps))

	sb.WriteString("## Partner Links\n\n")
	if len(summary.PartnerLinks) == 0 {
		sb.WriteString("None declared.\n\n")
	} else {
		writeTable(&sb,
			[]string{"Name", "Partner Link Type", "My Role", "Partner Role", "Port Type", "Operations"},
			func(add func(...string)) {
				for _, pl := range summary.PartnerLinks {
					add(pl.Name, code(pl.PartnerLinkType), pl.MyRole, pl.PartnerRole, code(pl.PortType), strings.Join(pl.Operations, ", "))
				}
			})
	}

	sb.WriteString("## Variables\n\n")
	if len(summary.Variables) == 0 {
		sb.WriteString("None declared.\n\n")
	} else {
		writeTable(&sb,
			[]string{"Name", "Message Type", "Element", "Type", "Scope"},
			func(add func(...string)) {
				for _, v := range summary.Variables {
					scope := v.Scope
					if scope == "" {
						scope = "process"
					}
					add(v.Name, code(v.MessageType), code(v.Element), code(v.Type), scope)
				}
			})
	}

	sb.WriteString("## Decisions\n\n")
	if len(summary.Decisions) == 0 {
		sb.WriteString("No branching logic found.\n\n")
	} else {
		writeTable(&sb,
			[]string{"Location", "Kind", "Branch", "Condition (verbatim)"},
			func(add func(...string)) {
				for _, d := range summary.Decisions {
					for _, b := range d.Branches {
						add(code(d.Path), d.Kind, b.Label, code(b.Condition))
					}
				}
			})
	}

	sb.WriteString("## Loops\n\n")
	if len(summary.Loops) == 0 {
		sb.WriteString("No loops found.\n\n")
	} else {
		writeTable(&sb,
			[]string{"Location", "Kind", "Condition / Bounds (verbatim)", "Parallel"},
			func(add func(...string)) {
				for _, l := range summary.Loops {
					bounds := l.Condition
					if l.Kind == "forEach" {
						bounds = fmt.Sprintf("%s = %s .. %s", l.CounterName, l.StartValue, l.FinalValue)
					}
					add(code(l.Path), l.Kind, code(bounds), yesNo(l.Parallel))
				}
			})
	}

	sb.WriteString("## Fault Handling\n\n")
	if len(summary.Faults) == 0 {
		sb.WriteString("No fault handlers declared.\n\n")
	} else {
		writeTable(&sb,
			[]string{"Scope", "Fault", "Fault Variable", "Handler"},
			func(add func(...string)) {
				for _, f := range summary.Faults {
					name := f.FaultName
					if f.CatchAll {
						name = "(catchAll)"
					}
					scope := f.Scope
					if scope == "" {
						scope = "process"
					}
					add(scope, code(name), f.FaultVariable, f.Handler)
				}
			})
	}

	sb.WriteString("## Compensation\n\n")
	if len(summary.Compensations) == 0 {
		sb.WriteString("No compensation handlers declared.\n\n")
	} else {
		writeTable(&sb,
			[]string{"Scope", "Handler"},
			func(add func(...string)) {
				for _, comp := range summary.Compensations {
					scope := comp.Scope
					if scope == "" {
						scope = "process"
					}
					add(scope, comp.Handler)
				}
			})
	}

	sb.WriteString("## Correlation\n\n")
	if len(summary.Correlations) == 0 {
		sb.WriteString("No correlation sets declared.\n\n")
	} else {
		writeTable(&sb,
			[]string{"Correlation Set", "Properties", "Scope"},
			func(add func(...string)) {
				for _, set := range summary.Correlations {
					scope := set.Scope
					if scope == "" {
						scope = "process"
					}
					add(set.Name, code(strings.Join(set.Properties, " ")), scope)
				}
			})
	}

	sb.WriteString("## Human Tasks\n\n")
	if len(summary.HumanTasks) == 0 {
		sb.WriteString("No human tasks found.\n\n")
	} else {
		writeTable(&sb,
			[]string{"Name", "Source Element", "Location"},
			func(add func(...string)) {
				for _, task := range summary.HumanTasks {
					add(task.Name, code(task.SourceTag), code(task.Path))
				}
			})
	}

	sb.WriteString("## Gaps and Assumptions\n\n")
	if len(summary.Gaps) == 0 {
		sb.WriteString("No gaps detected; all structural content was extracted.\n\n")
	} else {
		writeTable(&sb,
			[]string{"ID", "Category", "Description", "Question", "Proposed Default", "Risk", "Validation Method"},
			func(add func(...string)) {
				for _, gap := range summary.Gaps {
					add(gap.ID, string(gap.Category), gap.Description, gap.Question, gap.ProposedDefault, gap.Risk, gap.ValidationMethod)
				}
			})
	}

	markdownLog.Printf("Rendered PRD for %s (%d bytes)", summary.Process.Name, sb.Len())
	return sb.String()
}

// writeTable emits a markdown pipe table. Cell content is escaped so
// verbatim expressions containing pipes do not break the table.
func writeTable(sb *strings.Builder, headers []string, fill func(add func(...string))) {
	sb.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	separators := make([]string, len(headers))
	for i := range separators {
		separators[i] = "---"
	}
	sb.WriteString("| " + strings.Join(separators, " | ") + " |\n")

	fill(func(cells ...string) {
		escaped := make([]string, len(cells))
		for i, cell := range cells {
			escaped[i] = strings.ReplaceAll(cell, "|", "\\|")
		}
		sb.WriteString("| " + strings.Join(escaped, " | ") + " |\n")
	})
	sb.WriteString("\n")
}

func code(s string) string {
	if s == "" {
		return ""
	}
	return "`" + s + "`"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
