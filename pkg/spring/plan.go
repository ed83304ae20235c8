// Package spring plans and writes the conventional Spring Boot skeleton for
// a compiled process summary: the module directory layout, a Maven build
// descriptor and an application.yml. Java class bodies are deliberately not
// generated; the skeleton carries a migration plan that names the classes an
// implementer (human or LLM) is expected to fill in.
package spring

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bpelmig/bpelmig/pkg/console"
	"github.com/bpelmig/bpelmig/pkg/logger"
	"github.com/bpelmig/bpelmig/pkg/prd"
)

var planLog = logger.New("spring:plan")

// Options controls skeleton generation.
type Options struct {
	GroupID     string
	ArtifactID  string
	BasePackage string
	OutputDir   string
}

// Plan is the computed skeleton for one summary.
type Plan struct {
	Options Options
	Summary *prd.Summary

	// Dirs are directories created empty, relative to the module root.
	Dirs []string
	// Files maps relative paths to rendered content.
	Files map[string]string
	// PlannedClasses lists the Java classes the implementer is expected to
	// create, grouped by package suffix.
	PlannedClasses []PlannedClass
}

// PlannedClass names one Java class the skeleton reserves a home for.
type PlannedClass struct {
	Package string // package suffix: controller, service, client, model, exception, config
	Name    string
	Purpose string
}

// conventionalPackages is the module layout the skeleton always contains.
var conventionalPackages = []string{"controller", "service", "client", "model", "exception", "config"}

// BuildPlan computes the full skeleton plan for a summary.
func BuildPlan(summary *prd.Summary, opts Options) (*Plan, error) {
	if summary.Process.Name == "" {
		return nil, fmt.Errorf("summary has no process name")
	}
	opts = withDefaults(summary, opts)
	planLog.Printf("Planning skeleton for %s: artifact=%s, package=%s",
		summary.Process.Name, opts.ArtifactID, opts.BasePackage)

	plan := &Plan{
		Options: opts,
		Summary: summary,
		Files:   map[string]string{},
	}

	javaRoot := filepath.Join("src", "main", "java", filepath.FromSlash(strings.ReplaceAll(opts.BasePackage, ".", "/")))
	for _, pkg := range conventionalPackages {
		plan.Dirs = append(plan.Dirs, filepath.Join(javaRoot, pkg))
	}
	plan.Dirs = append(plan.Dirs,
		filepath.Join("src", "main", "resources"),
		filepath.Join("src", "test", "java", filepath.FromSlash(strings.ReplaceAll(opts.BasePackage, ".", "/"))),
	)

	plan.PlannedClasses = planClasses(summary)

	pom, err := renderPOM(summary, opts)
	if err != nil {
		return nil, err
	}
	plan.Files["pom.xml"] = pom

	applicationYML, err := renderApplicationYML(summary, opts)
	if err != nil {
		return nil, err
	}
	plan.Files[filepath.Join("src", "main", "resources", "application.yml")] = applicationYML

	plan.Files["MIGRATION.md"] = renderMigrationPlan(summary, opts, plan.PlannedClasses)

	return plan, nil
}

// withDefaults fills unset options from the summary.
func withDefaults(summary *prd.Summary, opts Options) Options {
	name := kebabCase(summary.Process.Name)
	if opts.ArtifactID == "" {
		opts.ArtifactID = name + "-service"
	}
	if opts.GroupID == "" {
		opts.GroupID = "com.example"
	}
	if opts.BasePackage == "" {
		opts.BasePackage = opts.GroupID + "." + strings.ReplaceAll(name, "-", "")
	}
	if opts.OutputDir == "" {
		opts.OutputDir = opts.ArtifactID
	}
	return opts
}

// planClasses derives the implementer's worklist from the summary: a client
// per invoked partner, a controller per exposed role, one service for the
// orchestration itself, a model per message shape, an exception per fault.
func planClasses(summary *prd.Summary) []PlannedClass {
	var classes []PlannedClass
	processClass := pascalCase(summary.Process.Name)

	classes = append(classes, PlannedClass{
		Package: "service",
		Name:    processClass + "Service",
		Purpose: "orchestration logic extracted from the process activity tree",
	})

	for _, pl := range summary.PartnerLinks {
		if pl.MyRole != "" {
			classes = append(classes, PlannedClass{
				Package: "controller",
				Name:    pascalCase(pl.Name) + "Controller",
				Purpose: fmt.Sprintf("inbound endpoint for partner link %q", pl.Name),
			})
		}
		if pl.PartnerRole != "" {
			classes = append(classes, PlannedClass{
				Package: "client",
				Name:    pascalCase(pl.Name) + "Client",
				Purpose: fmt.Sprintf("outbound calls to %s", displayPortType(pl.PortType, pl.Name)),
			})
		}
	}

	seenModels := map[string]bool{}
	for _, v := range summary.Variables {
		typeName := v.MessageType
		if typeName == "" {
			typeName = v.Element
		}
		if typeName == "" {
			continue
		}
		model := pascalCase(localPart(typeName))
		if seenModels[model] {
			continue
		}
		seenModels[model] = true
		classes = append(classes, PlannedClass{
			Package: "model",
			Name:    model,
			Purpose: fmt.Sprintf("payload for variable %q (%s)", v.Name, typeName),
		})
	}

	seenFaults := map[string]bool{}
	for _, f := range summary.Faults {
		if f.FaultName == "" {
			continue
		}
		exception := pascalCase(localPart(f.FaultName)) + "Exception"
		if seenFaults[exception] {
			continue
		}
		seenFaults[exception] = true
		classes = append(classes, PlannedClass{
			Package: "exception",
			Name:    exception,
			Purpose: fmt.Sprintf("mapped from BPEL fault %q", f.FaultName),
		})
	}

	classes = append(classes, PlannedClass{
		Package: "config",
		Name:    "PartnerClientConfig",
		Purpose: "HTTP client beans for the partner endpoints in application.yml",
	})

	return classes
}

// Tree renders the plan as a console tree for dry-run output.
func (p *Plan) Tree() console.TreeNode {
	root := console.TreeNode{Value: p.Options.ArtifactID + "/"}

	// Group created paths by their first segment for readable output.
	var paths []string
	for _, dir := range p.Dirs {
		paths = append(paths, filepath.ToSlash(dir)+"/")
	}
	for file := range p.Files {
		paths = append(paths, filepath.ToSlash(file))
	}
	sortStrings(paths)

	for _, path := range paths {
		insertPath(&root, strings.Split(strings.TrimSuffix(path, "/"), "/"), strings.HasSuffix(path, "/"))
	}
	return root
}

func insertPath(node *console.TreeNode, segments []string, isDir bool) {
	if len(segments) == 0 {
		return
	}
	label := segments[0]
	if len(segments) == 1 && isDir {
		label += "/"
	}
	for i := range node.Children {
		if node.Children[i].Value == label || node.Children[i].Value == segments[0]+"/" {
			insertPath(&node.Children[i], segments[1:], isDir)
			return
		}
	}
	child := console.TreeNode{Value: label}
	if len(segments) > 1 {
		child.Value = segments[0] + "/"
	}
	insertPath(&child, segments[1:], isDir)
	node.Children = append(node.Children, child)
}

func displayPortType(portType, fallback string) string {
	if portType != "" {
		return "port type " + portType
	}
	return "partner link " + fallback
}

func localPart(qname string) string {
	if idx := strings.LastIndex(qname, ":"); idx >= 0 {
		return qname[idx+1:]
	}
	return qname
}

func kebabCase(s string) string {
	var sb strings.Builder
	dash := true // suppress a leading dash
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			if !dash {
				sb.WriteByte('-')
			}
			sb.WriteRune(r - 'A' + 'a')
			dash = false
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			dash = false
		default:
			if !dash {
				sb.WriteByte('-')
			}
			dash = true
		}
	}
	return strings.Trim(sb.String(), "-")
}

func pascalCase(s string) string {
	var sb strings.Builder
	upper := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			if upper && r >= 'a' && r <= 'z' {
				r = r - 'a' + 'A'
			}
			sb.WriteRune(r)
			upper = false
		default:
			upper = true
		}
	}
	return sb.String()
}

func sortStrings(s []string) {
	sort.Strings(s)
}
