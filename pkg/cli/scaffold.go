package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/bpelmig/bpelmig/pkg/config"
	"github.com/bpelmig/bpelmig/pkg/console"
	"github.com/bpelmig/bpelmig/pkg/logger"
	"github.com/bpelmig/bpelmig/pkg/prd"
	"github.com/bpelmig/bpelmig/pkg/spring"
)

var scaffoldLog = logger.New("cli:scaffold")

// NewScaffoldCommand creates the scaffold command.
func NewScaffoldCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scaffold <summary.json>",
		Short: "Scaffold the conventional Spring Boot module layout from a compiled summary",
		Long: `Scaffold reads a JSON summary produced by compile and writes the
conventional Spring Boot module skeleton: package directories, pom.xml,
application.yml and a MIGRATION.md worklist naming the classes still to be
written. No Java class bodies are generated.

Examples:
  bpelmig scaffold summaries/OrderProcess.json
  bpelmig scaffold summaries/OrderProcess.json --dry-run
  bpelmig scaffold summaries/OrderProcess.json --base-package com.acme.orders
  bpelmig scaffold summaries/OrderProcess.json --interactive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := spring.Options{}
			opts.GroupID, _ = cmd.Flags().GetString("group-id")
			opts.ArtifactID, _ = cmd.Flags().GetString("artifact-id")
			opts.BasePackage, _ = cmd.Flags().GetString("base-package")
			opts.OutputDir, _ = cmd.Flags().GetString("output")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			force, _ := cmd.Flags().GetBool("force")
			interactive, _ := cmd.Flags().GetBool("interactive")
			return RunScaffold(args[0], opts, dryRun, force, interactive)
		},
	}

	cmd.Flags().String("group-id", "", "Maven groupId (default: com.example)")
	cmd.Flags().String("artifact-id", "", "Maven artifactId (default: derived from the process name)")
	cmd.Flags().String("base-package", "", "Java base package (default: derived from groupId and process name)")
	cmd.Flags().StringP("output", "o", "", "directory to write the module into (default: ./<artifactId>)")
	cmd.Flags().Bool("dry-run", false, "print the planned tree without writing")
	cmd.Flags().Bool("force", false, "overwrite files that already exist")
	cmd.Flags().BoolP("interactive", "i", false, "prompt for coordinates interactively")

	return cmd
}

// RunScaffold plans and writes the skeleton for summaryPath.
func RunScaffold(summaryPath string, opts spring.Options, dryRun, force, interactive bool) error {
	scaffoldLog.Printf("Scaffold requested: summary=%s, dryRun=%v", summaryPath, dryRun)

	summary, err := readSummary(summaryPath)
	if err != nil {
		return err
	}

	cfg, err := config.Load(filepath.Dir(filepath.Dir(summaryPath)))
	if err == nil {
		if opts.GroupID == "" {
			opts.GroupID = cfg.Scaffold.GroupID
		}
		if opts.BasePackage == "" {
			opts.BasePackage = cfg.Scaffold.BasePackage
		}
		if opts.OutputDir == "" {
			opts.OutputDir = cfg.Scaffold.OutputDir
		}
	}

	if interactive {
		if err := promptScaffoldOptions(summary, &opts); err != nil {
			return err
		}
	}

	if opts.GroupID != "" {
		if err := ValidateGroupID(opts.GroupID); err != nil {
			return err
		}
	}
	if opts.BasePackage != "" {
		if err := ValidateBasePackage(opts.BasePackage); err != nil {
			return err
		}
	}
	if opts.ArtifactID != "" {
		if err := ValidateArtifactID(opts.ArtifactID); err != nil {
			return err
		}
	}

	plan, err := spring.BuildPlan(summary, opts)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Println(console.RenderTree(plan.Tree()))
		fmt.Println(console.FormatInfoMessage(fmt.Sprintf("%d classes planned; nothing written (--dry-run)", len(plan.PlannedClasses))))
		return nil
	}

	if err := plan.Write(force); err != nil {
		return err
	}
	fmt.Println(console.FormatSuccessMessage(fmt.Sprintf("scaffolded %s into %s",
		plan.Options.ArtifactID, console.ToRelativePath(plan.Options.OutputDir))))
	fmt.Println(console.FormatInfoMessage("review MIGRATION.md for the classes still to be written"))
	return nil
}

// promptScaffoldOptions collects missing coordinates via an interactive
// form. Pre-filled flags become the editable defaults.
func promptScaffoldOptions(summary *prd.Summary, opts *spring.Options) error {
	if opts.GroupID == "" {
		opts.GroupID = "com.example"
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Maven groupId").
				Description("Reverse-domain coordinate, e.g. com.acme").
				Value(&opts.GroupID).
				Validate(ValidateGroupID),
			huh.NewInput().
				Title("Maven artifactId").
				Description("Leave empty to derive from the process name").
				Value(&opts.ArtifactID).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					return ValidateArtifactID(s)
				}),
			huh.NewInput().
				Title("Java base package").
				Description("Leave empty to derive from groupId and process name").
				Value(&opts.BasePackage).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					return ValidateBasePackage(s)
				}),
		).Title("Scaffold " + summary.Process.Name),
	)
	return form.Run()
}

// readSummary loads and schema-validates a compiled summary file.
func readSummary(path string) (*prd.Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary: %w", err)
	}
	if err := prd.ValidateSummaryBytes(data); err != nil {
		return nil, fmt.Errorf("%s is not a valid summary: %w", path, err)
	}
	var summary prd.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary %s: %w", path, err)
	}
	return &summary, nil
}
