package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bpelmig/bpelmig/pkg/console"
	"github.com/bpelmig/bpelmig/pkg/logger"
	"github.com/bpelmig/bpelmig/pkg/prompts"
)

var promptsCmdLog = logger.New("cli:prompts")

// NewPromptsCommand creates the prompts command group.
func NewPromptsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "List and render the shipped analyst and implementer prompts",
		Long: `The analyst prompt instructs an agent to turn a structural extraction
into a requirements document; the implementer prompt instructs an agent to
turn requirements into Spring Boot code. Both are embedded in the binary
and can be overridden per project via --prompt-dir.`,
	}
	cmd.AddCommand(newPromptsListCommand())
	cmd.AddCommand(newPromptsRenderCommand())
	return cmd
}

func newPromptsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available prompt documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := [][]string{
				{string(prompts.KeyAnalyst), "BPEL structural extraction to requirements document"},
				{string(prompts.KeyImplementer), "Requirements document to Spring Boot implementation"},
			}
			fmt.Fprintln(cmd.OutOrStdout(), console.RenderTable(console.TableConfig{
				Title:   "Prompt Documents",
				Headers: []string{"Key", "Purpose"},
				Rows:    rows,
			}))
			return nil
		},
	}
}

func newPromptsRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <analyst|implementer>",
		Short: "Render a prompt document with compiled artifacts filled in",
		Long: `Render substitutes the placeholders of a prompt document with the
artifacts of a compiled process.

The analyst prompt takes the JSON summary:
  bpelmig prompts render analyst --summary summaries/OrderProcess.json

The implementer prompt takes the summary, the requirements document and
the target base package:
  bpelmig prompts render implementer \
      --summary summaries/OrderProcess.json \
      --prd prds/OrderProcess.md \
      --base-package com.acme.orders`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summaryPath, _ := cmd.Flags().GetString("summary")
			prdPath, _ := cmd.Flags().GetString("prd")
			basePackage, _ := cmd.Flags().GetString("base-package")
			promptDir, _ := cmd.Flags().GetString("prompt-dir")
			outPath, _ := cmd.Flags().GetString("output")
			return RunPromptsRender(cmd, prompts.Key(args[0]), summaryPath, prdPath, basePackage, promptDir, outPath)
		},
	}

	cmd.Flags().String("summary", "", "compiled JSON summary to substitute")
	cmd.Flags().String("prd", "", "requirements document to substitute")
	cmd.Flags().String("base-package", "", "Java base package for the implementer prompt")
	cmd.Flags().String("prompt-dir", "", "directory of override prompt documents")
	cmd.Flags().StringP("output", "o", "", "write the rendered prompt to a file instead of stdout")

	return cmd
}

// RunPromptsRender loads, fills and emits one prompt document.
func RunPromptsRender(cmd *cobra.Command, key prompts.Key, summaryPath, prdPath, basePackage, promptDir, outPath string) error {
	promptsCmdLog.Printf("Rendering prompt %s: summary=%s, prd=%s", key, summaryPath, prdPath)

	document, err := prompts.Get(key, promptDir)
	if err != nil {
		return err
	}

	values := prompts.Values{BasePackage: basePackage}
	if summaryPath != "" {
		summary, err := readSummary(summaryPath)
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(summaryPath)
		if err != nil {
			return err
		}
		values.ProcessName = summary.Process.Name
		values.ProcessFile = summary.Process.SourceFile
		values.SummaryJSON = string(raw)
	}
	if prdPath != "" {
		raw, err := os.ReadFile(prdPath)
		if err != nil {
			return fmt.Errorf("failed to read requirements document: %w", err)
		}
		values.PRD = string(raw)
	}

	rendered := prompts.Render(document, values)

	if outPath != "" {
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(outPath, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("failed to write rendered prompt: %w", err)
		}
		fmt.Println(console.FormatLocationMessage("Wrote " + console.ToRelativePath(outPath)))
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}
