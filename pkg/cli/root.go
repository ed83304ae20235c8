// Package cli wires the bpelmig commands: compile (BPEL to requirements),
// scaffold (requirements to Spring skeleton), prompts, validate and watch.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags.
var version = "dev"

// NewRootCommand builds the bpelmig command tree.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bpelmig",
		Short: "Extract requirements from Oracle BPEL processes and scaffold Spring Boot migrations",
		Long: `bpelmig reads Oracle BPEL process XML and produces a requirements document
(markdown) plus a machine-readable JSON summary for each process. From a
summary it scaffolds the conventional Spring Boot module layout. Java class
bodies are never generated; the shipped analyst/implementer prompts delegate
that to an external LLM or human implementer.

Conventional project layout:

  bpel/*.bpel     process sources (required)
  wsdl/*.wsdl     service contracts (optional, resolves partner links)
  xsd/*.xsd       schemas (optional)
  prds/           generated requirements documents
  summaries/      generated JSON summaries`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "project directory containing "+configFileName())
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	cmd.AddCommand(NewCompileCommand())
	cmd.AddCommand(NewScaffoldCommand())
	cmd.AddCommand(NewPromptsCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewWatchCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// NewVersionCommand reports the tool version.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the bpelmig version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "bpelmig", version)
		},
	}
}
