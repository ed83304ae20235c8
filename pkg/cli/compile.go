package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bpelmig/bpelmig/pkg/config"
	"github.com/bpelmig/bpelmig/pkg/console"
	"github.com/bpelmig/bpelmig/pkg/logger"
	"github.com/bpelmig/bpelmig/pkg/parser"
	"github.com/bpelmig/bpelmig/pkg/prd"
)

var compileLog = logger.New("cli:compile")

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [dir|file.bpel]",
		Short: "Compile BPEL processes into requirements documents and JSON summaries",
		Long: `Compile discovers bpel/*.bpel under the given directory (default .),
resolves partner links against sibling wsdl/ documents, and writes one
requirements document to prds/ and one schema-validated JSON summary to
summaries/ per process.

Examples:
  bpelmig compile                       # compile the current project
  bpelmig compile orders/               # compile another project root
  bpelmig compile bpel/OrderProcess.bpel
  bpelmig compile --strict              # fail on high-risk gaps
  bpelmig compile --validate-only       # parse and validate, write nothing`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			output, _ := cmd.Flags().GetString("output")
			strict, _ := cmd.Flags().GetBool("strict")
			validateOnly, _ := cmd.Flags().GetBool("validate-only")
			jobs, _ := cmd.Flags().GetInt("jobs")
			return RunCompile(root, output, strict, validateOnly, jobs)
		},
	}

	cmd.Flags().StringP("output", "o", "", "output directory for prds/ and summaries/ (default: project root)")
	cmd.Flags().Bool("strict", false, "fail when high-risk gaps are detected")
	cmd.Flags().Bool("validate-only", false, "parse and validate without writing artifacts")
	cmd.Flags().Int("jobs", 0, "maximum parallel compilations (0 = one per file)")

	return cmd
}

// RunCompile compiles every process under root.
func RunCompile(root, output string, strict, validateOnly bool, jobs int) error {
	compileLog.Printf("Compile requested: root=%s, strict=%v, validateOnly=%v", root, strict, validateOnly)

	cfg, err := config.Load(root)
	if err != nil {
		fmt.Fprintln(os.Stderr, console.FormatWarningMessage(err.Error()))
		cfg = config.Default()
	}
	if output == "" {
		output = cfg.Output
	}
	strict = strict || cfg.Strict
	if jobs == 0 {
		jobs = cfg.Jobs
	}

	layout, err := parser.DiscoverProject(root)
	if err != nil {
		return err
	}
	if len(layout.ProcessFiles) == 0 {
		return fmt.Errorf("%s", console.FormatErrorWithSuggestions(
			fmt.Sprintf("no .bpel files found under %s", root),
			[]string{
				"Place process sources in bpel/*.bpel",
				"Pass the project root as an argument: bpelmig compile path/to/project",
			}))
	}

	compiler := &prd.Compiler{
		OutputDir:    output,
		Strict:       strict,
		ValidateOnly: validateOnly,
		Jobs:         jobs,
	}
	results, err := compiler.CompileProject(layout)
	if err != nil {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(err.Error()))
		return fmt.Errorf("compilation failed")
	}

	rows := make([][]string, 0, len(results))
	totalGaps := 0
	for _, result := range results {
		totalGaps += len(result.Summary.Gaps)
		rows = append(rows, []string{
			result.Summary.Process.Name,
			strconv.Itoa(result.Summary.Process.ActivityCount),
			strconv.Itoa(len(result.Summary.Gaps)),
		})
	}
	fmt.Println(console.RenderTable(console.TableConfig{
		Title:   "Compilation Results",
		Headers: []string{"Process", "Activities", "Gaps"},
		Rows:    rows,
	}))

	if validateOnly {
		fmt.Println(console.FormatSuccessMessage(fmt.Sprintf("validated %d processes", len(results))))
		return nil
	}
	for _, result := range results {
		fmt.Println(console.FormatLocationMessage("Wrote " + console.ToRelativePath(result.PRDPath)))
		fmt.Println(console.FormatLocationMessage("Wrote " + console.ToRelativePath(result.SummaryPath)))
	}
	if totalGaps > 0 {
		fmt.Println(console.FormatWarningMessage(fmt.Sprintf("%d gaps recorded; review the Gaps and Assumptions tables", totalGaps)))
	}
	fmt.Println(console.FormatSuccessMessage(fmt.Sprintf("compiled %d processes", len(results))))
	return nil
}
