package prd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/bpelmig/bpelmig/pkg/bpel"
	"github.com/bpelmig/bpelmig/pkg/logger"
	"github.com/bpelmig/bpelmig/pkg/parser"
)

var compilerLog = logger.New("prd:compiler")

// Compiler turns discovered BPEL projects into requirements artifacts.
type Compiler struct {
	// OutputDir receives the prds/ and summaries/ trees. Defaults to the
	// project root.
	OutputDir string
	// ValidateOnly parses, builds and validates without writing files.
	ValidateOnly bool
	// Strict fails compilation when any high-risk gap is detected.
	Strict bool
	// Jobs bounds parallel per-file compilation. Zero means one worker per
	// process file.
	Jobs int

	runID string
	once  sync.Once
}

// Result describes the artifacts produced for a single process file.
type Result struct {
	Process     *bpel.Process
	Summary     *Summary
	PRDPath     string
	SummaryPath string
}

// RunID returns the identifier stamped on every summary of this compiler's
// run.
func (c *Compiler) RunID() string {
	c.once.Do(func() {
		c.runID = uuid.NewString()
	})
	return c.runID
}

// CompileProject compiles every process file in the layout. Files compile
// in parallel; results are returned in the layout's file order. The error
// aggregates all per-file failures.
func (c *Compiler) CompileProject(layout *parser.ProjectLayout) ([]*Result, error) {
	compilerLog.Printf("Compiling project %s: %d process files", layout.Root, len(layout.ProcessFiles))
	if len(layout.ProcessFiles) == 0 {
		return nil, fmt.Errorf("no .bpel files found under %s", layout.Root)
	}

	catalog, warnings := layout.LoadCatalog()
	for _, w := range warnings {
		compilerLog.Printf("WSDL warning: %v", w)
	}

	results := make([]*Result, len(layout.ProcessFiles))
	workers := c.Jobs
	if workers <= 0 {
		workers = len(layout.ProcessFiles)
	}

	p := pool.New().WithErrors().WithMaxGoroutines(workers)
	for i, path := range layout.ProcessFiles {
		p.Go(func() error {
			result, err := c.CompileFile(path, catalog)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// CompileFile compiles one .bpel file against the WSDL catalog.
func (c *Compiler) CompileFile(path string, catalog *parser.ServiceCatalog) (*Result, error) {
	compilerLog.Printf("Compiling %s", path)

	process, err := parser.ParseProcessFile(path)
	if err != nil {
		return nil, err
	}

	summary := BuildSummary(process, catalog, c.RunID())
	summary.Gaps = DetectGaps(process, catalog)
	process.Gaps = summary.Gaps

	if c.Strict {
		if high := highRiskGaps(summary.Gaps); len(high) > 0 {
			return nil, fmt.Errorf("%s: strict mode: %d high-risk gaps (first: %s)", path, len(high), high[0].ID)
		}
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary for %s: %w", path, err)
	}
	if err := ValidateSummaryBytes(data); err != nil {
		return nil, fmt.Errorf("internal error: generated summary for %s failed schema validation: %w", path, err)
	}

	result := &Result{Process: process, Summary: summary}
	if c.ValidateOnly {
		return result, nil
	}

	outputDir := c.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(filepath.Dir(path))
	}
	name := artifactName(process)

	result.PRDPath = filepath.Join(outputDir, "prds", name+".md")
	result.SummaryPath = filepath.Join(outputDir, "summaries", name+".json")

	if err := writeFile(result.PRDPath, []byte(RenderPRD(summary))); err != nil {
		return nil, err
	}
	if err := writeFile(result.SummaryPath, append(data, '\n')); err != nil {
		return nil, err
	}

	compilerLog.Printf("Compiled %s: prd=%s, summary=%s, gaps=%d", path, result.PRDPath, result.SummaryPath, len(summary.Gaps))
	return result, nil
}

// artifactName picks a filesystem-safe artifact base name for a process.
func artifactName(process *bpel.Process) string {
	name := process.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(process.SourceFile), filepath.Ext(process.SourceFile))
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, name)
}

func highRiskGaps(gaps []bpel.Gap) []bpel.Gap {
	var high []bpel.Gap
	for _, gap := range gaps {
		if gap.Risk == "high" {
			high = append(high, gap)
		}
	}
	return high
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
