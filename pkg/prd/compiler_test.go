//go:build !integration

package prd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpelmig/bpelmig/pkg/bpel"
	"github.com/bpelmig/bpelmig/pkg/parser"
	"github.com/bpelmig/bpelmig/pkg/testutil"
)

func writeApprovalProject(t *testing.T) string {
	t.Helper()
	root := testutil.TempDir(t, "compile-*")
	testutil.WriteFile(t, filepath.Join(root, "bpel", "ApprovalProcess.bpel"), approvalProcess)
	testutil.WriteFile(t, filepath.Join(root, "wsdl", "ApprovalService.wsdl"), approvalWSDL)
	return root
}

func TestCompileProject(t *testing.T) {
	root := writeApprovalProject(t)
	layout, err := parser.DiscoverProject(root)
	require.NoError(t, err)

	compiler := &Compiler{}
	results, err := compiler.CompileProject(layout)
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	if result.Summary.Process.Name != "ApprovalProcess" {
		t.Errorf("unexpected process %q", result.Summary.Process.Name)
	}
	if result.Summary.Process.RunID != compiler.RunID() {
		t.Error("expected the compiler run id stamped on the summary")
	}

	prdBytes, err := os.ReadFile(result.PRDPath)
	require.NoError(t, err)
	if !strings.Contains(string(prdBytes), "# Requirements: ApprovalProcess") {
		t.Error("PRD content missing from written file")
	}
	if filepath.Base(filepath.Dir(result.PRDPath)) != "prds" {
		t.Errorf("PRD written outside prds/: %s", result.PRDPath)
	}

	summaryBytes, err := os.ReadFile(result.SummaryPath)
	require.NoError(t, err)
	if filepath.Base(filepath.Dir(result.SummaryPath)) != "summaries" {
		t.Errorf("summary written outside summaries/: %s", result.SummaryPath)
	}
	var roundTrip Summary
	require.NoError(t, json.Unmarshal(summaryBytes, &roundTrip))
	if roundTrip.Process.SourceHash != result.Summary.Process.SourceHash {
		t.Error("written summary does not match the in-memory result")
	}
	require.NoError(t, ValidateSummaryBytes(summaryBytes))
}

func TestCompileProjectValidateOnly(t *testing.T) {
	root := writeApprovalProject(t)
	layout, err := parser.DiscoverProject(root)
	require.NoError(t, err)

	compiler := &Compiler{ValidateOnly: true}
	results, err := compiler.CompileProject(layout)
	require.NoError(t, err)
	require.Len(t, results, 1)

	if results[0].PRDPath != "" || results[0].SummaryPath != "" {
		t.Error("validate-only must not record artifact paths")
	}
	if _, err := os.Stat(filepath.Join(root, "prds")); !os.IsNotExist(err) {
		t.Error("validate-only must not create prds/")
	}
}

func TestCompileStrictFailsOnHighRiskGaps(t *testing.T) {
	root := testutil.TempDir(t, "compile-*")
	// No WSDL: both partner links become high-risk unresolved-service gaps.
	testutil.WriteFile(t, filepath.Join(root, "bpel", "ApprovalProcess.bpel"), approvalProcess)
	layout, err := parser.DiscoverProject(root)
	require.NoError(t, err)

	compiler := &Compiler{Strict: true}
	_, err = compiler.CompileProject(layout)
	if err == nil {
		t.Fatal("expected strict compilation to fail")
	}
	if !strings.Contains(err.Error(), "high-risk") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestCompileFileParseFailure(t *testing.T) {
	root := testutil.TempDir(t, "compile-*")
	path := filepath.Join(root, "bpel", "Broken.bpel")
	testutil.WriteFile(t, path, "<process><oops></process>")

	compiler := &Compiler{}
	_, err := compiler.CompileFile(path, parser.NewServiceCatalog(nil, nil))
	if err == nil {
		t.Fatal("expected a parse error")
	}
	var parseErr *parser.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected a positioned parse error, got %T", err)
	}
}

func TestCompileOutputDirOverride(t *testing.T) {
	root := writeApprovalProject(t)
	outDir := testutil.TempDir(t, "out-*")
	layout, err := parser.DiscoverProject(root)
	require.NoError(t, err)

	compiler := &Compiler{OutputDir: outDir}
	results, err := compiler.CompileProject(layout)
	require.NoError(t, err)
	if !strings.HasPrefix(results[0].PRDPath, outDir) {
		t.Errorf("expected artifacts under %s, got %s", outDir, results[0].PRDPath)
	}
}

func TestArtifactName(t *testing.T) {
	tests := []struct {
		name    string
		process *bpel.Process
		want    string
	}{
		{
			name:    "plain name",
			process: &bpel.Process{Name: "OrderProcess"},
			want:    "OrderProcess",
		},
		{
			name:    "unsafe characters replaced",
			process: &bpel.Process{Name: "Order Process/v2"},
			want:    "Order-Process-v2",
		},
		{
			name:    "falls back to file name",
			process: &bpel.Process{SourceFile: "bpel/LoanFlow.bpel"},
			want:    "LoanFlow",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := artifactName(tt.process); got != tt.want {
				t.Errorf("artifactName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunIDStable(t *testing.T) {
	compiler := &Compiler{}
	if compiler.RunID() != compiler.RunID() {
		t.Error("RunID must be stable for one compiler")
	}
	other := &Compiler{}
	if compiler.RunID() == other.RunID() {
		t.Error("distinct compilers must have distinct run ids")
	}
}
