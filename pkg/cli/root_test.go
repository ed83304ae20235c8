//go:build !integration

package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpelmig/bpelmig/pkg/spring"
	"github.com/bpelmig/bpelmig/pkg/testutil"
)

const pingProcess = `<?xml version="1.0" encoding="UTF-8"?>
<process name="PingProcess"
         targetNamespace="http://acme.example/bpel/ping"
         xmlns="http://docs.oasis-open.org/wsbpel/2.0/process/executable">
  <partnerLinks>
    <partnerLink name="client" partnerLinkType="tns:PingPLT" myRole="PingProvider"/>
  </partnerLinks>
  <variables>
    <variable name="ping" messageType="tns:PingMessage"/>
  </variables>
  <sequence name="main">
    <receive name="receivePing" partnerLink="client" operation="ping" variable="ping" createInstance="yes"/>
    <reply name="replyPong" partnerLink="client" operation="ping" variable="ping"/>
  </sequence>
</process>`

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	if cmd.Use != "bpelmig" {
		t.Errorf("unexpected use %q", cmd.Use)
	}

	want := map[string]bool{
		"compile": false, "scaffold": false, "prompts": false,
		"validate": false, "watch": false, "version": false,
	}
	for _, sub := range cmd.Commands() {
		name := strings.Fields(sub.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := NewVersionCommand()
	cmd.SetOut(&out)
	cmd.Run(cmd, nil)

	if !strings.Contains(out.String(), "bpelmig") {
		t.Errorf("unexpected version output %q", out.String())
	}
}

func TestPromptsListCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newPromptsListCommand()
	cmd.SetOut(&out)
	require.NoError(t, cmd.RunE(cmd, nil))

	if !strings.Contains(out.String(), "analyst") || !strings.Contains(out.String(), "implementer") {
		t.Errorf("unexpected prompts list output %q", out.String())
	}
}

func TestCompileValidateScaffoldRoundTrip(t *testing.T) {
	root := testutil.TempDir(t, "cli-*")
	testutil.WriteFile(t, filepath.Join(root, "bpel", "PingProcess.bpel"), pingProcess)

	require.NoError(t, RunCompile(root, "", false, false, 0))

	summaryPath := filepath.Join(root, "summaries", "PingProcess.json")
	require.NoError(t, RunValidate([]string{summaryPath}))
	require.NoError(t, RunValidate([]string{root}))

	outDir := filepath.Join(root, "generated")
	opts := spring.Options{GroupID: "com.acme", BasePackage: "com.acme.ping", OutputDir: outDir}
	require.NoError(t, RunScaffold(summaryPath, opts, true, false, false)) // dry run writes nothing
	require.NoError(t, RunScaffold(summaryPath, opts, false, false, false))
}

func TestRunCompileNoSources(t *testing.T) {
	root := testutil.TempDir(t, "cli-*")
	if err := RunCompile(root, "", false, false, 0); err == nil {
		t.Error("expected an error when no .bpel files exist")
	}
}

func TestRunValidateRejectsBrokenSummary(t *testing.T) {
	root := testutil.TempDir(t, "cli-*")
	path := filepath.Join(root, "summaries", "broken.json")
	testutil.WriteFile(t, path, `{"process": {"name": ""}}`)

	if err := RunValidate([]string{path}); err == nil {
		t.Error("expected validation to fail for a broken summary")
	}
}
