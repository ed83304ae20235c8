//go:build !integration

package spring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpelmig/bpelmig/pkg/bpel"
	"github.com/bpelmig/bpelmig/pkg/prd"
)

func orderSummary() *prd.Summary {
	return &prd.Summary{
		Process: prd.ProcessMeta{
			Name:            "OrderProcess",
			TargetNamespace: "http://acme.example/bpel/order",
			Version:         "2.0",
			SourceFile:      "bpel/OrderProcess.bpel",
			SourceHash:      strings.Repeat("ab", 32),
			RunID:           "run-1",
		},
		PartnerLinks: []bpel.PartnerLink{
			{Name: "client", PartnerLinkType: "tns:OrderPLT", MyRole: "OrderProvider"},
			{Name: "creditService", PartnerLinkType: "tns:CreditPLT", PartnerRole: "CreditChecker", PortType: "tns:CreditCheckerPT"},
		},
		Variables: []bpel.Variable{
			{Name: "orderRequest", MessageType: "tns:OrderRequestMessage"},
			{Name: "orderCopy", MessageType: "tns:OrderRequestMessage"},
			{Name: "status", Element: "tns:OrderStatus"},
			{Name: "counter", Type: "xsd:int"},
		},
		Faults: []prd.Fault{
			{FaultName: "tns:creditDenied", FaultVariable: "fault"},
			{CatchAll: true},
		},
		Correlations: []bpel.CorrelationSet{
			{Name: "OrderCorrelation", Properties: []string{"tns:orderId"}},
		},
		Gaps: []bpel.Gap{
			{ID: "GAP-human-task-001", Category: bpel.GapHumanTask, Question: "who approves?", Risk: "high"},
		},
	}
}

func classNames(plan *Plan, pkg string) []string {
	var names []string
	for _, class := range plan.PlannedClasses {
		if class.Package == pkg {
			names = append(names, class.Name)
		}
	}
	return names
}

func TestBuildPlanDefaults(t *testing.T) {
	plan, err := BuildPlan(orderSummary(), Options{})
	require.NoError(t, err)

	if plan.Options.ArtifactID != "order-process-service" {
		t.Errorf("unexpected artifactId %q", plan.Options.ArtifactID)
	}
	if plan.Options.GroupID != "com.example" {
		t.Errorf("unexpected groupId %q", plan.Options.GroupID)
	}
	if plan.Options.BasePackage != "com.example.orderprocess" {
		t.Errorf("unexpected base package %q", plan.Options.BasePackage)
	}
	if plan.Options.OutputDir != "order-process-service" {
		t.Errorf("unexpected output dir %q", plan.Options.OutputDir)
	}
}

func TestBuildPlanLayout(t *testing.T) {
	plan, err := BuildPlan(orderSummary(), Options{BasePackage: "com.acme.orders"})
	require.NoError(t, err)

	wantDirs := []string{
		"src/main/java/com/acme/orders/controller",
		"src/main/java/com/acme/orders/service",
		"src/main/java/com/acme/orders/client",
		"src/main/java/com/acme/orders/model",
		"src/main/java/com/acme/orders/exception",
		"src/main/java/com/acme/orders/config",
		"src/main/resources",
		"src/test/java/com/acme/orders",
	}
	have := map[string]bool{}
	for _, dir := range plan.Dirs {
		have[strings.ReplaceAll(dir, "\\", "/")] = true
	}
	for _, dir := range wantDirs {
		if !have[dir] {
			t.Errorf("missing planned directory %s (have %v)", dir, plan.Dirs)
		}
	}

	for _, file := range []string{"pom.xml", "MIGRATION.md"} {
		if plan.Files[file] == "" {
			t.Errorf("missing planned file %s", file)
		}
	}
	foundYML := false
	for path := range plan.Files {
		if strings.HasSuffix(path, "application.yml") {
			foundYML = true
		}
	}
	if !foundYML {
		t.Error("missing planned application.yml")
	}
}

func TestPlanClasses(t *testing.T) {
	plan, err := BuildPlan(orderSummary(), Options{})
	require.NoError(t, err)

	if got := classNames(plan, "service"); len(got) != 1 || got[0] != "OrderProcessService" {
		t.Errorf("unexpected service classes %v", got)
	}
	if got := classNames(plan, "controller"); len(got) != 1 || got[0] != "ClientController" {
		t.Errorf("unexpected controller classes %v", got)
	}
	if got := classNames(plan, "client"); len(got) != 1 || got[0] != "CreditServiceClient" {
		t.Errorf("unexpected client classes %v", got)
	}

	models := classNames(plan, "model")
	if len(models) != 2 {
		t.Errorf("expected deduplicated models for two distinct shapes, got %v", models)
	}
	joined := strings.Join(models, ",")
	if !strings.Contains(joined, "OrderRequestMessage") || !strings.Contains(joined, "OrderStatus") {
		t.Errorf("unexpected model classes %v", models)
	}

	if got := classNames(plan, "exception"); len(got) != 1 || got[0] != "CreditDeniedException" {
		t.Errorf("expected one exception for the named fault, got %v", got)
	}
	if got := classNames(plan, "config"); len(got) != 1 || got[0] != "PartnerClientConfig" {
		t.Errorf("unexpected config classes %v", got)
	}
}

func TestBuildPlanRequiresProcessName(t *testing.T) {
	if _, err := BuildPlan(&prd.Summary{}, Options{}); err == nil {
		t.Error("expected an error for a summary without a process name")
	}
}

func TestPlanTree(t *testing.T) {
	plan, err := BuildPlan(orderSummary(), Options{})
	require.NoError(t, err)

	tree := plan.Tree()
	if tree.Value != "order-process-service/" {
		t.Errorf("unexpected tree root %q", tree.Value)
	}
	var top []string
	for _, child := range tree.Children {
		top = append(top, child.Value)
	}
	joined := strings.Join(top, ",")
	for _, expect := range []string{"src/", "pom.xml", "MIGRATION.md"} {
		if !strings.Contains(joined, expect) {
			t.Errorf("expected %q at the tree top level, got %v", expect, top)
		}
	}
}

func TestKebabCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"OrderProcess", "order-process"},
		{"LoanFlow2", "loan-flow2"},
		{"already-kebab", "already-kebab"},
		{"With Spaces", "with-spaces"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := kebabCase(tt.in); got != tt.want {
			t.Errorf("kebabCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPascalCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"creditService", "CreditService"},
		{"order-process", "OrderProcess"},
		{"OrderRequestMessage", "OrderRequestMessage"},
		{"with spaces", "WithSpaces"},
	}
	for _, tt := range tests {
		if got := pascalCase(tt.in); got != tt.want {
			t.Errorf("pascalCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLocalPart(t *testing.T) {
	if got := localPart("tns:OrderRequestMessage"); got != "OrderRequestMessage" {
		t.Errorf("unexpected local part %q", got)
	}
	if got := localPart("NoPrefix"); got != "NoPrefix" {
		t.Errorf("unexpected local part %q", got)
	}
}
