//go:build !integration

package spring

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpelmig/bpelmig/pkg/testutil"
)

func TestRenderPOM(t *testing.T) {
	pom, err := renderPOM(orderSummary(), Options{
		GroupID:    "com.acme",
		ArtifactID: "order-process-service",
	})
	require.NoError(t, err)

	for _, want := range []string{
		"<groupId>com.acme</groupId>",
		"<artifactId>order-process-service</artifactId>",
		"<description>Migrated from BPEL process OrderProcess</description>",
		"<artifactId>spring-boot-starter-parent</artifactId>",
		"<version>" + springBootVersion + "</version>",
		"<java.version>21</java.version>",
		"spring-boot-starter-web",
		"spring-boot-starter-validation",
		"spring-boot-starter-test",
	} {
		if !strings.Contains(pom, want) {
			t.Errorf("pom.xml missing %q", want)
		}
	}
}

func TestRenderApplicationYML(t *testing.T) {
	yml, err := renderApplicationYML(orderSummary(), Options{ArtifactID: "order-process-service"})
	require.NoError(t, err)

	if !strings.Contains(yml, "name: order-process-service") {
		t.Errorf("missing application name in:\n%s", yml)
	}
	if !strings.Contains(yml, "source-process: OrderProcess") {
		t.Errorf("missing source process in:\n%s", yml)
	}
	if !strings.Contains(yml, "creditService:") {
		t.Errorf("missing outbound partner entry in:\n%s", yml)
	}
	if !strings.Contains(yml, "connect-timeout: 5s") || !strings.Contains(yml, "read-timeout: 30s") {
		t.Errorf("missing partner timeouts in:\n%s", yml)
	}
	// Inbound roles are endpoints we expose, not partners we call.
	if strings.Contains(yml, "\n  client:") {
		t.Errorf("inbound partner link must not appear under partners in:\n%s", yml)
	}

	// Key order is stable, so regenerated files diff cleanly.
	again, err := renderApplicationYML(orderSummary(), Options{ArtifactID: "order-process-service"})
	require.NoError(t, err)
	if yml != again {
		t.Error("application.yml rendering must be deterministic")
	}
	if strings.Index(yml, "spring:") > strings.Index(yml, "bpelmig:") {
		t.Error("expected spring block before bpelmig block")
	}
}

func TestRenderApplicationYMLNoPartners(t *testing.T) {
	summary := orderSummary()
	summary.PartnerLinks = summary.PartnerLinks[:1] // inbound only

	yml, err := renderApplicationYML(summary, Options{ArtifactID: "svc"})
	require.NoError(t, err)
	if strings.Contains(yml, "partners:") {
		t.Errorf("expected no partners block in:\n%s", yml)
	}
}

func TestRenderMigrationPlan(t *testing.T) {
	summary := orderSummary()
	opts := Options{ArtifactID: "order-process-service", BasePackage: "com.acme.orders"}
	plan := renderMigrationPlan(summary, opts, planClasses(summary))

	for _, want := range []string{
		"# Migration plan: OrderProcess",
		"| Package | Class | Purpose |",
		"`com.acme.orders.service` | OrderProcessService",
		"## Open gaps to resolve before implementation",
		"GAP-human-task-001",
		"## Correlation notes",
		"`OrderCorrelation`",
	} {
		if !strings.Contains(plan, want) {
			t.Errorf("migration plan missing %q", want)
		}
	}
}

func TestPlanWrite(t *testing.T) {
	outDir := filepath.Join(testutil.TempDir(t, "emit-*"), "module")
	plan, err := BuildPlan(orderSummary(), Options{OutputDir: outDir})
	require.NoError(t, err)

	require.NoError(t, plan.Write(false))

	pom, err := os.ReadFile(filepath.Join(outDir, "pom.xml"))
	require.NoError(t, err)
	if !strings.Contains(string(pom), "<modelVersion>4.0.0</modelVersion>") {
		t.Error("written pom.xml looks wrong")
	}
	if _, err := os.Stat(filepath.Join(outDir, "src", "main", "resources", "application.yml")); err != nil {
		t.Errorf("missing application.yml: %v", err)
	}
	info, err := os.Stat(filepath.Join(outDir, "src", "main", "java", "com", "example", "orderprocess", "service"))
	require.NoError(t, err)
	if !info.IsDir() {
		t.Error("expected the service package directory")
	}

	// A second write without force must refuse to clobber.
	err = plan.Write(false)
	if err == nil || !strings.Contains(err.Error(), "--force") {
		t.Errorf("expected an overwrite refusal, got %v", err)
	}
	require.NoError(t, plan.Write(true))
}
