package spring

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/goccy/go-yaml"

	"github.com/bpelmig/bpelmig/pkg/logger"
	"github.com/bpelmig/bpelmig/pkg/prd"
)

var emitLog = logger.New("spring:emit")

// springBootVersion is the parent version pinned into generated POMs.
const springBootVersion = "3.3.4"

var pomTemplate = template.Must(template.New("pom").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0"
         xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
         xsi:schemaLocation="http://maven.apache.org/POM/4.0.0 http://maven.apache.org/xsd/maven-4.0.0.xsd">
  <modelVersion>4.0.0</modelVersion>

  <parent>
    <groupId>org.springframework.boot</groupId>
    <artifactId>spring-boot-starter-parent</artifactId>
    <version>{{.BootVersion}}</version>
    <relativePath/>
  </parent>

  <groupId>{{.GroupID}}</groupId>
  <artifactId>{{.ArtifactID}}</artifactId>
  <version>0.1.0-SNAPSHOT</version>
  <name>{{.ArtifactID}}</name>
  <description>Migrated from BPEL process {{.ProcessName}}</description>

  <properties>
    <java.version>21</java.version>
  </properties>

  <dependencies>
    <dependency>
      <groupId>org.springframework.boot</groupId>
      <artifactId>spring-boot-starter-web</artifactId>
    </dependency>
    <dependency>
      <groupId>org.springframework.boot</groupId>
      <artifactId>spring-boot-starter-validation</artifactId>
    </dependency>
    <dependency>
      <groupId>org.springframework.boot</groupId>
      <artifactId>spring-boot-starter-test</artifactId>
      <scope>test</scope>
    </dependency>
  </dependencies>

  <build>
    <plugins>
      <plugin>
        <groupId>org.springframework.boot</groupId>
        <artifactId>spring-boot-maven-plugin</artifactId>
      </plugin>
    </plugins>
  </build>
</project>
`))

func renderPOM(summary *prd.Summary, opts Options) (string, error) {
	var sb strings.Builder
	err := pomTemplate.Execute(&sb, struct {
		Options
		BootVersion string
		ProcessName string
	}{Options: opts, BootVersion: springBootVersion, ProcessName: summary.Process.Name})
	if err != nil {
		return "", fmt.Errorf("failed to render pom.xml: %w", err)
	}
	return sb.String(), nil
}

// renderApplicationYML produces the configuration block: application name,
// one endpoint entry per outbound partner link, and timeouts derived from
// wait activities when present. MapSlice keeps key order stable across runs.
func renderApplicationYML(summary *prd.Summary, opts Options) (string, error) {
	partners := yaml.MapSlice{}
	for _, pl := range summary.PartnerLinks {
		if pl.PartnerRole == "" {
			continue
		}
		partners = append(partners, yaml.MapItem{
			Key: pl.Name,
			Value: yaml.MapSlice{
				{Key: "url", Value: fmt.Sprintf("http://CHANGE-ME/%s", kebabCase(pl.Name))},
				{Key: "connect-timeout", Value: "5s"},
				{Key: "read-timeout", Value: "30s"},
			},
		})
	}

	doc := yaml.MapSlice{
		{Key: "spring", Value: yaml.MapSlice{
			{Key: "application", Value: yaml.MapSlice{
				{Key: "name", Value: opts.ArtifactID},
			}},
		}},
		{Key: "bpelmig", Value: yaml.MapSlice{
			{Key: "source-process", Value: summary.Process.Name},
			{Key: "source-hash", Value: summary.Process.SourceHash},
		}},
	}
	if len(partners) > 0 {
		doc = append(doc, yaml.MapItem{Key: "partners", Value: partners})
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to render application.yml: %w", err)
	}
	return string(out), nil
}

// renderMigrationPlan writes the implementer worklist that stands in for
// generated Java code.
func renderMigrationPlan(summary *prd.Summary, opts Options, classes []PlannedClass) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Migration plan: %s\n\n", summary.Process.Name)
	fmt.Fprintf(&sb, "Skeleton for `%s` generated from summary of `%s`.\n", opts.ArtifactID, summary.Process.SourceFile)
	sb.WriteString("Class bodies are intentionally not generated; fill them in guided by the\nrequirements document and the implementer prompt (`bpelmig prompts render implementer`).\n\n")

	sb.WriteString("## Planned classes\n\n")
	sb.WriteString("| Package | Class | Purpose |\n| --- | --- | --- |\n")
	for _, class := range classes {
		fmt.Fprintf(&sb, "| `%s.%s` | %s | %s |\n", opts.BasePackage, class.Package, class.Name, class.Purpose)
	}
	sb.WriteString("\n")

	if len(summary.Gaps) > 0 {
		fmt.Fprintf(&sb, "## Open gaps to resolve before implementation\n\n")
		for _, gap := range summary.Gaps {
			fmt.Fprintf(&sb, "- **%s** (%s): %s\n", gap.ID, gap.Risk, gap.Question)
		}
		sb.WriteString("\n")
	}

	if len(summary.Correlations) > 0 {
		sb.WriteString("## Correlation notes\n\n")
		sb.WriteString("The source process used correlation sets to route messages to running\ninstances. In the target architecture, carry the equivalent business keys\nexplicitly:\n\n")
		for _, set := range summary.Correlations {
			fmt.Fprintf(&sb, "- `%s`: properties %s\n", set.Name, strings.Join(set.Properties, ", "))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Write materializes the plan under opts.OutputDir. Existing files are
// never overwritten unless force is set.
func (p *Plan) Write(force bool) error {
	root := p.Options.OutputDir
	emitLog.Printf("Writing skeleton to %s (force=%v)", root, force)

	for _, dir := range p.Dirs {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	for rel, content := range p.Files {
		path := filepath.Join(root, rel)
		if !force {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			}
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", rel, err)
		}
	}

	emitLog.Printf("Wrote %d files and %d directories", len(p.Files), len(p.Dirs))
	return nil
}
