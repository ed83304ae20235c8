package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bpelmig/bpelmig/pkg/logger"
)

var discoverLog = logger.New("parser:discover")

// ProjectLayout is the conventional input layout: bpel/*.bpel with optional
// sibling wsdl/ and xsd/ directories. Files found directly in the root are
// also accepted for flat exports.
type ProjectLayout struct {
	Root         string
	ProcessFiles []string
	WSDLFiles    []string
	XSDFiles     []string
}

// DiscoverProject locates BPEL, WSDL and XSD files under root.
func DiscoverProject(root string) (*ProjectLayout, error) {
	discoverLog.Printf("Discovering project layout under %s", root)

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read project root: %w", err)
	}
	if !info.IsDir() {
		if strings.HasSuffix(root, ".bpel") {
			return &ProjectLayout{Root: filepath.Dir(root), ProcessFiles: []string{root}}, nil
		}
		return nil, fmt.Errorf("%s is not a directory or .bpel file", root)
	}

	layout := &ProjectLayout{Root: root}
	layout.ProcessFiles = globSorted(filepath.Join(root, "bpel", "*.bpel"), filepath.Join(root, "*.bpel"))
	layout.WSDLFiles = globSorted(filepath.Join(root, "wsdl", "*.wsdl"), filepath.Join(root, "*.wsdl"))
	layout.XSDFiles = globSorted(filepath.Join(root, "xsd", "*.xsd"), filepath.Join(root, "*.xsd"))

	discoverLog.Printf("Discovered %d process, %d wsdl, %d xsd files",
		len(layout.ProcessFiles), len(layout.WSDLFiles), len(layout.XSDFiles))
	return layout, nil
}

// LoadCatalog parses every discovered WSDL and XSD file into a service
// catalog. Unparseable documents are returned as warnings rather than
// failing the whole run; the affected partner links and variables surface
// as gaps instead.
func (l *ProjectLayout) LoadCatalog() (*ServiceCatalog, []error) {
	var wsdls []*WSDL
	var xsds []*XSD
	var warnings []error
	for _, path := range l.WSDLFiles {
		wsdl, err := ParseWSDLFile(path)
		if err != nil {
			discoverLog.Printf("Skipping unparseable WSDL %s: %v", path, err)
			warnings = append(warnings, fmt.Errorf("skipping %s: %w", path, err))
			continue
		}
		wsdls = append(wsdls, wsdl)
	}
	for _, path := range l.XSDFiles {
		xsd, err := ParseXSDFile(path)
		if err != nil {
			discoverLog.Printf("Skipping unparseable XSD %s: %v", path, err)
			warnings = append(warnings, fmt.Errorf("skipping %s: %w", path, err))
			continue
		}
		xsds = append(xsds, xsd)
	}
	return NewServiceCatalog(wsdls, xsds), warnings
}

func globSorted(patterns ...string) []string {
	var out []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		out = append(out, matches...)
	}
	sort.Strings(out)
	return out
}
