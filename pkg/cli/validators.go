package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bpelmig/bpelmig/pkg/config"
)

// configFileName names the per-project configuration file for help text.
func configFileName() string {
	return config.FileName
}

var (
	javaIdentifierRe = regexp.MustCompile(`^[a-zA-Z_$][a-zA-Z0-9_$]*$`)
	artifactIDRe     = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// javaReservedWords are identifiers that cannot appear as package segments.
var javaReservedWords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true,
	"byte": true, "case": true, "catch": true, "char": true, "class": true,
	"const": true, "continue": true, "default": true, "do": true,
	"double": true, "else": true, "enum": true, "extends": true,
	"final": true, "finally": true, "float": true, "for": true, "goto": true,
	"if": true, "implements": true, "import": true, "instanceof": true,
	"int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true,
	"public": true, "return": true, "short": true, "static": true,
	"strictfp": true, "super": true, "switch": true, "synchronized": true,
	"this": true, "throw": true, "throws": true, "transient": true,
	"try": true, "void": true, "volatile": true, "while": true,
}

// ValidateBasePackage checks a dotted Java package name.
func ValidateBasePackage(pkg string) error {
	if strings.TrimSpace(pkg) == "" {
		return fmt.Errorf("base package must not be empty")
	}
	for _, segment := range strings.Split(pkg, ".") {
		if segment == "" {
			return fmt.Errorf("base package %q has an empty segment", pkg)
		}
		if !javaIdentifierRe.MatchString(segment) {
			return fmt.Errorf("base package segment %q is not a valid Java identifier", segment)
		}
		if javaReservedWords[segment] {
			return fmt.Errorf("base package segment %q is a Java reserved word", segment)
		}
	}
	return nil
}

// ValidateGroupID checks a Maven groupId. Maven allows the same shape as a
// Java package.
func ValidateGroupID(groupID string) error {
	if err := ValidateBasePackage(groupID); err != nil {
		return fmt.Errorf("invalid groupId: %w", err)
	}
	return nil
}

// ValidateArtifactID checks a Maven artifactId against the conventional
// lower-kebab shape.
func ValidateArtifactID(artifactID string) error {
	if strings.TrimSpace(artifactID) == "" {
		return fmt.Errorf("artifactId must not be empty")
	}
	if !artifactIDRe.MatchString(artifactID) {
		return fmt.Errorf("artifactId %q must be lower-case kebab-case (letters, digits, single dashes)", artifactID)
	}
	return nil
}
