package prd

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/bpelmig/bpelmig/pkg/logger"
)

var schemaLog = logger.New("prd:schema")

//go:embed summary.schema.json
var summarySchemaJSON []byte

const summarySchemaURL = "https://bpelmig.dev/schemas/summary.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// summarySchema compiles the embedded schema once per process.
func summarySchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(summarySchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("failed to read embedded summary schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(summarySchemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("failed to register summary schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(summarySchemaURL)
	})
	return schema, schemaErr
}

// ValidateSummaryBytes validates marshalled summary JSON against the
// embedded schema. The returned error is a *jsonschema.ValidationError when
// validation itself failed, which callers can mine for instance paths.
func ValidateSummaryBytes(data []byte) error {
	compiled, err := summarySchema()
	if err != nil {
		return err
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("summary is not valid JSON: %w", err)
	}
	if err := compiled.Validate(instance); err != nil {
		schemaLog.Printf("Summary failed schema validation: %v", err)
		return err
	}
	schemaLog.Print("Summary passed schema validation")
	return nil
}
