package sp

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/gtasks2sp/internal/utils"
)

// embeddedSchemaURL names the bundled schema resource inside the compiler.
const embeddedSchemaURL = "https://github.com/nibzard/gtasks2sp/schemas/backup.schema.json"

//go:embed backup.schema.json
var backupSchemaJSON []byte

// compileEmbeddedSchema compiles the bundled backup.schema.json.
func compileEmbeddedSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(embeddedSchemaURL, bytes.NewReader(backupSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add embedded schema: %w", err)
	}
	return compiler.Compile(embeddedSchemaURL)
}

// compileSchemaFile compiles a JSON Schema from disk.
func compileSchemaFile(path string) (*jsonschema.Schema, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid schema path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("schema file not found: %s", absPath)
		}
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	schema, err := compiler.Compile(absPath)
	if err != nil {
		return nil, fmt.Errorf("invalid schema file: %w", err)
	}
	return schema, nil
}

// validateWithSchema checks the encoded backup against a JSON Schema.
// A schema that cannot be loaded produces a warning, not an error.
func validateWithSchema(b *Backup, opts ValidationOptions, result *ValidationResult) {
	var (
		schema *jsonschema.Schema
		err    error
	)
	if opts.SchemaPath != "" {
		schema, err = compileSchemaFile(opts.SchemaPath)
	} else {
		schema, err = compileEmbeddedSchema()
	}
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		return
	}

	result.UsedSchema = true

	// Round-trip through JSON so the schema sees exactly what would be written.
	var buf bytes.Buffer
	if err := b.Encode(&buf); err != nil {
		result.add("", "failed to marshal backup for validation: %v", err)
		return
	}
	var doc interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		result.add("", "failed to unmarshal backup for validation: %v", err)
		return
	}

	if err := schema.Validate(doc); err != nil {
		appendSchemaErrors(result, err)
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	result.Valid = false

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("schema: %s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
