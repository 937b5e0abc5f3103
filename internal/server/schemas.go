package server

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// schemaBaseURL is the base of the resource URLs, so schemas can refer to
// each other through relative $ref values.
const schemaBaseURL = "https://immo-invest.local/schemas/"

// Request schema names.
const (
	schemaPropertyInput  = "property-input"
	schemaDealScore      = "deal-score"
	schemaBreakEven      = "break-even"
	schemaExitStrategy   = "exit-strategy"
	schemaRenovation     = "renovation"
	schemaLocation       = "location"
	schemaMonteCarlo     = "monte-carlo"
	schemaSolver         = "solver"
	schemaCredentials    = "credentials"
	schemaPortfolioEntry = "portfolio-entry"
)

// compileSchemas compiles every embedded schema, keyed by file name without
// the extension.
func compileSchemas() (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	entries, err := fs.ReadDir(schemaFiles, "schemas")
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		file, err := schemaFiles.Open(path.Join("schemas", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to open schema %s: %w", entry.Name(), err)
		}
		err = compiler.AddResource(schemaBaseURL+entry.Name(), file)
		_ = file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to add schema %s: %w", entry.Name(), err)
		}
		names = append(names, entry.Name())
	}

	compiled := make(map[string]*jsonschema.Schema, len(names))
	for _, name := range names {
		schema, err := compiler.Compile(schemaBaseURL + name)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		compiled[strings.TrimSuffix(name, ".json")] = schema
	}
	return compiled, nil
}

// validateJSON checks body against the named schema and returns the decoded
// document.
func validateJSON(schemas map[string]*jsonschema.Schema, name string, body []byte) (interface{}, error) {
	schema, ok := schemas[name]
	if !ok {
		return nil, fmt.Errorf("schema %s not found", name)
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("request body is not valid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("request does not match schema %s: %w", name, err)
	}
	return doc, nil
}
