package inventory

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "inventory.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// DecodeError reports a body that is not a structurally valid inventory document.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode inventory: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Decode validates body against the inventory schema and decodes it.
// Shape violations and malformed JSON both surface as *DecodeError.
func Decode(body []byte) (Snapshot, error) {
	sch, err := compiledSchema()
	if err != nil {
		return Snapshot{}, &DecodeError{Err: err}
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return Snapshot{}, &DecodeError{Err: err}
	}
	if err := sch.Validate(inst); err != nil {
		return Snapshot{}, &DecodeError{Err: err}
	}

	var snap Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return Snapshot{}, &DecodeError{Err: err}
	}
	return snap, nil
}

// LoadFile reads a fallback dataset from a JSON file on disk.
func LoadFile(path string) (Snapshot, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read dataset: %w", err)
	}
	snap, err := Decode(body)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load dataset %s: %w", path, err)
	}
	return snap, nil
}
