package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Dicklesworthstone/gv/pkg/model"
)

const schemaURL = "grievances.schema.json"

var (
	timestampType = reflect.TypeOf(model.Timestamp{})
	statusType    = reflect.TypeOf(model.Status(""))
)

// Schema returns the JSON Schema (draft 2020-12) describing the data file
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case timestampType:
				return &jsonschema.Schema{Type: "string", Format: "date-time"}
			case statusType:
				return &jsonschema.Schema{
					Type: "string",
					Enum: []any{string(model.StatusOpen), string(model.StatusResolved)},
				}
			}
			return nil
		},
	}
	s := reflector.Reflect(&[]model.Grievance{})
	s.Title = "Grievances"
	s.Description = "Grievance tracker data file"

	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return out, nil
}

// Validate checks a raw data file against Schema. An empty document counts
// as an empty collection.
func Validate(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	raw, err := Schema()
	if err != nil {
		return err
	}

	compiler := validator.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader(raw)); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := compiler.Compile(schemaURL)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	return sch.Validate(doc)
}
