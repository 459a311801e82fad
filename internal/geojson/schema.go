package geojson

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// The profile schema ships with the binary so validation never depends on
// network access or an installed schema registry.
//
//go:embed schemas/wmo-om-profile-geojson.yaml
var profileSchemaYAML []byte

// SchemaValidator checks features against the embedded WMO observation
// profile schema. The compiled schema is immutable and safe for concurrent
// use.
type SchemaValidator struct {
	schema *gojsonschema.Schema
}

// NewSchemaValidator compiles the embedded profile schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(profileSchemaYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse profile schema: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode profile schema: %w", err)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compile profile schema: %w", err)
	}
	return &SchemaValidator{schema: schema}, nil
}

// Validate serializes the feature and checks it against the profile schema.
// A non-conforming feature yields a *SchemaConformanceError naming every
// violated constraint.
func (v *SchemaValidator) Validate(f *Feature) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode feature %s: %w", f.ID, err)
	}
	return v.ValidateBytes(f.ID, raw)
}

// ValidateBytes checks a serialized feature document, for callers that
// already hold the bytes (files on disk, messages off the wire).
func (v *SchemaValidator) ValidateBytes(id string, doc []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("validate feature %s: %w", id, err)
	}
	if result.Valid() {
		return nil
	}
	causes := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		causes = append(causes, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return &SchemaConformanceError{FeatureID: id, Causes: causes}
}
