package config

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchema describes the accepted configuration shape. Unknown keys
// are allowed so newer config files keep working with older binaries.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "cors_origin": {"type": "string"},
    "catalog": {
      "type": "object",
      "properties": {
        "endpoint": {"type": "string"}
      }
    },
    "google_books": {
      "type": "object",
      "properties": {
        "api_key": {"type": "string"}
      }
    },
    "shelf": {
      "type": "object",
      "properties": {
        "books_per_shelf": {"type": "integer", "minimum": 1},
        "total_shelves": {"type": "integer", "minimum": 1}
      }
    },
    "neo4j": {
      "type": "object",
      "properties": {
        "uri": {"type": "string"},
        "username": {"type": "string"},
        "password": {"type": "string"},
        "manage_container": {"type": "boolean"},
        "container": {
          "type": "object",
          "properties": {
            "name": {"type": "string"},
            "image": {"type": "string"},
            "bolt_port": {"type": "string"},
            "http_port": {"type": "string"}
          }
        }
      }
    },
    "sqlite": {
      "type": "object",
      "properties": {
        "path": {"type": "string"}
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString("config.schema.json", configSchema)

// ValidateSettings checks a settings map against the config schema.
// The map is round-tripped through JSON because the validator operates
// on JSON-decoded values.
func ValidateSettings(settings map[string]any) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding settings: %w", err)
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}
