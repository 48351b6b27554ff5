package utils

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// JSONSchema reflects the JSON schema of a config value. Field docs come
// from jsonschema struct tags.
func JSONSchema(config any) (string, error) {
	reflector := &jsonschema.Reflector{
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
	}

	schema, err := json.MarshalIndent(reflector.Reflect(config), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schema), nil
}
