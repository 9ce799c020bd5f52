package persistence

import "github.com/invopop/jsonschema"

// Schema describes the save record for editors and external validators
// Nothing is required since loading degrades missing fields to defaults
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(new(Record))
	schema.Title = "Clicky save record"
	schema.Description = "Durable game state written by the clicky persistence gateway"
	return schema
}
