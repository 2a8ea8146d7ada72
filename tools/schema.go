package tools

import (
	"github.com/invopop/jsonschema"

	"voicecore/common"
)

var reflector = &jsonschema.Reflector{DoNotReference: true}

// SchemaOf reflects a Go struct into the JSON-Schema a tool advertises to a
// model. Pass a pointer to a zero value, e.g. SchemaOf(&getWeatherArgs{}).
func SchemaOf(argsStruct any) *jsonschema.Schema {
	return reflector.Reflect(argsStruct)
}

// NoArgsSchema is the schema for a tool that takes no parameters.
func NoArgsSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
}

// ToSchema converts a registered Handler into the wire-facing,
// vendor-neutral ToolSchema.
func ToSchema(h Handler) common.ToolSchema {
	return common.ToolSchema{
		Name:        h.Name(),
		Description: h.Description(),
		Parameters:  h.ParametersSchema(),
	}
}
