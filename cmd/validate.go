// CUE schema validation of config files
package cmd

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var configSchema string

// schemaDefinition is the closed definition config files must satisfy.
const schemaDefinition = "#Config"

// ValidateWithCue checks YAML config bytes against the embedded CUE schema.
// Unknown keys, wrong types and out-of-range values are all rejected here,
// before the file is decoded.
func ValidateWithCue(data []byte) error {
	ctx := cuecontext.New()

	schemaVal := ctx.CompileString(configSchema)
	if err := schemaVal.Err(); err != nil {
		return fmt.Errorf("cannot compile CUE schema: %w", err)
	}
	def := schemaVal.LookupPath(cue.ParsePath(schemaDefinition))
	if err := def.Err(); err != nil {
		return fmt.Errorf("CUE schema has no %s definition: %w", schemaDefinition, err)
	}

	if err := yaml.Validate(data, def); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
