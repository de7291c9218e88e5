package config

import (
	"embed"
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed conventions.cue
var schemaFS embed.FS

// Validator checks convention tables against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schemaBytes, err := schemaFS.ReadFile("conventions.cue")
	if err != nil {
		return nil, fmt.Errorf("loading embedded schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaBytes)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	return &Validator{ctx: ctx, schema: schema}, nil
}

func (v *Validator) unify(c *Conventions) (cue.Value, error) {
	jsonBytes, err := json.Marshal(c)
	if err != nil {
		return cue.Value{}, fmt.Errorf("marshaling conventions to JSON: %w", err)
	}

	data := v.ctx.CompileBytes(jsonBytes)
	if data.Err() != nil {
		return cue.Value{}, fmt.Errorf("compiling conventions as CUE: %w", data.Err())
	}

	def := v.schema.LookupPath(cue.ParsePath("#Conventions"))
	if def.Err() != nil {
		return cue.Value{}, fmt.Errorf("looking up #Conventions definition: %w", def.Err())
	}
	return def.Unify(data), nil
}

// Validate returns nil when c conforms to the schema.
func (v *Validator) Validate(c *Conventions) error {
	unified, err := v.unify(c)
	if err != nil {
		return err
	}
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// Errors lists every schema violation in c, one message per problem.
func (v *Validator) Errors(c *Conventions) []string {
	unified, err := v.unify(c)
	if err != nil {
		return []string{err.Error()}
	}
	err = unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}
	var out []string
	for _, e := range errors.Errors(err) {
		out = append(out, e.Error())
	}
	return out
}
