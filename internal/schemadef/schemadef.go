// Package schemadef parses a YAML schema description into the
// registration triples FuziotDB's core accepts (spec.md §6 "Registration
// interface consumed from host"), so the CLI tool and tests can declare a
// type's fields in a file instead of hand-writing schema.FieldSpec
// literals. Grounded on the teacher's small single-purpose data-shuttling
// CLI utilities (tools/entities/dump_entity.go), using gopkg.in/yaml.v2.
package schemadef

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/Adloeth/FuziotDB/codec"
	"github.com/Adloeth/FuziotDB/ferr"
	"github.com/Adloeth/FuziotDB/schema"
)

// FieldDef is one field entry in a YAML schema file.
type FieldDef struct {
	Name   string `yaml:"name"`
	Codec  string `yaml:"codec"`
	Length int    `yaml:"length"` // declared element count; ignored for fixed codecs
}

// Def is a whole YAML schema file: the type's name, its fields in order,
// and whether registering it should migrate an existing file on a header
// mismatch rather than fail (spec.md §6's "upgrade: bool flag").
type Def struct {
	Name    string     `yaml:"name"`
	Upgrade bool       `yaml:"upgrade"`
	Fields  []FieldDef `yaml:"fields"`
}

// Load reads and parses a YAML schema file at path.
func Load(path string) (*Def, error) {
	const op = "schemadef.Load"
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferr.Wrap(ferr.Io, op, err)
	}

	var def Def
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, ferr.Wrap(ferr.InvalidSchema, op, err)
	}
	return &def, nil
}

// FieldSpecs resolves def's codec names against registry, producing the
// []schema.FieldSpec that record.Open and schema.BuildFields accept.
func (def *Def) FieldSpecs(registry *codec.Registry) ([]schema.FieldSpec, error) {
	const op = "schemadef.FieldSpecs"
	specs := make([]schema.FieldSpec, len(def.Fields))
	for i, fd := range def.Fields {
		c, ok := registry.Lookup(fd.Codec)
		if !ok {
			return nil, ferr.New(ferr.InvalidSchema, op, fmt.Sprintf("field %q: unknown codec %q", fd.Name, fd.Codec))
		}
		specs[i] = schema.FieldSpec{Name: fd.Name, Codec: c, DeclaredLength: fd.Length}
	}
	return specs, nil
}
