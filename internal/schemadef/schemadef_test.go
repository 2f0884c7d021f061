package schemadef

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Adloeth/FuziotDB/codec"
)

func writeTestYAML(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "widget.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadParsesFieldsInOrder(t *testing.T) {
	path := writeTestYAML(t, `
name: Widget
upgrade: true
fields:
  - name: id
    codec: uint64
  - name: label
    codec: ascii
    length: 16
`)

	def, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if def.Name != "Widget" || !def.Upgrade {
		t.Fatalf("got %+v", def)
	}
	if len(def.Fields) != 2 || def.Fields[1].Length != 16 {
		t.Fatalf("got fields %+v", def.Fields)
	}
}

func TestFieldSpecsResolvesCodecsFromRegistry(t *testing.T) {
	path := writeTestYAML(t, `
name: Widget
fields:
  - name: id
    codec: uint64
  - name: label
    codec: ascii
    length: 16
`)

	def, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	specs, err := def.FieldSpecs(codec.Default())
	if err != nil {
		t.Fatalf("FieldSpecs: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("got %d specs, want 2", len(specs))
	}
	if specs[0].Codec.Name() != "uint64" || specs[1].Codec.Name() != "ascii" {
		t.Fatalf("got codecs %q/%q", specs[0].Codec.Name(), specs[1].Codec.Name())
	}
}

func TestFieldSpecsRejectsUnknownCodec(t *testing.T) {
	path := writeTestYAML(t, `
name: Widget
fields:
  - name: id
    codec: nonsense
`)

	def, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := def.FieldSpecs(codec.Default()); err == nil {
		t.Fatal("expected error for unknown codec name")
	}
}
