package schema

import (
	"testing"

	"github.com/Adloeth/FuziotDB/codec"
)

func TestReconcileReordersToDiskOrder(t *testing.T) {
	declared, err := BuildFields([]FieldSpec{
		{Name: "b", Codec: codec.Int32Codec{}},
		{Name: "a", Codec: codec.Int32Codec{}},
	})
	if err != nil {
		t.Fatal(err)
	}

	onDisk := []HeaderField{
		{Name: "a", Length: 4},
		{Name: "b", Length: 4},
	}

	reordered, err := Reconcile("schema.Register", declared, onDisk, false)
	if err != nil {
		t.Fatal(err)
	}
	if reordered[0].Name != "a" || reordered[1].Name != "b" {
		t.Fatalf("got order %v, want [a b] (on-disk order is authoritative)", reordered)
	}
}

func TestReconcileRejectsMismatchWithoutUpgrade(t *testing.T) {
	declared, _ := BuildFields([]FieldSpec{{Name: "a", Codec: codec.Int32Codec{}}})
	onDisk := []HeaderField{{Name: "a", Length: 4}, {Name: "b", Length: 4}}

	if _, err := Reconcile("schema.Register", declared, onDisk, false); err == nil {
		t.Fatal("expected HeaderMismatch")
	}
}

func TestNewTypeComputesSlotSize(t *testing.T) {
	fields, _ := BuildFields([]FieldSpec{
		{Name: "a", Codec: codec.Int32Codec{}},
		{Name: "bb", Codec: codec.ASCIICodec{}, DeclaredLength: 8},
	})
	ty := NewType("widget", fields)

	if want := 1 + 4 + 8; ty.SlotSize != want {
		t.Fatalf("SlotSize = %d, want %d", ty.SlotSize, want)
	}
	if ty.HeaderSize != len(EncodeHeader(ty.Headers())) {
		t.Fatalf("HeaderSize mismatch")
	}
}
