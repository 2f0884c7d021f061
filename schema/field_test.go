package schema

import (
	"errors"
	"testing"

	"github.com/Adloeth/FuziotDB/codec"
	"github.com/Adloeth/FuziotDB/ferr"
)

func TestBuildFieldsComputesFixedLength(t *testing.T) {
	fields, err := BuildFields([]FieldSpec{
		{Name: "a", Codec: codec.Int32Codec{}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if fields[0].Length != 4 {
		t.Fatalf("got length %d, want 4", fields[0].Length)
	}
}

func TestBuildFieldsMultipliesFlexibleElementCount(t *testing.T) {
	fields, err := BuildFields([]FieldSpec{
		{Name: "bb", Codec: codec.ASCIICodec{}, DeclaredLength: 8},
	})
	if err != nil {
		t.Fatal(err)
	}
	if fields[0].Length != 8 {
		t.Fatalf("got length %d, want 8 (ascii is 1 byte/element)", fields[0].Length)
	}

	fields, err = BuildFields([]FieldSpec{
		{Name: "w", Codec: codec.UTF16Codec{}, DeclaredLength: 8},
	})
	if err != nil {
		t.Fatal(err)
	}
	if fields[0].Length != 16 {
		t.Fatalf("got length %d, want 16 (utf16 is 2 bytes/element)", fields[0].Length)
	}
}

func TestBuildFieldsRejectsEmptySchema(t *testing.T) {
	_, err := BuildFields(nil)
	assertKind(t, err, ferr.InvalidSchema)
}

func TestBuildFieldsRejectsNonASCIIName(t *testing.T) {
	_, err := BuildFields([]FieldSpec{{Name: "caf\xc3\xa9", Codec: codec.Int8Codec{}}})
	assertKind(t, err, ferr.InvalidSchema)
}

func TestBuildFieldsRejectsDuplicateName(t *testing.T) {
	_, err := BuildFields([]FieldSpec{
		{Name: "a", Codec: codec.Int8Codec{}},
		{Name: "a", Codec: codec.Int16Codec{}},
	})
	assertKind(t, err, ferr.InvalidSchema)
}

func TestBuildFieldsRejectsZeroDeclaredLengthForFlexible(t *testing.T) {
	_, err := BuildFields([]FieldSpec{{Name: "s", Codec: codec.ASCIICodec{}}})
	assertKind(t, err, ferr.InvalidSchema)
}

func assertKind(t *testing.T, err error, want ferr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error of kind %s, got nil", want)
	}
	var fe *ferr.Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected a *ferr.Error, got %T: %v", err, err)
	}
	if fe.Kind != want {
		t.Fatalf("got kind %s, want %s", fe.Kind, want)
	}
}
