package schema

import (
	"bytes"
	"testing"
)

func TestEncodeHeaderMatchesSpecExample(t *testing.T) {
	fields := []HeaderField{
		{Name: "a", Length: 4},
		{Name: "bb", Length: 8},
	}

	got := EncodeHeader(fields)
	want := []byte{
		0x01, 0x00, // field_count - 1 = 1
		0x00, 0x61, 0x03, 0x00, // "a", length 4
		0x01, 0x62, 0x62, 0x07, 0x00, // "bb", length 8
	}

	if !bytes.Equal(got, want) {
		t.Fatalf("EncodeHeader() = % x, want % x", got, want)
	}
}

func TestDecodeHeaderRoundTrip(t *testing.T) {
	fields := []HeaderField{
		{Name: "a", Length: 4},
		{Name: "bb", Length: 8},
		{Name: "long_field_name", Length: 256},
	}

	buf := EncodeHeader(fields)
	got, size, err := DecodeHeader(buf)
	if err != nil {
		t.Fatal(err)
	}
	if size != len(buf) {
		t.Fatalf("DecodeHeader consumed %d bytes, want %d", size, len(buf))
	}
	if len(got) != len(fields) {
		t.Fatalf("got %d fields, want %d", len(got), len(fields))
	}
	for i := range fields {
		if !got[i].Equal(fields[i]) {
			t.Errorf("field %d: got %+v, want %+v", i, got[i], fields[i])
		}
	}
}

func TestDecodeHeaderRejectsTruncatedBuffer(t *testing.T) {
	fields := []HeaderField{{Name: "a", Length: 4}}
	buf := EncodeHeader(fields)

	if _, _, err := DecodeHeader(buf[:len(buf)-1]); err == nil {
		t.Fatal("expected an error decoding a truncated header")
	}
}

func TestHeaderSizeMatchesEncodedLength(t *testing.T) {
	fields := []HeaderField{
		{Name: "a", Length: 4},
		{Name: "bb", Length: 8},
	}
	if got, want := HeaderSize(fields), len(EncodeHeader(fields)); got != want {
		t.Fatalf("HeaderSize() = %d, want %d", got, want)
	}
}
