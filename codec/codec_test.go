package codec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestBoolCodecMajorityRule(t *testing.T) {
	c := BoolCodec{}

	cases := []struct {
		b    byte
		want bool
	}{
		{0x00, false},
		{0xFF, true},
		{0b0000_0001, false}, // 1 bit set
		{0b0001_1111, true},  // 5 bits set
		{0b0000_1111, false}, // 4 bits set
	}
	for _, tc := range cases {
		got, err := c.DeserializeFixed([]byte{tc.b})
		if err != nil {
			t.Fatalf("DeserializeFixed(%08b): %v", tc.b, err)
		}
		if got != tc.want {
			t.Errorf("DeserializeFixed(%08b) = %v, want %v", tc.b, got, tc.want)
		}
	}
}

func TestBoolCodecSerializeCanonicalBytes(t *testing.T) {
	c := BoolCodec{}
	out, _ := c.SerializeFixed(true)
	if out[0] != 0xFF {
		t.Fatalf("true must serialize to 0xFF, got %#x", out[0])
	}
	out, _ = c.SerializeFixed(false)
	if out[0] != 0x00 {
		t.Fatalf("false must serialize to 0x00, got %#x", out[0])
	}
}

func TestUint16CodecRoundTrip(t *testing.T) {
	c := Uint16Codec{}
	buf, err := c.SerializeFixed(uint16(12345))
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.DeserializeFixed(buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != uint16(12345) {
		t.Fatalf("got %v, want 12345", got)
	}
}

func TestFixedCodecRejectsFlexPath(t *testing.T) {
	c := Int32Codec{}
	if _, err := c.SerializeFlex(int32(1), 4); err == nil {
		t.Fatal("expected UsageMismatch error")
	}
}

func TestFlexCodecRejectsFixedPath(t *testing.T) {
	c := ASCIICodec{}
	if _, err := c.SerializeFixed("x"); err == nil {
		t.Fatal("expected UsageMismatch error")
	}
}

func TestASCIICodecTruncatesAndPads(t *testing.T) {
	c := ASCIICodec{}

	out, err := c.SerializeFlex("hello world", 5)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "hello" {
		t.Fatalf("got %q, want truncated %q", out, "hello")
	}

	out, err = c.SerializeFlex("hi", 5)
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(out, []byte{'h', 'i', 0, 0, 0}) {
		t.Fatalf("got %v, want zero-padded", out)
	}

	back, err := c.DeserializeFlex(out, 5)
	if err != nil {
		t.Fatal(err)
	}
	if back != "hi" {
		t.Fatalf("got %q, want %q (trailing zeros trimmed)", back, "hi")
	}
}

func TestUTF16CodecRoundTrip(t *testing.T) {
	c := UTF16Codec{}
	const s = "héllo"

	out, err := c.SerializeFlex(s, 16)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 16 {
		t.Fatalf("expected 16 bytes, got %d", len(out))
	}

	back, err := c.DeserializeFlex(out, 16)
	if err != nil {
		t.Fatal(err)
	}
	if back != s {
		t.Fatalf("got %q, want %q", back, s)
	}
}

func TestBytesCodecRoundTrip(t *testing.T) {
	c := BytesCodec{}
	in := []byte{1, 2, 3}

	out, err := c.SerializeFlex(in, 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 6 {
		t.Fatalf("expected 6 bytes, got %d", len(out))
	}

	back, err := c.DeserializeFlex(out, 6)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{1, 2, 3, 0, 0, 0}
	if !cmp.Equal(back, want) {
		t.Fatalf("got %v, want %v", back, want)
	}
}

func TestUUIDCodecRoundTrip(t *testing.T) {
	c := UUIDCodec{}
	id := uuid.New()

	out, err := c.SerializeFixed(id)
	if err != nil {
		t.Fatal(err)
	}
	back, err := c.DeserializeFixed(out)
	if err != nil {
		t.Fatal(err)
	}
	if back.(uuid.UUID) != id {
		t.Fatalf("got %v, want %v", back, id)
	}
}

func TestBigIntCodecStoresVerbatim(t *testing.T) {
	c := BigIntCodec{}
	var n BigInt
	for i := range n {
		n[i] = byte(i)
	}

	out, err := c.SerializeFixed(n)
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range out {
		if b != byte(i) {
			t.Fatalf("byte %d: got %#x, want %#x (verbatim, no endian swap)", i, b, i)
		}
	}
}

func TestFloat16RoundTripsCommonValues(t *testing.T) {
	for _, f := range []float32{0, 1, -1, 0.5, 3.14, -100, 65504} {
		h := Float16Of(f)
		got := h.ToFloat32()
		if diff := float64(got) - float64(f); diff > 0.01 || diff < -0.01 {
			t.Errorf("Float16Of(%v).ToFloat32() = %v, too far off", f, got)
		}
	}
}

func TestFloat64CodecRoundTrip(t *testing.T) {
	c := Float64Codec{}
	out, err := c.SerializeFixed(3.14159265358979)
	if err != nil {
		t.Fatal(err)
	}
	back, err := c.DeserializeFixed(out)
	if err != nil {
		t.Fatal(err)
	}
	if back != 3.14159265358979 {
		t.Fatalf("got %v", back)
	}
}

func TestDefaultRegistryHasAllRequiredCodecs(t *testing.T) {
	r := Default()
	for _, name := range []string{
		"bool", "uint8", "uint16", "uint32", "uint64",
		"int8", "int16", "int32", "int64",
		"uuid", "bigint", "float16", "float32", "float64",
		"utf16", "ascii", "bytes",
	} {
		if _, ok := r.Lookup(name); !ok {
			t.Errorf("Default() registry missing codec %q", name)
		}
	}
}
