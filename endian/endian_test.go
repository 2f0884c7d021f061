package endian

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutUint16RoundTrip(t *testing.T) {
	require := require.New(t)

	buf := make([]byte, 2)
	PutUint16(buf, 0x0102)
	require.Equal(byte(0x02), buf[0], "low byte first on the wire")
	require.Equal(byte(0x01), buf[1])
	require.Equal(uint16(0x0102), Uint16(buf))
}

func TestPutUint64RoundTrip(t *testing.T) {
	require := require.New(t)

	buf := make([]byte, 8)
	PutUint64(buf, 0x0102030405060708)
	require.Equal(uint64(0x0102030405060708), Uint64(buf))
}

func TestNormalizeIsIdempotentOnLittleEndianHost(t *testing.T) {
	require := require.New(t)

	buf := []byte{0x01, 0x02, 0x03, 0x04}
	cp := append([]byte(nil), buf...)

	ToWire(buf, 4)
	if nativeIsLittle {
		require.Equal(cp, buf, "ToWire must be a no-op on little-endian hosts")
	}

	FromWire(buf, 4)
	require.Equal(cp, buf, "ToWire followed by FromWire must restore the original bytes")
}

func TestNormalizeIgnoresShortTail(t *testing.T) {
	require := require.New(t)

	buf := []byte{0x01, 0x02, 0x03}
	require.NotPanics(func() { ToWire(buf, 4) })
}
