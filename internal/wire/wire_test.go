package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"dictzip/internal/dzerr"
	"dictzip/internal/params"
)

func roundTrip(t *testing.T, data []byte) []byte {
	t.Helper()
	var compressed bytes.Buffer
	_, err := Compress(bytes.NewReader(data), &compressed)
	require.NoError(t, err)

	var decompressed bytes.Buffer
	err = Decompress(bytes.NewReader(compressed.Bytes()), &decompressed)
	require.NoError(t, err)
	return decompressed.Bytes()
}

func TestRoundTripEmptyInput(t *testing.T) {
	got := roundTrip(t, nil)
	require.Empty(t, got)
}

func TestEmptyInputHeaderIsTwoZeroBytes(t *testing.T) {
	var compressed bytes.Buffer
	_, err := Compress(bytes.NewReader(nil), &compressed)
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x00}, compressed.Bytes())
}

func TestRoundTripSingleByte(t *testing.T) {
	got := roundTrip(t, []byte{0x41})
	require.Equal(t, []byte{0x41}, got)
}

func TestRoundTripSixteenRepeatedBytes(t *testing.T) {
	data := bytes.Repeat([]byte{0x7A}, 16)
	require.Equal(t, data, roundTrip(t, data))
}

func TestRoundTripRepeatedSevenByteSequence(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefg"), 200)
	require.Equal(t, data, roundTrip(t, data))
}

func TestRoundTripBlockBoundarySpanning(t *testing.T) {
	data := make([]byte, params.Block*2+37)
	for i := range data {
		data[i] = byte(i % 251)
	}
	require.Equal(t, data, roundTrip(t, data))
}

func TestRoundTripTenThousandPseudoRandomBytes(t *testing.T) {
	data := make([]byte, 10_000)
	x := uint32(987654321)
	for i := range data {
		x = x*1664525 + 1013904223
		data[i] = byte(x >> 24)
	}
	require.Equal(t, data, roundTrip(t, data))
}

func TestCompressOutputLargerThanInputOnIncompressibleData(t *testing.T) {
	data := make([]byte, 10_000)
	x := uint32(42)
	for i := range data {
		x = x*1664525 + 1013904223
		data[i] = byte(x >> 24)
	}
	var compressed bytes.Buffer
	stats, err := Compress(bytes.NewReader(data), &compressed)
	require.NoError(t, err)
	require.Greater(t, stats.OutputBytes, stats.InputBytes)
}

func TestDecompressTruncatedHeaderCountIsCorruptStream(t *testing.T) {
	err := Decompress(bytes.NewReader([]byte{0x00}), &bytes.Buffer{})
	require.Error(t, err)
	kind, ok := dzerr.Of(err)
	require.True(t, ok)
	require.Equal(t, dzerr.CorruptStream, kind)
}

func TestDecompressTruncatedHeaderEntryIsCorruptStream(t *testing.T) {
	// N=1 used sequence claimed, but no entry bits follow at all.
	err := Decompress(bytes.NewReader([]byte{0x00, 0x01}), &bytes.Buffer{})
	require.Error(t, err)
	kind, ok := dzerr.Of(err)
	require.True(t, ok)
	require.Equal(t, dzerr.CorruptStream, kind)
}

func TestDecompressTruncatedBodyNeverExceedsOriginalLength(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefg"), 300)
	var compressed bytes.Buffer
	_, err := Compress(bytes.NewReader(data), &compressed)
	require.NoError(t, err)

	truncated := compressed.Bytes()[:len(compressed.Bytes())-1]
	var out bytes.Buffer
	_ = Decompress(bytes.NewReader(truncated), &out) // either error or short output is acceptable
	require.LessOrEqual(t, out.Len(), len(data))
}

func TestRoundTripRepeatedSequenceAmongFiller(t *testing.T) {
	needle := []byte("qzjxklm")
	x := uint32(555)
	var data bytes.Buffer
	for i := 0; i < 100; i++ {
		for j := 0; j < 30; j++ {
			x = x*1664525 + 1013904223
			b := byte(x >> 24)
			if b == needle[0] { // avoid accidentally creating an extra occurrence
				b ^= 0x01
			}
			data.WriteByte(b)
		}
		data.Write(needle)
	}
	input := data.Bytes()
	require.Equal(t, input, roundTrip(t, input))
}

func TestRoundTripPropertyAcrossRandomByteStrings(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 0, 2000).Draw(rt, "data")
		require.Equal(rt, data, roundTrip(t, data))
	})
}

func TestCompressIsDeterministic(t *testing.T) {
	data := bytes.Repeat([]byte("mississippi river"), 40)
	var first, second bytes.Buffer
	_, err := Compress(bytes.NewReader(data), &first)
	require.NoError(t, err)
	_, err = Compress(bytes.NewReader(data), &second)
	require.NoError(t, err)
	require.Equal(t, first.Bytes(), second.Bytes())
}
