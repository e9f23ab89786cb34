package interleave

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/arloliu/flacarray/endian"
	"github.com/stretchr/testify/require"
)

var edgeValues = []int64{
	0,
	1,
	-1,
	0x1_0000_0000,
	0x8000_0000,
	0xFFFF_FFFF,
	-0x1_0000_0000,
	math.MaxInt64,
	math.MinInt64,
	math.MaxInt32,
	math.MinInt32,
	0x7FFF_FFFF_8000_0000,
}

func TestSplitJoin(t *testing.T) {
	t.Run("canonical halves", func(t *testing.T) {
		low, high := Split(0x1_0000_0000)
		require.Equal(t, int32(0), low)
		require.Equal(t, int32(1), high)

		low, high = Split(0x8000_0000)
		require.Equal(t, int32(math.MinInt32), low, "low top bit is a data bit")
		require.Equal(t, int32(0), high)

		low, high = Split(-1)
		require.Equal(t, int32(-1), low)
		require.Equal(t, int32(-1), high)
	})

	t.Run("round trip", func(t *testing.T) {
		for _, v := range edgeValues {
			require.Equal(t, v, Join(Split(v)), "value 0x%x", v)
		}
	})
}

// canonicalBytes lays pairs out as little-endian 32-bit words, which is the byte
// layout the codec sees.
func canonicalBytes(pairs []int32) []byte {
	engine := endian.GetLittleEndianEngine()
	out := make([]byte, 0, 4*len(pairs))
	for _, p := range pairs {
		out = engine.AppendUint32(out, uint32(p)) //nolint:gosec
	}

	return out
}

func TestPutPairs_CanonicalLayout(t *testing.T) {
	pairs := make([]int32, 2*len(edgeValues))
	PutPairs(pairs, edgeValues)

	t.Run("matches little-endian int64 memory", func(t *testing.T) {
		want := make([]byte, 0, 8*len(edgeValues))
		for _, v := range edgeValues {
			want = binary.LittleEndian.AppendUint64(want, uint64(v)) //nolint:gosec
		}
		require.Equal(t, want, canonicalBytes(pairs))
	})

	t.Run("big-endian int64 memory unpacks to the same pairs", func(t *testing.T) {
		// Simulate a big-endian host: read each value back from big-endian memory
		// and split it with shifts, never by reinterpreting words.
		mem := make([]byte, 0, 8*len(edgeValues))
		for _, v := range edgeValues {
			mem = binary.BigEndian.AppendUint64(mem, uint64(v)) //nolint:gosec
		}
		values := make([]int64, len(edgeValues))
		for i := range values {
			values[i] = int64(binary.BigEndian.Uint64(mem[8*i:])) //nolint:gosec
		}

		bePairs := make([]int32, 2*len(values))
		PutPairs(bePairs, values)
		require.Equal(t, pairs, bePairs)
	})
}

func TestFromPairs(t *testing.T) {
	pairs := make([]int32, 2*len(edgeValues))
	PutPairs(pairs, edgeValues)

	out := make([]int64, len(edgeValues))
	FromPairs(out, pairs)
	require.Equal(t, edgeValues, out)
}

func TestPairs(t *testing.T) {
	data := make([]int64, 1000)
	for i := range data {
		data[i] = rand.Int64() - math.MaxInt64/2 //nolint:gosec
	}
	data[0] = 0x1_0000_0000

	pairs, release := Pairs(data)
	defer release()

	require.Len(t, pairs, 2*len(data))

	want := make([]int32, 2*len(data))
	PutPairs(want, data)
	require.Equal(t, want, pairs)
}

func TestPairs_Empty(t *testing.T) {
	pairs, release := Pairs(nil)
	require.Empty(t, pairs)
	require.NotPanics(t, release)
}

func TestTarget(t *testing.T) {
	want := append([]int64(nil), edgeValues...)

	src := make([]int32, 2*len(want))
	PutPairs(src, want)

	out := make([]int64, len(want))
	pairs, commit := Target(out)
	require.Len(t, pairs, 2*len(out))

	copy(pairs, src)
	commit()

	require.Equal(t, want, out)
}
