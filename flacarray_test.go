package flacarray

import (
	"math"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/flacarray/errs"
)

func TestCompressInt32(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	data := make([]int32, 4*1000)
	for i := range data {
		data[i] = int32(rng.Intn(1<<16)) - 1<<15
	}

	c, err := CompressInt32(data, 4, 1000, WithLevel(2), WithThreads(true))
	require.NoError(t, err)

	out, err := DecompressInt32(c, -1, -1)
	require.NoError(t, err)
	require.Equal(t, data, out)

	part, err := DecompressInt32(c, 10, 20, WithWorkers(2))
	require.NoError(t, err)
	require.Len(t, part, 40)
	require.Equal(t, data[1010:1020], part[10:20])
}

func TestWithLevel(t *testing.T) {
	_, err := CompressInt32([]int32{1}, 1, 1, WithLevel(9))
	require.ErrorIs(t, err, errs.ErrInvalidLevel)

	_, err = CompressInt32([]int32{1}, 0, 1)
	require.ErrorIs(t, err, errs.ErrZeroNStream)
}

func TestCompressInt64_Narrowed(t *testing.T) {
	data := []int64{1 << 40, 1<<40 + 5, 1<<40 - 5, -7, 0, 7}

	a, err := CompressInt64(data, 2, 3)
	require.NoError(t, err)
	require.Equal(t, []int64{1 << 40, 0}, a.Offsets)
	require.Equal(t, 1, a.Container.Channels)

	out, err := a.Decompress(-1, -1)
	require.NoError(t, err)
	require.Equal(t, data, out)

	part, err := a.Decompress(1, 3)
	require.NoError(t, err)
	require.Equal(t, []int64{1<<40 + 5, 1<<40 - 5, 0, 7}, part)
}

func TestCompressInt64_Wide(t *testing.T) {
	data := []int64{math.MinInt64, 0x1_0000_0000, math.MaxInt64, 3, 2, 1}

	a, err := CompressInt64(data, 2, 3, WithLevel(8))
	require.NoError(t, err)
	require.Nil(t, a.Offsets)
	require.Equal(t, 2, a.Container.Channels)

	out, err := a.Decompress(-1, -1)
	require.NoError(t, err)
	require.Equal(t, data, out)

	part, err := a.Decompress(2, 3)
	require.NoError(t, err)
	require.Equal(t, []int64{math.MaxInt64, 1}, part)
}

func TestCompressFloat32(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	data := make([]float32, 3*700)
	for i := range data {
		data[i] = float32(math.Sin(float64(i)/50)*100 + rng.Float64())
	}

	a, err := CompressFloat32(data, 3, 700, nil, WithLevel(7))
	require.NoError(t, err)

	out, err := a.Decompress(-1, -1)
	require.NoError(t, err)
	for i := range data {
		step := 1 / float64(a.Gains[i/700])
		require.InDelta(t, float64(data[i]), float64(out[i]), step+1e-4)
	}
}

func TestCompressFloat64(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	data := make([]float64, 2*2000)
	for i := range data {
		data[i] = 1e3*rng.NormFloat64() + float64(i/2000)*1e6
	}

	for _, wide := range []bool{false, true} {
		a, err := CompressFloat64(data, 2, 2000, nil, WithInt64Quantization(wide), WithWorkers(2))
		require.NoError(t, err)
		if wide {
			require.Equal(t, 2, a.Container.Channels)
		}

		out, err := a.Decompress(-1, -1)
		require.NoError(t, err)
		for i := range data {
			step := 1 / a.Gains[i/2000]
			require.InDelta(t, data[i], out[i], step+1e-9)
		}

		part, err := a.Decompress(500, 600)
		require.NoError(t, err)
		require.Equal(t, out[500:600], part[:100])
		require.Equal(t, out[2500:2600], part[100:])
	}
}

func TestCompressFloat64_QuantaAndSnapping(t *testing.T) {
	data := []float64{1.03, 1.04, 1.05, 1.10}
	a, err := CompressFloat64(data, 1, 4, []float64{0.01}, WithOffsetSnapping(false))
	require.NoError(t, err)
	require.InDelta(t, 1.065, a.Offsets[0], 1e-12)

	out, err := a.Decompress(-1, -1, WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	for i := range data {
		require.InDelta(t, data[i], out[i], 0.005+1e-12)
	}
}

func TestDecompressWrongContainer(t *testing.T) {
	a, err := CompressInt64([]int64{math.MinInt64, math.MaxInt64}, 1, 2)
	require.NoError(t, err)

	_, err = DecompressInt32(a.Container, -1, -1)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = DecompressInt32(a.Container, 1, 5)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}
