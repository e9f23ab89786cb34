package convert

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/flacarray/errs"
)

func TestInt64ToInt32(t *testing.T) {
	in := []int64{
		100, 101, 99, 104, // stream 0
		-1 << 40, -1<<40 + 1<<30, -1<<40 - 1<<30, -1 << 40, // stream 1
		7, 7, 7, 7, // stream 2
	}

	out, offsets, err := Int64ToInt32(in, 3, 4)
	require.NoError(t, err)
	require.Equal(t, []int64{102, -1 << 40, 7}, offsets)
	require.Equal(t, []int32{-2, -1, -3, 2}, out[:4])
	require.Equal(t, []int32{0, 1 << 30, -1 << 30, 0}, out[4:8])
	require.Equal(t, []int32{0, 0, 0, 0}, out[8:])

	back, err := Int32ToInt64(out, 3, 4, offsets)
	require.NoError(t, err)
	require.Equal(t, in, back)
}

func TestInt64ToInt32RoundsHalfUp(t *testing.T) {
	_, offsets, err := Int64ToInt32([]int64{0, 3, -3, 0}, 2, 2)
	require.NoError(t, err)
	require.Equal(t, []int64{2, -1}, offsets)
}

func TestInt64ToInt32Overflow(t *testing.T) {
	tests := []struct {
		name string
		in   []int64
	}{
		{name: "just over", in: []int64{0, 1<<31 + 1}},
		{name: "full range", in: []int64{math.MinInt64, math.MaxInt64}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Int64ToInt32(tt.in, 1, 2)
			require.ErrorIs(t, err, errs.ErrConvertType)
		})
	}

	out, _, err := Int64ToInt32([]int64{0, 1 << 31}, 1, 2)
	require.NoError(t, err, "a span of exactly 2^31 fits")
	require.Equal(t, []int32{-1 << 30, 1 << 30}, out)
}

func TestShapeErrors(t *testing.T) {
	_, _, err := Int64ToInt32([]int64{1, 2}, 0, 2)
	require.ErrorIs(t, err, errs.ErrZeroNStream)

	_, _, err = Int64ToInt32([]int64{1, 2}, 1, 0)
	require.ErrorIs(t, err, errs.ErrZeroStreamSize)

	_, _, err = Int64ToInt32([]int64{1, 2, 3}, 1, 2)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, _, _, err = Float64ToInt32([]float64{1, 2}, 1, 2, []float64{0.1, 0.1})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, _, _, err = Float64ToInt32([]float64{1, 2}, 1, 2, []float64{-0.1})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = Int32ToInt64([]int32{1, 2}, 1, 2, nil)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	err = Int32ToFloat64Into(make([]float64, 1), []int32{1, 2}, 1, 2, []float64{0}, []float64{1})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func randomFloats(rng *rand.Rand, n int, center float64, scale float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = center + scale*(2*rng.Float64()-1)
	}

	return out
}

func TestFloat64RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const nStream, streamSize = 4, 1000
	in := make([]float64, 0, nStream*streamSize)
	in = append(in, randomFloats(rng, streamSize, 0, 1)...)
	in = append(in, randomFloats(rng, streamSize, 1e6, 3)...)
	in = append(in, randomFloats(rng, streamSize, -42.5, 1e-3)...)
	in = append(in, randomFloats(rng, streamSize, 1e-9, 1e9)...)

	for _, snap := range []bool{true, false} {
		q, offsets, gains, err := Float64ToInt32(in, nStream, streamSize, nil, WithOffsetSnapping(snap))
		require.NoError(t, err)
		for _, v := range q {
			require.LessOrEqual(t, int64(math.Abs(float64(v))), int64(Int32Limit))
		}

		back, err := Int32ToFloat64(q, nStream, streamSize, offsets, gains)
		require.NoError(t, err)
		for s := range nStream {
			step := 1 / gains[s]
			for i := s * streamSize; i < (s+1)*streamSize; i++ {
				require.InDelta(t, in[i], back[i], step, "stream %d sample %d", s, i)
			}
		}
	}
}

func TestFloat32RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	const nStream, streamSize = 3, 500
	in := make([]float32, nStream*streamSize)
	for i := range in {
		in[i] = float32(100*(i/streamSize)+rng.Intn(1000)) * 0.25
	}

	q, offsets, gains, err := Float32ToInt32(in, nStream, streamSize, nil)
	require.NoError(t, err)

	back := make([]float32, len(in))
	require.NoError(t, Int32ToFloat32Into(back, q, nStream, streamSize, offsets, gains))
	for i := range in {
		s := i / streamSize
		step := 1 / float64(gains[s])
		ulp := float64(math.Nextafter32(float32(math.Abs(float64(in[i]))), float32(math.Inf(1)))) - math.Abs(float64(in[i]))
		require.InDelta(t, float64(in[i]), float64(back[i]), step+ulp)
	}
}

func TestFloatConstantStream(t *testing.T) {
	in := []float64{3.25, 3.25, 3.25, -1e300, -1e300, -1e300}
	q, offsets, gains, err := Float64ToInt32(in, 2, 3, nil)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 1}, gains)
	require.Equal(t, []float64{3.25, -1e300}, offsets)
	require.Equal(t, []int32{0, 0, 0, 0, 0, 0}, q)

	back, err := Int32ToFloat64(q, 2, 3, offsets, gains)
	require.NoError(t, err)
	require.Equal(t, in, back)
}

func TestFloatCallerQuanta(t *testing.T) {
	in := []float64{0.1, 0.2, 0.35, 1.0, 10.01, 10.02, 10.05, 10.09}
	quanta := []float64{0.05, 0.01}

	q, offsets, gains, err := Float64ToInt32(in, 2, 4, quanta)
	require.NoError(t, err)
	require.InDelta(t, 20.0, gains[0], 1e-9)
	require.InDelta(t, 100.0, gains[1], 1e-9)
	// snapped offsets are whole multiples of the step
	require.InDelta(t, 0.55, offsets[0], 1e-12)
	require.InDelta(t, 10.05, offsets[1], 1e-12)

	back, err := Int32ToFloat64(q, 2, 4, offsets, gains)
	require.NoError(t, err)
	for i := range in {
		require.InDelta(t, in[i], back[i], quanta[i/4]/2+1e-12)
	}
}

func TestFloatTinyStepClips(t *testing.T) {
	in := []float64{-1, 1}
	q, _, _, err := Float64ToInt32(in, 1, 2, []float64{1e-12})
	require.NoError(t, err)
	require.Equal(t, []int32{math.MinInt32, math.MaxInt32}, q)
}

func TestFloatNonFinite(t *testing.T) {
	_, _, _, err := Float64ToInt32([]float64{1, math.NaN()}, 1, 2, nil)
	require.ErrorIs(t, err, errs.ErrConvertType)

	_, _, _, err = Float32ToInt32([]float32{float32(math.Inf(-1)), 0}, 1, 2, nil)
	require.ErrorIs(t, err, errs.ErrConvertType)
}

func TestFloat64ToInt64(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	in := append(randomFloats(rng, 256, 5, 1), randomFloats(rng, 256, -1e12, 1e10)...)

	q, offsets, gains, err := Float64ToInt64(in, 2, 256, nil)
	require.NoError(t, err)
	for _, v := range q {
		require.LessOrEqual(t, v, int64(Int64Limit))
		require.GreaterOrEqual(t, v, -int64(Int64Limit))
	}

	back, err := Int64ToFloat64(q, 2, 256, offsets, gains)
	require.NoError(t, err)
	for i := range in {
		// float64 cannot resolve a 2^62 step grid, so the bound is relative
		require.InEpsilon(t, in[i], back[i], 1e-12)
	}
}

func TestThreadedMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	const nStream, streamSize = 37, 129
	ints := make([]int64, nStream*streamSize)
	for i := range ints {
		ints[i] = int64(i/streamSize)<<35 + rng.Int63n(1<<28)
	}
	floats := randomFloats(rng, nStream*streamSize, 10, 100)

	seqI, seqOff, err := Int64ToInt32(ints, nStream, streamSize)
	require.NoError(t, err)
	parI, parOff, err := Int64ToInt32(ints, nStream, streamSize, WithWorkers(5))
	require.NoError(t, err)
	require.Equal(t, seqI, parI)
	require.Equal(t, seqOff, parOff)

	seqF, seqFO, seqG, err := Float64ToInt32(floats, nStream, streamSize, nil)
	require.NoError(t, err)
	parF, parFO, parG, err := Float64ToInt32(floats, nStream, streamSize, nil, WithThreads(true))
	require.NoError(t, err)
	require.Equal(t, seqF, parF)
	require.Equal(t, seqFO, parFO)
	require.Equal(t, seqG, parG)

	back := make([]int64, len(ints))
	require.NoError(t, Int32ToInt64Into(back, parI, nStream, streamSize, parOff, WithWorkers(3)))
	require.Equal(t, ints, back)
}

func TestOverflowStopsLaterStreams(t *testing.T) {
	in := []int64{0, 1 << 40, 1, 2}
	_, _, err := Int64ToInt32(in, 2, 2)
	require.ErrorIs(t, err, errs.ErrConvertType)
	require.NotErrorIs(t, err, errs.ErrInvalidArgument)
}
