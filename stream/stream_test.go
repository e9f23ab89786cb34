package stream

import (
	"encoding/binary"
	"math"
	"math/rand"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/flacarray/errs"
	"github.com/arloliu/flacarray/internal/pool"
)

var quiet = WithLogger(zerolog.Nop())

// signal32 returns nStream streams mixing smooth, noisy and constant content.
func signal32(seed int64, nStream int, streamSize int) []int32 {
	rng := rand.New(rand.NewSource(seed))
	data := make([]int32, nStream*streamSize)
	for s := range nStream {
		stream := data[s*streamSize : (s+1)*streamSize]
		switch s % 3 {
		case 0:
			v := int32(rng.Intn(1 << 20))
			for i := range stream {
				v += int32(rng.Intn(201) - 100)
				stream[i] = v
			}
		case 1:
			for i := range stream {
				stream[i] = int32(rng.Uint32()) //nolint:gosec
			}
		default:
			for i := range stream {
				stream[i] = int32(s)
			}
		}
	}

	return data
}

func signal64(seed int64, nStream int, streamSize int) []int64 {
	rng := rand.New(rand.NewSource(seed))
	data := make([]int64, nStream*streamSize)
	for i := range data {
		switch i % 4 {
		case 0:
			data[i] = 0x1_0000_0000
		case 1:
			data[i] = int64(rng.Uint64()) //nolint:gosec
		case 2:
			data[i] = int64(i) << 31
		default:
			data[i] = -int64(rng.Intn(1 << 16))
		}
	}

	return data
}

func TestEncodeDecodeInt32(t *testing.T) {
	sizes := []struct {
		nStream    int
		streamSize int
	}{
		{nStream: 1, streamSize: 1},
		{nStream: 3, streamSize: 17},
		{nStream: 4, streamSize: 5000},
	}

	for level := 0; level <= 8; level++ {
		for _, sz := range sizes {
			data := signal32(int64(level), sz.nStream, sz.streamSize)

			seq, err := EncodeInt32(data, sz.nStream, sz.streamSize, level, quiet)
			require.NoError(t, err, "level %d", level)
			require.NoError(t, seq.Validate())
			require.Equal(t, int64(0), seq.Starts[0])

			par, err := EncodeInt32(data, sz.nStream, sz.streamSize, level, quiet, WithWorkers(3))
			require.NoError(t, err)
			require.Equal(t, seq.Bytes, par.Bytes, "threaded output must match sequential")
			require.Equal(t, seq.Starts, par.Starts)
			require.Equal(t, seq.NBytes, par.NBytes)

			out := make([]int32, len(data))
			require.NoError(t, seq.DecodeInt32(-1, -1, out, quiet))
			require.Equal(t, data, out)

			outPar := make([]int32, len(data))
			require.NoError(t, DecodeInt32(par.Bytes, par.Starts, par.NBytes, sz.streamSize, -1, -1, outPar, quiet, WithThreads(true)))
			require.Equal(t, data, outPar)
		}
	}
}

func TestEncodeDecodeInt64(t *testing.T) {
	const nStream, streamSize = 3, 3000
	data := signal64(7, nStream, streamSize)
	data[0] = math.MinInt64
	data[1] = math.MaxInt64
	data[2] = 0x8000_0000

	for _, level := range []int{0, 2, 5, 8} {
		c, err := EncodeInt64(data, nStream, streamSize, level, quiet)
		require.NoError(t, err)
		require.Equal(t, 2, c.Channels)

		par, err := EncodeInt64(data, nStream, streamSize, level, quiet, WithWorkers(2))
		require.NoError(t, err)
		require.Equal(t, c.Bytes, par.Bytes)

		out := make([]int64, len(data))
		require.NoError(t, c.DecodeInt64(-1, -1, out, quiet))
		require.Equal(t, data, out)

		part := make([]int64, nStream*10)
		require.NoError(t, DecodeInt64(c.Bytes, c.Starts, c.NBytes, streamSize, 1000, 1010, part, quiet, WithWorkers(2)))
		for s := range nStream {
			require.Equal(t, data[s*streamSize+1000:s*streamSize+1010], part[s*10:(s+1)*10])
		}
	}
}

func TestEncodeInt64_CarryBit(t *testing.T) {
	data := []int64{0x1_0000_0000, 0x1_0000_0000, 0xFFFF_FFFF, 0x1_0000_0001}
	c, err := EncodeInt64(data, 1, 4, 5, quiet)
	require.NoError(t, err)

	out := make([]int64, 4)
	require.NoError(t, c.DecodeInt64(-1, -1, out, quiet))
	require.Equal(t, data, out)
}

func TestDecodeRange(t *testing.T) {
	const nStream, streamSize = 4, 9001
	data := signal32(11, nStream, streamSize)

	for _, level := range []int{0, 5} {
		c, err := EncodeInt32(data, nStream, streamSize, level, quiet)
		require.NoError(t, err)

		ranges := [][2]int64{
			{0, 1},
			{0, streamSize},
			{1151, 1153},
			{4095, 4097},
			{4096, 8192},
			{5000, 5001},
			{streamSize - 1, streamSize},
			{17, streamSize},
		}
		for _, r := range ranges {
			n, err := DecodedLen(streamSize, r[0], r[1])
			require.NoError(t, err)
			require.Equal(t, int(r[1]-r[0]), n)

			for _, workers := range []int{1, 3} {
				out := make([]int32, nStream*n)
				err := c.DecodeInt32(r[0], r[1], out, quiet, WithWorkers(workers))
				require.NoError(t, err, "range %v", r)
				for s := range nStream {
					want := data[s*streamSize+int(r[0]) : s*streamSize+int(r[1])]
					require.Equal(t, want, out[s*n:(s+1)*n], "level %d range %v stream %d", level, r, s)
				}
			}
		}
	}
}

func TestDecodeRange_MultiChannel(t *testing.T) {
	const nStream, streamSize, nChannels = 2, 2000, 3
	data := signal32(5, nStream*nChannels, streamSize)

	c, err := Encode(data, nStream, streamSize, nChannels, 4, quiet)
	require.NoError(t, err)

	out := make([]int32, nStream*100*nChannels)
	require.NoError(t, c.DecodeInt32(1200, 1300, out, quiet))
	chunk := streamSize * nChannels
	for s := range nStream {
		want := data[s*chunk+1200*nChannels : s*chunk+1300*nChannels]
		require.Equal(t, want, out[s*300:(s+1)*300])
	}
}

func TestEncodeErrors(t *testing.T) {
	data := make([]int32, 20)

	tests := []struct {
		name      string
		data      []int32
		nStream   int
		size      int
		nChannels int
		level     int
		want      errs.Code
	}{
		{name: "level 9", data: data, nStream: 2, size: 10, nChannels: 1, level: 9, want: errs.ErrInvalidLevel},
		{name: "negative level", data: data, nStream: 2, size: 10, nChannels: 1, level: -1, want: errs.ErrInvalidLevel},
		{name: "level checked first", data: data, nStream: 0, size: 0, nChannels: 1, level: 9, want: errs.ErrInvalidLevel},
		{name: "zero streams", data: data, nStream: 0, size: 10, nChannels: 1, level: 5, want: errs.ErrZeroNStream},
		{name: "zero size", data: data, nStream: 2, size: 0, nChannels: 1, level: 5, want: errs.ErrZeroStreamSize},
		{name: "short data", data: data[:19], nStream: 2, size: 10, nChannels: 1, level: 5, want: errs.ErrInvalidArgument},
		{name: "zero channels", data: data, nStream: 2, size: 10, nChannels: 0, level: 5, want: errs.ErrInvalidArgument},
		{name: "too many channels", data: make([]int32, 9), nStream: 1, size: 1, nChannels: 9, level: 5, want: errs.ErrEncodeSetChannels},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, workers := range []int{1, 4} {
				c, err := Encode(tt.data, tt.nStream, tt.size, tt.nChannels, tt.level, quiet, WithWorkers(workers))
				require.Nil(t, c)
				require.ErrorIs(t, err, tt.want)
				require.Equal(t, tt.want, err)
			}
		})
	}
}

func TestEncodeParallel_MergeLimit(t *testing.T) {
	saved := pool.MaxBufferSize
	pool.MaxBufferSize = 10
	defer func() { pool.MaxBufferSize = saved }()

	c, err := EncodeInt32(make([]int32, 40), 4, 10, 5, quiet, WithWorkers(2))
	require.Nil(t, c)
	require.ErrorIs(t, err, errs.ErrAlloc)
}

func TestDecodeErrors(t *testing.T) {
	const nStream, streamSize = 2, 100
	data := signal32(3, nStream, streamSize)
	c, err := EncodeInt32(data, nStream, streamSize, 5, quiet)
	require.NoError(t, err)

	tests := []struct {
		name        string
		starts      []int64
		nbytes      []int64
		size        int
		first, last int64
		outLen      int
		want        errs.Code
	}{
		{name: "no streams", starts: nil, nbytes: nil, size: 100, first: -1, last: -1, outLen: 0, want: errs.ErrZeroNStream},
		{name: "zero size", starts: c.Starts, nbytes: c.NBytes, size: 0, first: -1, last: -1, outLen: 0, want: errs.ErrZeroStreamSize},
		{name: "last past end", starts: c.Starts, nbytes: c.NBytes, size: 100, first: 0, last: 101, outLen: 202, want: errs.ErrDecodeSampleRange},
		{name: "first at end", starts: c.Starts, nbytes: c.NBytes, size: 100, first: 100, last: 100, outLen: 0, want: errs.ErrDecodeSampleRange},
		{name: "empty range", starts: c.Starts, nbytes: c.NBytes, size: 100, first: 10, last: 10, outLen: 0, want: errs.ErrDecodeSampleRange},
		{name: "reversed range", starts: c.Starts, nbytes: c.NBytes, size: 100, first: 20, last: 10, outLen: 20, want: errs.ErrDecodeSampleRange},
		{name: "table mismatch", starts: c.Starts, nbytes: c.NBytes[:1], size: 100, first: -1, last: -1, outLen: 200, want: errs.ErrInvalidArgument},
		{name: "range past buffer", starts: []int64{0, c.Starts[1]}, nbytes: []int64{c.NBytes[0], c.NBytes[1] + 1}, size: 100, first: -1, last: -1, outLen: 200, want: errs.ErrInvalidArgument},
		{name: "output too small", starts: c.Starts, nbytes: c.NBytes, size: 100, first: -1, last: -1, outLen: 199, want: errs.ErrInvalidArgument},
		{name: "stream longer than declared", starts: c.Starts, nbytes: c.NBytes, size: 99, first: -1, last: -1, outLen: 198, want: errs.ErrDecodeStreamSize},
		{name: "stream shorter than declared", starts: c.Starts, nbytes: c.NBytes, size: 101, first: -1, last: -1, outLen: 202, want: errs.ErrDecodeStreamSize},
		{name: "range runs out", starts: c.Starts, nbytes: c.NBytes, size: 200, first: 50, last: 150, outLen: 200, want: errs.ErrDecodeStreamSize},
		{name: "seek past data", starts: c.Starts, nbytes: c.NBytes, size: 200, first: 150, last: 160, outLen: 20, want: errs.ErrDecodeSeek},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := make([]int32, tt.outLen)
			err := DecodeInt32(c.Bytes, tt.starts, tt.nbytes, tt.size, tt.first, tt.last, out, quiet)
			require.ErrorIs(t, err, tt.want)
			require.Equal(t, tt.want, err)
		})
	}
}

func TestDecodeCorruption(t *testing.T) {
	const nStream, streamSize = 3, 3000
	data := signal32(9, nStream, streamSize)
	c, err := EncodeInt32(data, nStream, streamSize, 5, quiet)
	require.NoError(t, err)

	corrupt := func(offset int64) []byte {
		b := append([]byte(nil), c.Bytes...)
		b[offset] ^= 0x5A
		return b
	}

	// payload of the first frame of stream 1
	payload := corrupt(c.Starts[1] + 16 + 28 + 3)
	out := make([]int32, len(data))
	err = DecodeInt32(payload, c.Starts, c.NBytes, streamSize, -1, -1, out, quiet)
	require.ErrorIs(t, err, errs.ErrDecodeProcess)

	// a broken stream header fails every decode of that stream
	header := corrupt(c.Starts[2])
	err = DecodeInt32(header, c.Starts, c.NBytes, streamSize, -1, -1, out, quiet, WithWorkers(3))
	require.ErrorIs(t, err, errs.ErrDecodeProcess)

	err = DecodeInt32(header, c.Starts, c.NBytes, streamSize, 10, 20, make([]int32, 30), quiet)
	require.Error(t, err)

	// a broken frame header makes the seek walk fail
	frame := corrupt(c.Starts[0] + 16)
	err = DecodeInt32(frame, c.Starts, c.NBytes, streamSize, 2000, 2010, make([]int32, 30), quiet)
	require.ErrorIs(t, err, errs.ErrDecodeSeek)

	truncated := append([]int64(nil), c.NBytes...)
	truncated[1] -= 5
	err = DecodeInt32(c.Bytes, c.Starts, truncated, streamSize, -1, -1, out, quiet)
	require.ErrorIs(t, err, errs.ErrDecodeProcess)
}

func TestDecodeRejectsOversizedFrameHeader(t *testing.T) {
	const streamSize = 100
	data := make([]int32, streamSize)
	for i := range data {
		data[i] = 42
	}
	c, err := EncodeInt32(data, 1, streamSize, 5, quiet)
	require.NoError(t, err)

	for _, samples := range []uint32{200_000_000, math.MaxUint32} {
		b := append([]byte(nil), c.Bytes...)
		binary.LittleEndian.PutUint32(b[c.Starts[0]+16+4:], samples)

		var before, after runtime.MemStats
		runtime.ReadMemStats(&before)

		out := make([]int32, streamSize)
		err = DecodeInt32(b, c.Starts, c.NBytes, streamSize, -1, -1, out, quiet)
		require.ErrorIs(t, err, errs.ErrDecodeProcess)

		err = DecodeInt32(b, c.Starts, c.NBytes, streamSize, 10, 20, make([]int32, 10), quiet)
		require.ErrorIs(t, err, errs.ErrDecodeSeek)

		runtime.ReadMemStats(&after)
		require.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(16<<20), "samples=%d", samples)
	}
}

func TestDecodeRejectsChannelMismatch(t *testing.T) {
	data := signal64(2, 1, 64)
	c, err := EncodeInt64(data, 1, 64, 5, quiet)
	require.NoError(t, err)

	out := make([]int32, 64)
	err = DecodeInt32(c.Bytes, c.Starts, c.NBytes, 64, -1, -1, out, quiet)
	require.ErrorIs(t, err, errs.ErrDecodeProcess)

	require.ErrorIs(t, (&Container{Channels: 1}).DecodeInt64(-1, -1, nil), errs.ErrInvalidArgument)
}

func TestDecodedLen(t *testing.T) {
	n, err := DecodedLen(10, -1, 5)
	require.NoError(t, err)
	require.Equal(t, 10, n)

	n, err = DecodedLen(10, 9, 10)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	_, err = DecodedLen(10, 3, 11)
	require.ErrorIs(t, err, errs.ErrDecodeSampleRange)

	_, err = DecodedLen(0, -1, -1)
	require.ErrorIs(t, err, errs.ErrZeroStreamSize)
}

func TestContainer(t *testing.T) {
	data := signal32(4, 3, 50)
	c, err := EncodeInt32(data, 3, 50, 1, quiet)
	require.NoError(t, err)

	require.Equal(t, 3, c.NStream())
	require.Equal(t, 50, c.StreamSize)
	total := 0
	for i := range c.NStream() {
		total += len(c.Stream(i))
		require.Equal(t, "fLaA", string(c.Stream(i)[:4]))
	}
	require.Len(t, c.Bytes, total)

	bad := *c
	bad.NBytes = []int64{c.NBytes[0], c.NBytes[1], c.NBytes[2] + 1}
	require.ErrorIs(t, bad.Validate(), errs.ErrInvalidArgument)
}

func TestLargeScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("large scenario skipped in short mode")
	}

	const nStream, streamSize = 10, 1_000_000
	rng := rand.New(rand.NewSource(42))
	data := make([]int32, nStream*streamSize)
	for i := range data {
		data[i] = int32(rng.Uint32()) //nolint:gosec
	}

	c, err := EncodeInt32(data, nStream, streamSize, 5, quiet, WithThreads(true))
	require.NoError(t, err)

	out := make([]int32, len(data))
	require.NoError(t, c.DecodeInt32(-1, -1, out, quiet, WithThreads(true)))
	require.Equal(t, data, out)

	part := make([]int32, nStream*10)
	require.NoError(t, c.DecodeInt32(499995, 500005, part, quiet))
	for s := range nStream {
		require.Equal(t, data[s*streamSize+499995:s*streamSize+500005], part[s*10:(s+1)*10])
	}
}
