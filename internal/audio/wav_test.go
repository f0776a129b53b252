package audio

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mono(samples ...float32) Buffer {
	return Buffer{Channels: 1, SampleRate: 16000, Data: [][]float32{samples}}
}

func TestEncodeWAVMonoLayout(t *testing.T) {
	const n = 160
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(math.Sin(float64(i) / 10))
	}

	out, err := EncodeWAV(mono(samples...))
	require.NoError(t, err)
	require.Len(t, out, HeaderSize+2*n)

	assert.Equal(t, "RIFF", string(out[0:4]))
	assert.Equal(t, uint32(36+2*n), binary.LittleEndian.Uint32(out[4:8]))
	assert.Equal(t, "WAVE", string(out[8:12]))
	assert.Equal(t, "fmt ", string(out[12:16]))
	assert.Equal(t, uint32(16), binary.LittleEndian.Uint32(out[16:20]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(out[20:22]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(out[22:24]))
	assert.Equal(t, uint32(16000), binary.LittleEndian.Uint32(out[24:28]))
	assert.Equal(t, uint32(32000), binary.LittleEndian.Uint32(out[28:32]))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(out[32:34]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(out[34:36]))
	assert.Equal(t, "data", string(out[36:40]))
	assert.Equal(t, uint32(2*n), binary.LittleEndian.Uint32(out[40:44]))
}

func TestEncodeWAVScaling(t *testing.T) {
	out, err := EncodeWAV(mono(1.0, -1.0, 0, 0.5, -0.5, 2, -3))
	require.NoError(t, err)

	body := out[HeaderSize:]
	assert.Equal(t, []byte{0xFF, 0x7F}, body[0:2])
	assert.Equal(t, []byte{0x00, 0x80}, body[2:4])

	sample := func(i int) int16 { return int16(binary.LittleEndian.Uint16(body[2*i:])) }
	assert.Equal(t, int16(0x7FFF), sample(0))
	assert.Equal(t, int16(-0x8000), sample(1))
	assert.Equal(t, int16(0), sample(2))
	assert.Equal(t, int16(16383), sample(3))
	assert.Equal(t, int16(-16384), sample(4))
	assert.Equal(t, int16(0x7FFF), sample(5), "clamped high")
	assert.Equal(t, int16(-0x8000), sample(6), "clamped low")
}

func TestEncodeWAVInterleavesChannels(t *testing.T) {
	buf := Buffer{
		Channels:   2,
		SampleRate: 44100,
		Data: [][]float32{
			{1, 0},
			{-1, 0.5},
		},
	}
	out, err := EncodeWAV(buf)
	require.NoError(t, err)
	require.Len(t, out, HeaderSize+2*2*2)

	assert.Equal(t, uint16(4), binary.LittleEndian.Uint16(out[32:34]))
	assert.Equal(t, uint32(44100*4), binary.LittleEndian.Uint32(out[28:32]))

	body := out[HeaderSize:]
	got := make([]int16, 4)
	for i := range got {
		got[i] = int16(binary.LittleEndian.Uint16(body[2*i:]))
	}
	assert.Equal(t, []int16{0x7FFF, -0x8000, 0, 16383}, got)
}

func TestEncodeWAVDeterministic(t *testing.T) {
	buf := mono(0.1, -0.2, 0.3)
	first, err := EncodeWAV(buf)
	require.NoError(t, err)
	second, err := EncodeWAV(buf)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncodeWAVEmptyBuffer(t *testing.T) {
	out, err := EncodeWAV(mono())
	require.NoError(t, err)
	require.Len(t, out, HeaderSize)
	require.NoError(t, ValidateWAV(out))
}

func TestEncodeWAVRejectsBadInput(t *testing.T) {
	_, err := EncodeWAV(Buffer{Channels: 0, SampleRate: 16000})
	assert.ErrorIs(t, err, ErrNoChannels)

	_, err = EncodeWAV(Buffer{Channels: 1, SampleRate: 0, Data: [][]float32{{0}}})
	assert.ErrorIs(t, err, ErrBadSampleRate)

	_, err = EncodeWAV(Buffer{Channels: 2, SampleRate: 8000, Data: [][]float32{{0}}})
	assert.ErrorIs(t, err, ErrChannelMismatch)

	_, err = EncodeWAV(Buffer{Channels: 2, SampleRate: 8000, Data: [][]float32{{0, 0}, {0}}})
	assert.ErrorIs(t, err, ErrChannelMismatch)
}

func TestEncodeWAVWideChannelHeader(t *testing.T) {
	const channels = 5000
	data := make([][]float32, channels)
	for ch := range data {
		data[ch] = []float32{0.5}
	}

	out, err := EncodeWAV(Buffer{Channels: channels, SampleRate: 16000, Data: data})
	require.NoError(t, err)
	require.Len(t, out, HeaderSize+channels*2)

	assert.Equal(t, uint16(channels), binary.LittleEndian.Uint16(out[22:24]))
	assert.Equal(t, uint32(16000*channels*2), binary.LittleEndian.Uint32(out[28:32]), "byte rate")
	assert.Equal(t, uint16(channels*2), binary.LittleEndian.Uint16(out[32:34]), "block align")
	assert.Equal(t, uint32(channels*2), binary.LittleEndian.Uint32(out[40:44]), "data size")
	assert.Equal(t, uint32(36+channels*2), binary.LittleEndian.Uint32(out[4:8]), "chunk size")
}

func TestEncodeWAVRejectsTooManyChannels(t *testing.T) {
	_, err := EncodeWAV(Buffer{Channels: MaxChannels + 1, SampleRate: 16000, Data: make([][]float32, MaxChannels+1)})
	assert.ErrorIs(t, err, ErrTooManyChannels)

	_, err = DecodeFloat32LE(make([]byte, 4*(MaxChannels+1)), MaxChannels+1, 16000)
	assert.ErrorIs(t, err, ErrTooManyChannels)

	_, err = EncodeWAV(Buffer{Channels: MaxChannels, SampleRate: math.MaxInt32, Data: make([][]float32, MaxChannels)})
	assert.ErrorIs(t, err, ErrTooLong)
}

func TestInfo(t *testing.T) {
	out, err := EncodeWAV(Buffer{Channels: 2, SampleRate: 8000, Data: [][]float32{make([]float32, 8000), make([]float32, 8000)}})
	require.NoError(t, err)

	info, err := Info(out)
	require.NoError(t, err)
	assert.Equal(t, WAVInfo{
		SampleRate:    8000,
		Channels:      2,
		BitsPerSample: 16,
		DataSize:      32000,
		Frames:        8000,
		Duration:      1,
	}, info)
}

func TestValidateWAVRejectsGarbage(t *testing.T) {
	assert.Error(t, ValidateWAV([]byte("short")))

	bogus := make([]byte, HeaderSize)
	copy(bogus, "RIFX")
	assert.Error(t, ValidateWAV(bogus))

	_, err := Info(bogus)
	assert.Error(t, err)
}

func TestDecodeFloat32LE(t *testing.T) {
	values := []float32{0.25, -0.5, 1, 0}
	body := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(body[4*i:], math.Float32bits(v))
	}

	buf, err := DecodeFloat32LE(body, 2, 22050)
	require.NoError(t, err)
	assert.Equal(t, 2, buf.Channels)
	assert.Equal(t, 22050, buf.SampleRate)
	assert.Equal(t, [][]float32{{0.25, 1}, {-0.5, 0}}, buf.Data)

	_, err = DecodeFloat32LE(body[:6], 1, 22050)
	assert.Error(t, err)
	_, err = DecodeFloat32LE(body, 0, 22050)
	assert.ErrorIs(t, err, ErrNoChannels)
}
