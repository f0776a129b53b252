// Package audio encodes decoded float PCM buffers as 16-bit WAV files and
// inspects WAV headers.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// HeaderSize is the length of the canonical RIFF/WAVE header.
const HeaderSize = 44

const bitsPerSample = 16

// MaxChannels is the largest channel count whose 16-bit block align fits the
// header's uint16 field.
const MaxChannels = math.MaxUint16 / (bitsPerSample / 8)

// Buffer is decoded audio: one sample slice per channel, each sample in [-1, 1].
type Buffer struct {
	Channels   int
	SampleRate int
	Data       [][]float32
}

// Frames returns the number of samples per channel.
func (b Buffer) Frames() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Header is the 44-byte canonical WAV header.
type Header struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // file size - 8
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32
	AudioFormat   uint16 // 1 = linear PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32
}

var (
	ErrNoChannels      = errors.New("audio: channel count must be at least 1")
	ErrBadSampleRate   = errors.New("audio: sample rate must be positive")
	ErrChannelMismatch = errors.New("audio: channel data does not match channel count")
	ErrTooManyChannels = fmt.Errorf("audio: channel count must be at most %d", MaxChannels)
	ErrTooLong         = errors.New("audio: data does not fit a WAV file")
)

func (b Buffer) validate() error {
	if b.Channels < 1 {
		return ErrNoChannels
	}
	if b.Channels > MaxChannels {
		return fmt.Errorf("%w, got %d", ErrTooManyChannels, b.Channels)
	}
	if b.SampleRate <= 0 {
		return fmt.Errorf("%w, got %d", ErrBadSampleRate, b.SampleRate)
	}
	if len(b.Data) != b.Channels {
		return fmt.Errorf("%w: %d slices for %d channels", ErrChannelMismatch, len(b.Data), b.Channels)
	}
	frames := len(b.Data[0])
	for ch, samples := range b.Data {
		if len(samples) != frames {
			return fmt.Errorf("%w: channel %d has %d samples, want %d", ErrChannelMismatch, ch, len(samples), frames)
		}
	}
	return nil
}

// EncodeWAV renders buf as a 16-bit linear PCM WAV file with interleaved
// little-endian samples. The output depends only on buf.
func EncodeWAV(buf Buffer) ([]byte, error) {
	if err := buf.validate(); err != nil {
		return nil, err
	}

	frames := buf.Frames()
	blockAlign := uint64(buf.Channels) * bitsPerSample / 8
	dataSize := uint64(frames) * blockAlign
	byteRate := uint64(buf.SampleRate) * blockAlign
	if dataSize > math.MaxUint32-36 || byteRate > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes of samples at %d bytes/s", ErrTooLong, dataSize, byteRate)
	}

	header := Header{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + uint32(dataSize),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   uint16(buf.Channels),
		SampleRate:    uint32(buf.SampleRate),
		ByteRate:      uint32(byteRate),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(dataSize),
	}

	out := bytes.NewBuffer(make([]byte, 0, HeaderSize+int(dataSize)))
	if err := binary.Write(out, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("write wav header: %w", err)
	}

	pcm := make([]int16, 0, frames*buf.Channels)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < buf.Channels; ch++ {
			pcm = append(pcm, toPCM16(buf.Data[ch][i]))
		}
	}
	if err := binary.Write(out, binary.LittleEndian, pcm); err != nil {
		return nil, fmt.Errorf("write wav samples: %w", err)
	}
	return out.Bytes(), nil
}

// toPCM16 clamps s to [-1, 1] and scales negatives by 0x8000 and the rest by
// 0x7FFF, truncating toward zero.
func toPCM16(s float32) int16 {
	v := float64(s)
	switch {
	case math.IsNaN(v):
		v = 0
	case v > 1:
		v = 1
	case v < -1:
		v = -1
	}
	if v < 0 {
		return int16(v * 0x8000)
	}
	return int16(v * 0x7FFF)
}

// ValidateWAV checks the fixed chunk markers of a canonical WAV file.
func ValidateWAV(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("wav data too short: need at least %d bytes, got %d", HeaderSize, len(data))
	}
	if string(data[0:4]) != "RIFF" {
		return errors.New("invalid wav file: missing RIFF header")
	}
	if string(data[8:12]) != "WAVE" {
		return errors.New("invalid wav file: missing WAVE format")
	}
	if string(data[12:16]) != "fmt " {
		return errors.New("invalid wav file: missing fmt chunk")
	}
	if string(data[36:40]) != "data" {
		return errors.New("invalid wav file: missing data chunk")
	}
	return nil
}

// WAVInfo summarises a WAV header.
type WAVInfo struct {
	SampleRate    uint32  `json:"sampleRate"`
	Channels      uint16  `json:"channels"`
	BitsPerSample uint16  `json:"bitsPerSample"`
	DataSize      uint32  `json:"dataSize"`
	Frames        uint32  `json:"frames"`
	Duration      float64 `json:"durationSeconds"`
}

// Info reads the header of a canonical WAV file.
func Info(data []byte) (WAVInfo, error) {
	if err := ValidateWAV(data); err != nil {
		return WAVInfo{}, err
	}
	var header Header
	if err := binary.Read(bytes.NewReader(data[:HeaderSize]), binary.LittleEndian, &header); err != nil {
		return WAVInfo{}, fmt.Errorf("read wav header: %w", err)
	}
	if header.BlockAlign == 0 || header.SampleRate == 0 {
		return WAVInfo{}, fmt.Errorf("invalid wav header: block align %d, sample rate %d", header.BlockAlign, header.SampleRate)
	}

	frames := header.Subchunk2Size / uint32(header.BlockAlign)
	return WAVInfo{
		SampleRate:    header.SampleRate,
		Channels:      header.NumChannels,
		BitsPerSample: header.BitsPerSample,
		DataSize:      header.Subchunk2Size,
		Frames:        frames,
		Duration:      float64(frames) / float64(header.SampleRate),
	}, nil
}

// DecodeFloat32LE splits an interleaved little-endian float32 body into a
// Buffer.
func DecodeFloat32LE(body []byte, channels, sampleRate int) (Buffer, error) {
	if channels < 1 {
		return Buffer{}, ErrNoChannels
	}
	if channels > MaxChannels {
		return Buffer{}, fmt.Errorf("%w, got %d", ErrTooManyChannels, channels)
	}
	if sampleRate <= 0 {
		return Buffer{}, fmt.Errorf("%w, got %d", ErrBadSampleRate, sampleRate)
	}
	frameSize := 4 * channels
	if len(body)%frameSize != 0 {
		return Buffer{}, fmt.Errorf("pcm body of %d bytes is not a whole number of %d-byte frames", len(body), frameSize)
	}

	frames := len(body) / frameSize
	data := make([][]float32, channels)
	for ch := range data {
		data[ch] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			offset := i*frameSize + ch*4
			data[ch][i] = math.Float32frombits(binary.LittleEndian.Uint32(body[offset:]))
		}
	}
	return Buffer{Channels: channels, SampleRate: sampleRate, Data: data}, nil
}
