// Package wave serializes float audio buffers as 16-bit PCM WAV files with a
// canonical 44-byte header. The layout is fixed: RIFF/WAVE container, a
// 16-byte "fmt " chunk (format 1, 16 bits per sample) and a single "data"
// chunk of little-endian interleaved frames.
package wave

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Buffer holds one slice of samples per channel at a fixed sample rate.
// All channels must carry the same number of frames.
type Buffer struct {
	SampleRate int
	Channels   [][]float32
}

// Frames returns the number of frames in the first channel.
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// FromStereoInterleaved splits interleaved stereo samples into a two-channel
// buffer. A trailing half frame is dropped.
func FromStereoInterleaved(samples []float32, sampleRate int) *Buffer {
	frames := len(samples) / 2
	left := make([]float32, frames)
	right := make([]float32, frames)
	for i := 0; i < frames; i++ {
		left[i] = samples[i*2]
		right[i] = samples[i*2+1]
	}
	return &Buffer{SampleRate: sampleRate, Channels: [][]float32{left, right}}
}

// FromMono wraps mono samples in a single-channel buffer.
func FromMono(samples []float32, sampleRate int) *Buffer {
	return &Buffer{SampleRate: sampleRate, Channels: [][]float32{samples}}
}

const headerSize = 44

// Encode serializes the buffer. Samples are clamped to [-1, 1] and scaled
// asymmetrically (negative by 32768, non-negative by 32767) so that -1.0
// reaches the full negative 16-bit range while +1.0 stays in range.
func Encode(b *Buffer) ([]byte, error) {
	if err := validate(b); err != nil {
		return nil, err
	}

	numCh := len(b.Channels)
	frames := b.Frames()
	dataSize := frames * numCh * 2
	out := make([]byte, headerSize+dataSize)

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+dataSize))
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], 1)
	binary.LittleEndian.PutUint16(out[22:24], uint16(numCh))
	binary.LittleEndian.PutUint32(out[24:28], uint32(b.SampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(b.SampleRate*numCh*2))
	binary.LittleEndian.PutUint16(out[32:34], uint16(numCh*2))
	binary.LittleEndian.PutUint16(out[34:36], 16)
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataSize))

	pos := headerSize
	for i := 0; i < frames; i++ {
		for c := 0; c < numCh; c++ {
			binary.LittleEndian.PutUint16(out[pos:pos+2], uint16(quantize(b.Channels[c][i])))
			pos += 2
		}
	}
	return out, nil
}

// WriteFile encodes the buffer and writes it through a temporary file in the
// destination directory, renaming on success. A failed encode or write never
// leaves a partial artifact at path.
func WriteFile(path string, b *Buffer) error {
	data, err := Encode(b)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".wav-*")
	if err != nil {
		return fmt.Errorf("wav write: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("wav write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("wav write: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("wav write: %w", err)
	}
	return nil
}

func validate(b *Buffer) error {
	if b == nil || len(b.Channels) == 0 {
		return fmt.Errorf("wav encode: no channels")
	}
	if b.SampleRate <= 0 {
		return fmt.Errorf("wav encode: sample rate %d", b.SampleRate)
	}
	frames := len(b.Channels[0])
	if frames == 0 {
		return fmt.Errorf("wav encode: no frames")
	}
	for c, ch := range b.Channels {
		if len(ch) != frames {
			return fmt.Errorf("wav encode: channel %d has %d frames, want %d", c, len(ch), frames)
		}
	}
	return nil
}

func quantize(v float32) int16 {
	if math.IsNaN(float64(v)) {
		return 0
	}
	if v < -1 {
		v = -1
	}
	if v > 1 {
		v = 1
	}
	if v < 0 {
		return int16(v * 32768)
	}
	return int16(v * 32767)
}
