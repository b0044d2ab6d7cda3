package audio

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// testToneOptions configures the synthetic WAV audio to generate
type testToneOptions struct {
	DurationSecs float64 // Total duration in seconds (default: 1.0)
	SampleRate   int     // Sample rate (default: 44100)
	Channels     int     // Channel count (default: 1)
	ToneFreq     float64 // Sine wave frequency in Hz (default: 440)
	ToneLevel    float64 // Tone level in dBFS (e.g., -23.0)
}

// generateTestWAV writes a synthetic 16-bit PCM WAV file containing a
// sine tone and returns its path. The file lives in t.TempDir so it is
// removed automatically.
func generateTestWAV(t *testing.T, opts testToneOptions) string {
	t.Helper()

	if opts.SampleRate == 0 {
		opts.SampleRate = 44100
	}
	if opts.DurationSecs == 0 {
		opts.DurationSecs = 1.0
	}
	if opts.Channels == 0 {
		opts.Channels = 1
	}
	if opts.ToneFreq == 0 {
		opts.ToneFreq = 440.0
	}

	frames := int(opts.DurationSecs * float64(opts.SampleRate))
	amp := math.Pow(10.0, opts.ToneLevel/20.0)

	samples := make([]int16, 0, frames*opts.Channels)
	for i := 0; i < frames; i++ {
		at := float64(i) / float64(opts.SampleRate)
		s := amp * math.Sin(2.0*math.Pi*opts.ToneFreq*at)
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		v := int16(s * float64(math.MaxInt16))
		for ch := 0; ch < opts.Channels; ch++ {
			samples = append(samples, v)
		}
	}

	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	if err := writeWAV(f, samples, opts.SampleRate, opts.Channels); err != nil {
		f.Close()
		t.Fatalf("failed to write WAV file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close test file: %v", err)
	}
	return path
}

// writeWAV writes interleaved 16-bit PCM samples with a RIFF header
func writeWAV(f *os.File, samples []int16, sampleRate, channels int) error {
	const bitsPerSample = 16

	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8
	dataSize := len(samples) * 2
	fileSize := 36 + dataSize

	if _, err := f.Write([]byte("RIFF")); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(fileSize)); err != nil {
		return err
	}
	if _, err := f.Write([]byte("WAVE")); err != nil {
		return err
	}

	if _, err := f.Write([]byte("fmt ")); err != nil {
		return err
	}
	for _, field := range []any{
		uint32(16),         // fmt chunk size
		uint16(1),          // PCM
		uint16(channels),
		uint32(sampleRate),
		uint32(byteRate),
		uint16(blockAlign),
		uint16(bitsPerSample),
	} {
		if err := binary.Write(f, binary.LittleEndian, field); err != nil {
			return err
		}
	}

	if _, err := f.Write([]byte("data")); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(dataSize)); err != nil {
		return err
	}
	for _, sample := range samples {
		if err := binary.Write(f, binary.LittleEndian, sample); err != nil {
			return err
		}
	}
	return nil
}
