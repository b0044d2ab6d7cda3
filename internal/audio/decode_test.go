package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestSniffContainer(t *testing.T) {
	tests := []struct {
		name string
		path string
		head []byte
		want container
	}{
		{
			name: "flac magic",
			path: "x.bin",
			head: []byte("fLaC\x00\x00\x00\x22"),
			want: containerFLAC,
		},
		{
			name: "wav magic",
			path: "x.bin",
			head: []byte("RIFF\x24\x00\x00\x00WAVE"),
			want: containerWAV,
		},
		{
			name: "riff without wave form is not wav",
			path: "x.bin",
			head: []byte("RIFF\x24\x00\x00\x00AVI "),
			want: containerUnknown,
		},
		{
			name: "ogg magic",
			path: "x.bin",
			head: []byte("OggS\x00\x02\x00\x00"),
			want: containerOgg,
		},
		{
			name: "id3 header means mp3",
			path: "x.bin",
			head: []byte("ID3\x04\x00\x00\x00"),
			want: containerMP3,
		},
		{
			name: "raw mp3 by extension",
			path: "track.MP3",
			head: []byte{0xFF, 0xFB, 0x90, 0x00},
			want: containerMP3,
		},
		{
			name: "flac by extension",
			path: "track.flac",
			head: []byte{0x00},
			want: containerFLAC,
		},
		{
			name: "unknown",
			path: "track.xyz",
			head: []byte{0x00, 0x01, 0x02},
			want: containerUnknown,
		},
		{
			name: "empty file",
			path: "empty",
			head: nil,
			want: containerUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sniffContainer(tt.path, tt.head); got != tt.want {
				t.Errorf("sniffContainer(%q) = %d, want %d", tt.path, got, tt.want)
			}
		})
	}
}

func TestDecodeFileWAV(t *testing.T) {
	const (
		sampleRate = 48000
		duration   = 0.5
		level      = -6.0
	)
	path := generateTestWAV(t, testToneOptions{
		DurationSecs: duration,
		SampleRate:   sampleRate,
		ToneLevel:    level,
	})

	track, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}

	if track.Info.Channels != 1 {
		t.Errorf("Channels = %d, want 1", track.Info.Channels)
	}
	if track.Info.SampleRate != sampleRate {
		t.Errorf("SampleRate = %d, want %d", track.Info.SampleRate, sampleRate)
	}
	if track.Info.BitDepth != 16 {
		t.Errorf("BitDepth = %d, want 16", track.Info.BitDepth)
	}
	if track.Buffer.Domain() != Int16 {
		t.Errorf("Domain = %s, want int16", track.Buffer.Domain())
	}

	wantSamples := int(duration * sampleRate)
	if track.Buffer.Len() != wantSamples {
		t.Errorf("Len = %d, want %d", track.Buffer.Len(), wantSamples)
	}

	// The decoded sine's peak should sit at the generated level,
	// within a quantisation step: -6 dBFS = 0.5012 linear
	var peak float64
	for _, s := range track.Buffer.Float64s() {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	wantPeak := math.Pow(10.0, level/20.0)
	if math.Abs(peak-wantPeak) > 0.001 {
		t.Errorf("peak = %.4f, want %.4f", peak, wantPeak)
	}
}

func TestDecodeFileStereoWAV(t *testing.T) {
	path := generateTestWAV(t, testToneOptions{
		DurationSecs: 0.25,
		SampleRate:   44100,
		Channels:     2,
		ToneLevel:    -12.0,
	})

	track, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if track.Info.Channels != 2 {
		t.Errorf("Channels = %d, want 2", track.Info.Channels)
	}

	// Interleaved: total samples = frames * channels
	wantSamples := int(0.25*44100) * 2
	if track.Buffer.Len() != wantSamples {
		t.Errorf("Len = %d, want %d", track.Buffer.Len(), wantSamples)
	}

	// The generator writes the same value to both channels, so each
	// frame's pair must match exactly
	samples := track.Buffer.Int16s()
	for i := 0; i+1 < len(samples); i += 2 {
		if samples[i] != samples[i+1] {
			t.Fatalf("frame %d: channels differ (%d vs %d)", i/2, samples[i], samples[i+1])
		}
	}
}

func TestDecodeFileUnknownFormat(t *testing.T) {
	// A file no probe claims ends up on the ffmpeg fallback; whether
	// ffmpeg is absent or chokes on the garbage, the sentinel is the
	// same, and the failure stays per-file
	path := filepath.Join(t.TempDir(), "garbage.xyz")
	if err := os.WriteFile(path, []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00, 0x01}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := DecodeFile(path)
	if !errors.Is(err, ErrDecodeUnavailable) {
		t.Errorf("DecodeFile = %v, want ErrDecodeUnavailable", err)
	}
}

func TestDecodeFileMissing(t *testing.T) {
	if _, err := DecodeFile("/nonexistent/file.wav"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestCollapseDualMono(t *testing.T) {
	tests := []struct {
		name     string
		in       []int16
		want     []int16
		collapse bool
	}{
		{
			name:     "identical channels fold to mono",
			in:       []int16{100, 100, -200, -200, 0, 0, 32767, 32767},
			want:     []int16{100, -200, 0, 32767},
			collapse: true,
		},
		{
			name:     "true stereo is left alone",
			in:       []int16{100, 100, -200, -199},
			collapse: false,
		},
		{
			name:     "first frame already differs",
			in:       []int16{1, 2},
			collapse: false,
		},
		{
			name:     "empty stream",
			in:       nil,
			collapse: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := collapseDualMono(tt.in)
			if ok != tt.collapse {
				t.Fatalf("collapsed = %v, want %v", ok, tt.collapse)
			}
			if !ok {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sample %d = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}
