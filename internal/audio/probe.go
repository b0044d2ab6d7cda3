package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

// decodeWAV handles PCM integer WAV files. Float WAV variants are left
// to the ffmpeg fallback.
func decodeWAV(path string) (Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return Track{}, fmt.Errorf("open wav %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Track{}, fmt.Errorf("%w: %s is not a valid wav file", ErrUnsupportedContainer, path)
	}
	if dec.WavAudioFormat != 1 {
		return Track{}, fmt.Errorf("%w: wav audio format %d in %s", ErrUnsupportedCodec, dec.WavAudioFormat, path)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return Track{}, fmt.Errorf("decode wav %s: %w", path, err)
	}

	bits := int(dec.BitDepth)
	channels := int(dec.NumChans)
	domain, err := DomainForBits(bits)
	if err != nil {
		return Track{}, fmt.Errorf("%w: wav %s: %v", ErrUnsupportedCodec, path, err)
	}

	buf := NewBuffer(domain, len(pcm.Data))
	switch domain {
	case Int16:
		samples := make([]int16, len(pcm.Data))
		if bits == 8 {
			// 8-bit WAV is unsigned; recentre then widen.
			for i, s := range pcm.Data {
				samples[i] = int16(s-128) << 8
			}
		} else {
			for i, s := range pcm.Data {
				samples[i] = int16(s)
			}
		}
		if err := buf.AppendInt16(samples); err != nil {
			return Track{}, err
		}
	case Int32:
		samples := make([]int32, len(pcm.Data))
		for i, s := range pcm.Data {
			samples[i] = ShiftToFullScale(int32(s), bits)
		}
		if err := buf.AppendInt32(samples); err != nil {
			return Track{}, err
		}
	}

	return Track{
		Buffer: buf,
		Info: StreamInfo{
			Channels:   channels,
			SampleRate: int(dec.SampleRate),
			BitDepth:   bits,
		},
	}, nil
}

// decodeVorbis decodes Ogg Vorbis. Vorbis is natively float, so the
// whole stream lands in the Float32 domain.
func decodeVorbis(path string) (Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return Track{}, fmt.Errorf("open ogg %s: %w", path, err)
	}
	defer f.Close()

	samples, format, err := oggvorbis.ReadAll(f)
	if err != nil {
		return Track{}, fmt.Errorf("%w: ogg %s: %v", ErrUnsupportedCodec, path, err)
	}

	buf := NewBuffer(Float32, len(samples))
	if err := buf.AppendFloat32(samples); err != nil {
		return Track{}, err
	}

	return Track{
		Buffer: buf,
		Info: StreamInfo{
			Channels:   format.Channels,
			SampleRate: format.SampleRate,
			BitDepth:   0, // lossy, no source bit depth
		},
	}, nil
}

// decodeMP3 decodes MPEG audio. go-mp3 always emits 16-bit stereo,
// upmixing mono streams to dual mono; collapseDualMono undoes that so
// mono sources keep their mono loudness.
func decodeMP3(path string) (Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return Track{}, fmt.Errorf("open mp3 %s: %w", path, err)
	}
	defer f.Close()

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return Track{}, fmt.Errorf("%w: mp3 %s: %v", ErrUnsupportedCodec, path, err)
	}

	samples := make([]int16, 0, int(dec.Length())/2)
	raw := make([]byte, 16384)
	for {
		n, err := dec.Read(raw)
		for i := 0; i+1 < n; i += 2 {
			samples = append(samples, int16(uint16(raw[i])|uint16(raw[i+1])<<8))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return Track{}, fmt.Errorf("decode mp3 %s: %w", path, err)
		}
	}

	channels := 2
	if mono, ok := collapseDualMono(samples); ok {
		samples = mono
		channels = 1
	}

	buf := NewBuffer(Int16, len(samples))
	if err := buf.AppendInt16(samples); err != nil {
		return Track{}, err
	}

	return Track{
		Buffer: buf,
		Info: StreamInfo{
			Channels:   channels,
			SampleRate: dec.SampleRate(),
			BitDepth:   0,
		},
	}, nil
}

// collapseDualMono deinterleaves a stereo stream down to one channel
// when both sides carry the same sample in every frame. A dual-mono
// pair measures 3 LU louder than the single channel it came from, so
// it must not reach the meter as stereo.
func collapseDualMono(samples []int16) ([]int16, bool) {
	if len(samples) < 2 {
		return samples, false
	}
	for i := 0; i+1 < len(samples); i += 2 {
		if samples[i] != samples[i+1] {
			return samples, false
		}
	}
	mono := make([]int16, len(samples)/2)
	for i := range mono {
		mono[i] = samples[i*2]
	}
	return mono, true
}
