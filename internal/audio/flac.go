package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
)

// decodeFLAC is the dedicated FLAC path: no probing, the stream is
// decoded frame by frame straight into the target domain. Bit depths up
// to 16 land in the Int16 domain; 17-32 bit sources are widened to full
// 32-bit scale.
func decodeFLAC(path string) (Track, error) {
	stream, err := flac.Open(path)
	if err != nil {
		return Track{}, fmt.Errorf("open flac %s: %w", path, err)
	}
	defer stream.Close()

	info := stream.Info
	bits := int(info.BitsPerSample)
	channels := int(info.NChannels)

	domain, err := DomainForBits(bits)
	if err != nil {
		return Track{}, fmt.Errorf("flac %s: %w", path, err)
	}

	buf := NewBuffer(domain, int(info.NSamples)*channels)
	interleaved16 := make([]int16, 0, 4096*channels)
	interleaved32 := make([]int32, 0, 4096*channels)

	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Track{}, fmt.Errorf("decode flac %s: %w", path, err)
		}

		n := len(frame.Subframes[0].Samples)
		switch domain {
		case Int16:
			interleaved16 = interleaved16[:0]
			for i := 0; i < n; i++ {
				for ch := 0; ch < channels; ch++ {
					interleaved16 = append(interleaved16, int16(frame.Subframes[ch].Samples[i]))
				}
			}
			if err := buf.AppendInt16(interleaved16); err != nil {
				return Track{}, err
			}
		case Int32:
			interleaved32 = interleaved32[:0]
			for i := 0; i < n; i++ {
				for ch := 0; ch < channels; ch++ {
					interleaved32 = append(interleaved32, ShiftToFullScale(frame.Subframes[ch].Samples[i], bits))
				}
			}
			if err := buf.AppendInt32(interleaved32); err != nil {
				return Track{}, err
			}
		}
	}

	return Track{
		Buffer: buf,
		Info: StreamInfo{
			Channels:   channels,
			SampleRate: int(info.SampleRate),
			BitDepth:   bits,
		},
	}, nil
}
