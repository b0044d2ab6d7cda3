// Package audio decodes audio files into interleaved sample buffers
package audio

import (
	"errors"
	"fmt"
)

// Domain identifies the numeric representation of decoded samples.
// The measurement engine has a native ingestion entry point for each of
// these four representations, so decoded audio is kept in whichever one
// the source format maps to rather than upcast to a common type.
type Domain int

const (
	Int16 Domain = iota
	Int32
	Float32
	Float64
)

func (d Domain) String() string {
	switch d {
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return fmt.Sprintf("Domain(%d)", int(d))
	}
}

// ErrDomainMismatch is returned when samples are appended to a buffer
// holding a different numeric domain. Decoders pick one domain per track
// at the first decoded packet, so hitting this is a programming error.
var ErrDomainMismatch = errors.New("sample domain mismatch")

// Buffer holds a whole track of decoded samples, interleaved frame-major
// (channel 0, channel 1, ..., channel 0, ...). A buffer is homogeneous:
// its domain is fixed at creation and exactly one of the sample slices
// is ever populated.
type Buffer struct {
	domain Domain

	i16 []int16
	i32 []int32
	f32 []float32
	f64 []float64
}

// NewBuffer creates an empty buffer in the given domain with capacity
// for at least capSamples samples.
func NewBuffer(domain Domain, capSamples int) *Buffer {
	b := &Buffer{domain: domain}
	switch domain {
	case Int16:
		b.i16 = make([]int16, 0, capSamples)
	case Int32:
		b.i32 = make([]int32, 0, capSamples)
	case Float32:
		b.f32 = make([]float32, 0, capSamples)
	case Float64:
		b.f64 = make([]float64, 0, capSamples)
	}
	return b
}

// Domain reports the numeric domain fixed at creation.
func (b *Buffer) Domain() Domain { return b.domain }

// Len reports the number of samples across all channels.
func (b *Buffer) Len() int {
	switch b.domain {
	case Int16:
		return len(b.i16)
	case Int32:
		return len(b.i32)
	case Float32:
		return len(b.f32)
	default:
		return len(b.f64)
	}
}

// AppendInt16 appends interleaved samples to an Int16-domain buffer.
func (b *Buffer) AppendInt16(samples []int16) error {
	if b.domain != Int16 {
		return fmt.Errorf("%w: appending int16 to %s buffer", ErrDomainMismatch, b.domain)
	}
	b.i16 = append(b.i16, samples...)
	return nil
}

// AppendInt32 appends interleaved samples to an Int32-domain buffer.
func (b *Buffer) AppendInt32(samples []int32) error {
	if b.domain != Int32 {
		return fmt.Errorf("%w: appending int32 to %s buffer", ErrDomainMismatch, b.domain)
	}
	b.i32 = append(b.i32, samples...)
	return nil
}

// AppendFloat32 appends interleaved samples to a Float32-domain buffer.
func (b *Buffer) AppendFloat32(samples []float32) error {
	if b.domain != Float32 {
		return fmt.Errorf("%w: appending float32 to %s buffer", ErrDomainMismatch, b.domain)
	}
	b.f32 = append(b.f32, samples...)
	return nil
}

// AppendFloat64 appends interleaved samples to a Float64-domain buffer.
func (b *Buffer) AppendFloat64(samples []float64) error {
	if b.domain != Float64 {
		return fmt.Errorf("%w: appending float64 to %s buffer", ErrDomainMismatch, b.domain)
	}
	b.f64 = append(b.f64, samples...)
	return nil
}

// Int16s returns the raw samples of an Int16-domain buffer.
// It is only valid on that domain; other domains return nil since
// narrowing conversions are never needed by any caller.
func (b *Buffer) Int16s() []int16 {
	if b.domain != Int16 {
		return nil
	}
	return b.i16
}

// Int32s returns the samples widened to the 32-bit integer domain.
// Widening from Int16 shifts left so full scale is preserved; the
// conversion is lossless and reversible.
func (b *Buffer) Int32s() []int32 {
	switch b.domain {
	case Int16:
		out := make([]int32, len(b.i16))
		for i, s := range b.i16 {
			out[i] = int32(s) << 16
		}
		return out
	case Int32:
		return b.i32
	default:
		return nil
	}
}

// Float32s returns the samples in the 32-bit float domain. Integer
// samples are divided by their domain's full-scale value, mapping full
// scale to ±1.0.
func (b *Buffer) Float32s() []float32 {
	switch b.domain {
	case Int16:
		out := make([]float32, len(b.i16))
		for i, s := range b.i16 {
			out[i] = float32(s) / 0x8000
		}
		return out
	case Int32:
		out := make([]float32, len(b.i32))
		for i, s := range b.i32 {
			out[i] = float32(float64(s) / 0x80000000)
		}
		return out
	case Float32:
		return b.f32
	default:
		return nil
	}
}

// Float64s returns the samples in the 64-bit float domain. All widening
// paths into this domain are lossless.
func (b *Buffer) Float64s() []float64 {
	switch b.domain {
	case Int16:
		out := make([]float64, len(b.i16))
		for i, s := range b.i16 {
			out[i] = float64(s) / 0x8000
		}
		return out
	case Int32:
		out := make([]float64, len(b.i32))
		for i, s := range b.i32 {
			out[i] = float64(s) / 0x80000000
		}
		return out
	case Float32:
		out := make([]float64, len(b.f32))
		for i, s := range b.f32 {
			out[i] = float64(s)
		}
		return out
	default:
		return b.f64
	}
}

// DomainForBits maps a source integer bit depth to its sample domain:
// depths up to 16 bits use Int16, 17 to 32 bits use Int32. Decoders
// producing deeper-than-16-bit integers must left-shift samples so the
// source's most significant bit lands in the top bit of the 32-bit
// container (see ShiftToFullScale).
func DomainForBits(bits int) (Domain, error) {
	switch {
	case bits >= 1 && bits <= 16:
		return Int16, nil
	case bits >= 17 && bits <= 32:
		return Int32, nil
	default:
		return 0, fmt.Errorf("unsupported bit depth %d", bits)
	}
}

// ShiftToFullScale normalises an integer sample of the given bit depth
// to full 32-bit scale.
func ShiftToFullScale(sample int32, bits int) int32 {
	return sample << (32 - bits)
}

// StreamInfo describes the stream a buffer was decoded from. It is
// created once per file and never modified afterwards.
type StreamInfo struct {
	Channels   int // >= 1
	SampleRate int // Hz, > 0
	BitDepth   int // source bits per sample, 0 if unknown (lossy codecs)
}
