// Package ebur128 is a thin cgo binding to libebur128, the reference
// EBU R128 loudness measurement engine. It exposes only what the gain
// pipeline needs: per-track measurement state fed in bulk from one of
// the four native sample representations, plus the multi-state reducers
// used for album-level figures.
package ebur128

// #cgo pkg-config: libebur128
// #include <ebur128.h>
// #include <stdlib.h>
import "C"

import (
	"errors"
	"fmt"
	"unsafe"
)

// Mode selects which analyses a State performs. Values combine with
// bitwise or, mirroring the C constants.
type Mode int

const (
	ModeI          Mode = C.EBUR128_MODE_I
	ModeLRA        Mode = C.EBUR128_MODE_LRA
	ModeSamplePeak Mode = C.EBUR128_MODE_SAMPLE_PEAK
	ModeTruePeak   Mode = C.EBUR128_MODE_TRUE_PEAK
)

var (
	ErrNoMem               = errors.New("ebur128: out of memory")
	ErrInvalidMode         = errors.New("ebur128: invalid mode for this query")
	ErrInvalidChannelIndex = errors.New("ebur128: invalid channel index")
	// ErrNoChange is what the engine reports when it has not seen
	// enough audio for the requested measurement to change or settle.
	ErrNoChange = errors.New("ebur128: not enough data")
)

func codeToErr(code C.int) error {
	switch code {
	case C.EBUR128_SUCCESS:
		return nil
	case C.EBUR128_ERROR_NOMEM:
		return ErrNoMem
	case C.EBUR128_ERROR_INVALID_MODE:
		return ErrInvalidMode
	case C.EBUR128_ERROR_INVALID_CHANNEL_INDEX:
		return ErrInvalidChannelIndex
	case C.EBUR128_ERROR_NO_CHANGE:
		return ErrNoChange
	default:
		return fmt.Errorf("ebur128: error code %d", int(code))
	}
}

// State is one opaque measurement context. It accumulates loudness
// internally; the raw samples are not retained after AddFrames returns.
type State struct {
	st       *C.ebur128_state
	channels int
}

// New creates a measurement state for the given stream layout.
// Returns ErrNoMem if the engine rejects the configuration.
func New(channels, sampleRate int, mode Mode) (*State, error) {
	st := C.ebur128_init(C.uint(channels), C.ulong(sampleRate), C.int(mode))
	if st == nil {
		return nil, ErrNoMem
	}
	return &State{st: st, channels: channels}, nil
}

// Close releases the underlying C state. The State must not be used
// afterwards.
func (s *State) Close() {
	if s.st != nil {
		C.ebur128_destroy(&s.st)
		s.st = nil
	}
}

// AddFramesInt16 feeds interleaved 16-bit samples.
func (s *State) AddFramesInt16(samples []int16) error {
	if len(samples) == 0 {
		return nil
	}
	return codeToErr(C.ebur128_add_frames_short(s.st,
		(*C.short)(unsafe.Pointer(&samples[0])),
		C.size_t(len(samples)/s.channels)))
}

// AddFramesInt32 feeds interleaved full-scale 32-bit samples.
func (s *State) AddFramesInt32(samples []int32) error {
	if len(samples) == 0 {
		return nil
	}
	return codeToErr(C.ebur128_add_frames_int(s.st,
		(*C.int)(unsafe.Pointer(&samples[0])),
		C.size_t(len(samples)/s.channels)))
}

// AddFramesFloat32 feeds interleaved 32-bit float samples.
func (s *State) AddFramesFloat32(samples []float32) error {
	if len(samples) == 0 {
		return nil
	}
	return codeToErr(C.ebur128_add_frames_float(s.st,
		(*C.float)(unsafe.Pointer(&samples[0])),
		C.size_t(len(samples)/s.channels)))
}

// AddFramesFloat64 feeds interleaved 64-bit float samples.
func (s *State) AddFramesFloat64(samples []float64) error {
	if len(samples) == 0 {
		return nil
	}
	return codeToErr(C.ebur128_add_frames_double(s.st,
		(*C.double)(unsafe.Pointer(&samples[0])),
		C.size_t(len(samples)/s.channels)))
}

// LoudnessGlobal returns the integrated loudness in LUFS.
func (s *State) LoudnessGlobal() (float64, error) {
	var out C.double
	if err := codeToErr(C.ebur128_loudness_global(s.st, &out)); err != nil {
		return 0, err
	}
	return float64(out), nil
}

// LoudnessRange returns the loudness range in LU.
func (s *State) LoudnessRange() (float64, error) {
	var out C.double
	if err := codeToErr(C.ebur128_loudness_range(s.st, &out)); err != nil {
		return 0, err
	}
	return float64(out), nil
}

// TruePeak returns the linear true-peak amplitude of one channel.
func (s *State) TruePeak(channel int) (float64, error) {
	var out C.double
	if err := codeToErr(C.ebur128_true_peak(s.st, C.uint(channel), &out)); err != nil {
		return 0, err
	}
	return float64(out), nil
}

// LoudnessGlobalMultiple pools the internal accumulators of several
// states into one integrated loudness figure. All states must still be
// open.
func LoudnessGlobalMultiple(states []*State) (float64, error) {
	ptrs := statePtrs(states)
	var out C.double
	if err := codeToErr(C.ebur128_loudness_global_multiple(&ptrs[0], C.size_t(len(ptrs)), &out)); err != nil {
		return 0, err
	}
	return float64(out), nil
}

// LoudnessRangeMultiple pools several states into one loudness range
// figure.
func LoudnessRangeMultiple(states []*State) (float64, error) {
	ptrs := statePtrs(states)
	var out C.double
	if err := codeToErr(C.ebur128_loudness_range_multiple(&ptrs[0], C.size_t(len(ptrs)), &out)); err != nil {
		return 0, err
	}
	return float64(out), nil
}

func statePtrs(states []*State) []*C.ebur128_state {
	ptrs := make([]*C.ebur128_state, len(states))
	for i, s := range states {
		ptrs[i] = s.st
	}
	return ptrs
}
