// Package loudness adapts the EBU R128 measurement engine to the scan
// pipeline: one meter per track, fed once with the track's complete
// sample buffer in its native numeric domain.
package loudness

import (
	"errors"
	"fmt"

	"github.com/linuxmatters/jivegain/internal/audio"
	"github.com/linuxmatters/jivegain/internal/ebur128"
)

var (
	ErrInvalidChannelCount = errors.New("invalid channel count")
	ErrInvalidSampleRate   = errors.New("invalid sample rate")
	// ErrUnsupportedConfiguration means the engine could not be set up
	// for the requested analyses (integrated loudness, loudness range
	// and true peak are always requested together).
	ErrUnsupportedConfiguration = errors.New("unsupported measurement configuration")
	// ErrInsufficientData means the track was too short or too silent
	// for the engine to produce a stable measurement.
	ErrInsufficientData = errors.New("not enough audio for a stable measurement")
)

// scanMode is the full analysis set every meter requests. Gain needs
// integrated loudness, the extended tags need the range, and clip
// prevention needs the true peak, so nothing less is ever useful.
const scanMode = ebur128.ModeI | ebur128.ModeLRA | ebur128.ModeTruePeak

// Meter is the per-track measurement context. In album mode meters are
// kept alive after their per-track values are read, because the pooled
// album reducers read every meter's internal accumulator at once.
type Meter struct {
	state    *ebur128.State
	channels int
	ingested bool
}

// NewMeter validates the stream layout and prepares an engine context.
func NewMeter(channels, sampleRate int) (*Meter, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannelCount, channels)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	state, err := ebur128.New(channels, sampleRate, scanMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedConfiguration, err)
	}
	return &Meter{state: state, channels: channels}, nil
}

// Ingest bulk-feeds the complete track buffer through the engine entry
// point matching the buffer's domain. It must be called exactly once;
// the buffer may be released afterwards, the meter keeps only the
// engine's accumulators.
func (m *Meter) Ingest(buf *audio.Buffer) error {
	if m.ingested {
		return errors.New("meter already ingested a buffer")
	}
	m.ingested = true

	var err error
	switch buf.Domain() {
	case audio.Int16:
		err = m.state.AddFramesInt16(buf.Int16s())
	case audio.Int32:
		err = m.state.AddFramesInt32(buf.Int32s())
	case audio.Float32:
		err = m.state.AddFramesFloat32(buf.Float32s())
	case audio.Float64:
		err = m.state.AddFramesFloat64(buf.Float64s())
	}
	if err != nil {
		return fmt.Errorf("ingest samples: %w", err)
	}
	return nil
}

// Integrated returns the track's integrated loudness in LUFS.
func (m *Meter) Integrated() (float64, error) {
	l, err := m.state.LoudnessGlobal()
	if err != nil {
		return 0, queryErr(err)
	}
	return l, nil
}

// Range returns the track's loudness range in LU.
func (m *Meter) Range() (float64, error) {
	r, err := m.state.LoudnessRange()
	if err != nil {
		return 0, queryErr(err)
	}
	return r, nil
}

// TruePeak returns the track's linear true-peak amplitude, the maximum
// over all channels. Values above 1.0 are possible after inter-sample
// overshoot.
func (m *Meter) TruePeak() (float64, error) {
	var peak float64
	for ch := 0; ch < m.channels; ch++ {
		p, err := m.state.TruePeak(ch)
		if err != nil {
			return 0, queryErr(err)
		}
		if p > peak {
			peak = p
		}
	}
	return peak, nil
}

// Close releases the engine context.
func (m *Meter) Close() {
	m.state.Close()
}

// AlbumLoudness pools all track meters into a single album-wide
// integrated loudness. Every meter must still be open.
func AlbumLoudness(meters []*Meter) (float64, error) {
	l, err := ebur128.LoudnessGlobalMultiple(states(meters))
	if err != nil {
		return 0, queryErr(err)
	}
	return l, nil
}

// AlbumRange pools all track meters into a single album-wide loudness
// range.
func AlbumRange(meters []*Meter) (float64, error) {
	r, err := ebur128.LoudnessRangeMultiple(states(meters))
	if err != nil {
		return 0, queryErr(err)
	}
	return r, nil
}

func states(meters []*Meter) []*ebur128.State {
	out := make([]*ebur128.State, len(meters))
	for i, m := range meters {
		out[i] = m.state
	}
	return out
}

func queryErr(err error) error {
	if errors.Is(err, ebur128.ErrNoChange) {
		return ErrInsufficientData
	}
	return err
}
