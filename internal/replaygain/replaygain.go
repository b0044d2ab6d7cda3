// Package replaygain derives ReplayGain 2.0 values from loudness
// measurements and applies clip prevention. Everything here is pure
// arithmetic; measurement and tag writing live elsewhere.
package replaygain

import (
	"log/slog"
	"math"
)

// referenceLUFS is the ReplayGain 2.0 target loudness.
const referenceLUFS = -18.0

// DefaultMaxTruePeak is the default clip-prevention ceiling in dBTP,
// per EBU Tech 3343.
const DefaultMaxTruePeak = -1.0

// ReplayGain is one computed gain record, per track or per album.
// Values are never mutated after creation; PreventClipping returns a
// corrected copy.
type ReplayGain struct {
	// Gain is the dB/LU offset that brings the measured loudness to
	// the -18 LUFS reference, including any configured pre-gain.
	Gain float64
	// Peak is the linear true-peak amplitude, max across channels.
	Peak float64
	// Range is the loudness range in LU.
	Range float64
	// Reference is the negated pre-gain, recorded for the extended
	// reference-loudness tag. It plays no part in the gain math.
	Reference float64
	// Loudness is the measured integrated loudness in LUFS. It is
	// informational only and never written to tags.
	Loudness float64
}

// GainFor converts an integrated loudness to a ReplayGain value:
// the offset to the -18 LUFS reference plus the operator's pre-gain
// (commonly -5 for a -23 LUFS target).
func GainFor(loudness, preGain float64) float64 {
	return (referenceLUFS - loudness) + preGain
}

// ReferenceFor returns the reference-loudness field for a pre-gain.
func ReferenceFor(preGain float64) float64 {
	return -preGain
}

// DBToAmplitude converts a decibel quantity to linear amplitude.
func DBToAmplitude(db float64) float64 {
	return math.Pow(10, db/20)
}

// AmplitudeToDB converts a linear amplitude to decibels.
func AmplitudeToDB(amplitude float64) float64 {
	return 20 * math.Log10(amplitude)
}

// New assembles a record from raw measurements.
func New(loudness, peak, loudnessRange, preGain float64) ReplayGain {
	return ReplayGain{
		Gain:      GainFor(loudness, preGain),
		Peak:      peak,
		Range:     loudnessRange,
		Reference: ReferenceFor(preGain),
		Loudness:  loudness,
	}
}

// clipGainSlack absorbs round-off from converting peaks between the
// linear and dB domains. It sits far below the 0.01 dB precision at
// which gains are written to tags.
const clipGainSlack = 1e-9

// maxSafeGain is the largest gain that keeps a peak at or under the
// ceiling. A silent peak places no limit on the gain.
func maxSafeGain(peak, ceilingDBTP float64) float64 {
	return ceilingDBTP - AmplitudeToDB(peak)
}

// WouldClip reports whether applying Gain would push the true peak
// over the given ceiling.
func (rg ReplayGain) WouldClip(ceilingDBTP float64) bool {
	return rg.Gain > maxSafeGain(rg.Peak, ceilingDBTP)+clipGainSlack
}

// PreventClipping predicts the true peak after applying Gain and, if it
// would exceed the ceiling, either lowers the gain to sit exactly at
// the ceiling (prevent), warns (warn, without prevent), or leaves the
// record alone. The returned record is a copy; clipped reports whether
// the gain was reduced.
//
// The overshoot test compares gains rather than predicted amplitudes:
// a corrected record re-enters with Gain equal to the clamp value and
// is a no-op, so applying the correction twice never reduces the gain
// a second time.
func (rg ReplayGain) PreventClipping(ceilingDBTP float64, warn, prevent bool) (out ReplayGain, clipped bool) {
	clampGain := maxSafeGain(rg.Peak, ceilingDBTP)

	if rg.Gain <= clampGain+clipGainSlack {
		return rg, false
	}

	switch {
	case prevent:
		rg.Gain = clampGain
		return rg, true
	case warn:
		slog.Warn("track will clip after gain",
			"gain_db", rg.Gain,
			"true_peak", rg.Peak,
			"ceiling_dbtp", ceilingDBTP)
	}
	return rg, false
}
