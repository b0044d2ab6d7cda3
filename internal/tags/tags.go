// Package tags writes ReplayGain metadata through taglib. It is the
// only place that knows how gain records become tag keys; the scan
// pipeline just hands over records keyed by file path.
package tags

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sentriz/audiotags"

	"github.com/linuxmatters/jivegain/internal/replaygain"
)

var ErrWrite = errors.New("error writing tags")

// Standard ReplayGain 2.0 keys, plus the extended keys loudgain-style
// scanners emit.
const (
	keyTrackGain = "REPLAYGAIN_TRACK_GAIN"
	keyTrackPeak = "REPLAYGAIN_TRACK_PEAK"
	keyAlbumGain = "REPLAYGAIN_ALBUM_GAIN"
	keyAlbumPeak = "REPLAYGAIN_ALBUM_PEAK"

	keyTrackRange = "REPLAYGAIN_TRACK_RANGE"
	keyAlbumRange = "REPLAYGAIN_ALBUM_RANGE"
	keyReference  = "REPLAYGAIN_REFERENCE_LOUDNESS"
)

// WriteOptions controls the tag surface, not the values.
type WriteOptions struct {
	// Extended adds the range and reference-loudness keys.
	Extended bool
	// Unit labels gain and range values, "dB" (default) or "LU".
	Unit string
	// Lowercase writes lowercase key variants, a non-standard form
	// some players expect.
	Lowercase bool
}

// Write stores the track record, and the album record when present, in
// the file's tags.
func Write(path string, track replaygain.ReplayGain, album *replaygain.ReplayGain, opts WriteOptions) error {
	unit := opts.Unit
	if unit == "" {
		unit = "dB"
	}

	f, err := audiotags.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	// The binding reports existing keys in lowercase, so stale
	// ReplayGain entries must be stripped case-insensitively or the
	// rewrite would duplicate them.
	raw := f.ReadTags()
	for k := range raw {
		if strings.HasPrefix(strings.ToUpper(k), "REPLAYGAIN_") {
			delete(raw, k)
		}
	}
	set := func(key, value string) {
		if opts.Lowercase {
			key = strings.ToLower(key)
		}
		raw[key] = []string{value}
	}

	set(keyTrackGain, fmt.Sprintf("%.2f %s", track.Gain, unit))
	set(keyTrackPeak, fmt.Sprintf("%.6f", track.Peak))
	if album != nil {
		set(keyAlbumGain, fmt.Sprintf("%.2f %s", album.Gain, unit))
		set(keyAlbumPeak, fmt.Sprintf("%.6f", album.Peak))
	}
	if opts.Extended {
		set(keyTrackRange, fmt.Sprintf("%.2f %s", track.Range, unit))
		set(keyReference, fmt.Sprintf("%.2f %s", track.Reference, unit))
		if album != nil {
			set(keyAlbumRange, fmt.Sprintf("%.2f %s", album.Range, unit))
		}
	}

	if !f.WriteTags(raw) {
		return fmt.Errorf("%w: %s", ErrWrite, path)
	}
	return nil
}

// Delete strips every ReplayGain key, in either case variant, leaving
// all other tags alone.
func Delete(path string) error {
	f, err := audiotags.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	raw := f.ReadTags()
	var found bool
	for k := range raw {
		if strings.HasPrefix(strings.ToUpper(k), "REPLAYGAIN_") {
			delete(raw, k)
			found = true
		}
	}
	if !found {
		return nil
	}

	if !f.WriteTags(raw) {
		return fmt.Errorf("%w: %s", ErrWrite, path)
	}
	return nil
}
