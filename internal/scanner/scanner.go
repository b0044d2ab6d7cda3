// Package scanner drives the scan pipeline: decode each file, measure
// its loudness, derive ReplayGain, and optionally pool the per-track
// measurements into an album figure.
package scanner

import (
	"errors"
	"fmt"
	"sync"

	"github.com/linuxmatters/jivegain/internal/audio"
	"github.com/linuxmatters/jivegain/internal/loudness"
	"github.com/linuxmatters/jivegain/internal/replaygain"
)

// ErrIncompleteAlbum means album aggregation was requested but at least
// one track failed to scan. The pooled reducers need every track's
// measurement context, so this fails the whole album while the
// surviving per-track results remain valid.
var ErrIncompleteAlbum = errors.New("album gain needs every track scanned")

// Config is the read-only configuration shared by all workers.
type Config struct {
	PreGain          float64 // dB/LU added to every computed gain
	Album            bool    // also compute an album-level ReplayGain
	MaxTruePeakLevel float64 // clip-prevention ceiling in dBTP
	WarnClip         bool    // warn when the predicted peak exceeds the ceiling
	PreventClip      bool    // lower gain to the ceiling instead
	Workers          int     // parallel scan workers, default 4
}

// Record is a gain record after the clip policy ran over it.
type Record struct {
	replaygain.ReplayGain
	Clipping     bool // predicted peak exceeded the ceiling before any correction
	ClipAdjusted bool // gain was lowered to meet the ceiling
}

// Result is the outcome for a single file. Err is set when decode or
// measurement failed; the rest of the batch is unaffected.
type Result struct {
	Path  string
	Track Record
	Err   error
}

// BatchResult collects per-file outcomes plus the optional album
// record.
type BatchResult struct {
	Results []Result
	Album   *Record
}

// Event notifies a UI about scan progress.
type Event struct {
	Index int
	Path  string
	Done  bool
	Res   *Result
}

// scanOne runs the per-track pipeline. On success the returned meter is
// still open; the caller owns it (album pooling needs all meters alive
// at once) and must close it. The sample buffer is released as soon as
// the meter has ingested it.
func scanOne(path string, preGain float64) (replaygain.ReplayGain, *loudness.Meter, error) {
	track, err := audio.DecodeFile(path)
	if err != nil {
		return replaygain.ReplayGain{}, nil, err
	}

	meter, err := loudness.NewMeter(track.Info.Channels, track.Info.SampleRate)
	if err != nil {
		return replaygain.ReplayGain{}, nil, err
	}
	if err := meter.Ingest(track.Buffer); err != nil {
		meter.Close()
		return replaygain.ReplayGain{}, nil, err
	}
	track.Buffer = nil // engine holds the accumulators now

	global, err := meter.Integrated()
	if err != nil {
		meter.Close()
		return replaygain.ReplayGain{}, nil, fmt.Errorf("integrated loudness: %w", err)
	}
	lra, err := meter.Range()
	if err != nil {
		meter.Close()
		return replaygain.ReplayGain{}, nil, fmt.Errorf("loudness range: %w", err)
	}
	peak, err := meter.TruePeak()
	if err != nil {
		meter.Close()
		return replaygain.ReplayGain{}, nil, fmt.Errorf("true peak: %w", err)
	}

	return replaygain.New(global, peak, lra, preGain), meter, nil
}

// ScanBatch scans every path with a fixed worker pool. Per-file
// failures are recorded in their Result and never abort the batch. The
// returned error concerns album aggregation only: ErrIncompleteAlbum
// when a track failure made pooling impossible, or the pooled reducer's
// own failure.
//
// notify, if non-nil, is called from worker goroutines as files start
// and finish.
func ScanBatch(paths []string, cfg Config, notify func(Event)) (BatchResult, error) {
	results := make([]Result, len(paths))
	meters := make([]*loudness.Meter, len(paths))
	defer func() {
		for _, m := range meters {
			if m != nil {
				m.Close()
			}
		}
	}()

	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}

	jobs := make(chan int)
	go func() {
		for i := range paths {
			jobs <- i
		}
		close(jobs)
	}()

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if notify != nil {
					notify(Event{Index: i, Path: paths[i]})
				}
				rg, meter, err := scanOne(paths[i], cfg.PreGain)
				results[i] = Result{Path: paths[i], Track: Record{ReplayGain: rg}, Err: err}
				meters[i] = meter
				if notify != nil {
					notify(Event{Index: i, Path: paths[i], Done: true, Res: &results[i]})
				}
			}
		}()
	}
	wg.Wait() // album pooling needs every meter before it may run

	batch := BatchResult{Results: results}

	var albumErr error
	if cfg.Album {
		batch.Album, albumErr = albumGain(results, meters, cfg)
	}

	// Clip prevention runs last so the album record is derived from
	// uncorrected track measurements, matching the pooled reducers.
	for i := range batch.Results {
		if batch.Results[i].Err != nil {
			continue
		}
		batch.Results[i].Track = clipPolicy(batch.Results[i].Track.ReplayGain, cfg)
	}

	return batch, albumErr
}

// clipPolicy applies the configured clip handling to one gain record.
func clipPolicy(rg replaygain.ReplayGain, cfg Config) Record {
	clipping := rg.WouldClip(cfg.MaxTruePeakLevel)
	corrected, adjusted := rg.PreventClipping(cfg.MaxTruePeakLevel, cfg.WarnClip, cfg.PreventClip)
	return Record{ReplayGain: corrected, Clipping: clipping, ClipAdjusted: adjusted}
}

// albumGain pools the retained per-track meters into one album record.
func albumGain(results []Result, meters []*loudness.Meter, cfg Config) (*Record, error) {
	open := make([]*loudness.Meter, 0, len(meters))
	for i, m := range meters {
		if results[i].Err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrIncompleteAlbum, results[i].Path, results[i].Err)
		}
		open = append(open, m)
	}
	if len(open) == 0 {
		return nil, ErrIncompleteAlbum
	}

	global, err := loudness.AlbumLoudness(open)
	if err != nil {
		return nil, fmt.Errorf("album loudness: %w", err)
	}
	lra, err := loudness.AlbumRange(open)
	if err != nil {
		return nil, fmt.Errorf("album loudness range: %w", err)
	}

	// Album peak is the max of the already-computed track peaks, not a
	// re-measurement.
	var peak float64
	for _, r := range results {
		if r.Track.Peak > peak {
			peak = r.Track.Peak
		}
	}

	rec := clipPolicy(replaygain.New(global, peak, lra, cfg.PreGain), cfg)
	return &rec, nil
}
