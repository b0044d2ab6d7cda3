package logging

import (
	"fmt"
	"io"
	"math"

	"github.com/linuxmatters/jivegain/internal/replaygain"
	"github.com/linuxmatters/jivegain/internal/scanner"
)

// mp3gainStep is the granularity of an MP3 global_gain adjustment in
// dB; the integer "MP3 gain" column counts these steps.
const mp3gainStep = 1.505

// WriteMP3GainList writes the classic mp3gain tab-delimited list: a
// header, one line per file, and when album mode is on a final line for
// path "Album". Failed files are skipped (they have no figures).
//
// Max Amplitude is the peak scaled to 16-bit full scale; the two
// global_gain columns are MP3-frame specific and always 0 here.
func WriteMP3GainList(w io.Writer, batch scanner.BatchResult) {
	fmt.Fprintln(w, "File\tMP3 gain\tdB gain\tMax Amplitude\tMax global_gain\tMin global_gain")
	for _, res := range batch.Results {
		if res.Err != nil {
			continue
		}
		writeMP3GainLine(w, res.Path, res.Track)
	}
	if batch.Album != nil {
		writeMP3GainLine(w, "\"Album\"", *batch.Album)
	}
}

func writeMP3GainLine(w io.Writer, path string, rec scanner.Record) {
	fmt.Fprintf(w, "%s\t%d\t%.2f\t%.6f\t%d\t%d\n",
		path,
		int(math.Round(rec.Gain/mp3gainStep)),
		rec.Gain,
		rec.Peak*32768.0,
		0, 0)
}

// WriteNewList writes the newer tab-delimited list with the full set of
// scan figures, one self-describing line per file plus an Album line.
func WriteNewList(w io.Writer, batch scanner.BatchResult, unit string) {
	fmt.Fprintf(w, "File\tLoudness\tRange\tGain (%s)\tReference\tPeak\tPeak (dBTP)\tClipping\tClip-prevent\n", unit)
	for _, res := range batch.Results {
		if res.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", res.Path, res.Err)
			continue
		}
		writeNewListLine(w, res.Path, res.Track)
	}
	if batch.Album != nil {
		writeNewListLine(w, "Album", *batch.Album)
	}
}

func writeNewListLine(w io.Writer, path string, rec scanner.Record) {
	fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.6f\t%.2f\t%s\t%s\n",
		path,
		rec.Loudness,
		rec.Range,
		rec.Gain,
		rec.Reference,
		rec.Peak,
		replaygain.AmplitudeToDB(rec.Peak),
		yesNo(rec.Clipping),
		yesNo(rec.ClipAdjusted))
}

func yesNo(v bool) string {
	if v {
		return "Y"
	}
	return "N"
}
