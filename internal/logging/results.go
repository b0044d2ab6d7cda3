package logging

import (
	"fmt"
	"io"

	"github.com/linuxmatters/jivegain/internal/replaygain"
	"github.com/linuxmatters/jivegain/internal/scanner"
)

// WriteHuman renders the whole batch as per-file metric tables. When an
// album record is present every table gets an Album column so the two
// sets of figures line up.
func WriteHuman(w io.Writer, batch scanner.BatchResult, unit string) {
	for _, res := range batch.Results {
		fmt.Fprintf(w, "%s\n", res.Path)
		if res.Err != nil {
			fmt.Fprintf(w, "  error: %v\n\n", res.Err)
			continue
		}
		fmt.Fprint(w, resultTable(res.Track, batch.Album, unit).String())
		if res.Track.ClipAdjusted {
			fmt.Fprintln(w, "  (gain lowered to prevent clipping)")
		} else if res.Track.Clipping {
			fmt.Fprintln(w, "  (warning: will clip)")
		}
		fmt.Fprintln(w)
	}
}

// resultTable builds the Track/Album comparison table for one file.
func resultTable(track scanner.Record, album *scanner.Record, unit string) *MetricTable {
	headers := []string{"Track"}
	if album != nil {
		headers = append(headers, "Album")
	}

	row := func(label, unitLabel string, format func(r scanner.Record) string) MetricRow {
		values := []string{format(track)}
		if album != nil {
			values = append(values, format(*album))
		}
		return MetricRow{Label: label, Values: values, Unit: unitLabel}
	}

	return &MetricTable{
		Headers: headers,
		Rows: []MetricRow{
			row("Loudness", "LUFS", func(r scanner.Record) string {
				return fmt.Sprintf("%.2f", r.Loudness)
			}),
			row("Range", unit, func(r scanner.Record) string {
				return fmt.Sprintf("%.2f", r.Range)
			}),
			row("True Peak", "", func(r scanner.Record) string {
				return fmt.Sprintf("%.6f", r.Peak)
			}),
			row("True Peak", "dBTP", func(r scanner.Record) string {
				return fmt.Sprintf("%.2f", replaygain.AmplitudeToDB(r.Peak))
			}),
			row("Gain", unit, func(r scanner.Record) string {
				return fmt.Sprintf("%.2f", r.Gain)
			}),
		},
	}
}
