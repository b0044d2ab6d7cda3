package logging

import (
	"errors"
	"strings"
	"testing"

	"github.com/linuxmatters/jivegain/internal/replaygain"
	"github.com/linuxmatters/jivegain/internal/scanner"
)

func testBatch() scanner.BatchResult {
	return scanner.BatchResult{
		Results: []scanner.Result{
			{
				Path: "one.flac",
				Track: scanner.Record{
					ReplayGain: replaygain.ReplayGain{
						Gain:     3.01,
						Peak:     0.5,
						Range:    7.25,
						Loudness: -21.01,
					},
				},
			},
			{
				Path: "broken.flac",
				Err:  errors.New("decode failed"),
			},
		},
		Album: &scanner.Record{
			ReplayGain: replaygain.ReplayGain{
				Gain:     2.50,
				Peak:     0.5,
				Range:    8.00,
				Loudness: -20.50,
			},
		},
	}
}

func TestWriteMP3GainList(t *testing.T) {
	var sb strings.Builder
	WriteMP3GainList(&sb, testBatch())

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	// Header, one good file, the Album summary; the failed file is
	// skipped entirely in this format
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), sb.String())
	}

	if lines[0] != "File\tMP3 gain\tdB gain\tMax Amplitude\tMax global_gain\tMin global_gain" {
		t.Errorf("unexpected header: %q", lines[0])
	}

	fields := strings.Split(lines[1], "\t")
	if len(fields) != 6 {
		t.Fatalf("got %d fields, want 6: %q", len(fields), lines[1])
	}
	if fields[0] != "one.flac" {
		t.Errorf("file field = %q", fields[0])
	}
	// 3.01 / 1.505 = 2.0 steps
	if fields[1] != "2" {
		t.Errorf("MP3 gain = %q, want 2", fields[1])
	}
	if fields[2] != "3.01" {
		t.Errorf("dB gain = %q, want 3.01", fields[2])
	}
	// 0.5 * 32768 = 16384
	if fields[3] != "16384.000000" {
		t.Errorf("max amplitude = %q, want 16384.000000", fields[3])
	}
	if fields[4] != "0" || fields[5] != "0" {
		t.Errorf("global_gain fields = %q/%q, want 0/0", fields[4], fields[5])
	}

	if !strings.HasPrefix(lines[2], "\"Album\"\t") {
		t.Errorf("album line = %q", lines[2])
	}
}

func TestWriteNewList(t *testing.T) {
	var sb strings.Builder
	WriteNewList(&sb, testBatch(), "dB")

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	// Header, good file, failed file, Album
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), sb.String())
	}

	if !strings.Contains(lines[0], "Gain (dB)") {
		t.Errorf("header missing unit: %q", lines[0])
	}

	fields := strings.Split(lines[1], "\t")
	if len(fields) != 9 {
		t.Fatalf("got %d fields, want 9: %q", len(fields), lines[1])
	}
	if fields[1] != "-21.01" {
		t.Errorf("loudness = %q, want -21.01", fields[1])
	}
	if fields[5] != "0.500000" {
		t.Errorf("peak = %q, want 0.500000", fields[5])
	}
	// 20*log10(0.5) = -6.02 dBTP
	if fields[6] != "-6.02" {
		t.Errorf("peak dBTP = %q, want -6.02", fields[6])
	}
	if fields[7] != "N" || fields[8] != "N" {
		t.Errorf("flags = %q/%q, want N/N", fields[7], fields[8])
	}

	if !strings.Contains(lines[2], "error: decode failed") {
		t.Errorf("failed file line = %q", lines[2])
	}
	if !strings.HasPrefix(lines[3], "Album\t") {
		t.Errorf("album line = %q", lines[3])
	}
}

func TestWriteNewListUnit(t *testing.T) {
	var sb strings.Builder
	WriteNewList(&sb, testBatch(), "LU")

	if !strings.Contains(sb.String(), "Gain (LU)") {
		t.Error("LU unit not threaded into header")
	}
}
