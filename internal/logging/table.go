// Package logging renders scan results: an aligned metric table for
// humans and the two machine-readable list formats.
// This file contains the reusable table formatting infrastructure.

package logging

import (
	"fmt"
	"strings"
)

// MetricRow represents a single row in a results table.
// Values are pre-formatted strings to allow for mixed formatting
// (fixed decimals for dB figures, six places for linear peaks).
type MetricRow struct {
	Label  string   // Row label, e.g., "Loudness"
	Values []string // One value per column (Track, Album)
	Unit   string   // Unit suffix, e.g., "LUFS", "dB", "" for unitless
}

// MetricTable formats aligned columns for metric display.
// Handles variable column widths and missing values (a track-only scan
// has no Album column values).
type MetricTable struct {
	Headers []string    // Column headers, e.g., ["Track", "Album"]
	Rows    []MetricRow // Data rows
}

// String renders the table with aligned columns.
// - Labels are left-aligned
// - Numeric values are right-aligned within their column
// - Units are appended after the last value column
func (t *MetricTable) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	labelWidth := 0
	for _, row := range t.Rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
	}

	// Value column widths (one per header)
	valueWidths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		valueWidths[i] = len(header) // Start with header width
	}
	for _, row := range t.Rows {
		for i, val := range row.Values {
			if i < len(valueWidths) && len(val) > valueWidths[i] {
				valueWidths[i] = len(val)
			}
		}
	}

	var sb strings.Builder

	// Header row
	sb.WriteString(strings.Repeat(" ", labelWidth+2))
	for i, header := range t.Headers {
		sb.WriteString(fmt.Sprintf("%*s  ", valueWidths[i], header))
	}
	sb.WriteString("\n")

	// Data rows
	for _, row := range t.Rows {
		sb.WriteString(fmt.Sprintf("%-*s  ", labelWidth, row.Label))

		for i := 0; i < len(t.Headers); i++ {
			val := "-" // Default for missing values
			if i < len(row.Values) && row.Values[i] != "" {
				val = row.Values[i]
			}
			sb.WriteString(fmt.Sprintf("%*s  ", valueWidths[i], val))
		}

		if row.Unit != "" {
			sb.WriteString(row.Unit)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
