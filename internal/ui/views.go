package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderScanView renders the main scanning view
func renderScanView(m Model) string {
	var b strings.Builder

	// Header
	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	// File queue
	for _, file := range m.Files {
		b.WriteString(renderFileEntry(file))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Overall progress
	b.WriteString(renderOverallProgress(m))

	return b.String()
}

// renderHeader renders the application header
func renderHeader(m Model) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#A40000")).
		Render("Jivegain 🎚 - Loudness Scanner")

	mode := "track gain"
	if m.AlbumMode {
		mode = "track + album gain"
	}
	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true).
		Render(fmt.Sprintf("Scanning %d file(s), %s", m.TotalFiles, mode))

	return title + "\n" + subtitle
}

// renderFileEntry renders a single file entry in the queue
func renderFileEntry(file FileProgress) string {
	fileName := filepath.Base(file.Path)

	switch file.Status {
	case StatusComplete:
		// ✓ scanned file with its figures
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")
		rec := file.Result.Track
		summary := fmt.Sprintf("%.2f LUFS | gain %+.2f dB | peak %.6f",
			rec.Loudness, rec.Gain, rec.Peak)
		return fmt.Sprintf(" %s %s\n   %s", icon, fileName, summary)

	case StatusScanning:
		// ⚙ active file
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Render("⚙")
		return fmt.Sprintf(" %s %s\n   Scanning...", icon, fileName)

	case StatusError:
		// ✗ failed file
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render("✗")
		return fmt.Sprintf(" %s %s\n   Error: %v", icon, fileName, file.Result.Err)

	default:
		// ○ queued file
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("○")
		return fmt.Sprintf(" %s %s\n   Queued...", icon, fileName)
	}
}

// renderOverallProgress renders the overall progress footer
func renderOverallProgress(m Model) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#888888")).
		Padding(0, 1).
		Width(60)

	done := m.CompletedFiles + m.FailedFiles
	content := fmt.Sprintf("Scanned %d of %d file(s)", done, m.TotalFiles)
	if m.FailedFiles > 0 {
		content += fmt.Sprintf(", %d failed", m.FailedFiles)
	}

	return box.Render(content)
}

// renderCompletionSummary renders the final completion summary
func renderCompletionSummary(m Model) string {
	var b strings.Builder

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00AA00")).
		Render("✨ Scan Complete!")
	b.WriteString(header)
	b.WriteString("\n\n")

	for _, file := range m.Files {
		switch file.Status {
		case StatusComplete:
			b.WriteString(renderCompletedFile(file))
		case StatusError:
			b.WriteString(renderFailedFile(file))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n")

	switch {
	case m.AlbumErr != nil:
		b.WriteString(fmt.Sprintf("Album gain unavailable: %v\n", m.AlbumErr))
	case m.Album != nil:
		b.WriteString(fmt.Sprintf("Album: %.2f LUFS | gain %+.2f dB | peak %.6f\n",
			m.Album.Loudness, m.Album.Gain, m.Album.Peak))
	}
	b.WriteString(fmt.Sprintf("%d scanned, %d failed, in %.1fs\n",
		m.CompletedFiles, m.FailedFiles, time.Since(m.StartTime).Seconds()))

	return b.String()
}

// renderCompletedFile renders a summary line for a scanned file
func renderCompletedFile(file FileProgress) string {
	icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")
	rec := file.Result.Track

	note := ""
	if rec.ClipAdjusted {
		note = " (clip-prevented)"
	} else if rec.Clipping {
		note = " (will clip)"
	}

	return fmt.Sprintf(" %s %s\n"+
		"   Loudness: %.2f LUFS | Range: %.2f LU | Peak: %.6f | Gain: %+.2f dB%s",
		icon, filepath.Base(file.Path),
		rec.Loudness, rec.Range, rec.Peak, rec.Gain, note)
}

// renderFailedFile renders a summary line for a failed file
func renderFailedFile(file FileProgress) string {
	icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render("✗")
	return fmt.Sprintf(" %s %s\n   Error: %v", icon, filepath.Base(file.Path), file.Result.Err)
}
