// Package ui provides the Bubbletea terminal user interface for jivegain
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/linuxmatters/jivegain/internal/scanner"
)

// FileStatus represents the scanning state of a single file
type FileStatus int

const (
	StatusQueued FileStatus = iota
	StatusScanning
	StatusComplete
	StatusError
)

// FileProgress tracks progress for a single audio file
type FileProgress struct {
	Path      string
	Status    FileStatus
	StartTime time.Time

	// Scan outcome, set on completion
	Result *scanner.Result
}

// Model is the Bubbletea model for the scan UI. Scan workers run
// concurrently, so several files can be in StatusScanning at once.
type Model struct {
	Files          []FileProgress
	TotalFiles     int
	CompletedFiles int
	FailedFiles    int

	AlbumMode bool
	Album     *scanner.Record
	AlbumErr  error

	StartTime time.Time
	Done      bool

	Width  int
	Height int
}

// NewModel creates a new UI model with the given input files
func NewModel(files []string, albumMode bool) Model {
	progress := make([]FileProgress, len(files))
	for i, path := range files {
		progress[i] = FileProgress{Path: path, Status: StatusQueued}
	}

	return Model{
		Files:      progress,
		TotalFiles: len(files),
		AlbumMode:  albumMode,
		StartTime:  time.Now(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case FileStartMsg:
		if msg.FileIndex >= 0 && msg.FileIndex < len(m.Files) {
			m.Files[msg.FileIndex].Status = StatusScanning
			m.Files[msg.FileIndex].StartTime = time.Now()
		}

	case FileCompleteMsg:
		if msg.FileIndex >= 0 && msg.FileIndex < len(m.Files) {
			m.Files[msg.FileIndex].Result = msg.Result

			if msg.Result != nil && msg.Result.Err != nil {
				m.Files[msg.FileIndex].Status = StatusError
				m.FailedFiles++
			} else {
				m.Files[msg.FileIndex].Status = StatusComplete
				m.CompletedFiles++
			}
		}

	case AllCompleteMsg:
		m.Album = msg.Album
		m.AlbumErr = msg.AlbumErr
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.Done {
		return renderCompletionSummary(m)
	}
	return renderScanView(m)
}
