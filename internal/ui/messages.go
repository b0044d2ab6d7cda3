package ui

import (
	"github.com/linuxmatters/jivegain/internal/scanner"
)

// FileStartMsg indicates a worker has picked up a file
type FileStartMsg struct {
	FileIndex int
	FileName  string
}

// FileCompleteMsg indicates a file has finished scanning
type FileCompleteMsg struct {
	FileIndex int
	Result    *scanner.Result
}

// AllCompleteMsg indicates the whole batch is done, including album
// aggregation when requested
type AllCompleteMsg struct {
	Album    *scanner.Record
	AlbumErr error
}
