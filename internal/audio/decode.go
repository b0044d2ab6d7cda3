package audio

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Decode error taxonomy. Each of these is a per-file failure: callers
// record it against the file and keep processing the rest of the batch.
var (
	ErrUnsupportedContainer = errors.New("unsupported container")
	ErrUnsupportedCodec     = errors.New("unsupported codec")
	// ErrDecodeUnavailable means every decode path, including the
	// broad ffmpeg fallback, was tried and none could produce samples.
	ErrDecodeUnavailable = errors.New("no decoder available")
)

// Track pairs a fully decoded sample buffer with its stream metadata.
type Track struct {
	Buffer *Buffer
	Info   StreamInfo
}

type container int

const (
	containerUnknown container = iota
	containerFLAC
	containerWAV
	containerOgg
	containerMP3
)

// sniffContainer classifies a file from its leading bytes, falling back
// to the extension when the magic is inconclusive (raw MP3 streams have
// no reliable magic beyond a frame sync).
func sniffContainer(path string, head []byte) container {
	switch {
	case bytes.HasPrefix(head, []byte("fLaC")):
		return containerFLAC
	case bytes.HasPrefix(head, []byte("RIFF")) && len(head) >= 12 && bytes.Equal(head[8:12], []byte("WAVE")):
		return containerWAV
	case bytes.HasPrefix(head, []byte("OggS")):
		return containerOgg
	case bytes.HasPrefix(head, []byte("ID3")):
		return containerMP3
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".flac":
		return containerFLAC
	case ".wav":
		return containerWAV
	case ".ogg", ".oga":
		return containerOgg
	case ".mp3", ".mp2":
		return containerMP3
	}
	return containerUnknown
}

// DecodeFile decodes a whole audio file into a single interleaved
// buffer plus its stream info.
//
// FLAC files take a dedicated fast path. WAV, Ogg Vorbis and MP3 go
// through format-specific probes. Anything else, and any file whose
// probe fails, is handed to the ffmpeg fallback; if that is unavailable
// too the file fails with ErrDecodeUnavailable.
func DecodeFile(path string) (Track, error) {
	head := make([]byte, 12)
	f, err := os.Open(path)
	if err != nil {
		return Track{}, fmt.Errorf("open %s: %w", path, err)
	}
	n, _ := f.Read(head)
	f.Close()

	switch sniffContainer(path, head[:n]) {
	case containerFLAC:
		// No fallback for FLAC: the dedicated decoder handles every
		// legal stream, so a failure here means the file is broken.
		return decodeFLAC(path)
	case containerWAV:
		if t, err := decodeWAV(path); err == nil {
			return t, nil
		}
	case containerOgg:
		if t, err := decodeVorbis(path); err == nil {
			return t, nil
		}
	case containerMP3:
		if t, err := decodeMP3(path); err == nil {
			return t, nil
		}
	}

	return decodeFFmpeg(path)
}
