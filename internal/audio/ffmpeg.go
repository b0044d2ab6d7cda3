package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

const (
	ffmpegCommand  = "ffmpeg"
	ffprobeCommand = "ffprobe"
)

// decodeFFmpeg is the last-resort decode path: it shells out to the
// ffmpeg binary and reads back raw 64-bit float PCM, so any codec
// ffmpeg knows lands in the Float64 domain. That includes native
// 32-bit-float sources such as float WAV, which arrive here widened
// losslessly to Float64 rather than in the Float32 domain the probes
// use, so they feed the meter's 64-bit entry point. If the binaries
// are not in PATH the file fails with ErrDecodeUnavailable.
func decodeFFmpeg(path string) (Track, error) {
	if _, err := exec.LookPath(ffmpegCommand); err != nil {
		return Track{}, fmt.Errorf("%w: %s: ffmpeg not found in PATH", ErrDecodeUnavailable, path)
	}

	channels, sampleRate, err := probeStream(path)
	if err != nil {
		return Track{}, fmt.Errorf("%w: %s: %v", ErrDecodeUnavailable, path, err)
	}

	cmd := exec.Command(ffmpegCommand,
		"-v", "error",
		"-i", path,
		"-map", "0:a:0",
		"-f", "f64le",
		"-acodec", "pcm_f64le",
		"pipe:1",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	raw, err := cmd.Output()
	if err != nil {
		return Track{}, fmt.Errorf("%w: %s: ffmpeg: %v: %s", ErrDecodeUnavailable, path, err, strings.TrimSpace(stderr.String()))
	}

	samples := make([]float64, len(raw)/8)
	for i := range samples {
		samples[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}

	buf := NewBuffer(Float64, len(samples))
	if err := buf.AppendFloat64(samples); err != nil {
		return Track{}, err
	}

	return Track{
		Buffer: buf,
		Info: StreamInfo{
			Channels:   channels,
			SampleRate: sampleRate,
			BitDepth:   0, // ffmpeg already converted to float
		},
	}, nil
}

// probeStream asks ffprobe for the first audio stream's channel count
// and sample rate.
func probeStream(path string) (channels, sampleRate int, err error) {
	cmd := exec.Command(ffprobeCommand,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=channels,sample_rate",
		"-of", "csv=p=0",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe: %w", err)
	}

	// Output is "sample_rate,channels" on one line.
	fields := strings.Split(strings.TrimSpace(string(out)), ",")
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("ffprobe: unexpected output %q", out)
	}
	sampleRate, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe: bad sample rate %q", fields[0])
	}
	channels, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("ffprobe: bad channel count %q", fields[1])
	}
	return channels, sampleRate, nil
}
