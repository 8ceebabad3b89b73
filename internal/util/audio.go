package util

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// AudioInfo describes an uploaded pronunciation clip.
type AudioInfo struct {
	Duration float64 `json:"duration"` // seconds
	Format   string  `json:"format"`
	Size     int64   `json:"size"`
}

// ProbeAudio reads clip metadata with ffprobe. Files without an audio
// stream are rejected.
func ProbeAudio(path string) (*AudioInfo, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("audio file not found: %w", err)
	}

	jsonOutput, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("failed to probe audio: %w", err)
	}

	var result struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
			Format   string `json:"format_name"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(jsonOutput), &result); err != nil {
		return nil, fmt.Errorf("failed to parse probe output: %w", err)
	}

	hasAudio := false
	for _, stream := range result.Streams {
		if stream.CodecType == "audio" {
			hasAudio = true
			break
		}
	}
	if !hasAudio {
		return nil, fmt.Errorf("no audio stream in %s", path)
	}

	duration, _ := strconv.ParseFloat(result.Format.Duration, 64)

	// format_name can be a comma-separated list, e.g. "mov,mp4,m4a".
	format := result.Format.Format
	if i := strings.Index(format, ","); i >= 0 {
		format = format[:i]
	}

	return &AudioInfo{
		Duration: duration,
		Format:   format,
		Size:     fileInfo.Size(),
	}, nil
}

// TranscodeToMP3 re-encodes the clip so every question serves the same
// format regardless of what the author uploaded.
func TranscodeToMP3(srcPath, dstPath string) error {
	return ffmpeg.Input(srcPath).
		Output(dstPath, ffmpeg.KwArgs{
			"codec:a": "libmp3lame",
			"q:a":     4,
		}).
		OverWriteOutput().
		Silent(true).
		Run()
}
