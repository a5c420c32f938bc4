package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
)

// ffprobeOutput represents the JSON structure returned by ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration   string `json:"duration"`
		Size       string `json:"size"`
		FormatName string `json:"format_name"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
}

// GetMetadata inspects a media container using ffprobe
func (f *FFmpeg) GetMetadata(ctx context.Context, filePath string) (*MediaMetadata, error) {
	args := []string{
		"-v", "error",
		"-show_format",
		"-show_streams",
		"-of", "json",
		filePath,
	}

	cmd := exec.CommandContext(ctx, f.ffprobePath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, newExportError(StageProbe, filePath, err, stderr.String())
	}

	return parseProbeOutput(stdout.Bytes(), filePath)
}

// parseProbeOutput converts ffprobe JSON to MediaMetadata
func parseProbeOutput(data []byte, filePath string) (*MediaMetadata, error) {
	var output ffprobeOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, newExportError(StageProbeDecode, filePath, err, "")
	}

	metadata := &MediaMetadata{Format: output.Format.FormatName}

	if d, err := strconv.ParseFloat(output.Format.Duration, 64); err == nil {
		metadata.Duration = d
	}
	if s, err := strconv.ParseInt(output.Format.Size, 10, 64); err == nil {
		metadata.Size = s
	}

	for _, stream := range output.Streams {
		switch stream.CodecType {
		case "audio":
			metadata.AudioTracks++
			if metadata.AudioTracks == 1 {
				metadata.AudioCodec = stream.CodecName
				metadata.Channels = stream.Channels
				if sr, err := strconv.Atoi(stream.SampleRate); err == nil {
					metadata.SampleRate = sr
				}
			}
		case "video":
			if metadata.VideoCodec == "" {
				metadata.VideoCodec = stream.CodecName
			}
		}
	}

	return metadata, nil
}
