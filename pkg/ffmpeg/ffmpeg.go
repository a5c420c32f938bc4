package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// FFmpeg wraps ffmpeg and ffprobe functionality
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	timeout     time.Duration
	export      ExportOptions
}

// New creates a new FFmpeg instance with the default export format
func New(ffmpegPath, ffprobePath string, timeout time.Duration) *FFmpeg {
	return NewWithOptions(Options{
		FFmpegPath:  ffmpegPath,
		FFprobePath: ffprobePath,
		Timeout:     timeout,
		Export:      DefaultExportOptions(),
	})
}

// NewWithOptions creates a new FFmpeg instance
func NewWithOptions(opts Options) *FFmpeg {
	defaults := DefaultExportOptions()
	if opts.Export.Bitrate == "" {
		opts.Export.Bitrate = defaults.Bitrate
	}
	if opts.Export.SampleRate <= 0 {
		opts.Export.SampleRate = defaults.SampleRate
	}
	if opts.Export.Extension == "" {
		opts.Export.Extension = defaults.Extension
	}

	return &FFmpeg{
		ffmpegPath:  opts.FFmpegPath,
		ffprobePath: opts.FFprobePath,
		timeout:     opts.Timeout,
		export:      opts.Export,
	}
}

// ValidateBinaries checks if ffmpeg and ffprobe are available
func (f *FFmpeg) ValidateBinaries() error {
	if _, err := exec.LookPath(f.ffmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, f.ffmpegPath)
	}

	if _, err := exec.LookPath(f.ffprobePath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFprobeNotFound, f.ffprobePath)
	}

	return nil
}

// ExtractAudio exports the audio track of a local video to a compact mono file.
// The output gets a fresh unique name inside outputDir (os.TempDir() when empty).
// The caller owns the returned file and must delete it.
func (f *FFmpeg) ExtractAudio(ctx context.Context, videoPath, outputDir string) (string, error) {
	if _, err := os.Stat(videoPath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrSourceNotFound, videoPath)
		}
		return "", newExportError(StageStat, videoPath, err, "")
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	metadata, err := f.GetMetadata(ctx, videoPath)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", ErrExportCancelled, ctx.Err())
		}
		return "", err
	}
	if !metadata.HasAudio() {
		return "", fmt.Errorf("%w: %s", ErrNoAudioTrack, videoPath)
	}

	if outputDir == "" {
		outputDir = os.TempDir()
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrOutputDir, err)
	}

	outputPath := filepath.Join(outputDir, "audio_"+uuid.NewString()+f.export.Extension)
	if err := os.Remove(outputPath); err != nil && !os.IsNotExist(err) {
		return "", newExportError(StagePrepare, outputPath, err, "")
	}

	args := []string{
		"-i", videoPath,
		"-vn",      // Drop video
		"-ac", "1", // Mono
		"-ar", strconv.Itoa(f.export.SampleRate),
		"-c:a", "aac",
		"-b:a", f.export.Bitrate,
		"-y",
		outputPath,
	}

	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		_ = os.Remove(outputPath)
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return "", newExportError(StageExport, videoPath, ctxErr, stderr.String())
			}
			return "", fmt.Errorf("%w: %v", ErrExportCancelled, ctxErr)
		}
		return "", newExportError(StageExport, videoPath, err, stderr.String())
	}

	return outputPath, nil
}
