package ffmpeg

import (
	"errors"
	"fmt"
)

var (
	ErrFFmpegNotFound  = errors.New("ffmpeg binary not found")
	ErrFFprobeNotFound = errors.New("ffprobe binary not found")

	// ErrSourceNotFound is returned when the video path does not exist
	ErrSourceNotFound = errors.New("source video not found")
	// ErrNoAudioTrack is returned when ffprobe reports no audio stream
	ErrNoAudioTrack = errors.New("video has no audio track")
	// ErrExportCancelled is returned when the context ends before ffmpeg finishes
	ErrExportCancelled = errors.New("audio export cancelled")
	ErrOutputDir       = errors.New("cannot prepare output directory")
)

// Stage names the step of an extraction that failed
type Stage string

const (
	StageStat        Stage = "stat"
	StageProbe       Stage = "probe"
	StageProbeDecode Stage = "probe_decode"
	StagePrepare     Stage = "prepare_output"
	StageExport      Stage = "export"
)

// maxStderr bounds how much tool output is kept on an ExportError
const maxStderr = 1024

// ExportError wraps a failed ffmpeg or ffprobe step with the tail of its stderr
type ExportError struct {
	Stage  Stage
	Path   string
	Err    error
	Stderr string
}

func (e *ExportError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

func newExportError(stage Stage, path string, err error, stderr string) *ExportError {
	if len(stderr) > maxStderr {
		stderr = stderr[len(stderr)-maxStderr:]
	}
	return &ExportError{Stage: stage, Path: path, Err: err, Stderr: stderr}
}
