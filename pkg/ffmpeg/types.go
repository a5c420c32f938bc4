package ffmpeg

import "time"

// MediaMetadata represents metadata extracted from a media file
type MediaMetadata struct {
	Duration    float64 `json:"duration"`     // Duration in seconds
	Format      string  `json:"format"`       // Container format
	Size        int64   `json:"size"`         // File size in bytes
	AudioTracks int     `json:"audio_tracks"` // Number of audio streams
	AudioCodec  string  `json:"audio_codec"`  // Codec of the first audio stream
	SampleRate  int     `json:"sample_rate"`  // Sample rate of the first audio stream in Hz
	Channels    int     `json:"channels"`     // Channels of the first audio stream
	VideoCodec  string  `json:"video_codec"`  // Codec of the first video stream
}

// HasAudio reports whether the media has at least one audio stream
func (m *MediaMetadata) HasAudio() bool {
	return m.AudioTracks > 0
}

// ExportOptions defines the audio export format
type ExportOptions struct {
	Bitrate    string // AAC bitrate, e.g. "64k"
	SampleRate int    // Output sample rate in Hz
	Extension  string // Output file extension including the dot
}

// DefaultExportOptions returns a mono, speech-suitable AAC export
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Bitrate:    "64k",
		SampleRate: 22050,
		Extension:  ".m4a",
	}
}

// Options configures an FFmpeg instance
type Options struct {
	FFmpegPath  string
	FFprobePath string
	Timeout     time.Duration
	Export      ExportOptions
}
