package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/killallgit/recipe-api/internal/models"
	"github.com/killallgit/recipe-api/internal/services/captions"
)

// ErrAudioNotFound is returned when the request references a local audio file that does not exist
var ErrAudioNotFound = errors.New("audio file not found")

// Request describes a post shared into the app
type Request struct {
	URL       string `json:"url"`
	Caption   string `json:"caption,omitempty"`
	AudioPath string `json:"audio_path,omitempty"`
}

// Config configures the capture service
type Config struct {
	// PrefetchCaption resolves caption and media URLs before saving when the request has no caption
	PrefetchCaption bool
	Logger          *zap.Logger
}

// Service plays the share-extension role: it turns a shared post into a pending payload
type Service struct {
	mailbox  Mailbox
	captions CaptionFetcher
	prefetch bool
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a capture service. captions may be nil, which disables prefetching.
func NewService(mailbox Mailbox, fetcher CaptionFetcher, cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		mailbox:  mailbox,
		captions: fetcher,
		prefetch: cfg.PrefetchCaption && fetcher != nil,
		logger:   logger.Named("capture"),
		now:      time.Now,
	}
}

// Share validates the request, replaces any pending payload and publishes a new one
func (s *Service) Share(ctx context.Context, req Request) (*models.ExtractionPayload, error) {
	rawURL := strings.TrimSpace(req.URL)
	platform, err := captions.DetectPlatform(rawURL)
	if err != nil {
		return nil, err
	}

	if req.AudioPath != "" {
		info, err := os.Stat(req.AudioPath)
		if err != nil || !info.Mode().IsRegular() {
			return nil, fmt.Errorf("%w: %s", ErrAudioNotFound, req.AudioPath)
		}
	}

	// A new share restarts extraction, so whatever was pending is discarded
	if err := s.mailbox.Cleanup(ctx, nil); err != nil {
		s.logger.Warn("failed to clean previous payload", zap.Error(err))
	}

	payload := &models.ExtractionPayload{
		ID:        uuid.NewString(),
		SourceURL: models.StringPtr(rawURL),
		Caption:   models.StringPtr(req.Caption),
		CreatedAt: s.now().UTC(),
	}

	if s.prefetch && !payload.HasCaption() {
		s.prefetchCaption(ctx, payload)
	}

	if req.AudioPath != "" {
		name, err := s.copyAudio(req.AudioPath, payload.ID)
		if err != nil {
			return nil, err
		}
		payload.AudioFileName = &name
	}

	if err := s.mailbox.Save(ctx, payload); err != nil {
		if payload.AudioFileName != nil {
			os.Remove(s.mailbox.AudioFilePath(*payload.AudioFileName))
		}
		return nil, fmt.Errorf("save payload: %w", err)
	}

	s.logger.Info("share captured",
		zap.String("payload_id", payload.ID),
		zap.String("platform", string(platform)),
		zap.Bool("has_caption", payload.HasCaption()),
		zap.Bool("has_video", payload.HasRemoteVideo()),
		zap.Bool("has_audio", payload.HasAudioFile()))

	return payload, nil
}

// prefetchCaption fills caption and media URLs. Failures leave a URL-only payload.
func (s *Service) prefetchCaption(ctx context.Context, payload *models.ExtractionPayload) {
	caption, err := s.captions.Fetch(ctx, *payload.SourceURL)
	if err != nil {
		s.logger.Warn("caption prefetch failed, saving url only",
			zap.String("payload_id", payload.ID), zap.Error(err))
		return
	}
	if caption == nil {
		return
	}

	payload.Caption = caption.Caption
	payload.RemoteVideoURL = caption.VideoURL
	payload.ThumbnailURL = caption.ThumbnailURL
}

// copyAudio copies src into the shared directory as <id><ext>
func (s *Service) copyAudio(src, id string) (string, error) {
	ext := strings.ToLower(filepath.Ext(src))
	if ext == "" {
		ext = ".m4a"
	}
	name := id + ext

	if err := os.MkdirAll(s.mailbox.SharedDir(), 0755); err != nil {
		return "", fmt.Errorf("create shared directory: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer in.Close()

	dst := s.mailbox.AudioFilePath(name)
	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create shared audio: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("copy audio: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("close shared audio: %w", err)
	}
	return name, nil
}
