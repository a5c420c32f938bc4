package extraction

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/killallgit/recipe-api/internal/metrics"
	"github.com/killallgit/recipe-api/internal/models"
	"github.com/killallgit/recipe-api/pkg/download"
)

// Extraction paths reported to metrics and logs
const (
	PathGolden      = "golden"
	PathCaptionOnly = "caption_only"
	PathMerged      = "merged"
)

// Dependencies are the collaborators of an Orchestrator. Parser is required;
// the rest may be nil, which disables the corresponding source.
type Dependencies struct {
	Captions   CaptionFetcher
	Parser     RecipeParser
	Downloader VideoDownloader
	Extractor  AudioExtractor
	AudioFiles AudioFiles

	TempDir       string        // Where extracted audio is written
	AudioMIMEType string        // MIME type declared for extracted audio. Default: audio/mp4
	Timeout       time.Duration // Overall budget per extraction; 0 means none
	Logger        *zap.Logger
	Metrics       *metrics.Collector
}

// Orchestrator picks the cheapest sufficient source for a payload and merges results
type Orchestrator struct {
	captions   CaptionFetcher
	parser     RecipeParser
	downloader VideoDownloader
	extractor  AudioExtractor
	audioFiles AudioFiles

	tempDir  string
	mimeType string
	timeout  time.Duration
	logger   *zap.Logger
	metrics  *metrics.Collector
}

// NewOrchestrator creates an orchestrator
func NewOrchestrator(deps Dependencies) *Orchestrator {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mimeType := deps.AudioMIMEType
	if mimeType == "" {
		mimeType = "audio/mp4"
	}

	return &Orchestrator{
		captions:   deps.Captions,
		parser:     deps.Parser,
		downloader: deps.Downloader,
		extractor:  deps.Extractor,
		audioFiles: deps.AudioFiles,
		tempDir:    deps.TempDir,
		mimeType:   mimeType,
		timeout:    deps.Timeout,
		logger:     logger.Named("extraction"),
		metrics:    deps.Metrics,
	}
}

// Extract produces a merged recipe from a payload. Every failure is returned as *Error.
func (o *Orchestrator) Extract(ctx context.Context, payload *models.ExtractionPayload) (*models.MergedRecipe, error) {
	start := time.Now()

	if payload == nil || !payload.HasSource() {
		err := classify(fmt.Errorf("payload has no caption, video, audio or source url: %w", errNoRecipe))
		o.metrics.ExtractionFinished(string(err.Kind), "", time.Since(start))
		return nil, err
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	logger := o.logger.With(zap.String("payload_id", payload.ID))

	// resolved may gain caption, video and thumbnail from the fetcher
	resolved := *payload
	recipe, path, err := o.extract(ctx, logger, &resolved)
	if err != nil {
		extractionErr := classify(err)
		logger.Warn("extraction failed",
			zap.String("kind", string(extractionErr.Kind)),
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)),
		)
		o.metrics.ExtractionFinished(string(extractionErr.Kind), "", time.Since(start))
		return nil, extractionErr
	}

	recipe.ImageURL = nonBlank(resolved.ThumbnailURL)
	recipe.SourceURL = nonBlank(resolved.SourceURL)

	logger.Info("extraction succeeded",
		zap.String("path", path),
		zap.Int("ingredients", len(recipe.Ingredients)),
		zap.Int("steps", len(recipe.Steps)),
		zap.Float64("confidence", recipe.ConfidenceScore),
		zap.Duration("elapsed", time.Since(start)),
	)
	o.metrics.ExtractionFinished("success", path, time.Since(start))
	return recipe, nil
}

func (o *Orchestrator) extract(ctx context.Context, logger *zap.Logger, p *models.ExtractionPayload) (*models.MergedRecipe, string, error) {
	if o.parser == nil {
		return nil, "", errors.New("recipe parser is not configured")
	}

	// A bare post URL is resolved to caption and video first
	if !p.HasCaption() && !p.HasRemoteVideo() && !p.HasAudioFile() {
		if err := o.resolveSourceURL(ctx, logger, p); err != nil {
			return nil, "", err
		}
	}

	var captionResult *models.PartialRecipe
	var captionErr error
	if p.HasCaption() {
		captionResult, captionErr = o.parser.ParseText(ctx, *p.Caption)
		if captionErr != nil {
			if ctx.Err() != nil {
				return nil, "", ctx.Err()
			}
			logger.Warn("caption parse failed", zap.Error(captionErr))
		}
	}

	if captionResult.IsComplete() {
		return fromPartial(captionResult), PathGolden, nil
	}

	usable := captionResult.Usable()
	audio := o.resolveAudioSource(logger, p)

	if audio.kind == audioSourceNone {
		switch {
		case usable.HasRecipe:
			return fromPartial(captionResult), PathCaptionOnly, nil
		case captionErr != nil:
			return nil, "", captionErr
		}
		return nil, "", errNoRecipe
	}

	audioResult, audioErr := o.parseAudio(ctx, logger, p.ID, audio)
	if audioErr != nil {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		if usable.HasRecipe {
			logger.Warn("audio parse failed, using caption result", zap.Error(audioErr))
			return fromPartial(captionResult), PathCaptionOnly, nil
		}
		return nil, "", audioErr
	}

	if !usable.HasRecipe && !audioResult.Usable().HasRecipe {
		return nil, "", errNoRecipe
	}

	return merge(captionResult, audioResult), PathMerged, nil
}

// resolveSourceURL fills caption, video and thumbnail from the caption fetcher
func (o *Orchestrator) resolveSourceURL(ctx context.Context, logger *zap.Logger, p *models.ExtractionPayload) error {
	if o.captions == nil {
		return errors.New("caption fetcher is not configured")
	}

	caption, err := o.captions.Fetch(ctx, strings.TrimSpace(*p.SourceURL))
	if err != nil {
		return fmt.Errorf("fetch caption: %w", err)
	}

	p.Caption = caption.Caption
	p.RemoteVideoURL = caption.VideoURL
	if models.IsBlank(p.ThumbnailURL) {
		p.ThumbnailURL = caption.ThumbnailURL
	}

	logger.Debug("source url resolved",
		zap.Bool("caption", p.HasCaption()),
		zap.Bool("video", p.HasRemoteVideo()),
	)
	return nil
}

type audioSourceKind int

const (
	audioSourceNone audioSourceKind = iota
	audioSourceFile
	audioSourceRemote
)

type audioSource struct {
	kind     audioSourceKind
	location string
}

// resolveAudioSource prefers the audio file handed over with the payload,
// then the remote video
func (o *Orchestrator) resolveAudioSource(logger *zap.Logger, p *models.ExtractionPayload) audioSource {
	if p.HasAudioFile() && o.audioFiles != nil {
		if o.audioFiles.AudioFileExists(*p.AudioFileName) {
			return audioSource{kind: audioSourceFile, location: o.audioFiles.AudioFilePath(*p.AudioFileName)}
		}
		logger.Warn("handoff audio file missing", zap.String("file", *p.AudioFileName))
	}

	if p.HasRemoteVideo() && o.downloader != nil && o.extractor != nil {
		return audioSource{kind: audioSourceRemote, location: strings.TrimSpace(*p.RemoteVideoURL)}
	}

	return audioSource{kind: audioSourceNone}
}

// parseAudio runs the audio path. Downloaded video and extracted audio are removed on every return.
func (o *Orchestrator) parseAudio(ctx context.Context, logger *zap.Logger, id string, source audioSource) (*models.PartialRecipe, error) {
	audioPath := source.location
	mimeType := mimeTypeFor(audioPath, o.mimeType)

	if source.kind == audioSourceRemote {
		video, err := o.downloader.DownloadToTemp(ctx, source.location, id)
		if err != nil {
			return nil, fmt.Errorf("download video: %w", err)
		}
		defer removeTemp(logger, video.FilePath)

		audioPath, err = o.extractor.ExtractAudio(ctx, video.FilePath, o.tempDir)
		if err != nil {
			return nil, fmt.Errorf("extract audio: %w", err)
		}
		defer removeTemp(logger, audioPath)
		mimeType = o.mimeType
	}

	data, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	result, err := o.parser.ParseAudio(ctx, data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("parse audio: %w", err)
	}
	return result, nil
}

func removeTemp(logger *zap.Logger, path string) {
	if err := download.CleanupTempFile(path); err != nil {
		logger.Warn("failed to remove temp file", zap.String("path", path), zap.Error(err))
	}
}

var audioMIMETypes = map[string]string{
	".m4a":  "audio/mp4",
	".mp4":  "audio/mp4",
	".aac":  "audio/aac",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
}

func mimeTypeFor(path, fallback string) string {
	if mimeType, ok := audioMIMETypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mimeType
	}
	return fallback
}

func nonBlank(s *string) *string {
	if models.IsBlank(s) {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
