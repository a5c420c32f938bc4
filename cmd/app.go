package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/killallgit/recipe-api/internal/database"
	"github.com/killallgit/recipe-api/internal/metrics"
	"github.com/killallgit/recipe-api/internal/services/cache"
	"github.com/killallgit/recipe-api/internal/services/captions"
	"github.com/killallgit/recipe-api/internal/services/capture"
	"github.com/killallgit/recipe-api/internal/services/extraction"
	"github.com/killallgit/recipe-api/internal/services/gemini"
	"github.com/killallgit/recipe-api/internal/services/handoff"
	"github.com/killallgit/recipe-api/internal/services/recipes"
	"github.com/killallgit/recipe-api/pkg/config"
	"github.com/killallgit/recipe-api/pkg/download"
	"github.com/killallgit/recipe-api/pkg/ffmpeg"
	"github.com/killallgit/recipe-api/pkg/logger"
)

// application holds the services shared by the serve, share and extract commands
type application struct {
	config  *config.Config
	logger  *zap.Logger
	metrics *metrics.Collector

	db        *database.DB
	mailbox   handoff.Mailbox
	captions  extraction.CaptionFetcher
	extractor *extraction.Orchestrator
	capture   *capture.Service
	recipes   recipes.Service

	closers []func() error
}

// newLogger builds the process logger from config, letting --log-level and --json-logs override it
func newLogger(cmd *cobra.Command, cfg config.LoggingConfig) (*zap.Logger, error) {
	if flag := cmd.Flags().Lookup("log-level"); flag != nil && flag.Changed {
		cfg.Level = flag.Value.String()
	}
	if flag := cmd.Flags().Lookup("json-logs"); flag != nil && flag.Changed {
		if flag.Value.String() == "true" {
			cfg.Format = "json"
		} else {
			cfg.Format = "console"
		}
	}
	return logger.New(logger.Config{
		Level:       cfg.Level,
		Format:      cfg.Format,
		Development: cfg.Development,
	})
}

// newApplication loads config and wires the extraction pipeline. withDB opens
// and migrates the recipe store.
func newApplication(cmd *cobra.Command, withDB bool) (*application, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := newLogger(cmd, cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	app := &application{
		config:  cfg,
		logger:  log,
		metrics: metrics.New(),
	}
	app.closers = append(app.closers, func() error {
		_ = log.Sync()
		return nil
	})

	if withDB {
		db, err := database.Initialize(cfg.Database.Path, cfg.Database.Verbose, log)
		if err != nil {
			app.Close()
			return nil, err
		}
		if err := db.Migrate(); err != nil {
			_ = db.Close()
			app.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		app.db = db
		app.closers = append(app.closers, db.Close)
		app.recipes = recipes.NewService(recipes.NewRepository(db.DB), log)
	}

	mailbox, err := app.newMailbox(cmd.Context())
	if err != nil {
		app.Close()
		return nil, err
	}
	app.mailbox = mailbox

	var fetcher *captions.Client
	if cfg.Apify.Token != "" {
		fetcher = captions.NewClient(captions.Config{
			Token:          cfg.Apify.Token,
			BaseURL:        cfg.Apify.BaseURL,
			InstagramActor: cfg.Apify.InstagramActor,
			TikTokActor:    cfg.Apify.TikTokActor,
			PollInterval:   cfg.Apify.PollInterval,
			MaxWait:        cfg.Apify.MaxWait,
			Timeout:        cfg.Apify.Timeout,
			Logger:         log,
			Metrics:        app.metrics,
		})
		app.captions = fetcher
		if cfg.Apify.CacheTTL > 0 {
			store := cache.NewMemoryCache(cfg.Apify.CacheSizeMB, time.Minute)
			app.closers = append(app.closers, func() error {
				store.Stop()
				return nil
			})
			app.captions = captions.NewCachedFetcher(fetcher, store, cfg.Apify.CacheTTL, log, app.metrics)
		}
	} else {
		log.Warn("apify token not configured, caption fetching disabled")
	}

	parser := gemini.NewClient(gemini.Config{
		APIKey:          cfg.Gemini.APIKey,
		BaseURL:         cfg.Gemini.BaseURL,
		Model:           cfg.Gemini.Model,
		Temperature:     cfg.Gemini.Temperature,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
		Timeout:         cfg.Gemini.Timeout,
		Logger:          log,
		Metrics:         app.metrics,
	})

	media := ffmpeg.NewWithOptions(ffmpeg.Options{
		FFmpegPath:  cfg.Processing.FFmpegPath,
		FFprobePath: cfg.Processing.FFprobePath,
		Timeout:     cfg.Processing.FFmpegTimeout,
		Export: ffmpeg.ExportOptions{
			Bitrate:    cfg.Processing.AudioBitrate,
			SampleRate: cfg.Processing.AudioSampleRate,
		},
	})
	var audioExtractor extraction.AudioExtractor
	if err := media.ValidateBinaries(); err != nil {
		log.Warn("ffmpeg not available, audio extraction disabled", zap.Error(err))
	} else {
		audioExtractor = media
	}

	downloadOpts := download.DefaultOptions()
	downloadOpts.TempDir = cfg.Storage.TempDir
	if cfg.Download.MaxSize > 0 {
		downloadOpts.MaxSize = cfg.Download.MaxSize
	}
	if cfg.Download.Timeout > 0 {
		downloadOpts.Timeout = cfg.Download.Timeout
	}
	if cfg.Download.UserAgent != "" {
		downloadOpts.UserAgent = cfg.Download.UserAgent
	}
	downloadOpts.Logger = log

	app.extractor = extraction.NewOrchestrator(extraction.Dependencies{
		Captions:      app.captions,
		Parser:        parser,
		Downloader:    download.NewDownloader(downloadOpts),
		Extractor:     audioExtractor,
		AudioFiles:    mailbox,
		TempDir:       cfg.Storage.TempDir,
		AudioMIMEType: cfg.Processing.AudioMIMEType,
		Timeout:       cfg.Processing.ExtractionTimeout,
		Logger:        log,
		Metrics:       app.metrics,
	})

	// shares the caption cache with the orchestrator so a prefetched post is not scraped twice
	var prefetch capture.CaptionFetcher
	if app.captions != nil {
		prefetch = app.captions
	}
	app.capture = capture.NewService(mailbox, prefetch, capture.Config{
		PrefetchCaption: cfg.Handoff.PrefetchCaption,
		Logger:          log,
	})

	return app, nil
}

// newMailbox opens the configured handoff backend
func (a *application) newMailbox(ctx context.Context) (handoff.Mailbox, error) {
	cfg := a.config
	switch cfg.Handoff.Backend {
	case config.HandoffBackendRedis:
		mailbox := handoff.NewRedisMailbox(handoff.RedisConfig{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			Key:         cfg.Redis.Key,
			DialTimeout: cfg.Redis.DialTimeout,
		}, cfg.Handoff.SharedDir, a.logger, a.metrics)

		if ctx == nil {
			ctx = context.Background()
		}
		if err := mailbox.Ping(ctx); err != nil {
			_ = mailbox.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
		}
		a.closers = append(a.closers, mailbox.Close)
		return mailbox, nil
	case config.HandoffBackendFile, "":
		return handoff.NewFileMailbox(cfg.Handoff.SharedDir, cfg.Handoff.PayloadFile, a.logger, a.metrics), nil
	default:
		return nil, fmt.Errorf("unknown handoff backend %q", cfg.Handoff.Backend)
	}
}

// Close releases resources in reverse order of acquisition
func (a *application) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
