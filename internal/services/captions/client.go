package captions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/killallgit/recipe-api/internal/metrics"
)

const maxErrorBody = 512

// Config holds configuration for the caption client
type Config struct {
	Token          string
	BaseURL        string        // Default: https://api.apify.com/v2
	InstagramActor string        // Default: apify~instagram-scraper
	TikTokActor    string        // Default: clockworks~tiktok-scraper
	PollInterval   time.Duration // Default: 2s
	MaxWait        time.Duration // Default: 60s, measured from the first poll
	Timeout        time.Duration // Per-request HTTP timeout. Default: 30s
	Logger         *zap.Logger
	Metrics        *metrics.Collector
}

// Client runs remote scraping actors and normalizes their output
type Client struct {
	httpClient *http.Client
	config     Config
	logger     *zap.Logger
	metrics    *metrics.Collector
}

// NewClient creates a new caption client
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.apify.com/v2"
	}
	if cfg.InstagramActor == "" {
		cfg.InstagramActor = "apify~instagram-scraper"
	}
	if cfg.TikTokActor == "" {
		cfg.TikTokActor = "clockworks~tiktok-scraper"
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = 60 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		logger:     logger.Named("captions"),
		metrics:    cfg.Metrics,
	}
}

// Fetch runs the platform actor for rawURL and returns the first dataset item.
// An empty dataset yields an empty Caption and no error.
func (c *Client) Fetch(ctx context.Context, rawURL string) (caption *Caption, err error) {
	platform, err := DetectPlatform(rawURL)
	if err != nil {
		return nil, err
	}

	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		} else if caption.Caption == nil {
			status = "empty"
		}
		c.metrics.CaptionFetch(string(platform), status)
	}()

	actor, input := c.actorFor(platform, rawURL)
	logger := c.logger.With(zap.String("platform", string(platform)), zap.String("actor", actor))

	run, err := c.startRun(ctx, actor, input)
	if err != nil {
		return nil, err
	}
	logger.Debug("scraper run started", zap.String("run_id", run.ID))

	datasetID, err := c.waitForRun(ctx, run.ID)
	if err != nil {
		logger.Warn("scraper run did not succeed", zap.String("run_id", run.ID), zap.Error(err))
		return nil, err
	}

	items, err := c.fetchItems(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		logger.Info("scraper returned no items", zap.String("run_id", run.ID))
		return &Caption{}, nil
	}

	return normalize(platform, items[0])
}

// actorFor returns the actor ID and run input for a platform
func (c *Client) actorFor(platform Platform, rawURL string) (string, map[string]any) {
	if platform == PlatformTikTok {
		return c.config.TikTokActor, map[string]any{
			"postURLs":             []string{rawURL},
			"resultsPerPage":       1,
			"shouldDownloadVideos": false,
			"shouldDownloadCovers": false,
		}
	}
	return c.config.InstagramActor, map[string]any{
		"directUrls":    []string{rawURL},
		"resultsType":   "posts",
		"resultsLimit":  1,
		"addParentData": false,
	}
}

type runInfo struct {
	ID        string
	Status    string
	DatasetID string
}

func (c *Client) startRun(ctx context.Context, actor string, input map[string]any) (*runInfo, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encode run input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/acts/%s/runs?%s", c.config.BaseURL, url.PathEscape(actor), c.tokenQuery(nil))

	var env runEnvelope
	if err := c.doJSON(ctx, "start run", http.MethodPost, endpoint, body, &env); err != nil {
		return nil, err
	}
	if env.Data.ID == "" {
		return nil, &APIError{Op: "start run", StatusCode: http.StatusOK, Body: "response has no run id"}
	}

	return &runInfo{ID: env.Data.ID, Status: env.Data.Status, DatasetID: env.Data.DefaultDatasetID}, nil
}

// waitForRun polls until the run succeeds, fails, or the wait budget is spent.
// The budget also bounds each in-flight poll request.
func (c *Client) waitForRun(ctx context.Context, runID string) (string, error) {
	endpoint := fmt.Sprintf("%s/actor-runs/%s?%s", c.config.BaseURL, url.PathEscape(runID), c.tokenQuery(nil))

	pollCtx, cancel := context.WithTimeout(ctx, c.config.MaxWait)
	defer cancel()

	ticker := time.NewTicker(c.config.PollInterval)
	defer ticker.Stop()

	status := StatusRunning
	for {
		var env runEnvelope
		if err := c.doJSON(pollCtx, "poll run", http.MethodGet, endpoint, nil, &env); err != nil {
			if ctx.Err() == nil && pollCtx.Err() != nil {
				return "", c.waitTimeout(runID, status)
			}
			return "", err
		}
		status = env.Data.Status

		switch status {
		case StatusSucceeded:
			return env.Data.DefaultDatasetID, nil
		case StatusFailed, StatusAborted, StatusTimedOut:
			return "", &RunError{RunID: runID, Status: status}
		}

		select {
		case <-pollCtx.Done():
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", c.waitTimeout(runID, status)
		case <-ticker.C:
		}
	}
}

func (c *Client) waitTimeout(runID, status string) error {
	return fmt.Errorf("%w: run %s still %s after %s", ErrTimeout, runID, status, c.config.MaxWait)
}

func (c *Client) fetchItems(ctx context.Context, datasetID string) ([]json.RawMessage, error) {
	if datasetID == "" {
		return nil, nil
	}

	extra := url.Values{}
	extra.Set("clean", "true")
	endpoint := fmt.Sprintf("%s/datasets/%s/items?%s", c.config.BaseURL, url.PathEscape(datasetID), c.tokenQuery(extra))

	var items []json.RawMessage
	if err := c.doJSON(ctx, "fetch items", http.MethodGet, endpoint, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) tokenQuery(extra url.Values) string {
	q := url.Values{}
	for k, v := range extra {
		q[k] = v
	}
	q.Set("token", c.config.Token)
	return q.Encode()
}

// doJSON performs a request and decodes a JSON response into out
func (c *Client) doJSON(ctx context.Context, op, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("caption fetch %s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Op: op, StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("caption fetch %s: decode response: %w", op, err)
	}
	return nil
}
