package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrTooLarge is returned when the remote file exceeds MaxSize
	ErrTooLarge = errors.New("file too large")
	// ErrInvalidContentType is returned when the response is not a video
	ErrInvalidContentType = errors.New("invalid content type")
)

// StatusError is returned when the remote server answers with a non-success status
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// DownloadOptions configures the download behavior
type DownloadOptions struct {
	TempDir       string        // Directory for temporary files
	MaxSize       int64         // Maximum file size in bytes (0 = no limit)
	Timeout       time.Duration // Download timeout
	ProgressFunc  ProgressFunc  // Optional progress callback
	UserAgent     string        // User agent string
	ValidateVideo bool          // Validate content-type is video
	Logger        *zap.Logger
}

// ProgressFunc is called during download to report progress
type ProgressFunc func(downloaded, total int64)

// DefaultOptions returns default download options
func DefaultOptions() DownloadOptions {
	return DownloadOptions{
		TempDir:       os.TempDir(),
		MaxSize:       200 * 1024 * 1024, // 200MB default max
		Timeout:       2 * time.Minute,
		UserAgent:     "RecipeAPI/1.0",
		ValidateVideo: true,
	}
}

// DownloadResult contains information about a successful download
type DownloadResult struct {
	FilePath      string // Path to downloaded file
	ContentType   string // Content-Type from response
	ContentLength int64  // Size in bytes
}

// Downloader handles downloading remote videos to temporary storage
type Downloader struct {
	client  *http.Client
	options DownloadOptions
	logger  *zap.Logger
}

// NewDownloader creates a new downloader with the given options
func NewDownloader(options DownloadOptions) *Downloader {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if options.TempDir == "" {
		options.TempDir = os.TempDir()
	}

	return &Downloader{
		client: &http.Client{
			Timeout: options.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        10,
				IdleConnTimeout:     30 * time.Second,
				DisableCompression:  true, // Video is already compressed
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		options: options,
		logger:  logger.Named("download"),
	}
}

// DownloadToTemp downloads a remote video to a temporary file owned by the caller
func (d *Downloader) DownloadToTemp(ctx context.Context, rawURL, id string) (*DownloadResult, error) {
	d.logger.Debug("starting download", zap.String("url", rawURL), zap.String("id", id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", d.options.UserAgent)
	req.Header.Set("Accept", "video/*,*/*")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if d.options.ValidateVideo && !isVideoContentType(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidContentType, contentType)
	}

	contentLength := resp.ContentLength
	if d.options.MaxSize > 0 && contentLength > d.options.MaxSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, contentLength, d.options.MaxSize)
	}

	tempFile, err := d.createTempFile(id, rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	written, err := d.downloadToFile(resp.Body, tempFile, contentLength)
	tempPath := tempFile.Name()
	tempFile.Close()

	if err != nil {
		os.Remove(tempPath)
		return nil, fmt.Errorf("failed to download: %w", err)
	}

	d.logger.Debug("download complete", zap.Int64("bytes", written), zap.String("path", tempPath))

	return &DownloadResult{
		FilePath:      tempPath,
		ContentType:   contentType,
		ContentLength: written,
	}, nil
}

// createTempFile creates a temporary file for the download
func (d *Downloader) createTempFile(id, rawURL string) (*os.File, error) {
	ext := ".mp4"
	if u, err := url.Parse(rawURL); err == nil {
		candidate := strings.TrimPrefix(strings.ToLower(path.Ext(u.Path)), ".")
		if isValidVideoExtension(candidate) {
			ext = "." + candidate
		}
	}

	if err := os.MkdirAll(d.options.TempDir, 0755); err != nil {
		return nil, err
	}

	// Pattern: video_<id>_<random>.<ext>
	pattern := fmt.Sprintf("video_%s_*%s", sanitizeID(id), ext)
	return os.CreateTemp(d.options.TempDir, pattern)
}

// downloadToFile downloads response body to file with optional progress tracking
func (d *Downloader) downloadToFile(src io.Reader, dst *os.File, totalSize int64) (int64, error) {
	reader := src
	if d.options.ProgressFunc != nil && totalSize > 0 {
		reader = &progressReader{
			reader:   src,
			total:    totalSize,
			callback: d.options.ProgressFunc,
		}
	}

	if d.options.MaxSize <= 0 {
		return io.Copy(dst, reader)
	}

	// Read one byte past the limit so servers that lie about Content-Length are caught
	written, err := io.Copy(dst, io.LimitReader(reader, d.options.MaxSize+1))
	if err != nil {
		return written, err
	}
	if written > d.options.MaxSize {
		return written, fmt.Errorf("%w: exceeded %d bytes", ErrTooLarge, d.options.MaxSize)
	}
	return written, nil
}

// CleanupTempFile removes a temporary file; missing files are not an error
func CleanupTempFile(path string) error {
	if path == "" {
		return nil
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// CleanupOldTempFiles removes downloaded videos and extracted audio older than maxAge.
// It returns the number of files removed.
func CleanupOldTempFiles(tempDir string, maxAge time.Duration) (int, error) {
	var files []string
	for _, prefix := range []string{"video_*", "audio_*"} {
		matches, err := filepath.Glob(filepath.Join(tempDir, prefix))
		if err != nil {
			return 0, err
		}
		files = append(files, matches...)
	}

	cutoff := time.Now().Add(-maxAge)
	var removed int

	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil || info.IsDir() {
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(file); err == nil {
				removed++
			}
		}
	}

	return removed, nil
}

// isVideoContentType checks if content type is video
func isVideoContentType(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	return strings.HasPrefix(contentType, "video/") ||
		strings.HasPrefix(contentType, "application/octet-stream") // CDNs often serve clips this way
}

// isValidVideoExtension checks if extension is valid for video files
func isValidVideoExtension(ext string) bool {
	switch ext {
	case "mp4", "mov", "m4v", "webm", "mkv":
		return true
	}
	return false
}

func sanitizeID(id string) string {
	if id == "" {
		return "anon"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, id)
}

// progressReader wraps a reader to report progress
type progressReader struct {
	reader     io.Reader
	total      int64
	downloaded int64
	callback   ProgressFunc
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.reader.Read(p)
	if n > 0 {
		pr.downloaded += int64(n)
		if pr.callback != nil {
			pr.callback(pr.downloaded, pr.total)
		}
	}
	return n, err
}
