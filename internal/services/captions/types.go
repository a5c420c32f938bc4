package captions

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidURL is returned for malformed or unsupported post URLs
	ErrInvalidURL = errors.New("invalid or unsupported post url")

	// ErrTimeout is returned when the run does not finish within the wait budget
	ErrTimeout = errors.New("caption fetch timed out")
)

// Run statuses reported by the actor API
const (
	StatusReady     = "READY"
	StatusRunning   = "RUNNING"
	StatusSucceeded = "SUCCEEDED"
	StatusFailed    = "FAILED"
	StatusAborted   = "ABORTED"
	StatusTimedOut  = "TIMED-OUT"
)

// Caption is the normalized result of a scraping run.
// Every field is optional; an empty Caption means the post had no data.
type Caption struct {
	Caption      *string `json:"caption,omitempty"`
	VideoURL     *string `json:"videoUrl,omitempty"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
}

// RunError reports a run that reached a terminal failure status
type RunError struct {
	RunID  string
	Status string
}

func (e *RunError) Error() string {
	return fmt.Sprintf("scraper run %s finished with status %s", e.RunID, e.Status)
}

// TimedOut reports whether the remote run itself hit its time limit
func (e *RunError) TimedOut() bool {
	return e.Status == StatusTimedOut
}

// NetworkError wraps a transport failure
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("caption fetch %s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// APIError reports a non-success response from the actor API
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("caption fetch %s: api returned status %d: %s", e.Op, e.StatusCode, e.Body)
}

// runEnvelope is the response of run start and run status calls
type runEnvelope struct {
	Data struct {
		ID               string `json:"id"`
		Status           string `json:"status"`
		DefaultDatasetID string `json:"defaultDatasetId"`
	} `json:"data"`
}

type instagramItem struct {
	Caption    string `json:"caption"`
	VideoURL   string `json:"videoUrl"`
	DisplayURL string `json:"displayUrl"`
}

type tiktokItem struct {
	Text      string   `json:"text"`
	MediaURLs []string `json:"mediaUrls"`
	Covers    []string `json:"covers"`
	VideoMeta struct {
		DownloadAddr string `json:"downloadAddr"`
		CoverURL     string `json:"coverUrl"`
	} `json:"videoMeta"`
}

// normalize maps a platform-specific dataset item to a Caption
func normalize(platform Platform, raw json.RawMessage) (*Caption, error) {
	switch platform {
	case PlatformInstagram:
		var item instagramItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("decode instagram item: %w", err)
		}
		return &Caption{
			Caption:      nonBlank(item.Caption),
			VideoURL:     nonBlank(item.VideoURL),
			ThumbnailURL: nonBlank(item.DisplayURL),
		}, nil

	case PlatformTikTok:
		var item tiktokItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("decode tiktok item: %w", err)
		}
		video := item.VideoMeta.DownloadAddr
		if len(item.MediaURLs) > 0 && strings.TrimSpace(item.MediaURLs[0]) != "" {
			video = item.MediaURLs[0]
		}
		cover := item.VideoMeta.CoverURL
		if strings.TrimSpace(cover) == "" && len(item.Covers) > 0 {
			cover = item.Covers[0]
		}
		return &Caption{
			Caption:      nonBlank(item.Text),
			VideoURL:     nonBlank(video),
			ThumbnailURL: nonBlank(cover),
		}, nil
	}

	return nil, fmt.Errorf("%w: unknown platform %q", ErrInvalidURL, platform)
}

func nonBlank(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
