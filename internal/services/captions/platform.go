package captions

import (
	"fmt"
	"net/url"
	"strings"
)

// Platform identifies a supported social video platform
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
)

// DetectPlatform resolves the platform of an absolute post URL by hostname
func DetectPlatform(rawURL string) (Platform, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", fmt.Errorf("%w: empty url", ErrInvalidURL)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")

	switch {
	case host == "instagram.com" || host == "instagr.am":
		return PlatformInstagram, nil
	case host == "tiktok.com" || strings.HasSuffix(host, ".tiktok.com"):
		return PlatformTikTok, nil
	}

	return "", fmt.Errorf("%w: unsupported host %q", ErrInvalidURL, u.Hostname())
}
