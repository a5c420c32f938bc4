package capture

import (
	"context"

	"github.com/killallgit/recipe-api/internal/models"
	"github.com/killallgit/recipe-api/internal/services/captions"
)

// CaptionFetcher resolves a post URL to caption text and media URLs
type CaptionFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*captions.Caption, error)
}

// Mailbox is the part of the handoff mailbox the capturing side uses
type Mailbox interface {
	Save(ctx context.Context, payload *models.ExtractionPayload) error
	Cleanup(ctx context.Context, payload *models.ExtractionPayload) error
	AudioFilePath(fileName string) string
	SharedDir() string
}

// Sharer publishes a shared post for extraction
type Sharer interface {
	Share(ctx context.Context, req Request) (*models.ExtractionPayload, error)
}
