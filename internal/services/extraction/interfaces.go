package extraction

import (
	"context"

	"github.com/killallgit/recipe-api/internal/models"
	"github.com/killallgit/recipe-api/internal/services/captions"
	"github.com/killallgit/recipe-api/pkg/download"
)

// Extractor turns one handoff payload into a merged recipe.
// Returned errors are always *Error.
type Extractor interface {
	Extract(ctx context.Context, payload *models.ExtractionPayload) (*models.MergedRecipe, error)
}

// CaptionFetcher resolves a post URL to caption text and media URLs
type CaptionFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*captions.Caption, error)
}

// RecipeParser extracts a partial recipe from text or audio
type RecipeParser interface {
	// ParseText parses caption or transcript text
	ParseText(ctx context.Context, text string) (*models.PartialRecipe, error)

	// ParseAudio parses raw audio bytes of the given MIME type
	ParseAudio(ctx context.Context, audio []byte, mimeType string) (*models.PartialRecipe, error)
}

// VideoDownloader fetches a remote video into a temp file owned by the caller
type VideoDownloader interface {
	DownloadToTemp(ctx context.Context, rawURL, id string) (*download.DownloadResult, error)
}

// AudioExtractor exports the audio track of a local video into outputDir
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath, outputDir string) (string, error)
}

// AudioFiles resolves handoff audio file names in the shared directory
type AudioFiles interface {
	AudioFilePath(fileName string) string
	AudioFileExists(fileName string) bool
}
