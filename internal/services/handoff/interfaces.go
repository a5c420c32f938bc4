package handoff

import (
	"context"
	"errors"

	"github.com/killallgit/recipe-api/internal/models"
)

// ErrInvalidPayload is returned when saving a payload without an ID
var ErrInvalidPayload = errors.New("payload must have an id")

// Mailbox is a single-slot store shared by the capturing and extracting processes.
// A second Save before the first payload is consumed replaces it.
type Mailbox interface {
	// Save stores payload as the pending extraction, replacing any previous one
	Save(ctx context.Context, payload *models.ExtractionPayload) error

	// LoadPending returns the pending payload, or nil when there is none or it cannot be decoded
	LoadPending(ctx context.Context) (*models.ExtractionPayload, error)

	// AudioFileExists reports whether an audio file is present in the shared directory
	AudioFileExists(fileName string) bool

	// AudioFilePath resolves an audio file name against the shared directory
	AudioFilePath(fileName string) string

	// Cleanup removes the payload (when it is still the pending one) and its audio file.
	// Calling it again is a no-op. A nil payload clears whatever is pending.
	Cleanup(ctx context.Context, payload *models.ExtractionPayload) error

	// SharedDir returns the directory holding audio files
	SharedDir() string
}
