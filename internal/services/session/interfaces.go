package session

import (
	"context"

	"github.com/killallgit/recipe-api/internal/models"
)

// Mailbox is the part of the handoff mailbox the extraction side uses
type Mailbox interface {
	LoadPending(ctx context.Context) (*models.ExtractionPayload, error)
	Cleanup(ctx context.Context, payload *models.ExtractionPayload) error
}

// SaveFunc persists an extracted recipe
type SaveFunc func(ctx context.Context, recipe *models.MergedRecipe) (*models.Recipe, error)

// Controller drives extraction of pending payloads and exposes its state
type Controller interface {
	CheckPending(ctx context.Context) (bool, error)
	Retry() error
	Dismiss(ctx context.Context) error
	Save(ctx context.Context, persist SaveFunc) (*models.Recipe, error)
	StartManualCreation(ctx context.Context) (*models.MergedRecipe, error)
	Current() State
	Subscribe() (<-chan State, func())
}
