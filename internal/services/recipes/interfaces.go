package recipes

import (
	"context"
	"errors"

	"github.com/killallgit/recipe-api/internal/models"
)

var (
	// ErrRecipeNotFound is returned when no recipe has the requested ID
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrEmptyRecipe is returned when saving a nil extraction result
	ErrEmptyRecipe = errors.New("recipe is empty")
)

// Repository defines the interface for recipe data access
type Repository interface {
	CreateRecipe(ctx context.Context, recipe *models.Recipe) error
	GetRecipeByID(ctx context.Context, id uint) (*models.Recipe, error)
	ListRecipes(ctx context.Context, offset, limit int) ([]models.Recipe, int64, error)
	DeleteRecipe(ctx context.Context, id uint) error
}

// Service defines the interface for recipe business logic
type Service interface {
	// SaveFromExtraction persists a confirmed extraction result
	SaveFromExtraction(ctx context.Context, merged *models.MergedRecipe) (*models.Recipe, error)

	GetRecipe(ctx context.Context, id uint) (*models.Recipe, error)
	ListRecipes(ctx context.Context, page, limit int) ([]models.Recipe, int64, error)
	DeleteRecipe(ctx context.Context, id uint) error
}
