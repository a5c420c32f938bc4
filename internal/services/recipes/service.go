package recipes

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/killallgit/recipe-api/internal/models"
)

// DefaultTitle is used when an extraction found no title
const DefaultTitle = "Untitled Recipe"

const maxPageSize = 100

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new recipe service
func NewService(repo Repository, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceImpl{repo: repo, logger: logger.Named("recipes")}
}

// SaveFromExtraction converts a merged extraction result into a stored recipe
func (s *ServiceImpl) SaveFromExtraction(ctx context.Context, merged *models.MergedRecipe) (*models.Recipe, error) {
	if merged == nil {
		return nil, ErrEmptyRecipe
	}

	recipe := FromMerged(merged)
	if err := s.repo.CreateRecipe(ctx, recipe); err != nil {
		return nil, err
	}

	s.logger.Info("recipe saved",
		zap.Uint("recipe_id", recipe.ID),
		zap.Int("ingredients", len(recipe.Ingredients)),
		zap.Int("steps", len(recipe.Steps)))
	return recipe, nil
}

func (s *ServiceImpl) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	return s.repo.GetRecipeByID(ctx, id)
}

// ListRecipes returns a 1-based page of recipes and the total count
func (s *ServiceImpl) ListRecipes(ctx context.Context, page, limit int) ([]models.Recipe, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return s.repo.ListRecipes(ctx, (page-1)*limit, limit)
}

func (s *ServiceImpl) DeleteRecipe(ctx context.Context, id uint) error {
	return s.repo.DeleteRecipe(ctx, id)
}

// FromMerged maps an extraction result onto the persisted model
func FromMerged(merged *models.MergedRecipe) *models.Recipe {
	title := DefaultTitle
	if !models.IsBlank(merged.Title) {
		title = strings.TrimSpace(*merged.Title)
	}

	recipe := &models.Recipe{
		Title:           title,
		SourceURL:       deref(merged.SourceURL),
		ImageURL:        deref(merged.ImageURL),
		Servings:        merged.Servings,
		PrepTime:        merged.PrepTime,
		CookingTime:     merged.CookingTime,
		RestingTime:     merged.RestingTime,
		Difficulty:      deref(merged.Difficulty),
		ConfidenceScore: merged.ConfidenceScore,
	}

	for i, ing := range merged.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{
			Position: i + 1,
			Name:     ing.Name,
			Amount:   deref(ing.Amount),
			Section:  deref(ing.Section),
		})
	}
	for i, step := range merged.Steps {
		order := step.Order
		if order <= 0 {
			order = i + 1
		}
		recipe.Steps = append(recipe.Steps, models.RecipeStep{
			StepOrder:   order,
			Instruction: step.Instruction,
		})
	}
	return recipe
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
