package recipes

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/recipe-api/api/types"
	"github.com/killallgit/recipe-api/internal/services/recipes"
	apperrors "github.com/killallgit/recipe-api/pkg/errors"
)

// service returns the recipe service or renders service-down
func service(c *gin.Context, deps *types.Dependencies) (recipes.Service, bool) {
	if deps == nil || deps.RecipeService == nil {
		types.RespondError(c, deps, apperrors.New(apperrors.ErrCodeServiceDown, "recipe storage not available"))
		return nil, false
	}
	return deps.RecipeService, true
}

// parseID reads the :id path parameter
func parseID(c *gin.Context, deps *types.Dependencies) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		types.RespondError(c, deps, apperrors.ValidationError("id", "must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}

func respondRecipeError(c *gin.Context, deps *types.Dependencies, id uint, err error) {
	if errors.Is(err, recipes.ErrRecipeNotFound) {
		types.RespondError(c, deps, apperrors.NotFound("recipe", id))
		return
	}
	types.RespondError(c, deps, apperrors.DatabaseError("query recipes", err))
}
