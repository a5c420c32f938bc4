package recipes

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/recipe-api/api/types"
	apperrors "github.com/killallgit/recipe-api/pkg/errors"
)

// List returns saved recipes, newest first
// @Summary      List recipes
// @Tags         recipes
// @Produce      json
// @Param        page  query int false "Page number (1-based)" default(1)
// @Param        limit query int false "Page size (max 100)"   default(20)
// @Success      200 {object} types.RecipesResponse
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/recipes [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		svc, ok := service(c, deps)
		if !ok {
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit < 1 || limit > 100 {
			limit = 20
		}

		list, total, err := svc.ListRecipes(c.Request.Context(), page, limit)
		if err != nil {
			types.RespondError(c, deps, apperrors.DatabaseError("list recipes", err))
			return
		}

		c.JSON(http.StatusOK, types.RecipesResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Recipes:      list,
			Count:        len(list),
			Total:        total,
			Page:         page,
			Limit:        limit,
		})
	}
}

// GetByID returns a single recipe with its ingredients and steps
// @Summary      Get recipe
// @Tags         recipes
// @Produce      json
// @Param        id path int true "Recipe ID"
// @Success      200 {object} types.RecipeResponse
// @Failure      400 {object} types.ErrorResponse "Invalid ID"
// @Failure      404 {object} types.ErrorResponse "Recipe not found"
// @Router       /api/v1/recipes/{id} [get]
func GetByID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		svc, ok := service(c, deps)
		if !ok {
			return
		}
		id, ok := parseID(c, deps)
		if !ok {
			return
		}

		recipe, err := svc.GetRecipe(c.Request.Context(), id)
		if err != nil {
			respondRecipeError(c, deps, id, err)
			return
		}

		c.JSON(http.StatusOK, types.RecipeResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK},
			Recipe:       recipe,
		})
	}
}
