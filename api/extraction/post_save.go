package extraction

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/recipe-api/api/types"
	"github.com/killallgit/recipe-api/internal/services/session"
	apperrors "github.com/killallgit/recipe-api/pkg/errors"
)

// PostSave stores the extracted recipe and closes the extraction
// @Summary      Save extracted recipe
// @Tags         extraction
// @Produce      json
// @Success      201 {object} types.RecipeResponse
// @Failure      409 {object} types.ErrorResponse "No successful extraction to save"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/extraction/save [post]
func PostSave(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl, ok := controller(c, deps)
		if !ok {
			return
		}
		if deps.RecipeService == nil {
			types.RespondError(c, deps, apperrors.New(apperrors.ErrCodeServiceDown, "recipe storage not available"))
			return
		}

		recipe, err := ctrl.Save(c.Request.Context(), deps.RecipeService.SaveFromExtraction)
		if err != nil {
			if errors.Is(err, session.ErrInvalidTransition) {
				types.RespondError(c, deps, apperrors.Conflict("no extracted recipe to save").
					WithDetail("phase", string(ctrl.Current().Phase)))
				return
			}
			types.RespondError(c, deps, apperrors.DatabaseError("save recipe", err))
			return
		}

		c.JSON(http.StatusCreated, types.RecipeResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Recipe saved"},
			Recipe:       recipe,
		})
	}
}
