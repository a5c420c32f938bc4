package recipes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/recipe-api/api/types"
)

// Delete removes a saved recipe
// @Summary      Delete recipe
// @Tags         recipes
// @Produce      json
// @Param        id path int true "Recipe ID"
// @Success      200 {object} types.BaseResponse
// @Failure      404 {object} types.ErrorResponse "Recipe not found"
// @Router       /api/v1/recipes/{id} [delete]
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		svc, ok := service(c, deps)
		if !ok {
			return
		}
		id, ok := parseID(c, deps)
		if !ok {
			return
		}

		if err := svc.DeleteRecipe(c.Request.Context(), id); err != nil {
			respondRecipeError(c, deps, id, err)
			return
		}

		c.JSON(http.StatusOK, types.BaseResponse{Status: types.StatusOK, Message: "Recipe deleted"})
	}
}
