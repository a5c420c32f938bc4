package recipes

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/recipe-api/api/types"
)

// RegisterRoutes registers recipe routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/v1/recipes (router already includes /recipes prefix)
	router.GET("", List(deps))
	router.GET("/:id", GetByID(deps))
	router.DELETE("/:id", Delete(deps))
}
