package extraction

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/recipe-api/api/types"
)

// RegisterRoutes registers extraction state routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// GET /api/v1/extraction (router already includes /extraction prefix)
	router.GET("", Get(deps))
	router.POST("/check", PostCheck(deps))
	router.POST("/retry", PostRetry(deps))
	router.POST("/dismiss", PostDismiss(deps))
	router.POST("/manual", PostManual(deps))
	router.POST("/save", PostSave(deps))
}
