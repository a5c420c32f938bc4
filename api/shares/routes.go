package shares

import (
	"github.com/gin-gonic/gin"

	"github.com/killallgit/recipe-api/api/types"
)

// RegisterRoutes registers share routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	// POST /api/v1/shares (router already includes /shares prefix)
	router.POST("", Post(deps))
}
