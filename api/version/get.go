package version

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/recipe-api/api/types"
)

// Get handles version requests
// @Summary      Version information
// @Tags         version
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /version [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		build := types.BuildInfo{Version: "dev"}
		if deps != nil && deps.Build.Version != "" {
			build = deps.Build
		}

		c.JSON(http.StatusOK, gin.H{
			"name":        "Recipe Extraction API",
			"version":     build.Version,
			"git_commit":  build.GitCommit,
			"build_time":  build.BuildTime,
			"description": "Turns shared cooking videos into structured recipes",
			"status":      "running",
		})
	}
}
