package types

import (
	"go.uber.org/zap"

	"github.com/killallgit/recipe-api/internal/database"
	"github.com/killallgit/recipe-api/internal/metrics"
	"github.com/killallgit/recipe-api/internal/services/capture"
	"github.com/killallgit/recipe-api/internal/services/handoff"
	"github.com/killallgit/recipe-api/internal/services/recipes"
	"github.com/killallgit/recipe-api/internal/services/session"
)

// BuildInfo describes the running binary
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildTime string
}

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB            *database.DB
	Mailbox       handoff.Mailbox
	Capture       capture.Sharer
	Session       session.Controller
	RecipeService recipes.Service
	Metrics       *metrics.Collector
	Logger        *zap.Logger
	Build         BuildInfo
}

// Log returns the configured logger or a no-op logger
func (d *Dependencies) Log() *zap.Logger {
	if d == nil || d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
