package types

import (
	"github.com/killallgit/recipe-api/internal/models"
	"github.com/killallgit/recipe-api/internal/services/extraction"
)

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`            // One of the Status constants above
	Message string `json:"message,omitempty"` // Human-readable message
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Status  string                 `json:"status"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ShareResponse is returned after a share was captured
type ShareResponse struct {
	BaseResponse
	Payload *models.ExtractionPayload `json:"payload"`
}

// ExtractionError describes a failed extraction for display
type ExtractionError struct {
	Kind    extraction.Kind       `json:"kind"`
	Detail  string                `json:"detail,omitempty"`
	Display extraction.Descriptor `json:"display"`
}

// ExtractionStateResponse is the current state of the extraction flow
type ExtractionStateResponse struct {
	BaseResponse
	Phase     string               `json:"phase"`
	PayloadID string               `json:"payload_id,omitempty"`
	Recipe    *models.MergedRecipe `json:"recipe,omitempty"`
	Error     *ExtractionError     `json:"error,omitempty"`
}

// CheckResponse reports whether a pending payload was picked up
type CheckResponse struct {
	ExtractionStateResponse
	Started bool `json:"started"`
}

// ManualRecipeResponse carries the empty recipe shell for manual entry
type ManualRecipeResponse struct {
	BaseResponse
	Recipe *models.MergedRecipe `json:"recipe"`
}

// RecipeResponse wraps a stored recipe
type RecipeResponse struct {
	BaseResponse
	Recipe *models.Recipe `json:"recipe"`
}

// RecipesResponse is a page of stored recipes
type RecipesResponse struct {
	BaseResponse
	Recipes []models.Recipe `json:"recipes"`
	Count   int             `json:"count"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}
