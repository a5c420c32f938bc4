package extraction

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/killallgit/recipe-api/api/types"
	"github.com/killallgit/recipe-api/internal/services/extraction"
	"github.com/killallgit/recipe-api/internal/services/session"
	apperrors "github.com/killallgit/recipe-api/pkg/errors"
)

// stateResponse converts a session state into its API shape
func stateResponse(state session.State) types.ExtractionStateResponse {
	resp := types.ExtractionStateResponse{
		BaseResponse: types.BaseResponse{Status: types.StatusOK},
		Phase:        string(state.Phase),
		PayloadID:    state.PayloadID,
		Recipe:       state.Recipe,
	}

	if state.Phase == session.PhaseError && state.Error != nil {
		resp.Error = &types.ExtractionError{
			Kind:    state.Error.Kind,
			Detail:  state.Error.Message,
			Display: extraction.Describe(state.Error.Kind),
		}
	}
	return resp
}

// controller returns the session controller or renders service-down
func controller(c *gin.Context, deps *types.Dependencies) (session.Controller, bool) {
	if deps == nil || deps.Session == nil {
		types.RespondError(c, deps, apperrors.New(apperrors.ErrCodeServiceDown, "extraction session not available"))
		return nil, false
	}
	return deps.Session, true
}

// respondSessionError maps state machine errors onto HTTP errors
func respondSessionError(c *gin.Context, deps *types.Dependencies, err error) {
	if errors.Is(err, session.ErrInvalidTransition) {
		types.RespondError(c, deps, apperrors.Conflict(err.Error()))
		return
	}
	types.RespondError(c, deps, err)
}
