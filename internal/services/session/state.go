package session

import (
	"errors"

	"github.com/killallgit/recipe-api/internal/models"
	"github.com/killallgit/recipe-api/internal/services/extraction"
)

// ErrInvalidTransition is returned when an action is not allowed in the current phase
var ErrInvalidTransition = errors.New("invalid state transition")

// Phase is the extraction phase shown to the user
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseProcessing Phase = "processing"
	PhaseSuccess    Phase = "success"
	PhaseError      Phase = "error"
)

// State is a snapshot of the extraction flow. Recipe is set only in PhaseSuccess,
// Error only in PhaseError.
type State struct {
	Phase     Phase                `json:"phase"`
	PayloadID string               `json:"payload_id,omitempty"`
	Recipe    *models.MergedRecipe `json:"recipe,omitempty"`
	Error     *extraction.Error    `json:"-"`
}

// ErrorKind returns the error kind, or an empty kind outside PhaseError
func (s State) ErrorKind() extraction.Kind {
	if s.Error == nil {
		return ""
	}
	return s.Error.Kind
}
