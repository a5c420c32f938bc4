package models

import (
	"strings"
	"time"
)

// PlaceholderStepInstruction is inserted when a recipe has ingredients but no steps
const PlaceholderStepInstruction = "Follow the instructions in the video."

// ExtractionPayload is the handoff unit written by the capturing process and
// consumed by the extraction process
type ExtractionPayload struct {
	ID             string    `json:"id"`
	AudioFileName  *string   `json:"audioFileName,omitempty"`
	Caption        *string   `json:"caption,omitempty"`
	SourceURL      *string   `json:"sourceURL,omitempty"`
	RemoteVideoURL *string   `json:"remoteVideoURL,omitempty"`
	ThumbnailURL   *string   `json:"thumbnailURL,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// HasCaption reports whether the payload carries non-blank caption text
func (p *ExtractionPayload) HasCaption() bool {
	return !IsBlank(p.Caption)
}

// HasRemoteVideo reports whether a remote video URL is available for audio fallback
func (p *ExtractionPayload) HasRemoteVideo() bool {
	return !IsBlank(p.RemoteVideoURL)
}

// HasAudioFile reports whether the payload references an audio file in the shared directory
func (p *ExtractionPayload) HasAudioFile() bool {
	return !IsBlank(p.AudioFileName)
}

// HasSourceURL reports whether the payload carries the original post URL
func (p *ExtractionPayload) HasSourceURL() bool {
	return !IsBlank(p.SourceURL)
}

// HasSource reports whether the payload can be extracted at all. A source URL
// alone counts because the caption fetcher can still resolve it.
func (p *ExtractionPayload) HasSource() bool {
	return p.HasCaption() || p.HasRemoteVideo() || p.HasAudioFile() || p.HasSourceURL()
}

// Ingredient is a single ingredient line
type Ingredient struct {
	Name    string  `json:"name"`
	Amount  *string `json:"amount"`
	Section *string `json:"section"`
}

// Step is a single instruction; Order is 1-based
type Step struct {
	Order       int    `json:"order"`
	Instruction string `json:"instruction"`
}

// PartialRecipe is the result of one parse call (caption or audio)
type PartialRecipe struct {
	HasRecipe       bool         `json:"hasRecipe"`
	Title           *string      `json:"title,omitempty"`
	Ingredients     []Ingredient `json:"ingredients"`
	Steps           []Step       `json:"steps"`
	ConfidenceScore float64      `json:"confidenceScore"`
	Servings        *int         `json:"servings,omitempty"`
	PrepTime        *int         `json:"prepTime,omitempty"`
	CookingTime     *int         `json:"cookingTime,omitempty"`
	RestingTime     *int         `json:"restingTime,omitempty"`
	Difficulty      *string      `json:"difficulty,omitempty"`
}

// Usable returns the result with every field cleared when HasRecipe is false.
// A nil receiver is treated as an empty result.
func (r *PartialRecipe) Usable() PartialRecipe {
	if r == nil || !r.HasRecipe {
		return PartialRecipe{}
	}
	return *r
}

// IsComplete reports whether the result has both ingredients and steps
func (r *PartialRecipe) IsComplete() bool {
	u := r.Usable()
	return len(u.Ingredients) > 0 && len(u.Steps) > 0
}

// MergedRecipe is the final extraction output handed to the UI layer
type MergedRecipe struct {
	Title           *string      `json:"title,omitempty"`
	Ingredients     []Ingredient `json:"ingredients"`
	Steps           []Step       `json:"steps"`
	ConfidenceScore float64      `json:"confidenceScore"`
	Servings        *int         `json:"servings,omitempty"`
	PrepTime        *int         `json:"prepTime,omitempty"`
	CookingTime     *int         `json:"cookingTime,omitempty"`
	RestingTime     *int         `json:"restingTime,omitempty"`
	Difficulty      *string      `json:"difficulty,omitempty"`
	ImageURL        *string      `json:"imageURL,omitempty"`
	SourceURL       *string      `json:"sourceURL,omitempty"`
}

// IsBlank reports whether s is nil or only whitespace
func IsBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// StringPtr returns a pointer to s, or nil when s is blank
func StringPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}
