package extraction

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/killallgit/recipe-api/internal/services/captions"
	"github.com/killallgit/recipe-api/internal/services/gemini"
	"github.com/killallgit/recipe-api/pkg/download"
	"github.com/killallgit/recipe-api/pkg/ffmpeg"
)

// Kind is the user-facing error category of a failed extraction
type Kind string

const (
	KindNetwork       Kind = "network"
	KindNoRecipeFound Kind = "no_recipe_found"
	KindTimeout       Kind = "timeout"
	KindUnknown       Kind = "unknown"
)

// errNoRecipe marks the case where no source yielded anything usable
var errNoRecipe = errors.New("no recipe found in caption or video")

// Error is the only error type Extract returns
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extraction failed (%s): %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("extraction failed (%s): %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of an extraction error, KindUnknown for anything else
func KindOf(err error) Kind {
	var extractionErr *Error
	if errors.As(err, &extractionErr) {
		return extractionErr.Kind
	}
	return KindUnknown
}

// classify maps an internal error to the four-kind taxonomy
func classify(err error) *Error {
	var existing *Error
	if errors.As(err, &existing) {
		return existing
	}

	var (
		runErr     *captions.RunError
		captionNet *captions.NetworkError
		parserNet  *gemini.NetworkError
		statusErr  *download.StatusError
		netErr     net.Error
	)

	switch {
	case errors.Is(err, errNoRecipe):
		return &Error{Kind: KindNoRecipeFound, Message: "no recipe found", Err: err}
	case errors.Is(err, ffmpeg.ErrNoAudioTrack):
		return &Error{Kind: KindNoRecipeFound, Message: "the video has no audio track", Err: err}
	case errors.Is(err, captions.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, Message: "the request timed out", Err: err}
	case errors.As(err, &runErr):
		if runErr.TimedOut() {
			return &Error{Kind: KindTimeout, Message: "the scraping job timed out", Err: err}
		}
		return &Error{Kind: KindUnknown, Message: err.Error(), Err: err}
	case errors.As(err, &captionNet), errors.As(err, &parserNet), errors.As(err, &statusErr), errors.As(err, &netErr):
		return &Error{Kind: KindNetwork, Message: "a network request failed", Err: err}
	}

	return &Error{Kind: KindUnknown, Message: err.Error(), Err: err}
}

// Descriptor is the friendly presentation of an error kind
type Descriptor struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	IconHint string `json:"iconHint"`
}

// Describe returns the display descriptor for a kind
func Describe(kind Kind) Descriptor {
	switch kind {
	case KindNetwork:
		return Descriptor{
			Title:    "Connection Problem",
			Message:  "We couldn't reach the server. Check your connection and try again.",
			IconHint: "wifi.slash",
		}
	case KindNoRecipeFound:
		return Descriptor{
			Title:    "No Recipe Found",
			Message:  "We couldn't find a recipe in this video. You can try again or create the recipe manually.",
			IconHint: "fork.knife",
		}
	case KindTimeout:
		return Descriptor{
			Title:    "Taking Too Long",
			Message:  "The video took too long to process. Please try again.",
			IconHint: "clock",
		}
	}
	return Descriptor{
		Title:    "Something Went Wrong",
		Message:  "An unexpected error occurred while extracting the recipe.",
		IconHint: "exclamationmark.triangle",
	}
}
