package gemini

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/killallgit/recipe-api/internal/models"
)

// stripCodeFence removes a surrounding markdown code fence, with or without a language tag
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")

	// Drop a language tag such as ```json, on its own line or not
	tagEnd := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if tagEnd > 0 {
		if rest := strings.TrimSpace(s[tagEnd:]); strings.HasPrefix(rest, "{") || strings.HasPrefix(rest, "[") {
			s = rest
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseRecipe decodes model output into a PartialRecipe.
// Only a top-level decode failure is an error; malformed fields become nil or empty.
func parseRecipe(output string) (*models.PartialRecipe, error) {
	cleaned := stripCodeFence(output)

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &top); err != nil {
		return nil, &ParseError{Payload: cleaned, Err: err}
	}
	if top == nil {
		return nil, &ParseError{Payload: cleaned, Err: errors.New("model output is null")}
	}

	result := &models.PartialRecipe{HasRecipe: lenientBool(top["hasRecipe"])}
	if !result.HasRecipe {
		return result, nil
	}

	result.Title = lenientString(top["title"])
	result.Ingredients = parseIngredients(top["ingredients"])
	result.Steps = parseSteps(top["steps"])
	result.ConfidenceScore = clamp01(lenientFloat(top["confidenceScore"]))

	var meta map[string]json.RawMessage
	if raw, ok := top["metadata"]; ok && json.Unmarshal(raw, &meta) == nil {
		result.Servings = lenientInt(meta["servings"])
		result.PrepTime = lenientInt(meta["prepTime"])
		result.CookingTime = lenientInt(meta["cookingTime"])
		result.RestingTime = lenientInt(meta["restingTime"])
		result.Difficulty = lenientString(meta["difficulty"])
	}

	return result, nil
}

func parseIngredients(raw json.RawMessage) []models.Ingredient {
	var items []json.RawMessage
	if json.Unmarshal(raw, &items) != nil {
		return []models.Ingredient{}
	}

	ingredients := make([]models.Ingredient, 0, len(items))
	for _, item := range items {
		var fields map[string]json.RawMessage
		if json.Unmarshal(item, &fields) != nil {
			continue
		}
		name := lenientString(fields["name"])
		if name == nil {
			continue
		}
		ingredients = append(ingredients, models.Ingredient{
			Name:    *name,
			Amount:  lenientString(fields["amount"]),
			Section: lenientString(fields["section"]),
		})
	}
	return ingredients
}

func parseSteps(raw json.RawMessage) []models.Step {
	var items []json.RawMessage
	if json.Unmarshal(raw, &items) != nil {
		return []models.Step{}
	}

	steps := make([]models.Step, 0, len(items))
	for i, item := range items {
		var fields map[string]json.RawMessage
		if json.Unmarshal(item, &fields) != nil {
			// Plain string steps are accepted too
			if text := lenientString(item); text != nil {
				steps = append(steps, models.Step{Order: i + 1, Instruction: *text})
			}
			continue
		}
		instruction := lenientString(fields["instruction"])
		if instruction == nil {
			continue
		}
		order := i + 1
		if o := lenientInt(fields["order"]); o != nil && *o > 0 {
			order = *o
		}
		steps = append(steps, models.Step{Order: order, Instruction: *instruction})
	}

	sort.SliceStable(steps, func(a, b int) bool { return steps[a].Order < steps[b].Order })
	return steps
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func lenientBool(raw json.RawMessage) bool {
	if isNull(raw) {
		return false
	}
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return b
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		parsed, err := strconv.ParseBool(strings.TrimSpace(s))
		return err == nil && parsed
	}
	return false
}

// lenientString accepts strings and numbers; blank values become nil
func lenientString(raw json.RawMessage) *string {
	if isNull(raw) {
		return nil
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return models.StringPtr(strings.TrimSpace(s))
	}
	var n json.Number
	if json.Unmarshal(raw, &n) == nil {
		return models.StringPtr(n.String())
	}
	return nil
}

// lenientInt accepts numbers and numeric strings such as "15" or "15 minutes"
func lenientInt(raw json.RawMessage) *int {
	if isNull(raw) {
		return nil
	}
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return models.IntPtr(int(math.Round(f)))
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return nil
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	if parsed, err := strconv.ParseFloat(fields[0], 64); err == nil {
		return models.IntPtr(int(math.Round(parsed)))
	}
	return nil
}

func lenientFloat(raw json.RawMessage) float64 {
	if isNull(raw) {
		return 0
	}
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return f
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return parsed
		}
	}
	return 0
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
