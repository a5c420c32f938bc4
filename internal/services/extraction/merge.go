package extraction

import "github.com/killallgit/recipe-api/internal/models"

// fromPartial converts a single-source result into a final recipe
func fromPartial(r *models.PartialRecipe) *models.MergedRecipe {
	u := r.Usable()
	merged := &models.MergedRecipe{
		Title:           u.Title,
		Ingredients:     u.Ingredients,
		Steps:           u.Steps,
		ConfidenceScore: u.ConfidenceScore,
		Servings:        u.Servings,
		PrepTime:        u.PrepTime,
		CookingTime:     u.CookingTime,
		RestingTime:     u.RestingTime,
		Difficulty:      u.Difficulty,
	}
	ensureSteps(merged)
	return merged
}

// merge reconciles caption and audio results. Content fields prefer the
// caption and fall back to audio; confidence is the higher of the two.
func merge(caption, audio *models.PartialRecipe) *models.MergedRecipe {
	c := caption.Usable()
	a := audio.Usable()

	merged := &models.MergedRecipe{
		Title:           firstString(c.Title, a.Title),
		Ingredients:     c.Ingredients,
		Steps:           c.Steps,
		ConfidenceScore: max(c.ConfidenceScore, a.ConfidenceScore),
		Servings:        firstInt(c.Servings, a.Servings),
		PrepTime:        firstInt(c.PrepTime, a.PrepTime),
		CookingTime:     firstInt(c.CookingTime, a.CookingTime),
		RestingTime:     firstInt(c.RestingTime, a.RestingTime),
		Difficulty:      firstString(c.Difficulty, a.Difficulty),
	}
	if len(merged.Ingredients) == 0 {
		merged.Ingredients = a.Ingredients
	}
	if len(merged.Steps) == 0 {
		merged.Steps = a.Steps
	}

	ensureSteps(merged)
	return merged
}

// ensureSteps inserts the placeholder step when ingredients exist without steps
func ensureSteps(r *models.MergedRecipe) {
	if r.Ingredients == nil {
		r.Ingredients = []models.Ingredient{}
	}
	if len(r.Steps) == 0 {
		r.Steps = []models.Step{}
		if len(r.Ingredients) > 0 {
			r.Steps = []models.Step{{Order: 1, Instruction: models.PlaceholderStepInstruction}}
		}
	}
}

func firstString(primary, fallback *string) *string {
	if !models.IsBlank(primary) {
		return primary
	}
	if !models.IsBlank(fallback) {
		return fallback
	}
	return nil
}

func firstInt(primary, fallback *int) *int {
	if primary != nil {
		return primary
	}
	return fallback
}
