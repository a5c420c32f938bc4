package gemini

// Source describes what the model is reading
type Source string

const (
	SourceText  Source = "text"
	SourceAudio Source = "audio"
)

const responseContract = `Return ONLY valid JSON, with no commentary and no markdown, matching exactly one of these two shapes.

If there is no recipe:
{"hasRecipe": false}

If there is a recipe:
{
  "hasRecipe": true,
  "title": "Recipe title",
  "ingredients": [
    {"name": "ingredient name", "amount": "quantity with unit, or null", "section": "section heading such as Sauce or Dough, or null"}
  ],
  "steps": [
    {"order": 1, "instruction": "step text"}
  ],
  "metadata": {
    "servings": number or null,
    "prepTime": minutes as a number or null,
    "cookingTime": minutes as a number or null,
    "restingTime": minutes as a number or null,
    "difficulty": "Easy" | "Medium" | "Hard"
  },
  "confidenceScore": number between 0 and 1
}

Rules:
- Extract only ingredients and steps that are explicitly mentioned. Do not invent anything.
- Keep vague quantities as text exactly as given, for example "to taste" or "a handful".
- Number steps in order starting at 1.
- Infer servings only when it is reasonably implied, otherwise use null.
- Times are in minutes. Use null when a time is not mentioned or implied.
- Use the stated difficulty when there is one. Otherwise judge by the number of steps: 5 or fewer is "Easy", 6 to 10 is "Medium", more than 10 is "Hard".
- confidenceScore reflects how complete and unambiguous the recipe is.`

const textPreamble = `You extract cooking recipes from social media video captions and transcripts.
Read the following text and extract the recipe it describes, if any.

`

const audioPreamble = `You extract cooking recipes from the audio of short cooking videos.
Listen to the attached audio and extract the recipe that is spoken, if any.

`

// buildPrompt returns the extraction prompt for a source.
// For text sources the content is appended after the contract.
func buildPrompt(source Source, text string) string {
	if source == SourceAudio {
		return audioPreamble + responseContract
	}
	return textPreamble + responseContract + "\n\nText:\n" + text
}
