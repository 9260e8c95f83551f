package videoextract

// recipePromptV1 is the structured-extraction prompt. The parser in
// payload.go is written against exactly this schema; changing either side
// without the other is a breaking change, hence the version suffix.
const recipePromptV1 = `Watch this cooking video and extract the complete recipe as JSON.

Respond with ONLY a JSON object, no prose, matching this schema exactly:

{
  "title": "dish name",
  "servings": 4,
  "prep_time": "HH:MM:SS",
  "cook_time": "HH:MM:SS",
  "total_time": "HH:MM:SS",
  "ingredients": [
    {"name": "...", "quantity": "...", "unit": "...", "notes": "..."}
  ],
  "steps": [
    {"instruction": "...", "in": "MM:SS", "out": "MM:SS"}
  ],
  "tools": ["..."],
  "tips": ["..."]
}

Rules:
- "title" is required and must not be empty.
- Omit any time field you cannot determine; do not guess.
- "in"/"out" are the timestamps in the video where the step starts and ends.
- List ingredients in the order they are used.
- "tips" holds technique advice the cook gives that is not itself a step.`
