package videoextract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/elenafy/ChefStacks-sub001/internal/model"
	"github.com/elenafy/ChefStacks-sub001/internal/timestamp"
)

// recipePayload mirrors the recipePromptV1 schema. The service is not
// perfectly schema-faithful, so numeric-ish fields accept both forms.
type recipePayload struct {
	Title       string              `json:"title"`
	Servings    flexInt             `json:"servings"`
	PrepTime    string              `json:"prep_time"`
	CookTime    string              `json:"cook_time"`
	TotalTime   string              `json:"total_time"`
	Ingredients []payloadIngredient `json:"ingredients"`
	Steps       []payloadStep       `json:"steps"`
	Tools       []string            `json:"tools"`
	Tips        []string            `json:"tips"`
}

type payloadIngredient struct {
	Name     string     `json:"name"`
	Quantity flexString `json:"quantity"`
	Unit     string     `json:"unit"`
	Notes    string     `json:"notes"`
}

type payloadStep struct {
	Instruction string `json:"instruction"`
	Text        string `json:"text"`
	In          string `json:"in"`
	Out         string `json:"out"`
}

// parseRecipePayload validates and converts the chat answer. A payload
// without a title is unusable and treated as InvalidResponse, never as a
// retry condition.
func parseRecipePayload(raw string) (*model.PartialFields, error) {
	body := stripFences(raw)
	if body == "" {
		return nil, eris.Wrap(ErrInvalidResponse, "videoextract: empty chat answer")
	}

	var payload recipePayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, eris.Wrap(ErrInvalidResponse, "videoextract: parse chat answer: "+err.Error())
	}
	if strings.TrimSpace(payload.Title) == "" {
		return nil, eris.Wrap(ErrInvalidResponse, "videoextract: recipe has no title")
	}

	out := &model.PartialFields{
		Source:   model.ProvenanceMemoriesAI,
		Title:    strings.TrimSpace(payload.Title),
		Servings: int(payload.Servings),
		Times: model.Times{
			PrepMin:  timeMinutes(payload.PrepTime),
			CookMin:  timeMinutes(payload.CookTime),
			TotalMin: timeMinutes(payload.TotalTime),
		},
		ProTips: payload.Tips,
	}

	for _, ing := range payload.Ingredients {
		name := strings.TrimSpace(ing.Name)
		if name == "" {
			continue
		}
		if notes := strings.TrimSpace(ing.Notes); notes != "" {
			name += " (" + notes + ")"
		}
		out.Ingredients = append(out.Ingredients, model.Ingredient{
			Text: name,
			Qty:  strings.TrimSpace(string(ing.Quantity)),
			Unit: strings.TrimSpace(ing.Unit),
			From: model.ProvenanceMemoriesAI,
		})
	}

	for i, st := range payload.Steps {
		text := strings.TrimSpace(st.Instruction)
		if text == "" {
			text = strings.TrimSpace(st.Text)
		}
		if text == "" {
			continue
		}
		step := model.Step{
			Order: i + 1,
			Text:  text,
			From:  model.ProvenanceMemoriesAI,
		}
		// Unparseable timestamps leave the field absent, never error.
		if secs, ok := timestamp.Parse(st.In); ok {
			step.TS = secs
		}
		out.Steps = append(out.Steps, step)
	}

	return out, nil
}

func timeMinutes(s string) int {
	secs, ok := timestamp.Parse(s)
	if !ok || secs <= 0 {
		return 0
	}
	mins := secs / 60
	if mins == 0 {
		mins = 1
	}
	return mins
}

// stripFences removes a markdown code fence around the answer and clips to
// the outermost JSON object when the model added prose anyway.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

// flexInt accepts 4, "4", and "4 servings".
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexInt(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	for _, field := range strings.Fields(s) {
		if n, err := strconv.Atoi(field); err == nil {
			*f = flexInt(n)
			return nil
		}
	}
	return nil
}

// flexString accepts "1/2" and 0.5 alike.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
	}
	return nil
}
