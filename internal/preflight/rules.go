package preflight

import (
	"os"
	"regexp"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Weights holds the additive/subtractive contribution of each sub-check.
type Weights struct {
	Category   int `yaml:"category"`
	Caption    int `yaml:"caption"`
	PerTopic   int `yaml:"per_topic"`
	TopicCap   int `yaml:"topic_cap"`
	PerPattern int `yaml:"per_pattern"`
	PatternCap int `yaml:"pattern_cap"`
	PerAnti    int `yaml:"per_anti"`
	PerBucket  int `yaml:"per_bucket"`
	BucketCap  int `yaml:"bucket_cap"`
}

// Rules holds the keyword, pattern and weight tables driving the classifier.
type Rules struct {
	FoodCategories []string `yaml:"food_categories"`
	Topics         []string `yaml:"topics"`
	Patterns       []string `yaml:"patterns"`
	AntiSignals    []string `yaml:"anti_signals"`
	Weights        Weights  `yaml:"weights"`

	compiled []*regexp.Regexp
}

// DefaultRules returns the compiled-in rule set.
func DefaultRules() *Rules {
	r := &Rules{
		// How-to & Style, plus People & Blogs where home cooks upload.
		FoodCategories: []string{"26", "22"},
		Topics: []string{
			"recipe", "cook", "cooking", "bake", "baking", "kitchen",
			"ingredient", "ingredients", "dish", "meal", "dinner", "lunch",
			"breakfast", "dessert", "sauce", "dough", "marinade", "homemade",
			"air fryer", "oven", "grill", "roast", "stew", "soup", "pasta",
			"bread", "cake",
		},
		Patterns: []string{
			`(?i)\bingredients?\s*[:\-]`,
			`(?i)\brecipe\s+below\b`,
			`(?i)\bfull\s+recipe\b`,
			`(?i)\bstep\s*\d+\b`,
			`(?i)\byou\s+will\s+need\b`,
			`(?i)\b\d+\s*(?:cups?|tbsp|tsp|grams?|g|oz|ml|lbs?)\b`,
			`(?i)\bpreheat\b`,
			`(?i)\bservings?\s*[:\-]\s*\d+`,
			`(?i)\bprep\s+time\b`,
			`(?i)\bcook\s+time\b`,
		},
		AntiSignals: []string{
			"official music video", "music video", "lyrics", "reaction",
			"reacting to", "mukbang", "asmr eating", "vlog", "day in my life",
			"unboxing", "trailer", "episode", "podcast", "gameplay",
			"taste test", "tier list", "ranking",
		},
		Weights: Weights{
			Category:   20,
			Caption:    15,
			PerTopic:   5,
			TopicCap:   20,
			PerPattern: 8,
			PatternCap: 24,
			PerAnti:    -15,
			PerBucket:  5,
			BucketCap:  15,
		},
	}
	r.mustCompile()
	return r
}

// LoadRules reads a rule set from a YAML file. Missing sections fall back to
// the defaults so an override file can stay small.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "preflight: read rules %s", path)
	}

	r := DefaultRules()
	var override Rules
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, eris.Wrap(err, "preflight: parse rules")
	}

	if len(override.FoodCategories) > 0 {
		r.FoodCategories = override.FoodCategories
	}
	if len(override.Topics) > 0 {
		r.Topics = override.Topics
	}
	if len(override.Patterns) > 0 {
		r.Patterns = override.Patterns
	}
	if len(override.AntiSignals) > 0 {
		r.AntiSignals = override.AntiSignals
	}
	if override.Weights != (Weights{}) {
		r.Weights = override.Weights
	}

	r.compiled = nil
	if err := r.compile(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rules) compile() error {
	for _, p := range r.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return eris.Wrapf(err, "preflight: compile pattern %q", p)
		}
		r.compiled = append(r.compiled, re)
	}
	return nil
}

func (r *Rules) mustCompile() {
	if err := r.compile(); err != nil {
		panic(err)
	}
}
