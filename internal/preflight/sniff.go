package preflight

import (
	"regexp"
	"strings"
)

var (
	quantityRe = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?(?:\s*/\s*\d+)?\s*(?:cups?|tablespoons?|tbsp|teaspoons?|tsp|grams?|g|kilograms?|kg|ounces?|oz|pounds?|lbs?|milliliters?|ml|liters?|l|pinch(?:es)?|cloves?|sticks?)\b`)
	timeTempRe = regexp.MustCompile(`(?i)\b\d+\s*(?:minutes?|mins?|hours?|hrs?|seconds?|secs?|degrees?|°\s*[cf]?|fahrenheit|celsius)\b`)
)

var cookingVerbs = []string{
	"chop", "dice", "mince", "slice", "whisk", "stir", "fold", "knead",
	"simmer", "boil", "saute", "sauté", "fry", "bake", "roast", "grill",
	"season", "marinate", "preheat", "drain", "garnish", "caramelize",
	"reduce", "deglaze", "sear",
}

// sniffTranscript buckets a transcript excerpt into quantities, cooking
// verbs, and times/temperatures. Each populated bucket adds a bounded bonus.
func (c *Classifier) sniffTranscript(excerpt string) *TranscriptSniff {
	sniff := &TranscriptSniff{}

	sniff.Quantities = dedupeLower(quantityRe.FindAllString(excerpt, 8))
	sniff.TimesTemps = dedupeLower(timeTempRe.FindAllString(excerpt, 8))

	lower := strings.ToLower(excerpt)
	for _, verb := range cookingVerbs {
		if strings.Contains(lower, verb) {
			sniff.CookingVerbs = append(sniff.CookingVerbs, verb)
		}
	}

	buckets := 0
	for _, b := range [][]string{sniff.Quantities, sniff.CookingVerbs, sniff.TimesTemps} {
		if len(b) > 0 {
			buckets++
		}
	}
	sniff.Score = buckets * c.rules.Weights.PerBucket
	if sniff.Score > c.rules.Weights.BucketCap {
		sniff.Score = c.rules.Weights.BucketCap
	}

	return sniff
}

func dedupeLower(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}
