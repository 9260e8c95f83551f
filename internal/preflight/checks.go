package preflight

import (
	"fmt"
	"strings"
)

// checkDuration applies the hard admissibility gate. A duration the platform
// did not report (zero) passes with a reason; the additive score carries the
// uncertainty instead.
func (c *Classifier) checkDuration(secs int) DurationCheck {
	switch {
	case secs <= 0:
		return DurationCheck{Pass: true, Value: secs, Reason: "duration unavailable"}
	case secs < c.cfg.MinDurationSecs:
		return DurationCheck{
			Pass:   false,
			Value:  secs,
			Reason: fmt.Sprintf("video is %ds, shorter than the %ds minimum for a full recipe", secs, c.cfg.MinDurationSecs),
		}
	case secs > c.cfg.MaxDurationSecs:
		return DurationCheck{
			Pass:   false,
			Value:  secs,
			Reason: fmt.Sprintf("video is %ds, longer than the %ds maximum we process", secs, c.cfg.MaxDurationSecs),
		}
	default:
		return DurationCheck{Pass: true, Value: secs, Reason: "duration within range"}
	}
}

func (c *Classifier) checkCategory(categoryID string) CategoryCheck {
	check := CategoryCheck{CategoryID: categoryID}
	for _, id := range c.rules.FoodCategories {
		if categoryID == id {
			check.Score = c.rules.Weights.Category
			break
		}
	}
	return check
}

func (c *Classifier) checkCaption(hasCaption bool) CaptionCheck {
	check := CaptionCheck{HasCaption: hasCaption}
	if hasCaption {
		check.Score = c.rules.Weights.Caption
	}
	return check
}

func (c *Classifier) checkTopics(text string) TopicCheck {
	lower := strings.ToLower(text)
	check := TopicCheck{}
	for _, topic := range c.rules.Topics {
		if strings.Contains(lower, topic) {
			check.Matched = append(check.Matched, topic)
		}
	}
	check.Score = len(check.Matched) * c.rules.Weights.PerTopic
	if check.Score > c.rules.Weights.TopicCap {
		check.Score = c.rules.Weights.TopicCap
	}
	return check
}

func (c *Classifier) checkPatterns(text string) PatternCheck {
	check := PatternCheck{}
	for _, re := range c.rules.compiled {
		if m := re.FindString(text); m != "" {
			check.Hits++
			check.Matched = append(check.Matched, m)
		}
	}
	check.Score = check.Hits * c.rules.Weights.PerPattern
	if check.Score > c.rules.Weights.PatternCap {
		check.Score = c.rules.Weights.PatternCap
	}
	return check
}

func (c *Classifier) checkAntiSignals(text string) AntiSignalCheck {
	lower := strings.ToLower(text)
	check := AntiSignalCheck{}
	for _, sig := range c.rules.AntiSignals {
		if strings.Contains(lower, sig) {
			check.Matched = append(check.Matched, sig)
		}
	}
	check.Score = len(check.Matched) * c.rules.Weights.PerAnti
	return check
}
