package preflight

import "fmt"

func passMessage() UserMessage {
	return UserMessage{
		Title:       "Looks like a recipe",
		Description: "This video carries strong recipe signals. Extraction will start now and usually takes a few minutes.",
		Suggestions: []string{"Keep this tab open while we process the video."},
		CanRetry:    false,
	}
}

func borderlineMessage(res *Result) UserMessage {
	desc := "We found some recipe signals in this video, but not enough to be confident. " +
		"You can still run the full extraction, though the result may be incomplete."
	if len(res.Checks.AntiSignals.Matched) > 0 {
		desc = fmt.Sprintf(
			"This video mentions %q, which usually indicates non-recipe content, but it also carries some cooking signals. "+
				"You can still run the full extraction if you believe it contains a recipe.",
			res.Checks.AntiSignals.Matched[0],
		)
	}
	return UserMessage{
		Title:       "Not sure this is a recipe",
		Description: desc,
		Suggestions: []string{
			"Use \"extract anyway\" if you know this video contains a recipe.",
			"Try a video whose title or description mentions ingredients or steps.",
		},
		CanRetry: true,
	}
}

func rejectMessage(res *Result) UserMessage {
	desc := "The title and description carry none of the signals we look for in cooking videos, so we skipped the expensive extraction."
	if len(res.Checks.AntiSignals.Matched) > 0 {
		desc = fmt.Sprintf(
			"This looks like %s content rather than a cooking tutorial, so we skipped the expensive extraction.",
			res.Checks.AntiSignals.Matched[0],
		)
	}
	return UserMessage{
		Title:       "This doesn't look like a recipe video",
		Description: desc,
		Suggestions: []string{
			"Paste a cooking tutorial or recipe video URL instead.",
			"If the recipe is on a website, paste the page URL directly.",
		},
		CanRetry: false,
	}
}

func durationMessage(d DurationCheck) UserMessage {
	return UserMessage{
		Title:       "Video length out of range",
		Description: fmt.Sprintf("We can't extract a usable recipe from this video: %s.", d.Reason),
		Suggestions: []string{
			"Try the full-length version of this recipe if this is a teaser or clip.",
			"Paste the recipe page URL if one is linked in the description.",
		},
		CanRetry: false,
	}
}
