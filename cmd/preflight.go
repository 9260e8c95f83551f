package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/elenafy/ChefStacks-sub001/internal/model"
	"github.com/elenafy/ChefStacks-sub001/pkg/youtube"
)

var preflightJSON bool

var preflightCmd = &cobra.Command{
	Use:   "preflight <video-url>",
	Short: "Score a video URL without running extraction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, ok := model.ClassifyURL(args[0])
		if !ok {
			return eris.Errorf("not a supported URL: %s", args[0])
		}
		if !src.Kind.IsVideo() {
			return eris.New("preflight only applies to video URLs")
		}

		yt := youtube.NewClient(cfg.YouTube.Key,
			youtube.WithBaseURL(cfg.YouTube.BaseURL),
			youtube.WithTimeout(time.Duration(cfg.YouTube.TimeoutSecs)*time.Second))
		classifier := buildClassifier(cfg, yt)

		res := classifier.Evaluate(cmd.Context(), src)

		if preflightJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		out := cmd.OutOrStdout()
		verdict := "REJECT"
		switch {
		case res.Pass:
			verdict = "PASS"
		case res.Borderline:
			verdict = "BORDERLINE"
		}
		fmt.Fprintf(out, "%s (score %d)\n%s\n", verdict, res.Score, res.Reason)
		fmt.Fprintf(out, "\n  duration:     %v (%ds)\n", res.Checks.Duration.Pass, res.Checks.Duration.Value)
		fmt.Fprintf(out, "  category:     %+d (%s)\n", res.Checks.Category.Score, res.Checks.Category.CategoryID)
		fmt.Fprintf(out, "  captions:     %+d\n", res.Checks.Caption.Score)
		fmt.Fprintf(out, "  topics:       %+d %v\n", res.Checks.Topic.Score, res.Checks.Topic.Matched)
		fmt.Fprintf(out, "  patterns:     %+d (%d hits)\n", res.Checks.Patterns.Score, res.Checks.Patterns.Hits)
		fmt.Fprintf(out, "  anti-signals: %+d %v\n", res.Checks.AntiSignals.Score, res.Checks.AntiSignals.Matched)
		if res.TranscriptSniff != nil {
			fmt.Fprintf(out, "  transcript:   %+d\n", res.TranscriptSniff.Score)
		}
		if res.TinyClassifier != nil {
			fmt.Fprintf(out, "  classifier:   recipe=%v conf=%.2f\n",
				res.TinyClassifier.IsRecipe, res.TinyClassifier.Confidence)
		}
		return nil
	},
}

func init() {
	preflightCmd.Flags().BoolVar(&preflightJSON, "json", false, "print the full breakdown as JSON")
	rootCmd.AddCommand(preflightCmd)
}
