package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/elenafy/ChefStacks-sub001/internal/model"
	"github.com/elenafy/ChefStacks-sub001/internal/orchestrator"
)

var (
	extractSkipPreflight bool
	extractJSON          bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Extract a structured recipe from a video or web page URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		pipeline, cleanup, err := buildPipeline(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		rec, err := pipeline.Extract(ctx, args[0], orchestrator.Options{
			SkipPreflight: extractSkipPreflight,
		})
		if err != nil {
			if e, ok := orchestrator.AsError(err); ok && e.Kind == orchestrator.KindPreflightRejected {
				printRejection(cmd, e)
			}
			return err
		}

		if extractJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}

		printRecipe(cmd, rec)
		return nil
	},
}

func printRejection(cmd *cobra.Command, e *orchestrator.Error) {
	out := cmd.OutOrStdout()
	res := e.Preflight
	fmt.Fprintf(out, "%s\n\n%s\n", res.UserMessage.Title, res.UserMessage.Description)
	for _, s := range res.UserMessage.Suggestions {
		fmt.Fprintf(out, "  - %s\n", s)
	}
	if e.Overridable() {
		fmt.Fprintln(out, "\nRe-run with --skip-preflight to extract anyway.")
	}
}

func printRecipe(cmd *cobra.Command, rec *model.FusedRecipe) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n%s\n", rec.Title, strings.Repeat("=", len(rec.Title)))
	if rec.Servings > 0 {
		fmt.Fprintf(out, "Serves %d\n", rec.Servings)
	}
	if !rec.Times.Empty() {
		fmt.Fprintf(out, "Prep %dm / Cook %dm / Total %dm\n",
			rec.Times.PrepMin, rec.Times.CookMin, rec.Times.TotalMin)
	}

	fmt.Fprintf(out, "\nIngredients (confidence %.2f):\n", rec.Confidence.Ingredients)
	for _, ing := range rec.Ingredients {
		fmt.Fprintf(out, "  - %s\n", ing.Text)
	}

	fmt.Fprintf(out, "\nSteps (confidence %.2f):\n", rec.Confidence.Steps)
	for _, st := range rec.Steps {
		fmt.Fprintf(out, "  %d. %s\n", st.Order, st.Text)
	}

	if len(rec.ProTips) > 0 {
		fmt.Fprintln(out, "\nTips:")
		for _, tip := range rec.ProTips {
			fmt.Fprintf(out, "  * %s\n", tip)
		}
	}
}

func init() {
	extractCmd.Flags().BoolVar(&extractSkipPreflight, "skip-preflight", false, "bypass the video preflight gate")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "print the recipe as JSON")
	rootCmd.AddCommand(extractCmd)
}
