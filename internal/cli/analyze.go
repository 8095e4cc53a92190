package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	apperrors "trading-diary/internal/errors"
)

// addAnalyzeCommands adds the AI coach command.
func addAnalyzeCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newAnalyzeCmd(app))
}

func newAnalyzeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Get AI mentor feedback on your trading",
		Long: `Send your closed trades to the AI coach for a performance review.

Requires an OpenAI API key in credentials.toml or the OPENAI_API_KEY
environment variable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			user, err := app.requireUser(ctx, output)
			if err != nil {
				return err
			}

			if app.Coach == nil {
				output.Error("Coach not configured. Set an OpenAI API key in credentials.toml.")
				return apperrors.ErrCoachUnavailable
			}

			trades, err := app.Store.GetTrades(ctx, user.ID, tradeFilterAll())
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}

			output.Info("Analyzing your trading history...")
			result, err := app.Coach.Analyze(ctx, trades)
			if err != nil {
				if apperrors.Is(err, apperrors.ErrNoClosedTrades) {
					output.Warning("No closed trades to analyze yet.")
					return nil
				}
				output.Error("Analysis failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Println()
			output.Box("Coach's Summary", []string{result.Summary})
			output.Println()

			output.Bold("Strengths")
			for _, s := range result.Strengths {
				output.Printf("  %s %s\n", output.Green("+"), s)
			}
			output.Println()

			output.Bold("Weaknesses")
			for _, w := range result.Weaknesses {
				output.Printf("  %s %s\n", output.Red("-"), w)
			}
			output.Println()

			output.Bold("Action Items")
			for i, tip := range result.ActionableTips {
				output.Printf("  %d. %s\n", i+1, tip)
			}
			output.Println()

			output.Printf("Discipline score: %s\n", output.BoldText(fmt.Sprintf("%d/100", result.SentimentScore)))
			return nil
		},
	}
}
