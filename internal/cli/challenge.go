package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trading-diary/internal/challenge"
	apperrors "trading-diary/internal/errors"
	"trading-diary/internal/logging"
	"trading-diary/internal/models"
	"trading-diary/pkg/utils"
)

// addChallengeCommands adds growth challenge commands.
func addChallengeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "challenge",
		Short: "Capital growth challenge",
		Long:  "Track progress toward your capital growth milestone.",
	}

	cmd.AddCommand(newChallengeShowCmd(app))
	cmd.AddCommand(newChallengeEditCmd(app))
	cmd.AddCommand(newChallengeArchiveCmd(app))
	cmd.AddCommand(newChallengeHistoryCmd(app))

	rootCmd.AddCommand(cmd)
}

func newChallengeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the active challenge",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			user, err := app.requireUser(ctx, output)
			if err != nil {
				return err
			}

			profile, err := app.profileOrDefault(ctx, user.ID)
			if err != nil {
				output.Error("Failed to load profile: %v", err)
				return err
			}
			if profile.Challenge == nil {
				output.Info("No active challenge.")
				return nil
			}

			trades, err := app.Store.GetTrades(ctx, user.ID, tradeFilterAll())
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}

			progress := challenge.Compute(*profile.Challenge, trades)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"challenge": profile.Challenge,
					"progress":  progress,
				})
			}

			c := profile.Challenge
			content := []string{
				fmt.Sprintf("Starting Capital: %s", utils.FormatIndianCurrency(c.StartingCapital)),
				fmt.Sprintf("Current Capital:  %s", utils.FormatIndianCurrency(progress.CurrentCapital)),
				fmt.Sprintf("Target Capital:   %s", utils.FormatIndianCurrency(c.TargetCapital)),
				fmt.Sprintf("Progress:         %s  %s", output.Progress(progress.Percent, 100, 25), utils.FormatPercent(progress.Percent)),
				fmt.Sprintf("Started:          %s", FormatDate(c.StartDate)),
			}
			output.Box(c.Title, content)

			if progress.GoalReached {
				output.Println()
				output.Success("🎉 Goal reached! Run 'diary challenge archive' to start the next milestone.")
			}
			return nil
		},
	}
}

func newChallengeEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the active challenge",
		Example: `  diary challenge edit --title "Crorepati Run" --start 1000000 --target 10000000
  diary challenge edit --target 2000000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			user, err := app.requireUser(ctx, output)
			if err != nil {
				return err
			}

			profile, err := app.profileOrDefault(ctx, user.ID)
			if err != nil {
				output.Error("Failed to load profile: %v", err)
				return err
			}
			if profile.Challenge == nil || !profile.Challenge.Active() {
				output.Error("No active challenge to edit.")
				return apperrors.ErrInputValidation
			}

			edit := challenge.Edit{
				Title:           profile.Challenge.Title,
				StartingCapital: profile.Challenge.StartingCapital,
				TargetCapital:   profile.Challenge.TargetCapital,
			}
			if cmd.Flags().Changed("title") {
				edit.Title, _ = cmd.Flags().GetString("title")
			}
			if cmd.Flags().Changed("start") {
				edit.StartingCapital, _ = cmd.Flags().GetFloat64("start")
			}
			if cmd.Flags().Changed("target") {
				edit.TargetCapital, _ = cmd.Flags().GetFloat64("target")
			}
			if edit.TargetCapital <= edit.StartingCapital {
				output.Error("Target capital must exceed starting capital.")
				return apperrors.ErrInputValidation
			}

			updated := challenge.Apply(*profile.Challenge, edit)
			profile.Challenge = &updated
			if err := app.Store.SaveProfile(ctx, profile); err != nil {
				output.Error("Failed to save challenge: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(updated)
			}
			output.Success("✓ Challenge updated: %s (%s → %s)",
				updated.Title,
				utils.FormatIndianCurrency(updated.StartingCapital),
				utils.FormatIndianCurrency(updated.TargetCapital))
			return nil
		},
	}

	cmd.Flags().String("title", "", "challenge title")
	cmd.Flags().Float64("start", 0, "starting capital")
	cmd.Flags().Float64("target", 0, "target capital")
	return cmd
}

func newChallengeArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Archive a completed challenge and start the next milestone",
		Long: `Archive the active challenge once its goal is reached.

The completed challenge moves to history and a new one begins, compounding:
the old target becomes the new starting capital and the new target doubles it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			user, err := app.requireUser(ctx, output)
			if err != nil {
				return err
			}

			profile, err := app.profileOrDefault(ctx, user.ID)
			if err != nil {
				output.Error("Failed to load profile: %v", err)
				return err
			}
			if profile.Challenge == nil || !profile.Challenge.Active() {
				output.Error("No active challenge to archive.")
				return apperrors.ErrInputValidation
			}

			trades, err := app.Store.GetTrades(ctx, user.ID, tradeFilterAll())
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}

			progress := challenge.Compute(*profile.Challenge, trades)
			if !progress.GoalReached {
				output.Error("Challenge is at %s, reach 100%% before archiving.", utils.FormatPercent(progress.Percent))
				return apperrors.ErrInputValidation
			}

			archived, next := challenge.Archive(*profile.Challenge, time.Now())
			archived.CurrentCapital = progress.CurrentCapital
			// History is newest-first
			profile.CompletedChallenges = append([]models.GrowthChallenge{archived}, profile.CompletedChallenges...)
			profile.Challenge = &next
			if err := app.Store.SaveProfile(ctx, profile); err != nil {
				output.Error("Failed to save profile: %v", err)
				return err
			}
			logging.LogChallengeArchived(app.Logger, archived.ID, next.ID, next.TargetCapital)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"archived": archived,
					"next":     next,
				})
			}

			output.Success("🏆 '%s' completed and archived!", archived.Title)
			output.Println()
			output.Bold("Next milestone: %s", next.Title)
			output.Printf("  %s → %s\n",
				utils.FormatIndianCurrency(next.StartingCapital),
				utils.FormatIndianCurrency(next.TargetCapital))
			return nil
		},
	}
}

func newChallengeHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List completed challenges",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			user, err := app.requireUser(ctx, output)
			if err != nil {
				return err
			}

			profile, err := app.profileOrDefault(ctx, user.ID)
			if err != nil {
				output.Error("Failed to load profile: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(profile.CompletedChallenges)
			}

			if len(profile.CompletedChallenges) == 0 {
				output.Info("No completed challenges yet.")
				return nil
			}

			table := NewTable(output, "Title", "Start", "Target", "Started", "Completed")
			for _, c := range profile.CompletedChallenges {
				table.AddRow(
					c.Title,
					utils.FormatCompact(c.StartingCapital),
					utils.FormatCompact(c.TargetCapital),
					FormatDate(c.StartDate),
					FormatDate(c.EndDate),
				)
			}
			table.Render()
			return nil
		},
	}
}
