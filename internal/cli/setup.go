package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "trading-diary/internal/errors"
	"trading-diary/internal/models"
	"trading-diary/internal/stats"
	"trading-diary/internal/store"
	"trading-diary/pkg/utils"
)

// addSetupCommands adds setup, rule and mistake catalog commands.
func addSetupCommands(rootCmd *cobra.Command, app *App) {
	setupCmd := &cobra.Command{
		Use:   "setup",
		Short: "Trading setup management",
		Long:  "Manage setup labels and review per-setup performance.",
	}
	setupCmd.AddCommand(newSetupListCmd(app))
	setupCmd.AddCommand(newSetupAddCmd(app))
	setupCmd.AddCommand(newSetupRenameCmd(app))
	setupCmd.AddCommand(newSetupRemoveCmd(app))
	rootCmd.AddCommand(setupCmd)

	rulesCmd := &cobra.Command{
		Use:   "rules",
		Short: "Trading rules checklist",
	}
	rulesCmd.AddCommand(newListStringsCmd(app, "list", "Show your trading rules", getRules))
	rulesCmd.AddCommand(newAddStringCmd(app, "rule", getRules, setRules))
	rulesCmd.AddCommand(newRemoveStringCmd(app, "rule", getRules, setRules))
	rootCmd.AddCommand(rulesCmd)

	mistakesCmd := &cobra.Command{
		Use:   "mistakes",
		Short: "Mistake catalog management",
	}
	mistakesCmd.AddCommand(newListStringsCmd(app, "list", "Show the mistake catalog", getMistakes))
	mistakesCmd.AddCommand(newAddStringCmd(app, "mistake", getMistakes, setMistakes))
	mistakesCmd.AddCommand(newRemoveStringCmd(app, "mistake", getMistakes, setMistakes))
	rootCmd.AddCommand(mistakesCmd)
}

func newSetupListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List setups with per-setup performance",
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

			trades, err := app.Store.GetTrades(ctx, user.ID, tradeFilterAll())
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}

			report := stats.SetupReport(trades, profile.Setups())

			if output.IsJSON() {
				return output.JSON(report)
			}

			table := NewTable(output, "Setup", "Trades", "P&L", "Win Rate", "Profit Factor", "Avg P&L")
			for _, s := range report {
				table.AddRow(
					s.Name,
					fmt.Sprintf("%d", s.Trades),
					output.FormatPnL(s.PnL),
					utils.FormatPercent(s.WinRate),
					FormatRatio(s.ProfitFactor),
					utils.FormatIndianCurrency(s.AvgPnL),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newSetupAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom setup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			user, err := app.requireUser(ctx, output)
			if err != nil {
				return err
			}

			name := strings.TrimSpace(args[0])
			if name == "" {
				output.Error("Setup name must not be empty.")
				return apperrors.ErrInputValidation
			}

			profile, err := app.profileOrDefault(ctx, user.ID)
			if err != nil {
				output.Error("Failed to load profile: %v", err)
				return err
			}

			for _, existing := range profile.Setups() {
				if strings.EqualFold(existing, name) {
					output.Warning("Setup %q already exists.", existing)
					return nil
				}
			}

			profile.CustomSetups = append(profile.CustomSetups, name)
			if err := app.Store.SaveProfile(ctx, profile); err != nil {
				output.Error("Failed to save profile: %v", err)
				return err
			}
			output.Success("✓ Setup %q added", name)
			return nil
		},
	}
}

func newSetupRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a custom setup",
		Long:  "Rename a custom setup label. Trades carrying the old label are rewritten to the new one.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			user, err := app.requireUser(ctx, output)
			if err != nil {
				return err
			}

			oldName := strings.TrimSpace(args[0])
			newName := strings.TrimSpace(args[1])
			if newName == "" {
				output.Error("New setup name must not be empty.")
				return apperrors.ErrInputValidation
			}
			if models.IsBuiltinSetup(oldName) {
				output.Error("%q is a built-in setup and cannot be renamed.", oldName)
				return apperrors.ErrInputValidation
			}

			profile, err := app.profileOrDefault(ctx, user.ID)
			if err != nil {
				output.Error("Failed to load profile: %v", err)
				return err
			}

			for _, existing := range profile.Setups() {
				if !strings.EqualFold(existing, oldName) && strings.EqualFold(existing, newName) {
					output.Error("Setup %q already exists.", existing)
					return apperrors.ErrInputValidation
				}
			}

			found := false
			for i, s := range profile.CustomSetups {
				if strings.EqualFold(s, oldName) {
					oldName = s
					profile.CustomSetups[i] = newName
					found = true
					break
				}
			}
			if !found {
				output.Error("Setup %q not found.", oldName)
				return apperrors.ErrInputValidation
			}

			if err := app.Store.SaveProfile(ctx, profile); err != nil {
				output.Error("Failed to save profile: %v", err)
				return err
			}

			// Carry the rename through to the journal
			trades, err := app.Store.GetTrades(ctx, user.ID, store.TradeFilter{Setup: oldName})
			if err != nil {
				output.Error("Setup renamed, but fetching its trades failed: %v", err)
				return err
			}
			rewritten := 0
			for i := range trades {
				trades[i].Setup = newName
				if _, err := app.Store.UpdateTrade(ctx, user.ID, trades[i].ID, &trades[i]); err != nil {
					output.Error("Failed to rewrite trade %s: %v", trades[i].ID, err)
					return err
				}
				rewritten++
			}

			output.Success("✓ Setup %q renamed to %q", oldName, newName)
			if rewritten > 0 {
				output.Dim("%d trade(s) updated", rewritten)
			}
			return nil
		},
	}
}

func newSetupRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a custom setup",
		Long:  "Remove a custom setup label. Built-in setups cannot be removed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			user, err := app.requireUser(ctx, output)
			if err != nil {
				return err
			}

			name := strings.TrimSpace(args[0])
			if models.IsBuiltinSetup(name) {
				output.Error("%q is a built-in setup and cannot be removed.", name)
				return apperrors.ErrInputValidation
			}

			profile, err := app.profileOrDefault(ctx, user.ID)
			if err != nil {
				output.Error("Failed to load profile: %v", err)
				return err
			}

			removed := false
			kept := profile.CustomSetups[:0]
			for _, s := range profile.CustomSetups {
				if strings.EqualFold(s, name) {
					removed = true
					continue
				}
				kept = append(kept, s)
			}
			profile.CustomSetups = kept

			if !removed {
				output.Warning("Setup %q not found.", name)
				return nil
			}

			if err := app.Store.SaveProfile(ctx, profile); err != nil {
				output.Error("Failed to save profile: %v", err)
				return err
			}
			output.Success("✓ Setup %q removed", name)
			return nil
		},
	}
}

// String-list accessors shared by the rules and mistakes commands.

func getRules(p *models.Profile) []string    { return p.CustomRules }
func setRules(p *models.Profile, v []string) { p.CustomRules = v }

func getMistakes(p *models.Profile) []string    { return p.CustomMistakes }
func setMistakes(p *models.Profile, v []string) { p.CustomMistakes = v }

func newListStringsCmd(app *App, use, short string, get func(*models.Profile) []string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
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

			items := get(profile)
			if output.IsJSON() {
				return output.JSON(items)
			}
			if len(items) == 0 {
				output.Info("Nothing here yet.")
				return nil
			}
			for i, item := range items {
				output.Printf("  %d. %s\n", i+1, item)
			}
			return nil
		},
	}
}

func newAddStringCmd(app *App, noun string, get func(*models.Profile) []string, set func(*models.Profile, []string)) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: fmt.Sprintf("Add a %s", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			user, err := app.requireUser(ctx, output)
			if err != nil {
				return err
			}

			text := strings.TrimSpace(args[0])
			if text == "" {
				output.Error("Text must not be empty.")
				return apperrors.ErrInputValidation
			}

			profile, err := app.profileOrDefault(ctx, user.ID)
			if err != nil {
				output.Error("Failed to load profile: %v", err)
				return err
			}

			items := get(profile)
			for _, existing := range items {
				if strings.EqualFold(existing, text) {
					output.Warning("Already present: %q", existing)
					return nil
				}
			}
			set(profile, append(items, text))

			if err := app.Store.SaveProfile(ctx, profile); err != nil {
				output.Error("Failed to save profile: %v", err)
				return err
			}
			output.Success("✓ Added %s", noun)
			return nil
		},
	}
}

func newRemoveStringCmd(app *App, noun string, get func(*models.Profile) []string, set func(*models.Profile, []string)) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <text>",
		Short: fmt.Sprintf("Remove a %s", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			user, err := app.requireUser(ctx, output)
			if err != nil {
				return err
			}

			text := strings.TrimSpace(args[0])
			profile, err := app.profileOrDefault(ctx, user.ID)
			if err != nil {
				output.Error("Failed to load profile: %v", err)
				return err
			}

			items := get(profile)
			removed := false
			kept := items[:0]
			for _, item := range items {
				if strings.EqualFold(item, text) {
					removed = true
					continue
				}
				kept = append(kept, item)
			}
			if !removed {
				output.Warning("Not found: %q", text)
				return nil
			}
			set(profile, kept)

			if err := app.Store.SaveProfile(ctx, profile); err != nil {
				output.Error("Failed to save profile: %v", err)
				return err
			}
			output.Success("✓ Removed %s", noun)
			return nil
		},
	}
}
