package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "trading-diary/internal/errors"
	"trading-diary/internal/logging"
	"trading-diary/internal/models"
	"trading-diary/internal/stats"
	"trading-diary/internal/store"
)

// addTradeCommands adds trade journal commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Trade journal management",
		Long:  "Record, review, edit and delete journaled trades.",
	}

	cmd.AddCommand(newTradeAddCmd(app))
	cmd.AddCommand(newTradeListCmd(app))
	cmd.AddCommand(newTradeShowCmd(app))
	cmd.AddCommand(newTradeEditCmd(app))
	cmd.AddCommand(newTradeDeleteCmd(app))
	cmd.AddCommand(newTradeWatchCmd(app))

	rootCmd.AddCommand(cmd)
}

func addTradeFlags(cmd *cobra.Command) {
	cmd.Flags().String("symbol", "", "instrument symbol (e.g. RELIANCE, BTCUSD)")
	cmd.Flags().String("type", "", "trade direction: long or short")
	cmd.Flags().String("asset", "", "asset class: Crypto, Forex, Stocks, Futures, Options")
	cmd.Flags().Float64("entry-price", 0, "entry price")
	cmd.Flags().Float64("exit-price", 0, "exit price")
	cmd.Flags().Float64("quantity", 0, "position size")
	cmd.Flags().Float64("fees", 0, "total fees and commissions")
	cmd.Flags().Float64("pnl", 0, "net P&L (computed from prices when omitted)")
	cmd.Flags().String("entry-date", "", "entry date (2006-01-02 or 2006-01-02 15:04)")
	cmd.Flags().String("exit-date", "", "exit date; omit for an open position")
	cmd.Flags().String("setup", "", "setup label")
	cmd.Flags().String("mistakes", "", "comma-separated mistakes")
	cmd.Flags().Bool("followed-setup", true, "whether the trade followed its setup rules")
	cmd.Flags().String("reason", "", "entry reason")
	cmd.Flags().String("feeling", "", "emotional state during the trade")
	cmd.Flags().String("lesson", "", "lesson learned")
	cmd.Flags().String("tags", "", "comma-separated tags")
	cmd.Flags().String("notes", "", "free-form notes")
	cmd.Flags().String("screenshot", "", "chart screenshot reference")
}

func newTradeAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new trade",
		Example: `  diary trade add --symbol RELIANCE --type long --entry-price 2800 --exit-price 2850 --quantity 10 --setup Breakout
  diary trade add --symbol BTCUSD --asset Crypto --type short --entry-price 65000 --quantity 0.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			user, err := app.requireUser(ctx, output)
			if err != nil {
				return err
			}

			trade := models.NewTrade()
			if err := applyTradeFlags(cmd, &trade); err != nil {
				output.Error("%v", err)
				return err
			}
			if trade.Symbol == "" {
				output.Error("--symbol is required")
				return apperrors.ErrInputValidation
			}

			id, err := app.Store.SaveTrade(ctx, user.ID, &trade)
			if err != nil {
				output.Error("Failed to save trade: %v", err)
				return err
			}
			logging.LogTradeSaved(app.Logger, id, trade.Symbol, trade.PnL)

			if output.IsJSON() {
				return output.JSON(trade)
			}
			if trade.Closed() {
				output.Success("✓ Trade recorded: %s %s, P&L %s", trade.Symbol, trade.Type, output.FormatPnL(trade.PnL))
			} else {
				output.Success("✓ Open position recorded: %s %s", trade.Symbol, trade.Type)
			}
			output.Dim("ID: %s", id)
			return nil
		},
	}

	addTradeFlags(cmd)
	return cmd
}

// applyTradeFlags copies flag values that were set onto the trade.
func applyTradeFlags(cmd *cobra.Command, trade *models.Trade) error {
	flags := cmd.Flags()

	if flags.Changed("symbol") {
		symbol, _ := flags.GetString("symbol")
		trade.Symbol = models.NormalizeSymbol(symbol)
	}
	if flags.Changed("type") {
		raw, _ := flags.GetString("type")
		t, ok := models.ParseTradeType(raw)
		if !ok {
			return apperrors.NewValidationError("type", raw, "must be 'long' or 'short'")
		}
		trade.Type = t
	}
	if flags.Changed("asset") {
		raw, _ := flags.GetString("asset")
		ac, ok := models.ParseAssetClass(raw)
		if !ok {
			return apperrors.NewValidationError("asset", raw, "must be one of Crypto, Forex, Stocks, Futures, Options")
		}
		trade.AssetClass = ac
	}
	if flags.Changed("entry-price") {
		trade.EntryPrice, _ = flags.GetFloat64("entry-price")
	}
	if flags.Changed("exit-price") {
		trade.ExitPrice, _ = flags.GetFloat64("exit-price")
	}
	if flags.Changed("quantity") {
		trade.Quantity, _ = flags.GetFloat64("quantity")
	}
	if flags.Changed("fees") {
		trade.Fees, _ = flags.GetFloat64("fees")
	}
	if flags.Changed("entry-date") {
		raw, _ := flags.GetString("entry-date")
		d, err := parseDate(raw)
		if err != nil {
			return apperrors.NewValidationError("entry-date", raw, err.Error())
		}
		trade.EntryDate = d
	}
	if flags.Changed("exit-date") {
		raw, _ := flags.GetString("exit-date")
		if raw == "" {
			trade.ExitDate = time.Time{}
		} else {
			d, err := parseDate(raw)
			if err != nil {
				return apperrors.NewValidationError("exit-date", raw, err.Error())
			}
			trade.ExitDate = d
		}
	}
	if flags.Changed("exit-price") && trade.ExitDate.IsZero() {
		// An exit price without an explicit exit date closes the trade now
		trade.ExitDate = time.Now()
	}
	if flags.Changed("setup") {
		trade.Setup, _ = flags.GetString("setup")
	}
	if flags.Changed("mistakes") {
		raw, _ := flags.GetString("mistakes")
		trade.Mistakes = splitList(raw)
	}
	if flags.Changed("followed-setup") {
		trade.FollowedSetup, _ = flags.GetBool("followed-setup")
	}
	if flags.Changed("reason") {
		trade.EntryReason, _ = flags.GetString("reason")
	}
	if flags.Changed("feeling") {
		trade.Feeling, _ = flags.GetString("feeling")
	}
	if flags.Changed("lesson") {
		trade.LessonLearned, _ = flags.GetString("lesson")
	}
	if flags.Changed("tags") {
		raw, _ := flags.GetString("tags")
		trade.Tags = splitList(raw)
	}
	if flags.Changed("notes") {
		trade.Notes, _ = flags.GetString("notes")
	}
	if flags.Changed("screenshot") {
		trade.Screenshot, _ = flags.GetString("screenshot")
	}

	// Derive P&L from prices unless given explicitly
	if flags.Changed("pnl") {
		trade.PnL, _ = flags.GetFloat64("pnl")
	} else if trade.Closed() && trade.EntryPrice != 0 {
		direction := 1.0
		if trade.Type == models.Short {
			direction = -1.0
		}
		trade.PnL = (trade.ExitPrice-trade.EntryPrice)*trade.Quantity*direction - trade.Fees
	}

	return nil
}

func parseDate(raw string) (time.Time, error) {
	layouts := []string{"2006-01-02 15:04", "2006-01-02", "02-Jan-2006"}
	for _, layout := range layouts {
		if d, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func newTradeListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journaled trades",
		Example: `  diary trade list
  diary trade list --symbol RELIANCE --limit 20
  diary trade list --open`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			user, err := app.requireUser(ctx, output)
			if err != nil {
				return err
			}

			filter := store.TradeFilter{}
			filter.Symbol, _ = cmd.Flags().GetString("symbol")
			filter.Symbol = models.NormalizeSymbol(filter.Symbol)
			filter.Setup, _ = cmd.Flags().GetString("setup")
			filter.Limit, _ = cmd.Flags().GetInt("limit")

			trades, err := app.Store.GetTrades(ctx, user.ID, filter)
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}

			openOnly, _ := cmd.Flags().GetBool("open")
			if openOnly {
				var open []models.Trade
				for _, t := range trades {
					if !t.Closed() {
						open = append(open, t)
					}
				}
				trades = open
			}

			if output.IsJSON() {
				return output.JSON(trades)
			}

			if len(trades) == 0 {
				output.Info("No trades recorded yet.")
				output.Dim("Tip: use 'diary trade add' to record your first trade.")
				return nil
			}

			table := NewTable(output, "ID", "Entry", "Exit", "Symbol", "Type", "Setup", "P&L", "Feeling")
			for _, t := range trades {
				pnl := "-"
				if t.Closed() {
					pnl = output.FormatPnL(t.PnL)
				}
				table.AddRow(
					TruncateString(t.ID, 8),
					FormatDate(t.EntryDate),
					FormatDate(t.ExitDate),
					t.Symbol,
					string(t.Type),
					TruncateString(orDash(t.Setup), 20),
					pnl,
					orDash(t.Feeling),
				)
			}
			table.Render()
			output.Println()
			output.Dim("%d trade(s)", len(trades))
			return nil
		},
	}

	cmd.Flags().String("symbol", "", "filter by symbol")
	cmd.Flags().String("setup", "", "filter by setup")
	cmd.Flags().Int("limit", 0, "maximum number of trades")
	cmd.Flags().Bool("open", false, "show only open positions")
	return cmd
}

func newTradeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <trade-id>",
		Short: "Show one trade in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			user, err := app.requireUser(ctx, output)
			if err != nil {
				return err
			}

			trade, err := app.Store.GetTrade(ctx, user.ID, args[0])
			if err != nil {
				output.Error("Trade not found: %s", args[0])
				return err
			}

			if output.IsJSON() {
				return output.JSON(trade)
			}

			output.Bold("%s %s (%s)", trade.Symbol, trade.Type, trade.AssetClass)
			output.Printf("  ID:          %s\n", trade.ID)
			output.Printf("  Entry:       %s @ %s\n", FormatDateTime(trade.EntryDate), FormatPrice(trade.EntryPrice))
			if trade.Closed() {
				output.Printf("  Exit:        %s @ %s\n", FormatDateTime(trade.ExitDate), FormatPrice(trade.ExitPrice))
				output.Printf("  P&L:         %s\n", output.FormatPnL(trade.PnL))
			} else {
				output.Printf("  Exit:        open position\n")
			}
			output.Printf("  Quantity:    %v\n", trade.Quantity)
			output.Printf("  Fees:        %v\n", trade.Fees)
			output.Printf("  Setup:       %s (followed: %v)\n", orDash(trade.Setup), trade.FollowedSetup)
			output.Printf("  Mistakes:    %s\n", joinOrDash(trade.Mistakes))
			output.Printf("  Feeling:     %s\n", orDash(trade.Feeling))
			output.Printf("  Tags:        %s\n", joinOrDash(trade.Tags))
			if trade.EntryReason != "" {
				output.Printf("  Reason:      %s\n", trade.EntryReason)
			}
			if trade.LessonLearned != "" {
				output.Printf("  Lesson:      %s\n", trade.LessonLearned)
			}
			if trade.Notes != "" {
				output.Printf("  Notes:       %s\n", trade.Notes)
			}
			return nil
		},
	}
}

func newTradeEditCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <trade-id>",
		Short: "Edit a journaled trade",
		Long: `Edit a journaled trade. Only the provided flags change.

If the trade was deleted elsewhere in the meantime, the edit is preserved by
recording it as a new trade under a fresh ID.`,
		Args: cobra.ExactArgs(1),
		Example: `  diary trade edit a1b2c3d4 --exit-price 2900
  diary trade edit a1b2c3d4 --mistakes "FOMO entry" --lesson "Wait for the retest"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			user, err := app.requireUser(ctx, output)
			if err != nil {
				return err
			}

			trade, err := app.Store.GetTrade(ctx, user.ID, args[0])
			if err != nil {
				output.Error("Trade not found: %s", args[0])
				return err
			}

			if err := applyTradeFlags(cmd, trade); err != nil {
				output.Error("%v", err)
				return err
			}

			result, err := app.Store.UpdateTrade(ctx, user.ID, args[0], trade)
			if err != nil {
				output.Error("Failed to update trade: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"trade":     trade,
					"recreated": result.Outcome == store.Recreated,
				})
			}

			if result.Outcome == store.Recreated {
				logging.LogTradeRecreated(app.Logger, args[0], result.NewID)
				output.Warning("Original trade was gone; your edit was saved as a new trade.")
				output.Dim("New ID: %s", result.NewID)
			} else {
				output.Success("✓ Trade updated")
			}
			return nil
		},
	}

	addTradeFlags(cmd)
	return cmd
}

func newTradeDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trade-id>",
		Short: "Delete a journaled trade",
		Long:  "Delete a trade. Deleting an already-deleted trade succeeds quietly.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			user, err := app.requireUser(ctx, output)
			if err != nil {
				return err
			}

			if err := app.Store.DeleteTrade(ctx, user.ID, args[0]); err != nil {
				output.Error("Failed to delete trade: %v", err)
				return err
			}

			app.Logger.Info().Str("trade_id", args[0]).Msg("Trade deleted")
			output.Success("✓ Trade deleted")
			return nil
		},
	}
}

func newTradeWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the journal for changes",
		Long:  "Stream a live summary every time the journal changes. Interrupt to stop.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			user, err := app.requireUser(ctx, output)
			if err != nil {
				return err
			}

			sub, err := app.Store.Subscribe(user.ID)
			if err != nil {
				output.Error("Failed to subscribe: %v", err)
				return err
			}
			defer sub.Cancel()

			output.Info("Watching for journal changes (Ctrl-C to stop)...")
			for {
				select {
				case <-ctx.Done():
					output.Println()
					return nil
				case trades, ok := <-sub.Updates:
					if !ok {
						return nil
					}
					summary := stats.Summarize(trades)
					output.Printf("[%s] %d trade(s), net P&L %s, win rate %s\n",
						time.Now().Format("15:04:05"),
						len(trades),
						output.FormatPnL(summary.NetPnL),
						output.FormatPercent(summary.WinRate))
				}
			}
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
