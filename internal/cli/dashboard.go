package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trading-diary/internal/models"
	"trading-diary/internal/stats"
	"trading-diary/internal/store"
	"trading-diary/pkg/utils"
)

// addDashboardCommands adds the performance dashboard command.
func addDashboardCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newDashboardCmd(app))
}

func newDashboardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the performance dashboard",
		Long:  "Headline metrics, weekday win rates, weekly P&L and the equity curve for a month.",
		Example: `  diary dashboard
  diary dashboard --month 2025-08`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			user, err := app.requireUser(ctx, output)
			if err != nil {
				return err
			}

			month := time.Now()
			if raw, _ := cmd.Flags().GetString("month"); raw != "" {
				m, err := time.ParseInLocation("2006-01", raw, time.Local)
				if err != nil {
					output.Error("Invalid month %q, expected YYYY-MM", raw)
					return err
				}
				month = m
			}

			trades, err := app.Store.GetTrades(ctx, user.ID, tradeFilterAll())
			if err != nil {
				output.Error("Failed to fetch trades: %v", err)
				return err
			}

			allTime := stats.Summarize(trades)
			monthTrades := stats.MonthTrades(trades, month)
			monthly := stats.Summarize(monthTrades)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"allTime":   allTime,
					"month":     monthly,
					"weekdays":  stats.WinRateByWeekday(monthTrades),
					"weeklyPnL": stats.WeeklyPnL(trades, month),
					"equity":    stats.EquityCurve(trades, month),
					"bySetup":   stats.PnLBySetup(monthTrades),
				})
			}

			renderSummary(output, "All Time", allTime)
			output.Println()
			renderSummary(output, FormatMonth(month), monthly)
			output.Println()

			renderWeekdays(output, monthTrades)
			output.Println()
			renderWeeklyPnL(output, trades, month)
			output.Println()
			renderEquityCurve(output, trades, month)
			output.Println()
			renderSetupPnL(output, monthTrades)

			return nil
		},
	}

	cmd.Flags().String("month", "", "month to report on (YYYY-MM, default current)")
	return cmd
}

func renderSummary(output *Output, title string, s stats.Summary) {
	content := []string{
		fmt.Sprintf("Net P&L:        %s", output.FormatPnL(s.NetPnL)),
		fmt.Sprintf("Trades:         %d (%d W / %d L)", s.TotalTrades, s.Wins, s.Losses),
		fmt.Sprintf("Win Rate:       %s", utils.FormatPercent(s.WinRate)),
		fmt.Sprintf("Avg Win/Loss:   %s / %s", utils.FormatIndianCurrency(s.AvgWin), utils.FormatIndianCurrency(s.AvgLoss)),
		fmt.Sprintf("W/L Ratio:      %s", FormatRatio(s.WinLossRatio)),
		fmt.Sprintf("Best Streak:    %dW", s.MaxWinStreak),
		fmt.Sprintf("Current Streak: %s", FormatStreak(s.CurrentStreak)),
	}
	output.Box(title, content)
}

func renderWeekdays(output *Output, monthTrades []models.Trade) {
	output.Bold("Win Rate by Weekday")
	weekdays := stats.WinRateByWeekday(monthTrades)
	if len(monthTrades) == 0 {
		output.Dim("No closed trades this month.")
		return
	}
	table := NewTable(output, "Day", "Trades", "Wins", "Win Rate", "")
	for _, d := range weekdays {
		table.AddRow(
			d.Day.String(),
			fmt.Sprintf("%d", d.Trades),
			fmt.Sprintf("%d", d.Wins),
			utils.FormatPercent(d.WinRate),
			output.Progress(d.WinRate, 100, 20),
		)
	}
	table.Render()
}

func renderWeeklyPnL(output *Output, trades []models.Trade, month time.Time) {
	output.Bold("Weekly P&L")
	weeks := stats.WeeklyPnL(trades, month)
	if len(weeks) == 0 {
		output.Dim("No closed trades this month.")
		return
	}
	table := NewTable(output, "Week of", "P&L")
	for _, w := range weeks {
		table.AddRow(FormatDate(w.WeekStart), output.FormatPnL(w.PnL))
	}
	table.Render()
}

func renderEquityCurve(output *Output, trades []models.Trade, month time.Time) {
	output.Bold("Equity Curve (cumulative P&L)")
	points := stats.EquityCurve(trades, month)
	if len(points) == 0 {
		output.Dim("No closed trades this month.")
		return
	}
	table := NewTable(output, "Date", "Trade P&L", "Equity")
	for _, p := range points {
		table.AddRow(FormatDate(p.Date), output.FormatPnL(p.PnL), utils.FormatIndianCurrency(p.Equity))
	}
	table.Render()
}

func renderSetupPnL(output *Output, monthTrades []models.Trade) {
	output.Bold("P&L by Setup")
	setups := stats.PnLBySetup(monthTrades)
	if len(setups) == 0 {
		output.Dim("No closed trades this month.")
		return
	}
	table := NewTable(output, "Setup", "P&L")
	for _, s := range setups {
		table.AddRow(s.Name, output.FormatPnL(s.PnL))
	}
	table.Render()
}

func tradeFilterAll() store.TradeFilter {
	return store.TradeFilter{}
}
