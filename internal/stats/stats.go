// Package stats computes performance statistics from journaled trades.
//
// Every function is a pure transformation: inputs are never mutated, results are
// recomputed fresh on every call, and empty input yields zero-valued defaults
// rather than errors. Only closed trades (non-zero exit time) contribute.
package stats

import (
	"math"
	"sort"
	"time"

	"trading-diary/internal/models"
)

// Summary holds the headline performance metrics for a set of trades.
type Summary struct {
	TotalTrades   int
	Wins          int
	Losses        int
	NetPnL        float64
	WinRate       float64 // percent, 0 when no closed trades
	GrossProfit   float64
	GrossLoss     float64 // magnitude of the sum of non-positive P&L
	AvgWin        float64
	AvgLoss       float64
	WinLossRatio  float64 // AvgWin / AvgLoss; +Inf when AvgLoss is 0 and AvgWin > 0
	MaxWinStreak  int
	CurrentStreak int // trailing run: wins positive, losses negative
}

// Closed filters to closed trades and sorts them by exit time ascending. The
// input slice is left untouched.
func Closed(trades []models.Trade) []models.Trade {
	out := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Closed() {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExitDate.Before(out[j].ExitDate)
	})
	return out
}

// NetPnL sums net P&L over closed trades. Order-independent.
func NetPnL(trades []models.Trade) float64 {
	var sum float64
	for _, t := range trades {
		if t.Closed() {
			sum += t.PnL
		}
	}
	return sum
}

// Summarize computes the headline metrics over the closed subset of trades.
func Summarize(trades []models.Trade) Summary {
	closed := Closed(trades)

	var s Summary
	s.TotalTrades = len(closed)
	for _, t := range closed {
		s.NetPnL += t.PnL
		if t.Win() {
			s.Wins++
			s.GrossProfit += t.PnL
		} else {
			s.Losses++
			s.GrossLoss += -t.PnL
		}
	}

	if s.TotalTrades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.TotalTrades) * 100
	}
	if s.Wins > 0 {
		s.AvgWin = s.GrossProfit / float64(s.Wins)
	}
	if s.Losses > 0 {
		s.AvgLoss = s.GrossLoss / float64(s.Losses)
	}
	s.WinLossRatio = ratio(s.AvgWin, s.AvgLoss)

	s.MaxWinStreak, s.CurrentStreak = streaks(closed)
	return s
}

// MonthTrades filters to closed trades exiting inside the calendar month
// containing ref, sorted by exit time ascending.
func MonthTrades(trades []models.Trade, ref time.Time) []models.Trade {
	return inMonth(Closed(trades), ref)
}

// streaks walks closed trades in chronological order and returns the longest
// run of consecutive wins, plus the signed length of the trailing run (wins
// positive, losses negative).
func streaks(closed []models.Trade) (maxWin, current int) {
	run := 0
	for _, t := range closed {
		if t.Win() {
			run++
			if run > maxWin {
				maxWin = run
			}
		} else {
			run = 0
		}
	}

	if len(closed) == 0 {
		return 0, 0
	}
	lastWin := closed[len(closed)-1].Win()
	for i := len(closed) - 1; i >= 0; i-- {
		if closed[i].Win() != lastWin {
			break
		}
		if lastWin {
			current++
		} else {
			current--
		}
	}
	return maxWin, current
}

// ratio divides num by den, degrading to 0 when both are 0 and to +Inf when only
// the denominator is 0. Never returns NaN for non-negative inputs.
func ratio(num, den float64) float64 {
	if den == 0 {
		if num > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return num / den
}

// monthWindow returns the [start, end) bounds of the calendar month containing
// ref, in ref's location.
func monthWindow(ref time.Time) (time.Time, time.Time) {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	return start, start.AddDate(0, 1, 0)
}

// inMonth filters closed, exit-sorted trades to those exiting inside the
// calendar month containing ref.
func inMonth(closed []models.Trade, ref time.Time) []models.Trade {
	start, end := monthWindow(ref)
	out := make([]models.Trade, 0, len(closed))
	for _, t := range closed {
		if !t.ExitDate.Before(start) && t.ExitDate.Before(end) {
			out = append(out, t)
		}
	}
	return out
}
