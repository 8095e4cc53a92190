package stats

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"trading-diary/internal/models"
)

// Property: Net P&L is order-independent.
//
// For any set of closed trades, shuffling the input slice must not change the
// aggregate net P&L or the headline summary counts.
func TestProperty_NetPnLOrderIndependent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("shuffled input yields identical aggregates", prop.ForAll(
		func(pnls []float64, seed int64) bool {
			trades := make([]models.Trade, len(pnls))
			base := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.Local)
			for i, pnl := range pnls {
				tr := models.NewTrade()
				tr.ExitDate = base.AddDate(0, 0, i)
				tr.PnL = pnl
				trades[i] = tr
			}

			shuffled := make([]models.Trade, len(trades))
			copy(shuffled, trades)
			rng := rand.New(rand.NewSource(seed))
			rng.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			a := Summarize(trades)
			b := Summarize(shuffled)

			if math.Abs(a.NetPnL-b.NetPnL) > 1e-6 {
				t.Logf("NetPnL mismatch: %f vs %f", a.NetPnL, b.NetPnL)
				return false
			}
			return a.Wins == b.Wins && a.Losses == b.Losses &&
				a.MaxWinStreak == b.MaxWinStreak && a.CurrentStreak == b.CurrentStreak
		},
		gen.SliceOf(gen.Float64Range(-10000, 10000)),
		gen.Int64(),
	))

	properties.TestingRun(t)
}

// Property: Win rate is always within [0, 100] and ratios never go negative.
func TestProperty_SummaryBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("win rate bounded, ratios non-negative", prop.ForAll(
		func(pnls []float64) bool {
			trades := make([]models.Trade, len(pnls))
			base := time.Date(2025, time.March, 1, 10, 0, 0, 0, time.Local)
			for i, pnl := range pnls {
				tr := models.NewTrade()
				tr.ExitDate = base.AddDate(0, 0, i)
				tr.PnL = pnl
				trades[i] = tr
			}

			s := Summarize(trades)
			if s.WinRate < 0 || s.WinRate > 100 {
				t.Logf("win rate out of bounds: %f", s.WinRate)
				return false
			}
			if math.IsNaN(s.WinLossRatio) || s.WinLossRatio < 0 {
				t.Logf("bad win/loss ratio: %f", s.WinLossRatio)
				return false
			}
			return s.Wins+s.Losses == s.TotalTrades
		},
		gen.SliceOf(gen.Float64Range(-10000, 10000)),
	))

	properties.TestingRun(t)
}

// Property: The last equity point equals the month's net P&L.
func TestProperty_EquityCurveEndsAtMonthNet(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	month := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.Local)

	properties.Property("equity curve sums to month net P&L", prop.ForAll(
		func(pnls []float64) bool {
			if len(pnls) == 0 {
				return len(EquityCurve(nil, month)) == 0
			}

			trades := make([]models.Trade, len(pnls))
			for i, pnl := range pnls {
				tr := models.NewTrade()
				tr.ExitDate = month.Add(time.Duration(i+1) * time.Hour)
				tr.PnL = pnl
				trades[i] = tr
			}

			curve := EquityCurve(trades, month)
			if len(curve) != len(trades) {
				return false
			}
			return math.Abs(curve[len(curve)-1].Equity-NetPnL(trades)) < 1e-6
		},
		gen.SliceOf(gen.Float64Range(-10000, 10000)),
	))

	properties.TestingRun(t)
}
