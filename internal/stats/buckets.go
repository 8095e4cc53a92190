package stats

import (
	"sort"
	"time"

	"trading-diary/internal/models"
)

// UnknownSetup is the bucket label for closed trades without a setup.
const UnknownSetup = "Unknown"

// WeekdayStat is the win rate for a single calendar weekday.
type WeekdayStat struct {
	Day     time.Weekday
	Trades  int
	Wins    int
	WinRate float64 // percent, 0 when the weekday has no trades
}

// WeekBucket is the summed P&L of one week, keyed by the Monday starting it.
type WeekBucket struct {
	WeekStart time.Time
	PnL       float64
}

// EquityPoint is one step of a month's cumulative P&L curve.
type EquityPoint struct {
	Date   time.Time
	PnL    float64
	Equity float64
}

// SetupPnL is the total P&L attributed to one setup label.
type SetupPnL struct {
	Name string
	PnL  float64
}

// SetupStats is the detailed per-setup breakdown used by the setup manager.
type SetupStats struct {
	Name         string
	Trades       int
	PnL          float64
	WinRate      float64
	ProfitFactor float64 // gross profit / gross loss; +Inf when loss-free and profitable
	AvgPnL       float64
}

// WinRateByWeekday buckets closed trades into calendar weekdays by exit date.
// Monday through Friday always appear in the result; Saturday and Sunday are
// included only when they carry trades, keeping the weekday table stable.
func WinRateByWeekday(trades []models.Trade) []WeekdayStat {
	counts := make(map[time.Weekday]*WeekdayStat, 7)
	for _, t := range Closed(trades) {
		day := t.ExitDate.Weekday()
		st := counts[day]
		if st == nil {
			st = &WeekdayStat{Day: day}
			counts[day] = st
		}
		st.Trades++
		if t.Win() {
			st.Wins++
		}
	}

	order := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
	out := make([]WeekdayStat, 0, 7)
	for _, day := range order {
		st := counts[day]
		weekend := day == time.Saturday || day == time.Sunday
		if st == nil {
			if weekend {
				continue
			}
			out = append(out, WeekdayStat{Day: day})
			continue
		}
		st.WinRate = float64(st.Wins) / float64(st.Trades) * 100
		out = append(out, *st)
	}
	return out
}

// WeekStart returns the Monday beginning the week containing d, at midnight in
// d's location. A Sunday rolls back six days to the preceding Monday.
func WeekStart(d time.Time) time.Time {
	offset := int(d.Weekday()) - int(time.Monday)
	if d.Weekday() == time.Sunday {
		offset = 6
	}
	monday := d.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, d.Location())
}

// WeeklyPnL groups the month's closed trades into week buckets keyed by the
// Monday starting each week, summing net P&L per bucket. Buckets come back in
// chronological order.
func WeeklyPnL(trades []models.Trade, month time.Time) []WeekBucket {
	sums := make(map[time.Time]float64)
	for _, t := range inMonth(Closed(trades), month) {
		sums[WeekStart(t.ExitDate)] += t.PnL
	}

	out := make([]WeekBucket, 0, len(sums))
	for start, pnl := range sums {
		out = append(out, WeekBucket{WeekStart: start, PnL: pnl})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].WeekStart.Before(out[j].WeekStart)
	})
	return out
}

// EquityCurve produces the month's running cumulative P&L, one point per closed
// trade in exit order. The cumulative sum restarts at zero for each month.
func EquityCurve(trades []models.Trade, month time.Time) []EquityPoint {
	monthTrades := inMonth(Closed(trades), month)
	out := make([]EquityPoint, 0, len(monthTrades))
	var cumulative float64
	for _, t := range monthTrades {
		cumulative += t.PnL
		out = append(out, EquityPoint{Date: t.ExitDate, PnL: t.PnL, Equity: cumulative})
	}
	return out
}

// PnLBySetup sums P&L of all closed trades per setup label, bucketing trades
// without a setup under UnknownSetup. Sorted descending by P&L.
func PnLBySetup(trades []models.Trade) []SetupPnL {
	sums := make(map[string]float64)
	for _, t := range Closed(trades) {
		name := t.Setup
		if name == "" {
			name = UnknownSetup
		}
		sums[name] += t.PnL
	}

	out := make([]SetupPnL, 0, len(sums))
	for name, pnl := range sums {
		out = append(out, SetupPnL{Name: name, PnL: pnl})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PnL != out[j].PnL {
			return out[i].PnL > out[j].PnL
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// SetupReport computes the detailed breakdown for each named setup over the
// closed trades carrying that label, sorted descending by total P&L. Setups
// with no trades still appear, zero-valued, so the manager view stays stable.
func SetupReport(trades []models.Trade, setups []string) []SetupStats {
	closed := Closed(trades)

	out := make([]SetupStats, 0, len(setups))
	for _, name := range setups {
		st := SetupStats{Name: name}
		var wins int
		var grossProfit, grossLoss float64
		for _, t := range closed {
			if t.Setup != name {
				continue
			}
			st.Trades++
			st.PnL += t.PnL
			if t.Win() {
				wins++
				grossProfit += t.PnL
			} else if t.PnL < 0 {
				grossLoss += -t.PnL
			}
		}
		if st.Trades > 0 {
			st.WinRate = float64(wins) / float64(st.Trades) * 100
			st.AvgPnL = st.PnL / float64(st.Trades)
		}
		st.ProfitFactor = ratio(grossProfit, grossLoss)
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PnL > out[j].PnL
	})
	return out
}
