package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"trading-diary/internal/models"
)

// Property: for any valid trade, saving it and reading it back produces an
// equivalent trade (round-trip consistency through the SQLite layer).
func TestProperty_TradeRoundTripConsistency(t *testing.T) {
	dbPath := "test_trades_property.db"
	defer os.Remove(dbPath)

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	user := &models.User{Email: "property@example.com", PasswordHash: "x"}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	symbols := []string{"RELIANCE", "TCS", "INFY", "HDFC", "ICICI", "SBIN", "BHARTI", "ITC"}
	setups := []string{"Breakout", "Scalp", "Support/Resistance", ""}
	feelings := []string{"Calm", "Anxious", "FOMO", "Confident"}

	typeGen := gen.OneConstOf(models.Long, models.Short)
	assetGen := gen.OneConstOf(models.Stocks, models.Options, models.Futures, models.Forex, models.Crypto)
	priceGen := gen.Float64Range(1.0, 50000.0)
	qtyGen := gen.Float64Range(1.0, 10000.0)
	pnlGen := gen.Float64Range(-100000.0, 100000.0)

	properties.Property("Trade round-trip: save then get produces equivalent data", prop.ForAll(
		func(symbolIdx, setupIdx, feelingIdx int, tradeType models.TradeType, asset models.AssetClass,
			entryPrice, quantity, pnl float64, closed, followed bool) bool {
			trade := models.NewTrade()
			trade.Symbol = symbols[symbolIdx%len(symbols)]
			trade.Type = tradeType
			trade.AssetClass = asset
			trade.EntryPrice = roundPrice(entryPrice)
			trade.Quantity = quantity
			trade.PnL = roundPrice(pnl)
			trade.Setup = setups[setupIdx%len(setups)]
			trade.Feeling = feelings[feelingIdx%len(feelings)]
			trade.FollowedSetup = followed
			if closed {
				trade.ExitDate = trade.EntryDate.Add(time.Hour)
				trade.ExitPrice = roundPrice(entryPrice * 1.02)
			}

			id, err := store.SaveTrade(ctx, user.ID, &trade)
			if err != nil {
				t.Logf("Failed to save trade: %v", err)
				return false
			}

			got, err := store.GetTrade(ctx, user.ID, id)
			if err != nil {
				t.Logf("Failed to get trade: %v", err)
				return false
			}

			if got.Symbol != trade.Symbol || got.Type != trade.Type || got.AssetClass != trade.AssetClass {
				t.Logf("Identity mismatch: original=%+v, retrieved=%+v", trade, got)
				return false
			}
			if !floatEqual(got.EntryPrice, trade.EntryPrice, 0.01) ||
				!floatEqual(got.Quantity, trade.Quantity, 0.01) ||
				!floatEqual(got.PnL, trade.PnL, 0.01) {
				t.Logf("Numeric mismatch: original=%+v, retrieved=%+v", trade, got)
				return false
			}
			if got.Setup != trade.Setup || got.Feeling != trade.Feeling || got.FollowedSetup != followed {
				return false
			}
			if got.Closed() != closed {
				t.Logf("Closed mismatch: expected %v, exit=%v", closed, got.ExitDate)
				return false
			}
			return true
		},
		gen.IntRange(0, len(symbols)-1),
		gen.IntRange(0, len(setups)-1),
		gen.IntRange(0, len(feelings)-1),
		typeGen,
		assetGen,
		priceGen,
		qtyGen,
		pnlGen,
		gen.Bool(),
		gen.Bool(),
	))

	// Delete is idempotent: removing a trade any number of times succeeds and
	// leaves it unretrievable.
	properties.Property("Delete idempotence: repeated deletes succeed", prop.ForAll(
		func(repeats int) bool {
			trade := models.NewTrade()
			trade.Symbol = "DEL"
			id, err := store.SaveTrade(ctx, user.ID, &trade)
			if err != nil {
				return false
			}
			for i := 0; i < repeats; i++ {
				if err := store.DeleteTrade(ctx, user.ID, id); err != nil {
					t.Logf("Delete attempt %d failed: %v", i+1, err)
					return false
				}
			}
			_, err = store.GetTrade(ctx, user.ID, id)
			return err != nil
		},
		gen.IntRange(1, 4),
	))

	properties.TestingRun(t)
}

func roundPrice(v float64) float64 {
	return float64(int64(v*100)) / 100
}

func floatEqual(a, b, tolerance float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}
