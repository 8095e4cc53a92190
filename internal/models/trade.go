// Package models provides domain models for the trading diary.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TradeType represents the direction of a trade.
type TradeType string

const (
	Long  TradeType = "Long"
	Short TradeType = "Short"
)

// AssetClass represents the asset class of the traded instrument.
type AssetClass string

const (
	Crypto  AssetClass = "Crypto"
	Forex   AssetClass = "Forex"
	Stocks  AssetClass = "Stocks"
	Futures AssetClass = "Futures"
	Options AssetClass = "Options"
)

// AssetClasses lists every valid asset class.
var AssetClasses = []AssetClass{Crypto, Forex, Stocks, Futures, Options}

// Trade represents a single journaled trade. A trade with a zero ExitDate is an
// open position; only closed trades contribute to performance statistics.
type Trade struct {
	ID         string
	EntryDate  time.Time
	ExitDate   time.Time
	Symbol     string
	Type       TradeType
	AssetClass AssetClass
	EntryPrice float64
	ExitPrice  float64
	Quantity   float64
	Fees       float64
	PnL        float64

	// Journaling metadata
	Setup         string
	Mistakes      []string
	FollowedSetup bool
	EntryReason   string
	Feeling       string
	LessonLearned string
	Tags          []string
	Screenshot    string // base64 data URL
	Notes         string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTrade returns a trade with construction defaults: a fresh identifier, entry
// time of now, no exit, direction Long, asset class Stocks and the default feeling.
func NewTrade() Trade {
	now := time.Now()
	return Trade{
		ID:            uuid.NewString(),
		EntryDate:     now,
		Type:          Long,
		AssetClass:    Stocks,
		Feeling:       DefaultFeeling,
		FollowedSetup: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Closed reports whether the position has been exited.
func (t Trade) Closed() bool {
	return !t.ExitDate.IsZero()
}

// Win reports whether the trade closed with a positive net P&L.
func (t Trade) Win() bool {
	return t.PnL > 0
}

// NormalizeSymbol upper-cases and trims a free-text symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ParseTradeType parses a direction string, accepting any casing.
func ParseTradeType(s string) (TradeType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long", "buy":
		return Long, true
	case "short", "sell":
		return Short, true
	}
	return "", false
}

// ParseAssetClass parses an asset class string, accepting any casing.
func ParseAssetClass(s string) (AssetClass, bool) {
	for _, ac := range AssetClasses {
		if strings.EqualFold(strings.TrimSpace(s), string(ac)) {
			return ac, true
		}
	}
	return "", false
}
