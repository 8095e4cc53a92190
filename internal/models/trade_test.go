package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTradeDefaults(t *testing.T) {
	tr := NewTrade()

	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, Long, tr.Type)
	assert.Equal(t, Stocks, tr.AssetClass)
	assert.Equal(t, DefaultFeeling, tr.Feeling)
	assert.True(t, tr.FollowedSetup)
	assert.False(t, tr.Closed())
	assert.False(t, tr.EntryDate.IsZero())
}

func TestNewTradeIDsAreUnique(t *testing.T) {
	a := NewTrade()
	b := NewTrade()
	assert.NotEqual(t, a.ID, b.ID)
}

func TestClosedAndWin(t *testing.T) {
	tr := NewTrade()
	assert.False(t, tr.Closed())

	tr.ExitDate = time.Now()
	tr.PnL = 150
	assert.True(t, tr.Closed())
	assert.True(t, tr.Win())

	tr.PnL = 0
	assert.False(t, tr.Win(), "break-even is not a win")

	tr.PnL = -10
	assert.False(t, tr.Win())
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "RELIANCE", NormalizeSymbol("  reliance "))
	assert.Equal(t, "BTCUSD", NormalizeSymbol("btcusd"))
	assert.Equal(t, "", NormalizeSymbol("   "))
}

func TestParseTradeType(t *testing.T) {
	cases := map[string]TradeType{
		"long":  Long,
		"LONG":  Long,
		"buy":   Long,
		"short": Short,
		"Sell":  Short,
	}
	for raw, want := range cases {
		got, ok := ParseTradeType(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, got)
	}

	_, ok := ParseTradeType("sideways")
	assert.False(t, ok)
}

func TestParseAssetClass(t *testing.T) {
	got, ok := ParseAssetClass("crypto")
	require.True(t, ok)
	assert.Equal(t, Crypto, got)

	got, ok = ParseAssetClass(" Futures ")
	require.True(t, ok)
	assert.Equal(t, Futures, got)

	_, ok = ParseAssetClass("bonds")
	assert.False(t, ok)
}

func TestIsBuiltinSetup(t *testing.T) {
	assert.True(t, IsBuiltinSetup("Breakout"))
	assert.True(t, IsBuiltinSetup("Support/Resistance"))
	assert.False(t, IsBuiltinSetup("My Custom Setup"))
}

func TestNewProfileSeedsDefaults(t *testing.T) {
	p := NewProfile("user-1")

	require.NotNil(t, p.Challenge)
	assert.Equal(t, ChallengeActive, p.Challenge.Status)
	assert.Empty(t, p.CompletedChallenges)
	assert.Empty(t, p.CustomSetups)
	assert.Equal(t, DefaultRules, p.CustomRules)
	assert.Equal(t, CommonMistakes, p.CustomMistakes)
}

func TestProfileSetupsCombinesBuiltinAndCustom(t *testing.T) {
	p := NewProfile("user-1")
	p.CustomSetups = []string{"Gap Fill"}

	setups := p.Setups()
	assert.Equal(t, append(append([]string{}, SetupTypes...), "Gap Fill"), setups)

	// Returned slice is a copy; mutating it must not touch the catalog
	setups[0] = "mutated"
	assert.Equal(t, "Breakout", SetupTypes[0])
}
