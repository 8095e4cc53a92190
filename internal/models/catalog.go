package models

// DefaultFeeling is the mood a new trade starts with.
const DefaultFeeling = "Calm"

// SetupTypes are the built-in setup labels. Users extend these with custom
// setups stored in their profile.
var SetupTypes = []string{
	"Breakout",
	"Scalp",
	"Support/Resistance",
}

// CommonMistakes are the built-in mistake tags.
var CommonMistakes = []string{
	"FOMO",
	"Revenge Trading",
	"Overleveraged",
	"Impatience",
	"Did not follow plan",
	"Hope Trading",
	"Moved Stop Loss",
}

// Feelings are the managed mood labels a trade can carry.
var Feelings = []string{
	"Calm",
	"Confident",
	"Fearful",
	"Greedy",
	"Anxious",
	"Excited",
	"Frustrated",
	"Bored",
}

// DefaultRules are the trading rules a fresh profile starts with.
var DefaultRules = []string{
	"Stick to the trading plan",
	"Risk no more than 1% per trade",
	"Wait for setup confirmation",
	"No trading during high-impact news",
}

// IsBuiltinSetup reports whether name is one of the built-in setup labels.
func IsBuiltinSetup(name string) bool {
	for _, s := range SetupTypes {
		if s == name {
			return true
		}
	}
	return false
}

// ValidFeeling reports whether name is one of the managed mood labels.
func ValidFeeling(name string) bool {
	for _, f := range Feelings {
		if f == name {
			return true
		}
	}
	return false
}
