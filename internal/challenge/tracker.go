// Package challenge tracks progress of a capital-growth goal against journaled
// trades and handles the archive-and-reset transition between milestones.
package challenge

import (
	"time"

	"github.com/google/uuid"

	"trading-diary/internal/models"
	"trading-diary/internal/stats"
)

// nextTitle is the title a freshly rolled-over milestone starts with.
const nextTitle = "Next Professional Milestone"

// Progress is the derived state of a challenge against the current trade list.
type Progress struct {
	CurrentCapital float64
	Percent        float64 // clamped to [0, 100]
	GoalReached    bool
}

// Compute derives current capital and progress for a challenge. Current capital
// is starting capital plus the aggregate net P&L of all closed trades. Progress
// is clamped to [0, 100]; a zero or negative gap between target and starting
// capital yields 0%.
func Compute(c models.GrowthChallenge, trades []models.Trade) Progress {
	current := c.StartingCapital + stats.NetPnL(trades)
	gap := c.TargetCapital - c.StartingCapital

	var percent float64
	if gap > 0 {
		percent = (current - c.StartingCapital) / gap * 100
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}
	}

	return Progress{
		CurrentCapital: current,
		Percent:        percent,
		GoalReached:    percent >= 100,
	}
}

// Edit holds the mutable fields of an active challenge.
type Edit struct {
	Title           string
	StartingCapital float64
	TargetCapital   float64
}

// Apply replaces the mutable fields of an active challenge. History and
// lifecycle state are untouched.
func Apply(c models.GrowthChallenge, e Edit) models.GrowthChallenge {
	c.Title = e.Title
	c.StartingCapital = e.StartingCapital
	c.TargetCapital = e.TargetCapital
	return c
}

// Archive retires a completed challenge and rolls over to the next milestone.
// The archived copy gets status completed and an end date of now; the new
// active challenge compounds: its starting capital is the old target and its
// target doubles that.
//
// Callers must have established that progress reached 100% - Archive does not
// re-validate the precondition.
func Archive(c models.GrowthChallenge, now time.Time) (archived, next models.GrowthChallenge) {
	archived = c
	archived.Status = models.ChallengeCompleted
	archived.EndDate = now

	next = models.GrowthChallenge{
		ID:              uuid.NewString(),
		Title:           nextTitle,
		StartingCapital: c.TargetCapital,
		TargetCapital:   c.TargetCapital * 2,
		CurrentCapital:  c.TargetCapital,
		StartDate:       now,
		Status:          models.ChallengeActive,
	}
	return archived, next
}
