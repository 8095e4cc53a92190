package models

import (
	"time"

	"github.com/google/uuid"
)

// ChallengeStatus represents the lifecycle state of a growth challenge.
type ChallengeStatus string

const (
	ChallengeActive    ChallengeStatus = "active"
	ChallengeCompleted ChallengeStatus = "completed"
)

// GrowthChallenge is a capital-growth goal: grow StartingCapital into
// TargetCapital. CurrentCapital is derived (starting capital plus aggregate net
// P&L) and stored only as a convenience snapshot.
type GrowthChallenge struct {
	ID              string
	Title           string
	StartingCapital float64
	TargetCapital   float64
	CurrentCapital  float64
	StartDate       time.Time
	EndDate         time.Time
	Status          ChallengeStatus
}

// NewDefaultChallenge returns the initial milestone a fresh account starts with.
func NewDefaultChallenge() GrowthChallenge {
	return GrowthChallenge{
		ID:              uuid.NewString(),
		Title:           "10L Professional Milestone",
		StartingCapital: 500000,
		TargetCapital:   1000000,
		CurrentCapital:  500000,
		StartDate:       time.Now(),
		Status:          ChallengeActive,
	}
}

// Active reports whether the challenge is still in progress.
func (c GrowthChallenge) Active() bool {
	return c.Status == ChallengeActive
}
