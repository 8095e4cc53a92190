package models

import "time"

// Profile holds a user's journal settings and challenge state.
type Profile struct {
	UserID              string            `json:"userId"`
	Challenge           *GrowthChallenge  `json:"challenge,omitempty"`
	CompletedChallenges []GrowthChallenge `json:"completedChallenges"`
	CustomSetups        []string          `json:"customSetups"`
	CustomRules         []string          `json:"customRules"`
	CustomMistakes      []string          `json:"customMistakes"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// NewProfile returns a profile seeded with the default challenge and rules.
func NewProfile(userID string) *Profile {
	c := NewDefaultChallenge()
	return &Profile{
		UserID:              userID,
		Challenge:           &c,
		CompletedChallenges: []GrowthChallenge{},
		CustomSetups:        []string{},
		CustomRules:         append([]string{}, DefaultRules...),
		CustomMistakes:      append([]string{}, CommonMistakes...),
		UpdatedAt:           time.Now(),
	}
}

// Setups returns the built-in setup types followed by the user's custom setups.
func (p *Profile) Setups() []string {
	out := append([]string{}, SetupTypes...)
	return append(out, p.CustomSetups...)
}

// User represents an authenticated journal owner.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
