package game

import (
	"errors"
	"fmt"
)

const maxTopics = 5

// RoundChoices are the round counts offered by the setup flow. Validation
// only requires a positive count so trimmed-down matches stay possible.
var RoundChoices = []int{3, 5, 8, 12}

// Settings is the per-match rule snapshot. It is validated once when the
// match is configured and never mutated afterwards.
type Settings struct {
	MaxRounds     int           `json:"maxRounds"`
	MaxTimer      int           `json:"maxTimer"` // seconds per round
	ScoringMode   ScoringMode   `json:"scoringMode"`
	ModeratorTone ModeratorTone `json:"moderatorTone"`
	Topics        []string      `json:"topics,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		MaxRounds:     5,
		MaxTimer:      60,
		ScoringMode:   ScoringCompetitive,
		ModeratorTone: ToneFunny,
	}
}

var ErrInvalidSettings = errors.New("invalid settings")

func (s Settings) Validate() error {
	if s.MaxRounds <= 0 {
		return fmt.Errorf("%w: maxRounds must be positive (got %d)", ErrInvalidSettings, s.MaxRounds)
	}
	if s.MaxTimer <= 0 {
		return fmt.Errorf("%w: maxTimer must be positive (got %d)", ErrInvalidSettings, s.MaxTimer)
	}
	switch s.ScoringMode {
	case ScoringCompetitive, ScoringCasual:
	default:
		return fmt.Errorf("%w: unknown scoring mode %q", ErrInvalidSettings, s.ScoringMode)
	}
	switch s.ModeratorTone {
	case ToneFunny, ToneSerious:
	default:
		return fmt.Errorf("%w: unknown moderator tone %q", ErrInvalidSettings, s.ModeratorTone)
	}
	if len(s.Topics) > maxTopics {
		return fmt.Errorf("%w: at most %d topics (got %d)", ErrInvalidSettings, maxTopics, len(s.Topics))
	}
	return nil
}
