// Package profile persists a player's identity and match history
// across server restarts.
package profile

import "errors"

var ErrNotFound = errors.New("profile not found")

type MatchResult struct {
	RoomCode    string `json:"roomCode"`
	PlayedAt    string `json:"playedAt"`
	Rounds      int    `json:"rounds"`
	Score       int    `json:"score"`
	Placement   int    `json:"placement"`
	PlayerCount int    `json:"playerCount"`
	ScoringMode string `json:"scoringMode"`
}

type Profile struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Avatar  string        `json:"avatar"`
	Color   string        `json:"color"`
	History []MatchResult `json:"history"`
}

// Store loads and saves profiles. Load returns ErrNotFound when no
// profile exists for the id.
type Store interface {
	Load(id string) (Profile, error)
	Save(p Profile) error
}
