package game

import (
	"time"
)

type Phase string

const (
	PhaseLobby           Phase = "Lobby"
	PhaseSetup           Phase = "Setup"
	PhaseRoundTransition Phase = "RoundTransition"
	PhaseRound           Phase = "Round"
	PhaseReveal          Phase = "Reveal"
	PhaseResults         Phase = "Results"
	PhaseFinalResults    Phase = "FinalResults"
)

type ScoringMode string

const (
	ScoringCompetitive ScoringMode = "competitive"
	ScoringCasual      ScoringMode = "casual"
)

type ModeratorTone string

const (
	ToneFunny   ModeratorTone = "funny"
	ToneSerious ModeratorTone = "serious"
)

type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	Color    string    `json:"color"`
	IsHost   bool      `json:"isHost"`
	IsReady  bool      `json:"isReady"`
	IsAI     bool      `json:"isAI"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"joinedAt"`
}

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaGIF   MediaKind = "gif"
	MediaVideo MediaKind = "video"
)

type ImageItem struct {
	ID    string    `json:"id"`
	URL   string    `json:"url"`
	Title string    `json:"title"`
	Tags  []string  `json:"tags"`
	Kind  MediaKind `json:"kind"`
}

type SubmissionKind string

const (
	SubmissionText  SubmissionKind = "text"
	SubmissionGIF   SubmissionKind = "gif"
	SubmissionImage SubmissionKind = "image"
	SubmissionVideo SubmissionKind = "video"
)

// Submission is a player's bridge between the two images of a round.
// Submissions are keyed by author: a player submits at most once per round.
type Submission struct {
	PlayerID    string         `json:"playerId"`
	Content     string         `json:"content"`
	Kind        SubmissionKind `json:"type"`
	SubmittedAt time.Time      `json:"timestamp"`
}

// Vote targets a submission by its author's player id.
type Vote struct {
	VoterID  string `json:"voterId"`
	TargetID string `json:"targetSubmissionId"`
}

// Verdict is an external moderator judgment. When present for a round it
// replaces the peer vote tally as the scoring source.
type Verdict struct {
	Scores    map[string]int `json:"scores"`
	Reasoning string         `json:"reasoning"`
	WinnerID  string         `json:"winnerId"`
}

// LabelResult is the AI-generated description of the image intersection,
// with player submissions grouped into clusters of similar ideas.
type LabelResult struct {
	Label    string              `json:"label"`
	Clusters map[string][]string `json:"clusters,omitempty"`
}
