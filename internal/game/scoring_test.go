package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func scoringPlayers(ids ...string) []*Player {
	out := make([]*Player, 0, len(ids))
	for _, id := range ids {
		out = append(out, &Player{ID: id, Name: id})
	}
	return out
}

func sub(playerID string, at int) Submission {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return Submission{
		PlayerID:    playerID,
		Content:     "bridge by " + playerID,
		Kind:        SubmissionText,
		SubmittedAt: base.Add(time.Duration(at) * time.Second),
	}
}

func TestResolveRoundVotePolicy(t *testing.T) {
	players := scoringPlayers("a", "b", "c")
	subs := []Submission{sub("a", 2), sub("b", 5), sub("c", 8)}
	votes := []Vote{
		{VoterID: "a", TargetID: "b"},
		{VoterID: "c", TargetID: "b"},
		{VoterID: "b", TargetID: "a"},
	}

	deltas := resolveRound(players, subs, votes, nil, ScoringCompetitive)

	assert.Equal(t, map[string]int{"a": 2, "b": 5, "c": 0}, deltas)
}

func TestResolveRoundBonusesStack(t *testing.T) {
	players := scoringPlayers("a", "b")
	subs := []Submission{sub("a", 2), sub("b", 5)}
	votes := []Vote{{VoterID: "b", TargetID: "a"}}

	deltas := resolveRound(players, subs, votes, nil, ScoringCompetitive)

	assert.Equal(t, 7, deltas["a"], "winner and fastest bonuses are additive")
	assert.Equal(t, 0, deltas["b"])
}

func TestResolveRoundTieBreakIsSubmissionOrder(t *testing.T) {
	players := scoringPlayers("a", "b", "c", "d")
	// b submitted before a, so b takes the tied win even though a's vote
	// arrived first
	subs := []Submission{sub("b", 1), sub("a", 3), sub("c", 4), sub("d", 6)}
	votes := []Vote{
		{VoterID: "c", TargetID: "a"},
		{VoterID: "d", TargetID: "b"},
	}

	deltas := resolveRound(players, subs, votes, nil, ScoringCompetitive)

	assert.Equal(t, 5+2, deltas["b"], "earliest-inserted author wins ties, plus fastest")
	assert.Equal(t, 0, deltas["a"])

	// deterministic under repetition
	for i := 0; i < 10; i++ {
		again := resolveRound(players, subs, votes, nil, ScoringCompetitive)
		assert.Equal(t, deltas, again)
	}
}

func TestResolveRoundVerdictPolicy(t *testing.T) {
	players := scoringPlayers("a", "b", "c")
	subs := []Submission{sub("a", 2), sub("b", 5)}
	// votes would give b the win; the verdict overrides everything
	votes := []Vote{{VoterID: "a", TargetID: "b"}, {VoterID: "c", TargetID: "b"}}
	verdict := &Verdict{Scores: map[string]int{"a": 8, "b": 3}, WinnerID: "a"}

	deltas := resolveRound(players, subs, votes, verdict, ScoringCompetitive)

	assert.Equal(t, map[string]int{"a": 8, "b": 3, "c": 0}, deltas)
}

func TestResolveRoundCasualMode(t *testing.T) {
	players := scoringPlayers("a", "b")
	subs := []Submission{sub("b", 1), sub("a", 3)}
	// stray votes in casual mode carry no weight
	votes := []Vote{{VoterID: "a", TargetID: "b"}}

	deltas := resolveRound(players, subs, votes, nil, ScoringCasual)

	assert.Equal(t, map[string]int{"a": 0, "b": 2}, deltas, "casual rounds award only the fastest bonus")
}

func TestResolveRoundNoSubmissions(t *testing.T) {
	players := scoringPlayers("a", "b")

	deltas := resolveRound(players, nil, nil, nil, ScoringCompetitive)

	assert.Equal(t, map[string]int{"a": 0, "b": 0}, deltas)
}
