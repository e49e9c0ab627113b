package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	phrase     string
	label      LabelResult
	verdict    Verdict
	err        error
	labelCalls int
}

func (p *stubProvider) BridgeSubmission(_ context.Context, _, _ ImageItem) (string, error) {
	return p.phrase, p.err
}

func (p *stubProvider) IntersectionLabel(_ context.Context, _, _ ImageItem, _ []Submission) (LabelResult, error) {
	p.labelCalls++
	return p.label, p.err
}

func (p *stubProvider) ModeratorVerdict(_ context.Context, _, _ ImageItem, _ []Submission, _ ModeratorTone) (Verdict, error) {
	return p.verdict, p.err
}

func soloGameInRound(t *testing.T) (*Game, *fakeClock, Player, Player) {
	t.Helper()
	s := DefaultSettings()
	s.MaxTimer = 30
	g, c := newTestGame(t, s)
	human, err := g.AddPlayer("", "Ida", "🦉", "")
	require.NoError(t, err)
	bot, err := g.AddSimulatedPlayer()
	require.NoError(t, err)
	require.NoError(t, g.StartMatch())
	return g, c, *human, *bot
}

func TestBotDriverSubmitsDuringRound(t *testing.T) {
	g, _, _, bot := soloGameInRound(t)
	d := &BotDriver{game: g, provider: &stubProvider{phrase: "tidal skyline"}, timeout: time.Second}

	ev := Event{Kind: EventRoundStarted, Epoch: g.Epoch(), BotIDs: []string{bot.ID}}
	d.play(ev, bot.ID)

	subs := g.Snapshot().Submissions
	require.Len(t, subs, 1)
	assert.Equal(t, bot.ID, subs[0].PlayerID)
	assert.Equal(t, "tidal skyline", subs[0].Content)
}

func TestBotDriverFallsBackOnProviderError(t *testing.T) {
	g, _, _, bot := soloGameInRound(t)
	d := &BotDriver{game: g, provider: &stubProvider{err: errors.New("model offline")}, timeout: time.Second}

	d.play(Event{Kind: EventRoundStarted, Epoch: g.Epoch()}, bot.ID)

	subs := g.Snapshot().Submissions
	require.Len(t, subs, 1)
	assert.Equal(t, botFallbackPhrase, subs[0].Content)
}

func TestBotDriverDiscardsStaleCompletion(t *testing.T) {
	g, _, _, bot := soloGameInRound(t)
	d := &BotDriver{game: g, provider: &stubProvider{phrase: "late to the party"}, timeout: time.Second}

	d.play(Event{Kind: EventRoundStarted, Epoch: g.Epoch() - 1}, bot.ID)

	assert.Empty(t, g.Snapshot().Submissions, "stale completion must not be recorded")
}

func TestBotDriverDiscardsDuplicate(t *testing.T) {
	g, _, _, bot := soloGameInRound(t)
	require.NoError(t, g.Submit(bot.ID, "first thought", SubmissionText))
	d := &BotDriver{game: g, provider: &stubProvider{phrase: "second thought"}, timeout: time.Second}

	d.play(Event{Kind: EventRoundStarted, Epoch: g.Epoch()}, bot.ID)

	subs := g.Snapshot().Submissions
	require.Len(t, subs, 1)
	assert.Equal(t, "first thought", subs[0].Content)
}

func TestBotDriverPlaysEndToEnd(t *testing.T) {
	s := DefaultSettings()
	s.MaxTimer = 30
	g, err := NewGame(s)
	require.NoError(t, err)
	_, err = g.AddPlayer("", "Ida", "🦉", "")
	require.NoError(t, err)
	bot, err := g.AddSimulatedPlayer()
	require.NoError(t, err)

	d := NewBotDriver(g, &stubProvider{phrase: "tidal skyline"})
	d.minDelay = 0
	d.maxDelay = 0

	require.NoError(t, g.StartMatch())

	assert.Eventually(t, func() bool {
		for _, s := range g.Snapshot().Submissions {
			if s.PlayerID == bot.ID {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond, "bot should submit shortly after the round starts")
}

func driveToResults(t *testing.T, g *Game, c *fakeClock, human, bot Player) {
	t.Helper()
	require.NoError(t, g.Submit(human.ID, "ocean city", SubmissionText))
	require.NoError(t, g.Submit(bot.ID, "tidal skyline", SubmissionText))
	tickThrough(g, c, 5*time.Second, 100*time.Millisecond)
	require.Equal(t, PhaseResults, g.Phase())
}

func TestNarratorAppliesLabel(t *testing.T) {
	g, c, human, bot := soloGameInRound(t)
	p := &stubProvider{label: LabelResult{Label: "Urban Tides", Clusters: map[string][]string{"water": {human.ID, bot.ID}}}}
	n := &Narrator{game: g, provider: p, timeout: time.Second}
	driveToResults(t, g, c, human, bot)

	n.narrate(Event{
		Kind:        EventResultsOpen,
		Epoch:       g.Epoch(),
		Submissions: g.Snapshot().Submissions,
	})

	snap := g.Snapshot()
	assert.Equal(t, "Urban Tides", snap.IntersectionLabel)
	assert.Equal(t, []string{human.ID, bot.ID}, snap.Clusters["water"])
}

func TestNarratorLabelFallback(t *testing.T) {
	g, c, human, bot := soloGameInRound(t)
	n := &Narrator{game: g, provider: &stubProvider{err: errors.New("model offline")}, timeout: time.Second}
	driveToResults(t, g, c, human, bot)

	n.narrate(Event{
		Kind:        EventResultsOpen,
		Epoch:       g.Epoch(),
		Submissions: g.Snapshot().Submissions,
	})

	snap := g.Snapshot()
	assert.Equal(t, "Creative Chaos", snap.IntersectionLabel)
	assert.Equal(t, []string{human.ID, bot.ID}, snap.Clusters["Submissions"],
		"fallback groups every submission into one cluster")
}

func TestNarratorVerdictForModeratedRound(t *testing.T) {
	g, c, human, bot := soloGameInRound(t)
	p := &stubProvider{
		label:   LabelResult{Label: "Urban Tides"},
		verdict: Verdict{Scores: map[string]int{human.ID: 8, bot.ID: 3}, Reasoning: "sharper imagery", WinnerID: human.ID},
	}
	n := &Narrator{game: g, provider: p, timeout: time.Second}
	driveToResults(t, g, c, human, bot)

	n.narrate(Event{
		Kind:        EventResultsOpen,
		Epoch:       g.Epoch(),
		Submissions: g.Snapshot().Submissions,
		WantVerdict: true,
		Tone:        ToneFunny,
	})

	require.NoError(t, g.FinishRound())
	for _, p := range g.Players() {
		switch p.ID {
		case human.ID:
			assert.Equal(t, 8, p.Score)
		case bot.ID:
			assert.Equal(t, 3, p.Score)
		}
	}
}

func TestNarratorVerdictFallback(t *testing.T) {
	g, c, human, bot := soloGameInRound(t)
	n := &Narrator{game: g, provider: &stubProvider{err: errors.New("model offline")}, timeout: time.Second}
	driveToResults(t, g, c, human, bot)

	n.narrate(Event{
		Kind:        EventResultsOpen,
		Epoch:       g.Epoch(),
		Submissions: g.Snapshot().Submissions,
		WantVerdict: true,
		Tone:        ToneSerious,
	})

	v := g.Snapshot().Verdict
	require.NotNil(t, v)
	assert.Equal(t, 5, v.Scores[human.ID], "fallback verdict scores everyone mid-range")
	assert.Equal(t, 5, v.Scores[bot.ID])
	assert.Equal(t, human.ID, v.WinnerID, "first submitter wins the fallback verdict")
}

func TestNarratorSkipsEmptyRounds(t *testing.T) {
	g, _ := newTestGame(t, DefaultSettings())
	p := &stubProvider{label: LabelResult{Label: "unused"}}
	n := &Narrator{game: g, provider: p, timeout: time.Second}

	n.handle(Event{Kind: EventResultsOpen, Submissions: nil})

	assert.Zero(t, p.labelCalls, "no commentary without submissions")
}
