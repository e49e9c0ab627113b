package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// NarratorProvider computes the round commentary: the label for the image
// intersection and, on moderated rounds, the verdict that replaces peer
// voting.
type NarratorProvider interface {
	IntersectionLabel(ctx context.Context, a, b ImageItem, subs []Submission) (LabelResult, error)
	ModeratorVerdict(ctx context.Context, a, b ImageItem, subs []Submission, tone ModeratorTone) (Verdict, error)
}

// Narrator requests round commentary when the results phase opens. The
// engine emits that event exactly once per round, and the write-back is
// epoch-checked, so a slow or failing collaborator can neither block phase
// progression nor label the wrong round.
type Narrator struct {
	game     *Game
	provider NarratorProvider
	timeout  time.Duration
}

func NewNarrator(g *Game, p NarratorProvider) *Narrator {
	n := &Narrator{game: g, provider: p, timeout: 15 * time.Second}
	g.Subscribe(n.handle)
	return n
}

func (n *Narrator) handle(ev Event) {
	if ev.Kind != EventResultsOpen || len(ev.Submissions) == 0 {
		return
	}
	go n.narrate(ev)
}

func (n *Narrator) narrate(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	res, err := n.provider.IntersectionLabel(ctx, ev.Images[0], ev.Images[1], ev.Submissions)
	if err != nil || res.Label == "" {
		if err != nil {
			log.Warn().Err(err).Int("round", ev.Round).Msg("intersection label fell back")
		}
		res = fallbackLabel(ev.Submissions)
	}
	if err := n.game.ApplyLabel(ev.Epoch, res); err != nil {
		log.Debug().Err(err).Int("round", ev.Round).Msg("label discarded")
	}

	if !ev.WantVerdict {
		return
	}
	v, err := n.provider.ModeratorVerdict(ctx, ev.Images[0], ev.Images[1], ev.Submissions, ev.Tone)
	if err != nil || len(v.Scores) == 0 {
		if err != nil {
			log.Warn().Err(err).Int("round", ev.Round).Msg("moderator verdict fell back")
		}
		v = fallbackVerdict(ev.Submissions)
	}
	if err := n.game.ApplyVerdict(ev.Epoch, v); err != nil {
		log.Debug().Err(err).Int("round", ev.Round).Msg("verdict discarded")
	}
}

func fallbackLabel(subs []Submission) LabelResult {
	ids := make([]string, 0, len(subs))
	for _, s := range subs {
		ids = append(ids, s.PlayerID)
	}
	return LabelResult{
		Label:    "Creative Chaos",
		Clusters: map[string][]string{"Submissions": ids},
	}
}

func fallbackVerdict(subs []Submission) Verdict {
	scores := make(map[string]int, len(subs))
	for _, s := range subs {
		scores[s.PlayerID] = 5
	}
	return Verdict{
		Scores:    scores,
		Reasoning: "Every bridge held up; calling it even this round.",
		WinnerID:  subs[0].PlayerID,
	}
}
