package game

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// BotProvider produces a bridge phrase on behalf of a simulated player.
type BotProvider interface {
	BridgeSubmission(ctx context.Context, a, b ImageItem) (string, error)
}

const botFallbackPhrase = "Something in between!"

// BotDriver schedules one delayed submission per simulated player each
// round. Completions carry the epoch of the round they were issued under
// and go through the same ledger path as human submissions, so a response
// for round N can never land in round N+1 and duplicates are dropped.
type BotDriver struct {
	game     *Game
	provider BotProvider

	minDelay time.Duration
	maxDelay time.Duration
	timeout  time.Duration
}

func NewBotDriver(g *Game, p BotProvider) *BotDriver {
	d := &BotDriver{
		game:     g,
		provider: p,
		minDelay: 3 * time.Second,
		maxDelay: 10 * time.Second,
		timeout:  15 * time.Second,
	}
	g.Subscribe(d.handle)
	return d
}

func (d *BotDriver) handle(ev Event) {
	if ev.Kind != EventRoundStarted {
		return
	}
	for _, id := range ev.BotIDs {
		go d.play(ev, id)
	}
}

func (d *BotDriver) play(ev Event, botID string) {
	delay := d.minDelay
	if d.maxDelay > d.minDelay {
		delay += time.Duration(rand.Int63n(int64(d.maxDelay - d.minDelay)))
	}
	if delay > 0 {
		time.Sleep(delay)
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	content, err := d.provider.BridgeSubmission(ctx, ev.Images[0], ev.Images[1])
	if err != nil || strings.TrimSpace(content) == "" {
		if err != nil {
			log.Warn().Err(err).Str("bot", botID).Msg("bot submission fell back")
		}
		content = botFallbackPhrase
	}

	switch err := d.game.SubmitForRound(ev.Epoch, botID, content, SubmissionText); err {
	case nil:
	case ErrStaleRound, ErrAlreadySubmitted, ErrInvalidPhase:
		// Round moved on before the bot finished; nothing to record.
		log.Debug().Err(err).Str("bot", botID).Int("round", ev.Round).Msg("bot submission discarded")
	default:
		log.Warn().Err(err).Str("bot", botID).Msg("bot submission rejected")
	}
}
