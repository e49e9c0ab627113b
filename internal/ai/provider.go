package ai

import (
	"context"

	"github.com/vennparty/backend/internal/game"
)

// Provider is the full generative contract consumed by the game layer.
// The engine's drivers each take a narrower view of it (bot submissions
// vs. round commentary), so any Provider plugs into both.
type Provider interface {
	BridgeSubmission(ctx context.Context, a, b game.ImageItem) (string, error)
	IntersectionLabel(ctx context.Context, a, b game.ImageItem, subs []game.Submission) (game.LabelResult, error)
	ModeratorVerdict(ctx context.Context, a, b game.ImageItem, subs []game.Submission, tone game.ModeratorTone) (game.Verdict, error)
}
