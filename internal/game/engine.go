package game

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidPhase     = errors.New("invalid phase for action")
	ErrNotEnoughPlayers = errors.New("need at least two players")
	ErrUnknownPlayer    = errors.New("unknown player")
	ErrEmptyName        = errors.New("empty player name")
	ErrAlreadySubmitted = errors.New("already submitted this round")
	ErrEmptySubmission  = errors.New("empty submission")
	ErrNoSuchSubmission = errors.New("no submission for that player")
	ErrAlreadyVoted     = errors.New("already voted")
	ErrSelfVote         = errors.New("cannot vote for own submission")
	ErrVotingClosed     = errors.New("voting closed this round")
	ErrStaleRound       = errors.New("stale round")
)

const (
	// Timing observed in play: a short grace window after the last
	// submission, a fixed unveiling hold, and a "get ready" interstitial.
	defaultGraceDelay     = 800 * time.Millisecond
	defaultRevealHold     = 3 * time.Second
	defaultTransitionHold = 4 * time.Second

	maxSubmissionRunes = 250
	roomCodeLen        = 6
)

type EventKind string

const (
	EventRoundStarted  EventKind = "round_started"
	EventRevealStarted EventKind = "reveal_started"
	EventResultsOpen   EventKind = "results_open"
	EventRoundFinished EventKind = "round_finished"
	EventMatchEnded    EventKind = "match_ended"
)

// Event is handed to subscribers after a transition commits. It carries
// copies of the round data an async collaborator needs, plus the epoch the
// round was issued under; any completion writing back must present that
// epoch and is discarded when it no longer matches.
type Event struct {
	Kind        EventKind
	Epoch       int
	Round       int
	Images      [2]ImageItem
	Submissions []Submission
	BotIDs      []string
	WantVerdict bool
	Tone        ModeratorTone
}

// Game drives a match from lobby through rounds to final standings. All
// state is owned by the Game and mutated only through its methods; external
// collaborators return data that gets folded in with staleness checks.
type Game struct {
	mu sync.Mutex

	code     string
	settings Settings
	deck     *Deck
	clock    func() time.Time

	graceDelay     time.Duration
	revealHold     time.Duration
	transitionHold time.Duration

	phase Phase
	round int
	timer int
	epoch int // bumped on every round seed and match reset

	players []*Player

	images      *[2]ImageItem
	submissions []Submission
	votes       []Vote
	label       string
	clusters    map[string][]string
	verdict     *Verdict

	roundDeadline      time.Time
	graceDeadline      time.Time
	revealDeadline     time.Time
	transitionDeadline time.Time

	listeners []func(Event)
}

func NewGame(settings Settings) (*Game, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Game{
		code:           randomCode(roomCodeLen),
		settings:       settings,
		deck:           NewDeck(DefaultDeck()),
		clock:          time.Now,
		graceDelay:     defaultGraceDelay,
		revealHold:     defaultRevealHold,
		transitionHold: defaultTransitionHold,
		phase:          PhaseLobby,
		timer:          settings.MaxTimer,
	}, nil
}

// Subscribe registers a transition listener. Listeners are invoked after
// the state change has committed and the lock is released; register them
// before the match starts.
func (g *Game) Subscribe(fn func(Event)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, fn)
}

func deliver(listeners []func(Event), evs []Event) {
	for _, ev := range evs {
		for _, fn := range listeners {
			fn(ev)
		}
	}
}

// --- registry ---

// AddPlayer registers a participant. Pass id == "" to generate one; a
// persisted profile passes its own id so score history lines up across
// matches. The first player added becomes host.
func (g *Game) AddPlayer(id, name, avatar, color string) (*Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != PhaseLobby && g.phase != PhaseSetup {
		return nil, ErrInvalidPhase
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if id == "" {
		id = uuid.NewString()
	}
	p := &Player{
		ID:       id,
		Name:     name,
		Avatar:   avatar,
		Color:    color,
		IsHost:   len(g.players) == 0,
		IsReady:  true,
		JoinedAt: g.clock(),
	}
	g.players = append(g.players, p)
	return clonePlayer(p), nil
}

// AddSimulatedPlayer registers a bot with a synthetic identity.
func (g *Game) AddSimulatedPlayer() (*Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != PhaseLobby && g.phase != PhaseSetup {
		return nil, ErrInvalidPhase
	}
	p := &Player{
		ID:       "ai_" + uuid.NewString()[:8],
		Name:     "Robot " + strconv.Itoa(len(g.players)),
		Avatar:   randomAvatar(),
		Color:    randomColor(),
		IsAI:     true,
		IsReady:  true,
		JoinedAt: g.clock(),
	}
	g.players = append(g.players, p)
	return clonePlayer(p), nil
}

// RemovePlayer drops a participant; only possible while still in the lobby.
func (g *Game) RemovePlayer(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != PhaseLobby && g.phase != PhaseSetup {
		return ErrInvalidPhase
	}
	for i, p := range g.players {
		if p.ID == id {
			g.players = append(g.players[:i], g.players[i+1:]...)
			return nil
		}
	}
	return ErrUnknownPlayer
}

func (g *Game) Players() []Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Player, 0, len(g.players))
	for _, p := range g.players {
		out = append(out, *p)
	}
	return out
}

// Standings ranks players by score descending; ties keep join order.
func (g *Game) Standings() []Player {
	out := g.Players()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// --- configuration ---

func (g *Game) OpenSetup() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != PhaseLobby {
		return ErrInvalidPhase
	}
	g.phase = PhaseSetup
	return nil
}

// ApplySettings validates and installs a new rule snapshot, returning the
// match to the lobby when called from setup.
func (g *Game) ApplySettings(s Settings) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != PhaseLobby && g.phase != PhaseSetup {
		return ErrInvalidPhase
	}
	if err := s.Validate(); err != nil {
		return err
	}
	g.settings = s
	g.timer = s.MaxTimer
	if g.phase == PhaseSetup {
		g.phase = PhaseLobby
	}
	return nil
}

func (g *Game) Settings() Settings {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := g.settings
	s.Topics = append([]string(nil), g.settings.Topics...)
	return s
}

// --- lifecycle ---

// StartMatch begins round 1. It is a guarded transition: with fewer than
// two players it rejects without touching any state.
func (g *Game) StartMatch() error {
	g.mu.Lock()
	if g.phase != PhaseLobby {
		g.mu.Unlock()
		return ErrInvalidPhase
	}
	if len(g.players) < 2 {
		g.mu.Unlock()
		return ErrNotEnoughPlayers
	}
	g.round = 1
	evs := g.seedRoundLocked(g.clock())
	ls := g.listeners
	g.mu.Unlock()
	deliver(ls, evs)
	return nil
}

// Tick advances deadline-driven transitions. The engine owns no timer of
// its own; an external scheduler calls Tick at whatever cadence it likes
// and every deadline check is idempotent under the phase guards.
func (g *Game) Tick(now time.Time) {
	g.mu.Lock()
	var evs []Event
	switch g.phase {
	case PhaseRound:
		g.timer = secondsLeft(g.roundDeadline, now)
		if !now.Before(g.roundDeadline) {
			evs = g.enterRevealLocked(now)
		} else if !g.graceDeadline.IsZero() && !now.Before(g.graceDeadline) {
			evs = g.enterRevealLocked(now)
		}
	case PhaseReveal:
		if !now.Before(g.revealDeadline) {
			evs = g.enterResultsLocked()
		}
	case PhaseRoundTransition:
		if !now.Before(g.transitionDeadline) {
			evs = g.seedRoundLocked(now)
		}
	}
	ls := g.listeners
	g.mu.Unlock()
	deliver(ls, evs)
}

func (g *Game) seedRoundLocked(now time.Time) []Event {
	g.epoch++
	a, b := g.deck.DrawPair(g.settings.Topics)
	g.images = &[2]ImageItem{a, b}
	g.submissions = nil
	g.votes = nil
	g.label = ""
	g.clusters = nil
	g.verdict = nil
	g.timer = g.settings.MaxTimer
	g.roundDeadline = now.Add(time.Duration(g.settings.MaxTimer) * time.Second)
	g.graceDeadline = time.Time{}
	g.phase = PhaseRound
	log.Info().Int("round", g.round).Str("imageA", a.Title).Str("imageB", b.Title).Msg("round started")
	return []Event{g.eventLocked(EventRoundStarted)}
}

func (g *Game) enterRevealLocked(now time.Time) []Event {
	if g.phase != PhaseRound {
		return nil
	}
	g.phase = PhaseReveal
	g.timer = 0
	g.revealDeadline = now.Add(g.revealHold)
	log.Debug().Int("round", g.round).Int("submissions", len(g.submissions)).Msg("reveal")
	return []Event{g.eventLocked(EventRevealStarted)}
}

func (g *Game) enterResultsLocked() []Event {
	if g.phase != PhaseReveal {
		return nil
	}
	g.phase = PhaseResults
	return []Event{g.eventLocked(EventResultsOpen)}
}

// FinishRound resolves scoring, folds the deltas into the registry and
// advances the round counter. It is the explicit, player-triggered exit
// from the results phase.
func (g *Game) FinishRound() error {
	g.mu.Lock()
	if g.phase != PhaseResults {
		g.mu.Unlock()
		return ErrInvalidPhase
	}
	deltas := resolveRound(g.players, g.submissions, g.votes, g.verdict, g.settings.ScoringMode)
	for _, p := range g.players {
		g.applyPointDeltaLocked(p.ID, deltas[p.ID])
	}
	g.round++
	evs := []Event{g.eventLocked(EventRoundFinished)}
	if g.round > g.settings.MaxRounds {
		g.phase = PhaseFinalResults
		log.Info().Str("room", g.code).Msg("match ended")
		evs = append(evs, g.eventLocked(EventMatchEnded))
	} else {
		g.phase = PhaseRoundTransition
		g.transitionDeadline = g.clock().Add(g.transitionHold)
	}
	ls := g.listeners
	g.mu.Unlock()
	deliver(ls, evs)
	return nil
}

// AdvanceRound skips the rest of the interstitial and seeds the next round
// immediately. Tick performs the same seeding when the interstitial runs
// out on its own.
func (g *Game) AdvanceRound() error {
	g.mu.Lock()
	if g.phase != PhaseRoundTransition {
		g.mu.Unlock()
		return ErrInvalidPhase
	}
	evs := g.seedRoundLocked(g.clock())
	ls := g.listeners
	g.mu.Unlock()
	deliver(ls, evs)
	return nil
}

// ResetMatch starts over: new room code, scores zeroed, bots dismissed,
// human players kept. Round-scoped state is discarded wholesale.
func (g *Game) ResetMatch() {
	g.mu.Lock()
	defer g.mu.Unlock()
	humans := g.players[:0]
	for _, p := range g.players {
		if !p.IsAI {
			p.Score = 0
			p.IsReady = true
			humans = append(humans, p)
		}
	}
	g.players = humans
	g.code = randomCode(roomCodeLen)
	g.phase = PhaseLobby
	g.round = 0
	g.epoch++
	g.timer = g.settings.MaxTimer
	g.images = nil
	g.submissions = nil
	g.votes = nil
	g.label = ""
	g.clusters = nil
	g.verdict = nil
}

// --- ledger ---

// Submit records a player's bridge for the current round. Duplicate,
// empty, or out-of-phase submissions are rejected without side effects.
func (g *Game) Submit(playerID, content string, kind SubmissionKind) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.submitLocked(playerID, content, kind)
}

// SubmitForRound is the write path for async completions: the submission
// is discarded when the given epoch no longer matches the live round.
func (g *Game) SubmitForRound(epoch int, playerID, content string, kind SubmissionKind) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if epoch != g.epoch {
		return ErrStaleRound
	}
	return g.submitLocked(playerID, content, kind)
}

func (g *Game) submitLocked(playerID, content string, kind SubmissionKind) error {
	if g.phase != PhaseRound {
		return ErrInvalidPhase
	}
	if g.findPlayerLocked(playerID) == nil {
		return ErrUnknownPlayer
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return ErrEmptySubmission
	}
	if r := []rune(content); len(r) > maxSubmissionRunes {
		content = string(r[:maxSubmissionRunes])
	}
	for _, s := range g.submissions {
		if s.PlayerID == playerID {
			return ErrAlreadySubmitted
		}
	}
	if kind == "" {
		kind = SubmissionText
	}
	now := g.clock()
	g.submissions = append(g.submissions, Submission{
		PlayerID:    playerID,
		Content:     content,
		Kind:        kind,
		SubmittedAt: now,
	})
	// Everyone in: give the renderer a short beat before cutting away,
	// then Tick will fire the transition.
	if len(g.players) > 0 && len(g.submissions) == len(g.players) && g.graceDeadline.IsZero() {
		g.graceDeadline = now.Add(g.graceDelay)
	}
	return nil
}

// CastVote records a voter's one irrevocable choice for the round.
func (g *Game) CastVote(voterID, targetID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase != PhaseResults {
		return ErrInvalidPhase
	}
	if g.settings.ScoringMode != ScoringCompetitive || g.verdict != nil {
		return ErrVotingClosed
	}
	if g.findPlayerLocked(voterID) == nil {
		return ErrUnknownPlayer
	}
	if voterID == targetID {
		return ErrSelfVote
	}
	found := false
	for _, s := range g.submissions {
		if s.PlayerID == targetID {
			found = true
			break
		}
	}
	if !found {
		return ErrNoSuchSubmission
	}
	for _, v := range g.votes {
		if v.VoterID == voterID {
			return ErrAlreadyVoted
		}
	}
	g.votes = append(g.votes, Vote{VoterID: voterID, TargetID: targetID})
	return nil
}

// --- async completions ---

// ApplyLabel folds in the intersection label computed for the given epoch.
// Stale epochs and already-labelled rounds are no-ops.
func (g *Game) ApplyLabel(epoch int, res LabelResult) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if epoch != g.epoch {
		return ErrStaleRound
	}
	if g.phase != PhaseResults {
		return ErrInvalidPhase
	}
	if g.label != "" {
		return nil
	}
	g.label = res.Label
	g.clusters = res.Clusters
	return nil
}

// ApplyVerdict folds in a moderator verdict for the given epoch; once a
// verdict is recorded it is final for the round.
func (g *Game) ApplyVerdict(epoch int, v Verdict) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if epoch != g.epoch {
		return ErrStaleRound
	}
	if g.phase != PhaseResults {
		return ErrInvalidPhase
	}
	if g.verdict != nil {
		return nil
	}
	for id, score := range v.Scores {
		if score < 0 {
			v.Scores[id] = 0
		} else if score > 10 {
			v.Scores[id] = 10
		}
	}
	g.verdict = &v
	return nil
}

// --- views ---

type Snapshot struct {
	RoomCode          string              `json:"roomCode"`
	Phase             Phase               `json:"phase"`
	Round             int                 `json:"round"`
	MaxRounds         int                 `json:"maxRounds"`
	Timer             int                 `json:"timer"`
	MaxTimer          int                 `json:"maxTimer"`
	ScoringMode       ScoringMode         `json:"scoringMode"`
	Players           []Player            `json:"players"`
	Images            *[2]ImageItem       `json:"currentImages,omitempty"`
	Submissions       []Submission        `json:"submissions"`
	Votes             []Vote              `json:"votes"`
	IntersectionLabel string              `json:"intersectionLabel,omitempty"`
	Clusters          map[string][]string `json:"clusters,omitempty"`
	Verdict           *Verdict            `json:"verdict,omitempty"`
}

// Snapshot returns a deep copy of the visible match state for renderers.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	snap := Snapshot{
		RoomCode:          g.code,
		Phase:             g.phase,
		Round:             g.round,
		MaxRounds:         g.settings.MaxRounds,
		Timer:             g.timer,
		MaxTimer:          g.settings.MaxTimer,
		ScoringMode:       g.settings.ScoringMode,
		Players:           make([]Player, 0, len(g.players)),
		Submissions:       append([]Submission(nil), g.submissions...),
		Votes:             append([]Vote(nil), g.votes...),
		IntersectionLabel: g.label,
	}
	for _, p := range g.players {
		snap.Players = append(snap.Players, *p)
	}
	if g.images != nil {
		imgs := *g.images
		snap.Images = &imgs
	}
	if g.clusters != nil {
		snap.Clusters = make(map[string][]string, len(g.clusters))
		for k, ids := range g.clusters {
			snap.Clusters[k] = append([]string(nil), ids...)
		}
	}
	if g.verdict != nil {
		v := *g.verdict
		v.Scores = make(map[string]int, len(g.verdict.Scores))
		for id, s := range g.verdict.Scores {
			v.Scores[id] = s
		}
		snap.Verdict = &v
	}
	return snap
}

func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

func (g *Game) Round() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.round
}

func (g *Game) Epoch() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.epoch
}

func (g *Game) RoomCode() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.code
}

// --- helpers ---

func (g *Game) eventLocked(kind EventKind) Event {
	ev := Event{
		Kind:        kind,
		Epoch:       g.epoch,
		Round:       g.round,
		Submissions: append([]Submission(nil), g.submissions...),
		Tone:        g.settings.ModeratorTone,
	}
	if g.images != nil {
		ev.Images = *g.images
	}
	humans := 0
	for _, p := range g.players {
		if p.IsAI {
			ev.BotIDs = append(ev.BotIDs, p.ID)
		} else {
			humans++
		}
	}
	// Solo-against-AI competitive rounds are judged by the moderator
	// instead of peer voting.
	ev.WantVerdict = g.settings.ScoringMode == ScoringCompetitive && humans == 1 && len(ev.BotIDs) > 0
	return ev
}

func (g *Game) findPlayerLocked(id string) *Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) applyPointDeltaLocked(id string, delta int) {
	if delta <= 0 {
		return
	}
	if p := g.findPlayerLocked(id); p != nil {
		p.Score += delta
	}
}

func clonePlayer(p *Player) *Player {
	c := *p
	return &c
}

func secondsLeft(deadline, now time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
