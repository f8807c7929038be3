package api

import (
	"sync"

	"github.com/google/uuid"

	"github.com/SaharZo321/sahar-backgammon/pkg/engine"
)

// subscriberBuffer is the per-subscriber state channel depth. A slow
// consumer drops intermediate states rather than stalling the game.
const subscriberBuffer = 16

// Game binds a session to an identifier and serializes access to it.
// Sessions are single-threaded by contract; every handler goes through
// Do or View.
type Game struct {
	ID uuid.UUID

	mu      sync.Mutex
	session *engine.GameSession

	subMu sync.Mutex
	subs  map[chan GameState]struct{}
}

// Do runs fn with the session locked. When fn succeeds the resulting
// state is broadcast to all subscribers.
func (g *Game) Do(fn func(*engine.GameSession) error) error {
	g.mu.Lock()
	err := fn(g.session)
	var snap GameState
	if err == nil {
		snap = g.snapshotLocked()
	}
	g.mu.Unlock()

	if err == nil {
		g.broadcast(snap)
	}
	return err
}

// View runs fn with the session locked, without broadcasting. fn must
// not mutate the session.
func (g *Game) View(fn func(*engine.GameSession)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g.session)
}

// Snapshot returns the current observable state.
func (g *Game) Snapshot() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() GameState {
	s := g.session
	b := s.Board()

	points := make([]PointState, engine.NumPoints)
	for i, pt := range b.Points {
		if pt.Count > 0 {
			points[i] = PointState{Owner: pt.Owner.String(), Count: pt.Count}
		}
	}

	state := GameState{
		ID:     g.ID.String(),
		Points: points,
		Bar: map[string]int{
			engine.Player1.String(): b.Bar[engine.Player1],
			engine.Player2.String(): b.Bar[engine.Player2],
		},
		BorneOff: map[string]int{
			engine.Player1.String(): b.Home[engine.Player1],
			engine.Player2.String(): b.Home[engine.Player2],
		},
		PipCount: map[string]int{
			engine.Player1.String(): b.PipCount(engine.Player1),
			engine.Player2.String(): b.PipCount(engine.Player2),
		},
		CurrentPlayer: s.CurrentPlayer().String(),
		Dice:          s.Dice(),
		RemainingDice: s.RemainingDice(),
		TurnDone:      s.IsTurnDone(),
		HasHistory:    s.HasHistory(),
		GameOver:      s.IsGameOver(),
	}
	if winner, err := s.Winner(); err == nil {
		state.Winner = winner.String()
	}
	return state
}

// Subscribe registers a state channel. The current state is delivered
// first; the returned func unsubscribes and closes the channel.
func (g *Game) Subscribe() (<-chan GameState, func()) {
	ch := make(chan GameState, subscriberBuffer)
	ch <- g.Snapshot()

	g.subMu.Lock()
	g.subs[ch] = struct{}{}
	g.subMu.Unlock()

	cancel := func() {
		g.subMu.Lock()
		if _, ok := g.subs[ch]; ok {
			delete(g.subs, ch)
			close(ch)
		}
		g.subMu.Unlock()
	}
	return ch, cancel
}

// broadcast fans a state out to subscribers without blocking: a full
// channel drops this update, the subscriber catches up on the next one.
func (g *Game) broadcast(state GameState) {
	g.subMu.Lock()
	defer g.subMu.Unlock()
	for ch := range g.subs {
		select {
		case ch <- state:
		default:
		}
	}
}

// closeSubscribers closes all subscriber channels when a game is deleted.
func (g *Game) closeSubscribers() {
	g.subMu.Lock()
	defer g.subMu.Unlock()
	for ch := range g.subs {
		delete(g.subs, ch)
		close(ch)
	}
}

// Registry owns the live games, keyed by UUID.
type Registry struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*Game
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{games: make(map[uuid.UUID]*Game)}
}

// Create starts a new game and returns it.
func (r *Registry) Create(opts ...engine.SessionOption) *Game {
	g := &Game{
		ID:      uuid.New(),
		session: engine.NewSession(opts...),
		subs:    make(map[chan GameState]struct{}),
	}
	r.mu.Lock()
	r.games[g.ID] = g
	r.mu.Unlock()
	return g
}

// Get looks up a game by id.
func (r *Registry) Get(id uuid.UUID) (*Game, bool) {
	r.mu.RLock()
	g, ok := r.games[id]
	r.mu.RUnlock()
	return g, ok
}

// Delete removes a game and closes its subscribers. It reports whether
// the game existed.
func (r *Registry) Delete(id uuid.UUID) bool {
	r.mu.Lock()
	g, ok := r.games[id]
	delete(r.games, id)
	r.mu.Unlock()

	if ok {
		g.closeSubscribers()
	}
	return ok
}

// Len returns the number of live games.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}
