package engine

import (
	"fmt"
	"sort"
)

// sessionState tracks the turn state machine:
// awaitingRoll -> awaitingMoves -> turnDone -> (switch) -> awaitingMoves,
// with gameOver terminal from any move execution.
type sessionState uint8

const (
	awaitingRoll sessionState = iota
	awaitingMoves
	turnDone
	gameOver
)

// TurnSnapshot is the full state restored by Undo: board, remaining die
// values and the player on roll, captured before each move execution.
type TurnSnapshot struct {
	Board     Board
	Remaining []int
	Player    Player
}

// GameSession is the one mutable aggregate: it owns the live board, the
// current roll, the player on roll and the per-turn undo stack. All board
// mutation goes through Execute; callers only ever receive copies.
//
// A session is single-threaded by contract. Callers that share one across
// goroutines must serialize access themselves.
type GameSession struct {
	board     Board
	dice      Dice
	remaining []int
	current   Player
	history   []TurnSnapshot
	roller    Roller
	state     sessionState
}

// SessionOption configures a new session.
type SessionOption func(*GameSession)

// WithRoller injects the dice source, e.g. a FixedRoller in tests.
func WithRoller(r Roller) SessionOption {
	return func(s *GameSession) { s.roller = r }
}

// WithStartingPlayer sets who rolls first (default Player1).
func WithStartingPlayer(p Player) SessionOption {
	return func(s *GameSession) { s.current = p }
}

// WithBoard starts the session from an arbitrary position instead of the
// standard starting layout.
func WithBoard(b Board) SessionOption {
	return func(s *GameSession) { s.board = b }
}

// NewSession creates a session on the standard starting position, awaiting
// the opening roll.
func NewSession(opts ...SessionOption) *GameSession {
	s := &GameSession{
		board:   NewBoard(),
		current: Player1,
		state:   awaitingRoll,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.roller == nil {
		s.roller = NewRoller(0)
	}
	return s
}

// Roll starts the opening turn. Subsequent turns are rolled by SwitchTurn.
// A roll with no legal move forfeits the turn immediately.
func (s *GameSession) Roll() (Dice, error) {
	if s.state == gameOver {
		return Dice{}, ErrGameOver
	}
	if s.state != awaitingRoll {
		return Dice{}, fmt.Errorf("%w: dice already rolled this turn", ErrPrematureQuery)
	}
	s.rollDice()
	return s.dice, nil
}

func (s *GameSession) rollDice() {
	s.dice = s.roller.Roll()
	s.remaining = s.dice.Expand()
	s.state = awaitingMoves
	if !HasAnyLegalMove(s.board, s.current, s.remaining) {
		s.state = turnDone
	}
}

// Execute validates and plays one move for the player on roll, consuming
// the matching die value. The smallest remaining die that legalizes the
// move is consumed, so an exact bear-off never burns a larger die. A
// snapshot is pushed first; Undo restores it exactly.
func (s *GameSession) Execute(m Move) error {
	if s.state == gameOver {
		return ErrGameOver
	}
	if s.state != awaitingMoves {
		return fmt.Errorf("%w: not awaiting moves", ErrIllegalMove)
	}

	die, ok := s.matchDie(m)
	if !ok {
		return fmt.Errorf("%w: %s is not legal for %s with dice %v",
			ErrIllegalMove, m, s.current, s.remaining)
	}

	next, err := Apply(s.board, s.current, m)
	if err != nil {
		return err
	}

	s.history = append(s.history, TurnSnapshot{
		Board:     s.board,
		Remaining: append([]int(nil), s.remaining...),
		Player:    s.current,
	})
	s.board = next
	s.consumeDie(die)

	if s.board.Home[s.current] == CheckersPerPlayer {
		s.state = gameOver
		return nil
	}
	if len(s.remaining) == 0 || !HasAnyLegalMove(s.board, s.current, s.remaining) {
		s.state = turnDone
	}
	return nil
}

// matchDie finds the smallest remaining die value for which the move is in
// the legal-move set.
func (s *GameSession) matchDie(m Move) (int, bool) {
	values := append([]int(nil), s.remaining...)
	sort.Ints(values)
	tried := 0
	for _, die := range values {
		if die == tried {
			continue
		}
		tried = die
		for _, legal := range LegalMoves(s.board, s.current, die) {
			if legal == m {
				return die, true
			}
		}
	}
	return 0, false
}

func (s *GameSession) consumeDie(die int) {
	for i, v := range s.remaining {
		if v == die {
			s.remaining = append(s.remaining[:i], s.remaining[i+1:]...)
			return
		}
	}
}

// Undo restores the state before the most recent move this turn. It never
// crosses a turn boundary: the stack is cleared on SwitchTurn.
func (s *GameSession) Undo() error {
	if s.state == gameOver {
		return ErrGameOver
	}
	if len(s.history) == 0 {
		return ErrEmptyHistory
	}
	snap := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.board = snap.Board
	s.remaining = snap.Remaining
	s.current = snap.Player
	s.state = awaitingMoves
	return nil
}

// SwitchTurn ends the current turn: it clears the undo stack, hands the
// roll to the opponent and rolls their dice. It fails while legal moves
// remain in the current turn.
func (s *GameSession) SwitchTurn() (Dice, error) {
	if s.state == gameOver {
		return Dice{}, ErrGameOver
	}
	if s.state != turnDone {
		return Dice{}, fmt.Errorf("%w: turn is not done", ErrPrematureQuery)
	}
	s.history = nil
	s.current = s.current.Opponent()
	s.rollDice()
	return s.dice, nil
}

// Board returns a copy of the live board. Callers render from the copy;
// only the session mutates the original.
func (s *GameSession) Board() Board {
	return s.board
}

// CurrentPlayer returns the player on roll.
func (s *GameSession) CurrentPlayer() Player {
	return s.current
}

// Dice returns the current roll as rolled (unexpanded).
func (s *GameSession) Dice() Dice {
	return s.dice
}

// RemainingDice returns the unconsumed die values of the current turn.
func (s *GameSession) RemainingDice() []int {
	return append([]int(nil), s.remaining...)
}

// IsTurnDone reports whether the current turn has no moves left to make.
func (s *GameSession) IsTurnDone() bool {
	return s.state == turnDone || s.state == gameOver
}

// HasHistory reports whether the current turn has anything to undo.
func (s *GameSession) HasHistory() bool {
	return len(s.history) > 0
}

// IsGameOver reports whether either player has borne off all checkers.
func (s *GameSession) IsGameOver() bool {
	return s.state == gameOver
}

// Winner returns the winning player once the game is over.
func (s *GameSession) Winner() (Player, error) {
	if s.state != gameOver {
		return 0, fmt.Errorf("%w: game is not over", ErrPrematureQuery)
	}
	if s.board.Home[Player1] == CheckersPerPlayer {
		return Player1, nil
	}
	return Player2, nil
}

// MovableOrigins returns the origins the player on roll can move from with
// the remaining dice.
func (s *GameSession) MovableOrigins() []int {
	return MovableOrigins(s.board, s.current, s.remaining)
}

// PossibleDestinations returns the legal destinations from an origin with
// the remaining dice.
func (s *GameSession) PossibleDestinations(origin int) []int {
	return PossibleDestinations(s.board, s.current, s.remaining, origin)
}

// LegalEntryPoints returns the open entry points while the player on roll
// is on the bar.
func (s *GameSession) LegalEntryPoints() []int {
	return LegalEntryPoints(s.board, s.current)
}
