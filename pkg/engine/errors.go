package engine

import "errors"

// Sentinel errors returned by move validation and the game session.
// Callers branch with errors.Is; the wrapped messages carry the detail.
var (
	// ErrIllegalMove rejects a move that violates the rules: wrong owner,
	// blocked destination, bar priority, the bear-off gate, or a move no
	// remaining die value legalizes.
	ErrIllegalMove = errors.New("illegal move")

	// ErrEmptyHistory rejects an undo when nothing has been played this
	// turn.
	ErrEmptyHistory = errors.New("empty history")

	// ErrPrematureQuery rejects an operation whose precondition has not
	// been reached: ending a turn with moves left, or asking for a winner
	// before the game is over.
	ErrPrematureQuery = errors.New("premature query")

	// ErrGameOver rejects any mutation after a player has borne off all
	// fifteen checkers.
	ErrGameOver = errors.New("game over")
)
