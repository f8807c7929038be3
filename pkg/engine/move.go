package engine

import (
	"fmt"
	"strings"
)

// MoveKind is the closed set of move variants. Every place that interprets
// a move switches exhaustively over these.
type MoveKind uint8

const (
	// NormalMove moves a checker between two track points.
	NormalMove MoveKind = iota
	// BearOff removes a checker from the track into home. Legal only once
	// all of the mover's checkers are in the home quadrant.
	BearOff
	// LeaveBar re-enters a captured checker from the bar. Mandatory while
	// the player has any checkers on the bar.
	LeaveBar
)

func (k MoveKind) String() string {
	switch k {
	case NormalMove:
		return "move"
	case BearOff:
		return "bear_off"
	case LeaveBar:
		return "leave_bar"
	default:
		return fmt.Sprintf("MoveKind(%d)", uint8(k))
	}
}

// Sentinel indices used in Move.Start and Move.End.
const (
	// BarPoint is the Start of a LeaveBar move.
	BarPoint = -1
	// HomePoint is the End of a BearOff move.
	HomePoint = -2
)

// Move is a single checker step: one die's worth of movement.
type Move struct {
	Start int
	End   int
	Kind  MoveKind
}

// distance returns the pip distance the move covers for the given player.
// For overshooting bear-offs the consumed die may exceed this.
func (m Move) distance(p Player) int {
	switch m.Kind {
	case NormalMove:
		return (m.End - m.Start) * p.Direction()
	case BearOff:
		return p.DistanceToOff(m.Start)
	case LeaveBar:
		// The bar counts as one step before the entry point.
		return barPipDistance - p.DistanceToOff(m.End)
	default:
		return 0
	}
}

func (m Move) String() string {
	switch m.Kind {
	case BearOff:
		return fmt.Sprintf("%d/off", m.Start)
	case LeaveBar:
		return fmt.Sprintf("bar/%d", m.End)
	default:
		return fmt.Sprintf("%d/%d", m.Start, m.End)
	}
}

// MoveSequence is one full turn's moves in execution order. Order matters:
// executing a move can block or unblock the moves after it.
type MoveSequence []Move

func (s MoveSequence) String() string {
	if len(s) == 0 {
		return "(no play)"
	}
	parts := make([]string, len(s))
	for i, m := range s {
		parts[i] = m.String()
	}
	return strings.Join(parts, " ")
}

// Apply plays a single move on a copy of the board and returns the result.
// It validates the move structurally: ownership, blocked destinations, bar
// priority and the bear-off gate. Matching the move against an available
// die value is the session's job, not Apply's.
func Apply(b Board, p Player, m Move) (Board, error) {
	switch m.Kind {
	case NormalMove:
		if b.Bar[p] > 0 {
			return b, fmt.Errorf("%w: %s must enter from the bar first", ErrIllegalMove, p)
		}
		if m.distance(p) <= 0 {
			return b, fmt.Errorf("%w: %s cannot move %d -> %d", ErrIllegalMove, p, m.Start, m.End)
		}
		if err := b.moveChecker(p, m.Start, m.End); err != nil {
			return b, err
		}
		return b, nil

	case BearOff:
		if b.Bar[p] > 0 {
			return b, fmt.Errorf("%w: %s must enter from the bar first", ErrIllegalMove, p)
		}
		if b.CheckersInHomeQuadrant(p) != CheckersPerPlayer {
			return b, fmt.Errorf("%w: %s cannot bear off with checkers outside the home quadrant", ErrIllegalMove, p)
		}
		if err := b.bearOffChecker(p, m.Start); err != nil {
			return b, err
		}
		return b, nil

	case LeaveBar:
		if err := b.enterFromBar(p, m.End); err != nil {
			return b, err
		}
		return b, nil

	default:
		return b, fmt.Errorf("%w: unknown move kind %d", ErrIllegalMove, m.Kind)
	}
}
