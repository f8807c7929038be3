// Package engine implements the backgammon rules: board state, legal move
// generation and the turn-by-turn game session.
package engine

import "fmt"

// Player identifies one of the two sides. Player1 travels up the track
// (0 -> 23), Player2 travels down (23 -> 0). The value doubles as the
// index into the board's Bar and Home arrays.
type Player uint8

const (
	Player1 Player = iota
	Player2
)

// Opponent returns the other player.
func (p Player) Opponent() Player {
	return p ^ 1
}

// Direction returns the sign of the player's travel along the track:
// +1 for Player1, -1 for Player2.
func (p Player) Direction() int {
	if p == Player1 {
		return 1
	}
	return -1
}

// HomeStart returns the lowest point index of the player's home quadrant.
// Player1 bears off from 18-23, Player2 from 0-5.
func (p Player) HomeStart() int {
	if p == Player1 {
		return NumPoints - 6
	}
	return 0
}

// InHomeQuadrant reports whether a track point lies in the player's home
// quadrant.
func (p Player) InHomeQuadrant(point int) bool {
	start := p.HomeStart()
	return point >= start && point < start+6
}

// EntryPoint returns the track point a die value enters on from the bar.
// Player1 enters on its opponent's home quadrant at die-1, Player2 at
// 24-die; either way the bar counts as one pip before the entry point.
func (p Player) EntryPoint(die int) int {
	if p == Player1 {
		return die - 1
	}
	return NumPoints - die
}

// DistanceToOff returns the pip distance from a track point to bearing
// off: the exact die value that bears a checker off from there.
func (p Player) DistanceToOff(point int) int {
	if p == Player1 {
		return NumPoints - point
	}
	return point + 1
}

func (p Player) String() string {
	switch p {
	case Player1:
		return "player1"
	case Player2:
		return "player2"
	default:
		return fmt.Sprintf("Player(%d)", uint8(p))
	}
}
