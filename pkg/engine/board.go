package engine

import "fmt"

const (
	// NumPoints is the number of track points.
	NumPoints = 24
	// CheckersPerPlayer is each side's checker count; conservation of this
	// total is a hard invariant of every board mutation.
	CheckersPerPlayer = 15
	// barPipDistance is the pip value of a checker on the bar: one step
	// behind the farthest entry point.
	barPipDistance = 25
)

// Point is one track point: at most one owner, zero or more checkers.
// An empty point has Count 0 and its Owner is meaningless.
type Point struct {
	Owner Player
	Count int
}

// Board is the full checker state: 24 points plus per-player bar and home
// (borne off) counts. It is a comparable value type; Apply and the search
// work on copies, so scratch boards are free and never alias live state.
type Board struct {
	Points [NumPoints]Point
	Bar    [2]int
	Home   [2]int
}

// NewBoard returns the standard starting position. Both sides start at
// 167 pips.
func NewBoard() Board {
	var b Board
	b.Points[0] = Point{Player1, 2}
	b.Points[11] = Point{Player1, 5}
	b.Points[16] = Point{Player1, 3}
	b.Points[18] = Point{Player1, 5}
	b.Points[23] = Point{Player2, 2}
	b.Points[12] = Point{Player2, 5}
	b.Points[7] = Point{Player2, 3}
	b.Points[5] = Point{Player2, 5}
	return b
}

// Blocked reports whether the player may not land on a point: the
// opponent holds it with two or more checkers.
func (b Board) Blocked(p Player, point int) bool {
	pt := b.Points[point]
	return pt.Count >= 2 && pt.Owner == p.Opponent()
}

// CheckersOn returns the player's checker count on the track, excluding
// bar and home.
func (b Board) CheckersOn(p Player) int {
	n := 0
	for _, pt := range b.Points {
		if pt.Count > 0 && pt.Owner == p {
			n += pt.Count
		}
	}
	return n
}

// CheckersInHomeQuadrant counts the player's checkers that have reached
// the home quadrant, including those already borne off. Bearing off is
// legal once this reaches CheckersPerPlayer.
func (b Board) CheckersInHomeQuadrant(p Player) int {
	n := b.Home[p]
	start := p.HomeStart()
	for i := start; i < start+6; i++ {
		if pt := b.Points[i]; pt.Count > 0 && pt.Owner == p {
			n += pt.Count
		}
	}
	return n
}

// PipCount returns the player's total pip distance to bearing off all
// checkers. Checkers on the bar count the full 25 pips.
func (b Board) PipCount(p Player) int {
	pips := b.Bar[p] * barPipDistance
	for i, pt := range b.Points {
		if pt.Count > 0 && pt.Owner == p {
			pips += pt.Count * p.DistanceToOff(i)
		}
	}
	return pips
}

// Blots counts the player's single exposed checkers.
func (b Board) Blots(p Player) int {
	n := 0
	for _, pt := range b.Points {
		if pt.Count == 1 && pt.Owner == p {
			n++
		}
	}
	return n
}

// HomeBoardPoints counts the home-quadrant points the player holds with
// two or more checkers.
func (b Board) HomeBoardPoints(p Player) int {
	n := 0
	start := p.HomeStart()
	for i := start; i < start+6; i++ {
		if pt := b.Points[i]; pt.Count >= 2 && pt.Owner == p {
			n++
		}
	}
	return n
}

// liftChecker removes one of the player's checkers from a point.
func (b *Board) liftChecker(p Player, point int) error {
	pt := b.Points[point]
	if pt.Count == 0 || pt.Owner != p {
		return fmt.Errorf("%w: %s has no checker on point %d", ErrIllegalMove, p, point)
	}
	b.Points[point].Count--
	return nil
}

// placeChecker puts one of the player's checkers on a point, hitting an
// opposing blot onto the bar.
func (b *Board) placeChecker(p Player, point int) error {
	pt := b.Points[point]
	switch {
	case pt.Count == 0 || pt.Owner == p:
		b.Points[point] = Point{Owner: p, Count: pt.Count + 1}
	case pt.Count == 1:
		b.Bar[p.Opponent()]++
		b.Points[point] = Point{Owner: p, Count: 1}
	default:
		return fmt.Errorf("%w: point %d is blocked for %s", ErrIllegalMove, point, p)
	}
	return nil
}

// moveChecker relocates one checker between track points.
func (b *Board) moveChecker(p Player, from, to int) error {
	if from < 0 || from >= NumPoints || to < 0 || to >= NumPoints {
		return fmt.Errorf("%w: move %d -> %d is off the track", ErrIllegalMove, from, to)
	}
	if err := b.liftChecker(p, from); err != nil {
		return err
	}
	if err := b.placeChecker(p, to); err != nil {
		b.Points[from].Count++
		b.Points[from].Owner = p
		return err
	}
	b.assertConservation()
	return nil
}

// enterFromBar re-enters one checker from the bar onto an entry point.
func (b *Board) enterFromBar(p Player, to int) error {
	if b.Bar[p] == 0 {
		return fmt.Errorf("%w: %s has no checker on the bar", ErrIllegalMove, p)
	}
	if to < 0 || to >= NumPoints || !p.Opponent().InHomeQuadrant(to) {
		return fmt.Errorf("%w: %d is not an entry point for %s", ErrIllegalMove, to, p)
	}
	if err := b.placeChecker(p, to); err != nil {
		return err
	}
	b.Bar[p]--
	b.assertConservation()
	return nil
}

// bearOffChecker removes one checker from the track into home.
func (b *Board) bearOffChecker(p Player, from int) error {
	if from < 0 || from >= NumPoints || !p.InHomeQuadrant(from) {
		return fmt.Errorf("%w: cannot bear off from point %d", ErrIllegalMove, from)
	}
	if err := b.liftChecker(p, from); err != nil {
		return err
	}
	b.Home[p]++
	b.assertConservation()
	return nil
}

// assertConservation panics if either player's checkers do not total
// exactly fifteen. A violation is a bug in a mutator, never a caller
// error, so it is fatal rather than returned.
func (b *Board) assertConservation() {
	for _, p := range []Player{Player1, Player2} {
		if total := b.CheckersOn(p) + b.Bar[p] + b.Home[p]; total != CheckersPerPlayer {
			panic(fmt.Sprintf("engine: %s has %d checkers, want %d", p, total, CheckersPerPlayer))
		}
	}
}

// BoardKey is a compact position key for hashing and deduplication.
type BoardKey [3]uint64

// Key packs the board into a BoardKey: five bits per point (four for the
// count, one for the owner), twelve points per word, with the bar and
// home counts in the third word.
func (b Board) Key() BoardKey {
	var k BoardKey
	for i, pt := range b.Points {
		bits := uint64(pt.Count) & 0xf
		if pt.Count > 0 && pt.Owner == Player2 {
			bits |= 0x10
		}
		k[i/12] |= bits << (5 * uint(i%12))
	}
	k[2] = uint64(b.Bar[Player1]) |
		uint64(b.Bar[Player2])<<4 |
		uint64(b.Home[Player1])<<8 |
		uint64(b.Home[Player2])<<12
	return k
}
