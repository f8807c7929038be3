package engine

import "sort"

// LegalMoves derives the legal single-step moves for one die value.
//
// While the player has checkers on the bar only LeaveBar moves are legal:
// at most one per die, targeting the entry point that die reaches, and none
// at all when that point is blocked. Otherwise every owned point is tried;
// destinations still on the track yield NormalMoves unless blocked, and
// destinations off the track yield BearOffs once all fifteen checkers are
// home - an overshooting die bears off only from the rearmost occupied
// point.
//
// A die with no legal moves here is not necessarily forfeit: the sequence
// search tries every die ordering before giving a die up, per the
// use-all-dice rule. Moves are emitted in ascending start order, which the
// search relies on for its deterministic tie-break.
func LegalMoves(b Board, p Player, die int) []Move {
	if die < 1 || die > 6 {
		return nil
	}

	if b.Bar[p] > 0 {
		entry := p.EntryPoint(die)
		if b.Blocked(p, entry) {
			return nil
		}
		return []Move{{Start: BarPoint, End: entry, Kind: LeaveBar}}
	}

	var moves []Move
	canBearOff := b.CheckersInHomeQuadrant(p) == CheckersPerPlayer
	dir := p.Direction()

	for i := 0; i < NumPoints; i++ {
		pt := b.Points[i]
		if pt.Count == 0 || pt.Owner != p {
			continue
		}

		dest := i + die*dir
		if dest >= 0 && dest < NumPoints {
			if !b.Blocked(p, dest) {
				moves = append(moves, Move{Start: i, End: dest, Kind: NormalMove})
			}
			continue
		}

		// Off the track in the bear-off direction.
		if !canBearOff {
			continue
		}
		if die == p.DistanceToOff(i) || i == rearmostPoint(b, p) {
			moves = append(moves, Move{Start: i, End: HomePoint, Kind: BearOff})
		}
	}

	return moves
}

// rearmostPoint returns the player's occupied point farthest from home, or
// -1 if no checkers remain on the track.
func rearmostPoint(b Board, p Player) int {
	if p == Player1 {
		for i := 0; i < NumPoints; i++ {
			if pt := b.Points[i]; pt.Count > 0 && pt.Owner == p {
				return i
			}
		}
	} else {
		for i := NumPoints - 1; i >= 0; i-- {
			if pt := b.Points[i]; pt.Count > 0 && pt.Owner == p {
				return i
			}
		}
	}
	return -1
}

// LegalEntryPoints returns the entry points open to a player on the bar,
// without requiring a specific die. Used by callers to highlight targets.
func LegalEntryPoints(b Board, p Player) []int {
	if b.Bar[p] == 0 {
		return nil
	}
	var points []int
	for die := 1; die <= 6; die++ {
		entry := p.EntryPoint(die)
		if !b.Blocked(p, entry) {
			points = append(points, entry)
		}
	}
	sort.Ints(points)
	return points
}

// MovableOrigins returns the union, over all remaining die values, of
// origins with at least one legal move. BarPoint appears when the player
// must enter from the bar.
func MovableOrigins(b Board, p Player, dice []int) []int {
	seen := make(map[int]bool)
	for _, die := range dice {
		for _, m := range LegalMoves(b, p, die) {
			seen[m.Start] = true
		}
	}
	origins := make([]int, 0, len(seen))
	for o := range seen {
		origins = append(origins, o)
	}
	sort.Ints(origins)
	return origins
}

// PossibleDestinations returns the distinct legal destinations from one
// origin over the remaining die values. HomePoint marks a bear-off.
func PossibleDestinations(b Board, p Player, dice []int, origin int) []int {
	seen := make(map[int]bool)
	for _, die := range dice {
		for _, m := range LegalMoves(b, p, die) {
			if m.Start == origin {
				seen[m.End] = true
			}
		}
	}
	dests := make([]int, 0, len(seen))
	for d := range seen {
		dests = append(dests, d)
	}
	sort.Ints(dests)
	return dests
}

// HasAnyLegalMove reports whether any remaining die value has a legal move.
func HasAnyLegalMove(b Board, p Player, dice []int) bool {
	for _, die := range dice {
		if len(LegalMoves(b, p, die)) > 0 {
			return true
		}
	}
	return false
}
