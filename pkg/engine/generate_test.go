package engine

import "testing"

func TestLegalMovesSingleCheckerDie6(t *testing.T) {
	var b Board
	b.Points[0] = Point{Player1, 1}
	b.Home[Player1] = 14
	b.Home[Player2] = 15

	moves := LegalMoves(b, Player1, 6)
	if len(moves) != 1 {
		t.Fatalf("got %d moves, want 1: %v", len(moves), moves)
	}
	want := Move{Start: 0, End: 6, Kind: NormalMove}
	if moves[0] != want {
		t.Errorf("got %v, want %v", moves[0], want)
	}
}

func TestLegalMovesBarPriority(t *testing.T) {
	b := NewBoard()
	b.Points[0] = Point{Player1, 1}
	b.Bar[Player1] = 1

	for die := 1; die <= 6; die++ {
		for _, m := range LegalMoves(b, Player1, die) {
			if m.Kind != LeaveBar {
				t.Errorf("die %d: got %v, want only leave_bar moves while on the bar", die, m)
			}
		}
	}
}

func TestLegalMovesBlockedEntry(t *testing.T) {
	var b Board
	b.Bar[Player1] = 1
	b.Points[10] = Point{Player1, 14}
	// Player2 holds player1's entry point for a 5.
	entry := Player1.EntryPoint(5)
	b.Points[entry] = Point{Player2, 2}
	b.Points[23] = Point{Player2, 13}

	if moves := LegalMoves(b, Player1, 5); len(moves) != 0 {
		t.Errorf("got %v, want no moves: entry point %d is blocked", moves, entry)
	}

	// An open entry point yields exactly one move.
	moves := LegalMoves(b, Player1, 3)
	if len(moves) != 1 || moves[0].Kind != LeaveBar || moves[0].End != Player1.EntryPoint(3) {
		t.Errorf("got %v, want single leave_bar to point %d", moves, Player1.EntryPoint(3))
	}
}

func TestLegalMovesEntryPointsPerPlayer(t *testing.T) {
	// Player1 enters in points 0-5, player2 in 23-18, one step per pip.
	for die := 1; die <= 6; die++ {
		if got, want := Player1.EntryPoint(die), die-1; got != want {
			t.Errorf("player1 entry for die %d = %d, want %d", die, got, want)
		}
		if got, want := Player2.EntryPoint(die), 24-die; got != want {
			t.Errorf("player2 entry for die %d = %d, want %d", die, got, want)
		}
	}
}

func TestLegalMovesBearOffExact(t *testing.T) {
	var b Board
	b.Points[18] = Point{Player1, 2}
	b.Points[20] = Point{Player1, 2}
	b.Home[Player1] = 11
	b.Home[Player2] = 15

	moves := LegalMoves(b, Player1, 6)
	// 18 bears off exactly with a 6; 20 would need a 4.
	if len(moves) != 1 || moves[0] != (Move{Start: 18, End: HomePoint, Kind: BearOff}) {
		t.Errorf("got %v, want bear-off from 18 only", moves)
	}
}

func TestLegalMovesBearOffOvershootRearmostOnly(t *testing.T) {
	var b Board
	b.Points[20] = Point{Player1, 1}
	b.Points[22] = Point{Player1, 1}
	b.Home[Player1] = 13
	b.Home[Player2] = 15

	moves := LegalMoves(b, Player1, 6)
	// A 6 overshoots both; only the rearmost (20) may bear off. The same
	// die also still moves 20 -> blocked? No: no normal move exists since
	// 20+6 and 22+6 are off the track.
	if len(moves) != 1 || moves[0] != (Move{Start: 20, End: HomePoint, Kind: BearOff}) {
		t.Errorf("got %v, want overshoot bear-off from rearmost point 20", moves)
	}
}

func TestLegalMovesNoBearOffBeforeAllHome(t *testing.T) {
	b := NewBoard()

	for die := 1; die <= 6; die++ {
		for _, m := range LegalMoves(b, Player1, die) {
			if m.Kind == BearOff {
				t.Errorf("die %d: bear-off %v generated from the starting position", die, m)
			}
		}
	}
}

func TestLegalMovesPlayer2Direction(t *testing.T) {
	b := NewBoard()

	moves := LegalMoves(b, Player2, 3)
	for _, m := range moves {
		if m.End >= m.Start {
			t.Errorf("player2 move %v travels the wrong way", m)
		}
	}
	if len(moves) == 0 {
		t.Error("expected legal moves for player2 from the start")
	}
}

func TestMovableOrigins(t *testing.T) {
	b := NewBoard()

	origins := MovableOrigins(b, Player1, []int{3, 1})
	if len(origins) == 0 {
		t.Fatal("expected movable origins from the starting position")
	}
	for _, o := range origins {
		if o < 0 || o >= NumPoints {
			t.Errorf("origin %d out of range", o)
		}
		if pt := b.Points[o]; pt.Owner != Player1 || pt.Count == 0 {
			t.Errorf("origin %d is not a player1 point", o)
		}
	}

	// On the bar the only origin is the bar itself.
	b.Bar[Player1] = 1
	origins = MovableOrigins(b, Player1, []int{3, 1})
	for _, o := range origins {
		if o != BarPoint {
			t.Errorf("origin %d while on the bar, want only BarPoint", o)
		}
	}
}

func TestPossibleDestinations(t *testing.T) {
	b := NewBoard()

	dests := PossibleDestinations(b, Player1, []int{3, 1}, 0)
	want := map[int]bool{1: true, 3: true}
	if len(dests) != len(want) {
		t.Fatalf("got %v, want destinations 1 and 3", dests)
	}
	for _, d := range dests {
		if !want[d] {
			t.Errorf("unexpected destination %d", d)
		}
	}
}

func TestLegalEntryPoints(t *testing.T) {
	var b Board
	b.Bar[Player1] = 2
	b.Points[10] = Point{Player1, 13}
	b.Points[1] = Point{Player2, 2}
	b.Points[4] = Point{Player2, 2}
	b.Points[23] = Point{Player2, 11}

	got := LegalEntryPoints(b, Player1)
	want := []int{0, 2, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
