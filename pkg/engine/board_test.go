package engine

import (
	"errors"
	"testing"
)

func assertIllegalMove(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, ErrIllegalMove) {
		t.Errorf("got %v, want ErrIllegalMove", err)
	}
}

func TestNewBoardConservation(t *testing.T) {
	b := NewBoard()

	for _, p := range []Player{Player1, Player2} {
		total := b.CheckersOn(p) + b.Bar[p] + b.Home[p]
		if total != CheckersPerPlayer {
			t.Errorf("%s has %d checkers, want %d", p, total, CheckersPerPlayer)
		}
	}
}

func TestNewBoardPipCount(t *testing.T) {
	b := NewBoard()

	// Standard starting pip count is 167 for both sides.
	for _, p := range []Player{Player1, Player2} {
		if pips := b.PipCount(p); pips != 167 {
			t.Errorf("%s starting pip count = %d, want 167", p, pips)
		}
	}
}

func TestApplyHitSendsBlotToBar(t *testing.T) {
	var b Board
	b.Points[10] = Point{Player1, 14}
	b.Points[4] = Point{Player1, 1}
	b.Points[20] = Point{Player2, 14}
	b.Points[9] = Point{Player2, 1}

	next, err := Apply(b, Player1, Move{Start: 4, End: 9, Kind: NormalMove})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if next.Bar[Player2] != 1 {
		t.Errorf("player2 bar = %d, want 1", next.Bar[Player2])
	}
	if pt := next.Points[9]; pt.Owner != Player1 || pt.Count != 1 {
		t.Errorf("point 9 = %+v, want one player1 checker", pt)
	}
	// No point may ever hold checkers from both players.
	for i, pt := range next.Points {
		if pt.Count == 0 {
			continue
		}
		if pt.Count < 0 {
			t.Errorf("point %d has negative count", i)
		}
	}
}

func TestApplyBlockedDestination(t *testing.T) {
	var b Board
	b.Points[0] = Point{Player1, 15}
	b.Points[6] = Point{Player2, 2}
	b.Points[12] = Point{Player2, 13}

	_, err := Apply(b, Player1, Move{Start: 0, End: 6, Kind: NormalMove})
	if err == nil {
		t.Fatal("expected error moving onto a blocked point")
	}
	assertIllegalMove(t, err)
}

func TestApplyBearOffGate(t *testing.T) {
	var b Board
	// One checker short of home: 14 in the quadrant, 1 straggler.
	b.Points[18] = Point{Player1, 14}
	b.Points[10] = Point{Player1, 1}
	b.Points[0] = Point{Player2, 15}

	_, err := Apply(b, Player1, Move{Start: 18, End: HomePoint, Kind: BearOff})
	if err == nil {
		t.Fatal("expected bear-off to fail with a checker outside the home quadrant")
	}
	assertIllegalMove(t, err)

	// Bring the straggler home; bear-off becomes legal.
	b.Points[10] = Point{}
	b.Points[19] = Point{Player1, 1}
	next, err := Apply(b, Player1, Move{Start: 18, End: HomePoint, Kind: BearOff})
	if err != nil {
		t.Fatalf("Apply bear-off: %v", err)
	}
	if next.Home[Player1] != 1 {
		t.Errorf("player1 home = %d, want 1", next.Home[Player1])
	}
}

func TestApplyBarPriority(t *testing.T) {
	var b Board
	b.Bar[Player1] = 1
	b.Points[10] = Point{Player1, 14}
	b.Points[23] = Point{Player2, 15}

	_, err := Apply(b, Player1, Move{Start: 10, End: 15, Kind: NormalMove})
	if err == nil {
		t.Fatal("expected normal move to fail with a checker on the bar")
	}
	assertIllegalMove(t, err)

	next, err := Apply(b, Player1, Move{Start: BarPoint, End: 3, Kind: LeaveBar})
	if err != nil {
		t.Fatalf("Apply leave_bar: %v", err)
	}
	if next.Bar[Player1] != 0 {
		t.Errorf("player1 bar = %d, want 0", next.Bar[Player1])
	}
}

func TestCheckersInHomeQuadrantCountsBorneOff(t *testing.T) {
	var b Board
	b.Points[22] = Point{Player1, 1}
	b.Home[Player1] = 14
	b.Points[0] = Point{Player2, 15}

	if n := b.CheckersInHomeQuadrant(Player1); n != CheckersPerPlayer {
		t.Errorf("CheckersInHomeQuadrant = %d, want %d", n, CheckersPerPlayer)
	}
}

func TestBoardKeyDistinguishesPositions(t *testing.T) {
	a := NewBoard()
	b := NewBoard()

	if a.Key() != b.Key() {
		t.Error("identical boards should share a key")
	}

	c, err := Apply(b, Player1, Move{Start: 0, End: 1, Kind: NormalMove})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if a.Key() == c.Key() {
		t.Error("different boards should not share a key")
	}
}

func TestBoardIsValueType(t *testing.T) {
	a := NewBoard()
	scratch := a

	if _, err := Apply(scratch, Player1, Move{Start: 0, End: 4, Kind: NormalMove}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if a.Points[0].Count != 2 {
		t.Error("applying a move to a copy mutated the original board")
	}
}
