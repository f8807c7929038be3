package engine

import (
	"errors"
	"reflect"
	"testing"
)

func newTestSession(t *testing.T, rolls ...Dice) *GameSession {
	t.Helper()
	return NewSession(WithRoller(&FixedRoller{Rolls: rolls}))
}

func TestSessionOpeningRoll(t *testing.T) {
	s := newTestSession(t, Dice{3, 1})

	if _, err := s.SwitchTurn(); !errors.Is(err, ErrPrematureQuery) {
		t.Errorf("SwitchTurn before roll: got %v, want ErrPrematureQuery", err)
	}

	d, err := s.Roll()
	if err != nil {
		t.Fatalf("Roll: %v", err)
	}
	if d != (Dice{3, 1}) {
		t.Errorf("Roll = %v, want {3 1}", d)
	}
	if _, err := s.Roll(); !errors.Is(err, ErrPrematureQuery) {
		t.Errorf("second Roll: got %v, want ErrPrematureQuery", err)
	}
	if got := s.RemainingDice(); !reflect.DeepEqual(got, []int{3, 1}) {
		t.Errorf("RemainingDice = %v, want [3 1]", got)
	}
}

func TestSessionDoublesExpansion(t *testing.T) {
	s := newTestSession(t, Dice{4, 4})

	if _, err := s.Roll(); err != nil {
		t.Fatalf("Roll: %v", err)
	}
	if got := s.RemainingDice(); !reflect.DeepEqual(got, []int{4, 4, 4, 4}) {
		t.Errorf("RemainingDice = %v, want four 4s", got)
	}
}

func TestSessionExecuteConsumesDie(t *testing.T) {
	s := newTestSession(t, Dice{3, 1})
	if _, err := s.Roll(); err != nil {
		t.Fatalf("Roll: %v", err)
	}

	if err := s.Execute(Move{Start: 0, End: 3, Kind: NormalMove}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := s.RemainingDice(); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("RemainingDice = %v, want [1]", got)
	}
	if !s.HasHistory() {
		t.Error("HasHistory = false after a move")
	}
	if s.IsTurnDone() {
		t.Error("turn done with a die remaining and legal moves available")
	}
}

func TestSessionExecuteIllegalMove(t *testing.T) {
	s := newTestSession(t, Dice{3, 1})
	if _, err := s.Roll(); err != nil {
		t.Fatalf("Roll: %v", err)
	}
	before := s.Board()

	// Point 5 is held by player2 at the start; 0 -> 5 needs a 5 anyway.
	err := s.Execute(Move{Start: 0, End: 5, Kind: NormalMove})
	assertIllegalMove(t, err)

	if s.Board() != before {
		t.Error("board changed after a rejected move")
	}
	if s.HasHistory() {
		t.Error("rejected move left an undo snapshot")
	}
}

func TestSessionUndoRoundTrip(t *testing.T) {
	s := newTestSession(t, Dice{6, 2})
	if _, err := s.Roll(); err != nil {
		t.Fatalf("Roll: %v", err)
	}

	board := s.Board()
	dice := s.RemainingDice()
	player := s.CurrentPlayer()

	if err := s.Execute(Move{Start: 11, End: 17, Kind: NormalMove}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}

	if s.Board() != board {
		t.Error("board not restored by undo")
	}
	if !reflect.DeepEqual(s.RemainingDice(), dice) {
		t.Errorf("dice not restored: got %v, want %v", s.RemainingDice(), dice)
	}
	if s.CurrentPlayer() != player {
		t.Error("player not restored by undo")
	}

	if err := s.Undo(); !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("Undo on empty stack: got %v, want ErrEmptyHistory", err)
	}
}

func TestSessionSwitchTurnClearsHistory(t *testing.T) {
	s := newTestSession(t, Dice{3, 1}, Dice{6, 5})
	if _, err := s.Roll(); err != nil {
		t.Fatalf("Roll: %v", err)
	}

	if err := s.Execute(Move{Start: 0, End: 3, Kind: NormalMove}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if err := s.Execute(Move{Start: 0, End: 1, Kind: NormalMove}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !s.IsTurnDone() {
		t.Fatal("turn should be done after consuming both dice")
	}

	d, err := s.SwitchTurn()
	if err != nil {
		t.Fatalf("SwitchTurn: %v", err)
	}
	if d != (Dice{6, 5}) {
		t.Errorf("SwitchTurn rolled %v, want {6 5}", d)
	}
	if s.CurrentPlayer() != Player2 {
		t.Errorf("current player = %s, want player2", s.CurrentPlayer())
	}
	if s.HasHistory() {
		t.Error("undo stack not cleared on turn switch")
	}
	if err := s.Undo(); !errors.Is(err, ErrEmptyHistory) {
		t.Errorf("Undo across turn boundary: got %v, want ErrEmptyHistory", err)
	}
}

func TestSessionForfeitTurnWhenFullyBlocked(t *testing.T) {
	var b Board
	b.Bar[Player1] = 1
	b.Points[10] = Point{Player1, 14}
	// Player2 blocks every entry point.
	for i := 0; i < 6; i++ {
		b.Points[i] = Point{Player2, 2}
	}
	b.Points[23] = Point{Player2, 3}

	s := NewSession(WithBoard(b), WithRoller(&FixedRoller{Rolls: []Dice{{3, 1}}}))
	if _, err := s.Roll(); err != nil {
		t.Fatalf("Roll: %v", err)
	}
	if !s.IsTurnDone() {
		t.Error("fully blocked roll should forfeit the turn immediately")
	}
	if _, err := s.SwitchTurn(); err != nil {
		t.Errorf("SwitchTurn after forfeit: %v", err)
	}
}

func TestSessionGameOverAndWinner(t *testing.T) {
	var b Board
	b.Points[23] = Point{Player1, 1}
	b.Home[Player1] = 14
	b.Points[0] = Point{Player2, 15}

	s := NewSession(WithBoard(b), WithRoller(&FixedRoller{Rolls: []Dice{{1, 2}}}))

	if _, err := s.Winner(); !errors.Is(err, ErrPrematureQuery) {
		t.Errorf("Winner before game over: got %v, want ErrPrematureQuery", err)
	}

	if _, err := s.Roll(); err != nil {
		t.Fatalf("Roll: %v", err)
	}
	if err := s.Execute(Move{Start: 23, End: HomePoint, Kind: BearOff}); err != nil {
		t.Fatalf("Execute bear-off: %v", err)
	}

	if !s.IsGameOver() {
		t.Fatal("game should be over after the fifteenth checker")
	}
	w, err := s.Winner()
	if err != nil {
		t.Fatalf("Winner: %v", err)
	}
	if w != Player1 {
		t.Errorf("winner = %s, want player1", w)
	}

	if err := s.Execute(Move{Start: 0, End: 1, Kind: NormalMove}); !errors.Is(err, ErrGameOver) {
		t.Errorf("Execute after game over: got %v, want ErrGameOver", err)
	}
	if _, err := s.SwitchTurn(); !errors.Is(err, ErrGameOver) {
		t.Errorf("SwitchTurn after game over: got %v, want ErrGameOver", err)
	}
}

func TestSessionBearOffConsumesSmallestMatchingDie(t *testing.T) {
	var b Board
	b.Points[20] = Point{Player1, 2}
	b.Home[Player1] = 13
	b.Home[Player2] = 15

	s := NewSession(WithBoard(b), WithRoller(&FixedRoller{Rolls: []Dice{{6, 4}}}))
	if _, err := s.Roll(); err != nil {
		t.Fatalf("Roll: %v", err)
	}

	// Point 20 needs exactly a 4; the 6 must survive for the next move.
	if err := s.Execute(Move{Start: 20, End: HomePoint, Kind: BearOff}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := s.RemainingDice(); !reflect.DeepEqual(got, []int{6}) {
		t.Errorf("RemainingDice = %v, want [6]", got)
	}
}
