// Command bgplay plays backgammon against the engine in the terminal.
// Player1 (X) travels 0 -> 23, Player2 (O) travels 23 -> 0.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/SaharZo321/sahar-backgammon/pkg/ai"
	"github.com/SaharZo321/sahar-backgammon/pkg/engine"
)

func main() {
	seed := flag.Int64("seed", 0, "Dice seed (0 = random)")
	botSide := flag.String("bot", "player2", "Side the engine plays: player1, player2 or none")
	flag.Parse()

	var bot engine.Player
	botPlays := true
	switch *botSide {
	case "player1":
		bot = engine.Player1
	case "player2":
		bot = engine.Player2
	case "none":
		botPlays = false
	default:
		fmt.Fprintf(os.Stderr, "invalid -bot value %q\n", *botSide)
		os.Exit(1)
	}

	session := engine.NewSession(engine.WithRoller(engine.NewRoller(*seed)))
	searcher := ai.New()
	in := bufio.NewScanner(os.Stdin)

	dice, err := session.Roll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "roll: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s opens with %d-%d\n", session.CurrentPlayer(), dice[0], dice[1])

	for {
		if botPlays && session.CurrentPlayer() == bot {
			playBotTurn(session, searcher)
		} else {
			playHumanTurn(session, searcher, in)
		}
		if session.IsGameOver() {
			break
		}

		dice, err := session.SwitchTurn()
		if err != nil {
			fmt.Fprintf(os.Stderr, "switch turn: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\n%s rolls %d-%d\n", session.CurrentPlayer(), dice[0], dice[1])
	}

	winner, err := session.Winner()
	if err != nil {
		fmt.Fprintf(os.Stderr, "winner: %v\n", err)
		os.Exit(1)
	}
	printBoard(session)
	fmt.Printf("\n%s wins!\n", winner)
}

func playBotTurn(s *engine.GameSession, searcher *ai.Searcher) {
	player := s.CurrentPlayer()
	seq := searcher.BestSequence(s.Board(), player, s.RemainingDice())
	for _, m := range seq {
		if err := s.Execute(m); err != nil {
			fmt.Fprintf(os.Stderr, "engine move %s failed: %v\n", m, err)
			os.Exit(1)
		}
	}
	fmt.Printf("%s plays %s\n", player, seq)
}

func playHumanTurn(s *engine.GameSession, searcher *ai.Searcher, in *bufio.Scanner) {
	printBoard(s)
	if s.IsTurnDone() {
		fmt.Println("no legal moves, turn forfeit")
		return
	}

	for {
		fmt.Printf("[%s, dice %v] > ", s.CurrentPlayer(), s.RemainingDice())
		if !in.Scan() {
			os.Exit(0)
		}
		fields := strings.Fields(in.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "move", "m":
			if len(fields) != 3 {
				fmt.Println("usage: move <from> <to>   (e.g. move 0 3, move bar 4, move 20 off)")
				continue
			}
			move, err := parseMove(fields[1], fields[2])
			if err != nil {
				fmt.Println(err)
				continue
			}
			if err := s.Execute(move); err != nil {
				fmt.Println(err)
				continue
			}
			printBoard(s)
			if s.IsGameOver() {
				return
			}
			if s.IsTurnDone() {
				fmt.Println("turn done (type done, or undo)")
			}

		case "moves":
			printMoves(s)

		case "undo", "u":
			if err := s.Undo(); err != nil {
				fmt.Println(err)
				continue
			}
			printBoard(s)

		case "hint", "h":
			printHints(s, searcher)

		case "board", "b":
			printBoard(s)

		case "done", "d":
			if !s.IsTurnDone() {
				fmt.Println("dice remain; play them or undo")
				continue
			}
			return

		case "quit", "q":
			os.Exit(0)

		default:
			fmt.Println("commands: move <from> <to>, moves, undo, hint, board, done, quit")
		}
	}
}

// parseMove decodes a from/to pair. "bar" enters from the bar, "off"
// bears off; anything else is a point index.
func parseMove(from, to string) (engine.Move, error) {
	if from == "bar" {
		end, err := parsePoint(to)
		if err != nil {
			return engine.Move{}, err
		}
		return engine.Move{Start: engine.BarPoint, End: end, Kind: engine.LeaveBar}, nil
	}
	start, err := parsePoint(from)
	if err != nil {
		return engine.Move{}, err
	}
	if to == "off" {
		return engine.Move{Start: start, End: engine.HomePoint, Kind: engine.BearOff}, nil
	}
	end, err := parsePoint(to)
	if err != nil {
		return engine.Move{}, err
	}
	return engine.Move{Start: start, End: end, Kind: engine.NormalMove}, nil
}

func parsePoint(s string) (int, error) {
	p, err := strconv.Atoi(s)
	if err != nil || p < 0 || p >= engine.NumPoints {
		return 0, fmt.Errorf("invalid point %q (want 0-23, bar or off)", s)
	}
	return p, nil
}

func printMoves(s *engine.GameSession) {
	origins := s.MovableOrigins()
	if len(origins) == 0 {
		fmt.Println("no legal moves")
		return
	}
	for _, o := range origins {
		name := strconv.Itoa(o)
		if o == engine.BarPoint {
			name = "bar"
		}
		var dests []string
		for _, d := range s.PossibleDestinations(o) {
			if d == engine.HomePoint {
				dests = append(dests, "off")
			} else {
				dests = append(dests, strconv.Itoa(d))
			}
		}
		fmt.Printf("  %s -> %s\n", name, strings.Join(dests, ", "))
	}
}

func printHints(s *engine.GameSession, searcher *ai.Searcher) {
	ranked := searcher.RankSequences(s.Board(), s.CurrentPlayer(), s.RemainingDice(), 3)
	if len(ranked) == 0 {
		fmt.Println("no plays available")
		return
	}
	for i, r := range ranked {
		fmt.Printf("  %d. %s  (%.1f)\n", i+1, r.Sequence, r.Score)
	}
}

// checker symbols per player.
var symbols = map[engine.Player]string{
	engine.Player1: "X",
	engine.Player2: "O",
}

// printBoard renders the track in two rows: 12-23 on top, 11-0 below.
func printBoard(s *engine.GameSession) {
	b := s.Board()

	cell := func(i int) string {
		pt := b.Points[i]
		if pt.Count == 0 {
			return " ."
		}
		return fmt.Sprintf("%s%d", symbols[pt.Owner], pt.Count)
	}

	fmt.Println()
	fmt.Println(" 12 13 14 15 16 17 | 18 19 20 21 22 23")
	for i := 12; i < 24; i++ {
		fmt.Printf(" %s", cell(i))
		if i == 17 {
			fmt.Print(" |")
		}
	}
	fmt.Println()
	for i := 11; i >= 0; i-- {
		fmt.Printf(" %s", cell(i))
		if i == 6 {
			fmt.Print(" |")
		}
	}
	fmt.Println()
	fmt.Println(" 11 10  9  8  7  6 |  5  4  3  2  1  0")

	fmt.Printf(" bar X:%d O:%d   off X:%d O:%d   pips X:%d O:%d\n",
		b.Bar[engine.Player1], b.Bar[engine.Player2],
		b.Home[engine.Player1], b.Home[engine.Player2],
		b.PipCount(engine.Player1), b.PipCount(engine.Player2))
}
