// Package api exposes game sessions over HTTP/JSON: REST endpoints for
// the game lifecycle, Server-Sent Events for state streaming and a
// WebSocket channel for interactive clients.
package api

import (
	"fmt"
	"strconv"

	"github.com/SaharZo321/sahar-backgammon/pkg/engine"
)

// Board locations cross the wire as strings: a point index "0".."23",
// "bar" for the bar and "off" for borne-off checkers.
const (
	locBar = "bar"
	locOff = "off"
)

// PointState is one track point in a state snapshot. Owner is omitted
// for empty points.
type PointState struct {
	Owner string `json:"owner,omitempty"`
	Count int    `json:"count"`
}

// GameState is the full observable state of a game.
type GameState struct {
	ID            string         `json:"id"`
	Points        []PointState   `json:"points"`
	Bar           map[string]int `json:"bar"`
	BorneOff      map[string]int `json:"borne_off"`
	PipCount      map[string]int `json:"pip_count"`
	CurrentPlayer string         `json:"current_player"`
	Dice          [2]int         `json:"dice"`
	RemainingDice []int          `json:"remaining_dice"`
	TurnDone      bool           `json:"turn_done"`
	HasHistory    bool           `json:"has_history"`
	GameOver      bool           `json:"game_over"`
	Winner        string         `json:"winner,omitempty"`
}

// CreateGameRequest configures a new game. All fields are optional.
type CreateGameRequest struct {
	StartingPlayer string `json:"starting_player,omitempty"` // "player1" (default) or "player2"
	Seed           int64  `json:"seed,omitempty"`            // dice seed, 0 = random
}

// MoveRequest plays one checker.
type MoveRequest struct {
	From string `json:"from"` // point index or "bar"
	To   string `json:"to"`   // point index or "off"
}

// DiceResponse reports a fresh roll.
type DiceResponse struct {
	Dice          [2]int `json:"dice"`
	RemainingDice []int  `json:"remaining_dice"`
	CurrentPlayer string `json:"current_player"`
	TurnDone      bool   `json:"turn_done"`
}

// MovesResponse lists movable origins for the remaining dice, or the
// destinations from a single origin when the query names one.
type MovesResponse struct {
	Origins      []string `json:"origins,omitempty"`
	Destinations []string `json:"destinations,omitempty"`
	EntryPoints  []int    `json:"entry_points,omitempty"`
}

// MoveDTO is a single move in a hint or bot response.
type MoveDTO struct {
	From string `json:"from"`
	To   string `json:"to"`
	Kind string `json:"kind"`
}

// HintDTO is one ranked candidate play.
type HintDTO struct {
	Moves    []MoveDTO `json:"moves"`
	Score    float64   `json:"score"`
	Notation string    `json:"notation"`
}

// HintResponse ranks candidate plays best first.
type HintResponse struct {
	Hints []HintDTO `json:"hints"`
}

// BotResponse reports the turn the bot played. An empty move list means
// the turn was forfeit.
type BotResponse struct {
	Moves    []MoveDTO `json:"moves"`
	Notation string    `json:"notation"`
	State    GameState `json:"state"`
}

// ErrorResponse is returned when an error occurs.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HealthResponse is the response for health checks.
type HealthResponse struct {
	Status  string     `json:"status"`
	Version string     `json:"version"`
	Games   int        `json:"games"`
	Pool    *PoolStats `json:"pool,omitempty"`
}

// formatLocation renders a move endpoint for the wire.
func formatLocation(point int) string {
	switch point {
	case engine.BarPoint:
		return locBar
	case engine.HomePoint:
		return locOff
	default:
		return strconv.Itoa(point)
	}
}

// parsePoint parses a wire location into a track point index.
func parsePoint(s string) (int, error) {
	point, err := strconv.Atoi(s)
	if err != nil || point < 0 || point >= engine.NumPoints {
		return 0, fmt.Errorf("invalid point %q", s)
	}
	return point, nil
}

// parseMove decodes a MoveRequest. The move kind follows from the
// endpoints: "bar" origins enter, "off" destinations bear off.
func parseMove(req MoveRequest) (engine.Move, error) {
	if req.From == locBar {
		to, err := parsePoint(req.To)
		if err != nil {
			return engine.Move{}, err
		}
		return engine.Move{Start: engine.BarPoint, End: to, Kind: engine.LeaveBar}, nil
	}

	from, err := parsePoint(req.From)
	if err != nil {
		return engine.Move{}, err
	}
	if req.To == locOff {
		return engine.Move{Start: from, End: engine.HomePoint, Kind: engine.BearOff}, nil
	}
	to, err := parsePoint(req.To)
	if err != nil {
		return engine.Move{}, err
	}
	return engine.Move{Start: from, End: to, Kind: engine.NormalMove}, nil
}

// parsePlayer decodes a player name.
func parsePlayer(s string) (engine.Player, error) {
	switch s {
	case engine.Player1.String():
		return engine.Player1, nil
	case engine.Player2.String():
		return engine.Player2, nil
	default:
		return 0, fmt.Errorf("invalid player %q", s)
	}
}

// moveDTOs converts a sequence for the wire.
func moveDTOs(seq engine.MoveSequence) []MoveDTO {
	out := make([]MoveDTO, len(seq))
	for i, m := range seq {
		out[i] = MoveDTO{
			From: formatLocation(m.Start),
			To:   formatLocation(m.End),
			Kind: m.Kind.String(),
		}
	}
	return out
}
