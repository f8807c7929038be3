package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SaharZo321/sahar-backgammon/pkg/engine"
)

// searchSlotTimeout bounds how long a WebSocket command waits for a
// search slot; commands are handled serially per connection, so waiting
// forever would wedge the whole channel.
const searchSlotTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins - configure properly in production
	},
}

// WSMessage is a client command on the game channel.
type WSMessage struct {
	Type    string          `json:"type"`              // "state", "roll", "move", "undo", "switch", "bot", "hint", "ping"
	ID      string          `json:"id"`                // request id for correlating responses
	Payload json.RawMessage `json:"payload,omitempty"` // type-specific payload
}

// WSResponse is a server message: a command result, a pushed state
// update, an error or a pong.
type WSResponse struct {
	Type    string `json:"type"`              // "result", "state", "error", "pong"
	ID      string `json:"id,omitempty"`      // echoed request id
	Payload any    `json:"payload,omitempty"` // response data
	Error   string `json:"error,omitempty"`   // error message if any
	Code    string `json:"code,omitempty"`    // error code if any
}

// wsClient is one connected WebSocket client, bound to a single game.
type wsClient struct {
	conn     *websocket.Conn
	handlers *Handlers
	game     *Game
	sendChan chan WSResponse
}

// WebSocket handles GET /api/games/{id}/ws. Every successful mutation of
// the game, by this client or anyone else, is pushed as a "state"
// message.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	g, ok := h.game(w, r)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &wsClient{conn: conn, handlers: h, game: g, sendChan: make(chan WSResponse, 256)}
	go client.writePump()

	updates, cancel := g.Subscribe()
	forwarderDone := make(chan struct{})
	stop := make(chan struct{})
	go func() {
		defer close(forwarderDone)
		for state := range updates {
			select {
			case client.sendChan <- WSResponse{Type: "state", Payload: state}:
			case <-stop:
				return
			}
		}
	}()

	client.readPump()

	close(stop)
	cancel()
	<-forwarderDone
	close(client.sendChan)
}

func (c *wsClient) writePump() {
	defer c.conn.Close()
	for msg := range c.sendChan {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (c *wsClient) readPump() {
	defer c.conn.Close()
	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		c.handleMessage(msg)
	}
}

func (c *wsClient) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "state":
		c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: c.game.Snapshot()}
	case "roll":
		c.handleRoll(msg)
	case "move":
		c.handleMove(msg)
	case "undo":
		c.handleCommand(msg, func(s *engine.GameSession) error { return s.Undo() })
	case "switch":
		c.handleCommand(msg, func(s *engine.GameSession) error {
			_, err := s.SwitchTurn()
			return err
		})
	case "bot":
		c.handleBot(msg)
	case "hint":
		c.handleHint(msg)
	case "ping":
		c.sendChan <- WSResponse{Type: "pong", ID: msg.ID}
	default:
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "unknown message type", Code: "bad_request"}
	}
}

// sendError maps an engine error onto a WebSocket error message.
func (c *wsClient) sendError(id string, err error) {
	code := "bad_request"
	switch {
	case errors.Is(err, engine.ErrIllegalMove):
		code = "illegal_move"
	case errors.Is(err, engine.ErrEmptyHistory):
		code = "empty_history"
	case errors.Is(err, engine.ErrPrematureQuery):
		code = "premature_query"
	case errors.Is(err, engine.ErrGameOver):
		code = "game_over"
	}
	c.sendChan <- WSResponse{Type: "error", ID: id, Error: err.Error(), Code: code}
}

// handleCommand runs a mutation and answers with the resulting state.
// The state broadcast reaches this client too; the "result" reply is
// what correlates it with the request id.
func (c *wsClient) handleCommand(msg WSMessage, fn func(*engine.GameSession) error) {
	if err := c.game.Do(fn); err != nil {
		c.sendError(msg.ID, err)
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: c.game.Snapshot()}
}

func (c *wsClient) handleRoll(msg WSMessage) {
	var resp DiceResponse
	err := c.game.Do(func(s *engine.GameSession) error {
		dice, err := s.Roll()
		if err != nil {
			return err
		}
		resp = DiceResponse{
			Dice:          dice,
			RemainingDice: s.RemainingDice(),
			CurrentPlayer: s.CurrentPlayer().String(),
			TurnDone:      s.IsTurnDone(),
		}
		return nil
	})
	if err != nil {
		c.sendError(msg.ID, err)
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: resp}
}

func (c *wsClient) handleMove(msg WSMessage) {
	var req MoveRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload", Code: "bad_request"}
		return
	}
	move, err := parseMove(req)
	if err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: err.Error(), Code: "bad_request"}
		return
	}
	c.handleCommand(msg, func(s *engine.GameSession) error { return s.Execute(move) })
}

func (c *wsClient) handleBot(msg WSMessage) {
	if err := c.handlers.pool.AcquireSearchWithTimeout(searchSlotTimeout); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "server busy", Code: "busy"}
		return
	}
	defer c.handlers.pool.ReleaseSearch()

	var played engine.MoveSequence
	err := c.game.Do(func(s *engine.GameSession) error {
		if err := requirePlayableTurn(s); err != nil {
			return err
		}
		seq := c.handlers.searcher.BestSequence(s.Board(), s.CurrentPlayer(), s.RemainingDice())
		for _, m := range seq {
			if err := s.Execute(m); err != nil {
				return err
			}
		}
		played = seq
		return nil
	})
	if err != nil {
		c.sendError(msg.ID, err)
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: BotResponse{
		Moves:    moveDTOs(played),
		Notation: played.String(),
		State:    c.game.Snapshot(),
	}}
}

func (c *wsClient) handleHint(msg WSMessage) {
	if err := c.handlers.pool.AcquireSearchWithTimeout(searchSlotTimeout); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "server busy", Code: "busy"}
		return
	}
	defer c.handlers.pool.ReleaseSearch()

	var board engine.Board
	var player engine.Player
	var dice []int
	var stateErr error
	c.game.View(func(s *engine.GameSession) {
		stateErr = requirePlayableTurn(s)
		board = s.Board()
		player = s.CurrentPlayer()
		dice = s.RemainingDice()
	})
	if stateErr != nil {
		c.sendError(msg.ID, stateErr)
		return
	}

	ranked := c.handlers.searcher.RankSequences(board, player, dice, 5)
	hints := make([]HintDTO, len(ranked))
	for i, rs := range ranked {
		hints[i] = HintDTO{Moves: moveDTOs(rs.Sequence), Score: rs.Score, Notation: rs.Sequence.String()}
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: HintResponse{Hints: hints}}
}
