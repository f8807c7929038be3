package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/SaharZo321/sahar-backgammon/pkg/ai"
	"github.com/SaharZo321/sahar-backgammon/pkg/engine"
)

// maxHints caps the candidate plays a hint request may ask for.
const maxHints = 20

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	registry *Registry
	searcher *ai.Searcher
	pool     *WorkerPool
	version  string
	log      zerolog.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(registry *Registry, searcher *ai.Searcher, pool *WorkerPool, version string, log zerolog.Logger) *Handlers {
	return &Handlers{
		registry: registry,
		searcher: searcher,
		pool:     pool,
		version:  version,
		log:      log,
	}
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Code: code})
}

// writeEngineError maps engine sentinel errors onto HTTP statuses.
// Illegal moves are a semantic rejection of a well-formed request (422);
// out-of-order operations conflict with the session state (409).
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrIllegalMove):
		writeError(w, http.StatusUnprocessableEntity, "illegal_move", err.Error())
	case errors.Is(err, engine.ErrEmptyHistory):
		writeError(w, http.StatusConflict, "empty_history", err.Error())
	case errors.Is(err, engine.ErrPrematureQuery):
		writeError(w, http.StatusConflict, "premature_query", err.Error())
	case errors.Is(err, engine.ErrGameOver):
		writeError(w, http.StatusConflict, "game_over", err.Error())
	default:
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
	}
}

// game resolves the {id} path segment to a live game, writing the error
// response itself when the lookup fails.
func (h *Handlers) game(w http.ResponseWriter, r *http.Request) (*Game, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid game id")
		return nil, false
	}
	g, ok := h.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "game not found")
		return nil, false
	}
	return g, true
}

// Health handles GET /api/health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.pool.Stats()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
		Games:   h.registry.Len(),
		Pool:    &stats,
	})
}

// CreateGame handles POST /api/games. The body is optional.
func (h *Handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
			return
		}
	}

	var opts []engine.SessionOption
	if req.StartingPlayer != "" {
		p, err := parsePlayer(req.StartingPlayer)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		opts = append(opts, engine.WithStartingPlayer(p))
	}
	if req.Seed != 0 {
		opts = append(opts, engine.WithRoller(engine.NewRoller(req.Seed)))
	}

	g := h.registry.Create(opts...)
	h.log.Info().Str("game", g.ID.String()).Msg("game created")
	writeJSON(w, http.StatusCreated, g.Snapshot())
}

// GetGame handles GET /api/games/{id}.
func (h *Handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	g, ok := h.game(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, g.Snapshot())
}

// DeleteGame handles DELETE /api/games/{id}.
func (h *Handlers) DeleteGame(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid game id")
		return
	}
	if !h.registry.Delete(id) {
		writeError(w, http.StatusNotFound, "not_found", "game not found")
		return
	}
	h.log.Info().Str("game", id.String()).Msg("game deleted")
	w.WriteHeader(http.StatusNoContent)
}

// Roll handles POST /api/games/{id}/roll: the opening roll. Later turns
// roll automatically on switch.
func (h *Handlers) Roll(w http.ResponseWriter, r *http.Request) {
	g, ok := h.game(w, r)
	if !ok {
		return
	}
	if err := h.pool.AcquireCommand(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "busy", "server busy")
		return
	}
	defer h.pool.ReleaseCommand()

	var resp DiceResponse
	err := g.Do(func(s *engine.GameSession) error {
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
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Moves handles GET /api/games/{id}/moves. Without a query it lists the
// movable origins; with ?from= it lists the destinations from that
// origin. ?from=bar also reports the open entry points.
func (h *Handlers) Moves(w http.ResponseWriter, r *http.Request) {
	g, ok := h.game(w, r)
	if !ok {
		return
	}

	from := r.URL.Query().Get("from")
	var resp MovesResponse
	var parseErr error
	g.View(func(s *engine.GameSession) {
		switch from {
		case "":
			origins := s.MovableOrigins()
			resp.Origins = make([]string, len(origins))
			for i, o := range origins {
				resp.Origins[i] = formatLocation(o)
			}
		case locBar:
			resp.EntryPoints = s.LegalEntryPoints()
			dests := s.PossibleDestinations(engine.BarPoint)
			resp.Destinations = make([]string, len(dests))
			for i, d := range dests {
				resp.Destinations[i] = formatLocation(d)
			}
		default:
			origin, err := parsePoint(from)
			if err != nil {
				parseErr = err
				return
			}
			dests := s.PossibleDestinations(origin)
			resp.Destinations = make([]string, len(dests))
			for i, d := range dests {
				resp.Destinations[i] = formatLocation(d)
			}
		}
	})
	if parseErr != nil {
		writeError(w, http.StatusBadRequest, "bad_request", parseErr.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Move handles POST /api/games/{id}/moves.
func (h *Handlers) Move(w http.ResponseWriter, r *http.Request) {
	g, ok := h.game(w, r)
	if !ok {
		return
	}
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	move, err := parseMove(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	if err := h.pool.AcquireCommand(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "busy", "server busy")
		return
	}
	defer h.pool.ReleaseCommand()

	if err := g.Do(func(s *engine.GameSession) error { return s.Execute(move) }); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g.Snapshot())
}

// Undo handles POST /api/games/{id}/undo.
func (h *Handlers) Undo(w http.ResponseWriter, r *http.Request) {
	g, ok := h.game(w, r)
	if !ok {
		return
	}
	if err := g.Do(func(s *engine.GameSession) error { return s.Undo() }); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g.Snapshot())
}

// Switch handles POST /api/games/{id}/switch: it ends the turn, hands
// the roll to the opponent and returns their fresh dice.
func (h *Handlers) Switch(w http.ResponseWriter, r *http.Request) {
	g, ok := h.game(w, r)
	if !ok {
		return
	}

	var resp DiceResponse
	err := g.Do(func(s *engine.GameSession) error {
		dice, err := s.SwitchTurn()
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
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Bot handles POST /api/games/{id}/bot: the engine plays the rest of the
// current turn with the best sequence it finds.
func (h *Handlers) Bot(w http.ResponseWriter, r *http.Request) {
	g, ok := h.game(w, r)
	if !ok {
		return
	}
	if err := h.pool.AcquireSearch(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "busy", "server busy")
		return
	}
	defer h.pool.ReleaseSearch()

	var played engine.MoveSequence
	err := g.Do(func(s *engine.GameSession) error {
		if err := requirePlayableTurn(s); err != nil {
			return err
		}
		seq := h.searcher.BestSequence(s.Board(), s.CurrentPlayer(), s.RemainingDice())
		for _, m := range seq {
			if err := s.Execute(m); err != nil {
				return err
			}
		}
		played = seq
		return nil
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	h.log.Debug().Str("game", g.ID.String()).Stringer("play", played).Msg("bot played")
	writeJSON(w, http.StatusOK, BotResponse{
		Moves:    moveDTOs(played),
		Notation: played.String(),
		State:    g.Snapshot(),
	})
}

// Hint handles GET /api/games/{id}/hint?n=: ranked candidate plays for
// the player on roll, without touching the game.
func (h *Handlers) Hint(w http.ResponseWriter, r *http.Request) {
	g, ok := h.game(w, r)
	if !ok {
		return
	}
	n := 5
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > maxHints {
			writeError(w, http.StatusBadRequest, "bad_request", "n must be between 1 and 20")
			return
		}
		n = v
	}

	if err := h.pool.AcquireSearch(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "busy", "server busy")
		return
	}
	defer h.pool.ReleaseSearch()

	var board engine.Board
	var player engine.Player
	var dice []int
	var stateErr error
	g.View(func(s *engine.GameSession) {
		stateErr = requirePlayableTurn(s)
		board = s.Board()
		player = s.CurrentPlayer()
		dice = s.RemainingDice()
	})
	if stateErr != nil {
		writeEngineError(w, stateErr)
		return
	}

	ranked := h.searcher.RankSequences(board, player, dice, n)
	hints := make([]HintDTO, len(ranked))
	for i, rs := range ranked {
		hints[i] = HintDTO{
			Moves:    moveDTOs(rs.Sequence),
			Score:    rs.Score,
			Notation: rs.Sequence.String(),
		}
	}
	writeJSON(w, http.StatusOK, HintResponse{Hints: hints})
}

// requirePlayableTurn rejects search requests outside an active turn.
func requirePlayableTurn(s *engine.GameSession) error {
	if s.IsGameOver() {
		return engine.ErrGameOver
	}
	if len(s.RemainingDice()) == 0 && !s.IsTurnDone() {
		return engine.ErrPrematureQuery
	}
	return nil
}
