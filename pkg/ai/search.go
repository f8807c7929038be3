// Package ai selects full-turn move sequences for the automated player.
// It enumerates every legal sequence over the die orderings, applies each
// to a scratch board and keeps the best-scoring maximal sequence.
package ai

import (
	"runtime"
	"sort"
	"sync"

	"github.com/SaharZo321/sahar-backgammon/internal/heuristic"
	"github.com/SaharZo321/sahar-backgammon/pkg/engine"
)

// Searcher finds the best move sequence for a roll. It never touches a
// live session: callers pass board copies and the search works on scratch
// boards throughout, so one Searcher may serve concurrent games.
type Searcher struct {
	weights []float64
	workers int
	cache   *scoreCache
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithWeights replaces the heuristic weight vector.
func WithWeights(w []float64) Option {
	return func(s *Searcher) { s.weights = w }
}

// WithWorkers caps the goroutines exploring first-move branches
// (default GOMAXPROCS).
func WithWorkers(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithCacheSize sets the score cache size; zero disables caching.
func WithCacheSize(size uint32) Option {
	return func(s *Searcher) {
		if size == 0 {
			s.cache = nil
			return
		}
		s.cache = newScoreCache(size)
	}
}

// New creates a Searcher with default weights, a worker per core and a
// default-sized score cache.
func New(opts ...Option) *Searcher {
	s := &Searcher{
		weights: heuristic.DefaultWeights(),
		workers: runtime.GOMAXPROCS(0),
		cache:   newScoreCache(DefaultCacheSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScoredSequence is a candidate turn with its heuristic score.
type ScoredSequence struct {
	Sequence engine.MoveSequence
	Score    float64
}

// BestSequence returns the best full-turn sequence for the dice values
// (already doubles-expanded). Sequences consuming fewer dice than the
// longest achievable are discarded: a play using more dice always
// dominates. Ties on score break to the lexicographically smallest
// sequence by (start, end, kind), so results are reproducible.
//
// An empty sequence means the turn is forfeit; that is a valid result,
// not an error.
func (s *Searcher) BestSequence(b engine.Board, p engine.Player, dice []int) engine.MoveSequence {
	cands := s.maximalCandidates(b, p, dice)
	if len(cands) == 0 {
		return engine.MoveSequence{}
	}

	best := cands[0]
	bestScore := s.score(best.board, p)
	for _, c := range cands[1:] {
		sc := s.score(c.board, p)
		if sc > bestScore || (sc == bestScore && lessSequence(c.seq, best.seq)) {
			best = c
			bestScore = sc
		}
	}
	return best.seq
}

// RankSequences returns the top n maximal sequences ordered by score,
// best first. n <= 0 returns all of them.
func (s *Searcher) RankSequences(b engine.Board, p engine.Player, dice []int, n int) []ScoredSequence {
	cands := s.maximalCandidates(b, p, dice)
	if len(cands) == 0 {
		return nil
	}

	ranked := make([]ScoredSequence, len(cands))
	for i, c := range cands {
		ranked[i] = ScoredSequence{Sequence: c.seq, Score: s.score(c.board, p)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return lessSequence(ranked[i].Sequence, ranked[j].Sequence)
	})

	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// candidate is a terminal sequence and the board it produces.
type candidate struct {
	seq   engine.MoveSequence
	board engine.Board
}

// maximalCandidates enumerates all terminal sequences, keeps only those of
// maximal length and deduplicates sequences that reach the same position.
func (s *Searcher) maximalCandidates(b engine.Board, p engine.Player, dice []int) []candidate {
	all := s.enumerate(b, p, dice)

	maxLen := 0
	for _, c := range all {
		if len(c.seq) > maxLen {
			maxLen = len(c.seq)
		}
	}
	if maxLen == 0 {
		return nil
	}

	seen := make(map[engine.BoardKey]bool)
	kept := all[:0]
	for _, c := range all {
		if len(c.seq) != maxLen {
			continue
		}
		key := c.board.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, c)
	}
	return kept
}

// enumerate fans the first-level branches (first move per die value) out
// across workers; each branch is completed sequentially on scratch boards.
// Results keep branch order, so the whole enumeration is deterministic.
func (s *Searcher) enumerate(b engine.Board, p engine.Player, dice []int) []candidate {
	type branch struct {
		move engine.Move
		rest []int
	}
	var branches []branch
	for _, die := range distinctAscending(dice) {
		for _, m := range engine.LegalMoves(b, p, die) {
			branches = append(branches, branch{move: m, rest: removeOne(dice, die)})
		}
	}
	if len(branches) == 0 {
		return nil
	}

	results := make([][]candidate, len(branches))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for i, br := range branches {
		wg.Add(1)
		go func(i int, br branch) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			next, err := engine.Apply(b, p, br.move)
			if err != nil {
				return
			}
			var out []candidate
			collect(next, p, br.rest, engine.MoveSequence{br.move}, &out)
			results[i] = out
		}(i, br)
	}
	wg.Wait()

	var all []candidate
	for _, r := range results {
		all = append(all, r...)
	}
	return all
}

// collect extends the prefix with every legal continuation, re-querying
// the generator after each applied move since a move can block or unblock
// later destinations. A node with no continuation is terminal.
func collect(b engine.Board, p engine.Player, dice []int, prefix engine.MoveSequence, out *[]candidate) {
	extended := false
	for _, die := range distinctAscending(dice) {
		for _, m := range engine.LegalMoves(b, p, die) {
			next, err := engine.Apply(b, p, m)
			if err != nil {
				continue
			}
			seq := make(engine.MoveSequence, len(prefix)+1)
			copy(seq, prefix)
			seq[len(prefix)] = m
			collect(next, p, removeOne(dice, die), seq, out)
			extended = true
		}
	}
	if !extended {
		*out = append(*out, candidate{seq: prefix, board: b})
	}
}

// score evaluates a resulting board for the mover, via the cache when
// enabled.
func (s *Searcher) score(b engine.Board, p engine.Player) float64 {
	if s.cache == nil {
		return heuristic.Score(b, p, s.weights)
	}
	key := b.Key()
	if v, ok := s.cache.lookup(key, p); ok {
		return v
	}
	v := heuristic.Score(b, p, s.weights)
	s.cache.add(key, p, v)
	return v
}

// lessSequence is the deterministic tie-break: lexicographic comparison
// by (start, end, kind).
func lessSequence(a, b engine.MoveSequence) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		if a[i].Start != b[i].Start {
			return a[i].Start < b[i].Start
		}
		if a[i].End != b[i].End {
			return a[i].End < b[i].End
		}
		if a[i].Kind != b[i].Kind {
			return a[i].Kind < b[i].Kind
		}
	}
	return len(a) < len(b)
}

// distinctAscending returns the sorted distinct die values.
func distinctAscending(dice []int) []int {
	seen := [7]bool{}
	for _, d := range dice {
		if d >= 1 && d <= 6 {
			seen[d] = true
		}
	}
	var out []int
	for d := 1; d <= 6; d++ {
		if seen[d] {
			out = append(out, d)
		}
	}
	return out
}

// removeOne returns dice minus one instance of die.
func removeOne(dice []int, die int) []int {
	out := make([]int, 0, len(dice)-1)
	removed := false
	for _, d := range dice {
		if !removed && d == die {
			removed = true
			continue
		}
		out = append(out, d)
	}
	return out
}
