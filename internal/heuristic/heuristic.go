// Package heuristic scores board positions for the move-sequence search.
// A position's score is the dot product of a small feature vector with a
// weight vector; higher is better for the evaluated player.
package heuristic

import (
	"gonum.org/v1/gonum/floats"

	"github.com/SaharZo321/sahar-backgammon/pkg/engine"
)

// Feature indices into the weight vector.
const (
	FeatOwnPips = iota // own pip count (racing progress, lower is better)
	FeatOppPips        // opponent pip count (higher is better)
	FeatOwnBlots       // own single exposed checkers
	FeatHomePoints     // own home-quadrant points held with 2+ checkers
	NumFeatures
)

// DefaultWeights returns the standard weight vector. Pips dominate the
// race; a blot costs roughly the pips lost to an average hit; a made home
// point pays off when the opponent sits on the bar.
func DefaultWeights() []float64 {
	w := make([]float64, NumFeatures)
	w[FeatOwnPips] = -1.0
	w[FeatOppPips] = 1.0
	w[FeatOwnBlots] = -10.0
	w[FeatHomePoints] = 6.0
	return w
}

// Features extracts the feature vector for a player.
func Features(b engine.Board, p engine.Player) []float64 {
	f := make([]float64, NumFeatures)
	f[FeatOwnPips] = float64(b.PipCount(p))
	f[FeatOppPips] = float64(b.PipCount(p.Opponent()))
	f[FeatOwnBlots] = float64(b.Blots(p))
	f[FeatHomePoints] = float64(b.HomeBoardPoints(p))
	return f
}

// Score evaluates a position for a player with the given weights.
// Weights must have NumFeatures entries.
func Score(b engine.Board, p engine.Player, weights []float64) float64 {
	return floats.Dot(Features(b, p), weights)
}
