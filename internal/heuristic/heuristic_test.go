package heuristic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaharZo321/sahar-backgammon/pkg/engine"
)

func TestScoreSymmetricAtStart(t *testing.T) {
	b := engine.NewBoard()
	w := DefaultWeights()

	s1 := Score(b, engine.Player1, w)
	s2 := Score(b, engine.Player2, w)
	assert.InDelta(t, s1, s2, 1e-9, "the starting position is symmetric")
}

func TestScoreRewardsRacingProgress(t *testing.T) {
	b := engine.NewBoard()
	w := DefaultWeights()
	before := Score(b, engine.Player1, w)

	// A safe 11 -> 16 hop reduces player1's pips by 5 without new blots.
	after, err := engine.Apply(b, engine.Player1, engine.Move{Start: 11, End: 16, Kind: engine.NormalMove})
	require.NoError(t, err)
	// 16 already held a player1 checker, so no blot appears either way.
	assert.Greater(t, Score(after, engine.Player1, w), before)
}

func TestScorePenalizesBlots(t *testing.T) {
	var safe engine.Board
	safe.Points[10] = engine.Point{Owner: engine.Player1, Count: 2}
	safe.Points[18] = engine.Point{Owner: engine.Player1, Count: 13}
	safe.Points[5] = engine.Point{Owner: engine.Player2, Count: 15}

	exposed := safe
	exposed.Points[10] = engine.Point{}
	exposed.Points[9] = engine.Point{Owner: engine.Player1, Count: 1}
	exposed.Points[11] = engine.Point{Owner: engine.Player1, Count: 1}

	w := DefaultWeights()
	// Same pip total, but two blots instead of none.
	require.Equal(t, safe.PipCount(engine.Player1), exposed.PipCount(engine.Player1))
	assert.Less(t, Score(exposed, engine.Player1, w), Score(safe, engine.Player1, w))
}

func TestScoreRewardsHomeBoardPoints(t *testing.T) {
	var weak engine.Board
	weak.Points[10] = engine.Point{Owner: engine.Player1, Count: 4}
	weak.Points[12] = engine.Point{Owner: engine.Player1, Count: 11}
	weak.Points[0] = engine.Point{Owner: engine.Player2, Count: 15}

	strong := weak
	strong.Points[10] = engine.Point{Owner: engine.Player1, Count: 2}
	strong.Points[20] = engine.Point{Owner: engine.Player1, Count: 2}
	strong.Points[12] = engine.Point{Owner: engine.Player1, Count: 11}

	w := DefaultWeights()
	// The strong layout trades pips for a made home-board point; crank the
	// home weight to isolate the feature.
	w[FeatOwnPips] = 0
	assert.Greater(t, Score(strong, engine.Player1, w), Score(weak, engine.Player1, w))
}

func TestFeaturesShape(t *testing.T) {
	f := Features(engine.NewBoard(), engine.Player1)
	require.Len(t, f, NumFeatures)
	assert.Equal(t, 167.0, f[FeatOwnPips])
	assert.Equal(t, 167.0, f[FeatOppPips])
	assert.Equal(t, 0.0, f[FeatOwnBlots])
}
