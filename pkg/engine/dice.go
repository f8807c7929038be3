package engine

import (
	"math/rand"
	"time"
)

// Dice is one roll: two values in [1,6].
type Dice [2]int

// IsDoubles reports whether both dice show the same value.
func (d Dice) IsDoubles() bool {
	return d[0] == d[1]
}

// Expand returns the turn's usable die values: the pair, or the value
// repeated four times for doubles. This is the only place doubles are
// expanded; everything downstream works on the expanded list.
func (d Dice) Expand() []int {
	if d.IsDoubles() {
		return []int{d[0], d[0], d[0], d[0]}
	}
	return []int{d[0], d[1]}
}

// Roller produces dice rolls. The session takes a Roller so tests and
// replays can inject fixed rolls.
type Roller interface {
	Roll() Dice
}

type randRoller struct {
	rng *rand.Rand
}

// NewRoller returns a Roller backed by math/rand. A zero seed picks a
// time-based one.
func NewRoller(seed int64) Roller {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &randRoller{rng: rand.New(rand.NewSource(seed))}
}

func (r *randRoller) Roll() Dice {
	return Dice{r.rng.Intn(6) + 1, r.rng.Intn(6) + 1}
}

// FixedRoller replays a predetermined list of rolls, then repeats the last
// one. Useful in tests and scripted scenarios.
type FixedRoller struct {
	Rolls []Dice
	next  int
}

func (f *FixedRoller) Roll() Dice {
	if len(f.Rolls) == 0 {
		return Dice{1, 2}
	}
	d := f.Rolls[f.next]
	if f.next < len(f.Rolls)-1 {
		f.next++
	}
	return d
}
