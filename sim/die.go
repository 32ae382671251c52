package sim

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/dice-sim/dice-sim/sim/trace"
)

// ErrDegenerateDie is returned by NewDie for dice with fewer than two sides.
var ErrDegenerateDie = errors.New("degenerate die")

// Die is a single die with a fixed number of sides.
//
// A die samples uniformly from [1, sides-1]: the face equal to sides is never
// rolled. Max reports sides, which is therefore an exclusive bound.
// The zero Die is not valid; build dice with NewDie or NewDiceSet.
type Die struct {
	sides int
}

// NewDie creates a die. Dice with sides <= 1 contribute no randomness and are
// rejected with ErrDegenerateDie.
func NewDie(sides int) (Die, error) {
	if sides <= 1 {
		return Die{}, fmt.Errorf("%w: %d sides", ErrDegenerateDie, sides)
	}
	return Die{sides: sides}, nil
}

// Sides returns the face count.
func (d Die) Sides() int {
	return d.sides
}

func (d Die) Roll(rng *rand.Rand, rec trace.Recorder) int {
	v := 1 + rng.Intn(d.sides-1)
	if rec != nil {
		rec.Record(trace.RollRecord{Kind: trace.KindDie, Expression: d.String(), Value: v, Sides: d.sides})
	}
	return v
}

func (d Die) Max() int {
	return d.sides
}

func (d Die) String() string {
	return fmt.Sprintf("d%d", d.sides)
}
