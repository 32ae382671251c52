package sim

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/dice-sim/dice-sim/sim/trace"
)

const emptyDiceSetText = "<empty DiceSet>"

// DiceSet is an additive combination of dice plus a flat, non-negative offset.
// Member order only reflects construction; it never affects semantics.
type DiceSet struct {
	dice   []Die
	offset int
}

// EmptyDiceSet returns a set with no dice and no offset.
func EmptyDiceSet() DiceSet {
	return DiceSet{}
}

// NewDiceSet builds count dice of the given sides. Sides <= 1 or count <= 0
// yields the empty set: degenerate dice are elided, never stored.
func NewDiceSet(count, sides int) DiceSet {
	if sides <= 1 || count <= 0 {
		return DiceSet{}
	}
	dice := make([]Die, count)
	for i := range dice {
		dice[i] = Die{sides: sides}
	}
	return DiceSet{dice: dice}
}

// ConcatDiceSets flattens the dice of every set into one, summing offsets.
func ConcatDiceSets(sets ...DiceSet) DiceSet {
	n := 0
	for _, s := range sets {
		n += len(s.dice)
	}
	out := DiceSet{dice: make([]Die, 0, n)}
	for _, s := range sets {
		out.dice = append(out.dice, s.dice...)
		out.offset += s.offset
	}
	return out
}

// Dice returns a copy of the member dice.
func (s DiceSet) Dice() []Die {
	out := make([]Die, len(s.dice))
	copy(out, s.dice)
	return out
}

// Len returns the number of dice.
func (s DiceSet) Len() int {
	return len(s.dice)
}

// IsEmpty reports whether the set has neither dice nor an offset.
func (s DiceSet) IsEmpty() bool {
	return len(s.dice) == 0 && s.offset == 0
}

// Offset returns the flat bonus added to every roll.
func (s DiceSet) Offset() int {
	return s.offset
}

// WithOffset returns a copy of s with the given offset. Negative offsets are
// clamped to zero so outcomes stay valid histogram indices.
func (s DiceSet) WithOffset(offset int) DiceSet {
	out := DiceSet{dice: s.Dice(), offset: max(offset, 0)}
	return out
}

func (s DiceSet) Roll(rng *rand.Rand, rec trace.Recorder) int {
	value := s.offset
	for _, d := range s.dice {
		value += d.Roll(rng, rec)
	}
	if rec != nil {
		rec.Record(trace.RollRecord{Kind: trace.KindDiceSet, Expression: s.String(), Value: value})
	}
	return value
}

// Max is the sum of member sides plus the offset. A set holding only an
// offset can roll exactly that offset, so its bound is offset+1.
func (s DiceSet) Max() int {
	if len(s.dice) == 0 {
		if s.offset == 0 {
			return 0
		}
		return s.offset + 1
	}
	total := s.offset
	for _, d := range s.dice {
		total += d.sides
	}
	return total
}

// String groups dice by face count in ascending order, e.g. "2d4,3d6+2".
func (s DiceSet) String() string {
	counts := make(map[int]int)
	for _, d := range s.dice {
		counts[d.sides]++
	}
	sides := make([]int, 0, len(counts))
	for k := range counts {
		sides = append(sides, k)
	}
	sort.Ints(sides)

	groups := make([]string, 0, len(sides))
	for _, k := range sides {
		groups = append(groups, fmt.Sprintf("%dd%d", counts[k], k))
	}

	text := strings.Join(groups, ",")
	if len(groups) == 0 {
		text = emptyDiceSetText
	}
	if s.offset > 0 {
		text += fmt.Sprintf("+%d", s.offset)
	}
	return text
}
