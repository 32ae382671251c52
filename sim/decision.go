package sim

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/dice-sim/dice-sim/sim/trace"
)

const emptyDecisionSetText = "<empty DecisionSet>"

// Decision is a conditional roll: roll DecisionDice, compare the result to
// DecisionValue with Operator, and roll Dice only when the comparison holds.
// A failed comparison yields 0.
type Decision struct {
	operator      Comparison
	decisionDice  DiceSet
	decisionValue int
	dice          DiceSet
}

// NewDecision composes a conditional roll from already-parsed parts.
// A negative decisionValue is clamped to 0, like a DiceSet offset.
func NewDecision(op Comparison, decisionDice DiceSet, decisionValue int, dice DiceSet) Decision {
	return Decision{
		operator:      op,
		decisionDice:  decisionDice,
		decisionValue: max(decisionValue, 0),
		dice:          dice,
	}
}

// EmptyDecision is the blank row an editor starts from.
func EmptyDecision() Decision {
	return NewDecision(LessThan, EmptyDiceSet(), 0, EmptyDiceSet())
}

func (d Decision) Operator() Comparison  { return d.operator }
func (d Decision) DecisionDice() DiceSet { return d.decisionDice }
func (d Decision) DecisionValue() int    { return d.decisionValue }
func (d Decision) Dice() DiceSet         { return d.dice }

// WithOperator returns a copy of d using op.
func (d Decision) WithOperator(op Comparison) Decision {
	d.operator = op
	return d
}

// WithDecisionDice returns a copy of d rolling dice as the trigger.
func (d Decision) WithDecisionDice(dice DiceSet) Decision {
	d.decisionDice = dice
	return d
}

// WithDecisionValue returns a copy of d comparing against value, clamped to 0.
func (d Decision) WithDecisionValue(value int) Decision {
	d.decisionValue = max(value, 0)
	return d
}

// WithDice returns a copy of d paying out dice.
func (d Decision) WithDice(dice DiceSet) Decision {
	d.dice = dice
	return d
}

func (d Decision) Roll(rng *rand.Rand, rec trace.Recorder) int {
	trigger := d.decisionDice.Roll(rng, rec)
	triggered := d.operator.Evaluate(trigger, d.decisionValue)
	value := 0
	if triggered {
		value = d.dice.Roll(rng, rec)
	}
	if rec != nil {
		rec.Record(trace.RollRecord{
			Kind:       trace.KindDecision,
			Expression: d.String(),
			Value:      value,
			Trigger:    trigger,
			Triggered:  triggered,
		})
	}
	return value
}

// Max is the payoff's bound, whether or not the condition can ever hold.
func (d Decision) Max() int {
	return d.dice.Max()
}

func (d Decision) String() string {
	return fmt.Sprintf("if %s %s %d then %s", d.decisionDice, d.operator, d.decisionValue, d.dice)
}

// DecisionSet sums the outcomes of its decisions.
type DecisionSet struct {
	decisions []Decision
}

// NewDecisionSet creates a set holding a copy of decisions.
func NewDecisionSet(decisions ...Decision) DecisionSet {
	out := make([]Decision, len(decisions))
	copy(out, decisions)
	return DecisionSet{decisions: out}
}

// Decisions returns a copy of the members.
func (s DecisionSet) Decisions() []Decision {
	out := make([]Decision, len(s.decisions))
	copy(out, s.decisions)
	return out
}

// Len returns the number of decisions.
func (s DecisionSet) Len() int {
	return len(s.decisions)
}

// Append returns a copy of s with d added at the end.
func (s DecisionSet) Append(d Decision) DecisionSet {
	return NewDecisionSet(append(s.Decisions(), d)...)
}

// With returns a copy of s with the i-th decision replaced.
func (s DecisionSet) With(i int, d Decision) (DecisionSet, error) {
	if i < 0 || i >= len(s.decisions) {
		return s, fmt.Errorf("decision index %d out of range [0, %d)", i, len(s.decisions))
	}
	out := s.Decisions()
	out[i] = d
	return DecisionSet{decisions: out}, nil
}

func (s DecisionSet) Roll(rng *rand.Rand, rec trace.Recorder) int {
	value := 0
	for _, d := range s.decisions {
		value += d.Roll(rng, rec)
	}
	if rec != nil {
		rec.Record(trace.RollRecord{Kind: trace.KindDecisionSet, Expression: s.String(), Value: value})
	}
	return value
}

func (s DecisionSet) Max() int {
	total := 0
	for _, d := range s.decisions {
		total += d.Max()
	}
	return total
}

func (s DecisionSet) String() string {
	if len(s.decisions) == 0 {
		return emptyDecisionSetText
	}
	parts := make([]string, len(s.decisions))
	for i, d := range s.decisions {
		parts[i] = d.String()
	}
	return strings.Join(parts, ",")
}
