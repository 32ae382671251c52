// Package trace provides roll-trace recording for verbose dice evaluation.
// It has no dependencies on sim/ and stores pure data types.
package trace

// RollKind identifies which expression node produced a RollRecord.
type RollKind string

const (
	KindDie         RollKind = "die"
	KindDiceSet     RollKind = "dice_set"
	KindDecision    RollKind = "decision"
	KindDecisionSet RollKind = "decision_set"
)

// RollRecord captures the outcome of rolling a single expression node.
type RollRecord struct {
	Kind       RollKind
	Expression string // canonical text of the node, e.g. "3d6" or "d20"
	Value      int    // outcome contributed by the node

	// Die-only field; zero for other kinds.
	Sides int

	// Decision-only fields; zero for other kinds.
	Trigger   int  // value rolled on the decision dice
	Triggered bool // whether the comparison held and the payoff was rolled
}

// Recorder receives roll records. A nil Recorder means "not verbose".
type Recorder interface {
	Record(record RollRecord)
}
