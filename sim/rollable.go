package sim

import (
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/dice-sim/dice-sim/sim/trace"
)

// Rollable is the capability shared by Die, DiceSet, Decision and DecisionSet.
//
// Max is an exclusive upper bound: every value Roll can return satisfies
// 0 <= value < max(Max(), 1). The simulator sizes histograms with it.
// Implementations are immutable and safe to roll from many goroutines as long
// as each goroutine passes its own rng and recorder.
type Rollable interface {
	// Roll samples one outcome. rec may be nil; a non-nil rec receives one
	// record per node rolled (the verbose mode).
	Roll(rng *rand.Rand, rec trace.Recorder) int
	Max() int
	String() string
}

// Describe returns the canonical text of expr.
func Describe(expr Rollable) string {
	if expr == nil {
		return emptyDiceSetText
	}
	return expr.String()
}

// LogRecorder forwards roll records to a logrus logger at debug level.
type LogRecorder struct {
	logger logrus.FieldLogger
}

// NewLogRecorder creates a LogRecorder. A nil logger uses the standard logrus logger.
func NewLogRecorder(logger logrus.FieldLogger) *LogRecorder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogRecorder{logger: logger}
}

// Record logs a single roll record.
func (l *LogRecorder) Record(r trace.RollRecord) {
	entry := l.logger.WithFields(logrus.Fields{
		"kind":  r.Kind,
		"expr":  r.Expression,
		"value": r.Value,
	})
	if r.Kind == trace.KindDecision {
		entry = entry.WithFields(logrus.Fields{"trigger": r.Trigger, "triggered": r.Triggered})
	}
	entry.Debug("rolled")
}

// teeRecorder fans one record out to several recorders.
type teeRecorder []trace.Recorder

func (t teeRecorder) Record(r trace.RollRecord) {
	for _, rec := range t {
		rec.Record(r)
	}
}

// TeeRecorder combines recorders, skipping nil ones. Returns nil if none remain.
func TeeRecorder(recs ...trace.Recorder) trace.Recorder {
	var out teeRecorder
	for _, r := range recs {
		if r != nil {
			out = append(out, r)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}
