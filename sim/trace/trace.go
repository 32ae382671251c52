package trace

// TraceLevel controls the verbosity of roll tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelRolls captures every node of every traced roll.
	TraceLevelRolls TraceLevel = "rolls"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:  true,
	TraceLevelRolls: true,
	"":              true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// RollTrace collects roll records in the order they were produced.
// Child nodes are recorded before the parent that sums them.
//
// Thread-safety: NOT thread-safe. Use one RollTrace per goroutine.
type RollTrace struct {
	Level   TraceLevel
	Records []RollRecord
}

// NewRollTrace creates a RollTrace ready for recording.
func NewRollTrace(level TraceLevel) *RollTrace {
	return &RollTrace{
		Level:   level,
		Records: make([]RollRecord, 0),
	}
}

// Record appends a roll record. A trace at TraceLevelNone drops everything.
func (rt *RollTrace) Record(record RollRecord) {
	if rt.Level != TraceLevelRolls {
		return
	}
	rt.Records = append(rt.Records, record)
}

// Recorder returns rt as a Recorder, or nil when tracing is disabled so
// callers take the non-verbose path.
func (rt *RollTrace) Recorder() Recorder {
	if rt == nil || rt.Level != TraceLevelRolls {
		return nil
	}
	return rt
}
