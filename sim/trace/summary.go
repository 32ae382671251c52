package trace

// TraceSummary aggregates statistics from a RollTrace.
type TraceSummary struct {
	TotalRecords   int
	DiceRolled     int
	FaceCounts     map[int]int // die sides → number of dice of that size rolled
	Decisions      int
	TriggeredCount int
	TriggerRate    float64 // TriggeredCount / Decisions; 0 when no decisions
}

// Summarize computes aggregate statistics from a RollTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(rt *RollTrace) *TraceSummary {
	summary := &TraceSummary{
		FaceCounts: make(map[int]int),
	}
	if rt == nil {
		return summary
	}

	summary.TotalRecords = len(rt.Records)
	for _, r := range rt.Records {
		switch r.Kind {
		case KindDie:
			summary.DiceRolled++
			summary.FaceCounts[r.Sides]++
		case KindDecision:
			summary.Decisions++
			if r.Triggered {
				summary.TriggeredCount++
			}
		}
	}
	if summary.Decisions > 0 {
		summary.TriggerRate = float64(summary.TriggeredCount) / float64(summary.Decisions)
	}
	return summary
}
