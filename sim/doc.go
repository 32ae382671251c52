// Package sim provides dice expressions and the Monte Carlo engine that turns
// them into probability mass functions.
//
// # Reading Guide
//
// Start with these files to understand the model and the engine:
//   - rollable.go: the Rollable capability (Roll, Max, String)
//   - die.go, dice_set.go, decision.go: the four expression kinds
//   - simulate.go, parallel.go: sequential and fan-out/fan-in simulation
//   - pmf.go: the PMF result and its Summary
//   - scenario.go, run.go: YAML-described runs, used by the CLI and HTTP host
//
// # Text input
//
//   - sanitizer.go: keystroke filter keeping the longest valid prefix of
//     "NdS[+O][,NdS[+O]]*"
//   - notation.go: tolerant lexer turning text into a DiceSet
//
// # Histogram sizing
//
// Max is an exclusive bound on outcomes. A die with N sides samples
// [1, N-1] and reports N, so a histogram of max(Max(), 1) slots always has
// room for every outcome. Simulate panics if that ever fails to hold.
//
// # Randomness
//
// Every Roll takes an explicit *rand.Rand. PartitionedRNG derives one stream
// per worker from a SimulationKey so runs are reproducible by seed.
//
// Sub-packages:
//   - sim/trace/: roll-trace records for verbose rolls
//   - sim/internal/testutil/: golden dataset loader for tests
package sim
