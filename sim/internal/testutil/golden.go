// Package testutil provides shared test infrastructure for the dice simulator.
// It holds the golden dataset of analytically known distributions and the
// tolerance assertions used to check simulated summaries against it.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is one expression with its exact mean and standard deviation.
// Exactly one of Dice or Decisions is set.
type GoldenTestCase struct {
	Name       string           `json:"name"`
	Dice       string           `json:"dice,omitempty"`
	Decisions  []GoldenDecision `json:"decisions,omitempty"`
	Seed       int64            `json:"seed"`
	Iterations int              `json:"iterations"`

	// Exact match
	Max int `json:"max"`

	// Analytic moments; simulated values must fall within tolerance
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// GoldenDecision is the textual form of one conditional roll.
type GoldenDecision struct {
	If    string `json:"if"`
	Op    string `json:"op"`
	Value int    `json:"value"`
	Then  string `json:"then"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	if len(dataset.Tests) == 0 {
		t.Fatal("Golden dataset has no test cases")
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
