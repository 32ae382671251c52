package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDiceSet_Canonical(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"single", "1d20", "1d20"},
		{"merge same sides", "2d6,1d6", "3d6"},
		{"mixed sides sorted", "1d8,1d6", "1d6,1d8"},
		{"offset honored", "1d4+2", "1d4+2"},
		{"offsets summed", "1d3+2,2d8+3", "1d3,2d8+5"},
		{"junk between terms", "roll 2d6 and 1d4!", "1d4,2d6"},
		{"no separator needed", "1d6 1d6", "2d6"},
		{"degenerate sides", "1d1", "<empty DiceSet>"},
		{"zero count", "0d6", "<empty DiceSet>"},
		{"degenerate drops offset", "1d1+5", "<empty DiceSet>"},
		{"empty", "", "<empty DiceSet>"},
		{"garbage", "hello d20 3d", "<empty DiceSet>"},
		{"dangling plus", "1d6+", "1d6"},
		{"leftmost non-overlapping", "1d2d6", "1d2"},
		{"too many dice ignored", "100000d6,1d4", "1d4"},
		{"overflow ignored", "99999999999999999999999d6", "<empty DiceSet>"},
		{"overflowed count does not leak a suffix", "100000000000000000000001d6", "<empty DiceSet>"},
		{"offset at cap kept", "1d6+1000000", "1d6+1000000"},
		{"offset above cap drops term", "1d6+1000001,1d4", "1d4"},
		{"offset near int max drops term", "1d6+9223372036854775806", "<empty DiceSet>"},
		{"overflowed offset does not leak a suffix", "1d6+99999999999999999999999,1d4", "1d4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDiceSet(tt.text).String())
		})
	}
}

func TestParseDiceSet_OffsetAffectsRange(t *testing.T) {
	set := ParseDiceSet("2d6+3")
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, 3, set.Offset())
	assert.Equal(t, 15, set.Max())
}

func TestParseDiceSet_DescribeRoundTrip(t *testing.T) {
	for _, text := range []string{"1d20", "3d6", "1d4,2d8+5", "2d6,1d6,1d12+1"} {
		first := ParseDiceSet(text).String()
		second := ParseDiceSet(first).String()
		assert.Equal(t, first, second, "round trip of %q", text)
	}
}

func TestScanTerms(t *testing.T) {
	terms := ScanTerms("x10d20+4,2d6 3d1")
	assert.Equal(t, []Term{
		{Count: 10, Sides: 20, Offset: 4},
		{Count: 2, Sides: 6},
		{Count: 3, Sides: 1},
	}, terms)
	assert.Empty(t, ScanTerms("nothing here"))
}

func TestParseDiceSet_HugeOffset_MaxStaysConsistentWithRoll(t *testing.T) {
	// GIVEN notation whose offset would overflow the bound
	set := ParseDiceSet("1d6+9223372036854775806")

	// THEN the term is dropped and simulation cannot land outside the histogram
	assert.True(t, set.IsEmpty())
	assert.Zero(t, set.Max())
	assert.NotPanics(t, func() {
		SimulateSeeded(set, 10, NewSimulationKey(1))
	})
}
