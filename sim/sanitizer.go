package sim

import "strings"

// SanitizerState is a position in the dice-notation grammar.
type SanitizerState int

const (
	StateStart  SanitizerState = iota // expecting the first digit of a count
	StateNumD                         // reading count digits
	StateD                            // just read 'd'
	StateSides                        // reading sides digits
	StatePlus                         // just read '+'
	StateOffset                       // reading offset digits
)

func (s SanitizerState) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateNumD:
		return "num_d"
	case StateD:
		return "d"
	case StateSides:
		return "sides"
	case StatePlus:
		return "plus"
	case StateOffset:
		return "offset"
	}
	return "unknown"
}

// Transition decides whether ch is accepted in state s. A rejected character
// leaves the state unchanged.
func (s SanitizerState) Transition(ch rune) (bool, SanitizerState) {
	digit := ch >= '0' && ch <= '9'
	switch s {
	case StateStart:
		if digit {
			return true, StateNumD
		}
	case StateNumD:
		if digit {
			return true, StateNumD
		}
		if ch == 'd' {
			return true, StateD
		}
	case StateD:
		if digit {
			return true, StateSides
		}
	case StateSides:
		switch {
		case digit:
			return true, StateSides
		case ch == '+':
			return true, StatePlus
		case ch == ',':
			return true, StateStart
		}
	case StatePlus:
		if digit {
			return true, StateOffset
		}
	case StateOffset:
		switch {
		case digit:
			return true, StateOffset
		case ch == ',':
			return true, StateStart
		}
	}
	return false, s
}

// Sanitizer filters keystroke input down to a valid prefix of dice notation.
// The zero value starts at StateStart.
type Sanitizer struct {
	state SanitizerState
	out   strings.Builder
}

// Feed offers one character and reports whether it was kept.
func (z *Sanitizer) Feed(ch rune) bool {
	keep, next := z.state.Transition(ch)
	if keep {
		z.out.WriteRune(ch)
	}
	z.state = next
	return keep
}

// State returns the current grammar position.
func (z *Sanitizer) State() SanitizerState {
	return z.state
}

// String returns everything accepted so far.
func (z *Sanitizer) String() string {
	return z.out.String()
}

// Sanitize runs text through a fresh Sanitizer, left to right, with no
// backtracking. Sanitize(Sanitize(x)) == Sanitize(x).
func Sanitize(text string) string {
	var z Sanitizer
	for _, ch := range text {
		z.Feed(ch)
	}
	return z.String()
}
