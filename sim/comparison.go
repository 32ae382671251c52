package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidOperatorToken is returned when a comparison token is not one of
// "<", ">", "<=", ">=", "=", "==".
var ErrInvalidOperatorToken = errors.New("invalid comparison operator")

// Comparison is the relational operator of a Decision.
type Comparison int

const (
	LessThan Comparison = iota
	GreaterThan
	LessEqual
	GreaterEqual
	Equal
)

// comparisonOrder is the order operators are offered in selection widgets.
var comparisonOrder = []Comparison{LessEqual, GreaterEqual, LessThan, GreaterThan, Equal}

// Comparisons returns all five operators. The returned slice is a copy.
func Comparisons() []Comparison {
	out := make([]Comparison, len(comparisonOrder))
	copy(out, comparisonOrder)
	return out
}

// ParseComparison maps a token to its operator. Both "=" and "==" parse to Equal.
func ParseComparison(token string) (Comparison, error) {
	switch token {
	case "<":
		return LessThan, nil
	case ">":
		return GreaterThan, nil
	case "<=":
		return LessEqual, nil
	case ">=":
		return GreaterEqual, nil
	case "=", "==":
		return Equal, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOperatorToken, token)
}

// String returns the canonical token. Equal renders as "==".
func (c Comparison) String() string {
	if !c.IsValid() {
		return fmt.Sprintf("Comparison(%d)", int(c))
	}
	switch c {
	case LessThan:
		return "<"
	case GreaterThan:
		return ">"
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	}
	return "=="
}

// Evaluate reports whether "a <op> b" holds. An invalid operator never holds.
func (c Comparison) Evaluate(a, b int) bool {
	if !c.IsValid() {
		return false
	}
	switch c {
	case LessThan:
		return a < b
	case GreaterThan:
		return a > b
	case LessEqual:
		return a <= b
	case GreaterEqual:
		return a >= b
	}
	return a == b
}

// IsValid reports whether c is one of the five defined operators.
func (c Comparison) IsValid() bool {
	return c >= LessThan && c <= Equal
}
