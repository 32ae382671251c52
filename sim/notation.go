package sim

import (
	"math"
	"strconv"
)

const (
	// MaxDicePerTerm caps the count of a single "NdS" term.
	MaxDicePerTerm = 10_000
	// MaxSides caps the face count of a single "NdS" term.
	MaxSides = 1_000_000
	// MaxOffset caps the "+k" bonus of a single term.
	MaxOffset = 1_000_000
)

// Term is one "count d sides [+offset]" token of dice notation.
type Term struct {
	Count  int
	Sides  int
	Offset int
}

// DiceSet builds the term's dice. A term whose dice are elided contributes
// nothing, offset included.
func (t Term) DiceSet() DiceSet {
	set := NewDiceSet(t.Count, t.Sides)
	if set.Len() == 0 {
		return EmptyDiceSet()
	}
	return set.WithOffset(t.Offset)
}

// ScanTerms finds every non-overlapping term in text, leftmost first.
// Text between terms is skipped. Terms with any number above its cap are
// dropped whole, offset included.
func ScanTerms(text string) []Term {
	var terms []Term
	for i := 0; i < len(text); {
		term, end, ok := lexTerm(text, i)
		if !ok {
			// No suffix of a digit run can start a term its prefix could not.
			i = skipDigits(text, i)
			continue
		}
		if term.Count <= MaxDicePerTerm && term.Sides <= MaxSides && term.Offset <= MaxOffset {
			terms = append(terms, term)
		}
		i = end
	}
	return terms
}

// ParseDiceSet extracts every term from text and flattens them into one set.
// It never fails: empty or unparseable text yields the empty set.
func ParseDiceSet(text string) DiceSet {
	terms := ScanTerms(text)
	sets := make([]DiceSet, len(terms))
	for i, t := range terms {
		sets[i] = t.DiceSet()
	}
	return ConcatDiceSets(sets...)
}

// lexTerm tries to read digits 'd' digits ('+' digits)? starting at pos.
// It returns the index just past the term.
func lexTerm(text string, pos int) (Term, int, bool) {
	count, i, ok := lexNumber(text, pos)
	if !ok || i >= len(text) || text[i] != 'd' {
		return Term{}, pos, false
	}
	sides, i, ok := lexNumber(text, i+1)
	if !ok {
		return Term{}, pos, false
	}
	term := Term{Count: count, Sides: sides}
	if i+1 < len(text) && text[i] == '+' && isDigit(text[i+1]) {
		offset, j, ok := lexNumber(text, i+1)
		if !ok {
			// too large for an int; the caller drops the term
			offset, j = math.MaxInt, skipDigits(text, i+1)
		}
		term.Offset = offset
		i = j
	}
	return term, i, true
}

// lexNumber reads a run of ASCII digits. A run too large for an int is
// rejected so the caller treats it as a non-match.
func lexNumber(text string, pos int) (int, int, bool) {
	i := pos
	for i < len(text) && isDigit(text[i]) {
		i++
	}
	if i == pos {
		return 0, pos, false
	}
	n, err := strconv.Atoi(text[pos:i])
	if err != nil {
		return 0, pos, false
	}
	return n, i, true
}

// skipDigits returns the index past the digit run at pos, or pos+1 when
// text[pos] is not a digit.
func skipDigits(text string, pos int) int {
	if !isDigit(text[pos]) {
		return pos + 1
	}
	for pos < len(text) && isDigit(text[pos]) {
		pos++
	}
	return pos
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
