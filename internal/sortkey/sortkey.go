// Package sortkey resolves entry ordering policies into comparators.
package sortkey

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ydayan/ftd/internal/types"
)

// ErrUnknownPolicy indicates an unrecognized sort policy name.
var ErrUnknownPolicy = errors.New("invalid sort key name")

// ErrMissingCustomComparator indicates the custom policy was requested
// without a comparator.
var ErrMissingCustomComparator = errors.New("custom sort comparator must be specified")

// errorUnknownPolicyFormat wraps ErrUnknownPolicy with the offending name.
const errorUnknownPolicyFormat = "%w: %s"

// Comparator reports whether firstName orders before secondName.
type Comparator func(firstName string, secondName string) bool

// Resolve maps a policy name to a comparator. The custom policy delegates
// to customComparator and is a configuration error when the comparator is
// nil. Resolution happens once, before traversal begins.
func Resolve(policyName string, customComparator Comparator) (Comparator, error) {
	switch policyName {
	case types.SortPolicyNatural:
		return NaturalLess, nil
	case types.SortPolicyLex:
		return lexicographicLess, nil
	case types.SortPolicyCustom:
		if customComparator == nil {
			return nil, ErrMissingCustomComparator
		}
		return customComparator, nil
	default:
		return nil, fmt.Errorf(errorUnknownPolicyFormat, ErrUnknownPolicy, policyName)
	}
}

// lexicographicLess orders names by their raw byte sequence.
func lexicographicLess(firstName string, secondName string) bool {
	return firstName < secondName
}

// nameRun is one maximal run of digit or non-digit characters.
type nameRun struct {
	text    string
	numeric bool
}

// NaturalLess orders names by comparing alternating digit and non-digit
// runs: digit runs compare by numeric value, other runs compare as text.
// Numeric comparison works on the digit runs themselves (length after
// stripping leading zeros, then digits), so it stays correct for numbers
// of arbitrary length. A digit run orders before a non-digit run.
func NaturalLess(firstName string, secondName string) bool {
	firstRuns := splitRuns(firstName)
	secondRuns := splitRuns(secondName)

	commonLength := len(firstRuns)
	if len(secondRuns) < commonLength {
		commonLength = len(secondRuns)
	}

	for runIndex := 0; runIndex < commonLength; runIndex++ {
		firstRun := firstRuns[runIndex]
		secondRun := secondRuns[runIndex]

		if firstRun.numeric != secondRun.numeric {
			return firstRun.numeric
		}

		if firstRun.numeric {
			comparison := compareDigitRuns(firstRun.text, secondRun.text)
			if comparison != 0 {
				return comparison < 0
			}
			continue
		}

		if firstRun.text != secondRun.text {
			return firstRun.text < secondRun.text
		}
	}

	return len(firstRuns) < len(secondRuns)
}

// splitRuns slices a name into maximal digit and non-digit runs.
func splitRuns(name string) []nameRun {
	var runs []nameRun
	runStart := 0
	for characterIndex := 1; characterIndex < len(name); characterIndex++ {
		if isDigit(name[characterIndex]) != isDigit(name[runStart]) {
			runs = append(runs, nameRun{text: name[runStart:characterIndex], numeric: isDigit(name[runStart])})
			runStart = characterIndex
		}
	}
	if runStart < len(name) {
		runs = append(runs, nameRun{text: name[runStart:], numeric: isDigit(name[runStart])})
	}
	return runs
}

// compareDigitRuns compares two digit runs by numeric value. Runs with
// equal value but different leading-zero counts tie-break on raw text so
// the ordering stays total.
func compareDigitRuns(firstRun string, secondRun string) int {
	firstTrimmed := strings.TrimLeft(firstRun, "0")
	secondTrimmed := strings.TrimLeft(secondRun, "0")

	if len(firstTrimmed) != len(secondTrimmed) {
		if len(firstTrimmed) < len(secondTrimmed) {
			return -1
		}
		return 1
	}
	if firstTrimmed != secondTrimmed {
		if firstTrimmed < secondTrimmed {
			return -1
		}
		return 1
	}
	if firstRun != secondRun {
		if firstRun < secondRun {
			return -1
		}
		return 1
	}
	return 0
}

func isDigit(character byte) bool {
	return character >= '0' && character <= '9'
}
