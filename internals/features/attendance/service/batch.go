package service

import (
	"regexp"
	"strings"

	"campusku_backend/internals/constants"
)

// letter + batch digit, e.g. "A1"
var batchSectionRe = regexp.MustCompile(`^[A-Z][1-9]$`)

// BatchSplit divides a section's roster into practical batches by roll number.
type BatchSplit struct {
	// non-FY: roll <= Midpoint is batch 1, the rest batch 2
	Midpoint int
	// FY: ascending cutoffs, e.g. [22, 44] gives batches 1..3
	FYCutoffs []int
}

func (b BatchSplit) BatchOf(rollNo int, year string) int {
	if year == constants.YearFirst {
		for i, cut := range b.FYCutoffs {
			if rollNo <= cut {
				return i + 1
			}
		}
		return len(b.FYCutoffs) + 1
	}
	if rollNo <= b.Midpoint {
		return 1
	}
	return 2
}

// rosterSelector tells which stored section to read and which batch to keep (0 keeps all).
type rosterSelector struct {
	Section string
	Batch   int
}

func selectRoster(section string) rosterSelector {
	section = strings.ToUpper(strings.TrimSpace(section))
	if batchSectionRe.MatchString(section) {
		return rosterSelector{Section: section[:1], Batch: int(section[1] - '0')}
	}
	return rosterSelector{Section: section}
}
