package fa

import (
	"slices"
)

type boundary struct {
	at    int64
	delta int
}

// Partition splits a set of possibly overlapping ranges into the minimal
// sorted sequence of disjoint ranges such that every input range is exactly
// the union of some of them. Code points covered by no input range are not
// covered by the result either.
//
// For [a-z] and [e-g] the result is [a-d] [e-g] [h-z].
func Partition(ranges []CharRange) []CharRange {
	if len(ranges) == 0 {
		return nil
	}
	events := make([]boundary, 0, len(ranges)*2)
	for _, r := range ranges {
		if r.First > r.Last {
			continue
		}
		events = append(events,
			boundary{at: int64(r.First), delta: 1},
			boundary{at: int64(r.Last) + 1, delta: -1})
	}
	slices.SortFunc(events, func(a, b boundary) int {
		switch {
		case a.at < b.at:
			return -1
		case a.at > b.at:
			return 1
		}
		return 0
	})

	var res []CharRange
	depth := 0
	prev := int64(0)
	for i := 0; i < len(events); {
		at := events[i].at
		if depth > 0 && prev < at {
			res = append(res, CharRange{First: rune(prev), Last: rune(at - 1)})
		}
		for ; i < len(events) && events[i].at == at; i++ {
			depth += events[i].delta
		}
		prev = at
	}
	return res
}
