package fa

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// CharRange is a closed interval [First, Last] of code points.
type CharRange struct {
	First rune
	Last  rune
}

// Char returns the range holding the single rune r.
func Char(r rune) CharRange {
	return CharRange{First: r, Last: r}
}

// Contains reports whether r lies in the range.
func (c CharRange) Contains(r rune) bool {
	return c.First <= r && r <= c.Last
}

// Covers reports whether o lies entirely inside c.
func (c CharRange) Covers(o CharRange) bool {
	return c.First <= o.First && o.Last <= c.Last
}

// Intersects reports whether the two ranges share at least one code point.
func (c CharRange) Intersects(o CharRange) bool {
	return c.First <= o.Last && o.First <= c.Last
}

// Touches reports whether the ranges overlap or are directly adjacent, i.e.
// whether their union is a single range.
func (c CharRange) Touches(o CharRange) bool {
	return int64(c.First) <= int64(o.Last)+1 && int64(o.First) <= int64(c.Last)+1
}

// Union returns the smallest range covering both c and o.
func (c CharRange) Union(o CharRange) CharRange {
	return CharRange{First: min(c.First, o.First), Last: max(c.Last, o.Last)}
}

// Intersect returns the overlap of c and o. ok is false when they are disjoint.
func (c CharRange) Intersect(o CharRange) (r CharRange, ok bool) {
	if !c.Intersects(o) {
		return CharRange{}, false
	}
	return CharRange{First: max(c.First, o.First), Last: min(c.Last, o.Last)}, true
}

func (c CharRange) String() string {
	if c.First == c.Last {
		return quoteRune(c.First)
	}
	return quoteRune(c.First) + "-" + quoteRune(c.Last)
}

func quoteRune(r rune) string {
	if strconv.IsPrint(r) && r != '-' && r != '\\' && r != '[' && r != ']' {
		return string(r)
	}
	if r < 0x10000 {
		return fmt.Sprintf("\\u%04X", r)
	}
	return fmt.Sprintf("\\U%08X", r)
}

func compareRanges(a, b CharRange) int {
	if a.First != b.First {
		return int(a.First) - int(b.First)
	}
	return int(a.Last) - int(b.Last)
}

// Normalize returns the ranges sorted by First with overlapping and adjacent
// ranges merged. The input is not modified.
func Normalize(ranges []CharRange) []CharRange {
	if len(ranges) == 0 {
		return nil
	}
	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, compareRanges)
	res := sorted[:1]
	for _, r := range sorted[1:] {
		last := &res[len(res)-1]
		if last.Touches(r) {
			*last = last.Union(r)
			continue
		}
		res = append(res, r)
	}
	return res
}

// RangesOf converts every rune of s into a range, normalized.
func RangesOf(s string) []CharRange {
	var res []CharRange
	for _, r := range s {
		res = append(res, Char(r))
	}
	return Normalize(res)
}

// ToPacked flattens ranges into consecutive (first, last) pairs.
func ToPacked(ranges []CharRange) []rune {
	packed := make([]rune, 0, len(ranges)*2)
	for _, r := range ranges {
		packed = append(packed, r.First, r.Last)
	}
	return packed
}

// FromPacked is the inverse of ToPacked.
func FromPacked(packed []rune) ([]CharRange, error) {
	if len(packed)%2 != 0 {
		return nil, fmt.Errorf("%w: length %d", ErrOddPackedRanges, len(packed))
	}
	ranges := make([]CharRange, 0, len(packed)/2)
	for i := 0; i < len(packed); i += 2 {
		ranges = append(ranges, CharRange{First: packed[i], Last: packed[i+1]})
	}
	return ranges, nil
}

// packedContains tests r against a packed range list without unpacking it.
func packedContains(packed []rune, r rune) bool {
	for i := 0; i+1 < len(packed); i += 2 {
		if packed[i] <= r && r <= packed[i+1] {
			return true
		}
	}
	return false
}

// FormatRanges renders ranges in character class notation, e.g. [0-9A-Z_].
func FormatRanges(ranges []CharRange) string {
	var b strings.Builder
	b.WriteByte('[')
	for _, r := range ranges {
		b.WriteString(r.String())
	}
	b.WriteByte(']')
	return b.String()
}
