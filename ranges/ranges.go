package ranges

import (
	"fmt"
	"strconv"
	"strings"
)

// Range represents a range of numbers
type Range struct {
	Begin float64
	End   float64
}

// Numbered is anything that carries a chapter number
type Numbered interface {
	GetNumber() float64
}

// Parse parses a string and returns a slice of ranges
// Supports formats like: "1", "1-5", "1,3,5-10", "1.5-2.5"
func Parse(rnge string) ([]Range, error) {
	rngs := []Range{}

	for _, part := range strings.Split(rnge, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		bounds := strings.Split(part, "-")
		if len(bounds) > 2 {
			return nil, fmt.Errorf("invalid range format: %s", part)
		}

		begin, err := strconv.ParseFloat(strings.TrimSpace(bounds[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid range start in %q: %w", part, err)
		}

		end := begin
		if len(bounds) == 2 {
			end, err = strconv.ParseFloat(strings.TrimSpace(bounds[1]), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid range end in %q: %w", part, err)
			}
		}

		if begin > end {
			begin, end = end, begin
		}

		rngs = append(rngs, Range{Begin: begin, End: end})
	}

	return rngs, nil
}

// Contains checks if a number is within the range
func (r Range) Contains(num float64) bool {
	return num >= r.Begin && num <= r.End
}

// ContainsAny checks if a number is within any of the provided ranges
func ContainsAny(ranges []Range, num float64) bool {
	for _, r := range ranges {
		if r.Contains(num) {
			return true
		}
	}
	return false
}

// Filter keeps the items whose number falls in one of the ranges. No ranges
// keeps everything.
func Filter[T Numbered](items []T, ranges []Range) []T {
	if len(ranges) == 0 {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if ContainsAny(ranges, item.GetNumber()) {
			out = append(out, item)
		}
	}
	return out
}
