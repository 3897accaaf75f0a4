package ranges

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Range
	}{
		{"single chapter", "5", []Range{{Begin: 5, End: 5}}},
		{"extra chapter", "1.5", []Range{{Begin: 1.5, End: 1.5}}},
		{"prologue", "0", []Range{{Begin: 0, End: 0}}},
		{"span", "1-5", []Range{{Begin: 1, End: 5}}},
		{"reversed span", "5-1", []Range{{Begin: 1, End: 5}}},
		{"decimal span", "1.5-3.5", []Range{{Begin: 1.5, End: 3.5}}},
		{"list", "1,3-5,8", []Range{{Begin: 1, End: 1}, {Begin: 3, End: 5}, {Begin: 8, End: 8}}},
		{"spaces", " 1 , 3 - 5 ", []Range{{Begin: 1, End: 1}, {Begin: 3, End: 5}}},
		{"trailing comma", "1,2,", []Range{{Begin: 1, End: 1}, {Begin: 2, End: 2}}},
		{"empty", "", []Range{}},
		{"blank", "   ", []Range{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{"abc", "1-abc", "1-2-3", "1,@,3", "-"} {
		result, err := Parse(input)
		if err == nil {
			t.Errorf("Parse(%q) expected error", input)
		}
		if result != nil {
			t.Errorf("Parse(%q) = %v, want nil on error", input, result)
		}
	}
}

func TestContainsAny(t *testing.T) {
	rngs := []Range{{Begin: 1, End: 3}, {Begin: 5.5, End: 7}, {Begin: 10, End: 10}}

	tests := map[float64]bool{
		0:   false,
		1:   true,
		2.5: true,
		3:   true,
		4:   false,
		5.5: true,
		7:   true,
		7.1: false,
		10:  true,
		-1:  false,
	}

	for num, want := range tests {
		if got := ContainsAny(rngs, num); got != want {
			t.Errorf("ContainsAny(%v) = %v, want %v", num, got, want)
		}
	}

	if ContainsAny(nil, 1) {
		t.Error("ContainsAny(nil) should match nothing")
	}
}

type numbered float64

func (n numbered) GetNumber() float64 { return float64(n) }

func TestFilter(t *testing.T) {
	items := []numbered{-1, 1, 2, 2.5, 3, 7, 10}

	tests := []struct {
		name     string
		ranges   []Range
		expected []numbered
	}{
		{
			name:     "no ranges keeps everything",
			ranges:   nil,
			expected: items,
		},
		{
			name:     "single range",
			ranges:   []Range{{Begin: 2, End: 3}},
			expected: []numbered{2, 2.5, 3},
		},
		{
			name:     "several ranges",
			ranges:   []Range{{Begin: 1, End: 1}, {Begin: 7, End: 12}},
			expected: []numbered{1, 7, 10},
		},
		{
			name:     "unnumbered items never match",
			ranges:   []Range{{Begin: 0, End: 100}},
			expected: []numbered{1, 2, 2.5, 3, 7, 10},
		},
		{
			name:     "nothing matches",
			ranges:   []Range{{Begin: 50, End: 60}},
			expected: []numbered{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Filter(items, tt.ranges)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("Filter() = %v, want %v", result, tt.expected)
			}
		})
	}
}
