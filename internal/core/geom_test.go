package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside right", 35, 15, false},
		{"outside top", 15, 5, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestRectEdgesAndCentered(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}

	c := r.Centered(10, 5)
	if c != NewRect(10, 15, 10, 5) {
		t.Errorf("Centered(10, 5) = %+v", c)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, min, max, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{0, 0, 10, 0},   // at min
		{10, 0, 10, 10}, // at max
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestInputFrame(t *testing.T) {
	var f InputFrame
	if !f.Empty() || f.Has(ActionPlace) {
		t.Fatal("zero frame should be empty")
	}

	f.Set(ActionPlace)
	f.Set(ActionLeft)
	if !f.Has(ActionPlace) || !f.Has(ActionLeft) || f.Has(ActionUndo) {
		t.Errorf("unexpected actions: %v", f.Actions)
	}

	f.Clear()
	if !f.Empty() {
		t.Errorf("Clear left %v", f.Actions)
	}
}

func TestActionString(t *testing.T) {
	if ActionUndo.String() != "Undo" {
		t.Errorf("ActionUndo.String() = %q", ActionUndo.String())
	}
	if Action(999).String() != "Unknown" {
		t.Errorf("unknown action should be named Unknown")
	}
	if ColorWater.String() != "water" {
		t.Errorf("ColorWater.String() = %q", ColorWater.String())
	}
}
