package geometry

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestLinearOffsetCentered(t *testing.T) {
	// Five cells spaced 1.4 apart, matching the array layout.
	want := []float64{-2.8, -1.4, 0, 1.4, 2.8}
	for i, w := range want {
		if got := LinearOffset(i, 5, 1.4); !almostEqual(got, w) {
			t.Errorf("LinearOffset(%d, 5, 1.4) = %v, want %v", i, got, w)
		}
	}
}

func TestLinearOffsetSymmetry(t *testing.T) {
	for _, count := range []int{1, 2, 5, 8} {
		sum := 0.0
		for i := 0; i < count; i++ {
			sum += LinearOffset(i, count, 2.0)
		}
		if !almostEqual(sum, 0) {
			t.Errorf("offsets for count %d sum to %v, want 0", count, sum)
		}
	}
}

func TestTreeLevel(t *testing.T) {
	cases := []struct {
		index, want int
	}{
		{0, 0},
		{1, 1}, {2, 1},
		{3, 2}, {4, 2}, {5, 2}, {6, 2},
		{7, 3},
	}
	for _, tc := range cases {
		if got := TreeLevel(tc.index); got != tc.want {
			t.Errorf("TreeLevel(%d) = %d, want %d", tc.index, got, tc.want)
		}
	}
}

func TestTreeLevelPanicsOnNegative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("TreeLevel(-1) did not panic")
		}
	}()
	TreeLevel(-1)
}

func TestTreeParent(t *testing.T) {
	cases := []struct {
		index, want int
	}{
		{1, 0}, {2, 0},
		{3, 1}, {4, 1},
		{5, 2}, {6, 2},
	}
	for _, tc := range cases {
		if got := TreeParent(tc.index); got != tc.want {
			t.Errorf("TreeParent(%d) = %d, want %d", tc.index, got, tc.want)
		}
	}
}

func TestTreePosition(t *testing.T) {
	// Seven-node complete tree with baseWidth 4 and levelHeight 1.5.
	cases := []struct {
		index int
		x, y  float64
	}{
		{0, 0, 0},
		{1, -1, -1.5},
		{2, 1, -1.5},
		{3, -1.5, -3},
		{4, -0.5, -3},
		{5, 0.5, -3},
		{6, 1.5, -3},
	}
	for _, tc := range cases {
		x, y := TreePosition(tc.index, 4, 1.5)
		if !almostEqual(x, tc.x) || !almostEqual(y, tc.y) {
			t.Errorf("TreePosition(%d) = (%v, %v), want (%v, %v)", tc.index, x, y, tc.x, tc.y)
		}
	}
}

func TestTreeSiblingsShareLevel(t *testing.T) {
	for _, pair := range [][2]int{{1, 2}, {3, 4}, {5, 6}} {
		_, y1 := TreePosition(pair[0], 4, 1.5)
		_, y2 := TreePosition(pair[1], 4, 1.5)
		if !almostEqual(y1, y2) {
			t.Errorf("siblings %v at different depths: %v vs %v", pair, y1, y2)
		}
	}
}

func TestCircularAngleStartsAtBottom(t *testing.T) {
	if got := CircularAngle(0, 4); !almostEqual(got, -math.Pi/2) {
		t.Errorf("CircularAngle(0, 4) = %v, want -pi/2", got)
	}
}

func TestCircularPosition(t *testing.T) {
	// Element 0 of any count sits at the bottom of the circle.
	x, y, err := CircularPosition(0, 4, 2.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(x, 0) || !almostEqual(y, -2.5) {
		t.Errorf("CircularPosition(0, 4, 2.5) = (%v, %v), want (0, -2.5)", x, y)
	}

	// All positions sit on the circle.
	for i := 0; i < 6; i++ {
		x, y, err := CircularPosition(i, 6, 2.5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if r := math.Hypot(x, y); !almostEqual(r, 2.5) {
			t.Errorf("element %d at radius %v, want 2.5", i, r)
		}
	}
}

func TestCircularPositionZeroCount(t *testing.T) {
	if _, _, err := CircularPosition(0, 0, 2.5); err == nil {
		t.Errorf("expected error for zero count")
	}
	if _, _, err := CircularPosition(0, -1, 2.5); err == nil {
		t.Errorf("expected error for negative count")
	}
}

func TestStackOffsetStrictlyDecreasing(t *testing.T) {
	prev := math.Inf(1)
	for i := 0; i < 8; i++ {
		off := StackOffset(i, 0.7)
		if off >= prev {
			t.Errorf("StackOffset(%d) = %v not below previous %v", i, off, prev)
		}
		prev = off
	}
}
