// Package geometry provides the pure coordinate math shared by all layout
// drivers: linear offsets, level-based tree placement, circular placement,
// and stack offsets.
//
// Every function is a pure function of index/count to coordinates. No state,
// no side effects; callers own all validation beyond the documented domain
// restrictions.
package geometry

import (
	"fmt"
	"math"
	"math/bits"
)

// LinearOffset returns the 1-D offset of element index among count elements
// spaced by spacing, centered around zero:
//
//	(index - count/2 + 0.5) * spacing
//
// Used for array cells, sort bars, and horizontal branch placement.
func LinearOffset(index, count int, spacing float64) float64 {
	return (float64(index) - float64(count)/2 + 0.5) * spacing
}

// TreeLevel returns the level of node index in a complete binary tree laid
// out in breadth-first order: floor(log2(index+1)). Level 0 is the root.
// TreeLevel panics if index is negative.
func TreeLevel(index int) int {
	if index < 0 {
		panic(fmt.Sprintf("geometry: negative tree index %d", index))
	}
	return bits.Len(uint(index+1)) - 1
}

// TreeParent returns the breadth-first index of the parent of node index.
// Defined for index > 0; the root has no parent.
func TreeParent(index int) int {
	return (index - 1) / 2
}

// TreePosition returns the (x, y) placement of node index in a complete
// binary tree. Levels are stacked downward, each level dividing baseWidth
// among its slots:
//
//	level    = floor(log2(index+1))
//	inLevel  = index - (2^level - 1)
//	x        = (inLevel - (2^(level-1) - 0.5)) * (baseWidth / 2^level)
//	y        = -level * levelHeight
//
// Defined only for index >= 0. Callers must cap the node count themselves;
// requests beyond the display cap report a truncation notice rather than
// being silently dropped.
func TreePosition(index int, baseWidth, levelHeight float64) (x, y float64) {
	level := TreeLevel(index)
	inLevel := float64(index) - (math.Pow(2, float64(level)) - 1)
	x = (inLevel - (math.Pow(2, float64(level)-1) - 0.5)) * (baseWidth / math.Pow(2, float64(level)))
	y = -float64(level) * levelHeight
	return x, y
}

// CircularAngle returns the angle in radians of element index among count
// elements evenly partitioning the circle, with element 0 at the bottom:
//
//	index*2π/count - π/2
func CircularAngle(index, count int) float64 {
	return float64(index)*2*math.Pi/float64(count) - math.Pi/2
}

// CircularPosition returns the (x, y) placement of element index on a circle
// of the given radius. The count elements partition the circle evenly with
// element 0 at the bottom of the circle.
//
// Returns an error when count is not positive; a circular layout with zero
// elements has no defined geometry.
func CircularPosition(index, count int, radius float64) (x, y float64, err error) {
	if count <= 0 {
		return 0, 0, fmt.Errorf("circular position undefined for count %d", count)
	}
	angle := CircularAngle(index, count)
	return radius * math.Cos(angle), radius * math.Sin(angle), nil
}

// StackOffset returns the vertical offset of the stack element at insertion
// index, relative to the stack base. The offset strictly decreases as index
// grows, so later elements sit higher when the driver subtracts it from the
// base depth.
func StackOffset(index int, elementHeight float64) float64 {
	return -float64(index) * elementHeight
}
