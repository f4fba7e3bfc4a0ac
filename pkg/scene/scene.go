// Package scene defines the renderable scene model produced by the layout
// drivers and consumed by the emitter.
//
// A [Plan] is the complete description of one animation: spatially positioned
// elements plus a time-ordered step timeline. Plans are built once per
// request, validated before emission, and never mutated afterwards. Nothing
// in this package performs I/O; serialization tags exist so plans can be
// returned as API metadata or stored alongside job records.
package scene

import (
	"fmt"
)

// =============================================================================
// Enums
// =============================================================================

// Shape identifies the visual primitive used for an element.
type Shape string

// Supported element shapes.
const (
	ShapeBox           Shape = "box"
	ShapeCircle        Shape = "circle"
	ShapeDiamond       Shape = "diamond"
	ShapeParallelogram Shape = "parallelogram"
	ShapeDoubleBox     Shape = "double_box"
)

// ColorRole names an entry in the renderer's palette. Roles are resolved to
// concrete colors by the emitter, keeping the plan independent of the
// scripting surface.
type ColorRole string

// Palette roles.
const (
	ColorBlue   ColorRole = "blue"
	ColorGreen  ColorRole = "green"
	ColorOrange ColorRole = "orange"
	ColorYellow ColorRole = "yellow"
	ColorRed    ColorRole = "red"
	ColorPurple ColorRole = "purple"
	ColorPink   ColorRole = "pink"
	ColorGray   ColorRole = "gray"
	ColorWhite  ColorRole = "white"
)

// StepKind classifies a timeline step.
type StepKind string

// Step kinds.
const (
	StepMessage    StepKind = "message"    // actor-to-actor arrow with a label
	StepHighlight  StepKind = "highlight"  // temporary emphasis of an element
	StepSwap       StepKind = "swap"       // two elements exchange positions
	StepTransition StepKind = "transition" // element changes value or appears/disappears
)

// Family identifies which layout driver produced a plan. The emitter uses it
// to select the scene class prefix.
type Family string

// Diagram families.
const (
	FamilyProtocol   Family = "protocol_exchange"
	FamilyResolution Family = "name_resolution"
	FamilyStructure  Family = "data_structure"
	FamilyFlow       Family = "process_flow"
)

// =============================================================================
// Scene Model
// =============================================================================

// Point is a 2-D scene coordinate. The origin is the frame center, x grows
// right and y grows up, matching the external engine's coordinate system.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Size is an element's width and height in scene units.
type Size struct {
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`
}

// Element is a positioned visual primitive.
type Element struct {
	ID       string    `json:"id" bson:"id"`
	Shape    Shape     `json:"shape" bson:"shape"`
	Position Point     `json:"position" bson:"position"`
	Label    string    `json:"label,omitempty" bson:"label,omitempty"`
	Color    ColorRole `json:"color" bson:"color"`
	Size     Size      `json:"size" bson:"size"`
}

// Step is one entry in the animation timeline. Ordinal is the sole ordering
// key; a plan's steps are stored in ordinal order.
//
// From and To reference element IDs (or well-known actor IDs for the
// message-based families). TimingMS is zero when the request disabled timing
// annotations; configured timing values are always positive.
type Step struct {
	Ordinal  int       `json:"ordinal" bson:"ordinal"`
	From     string    `json:"from,omitempty" bson:"from,omitempty"`
	To       string    `json:"to,omitempty" bson:"to,omitempty"`
	Message  string    `json:"message" bson:"message"`
	Color    ColorRole `json:"color" bson:"color"`
	TimingMS int       `json:"timing_ms,omitempty" bson:"timing_ms,omitempty"`
	Kind     StepKind  `json:"kind" bson:"kind"`
}

// Summary carries family-specific result metadata (step-type tallies,
// complexity lookups, truncation notices). Keys are documented by the driver
// that produces them.
type Summary map[string]any

// Plan is a fully computed scene: title, positioned elements, and the step
// timeline. A plan is immutable once built and is consumed exactly once by
// the emitter.
type Plan struct {
	Title    string    `json:"title" bson:"title"`
	Family   Family    `json:"family" bson:"family"`
	Elements []Element `json:"elements" bson:"elements"`
	Steps    []Step    `json:"steps" bson:"steps"`
	Summary  Summary   `json:"summary,omitempty" bson:"summary,omitempty"`
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks the structural invariants every plan must satisfy before
// emission: a non-empty title, unique element IDs, and step ordinals that are
// contiguous starting at zero.
func (p *Plan) Validate() error {
	if p.Title == "" {
		return fmt.Errorf("plan has no title")
	}

	seen := make(map[string]bool, len(p.Elements))
	for i, el := range p.Elements {
		if el.ID == "" {
			return fmt.Errorf("element %d has empty id", i)
		}
		if seen[el.ID] {
			return fmt.Errorf("duplicate element id %q", el.ID)
		}
		seen[el.ID] = true
	}

	for i, st := range p.Steps {
		if st.Ordinal != i {
			return fmt.Errorf("step %d has ordinal %d, want %d", i, st.Ordinal, i)
		}
	}

	return nil
}

// Element returns the element with the given ID, or nil if absent.
func (p *Plan) Element(id string) *Element {
	for i := range p.Elements {
		if p.Elements[i].ID == id {
			return &p.Elements[i]
		}
	}
	return nil
}
