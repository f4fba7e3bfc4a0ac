package layout

import (
	"fmt"

	"github.com/sceneforge/sceneforge/pkg/diagram"
	"github.com/sceneforge/sceneforge/pkg/diagram/sequence"
	"github.com/sceneforge/sceneforge/pkg/scene"
	"github.com/sceneforge/sceneforge/pkg/scene/geometry"
)

// Layout constants for the data-structure strategies.
const (
	arraySpacing      = 1.4
	linkedListSpacing = 3.0
	queueSpacing      = 1.5
	stackBaseY        = -2.5
	stackSlotHeight   = 0.7
	treeBaseWidth     = 4.0
	treeLevelHeight   = 1.5
	treeTopY          = 2.0
	graphRadius       = 2.0
)

// TreeNodeCap bounds how many nodes a binary tree layout renders before
// truncating with a summary notice. Set once at startup from configuration;
// not safe to change while requests are in flight.
var TreeNodeCap = 7

// Structure lays out a data structure and its operation trace. Each known
// kind has its own placement strategy; unknown kinds fall back to a single
// generic box so a typo never fails the request.
func Structure(p *diagram.StructureParams) (*scene.Plan, error) {
	var (
		elements []scene.Element
		id       func(int) string
		title    string
		notice   string
	)
	data := p.Data
	ops := p.Operations

	switch p.Kind {
	case diagram.StructureArray:
		title = "Array Visualization"
		id = cellID
		for i, v := range data {
			elements = append(elements, scene.Element{
				ID:       id(i),
				Shape:    scene.ShapeBox,
				Position: scene.Point{X: geometry.LinearOffset(i, len(data), arraySpacing), Y: 0},
				Label:    fmt.Sprintf("%d", v),
				Color:    scene.ColorBlue,
				Size:     scene.Size{W: 1.2, H: 1.2},
			})
		}

	case diagram.StructureLinkedList:
		title = "Linked List Visualization"
		id = nodeID
		for i, v := range data {
			elements = append(elements, scene.Element{
				ID:       id(i),
				Shape:    scene.ShapeCircle,
				Position: scene.Point{X: geometry.LinearOffset(i, len(data), linkedListSpacing), Y: 0},
				Label:    fmt.Sprintf("%d", v),
				Color:    scene.ColorGreen,
				Size:     scene.Size{W: 1.2, H: 1.2},
			})
		}

	case diagram.StructureStack:
		title = "Stack Visualization"
		id = slotID
		for i, v := range data {
			elements = append(elements, scene.Element{
				ID:       id(i),
				Shape:    scene.ShapeBox,
				Position: scene.Point{X: 0, Y: stackBaseY - geometry.StackOffset(i, stackSlotHeight)},
				Label:    fmt.Sprintf("%d", v),
				Color:    scene.ColorOrange,
				Size:     scene.Size{W: 2, H: 0.6},
			})
		}

	case diagram.StructureQueue:
		title = "Queue Visualization"
		id = cellID
		for i, v := range data {
			elements = append(elements, scene.Element{
				ID:       id(i),
				Shape:    scene.ShapeBox,
				Position: scene.Point{X: geometry.LinearOffset(i, len(data), queueSpacing), Y: 0},
				Label:    fmt.Sprintf("%d", v),
				Color:    scene.ColorPurple,
				Size:     scene.Size{W: 1.3, H: 1},
			})
		}

	case diagram.StructureBinaryTree:
		title = "Binary Tree Visualization"
		id = nodeID
		if len(data) > TreeNodeCap {
			notice = fmt.Sprintf("showing first %d of %d nodes", TreeNodeCap, len(data))
			data = data[:TreeNodeCap]
		}
		for i, v := range data {
			x, y := geometry.TreePosition(i, treeBaseWidth, treeLevelHeight)
			elements = append(elements, scene.Element{
				ID:       id(i),
				Shape:    scene.ShapeCircle,
				Position: scene.Point{X: x, Y: treeTopY + y},
				Label:    fmt.Sprintf("%d", v),
				Color:    scene.ColorBlue,
				Size:     scene.Size{W: 0.9, H: 0.9},
			})
		}

	case diagram.StructureHashTable:
		title = "Hash Table Visualization"
		id = bucketID
		n := len(data)
		for i, v := range data {
			y := geometry.LinearOffset(n-1-i, n, 0.9)
			elements = append(elements,
				scene.Element{
					ID:       id(i),
					Shape:    scene.ShapeBox,
					Position: scene.Point{X: -2, Y: y},
					Label:    fmt.Sprintf("[%d]", i),
					Color:    scene.ColorGray,
					Size:     scene.Size{W: 1.2, H: 0.8},
				},
				scene.Element{
					ID:       fmt.Sprintf("entry-%d", i),
					Shape:    scene.ShapeBox,
					Position: scene.Point{X: 1, Y: y},
					Label:    fmt.Sprintf("%d", v),
					Color:    scene.ColorYellow,
					Size:     scene.Size{W: 1.2, H: 0.8},
				},
			)
		}

	case diagram.StructureGraph:
		title = "Graph Visualization"
		id = nodeID
		for i, v := range data {
			x, y, err := geometry.CircularPosition(i, len(data), graphRadius)
			if err != nil {
				break // empty graph, no nodes to place
			}
			elements = append(elements, scene.Element{
				ID:       id(i),
				Shape:    scene.ShapeCircle,
				Position: scene.Point{X: x, Y: y},
				Label:    fmt.Sprintf("%d", v),
				Color:    scene.ColorPink,
				Size:     scene.Size{W: 1, H: 1},
			})
		}

	default:
		// Generic fallback keeps unknown kinds renderable. It has no per-value
		// elements for operations to reference, so the operation list is not
		// applied.
		title = "Data Structure Visualization"
		id = cellID
		ops = nil
		elements = append(elements, scene.Element{
			ID:       "structure",
			Shape:    scene.ShapeBox,
			Position: scene.Point{X: 0, Y: 0},
			Label:    p.Kind,
			Color:    scene.ColorGray,
			Size:     scene.Size{W: 3, H: 1.5},
		})
		notice = fmt.Sprintf("no layout strategy for %q, using generic view", p.Kind)
	}

	steps := sequence.Structure(ops, len(data), id)

	summary := scene.Summary{
		"structure":     p.Kind,
		"size":          len(data),
		"steps_by_kind": stepTally(steps),
	}
	if p.ComplexityEnabled() {
		summary["complexity"] = LookupComplexity(p.Kind)
	}
	if notice != "" {
		summary["notice"] = notice
	}
	if p.Kind == diagram.StructureArray {
		summary["addresses"] = cellAddresses(len(data))
	}

	plan := &scene.Plan{
		Title:    title,
		Family:   scene.FamilyStructure,
		Elements: elements,
		Steps:    steps,
		Summary:  summary,
	}
	if err := plan.Validate(); err != nil {
		return nil, errorsInternal(err)
	}
	return plan, nil
}

func cellID(i int) string   { return fmt.Sprintf("cell-%d", i) }
func nodeID(i int) string   { return fmt.Sprintf("node-%d", i) }
func slotID(i int) string   { return fmt.Sprintf("slot-%d", i) }
func bucketID(i int) string { return fmt.Sprintf("bucket-%d", i) }

// cellAddresses returns the synthetic memory addresses shown under array
// cells, 4 bytes apart from a fixed base.
func cellAddresses(n int) []string {
	addrs := make([]string, n)
	for i := range addrs {
		addrs[i] = fmt.Sprintf("0x%X", 1000+i*4)
	}
	return addrs
}
