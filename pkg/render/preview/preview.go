// Package preview renders a static diagram preview of a scene plan, so plans
// can be inspected without running the full video renderer.
//
// The plan's elements become Graphviz nodes and its steps become directed
// edges, rendered to SVG. Previews show topology and step order, not the
// animation itself.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/sceneforge/sceneforge/pkg/scene"
)

// shapeNames maps element shapes to Graphviz node shapes.
var shapeNames = map[scene.Shape]string{
	scene.ShapeBox:           "box",
	scene.ShapeCircle:        "circle",
	scene.ShapeDiamond:       "diamond",
	scene.ShapeParallelogram: "parallelogram",
	scene.ShapeDoubleBox:     "doubleoctagon",
}

// colorNames maps palette roles to Graphviz colors.
var colorNames = map[scene.ColorRole]string{
	scene.ColorBlue:   "steelblue",
	scene.ColorGreen:  "forestgreen",
	scene.ColorOrange: "darkorange",
	scene.ColorYellow: "gold",
	scene.ColorRed:    "firebrick",
	scene.ColorPurple: "purple",
	scene.ColorPink:   "hotpink",
	scene.ColorGray:   "gray",
	scene.ColorWhite:  "black", // white strokes vanish on a white canvas
}

// ToDOT converts a plan to Graphviz DOT format. Each step becomes an edge
// labeled with its ordinal and message, so the timeline reads off the
// preview.
func ToDOT(plan *scene.Plan) string {
	var buf bytes.Buffer
	buf.WriteString("digraph scene {\n")
	fmt.Fprintf(&buf, "  label=%q;\n", plan.Title)
	buf.WriteString("  labelloc=t;\n")
	buf.WriteString("  node [style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for _, el := range plan.Elements {
		label := el.Label
		if label == "" {
			label = el.ID
		}
		fmt.Fprintf(&buf, "  %q [label=%q, shape=%s, color=%s];\n",
			el.ID, label, nodeShape(el.Shape), nodeColor(el.Color))
	}

	buf.WriteString("\n")
	for _, st := range plan.Steps {
		from, to := st.From, st.To
		if from == "" || to == "" {
			continue // captions without endpoints have no edge to draw
		}
		label := fmt.Sprintf("%d: %s", st.Ordinal+1, st.Message)
		fmt.Fprintf(&buf, "  %q -> %q [label=%q, color=%s, fontsize=10];\n",
			from, to, label, nodeColor(st.Color))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a plan preview to SVG using Graphviz.
func RenderSVG(ctx context.Context, plan *scene.Plan) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(ToDOT(plan)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

func nodeShape(s scene.Shape) string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "box"
}

func nodeColor(c scene.ColorRole) string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return "black"
}

// used by tests to assert edge ordering without parsing DOT
func edgeLines(dot string) []string {
	var lines []string
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	return lines
}
