// Package emit turns a validated scene plan into a Manim scene script.
//
// Emission is deterministic: the same plan and scene ID always produce the
// same script text, byte for byte. Elements render in plan order, steps in
// ordinal order, and summary entries in sorted key order. The emitter never
// invents layout; every coordinate and color in the script comes from the
// plan.
package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sceneforge/sceneforge/pkg/errors"
	"github.com/sceneforge/sceneforge/pkg/scene"
)

// classPrefixes maps plan families to scene class name prefixes.
var classPrefixes = map[scene.Family]string{
	scene.FamilyProtocol:   "HTTPFlow",
	scene.FamilyResolution: "DNSResolution",
	scene.FamilyStructure:  "DataStructure",
	scene.FamilyFlow:       "ProcessFlow",
}

// colorNames maps palette roles to renderer color constants.
var colorNames = map[scene.ColorRole]string{
	scene.ColorBlue:   "BLUE",
	scene.ColorGreen:  "GREEN",
	scene.ColorOrange: "ORANGE",
	scene.ColorYellow: "YELLOW",
	scene.ColorRed:    "RED",
	scene.ColorPurple: "PURPLE",
	scene.ColorPink:   "PINK",
	scene.ColorGray:   "GRAY",
	scene.ColorWhite:  "WHITE",
}

// Script is an emitted scene script ready to hand to the render runner.
type Script struct {
	SceneID   string // identifier the class name and artifact names derive from
	ClassName string // scene class name inside the script
	Source    string // complete script text
}

// ClassName builds the scene class name for a family and scene ID. Every
// character of the ID that is not a letter or digit becomes an underscore, so
// the result is always a valid identifier.
func ClassName(family scene.Family, sceneID string) string {
	prefix, ok := classPrefixes[family]
	if !ok {
		prefix = "Scene"
	}
	return prefix + "_" + sanitizeID(sceneID)
}

func sanitizeID(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Render emits the scene script for a plan. The plan is validated first;
// nothing is emitted for an invalid plan.
func Render(plan *scene.Plan, sceneID string) (*Script, error) {
	if err := plan.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, err, "plan failed validation")
	}
	if sceneID == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "scene id is empty")
	}

	className := ClassName(plan.Family, sceneID)

	var w scriptWriter
	w.linef("from manim import *")
	w.linef("")
	w.linef("")
	w.linef("class %s(Scene):", className)
	w.linef("    def construct(self):")

	w.emitTitle(plan)
	w.emitElements(plan)
	w.emitSteps(plan)
	w.emitSummary(plan)
	w.linef("        self.wait(1)")

	return &Script{
		SceneID:   sceneID,
		ClassName: className,
		Source:    w.String(),
	}, nil
}

// =============================================================================
// Script writer
// =============================================================================

type scriptWriter struct {
	strings.Builder
}

func (w *scriptWriter) linef(format string, args ...any) {
	fmt.Fprintf(w, format, args...)
	w.WriteByte('\n')
}

func (w *scriptWriter) emitTitle(plan *scene.Plan) {
	w.linef("        title = Text(%s, font_size=36)", pyString(plan.Title))
	w.linef("        title.to_edge(UP)")
	w.linef("        self.play(Write(title))")
	w.linef("")
}

func (w *scriptWriter) emitElements(plan *scene.Plan) {
	if len(plan.Elements) == 0 {
		return
	}
	for i, el := range plan.Elements {
		v := fmt.Sprintf("el_%d", i)
		switch el.Shape {
		case scene.ShapeCircle:
			w.linef("        %s = Circle(radius=%s, color=%s)", v, pyFloat(el.Size.W/2), colorName(el.Color))
		case scene.ShapeDiamond:
			w.linef("        %s = Square(side_length=%s, color=%s).rotate(PI / 4)", v, pyFloat(el.Size.H), colorName(el.Color))
		case scene.ShapeParallelogram:
			w.linef("        %s = Polygon(", v)
			w.linef("            [%s, %s, 0], [%s, %s, 0], [%s, %s, 0], [%s, %s, 0],",
				pyFloat(-el.Size.W/2+0.3), pyFloat(el.Size.H/2),
				pyFloat(el.Size.W/2+0.3), pyFloat(el.Size.H/2),
				pyFloat(el.Size.W/2-0.3), pyFloat(-el.Size.H/2),
				pyFloat(-el.Size.W/2-0.3), pyFloat(-el.Size.H/2))
			w.linef("            color=%s,", colorName(el.Color))
			w.linef("        )")
		case scene.ShapeDoubleBox:
			w.linef("        %s = VGroup(", v)
			w.linef("            Rectangle(width=%s, height=%s, color=%s),", pyFloat(el.Size.W), pyFloat(el.Size.H), colorName(el.Color))
			w.linef("            Rectangle(width=%s, height=%s, color=%s),", pyFloat(el.Size.W-0.3), pyFloat(el.Size.H-0.2), colorName(el.Color))
			w.linef("        )")
		default:
			w.linef("        %s = Rectangle(width=%s, height=%s, color=%s)", v, pyFloat(el.Size.W), pyFloat(el.Size.H), colorName(el.Color))
		}
		w.linef("        %s.move_to([%s, %s, 0])", v, pyFloat(el.Position.X), pyFloat(el.Position.Y))
		if el.Label != "" {
			w.linef("        el_label_%d = Text(%s, font_size=20).move_to(%s.get_center())", i, pyString(el.Label), v)
		}
	}

	w.WriteString("        self.play(")
	for i, el := range plan.Elements {
		if i > 0 {
			w.WriteString(", ")
		}
		fmt.Fprintf(w, "Create(el_%d)", i)
		if el.Label != "" {
			fmt.Fprintf(w, ", Write(el_label_%d)", i)
		}
	}
	w.WriteString(")\n")
	w.linef("")
}

func (w *scriptWriter) emitSteps(plan *scene.Plan) {
	index := elementIndex(plan)
	for _, st := range plan.Steps {
		label := st.Message
		if st.TimingMS > 0 {
			label = fmt.Sprintf("%s (%dms)", st.Message, st.TimingMS)
		}

		switch st.Kind {
		case scene.StepMessage, scene.StepTransition:
			from, okFrom := index[st.From]
			to, okTo := index[st.To]
			switch {
			case okFrom && okTo:
				w.linef("        arrow_%d = Arrow(el_%d.get_center(), el_%d.get_center(), color=%s, buff=0.6)",
					st.Ordinal, from, to, colorName(st.Color))
				w.linef("        msg_%d = Text(%s, font_size=18, color=%s)", st.Ordinal, pyString(label), colorName(st.Color))
				w.linef("        msg_%d.next_to(arrow_%d, UP, buff=0.1)", st.Ordinal, st.Ordinal)
				w.linef("        self.play(GrowArrow(arrow_%d), Write(msg_%d))", st.Ordinal, st.Ordinal)
				w.linef("        self.wait(0.5)")
				w.linef("        self.play(FadeOut(arrow_%d), FadeOut(msg_%d))", st.Ordinal, st.Ordinal)
			case okFrom:
				w.linef("        self.play(Indicate(el_%d, color=%s))", from, colorName(st.Color))
				w.emitCaption(st.Ordinal, label, st.Color)
			case okTo:
				w.linef("        self.play(Indicate(el_%d, color=%s))", to, colorName(st.Color))
				w.emitCaption(st.Ordinal, label, st.Color)
			default:
				w.emitCaption(st.Ordinal, label, st.Color)
			}
		case scene.StepHighlight:
			if from, ok := index[st.From]; ok {
				w.linef("        self.play(Indicate(el_%d, color=%s))", from, colorName(st.Color))
			}
			w.emitCaption(st.Ordinal, label, st.Color)
		case scene.StepSwap:
			from, okFrom := index[st.From]
			to, okTo := index[st.To]
			if okFrom && okTo {
				w.linef("        self.play(Swap(el_%d, el_%d))", from, to)
			}
			w.emitCaption(st.Ordinal, label, st.Color)
		}
		w.linef("")
	}
}

// emitCaption flashes a short status line at the bottom of the frame.
func (w *scriptWriter) emitCaption(ordinal int, label string, color scene.ColorRole) {
	w.linef("        cap_%d = Text(%s, font_size=18, color=%s).to_edge(DOWN)", ordinal, pyString(label), colorName(color))
	w.linef("        self.play(FadeIn(cap_%d))", ordinal)
	w.linef("        self.wait(0.5)")
	w.linef("        self.play(FadeOut(cap_%d))", ordinal)
}

func (w *scriptWriter) emitSummary(plan *scene.Plan) {
	if len(plan.Summary) == 0 {
		return
	}
	keys := make([]string, 0, len(plan.Summary))
	for k := range plan.Summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w.linef("        summary = VGroup(")
	for _, k := range keys {
		w.linef("            Text(%s, font_size=16),", pyString(summaryLine(k, plan.Summary[k])))
	}
	w.linef("        ).arrange(DOWN, aligned_edge=LEFT)")
	w.linef("        summary.to_corner(DR)")
	w.linef("        self.play(FadeIn(summary))")
	w.linef("")
}

// summaryLine formats one summary entry for display.
func summaryLine(key string, value any) string {
	return fmt.Sprintf("%s: %v", key, value)
}

func elementIndex(plan *scene.Plan) map[string]int {
	index := make(map[string]int, len(plan.Elements))
	for i, el := range plan.Elements {
		index[el.ID] = i
	}
	return index
}

func colorName(c scene.ColorRole) string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return "WHITE"
}

// pyString quotes s as a Python string literal.
func pyString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// pyFloat formats a coordinate with a stable short representation.
func pyFloat(f float64) string {
	s := fmt.Sprintf("%.4f", f)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		s = "0"
	}
	return s
}
