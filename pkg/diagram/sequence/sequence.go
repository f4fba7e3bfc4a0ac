// Package sequence builds the ordered step timelines for every diagram
// family.
//
// All builders are deterministic: given the same request parameters they
// produce the same steps, the same colors, and the same timing values. Steps
// are numbered contiguously from zero in insertion order, which is the
// ordering contract the emitter relies on.
package sequence

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sceneforge/sceneforge/pkg/diagram"
	"github.com/sceneforge/sceneforge/pkg/scene"
)

// Well-known actor IDs for the message-based families.
const (
	ActorClient = "client"
	ActorServer = "server"
	ActorCache  = "cache"
	ActorRoot   = "root"
	ActorTLD    = "tld"
	ActorAuth   = "auth"
)

// stepPalette is the fixed per-ordinal color rotation for message timelines.
var stepPalette = []scene.ColorRole{
	scene.ColorPurple,
	scene.ColorBlue,
	scene.ColorOrange,
	scene.ColorYellow,
	scene.ColorGreen,
	scene.ColorRed,
	scene.ColorPink,
}

// resolutionTimings is the fixed timing table for name-resolution steps, in
// milliseconds, indexed by ordinal modulo the table length. The cache hit at
// index 0 is the fastest by design.
var resolutionTimings = []int{1, 50, 30, 25, 20, 15, 10}

// StepColor returns the palette color for a step ordinal.
func StepColor(ordinal int) scene.ColorRole {
	return stepPalette[ordinal%len(stepPalette)]
}

// =============================================================================
// Protocol exchange
// =============================================================================

// maxHeaderLines caps how many header lines a message carries before the
// annotation crowds the arrow.
const maxHeaderLines = 3

// Protocol builds one message step per exchange step, preserving the input
// order and direction tags verbatim. Requests travel client to server,
// responses the other way.
//
// A step with a description gets a leading "Step N: ..." line, and with
// showHeaders set its headers follow as "Key: value" lines, capped at
// maxHeaderLines.
func Protocol(steps []diagram.ExchangeStep, showStatus, showHeaders bool) []scene.Step {
	out := make([]scene.Step, 0, len(steps))
	for i, s := range steps {
		st := scene.Step{
			Ordinal: i,
			Kind:    scene.StepMessage,
		}
		var base string
		if s.Direction == "response" {
			st.From, st.To = ActorServer, ActorClient
			st.Color = scene.ColorGreen
			if showStatus {
				base = fmt.Sprintf("%d %s", s.StatusCode, StatusText(s.StatusCode))
			} else {
				base = "Response"
			}
		} else {
			st.From, st.To = ActorClient, ActorServer
			st.Color = scene.ColorOrange
			base = fmt.Sprintf("%s %s", s.Method, s.URL)
		}

		lines := make([]string, 0, 2+maxHeaderLines)
		if s.Description != "" {
			lines = append(lines, fmt.Sprintf("Step %d: %s", i+1, s.Description))
		}
		lines = append(lines, base)
		if showHeaders {
			lines = append(lines, headerLines(s.Headers)...)
		}
		st.Message = strings.Join(lines, "\n")
		out = append(out, st)
	}
	return out
}

// headerLines formats headers as "Key: value" lines in sorted key order, so
// map iteration never changes the output, capped at maxHeaderLines.
func headerLines(h map[string]string) []string {
	if len(h) == 0 {
		return nil
	}
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > maxHeaderLines {
		keys = keys[:maxHeaderLines]
	}
	lines := make([]string, len(keys))
	for i, k := range keys {
		lines[i] = fmt.Sprintf("%s: %s", k, h[k])
	}
	return lines
}

// statusTexts maps the status codes the protocol driver annotates.
var statusTexts = map[int]string{
	200: "OK",
	201: "Created",
	204: "No Content",
	301: "Moved Permanently",
	302: "Found",
	304: "Not Modified",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	500: "Internal Server Error",
	502: "Bad Gateway",
	503: "Service Unavailable",
}

// StatusText returns the reason phrase for a status code, or "Unknown".
func StatusText(code int) string {
	if t, ok := statusTexts[code]; ok {
		return t
	}
	return "Unknown"
}

// =============================================================================
// Name resolution
// =============================================================================

// Resolution builds the canonical six-stage resolution chain for a domain:
// client→root, root→client, client→tld, tld→client, client→auth, auth→client.
// With caching enabled a seventh leading cache-check stage is inserted at
// ordinal 0, shifting the protocol stages by one; it always carries the
// smallest timing value in the table.
//
// Timing values come from the fixed table indexed by ordinal modulo table
// length, and are only assigned when withTiming is set.
func Resolution(domain string, withCache, withTiming bool) []scene.Step {
	tld := domainTLD(domain)

	type hop struct {
		from, to string
		message  string
	}
	hops := []hop{
		{ActorClient, ActorRoot, fmt.Sprintf("Query: %s?", domain)},
		{ActorRoot, ActorClient, fmt.Sprintf("Try .%s TLD server", tld)},
		{ActorClient, ActorTLD, fmt.Sprintf("Query: %s?", domain)},
		{ActorTLD, ActorClient, "Try authoritative server"},
		{ActorClient, ActorAuth, fmt.Sprintf("Query: %s?", domain)},
		{ActorAuth, ActorClient, "Answer: IP address"},
	}
	if withCache {
		hops = append([]hop{{ActorClient, ActorCache, fmt.Sprintf("Check cache for %s", domain)}}, hops...)
	}

	out := make([]scene.Step, len(hops))
	for i, h := range hops {
		out[i] = scene.Step{
			Ordinal: i,
			From:    h.from,
			To:      h.to,
			Message: h.message,
			Color:   StepColor(i),
			Kind:    scene.StepMessage,
		}
		if withTiming {
			out[i].TimingMS = resolutionTimings[i%len(resolutionTimings)]
		}
	}
	return out
}

// domainTLD returns the last label of a dotted domain name, or "com" when the
// name has no dot or ends with one.
func domainTLD(domain string) string {
	if i := strings.LastIndexByte(domain, '.'); i >= 0 && i+1 < len(domain) {
		return domain[i+1:]
	}
	return "com"
}

// =============================================================================
// Data structure operations
// =============================================================================

// Structure builds one step per supported operation, referencing target
// elements through the id function. count is the number of elements currently
// laid out; push/pop and enqueue/dequeue track a virtual size so LIFO and
// FIFO references stay correct across a trace.
//
// Unsupported operation types are skipped, and a pop or dequeue on an empty
// structure is a no-op rather than an error. Either way no step is emitted,
// so ordinals stay contiguous.
func Structure(ops []diagram.Operation, count int, id func(int) string) []scene.Step {
	out := make([]scene.Step, 0, len(ops))
	size := count

	emit := func(kind scene.StepKind, from, to, msg string, color scene.ColorRole) {
		out = append(out, scene.Step{
			Ordinal: len(out),
			From:    from,
			To:      to,
			Message: msg,
			Color:   color,
			Kind:    kind,
		})
	}

	for _, op := range ops {
		switch op.Type {
		case diagram.OpAccess:
			if op.Index < 0 || op.Index >= size {
				continue
			}
			emit(scene.StepHighlight, id(op.Index), "", fmt.Sprintf("ACCESS [%d]", op.Index), scene.ColorGreen)
		case diagram.OpSearch:
			target := ""
			if op.Value != nil {
				target = fmt.Sprintf("SEARCH %d", *op.Value)
			} else {
				target = "SEARCH"
			}
			emit(scene.StepHighlight, "", "", target, scene.ColorYellow)
		case diagram.OpUpdate:
			if op.Value == nil || op.Index < 0 || op.Index >= size {
				continue
			}
			emit(scene.StepTransition, id(op.Index), "", fmt.Sprintf("UPDATE [%d] = %d", op.Index, *op.Value), scene.ColorOrange)
		case diagram.OpSwap:
			if op.Index < 0 || op.Index+1 >= size {
				continue
			}
			emit(scene.StepSwap, id(op.Index), id(op.Index+1), fmt.Sprintf("SWAP [%d] ↔ [%d]", op.Index, op.Index+1), scene.ColorRed)
		case diagram.OpPush, diagram.OpEnqueue:
			val := 0
			if op.Value != nil {
				val = *op.Value
			}
			label := "PUSH"
			if op.Type == diagram.OpEnqueue {
				label = "ENQUEUE"
			}
			emit(scene.StepTransition, "", id(size), fmt.Sprintf("%s %d", label, val), scene.ColorGreen)
			size++
		case diagram.OpPop:
			if size == 0 {
				continue // pop on empty stack is a no-op
			}
			size--
			emit(scene.StepTransition, id(size), "", "POP", scene.ColorRed)
		case diagram.OpDequeue:
			if size == 0 {
				continue
			}
			size--
			emit(scene.StepTransition, id(0), "", "DEQUEUE", scene.ColorRed)
		default:
			// Unsupported operation kinds are excluded, not an error.
		}
	}
	return out
}

// =============================================================================
// Process flow
// =============================================================================

// Linear builds one transition step per consecutive pair of stages.
func Linear(stages []diagram.Stage, id func(int) string) []scene.Step {
	if len(stages) < 2 {
		return nil
	}
	out := make([]scene.Step, 0, len(stages)-1)
	for i := 0; i < len(stages)-1; i++ {
		out = append(out, scene.Step{
			Ordinal: i,
			From:    id(i),
			To:      id(i + 1),
			Message: stages[i+1].Name,
			Color:   scene.ColorWhite,
			Kind:    scene.StepTransition,
		})
	}
	return out
}

// Circular builds one transition step per stage, each pointing at the next
// stage around the circle; the final step wraps back to stage 0, closing the
// loop.
func Circular(stages []diagram.Stage, id func(int) string) []scene.Step {
	n := len(stages)
	out := make([]scene.Step, 0, n)
	for i := 0; i < n; i++ {
		next := (i + 1) % n
		out = append(out, scene.Step{
			Ordinal: i,
			From:    id(i),
			To:      id(next),
			Message: stages[next].Name,
			Color:   scene.ColorBlue,
			Kind:    scene.StepTransition,
		})
	}
	return out
}

// BranchTarget pairs a conditional step with the condition that selects it.
type BranchTarget struct {
	Condition string // "yes" or "no"
	FromID    string // decision element
	ToID      string // branch element
}

// Branching builds the main-flow transition steps plus up to two conditional
// steps per decision stage. mainIDs are the element IDs of the main-branch
// stages in order; branches lists the conditional edges the driver resolved
// from the stage condition tags.
//
// Conditional steps for a decision are inserted directly after the main
// transition leaving it, keeping the timeline in visual order.
func Branching(main []diagram.Stage, mainIDs []string, branches map[int][]BranchTarget) []scene.Step {
	var out []scene.Step
	emit := func(from, to, msg string, color scene.ColorRole) {
		out = append(out, scene.Step{
			Ordinal: len(out),
			From:    from,
			To:      to,
			Message: msg,
			Color:   color,
			Kind:    scene.StepTransition,
		})
	}

	for i := range main {
		for _, b := range branches[i] {
			color := scene.ColorGreen
			if b.Condition == "no" {
				color = scene.ColorRed
			}
			emit(b.FromID, b.ToID, b.Condition, color)
		}
		if i < len(main)-1 {
			emit(mainIDs[i], mainIDs[i+1], main[i+1].Name, scene.ColorWhite)
		}
	}
	return out
}
