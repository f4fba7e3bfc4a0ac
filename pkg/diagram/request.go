// Package diagram defines the typed request model for scene generation.
//
// A [Request] is a tagged variant: one diagram kind plus the parameter
// payload for that family. Payloads are validated and defaulted once at the
// boundary, so the layout drivers never consult untyped maps. Requests decode
// from JSON (the API surface) and from YAML request files (the CLI surface).
//
// Missing parameters are never a hard failure: every field has a documented
// default applied by the payload's ApplyDefaults method.
package diagram

import (
	"github.com/sceneforge/sceneforge/pkg/errors"
	"github.com/sceneforge/sceneforge/pkg/scene"
)

// Kind aliases the scene family identifiers; requests and plans share them.
type Kind = scene.Family

// Structure kinds understood by the data-structure driver. Unknown kinds fall
// back to the generic single-label layout.
const (
	StructureArray      = "array"
	StructureLinkedList = "linked_list"
	StructureStack      = "stack"
	StructureQueue      = "queue"
	StructureBinaryTree = "binary_tree"
	StructureHashTable  = "hash_table"
	StructureGraph      = "graph"
)

// Operation types understood by the data-structure driver. Unsupported types
// are skipped, not rejected.
const (
	OpAccess  = "access"
	OpUpdate  = "update"
	OpSearch  = "search"
	OpPush    = "push"
	OpPop     = "pop"
	OpEnqueue = "enqueue"
	OpDequeue = "dequeue"
	OpSwap    = "swap"
)

// Flow types understood by the process-flow driver. Unknown types fall back
// to linear.
const (
	FlowLinear    = "linear"
	FlowBranching = "branching"
	FlowCircular  = "circular"
)

// Stage types understood by the process-flow driver; anything else renders as
// a plain process box.
const (
	StageStart      = "start"
	StageEnd        = "end"
	StageProcess    = "process"
	StageDecision   = "decision"
	StageSubprocess = "subprocess"
	StageData       = "data"
)

// =============================================================================
// Request
// =============================================================================

// Request is one diagram generation request. Exactly one payload field is
// set, matching Kind. Requests are immutable once defaulted and are owned by
// the driver invocation that processes them.
type Request struct {
	Kind Kind `json:"kind" yaml:"kind"`

	Protocol   *ProtocolParams   `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	Resolution *ResolutionParams `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	Structure  *StructureParams  `json:"structure,omitempty" yaml:"structure,omitempty"`
	Flow       *FlowParams       `json:"flow,omitempty" yaml:"flow,omitempty"`
}

// Validate checks that the kind is known and the matching payload is present,
// then applies the family defaults. An absent payload is not an error; the
// family defaults describe a complete sample diagram.
func (r *Request) Validate() error {
	switch r.Kind {
	case scene.FamilyProtocol:
		if r.Protocol == nil {
			r.Protocol = &ProtocolParams{}
		}
		r.Protocol.ApplyDefaults()
	case scene.FamilyResolution:
		if r.Resolution == nil {
			r.Resolution = &ResolutionParams{}
		}
		r.Resolution.ApplyDefaults()
	case scene.FamilyStructure:
		if r.Structure == nil {
			r.Structure = &StructureParams{}
		}
		r.Structure.ApplyDefaults()
	case scene.FamilyFlow:
		if r.Flow == nil {
			r.Flow = &FlowParams{}
		}
		r.Flow.ApplyDefaults()
	default:
		return errors.New(errors.ErrCodeInvalidKind, "unknown diagram kind %q", r.Kind)
	}
	return nil
}

// =============================================================================
// Protocol exchange (HTTP flow)
// =============================================================================

// ExchangeStep is one request or response in a protocol exchange.
type ExchangeStep struct {
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Direction   string            `json:"direction,omitempty" yaml:"direction,omitempty"` // "request" or "response"
	Method      string            `json:"method,omitempty" yaml:"method,omitempty"`
	URL         string            `json:"url,omitempty" yaml:"url,omitempty"`
	StatusCode  int               `json:"status_code,omitempty" yaml:"status_code,omitempty"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// ProtocolParams configures a protocol exchange diagram.
type ProtocolParams struct {
	Title           string         `json:"title,omitempty" yaml:"title,omitempty"`
	ProtocolVersion string         `json:"protocol_version,omitempty" yaml:"protocol_version,omitempty"`
	ShowHeaders     *bool          `json:"show_headers,omitempty" yaml:"show_headers,omitempty"`
	ShowStatusCodes *bool          `json:"show_status_codes,omitempty" yaml:"show_status_codes,omitempty"`
	Steps           []ExchangeStep `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// ApplyDefaults fills absent fields with the documented defaults.
func (p *ProtocolParams) ApplyDefaults() {
	if p.Title == "" {
		p.Title = "HTTP Request Flow"
	}
	if p.ProtocolVersion == "" {
		p.ProtocolVersion = "HTTP/1.1"
	}
	if len(p.Steps) == 0 {
		p.Steps = []ExchangeStep{
			{Direction: "request", Method: "GET", URL: "/api/data"},
			{Direction: "response", StatusCode: 200},
		}
	}
	for i := range p.Steps {
		s := &p.Steps[i]
		if s.Direction == "" {
			s.Direction = "request"
		}
		if s.Method == "" {
			s.Method = "GET"
		}
		if s.URL == "" {
			s.URL = "/api/data"
		}
		if s.StatusCode == 0 {
			s.StatusCode = 200
		}
	}
}

// ShowHeadersEnabled reports whether header annotations are on (default true).
func (p *ProtocolParams) ShowHeadersEnabled() bool { return boolOr(p.ShowHeaders, true) }

// ShowStatusCodesEnabled reports whether status annotations are on (default true).
func (p *ProtocolParams) ShowStatusCodesEnabled() bool { return boolOr(p.ShowStatusCodes, true) }

// =============================================================================
// Name resolution (DNS)
// =============================================================================

// ResolutionParams configures a name-resolution diagram.
type ResolutionParams struct {
	Domain      string   `json:"domain,omitempty" yaml:"domain,omitempty"`
	ShowCache   *bool    `json:"show_cache,omitempty" yaml:"show_cache,omitempty"`
	ShowTiming  *bool    `json:"show_timing,omitempty" yaml:"show_timing,omitempty"`
	RecordTypes []string `json:"record_types,omitempty" yaml:"record_types,omitempty"`
}

// ApplyDefaults fills absent fields with the documented defaults.
func (p *ResolutionParams) ApplyDefaults() {
	if p.Domain == "" {
		p.Domain = "example.com"
	}
	if len(p.RecordTypes) == 0 {
		p.RecordTypes = []string{"A"}
	}
}

// CacheEnabled reports whether the leading cache-check stage is on (default true).
func (p *ResolutionParams) CacheEnabled() bool { return boolOr(p.ShowCache, true) }

// TimingEnabled reports whether per-step timing annotations are on (default true).
func (p *ResolutionParams) TimingEnabled() bool { return boolOr(p.ShowTiming, true) }

// =============================================================================
// Data structure
// =============================================================================

// Operation is one operation applied to a data structure. Value is a pointer
// so "update to zero" is distinguishable from "no value given".
type Operation struct {
	Type  string `json:"type,omitempty" yaml:"type,omitempty"`
	Index int    `json:"index,omitempty" yaml:"index,omitempty"`
	Value *int   `json:"value,omitempty" yaml:"value,omitempty"`
}

// StructureParams configures a data-structure diagram.
type StructureParams struct {
	Kind           string      `json:"type,omitempty" yaml:"type,omitempty"`
	Data           []int       `json:"data,omitempty" yaml:"data,omitempty"`
	Operations     []Operation `json:"operations,omitempty" yaml:"operations,omitempty"`
	ShowComplexity *bool       `json:"show_complexity,omitempty" yaml:"show_complexity,omitempty"`
}

// ApplyDefaults fills absent fields with the documented defaults: an array of
// the fixed sample sequence 1..5.
func (p *StructureParams) ApplyDefaults() {
	if p.Kind == "" {
		p.Kind = StructureArray
	}
	if p.Data == nil {
		p.Data = []int{1, 2, 3, 4, 5}
	}
	for i := range p.Operations {
		if p.Operations[i].Type == "" {
			p.Operations[i].Type = OpAccess
		}
	}
}

// ComplexityEnabled reports whether the complexity summary is on (default true).
func (p *StructureParams) ComplexityEnabled() bool { return boolOr(p.ShowComplexity, true) }

// =============================================================================
// Process flow
// =============================================================================

// Stage is one stage in a process flow. Branch and Condition only matter for
// the branching flow type: stages with Branch other than "main" are side
// branches attached to decision stages via their Condition tag ("yes"/"no").
type Stage struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Timing      string `json:"timing,omitempty" yaml:"timing,omitempty"`
	Branch      string `json:"branch,omitempty" yaml:"branch,omitempty"`
	Condition   string `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// FlowParams configures a process-flow diagram.
type FlowParams struct {
	Title      string  `json:"title,omitempty" yaml:"title,omitempty"`
	FlowType   string  `json:"flow_type,omitempty" yaml:"flow_type,omitempty"`
	ShowTiming bool    `json:"show_timing,omitempty" yaml:"show_timing,omitempty"`
	Stages     []Stage `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// ApplyDefaults fills absent fields with the documented defaults. An unknown
// flow type falls back to linear rather than failing.
func (p *FlowParams) ApplyDefaults() {
	if p.Title == "" {
		p.Title = "Process Flow"
	}
	switch p.FlowType {
	case FlowLinear, FlowBranching, FlowCircular:
	default:
		p.FlowType = FlowLinear
	}
	for i := range p.Stages {
		s := &p.Stages[i]
		if s.Type == "" {
			s.Type = StageProcess
		}
		if s.Branch == "" {
			s.Branch = "main"
		}
	}
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
