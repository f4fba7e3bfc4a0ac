package layout

import "github.com/sceneforge/sceneforge/pkg/diagram"

// Complexity is the big-O profile of a structure kind, as displayed in the
// scene summary panel.
type Complexity struct {
	Access string `json:"access"`
	Search string `json:"search"`
	Insert string `json:"insert"`
	Delete string `json:"delete"`
	Space  string `json:"space"`
}

// complexities is the static lookup table for the known structure kinds.
var complexities = map[string]Complexity{
	diagram.StructureArray: {
		Access: "O(1)", Search: "O(n)", Insert: "O(n)", Delete: "O(n)", Space: "O(n)",
	},
	diagram.StructureLinkedList: {
		Access: "O(n)", Search: "O(n)", Insert: "O(1)", Delete: "O(1)", Space: "O(n)",
	},
	diagram.StructureStack: {
		Access: "O(n)", Search: "O(n)", Insert: "O(1)", Delete: "O(1)", Space: "O(n)",
	},
	diagram.StructureQueue: {
		Access: "O(n)", Search: "O(n)", Insert: "O(1)", Delete: "O(1)", Space: "O(n)",
	},
	diagram.StructureBinaryTree: {
		Access: "O(log n)", Search: "O(log n)", Insert: "O(log n)", Delete: "O(log n)", Space: "O(n)",
	},
	diagram.StructureHashTable: {
		Access: "N/A", Search: "O(1)", Insert: "O(1)", Delete: "O(1)", Space: "O(n)",
	},
	diagram.StructureGraph: {
		Access: "O(V+E)", Search: "O(V+E)", Insert: "O(1)", Delete: "O(V+E)", Space: "O(V+E)",
	},
}

// unknownComplexity is reported for kinds outside the table.
var unknownComplexity = Complexity{
	Access: "O(?)", Search: "O(?)", Insert: "O(?)", Delete: "O(?)", Space: "O(?)",
}

// LookupComplexity returns the complexity profile for a structure kind.
// Unknown kinds get the placeholder profile rather than an error, matching
// the generic layout fallback.
func LookupComplexity(kind string) Complexity {
	if c, ok := complexities[kind]; ok {
		return c
	}
	return unknownComplexity
}
