// Package graph turns an identified dependency tree into node-link form for
// export as JSON, Graphviz DOT, or SVG.
package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/matzehuels/gdm/pkg/deps"
)

// Graph is a dependency tree rooted at a project directory.
type Graph struct {
	Root  string `json:"root"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one installed (or missing) dependency.
type Node struct {
	ID    string `json:"id"`    // path relative to the root
	URL   string `json:"url"`   // origin URL or sentinel
	Rev   string `json:"rev"`   // commit SHA or sentinel
	Depth int    `json:"depth"` // 1 for direct dependencies
}

// Edge points from a dependent to its dependency. From is empty for the root.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// FromIdentities builds a Graph from identities in depth-first pre-order, as
// yielded by deps.Config.GetDeps. Each node's parent is the closest preceding
// node one level shallower.
func FromIdentities(root string, ids []deps.Identity) *Graph {
	g := &Graph{Root: root}
	parents := []string{""} // parents[d] is the latest node at depth d

	for _, id := range ids {
		nodeID := id.Path
		if rel, err := filepath.Rel(root, id.Path); err == nil {
			nodeID = filepath.ToSlash(rel)
		}
		g.Nodes = append(g.Nodes, Node{ID: nodeID, URL: id.URL, Rev: id.Rev, Depth: id.Depth})

		depth := id.Depth
		if depth < 1 {
			depth = 1
		}
		if depth > len(parents) {
			depth = len(parents)
		}
		g.Edges = append(g.Edges, Edge{From: parents[depth-1], To: nodeID})

		parents = append(parents[:depth], nodeID)
	}
	return g
}

// WriteJSON writes the graph as indented JSON.
func (g *Graph) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
