package graph

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/gdm/pkg/deps"
)

// rootID names the project node in DOT output.
const rootID = "."

// ToDOT converts the graph to Graphviz DOT format.
// Missing dependencies are drawn dashed and dirty ones filled amber.
func ToDOT(g *Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,filled,bold\"];\n", rootID, filepath.Base(g.Root))
	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		from := e.From
		if from == "" {
			from = rootID
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", from, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n Node) []string {
	label := filepath.Base(n.ID) + "\n" + shortRev(n.Rev)
	attrs := []string{fmt.Sprintf("label=%q", label), fmt.Sprintf("tooltip=%q", n.URL)}
	switch n.Rev {
	case deps.Unknown:
		attrs = append(attrs, "style=\"rounded,dashed\"", "fontcolor=grey")
	case deps.Dirty:
		attrs = append(attrs, "fillcolor=\"#ffd966\"")
	}
	return attrs
}

// shortRev abbreviates commit hashes; sentinels pass through.
func shortRev(rev string) string {
	if len(rev) == 40 && !strings.HasPrefix(rev, "<") {
		return rev[:7]
	}
	return rev
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
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
