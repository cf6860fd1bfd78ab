package graph

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/gdm/pkg/deps"
)

func fixture() []deps.Identity {
	return []deps.Identity{
		{Path: "/p/gdm_sources/a", URL: "A", Rev: "1111111111111111111111111111111111111111", Depth: 1},
		{Path: "/p/gdm_sources/a/gdm_sources/b", URL: "B", Rev: deps.Dirty, Depth: 2},
		{Path: "/p/gdm_sources/a/gdm_sources/b/gdm_sources/d", URL: deps.Missing, Rev: deps.Unknown, Depth: 3},
		{Path: "/p/gdm_sources/c", URL: "C", Rev: "v2", Depth: 1},
	}
}

func TestFromIdentities(t *testing.T) {
	g := FromIdentities("/p", fixture())

	if len(g.Nodes) != 4 {
		t.Fatalf("len(Nodes) = %d, want 4", len(g.Nodes))
	}
	if g.Nodes[0].ID != "gdm_sources/a" {
		t.Errorf("Nodes[0].ID = %q, want gdm_sources/a", g.Nodes[0].ID)
	}

	want := []Edge{
		{From: "", To: "gdm_sources/a"},
		{From: "gdm_sources/a", To: "gdm_sources/a/gdm_sources/b"},
		{From: "gdm_sources/a/gdm_sources/b", To: "gdm_sources/a/gdm_sources/b/gdm_sources/d"},
		{From: "", To: "gdm_sources/c"},
	}
	if len(g.Edges) != len(want) {
		t.Fatalf("len(Edges) = %d, want %d", len(g.Edges), len(want))
	}
	for i, e := range want {
		if g.Edges[i] != e {
			t.Errorf("Edges[%d] = %+v, want %+v", i, g.Edges[i], e)
		}
	}
}

func TestFromIdentitiesEmpty(t *testing.T) {
	g := FromIdentities("/p", nil)
	if len(g.Nodes) != 0 || len(g.Edges) != 0 {
		t.Errorf("empty input produced %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FromIdentities("/p", fixture()).WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded Graph
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Root != "/p" || len(decoded.Nodes) != 4 {
		t.Errorf("decoded root=%q nodes=%d", decoded.Root, len(decoded.Nodes))
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(FromIdentities("/p", fixture()))

	for _, want := range []string{
		"digraph G {",
		`"." [label="p"`,
		`"." -> "gdm_sources/a";`,
		`"gdm_sources/a" -> "gdm_sources/a/gdm_sources/b";`,
		`label="a\n1111111"`,
		`fillcolor="#ffd966"`,
		`style="rounded,dashed"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestShortRev(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0123456789abcdef0123456789abcdef01234567", "0123456"},
		{"v1", "v1"},
		{deps.Dirty, deps.Dirty},
	}
	for _, tt := range tests {
		if got := shortRev(tt.in); got != tt.want {
			t.Errorf("shortRev(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
