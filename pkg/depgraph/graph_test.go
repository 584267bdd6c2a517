package depgraph

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"

	"github.com/ghostdevv/npm-alt/pkg/cache"
	"github.com/ghostdevv/npm-alt/pkg/integrations/npm"
	"github.com/ghostdevv/npm-alt/pkg/npmpkg"
)

// pkgDef describes one fake registry package at version 1.0.0.
type pkgDef struct {
	deps         map[string]string
	optionalDeps map[string]string
}

func newTestBuilder(t *testing.T, packages map[string]pkgDef) *Builder {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		def, ok := packages[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		manifest := map[string]any{"name": name, "version": "1.0.0"}
		if def.deps != nil {
			manifest["dependencies"] = def.deps
		}
		if def.optionalDeps != nil {
			manifest["optionalDependencies"] = def.optionalDeps
		}
		json.NewEncoder(w).Encode(map[string]any{
			"name":      name,
			"dist-tags": map[string]string{"latest": "1.0.0"},
			"versions":  map[string]any{"1.0.0": manifest},
			"time":      map[string]string{"1.0.0": "2024-01-01T00:00:00Z"},
		})
	}))
	t.Cleanup(srv.Close)

	logger := charmlog.New(io.Discard)
	c := cache.New(cache.NewMemoryStore(), logger)
	t.Cleanup(func() { c.Close() })

	service := npmpkg.NewService(npm.NewClient(srv.URL), c, logger)
	return NewBuilder(service, logger)
}

func edgeSet(g *Graph) map[string]Edge {
	set := make(map[string]Edge, len(g.Edges))
	for _, e := range g.Edges {
		set[e.From+"->"+e.To] = e
	}
	return set
}

func TestBuildDiamondDeduplicates(t *testing.T) {
	b := newTestBuilder(t, map[string]pkgDef{
		"root":   {deps: map[string]string{"a": "^1.0.0", "b": "^1.0.0"}},
		"a":      {deps: map[string]string{"shared": "^1.0.0"}},
		"b":      {deps: map[string]string{"shared": "^1.0.0"}},
		"shared": {},
	})

	g, err := b.Build(context.Background(), "root", "1.0.0")
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	sharedNodes := 0
	for _, n := range g.Nodes {
		if n.Name == "shared" {
			sharedNodes++
			if n.ID != "shared@1.0.0" || !n.Resolved {
				t.Errorf("shared node = %+v, want resolved shared@1.0.0", n)
			}
		}
	}
	if sharedNodes != 1 {
		t.Errorf("graph has %d shared nodes, want exactly 1", sharedNodes)
	}

	edges := edgeSet(g)
	for _, want := range []string{
		"root@1.0.0->a@1.0.0",
		"root@1.0.0->b@1.0.0",
		"a@1.0.0->shared@1.0.0",
		"b@1.0.0->shared@1.0.0",
	} {
		if _, ok := edges[want]; !ok {
			t.Errorf("missing edge %s", want)
		}
	}
	if len(g.Edges) != 4 {
		t.Errorf("len(Edges) = %d, want 4", len(g.Edges))
	}
}

func TestBuildCycleTerminates(t *testing.T) {
	b := newTestBuilder(t, map[string]pkgDef{
		"x": {deps: map[string]string{"y": "^1.0.0"}},
		"y": {deps: map[string]string{"x": "^1.0.0"}},
	})

	g, err := b.Build(context.Background(), "x", "1.0.0")
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if len(g.Nodes) != 2 {
		t.Errorf("len(Nodes) = %d, want 2", len(g.Nodes))
	}

	edges := edgeSet(g)
	if _, ok := edges["x@1.0.0->y@1.0.0"]; !ok {
		t.Error("missing edge x@1.0.0->y@1.0.0")
	}
	if _, ok := edges["y@1.0.0->x@1.0.0"]; !ok {
		t.Error("missing back edge y@1.0.0->x@1.0.0")
	}
}

func TestBuildNonRegistryLeaf(t *testing.T) {
	b := newTestBuilder(t, map[string]pkgDef{
		"root": {deps: map[string]string{"native": "github:foo/bar"}},
	})

	g, err := b.Build(context.Background(), "root", "1.0.0")
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	var leaf *Node
	for i := range g.Nodes {
		if g.Nodes[i].Name == "native" {
			leaf = &g.Nodes[i]
		}
	}
	if leaf == nil {
		t.Fatal("missing leaf node for non-registry dependency")
	}
	if leaf.Resolved {
		t.Error("non-registry dependency should be unresolved")
	}
	if leaf.ID != "native@github:foo/bar" {
		t.Errorf("leaf ID = %q, want literal declared spec", leaf.ID)
	}
}

func TestBuildUnresolvableLeaf(t *testing.T) {
	b := newTestBuilder(t, map[string]pkgDef{
		"root": {deps: map[string]string{"ghost": "^1.0.0"}},
	})

	g, err := b.Build(context.Background(), "root", "1.0.0")
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	edges := edgeSet(g)
	if _, ok := edges["root@1.0.0->ghost@^1.0.0"]; !ok {
		t.Errorf("missing leaf edge for unresolvable dependency, edges: %v", edges)
	}
}

func TestBuildOptionalEdge(t *testing.T) {
	b := newTestBuilder(t, map[string]pkgDef{
		"root":     {optionalDeps: map[string]string{"fsevents": "^1.0.0"}},
		"fsevents": {},
	})

	g, err := b.Build(context.Background(), "root", "1.0.0")
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	edges := edgeSet(g)
	e, ok := edges["root@1.0.0->fsevents@1.0.0"]
	if !ok {
		t.Fatalf("missing optional edge, edges: %v", edges)
	}
	if !e.Optional {
		t.Error("edge should carry the optional flag")
	}
}

func TestToDOT(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "a@1.0.0", Name: "a", Version: "1.0.0", Resolved: true},
			{ID: "b@x", Name: "b", Version: "x", Resolved: false},
		},
		Edges: []Edge{{From: "a@1.0.0", To: "b@x", Optional: true}},
	}

	dot := ToDOT(g)
	if !strings.HasPrefix(dot, "digraph G {") {
		t.Errorf("ToDOT() should open a digraph, got %q", dot[:20])
	}
	if !strings.Contains(dot, `"a@1.0.0" -> "b@x" [style=dashed];`) {
		t.Errorf("optional edge missing dashed style:\n%s", dot)
	}
	if !strings.Contains(dot, "dashed") || !strings.Contains(dot, "lightgrey") {
		t.Error("unresolved node should render dashed and grey")
	}
}
