// Package depgraph builds the production-dependency closure of a package
// version as a node/edge graph, deduplicated by resolved identity.
package depgraph

import (
	"context"
	"sync"

	charmlog "github.com/charmbracelet/log"

	"github.com/ghostdevv/npm-alt/pkg/npmpkg"
)

// Node is one package in the graph. ID is name@version, where version is
// the resolved version for registry packages and the literal declared spec
// for unresolvable leaves.
type Node struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Version  string `json:"version"`
	Resolved bool   `json:"resolved"`
}

// Edge connects a dependent package to one of its dependencies.
type Edge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Optional bool   `json:"optional,omitempty"`
}

// Graph is the full traversal result.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Builder builds dependency graphs. Safe for concurrent use; each Build
// call runs an independent traversal.
type Builder struct {
	packages *npmpkg.Service
	log      *charmlog.Logger
}

// NewBuilder creates a graph builder over the given package service.
func NewBuilder(packages *npmpkg.Service, logger *charmlog.Logger) *Builder {
	if logger == nil {
		logger = charmlog.Default()
	}
	return &Builder{packages: packages, log: logger}
}

// Build resolves the production-dependency closure of name@version. Each
// unique resolved id is fetched and expanded at most once; shared
// dependencies produce one node with multiple inbound edges. Dependencies
// that are not registry references, or that fail to resolve, become leaf
// nodes keyed by their declared spec.
func (b *Builder) Build(ctx context.Context, name, version string) (*Graph, error) {
	root, err := b.packages.GetPackageExact(ctx, npmpkg.ResolvedVersion{Name: name, Version: version})
	if err != nil {
		return nil, err
	}

	t := &traversal{
		packages: b.packages,
		log:      b.log,
		nodes:    make(map[string]Node),
		visited:  make(map[string]bool),
	}

	rootID := name + "@" + version
	t.nodes[rootID] = Node{ID: rootID, Name: name, Version: version, Resolved: true}
	t.visited[rootID] = true
	t.expand(ctx, rootID, root.Dependencies)
	t.wg.Wait()

	g := &Graph{Edges: t.edges}
	order := append([]string{rootID}, t.order...)
	for _, id := range order {
		g.Nodes = append(g.Nodes, t.nodes[id])
	}
	return g, nil
}

type traversal struct {
	packages *npmpkg.Service
	log      *charmlog.Logger
	wg       sync.WaitGroup

	mu      sync.Mutex
	nodes   map[string]Node
	order   []string
	edges   []Edge
	visited map[string]bool
}

// expand walks the production dependencies of the node identified by from.
// Siblings resolve concurrently; the maps are serialized under mu.
func (t *traversal) expand(ctx context.Context, from string, deps []npmpkg.Dependency) {
	for _, dep := range deps {
		if dep.Type != npmpkg.DependencyProd {
			continue
		}
		t.wg.Add(1)
		go func(dep npmpkg.Dependency) {
			defer t.wg.Done()
			t.visit(ctx, from, dep)
		}(dep)
	}
}

func (t *traversal) visit(ctx context.Context, from string, dep npmpkg.Dependency) {
	if !dep.Registry {
		t.addLeaf(from, dep)
		return
	}

	spec, err := npmpkg.ParseSpecifier(dep.Name + "@" + dep.Version)
	if err != nil {
		t.addLeaf(from, dep)
		return
	}

	pkg, err := t.packages.GetPackage(ctx, spec)
	if err != nil {
		t.log.Debug("dependency resolution failed, keeping as leaf", "name", dep.Name, "spec", dep.Version, "err", err)
		t.addLeaf(from, dep)
		return
	}

	id := pkg.Name + "@" + pkg.Version

	// Mark before expanding so a cycle terminates at its first repeated id
	// instead of recursing forever.
	t.mu.Lock()
	seen := t.visited[id]
	t.visited[id] = true
	if !seen {
		t.nodes[id] = Node{ID: id, Name: pkg.Name, Version: pkg.Version, Resolved: true}
		t.order = append(t.order, id)
	}
	t.edges = append(t.edges, Edge{From: from, To: id, Optional: dep.Optional})
	t.mu.Unlock()

	if !seen {
		t.expand(ctx, id, pkg.Dependencies)
	}
}

// addLeaf records a node for a dependency that cannot be traversed further,
// keyed by its literal declared version.
func (t *traversal) addLeaf(from string, dep npmpkg.Dependency) {
	id := dep.Name + "@" + dep.Version

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.visited[id] {
		t.visited[id] = true
		t.nodes[id] = Node{ID: id, Name: dep.Name, Version: dep.Version, Resolved: false}
		t.order = append(t.order, id)
	}
	t.edges = append(t.edges, Edge{From: from, To: id, Optional: dep.Optional})
}
