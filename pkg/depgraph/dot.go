package depgraph

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// ToDOT converts a graph to Graphviz DOT format. The resulting DOT string
// can be rendered with [RenderSVG]. Unresolved leaf nodes are drawn with
// dashed outlines and grey fill to distinguish them from resolved packages.
func ToDOT(g *Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		attrs := fmtAttrs(n)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if e.Optional {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", e.From, e.To)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtAttrs(n Node) []string {
	attrs := []string{fmt.Sprintf("label=%q", n.Name+"\n"+n.Version)}
	if !n.Resolved {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
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
