package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ghostdevv/npm-alt/pkg/depgraph"
	"github.com/ghostdevv/npm-alt/pkg/npmpkg"
)

func newGraphCmd(configPath *string) *cobra.Command {
	var (
		dot    bool
		svgOut string
	)

	cmd := &cobra.Command{
		Use:   "graph <specifier>",
		Short: "Walk a package's production dependency graph",
		Long: `Walk a package's production dependency graph.

By default the graph is printed as an indented listing. Use --dot to emit
Graphviz DOT on stdout, or --svg to render an SVG file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := loggerFromContext(ctx)

			spec, err := npmpkg.ParseSpecifier(args[0])
			if err != nil {
				return err
			}

			a, err := newApp(ctx, *configPath, log)
			if err != nil {
				return err
			}
			defer a.Close()

			rv, err := a.packages.Resolve(ctx, spec)
			if err != nil {
				return err
			}

			graph, err := a.graphs.Build(ctx, rv.Name, rv.Version)
			if err != nil {
				return err
			}

			switch {
			case dot:
				fmt.Print(depgraph.ToDOT(graph))
			case svgOut != "":
				svg, err := depgraph.RenderSVG(ctx, depgraph.ToDOT(graph))
				if err != nil {
					return err
				}
				if err := os.WriteFile(svgOut, svg, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", svgOut, err)
				}
				log.Info("wrote graph", "file", svgOut, "nodes", len(graph.Nodes), "edges", len(graph.Edges))
			default:
				printGraph(graph, rv.ID())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dot, "dot", false, "emit Graphviz DOT on stdout")
	cmd.Flags().StringVar(&svgOut, "svg", "", "render the graph to an SVG file")
	return cmd
}

// printGraph walks edges from the root and prints an indented listing.
// Shared nodes print once with their children and afterwards as bare
// references.
func printGraph(g *depgraph.Graph, rootID string) {
	children := make(map[string][]depgraph.Edge)
	for _, e := range g.Edges {
		children[e.From] = append(children[e.From], e)
	}
	nodes := make(map[string]depgraph.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes[n.ID] = n
	}

	printed := make(map[string]bool)
	var walk func(id string, depth int, optional bool)
	walk = func(id string, depth int, optional bool) {
		indent := ""
		for range depth {
			indent += "  "
		}

		label := styleValue.Render(id)
		if depth == 0 {
			label = styleTitle.Render(id)
		}
		if n, ok := nodes[id]; ok && !n.Resolved {
			label = styleDim.Render(id + " (unresolved)")
		}
		if optional {
			label += styleDim.Render(" (optional)")
		}

		if printed[id] {
			fmt.Println(indent + label + styleDim.Render(" *"))
			return
		}
		printed[id] = true

		fmt.Println(indent + label)
		for _, e := range children[id] {
			walk(e.To, depth+1, e.Optional)
		}
	}
	walk(rootID, 0, false)
}
