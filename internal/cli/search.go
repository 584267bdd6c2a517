package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ghostdevv/npm-alt/pkg/npmpkg"
)

func newSearchCmd(configPath *string) *cobra.Command {
	var (
		from int
		size int
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the registry for packages",
		Long: `Search the registry for packages.

With a query argument, prints one page of results. Without one, opens an
interactive search where typing re-queries as you go and enter shows the
selected package.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := loggerFromContext(ctx)

			a, err := newApp(ctx, *configPath, log)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) == 1 {
				return runSearchOnce(cmd, a, args[0], from, size)
			}
			return runSearchInteractive(cmd, a)
		},
	}

	cmd.Flags().IntVar(&from, "from", 0, "result offset")
	cmd.Flags().IntVar(&size, "size", 25, "page size")
	return cmd
}

func runSearchOnce(cmd *cobra.Command, a *app, query string, from, size int) error {
	result, err := a.searches.Search(cmd.Context(), query, from, size)
	if err != nil {
		return err
	}

	fmt.Println(styleTitle.Render(fmt.Sprintf("%d results for %q", result.Total, query)))
	for _, obj := range result.Items {
		fmt.Printf("%s %s\n",
			styleValue.Render(fmt.Sprintf("%-40s", obj.Package.Name+"@"+obj.Package.Version)),
			styleDim.Render(obj.Package.Description),
		)
	}
	if !result.Done {
		fmt.Println(styleDim.Render(fmt.Sprintf("more results: --from %d", from+len(result.Items))))
	}
	return nil
}

func runSearchInteractive(cmd *cobra.Command, a *app) error {
	ctx := cmd.Context()

	model := newSearchModel(ctx, a.searches)
	p := tea.NewProgram(model, tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		return err
	}

	m, ok := final.(searchModel)
	if !ok || m.choice == "" {
		return nil
	}

	spec, err := npmpkg.ParseSpecifier(m.choice)
	if err != nil {
		return err
	}
	pkg, err := a.packages.GetPackage(ctx, spec)
	if err != nil {
		return err
	}
	printPackage(pkg, a.packages.TypeStatus(ctx, pkg), a.replacements.ForPackage(ctx, pkg.Name))
	return nil
}
