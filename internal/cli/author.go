package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthorCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "author <username>",
		Short: "List all packages maintained by an author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := loggerFromContext(ctx)

			a, err := newApp(ctx, *configPath, log)
			if err != nil {
				return err
			}
			defer a.Close()

			packages, err := a.searches.ListByAuthor(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Println(styleTitle.Render(fmt.Sprintf("%s (%d packages)", args[0], len(packages))))
			for _, obj := range packages {
				fmt.Printf("%s %s\n",
					styleValue.Render(fmt.Sprintf("%-40s", obj.Package.Name+"@"+obj.Package.Version)),
					styleDim.Render(obj.Package.Description),
				)
			}
			return nil
		},
	}
}
