package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ghostdevv/npm-alt/pkg/npmpkg"
	"github.com/ghostdevv/npm-alt/pkg/score"
)

func newScoreCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "score <specifier>",
		Short: "Score a package's quality signals",
		Args:  cobra.ExactArgs(1),
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

			report, err := a.scores.Get(ctx, rv.Name, rv.Version)
			if err != nil {
				return err
			}

			printScore(rv, report)
			return nil
		},
	}
}

func printScore(rv npmpkg.ResolvedVersion, report *score.Report) {
	fmt.Println(styleTitle.Render(rv.ID()))

	values := map[string]string{
		"readme":    scoreValue(report.Readme),
		"changelog": fmt.Sprintf("%d", report.Changelog),
		"types":     fmt.Sprintf("%d", report.Types),
		"license":   fmt.Sprintf("%d", report.License),
	}

	for _, c := range score.Criteria {
		fmt.Printf("%s %s %s\n",
			styleLabel.Render(fmt.Sprintf("%-10s", c.ID)),
			styleValue.Render(fmt.Sprintf("%s/%d", values[c.ID], c.Max)),
			styleDim.Render(c.Name),
		)
	}
}

func scoreValue(v *int) string {
	if v == nil {
		return "?"
	}
	return fmt.Sprintf("%d", *v)
}
