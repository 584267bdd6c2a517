package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ghostdevv/npm-alt/pkg/npmpkg"
	"github.com/ghostdevv/npm-alt/pkg/replacements"
)

func newPackageCmd(configPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "package <specifier>",
		Short: "Show normalized metadata for a package",
		Long: `Show normalized metadata for a package.

The specifier follows npm conventions: a bare name resolves the latest
dist-tag, name@tag resolves a dist-tag, name@1.2.3 an exact version, and
name@^1.0.0 the highest version satisfying the range.`,
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

			pkg, err := a.packages.GetPackage(ctx, spec)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(pkg)
			}

			printPackage(pkg, a.packages.TypeStatus(ctx, pkg), a.replacements.ForPackage(ctx, pkg.Name))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func printPackage(pkg *npmpkg.InternalPackage, types npmpkg.TypeStatus, repl []replacements.Replacement) {
	fmt.Println(styleTitle.Render(pkg.Name + "@" + pkg.Version))
	if pkg.Deprecated != "" {
		fmt.Println(styleNotice.Render("deprecated: " + pkg.Deprecated))
	}
	for _, r := range repl {
		fmt.Println(styleNotice.Render("replaceable: " + replacementLine(r)))
	}

	printField("license", pkg.License)
	printField("homepage", pkg.Homepage)
	printField("repository", pkg.RepoURL)
	if pkg.Size > 0 {
		printField("unpacked size", formatSize(pkg.Size))
	}
	if !pkg.PublishedAt.IsZero() {
		printField("published", pkg.PublishedAt.Format("2006-01-02"))
	}
	printField("types", typeStatusLine(types))

	counts := map[npmpkg.DependencyType]int{}
	for _, d := range pkg.Dependencies {
		counts[d.Type]++
	}
	if len(counts) > 0 {
		var parts []string
		for _, t := range []npmpkg.DependencyType{npmpkg.DependencyProd, npmpkg.DependencyDev, npmpkg.DependencyPeer} {
			if counts[t] > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", counts[t], t))
			}
		}
		printField("dependencies", strings.Join(parts, ", "))
	}

	for _, f := range pkg.Funding {
		printField("funding", f.URL)
	}
}

func printField(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("%s %s\n", styleLabel.Render(fmt.Sprintf("%-14s", label)), styleValue.Render(value))
}

func replacementLine(r replacements.Replacement) string {
	switch r.Type {
	case replacements.TypeNative:
		line := r.Replacement
		if r.NodeVersion != "" {
			line += " (node " + r.NodeVersion + "+)"
		}
		return line
	case replacements.TypeDocumented:
		return "see module-replacements docs/modules/" + r.DocPath + ".md"
	default:
		return r.Replacement
	}
}

func typeStatusLine(types npmpkg.TypeStatus) string {
	switch types.Status {
	case npmpkg.TypesBuiltIn:
		return "built-in"
	case npmpkg.TypesDefinitelyTyped:
		return "via " + types.Package
	default:
		return "none"
	}
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
