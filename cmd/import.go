package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aniekan-akpan/theblog/internal/importer"
)

var watchImport bool

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Imports markdown posts into the CMS",
	Long: `The import command walks the content directory (default from the config,
'./content'), reads every Markdown file with its frontmatter and creates or
updates the matching blog post in the CMS by slug. Creating posts needs an API
token with write access. With --watch it keeps running and re-imports whenever
a file changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := appConfig.ContentDir
		if len(args) == 1 {
			dir = args[0]
		}
		im := importer.New(newService(), logger)

		res, err := im.ImportDir(cmd.Context(), dir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %s: %d created, %d updated\n", dir, res.Created, res.Updated)
		for _, path := range res.Failed {
			fmt.Fprintf(out, "  failed: %s\n", path)
		}
		if !watchImport {
			if len(res.Failed) > 0 {
				return fmt.Errorf("%d file(s) failed to import", len(res.Failed))
			}
			return nil
		}

		fmt.Fprintf(out, "Watching %s for changes. Press Ctrl+C to stop.\n", dir)
		return im.Watch(cmd.Context(), dir)
	},
}

func init() {
	importCmd.Flags().BoolVarP(&watchImport, "watch", "w", false, "keep watching the directory and re-import on change")
	rootCmd.AddCommand(importCmd)
}
