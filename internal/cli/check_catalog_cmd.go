package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCatalogCmd(app *App) *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "check-catalog",
		Short: "Validate a YAML catalog file",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := LoadCatalog(catalogPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "catalog ok: %d course(s), %d section(s)\n", catalog.Courses(), catalog.Sections())
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML catalog file")
	_ = cmd.MarkFlagRequired("catalog")

	return cmd
}
