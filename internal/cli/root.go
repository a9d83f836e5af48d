package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds what the commands share.
type App struct {
	Out    io.Writer
	Logger *zap.Logger
}

// NewRootCmd creates the top-level "ssp" command and registers all subcommands.
func NewRootCmd(app *App) *cobra.Command {
	if app.Out == nil {
		app.Out = os.Stdout
	}
	if app.Logger == nil {
		app.Logger = zap.NewNop()
	}

	root := &cobra.Command{
		Use:           "ssp",
		Short:         "Student schedule planner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(app.Out)

	root.AddCommand(
		newGenerateCmd(app),
		newCheckCatalogCmd(app),
		newTokenCmd(app),
	)

	return root
}
