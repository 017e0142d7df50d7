package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/pubgraph"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "render [path]",
		Short: "Print the final HTML for a page path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.openApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.RenderPage(cmd.Context(), pubgraph.NormalizePath(pathArg(args)))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), res.HTML)
			return err
		},
	}
}

// pathArg returns the page path argument; no argument means the homepage.
func pathArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
