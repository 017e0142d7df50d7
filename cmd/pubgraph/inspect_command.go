package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/eringen/pubgraph"
	"github.com/eringen/pubgraph/opengraph"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [path]",
		Short: "Show the OpenGraph properties of a rendered page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := ctx.openApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()

			p := pubgraph.NormalizePath(pathArg(args))
			res, err := app.RenderPage(cmd.Context(), p)
			if err != nil {
				return err
			}
			props, err := opengraph.Extract(res.HTML)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Path:   /%s\n", p)
			fmt.Fprintf(out, "Status: %d %s\n", res.Status, http.StatusText(res.Status))
			if len(props) == 0 {
				fmt.Fprintln(out, "No OpenGraph properties")
				return nil
			}
			rows := make([][]string, 0, len(props))
			for _, prop := range props {
				rows = append(rows, []string{prop.Name, prop.Value})
			}
			fmt.Fprintln(out, renderTable([]string{"Property", "Content"}, rows, []columnAlignment{alignLeft, alignLeft}))
			return nil
		},
	}
}
