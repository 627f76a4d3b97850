package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login <token>",
		Short: "Set the upload API token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.Save(args[0]); err != nil {
				return fmt.Errorf("save token to %s: %w", app.Store.Path(), err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token saved successfully.")
			return nil
		},
	}
}
