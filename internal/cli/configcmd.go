package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (app *App) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or save the effective configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as YAML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.cfg.Write(app.Stdout)
			},
		},
		&cobra.Command{
			Use:   "save [path]",
			Short: "Write the effective configuration to path or the user config directory",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if len(args) == 1 {
					if err := app.cfg.SaveTo(args[0]); err != nil {
						return err
					}
					fmt.Fprintln(app.Stdout, args[0])
					return nil
				}
				path, err := app.cfg.Save()
				if err != nil {
					return err
				}
				fmt.Fprintln(app.Stdout, path)
				return nil
			},
		},
	)
	return cmd
}
