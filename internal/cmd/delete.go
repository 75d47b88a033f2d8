package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adrianmross/objnav/pkg/config"
)

func newDeleteCmd() *cobra.Command {
	var cfgPath string
	var useGlobal bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			path, cfg, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			if err := cfg.DeleteContext(name); err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted context %s\n", name)
			return nil
		},
	}

	addConfigFlags(cmd, &cfgPath, &useGlobal)
	return cmd
}
