package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adrianmross/objnav/pkg/config"
)

func newUseCmd() *cobra.Command {
	var cfgPath string
	var useGlobal bool

	cmd := &cobra.Command{
		Use:   "use <name>",
		Short: "Switch current context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			path, cfg, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			if _, err := cfg.GetContext(name); err != nil {
				return fmt.Errorf("%w: %s", err, name)
			}
			cfg.CurrentContext = name
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Switched to context %s\n", name)
			return nil
		},
	}

	addConfigFlags(cmd, &cfgPath, &useGlobal)
	return cmd
}
