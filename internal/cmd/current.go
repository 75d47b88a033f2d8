package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCurrentCmd() *cobra.Command {
	var cfgPath string
	var useGlobal bool

	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show the current context name",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			if cfg.CurrentContext == "" {
				return fmt.Errorf("no current context set")
			}
			ctx, err := cfg.GetContext(cfg.CurrentContext)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ctx.Name)
			return nil
		},
	}
	addConfigFlags(cmd, &cfgPath, &useGlobal)
	return cmd
}

// abbrevOCID shortens an OCID for display.
func abbrevOCID(s string) string {
	if len(s) <= 16 {
		return s
	}
	return fmt.Sprintf("%s…%s", s[:6], s[len(s)-6:])
}
