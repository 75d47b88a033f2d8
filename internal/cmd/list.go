package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newListCmd() *cobra.Command {
	var cfgPath string
	var useGlobal bool
	var output string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contexts",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}

			switch strings.ToLower(output) {
			case "":
				// Default: human-friendly list
				for _, ctx := range cfg.Contexts {
					marker := " "
					if ctx.Name == cfg.CurrentContext {
						marker = "*"
					}
					if verbose {
						fmt.Fprintf(cmd.OutOrStdout(), "%s %s (backend=%s profile=%s region=%s endpoint=%s path_style=%t namespace=%s compartment=%s root=%s)\n",
							marker,
							ctx.Name,
							ctx.Backend,
							ctx.Profile,
							ctx.Region,
							ctx.Endpoint,
							ctx.PathStyle,
							ctx.Namespace,
							ctx.Compartment,
							ctx.Root,
						)
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s (backend=%s profile=%s region=%s)\n", marker, ctx.Name, ctx.Backend, ctx.Profile, ctx.Region)
				}
				return nil
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cfg.Contexts)
			case "yaml", "yml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				defer enc.Close()
				return enc.Encode(cfg.Contexts)
			case "plain":
				for _, ctx := range cfg.Contexts {
					marker := ""
					if ctx.Name == cfg.CurrentContext {
						marker = "*"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "context=%s%s backend=%s profile=%s region=%s endpoint=%s notes=%s\n",
						ctx.Name,
						marker,
						ctx.Backend,
						ctx.Profile,
						ctx.Region,
						ctx.Endpoint,
						ctx.Notes,
					)
				}
				return nil
			default:
				return fmt.Errorf("unsupported output format: %s", output)
			}
		},
	}

	addConfigFlags(cmd, &cfgPath, &useGlobal)
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output format: json|yaml|plain (default: human-readable)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed fields in human-readable output")
	return cmd
}
