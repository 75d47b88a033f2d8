package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adrianmross/objnav/pkg/config"
	"github.com/adrianmross/objnav/pkg/storage"
)

type envVar struct {
	Name  string
	Value string
}

func newExportCmd() *cobra.Command {
	var cfgPath string
	var useGlobal bool
	var format string
	var contextName string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a context as shell environment or json",
		Long: `Print the environment the context's SDK reads, for use with other tools:

  eval "$(objnav export)"
  aws s3 ls`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			name := contextName
			if name == "" {
				name = cfg.CurrentContext
			}
			if name == "" {
				return fmt.Errorf("no current context set")
			}
			ctx, err := cfg.GetContext(name)
			if err != nil {
				return fmt.Errorf("%w: %s", err, name)
			}

			switch format {
			case "env", "":
				lines := make([]string, 0, 6)
				for _, v := range exportVars(ctx) {
					lines = append(lines, fmt.Sprintf("export %s=%s", v.Name, v.Value))
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(ctx); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}
			return nil
		},
	}

	addConfigFlags(cmd, &cfgPath, &useGlobal)
	cmd.Flags().StringVarP(&format, "format", "f", "env", "Output format: env|json")
	cmd.Flags().StringVar(&contextName, "context", "", "Context to export (default: current context)")
	return cmd
}

// exportVars lists the variables for ctx in a stable order. Empty values
// are left out. OBJNAV_CONTEXT selects the context for later objnav runs.
func exportVars(ctx config.Context) []envVar {
	vars := []envVar{{Name: envPrefix + "_CONTEXT", Value: ctx.Name}}
	add := func(name, value string) {
		if value != "" {
			vars = append(vars, envVar{Name: name, Value: value})
		}
	}
	switch ctx.Backend {
	case storage.BackendOCI:
		add("OCI_CLI_PROFILE", ctx.Profile)
		add("OCI_REGION", ctx.Region)
		add("OCI_COMPARTMENT_OCID", ctx.Compartment)
		add("OCI_NAMESPACE", ctx.Namespace)
	case storage.BackendFile:
		// reads no environment
	default:
		add("AWS_PROFILE", ctx.Profile)
		add("AWS_REGION", ctx.Region)
		add("AWS_ENDPOINT_URL", ctx.Endpoint)
	}
	return vars
}
