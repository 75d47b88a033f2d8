package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// since is a seam so probe latency is deterministic in tests.
var since = time.Since

func newStatusCmd() *cobra.Command {
	var useGlobal bool
	var cfgPath string
	var output string
	var contextName string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current context and probe its backend",
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
			sctx, err := cfg.GetContext(name)
			if err != nil {
				return err
			}
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}
			opts := cfg.Options.WithDefaults(home)

			ctxTimeout, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			svc, err := openStorage(ctxTimeout, sctx, opts)
			if err != nil {
				return err
			}
			defer svc.Close()

			start := time.Now()
			containers, err := svc.ListContainers(ctxTimeout)
			if err != nil {
				return fmt.Errorf("probe %s: %w", sctx.Name, err)
			}
			latency := since(start).Round(time.Millisecond)

			resp := map[string]string{
				"context":    sctx.Name,
				"backend":    sctx.Backend.String(),
				"profile":    sctx.Profile,
				"region":     sctx.Region,
				"endpoint":   sctx.Endpoint,
				"containers": strconv.Itoa(len(containers)),
				"latency":    latency.String(),
			}
			if sctx.Compartment != "" {
				resp["compartment"] = sctx.Compartment
			}
			switch strings.ToLower(output) {
			case "":
				// default human-friendly multiline
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "context: %s\n", resp["context"])
				if resp["profile"] != "" && resp["context"] != resp["profile"] {
					fmt.Fprintf(out, "profile: %s\n", resp["profile"])
				}
				fmt.Fprintf(out, "backend: %s\n", resp["backend"])
				if resp["region"] != "" {
					fmt.Fprintf(out, "region: %s\n", resp["region"])
				}
				if resp["endpoint"] != "" {
					fmt.Fprintf(out, "endpoint: %s\n", resp["endpoint"])
				}
				if c := resp["compartment"]; c != "" {
					fmt.Fprintf(out, "compartment: %s\n", abbrevOCID(c))
				}
				fmt.Fprintf(out, "containers: %s (%s)\n", resp["containers"], resp["latency"])
				return nil
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			case "yaml", "yml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				defer enc.Close()
				return enc.Encode(resp)
			case "plain":
				line := fmt.Sprintf(
					"context=%s backend=%s profile=%s region=%s endpoint=%s containers=%s latency=%s",
					resp["context"], resp["backend"], resp["profile"], resp["region"], resp["endpoint"], resp["containers"], resp["latency"],
				)
				fmt.Fprintln(cmd.OutOrStdout(), line)
				return nil
			default:
				return fmt.Errorf("unsupported output format: %s", output)
			}
		},
	}

	addConfigFlags(cmd, &cfgPath, &useGlobal)
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output format: json|yaml|plain (default: human-readable)")
	cmd.Flags().StringVar(&contextName, "context", "", "Context to probe (default: current context)")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "Probe timeout")
	return cmd
}
