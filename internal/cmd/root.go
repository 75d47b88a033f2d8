package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// version is overridden at build time with -ldflags "-X".
var version = "dev"

// isTerminal checks if stdout is a TTY.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "objnav [uri]",
		Short: "Browse object storage buckets in the terminal",
		Long: `Browse buckets, prefixes and objects level by level.

Start at the container list, or pass a location to open it directly:
  objnav
  objnav s3://bucket/logs/2024/
  objnav --backend oci --profile DEFAULT oci://bucket/
  objnav --backend file --root /srv/data file://exports/

When stdout is not a terminal the location is listed once instead, as with
` + "`objnav ls`" + `.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(cmd)
			if err != nil {
				return err
			}
			t, err := resolveTarget(v, args)
			if err != nil {
				return err
			}
			if !isTerminal() {
				return runListing(cmd, t, "", "")
			}
			return runBrowser(cmd, t)
		},
	}

	// Persistent flags for config selection
	pf := cmd.PersistentFlags()
	pf.StringP("config", "c", "", "Path to config file (default project .objnav.yml else $HOME/.objnav/config.yml)")
	pf.BoolP("global", "g", false, "Force use of global config (~/.objnav/config.yml)")
	addTargetFlags(cmd)

	// Subcommands
	cmd.AddCommand(
		newLsCmd(),
		newStatusCmd(),
		newInitCmd(),
		newListCmd(),
		newCurrentCmd(),
		newUseCmd(),
		newAddCmd(),
		newDeleteCmd(),
		newImportCmd(),
		newExportCmd(),
	)

	return cmd
}

// Execute runs the CLI.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
