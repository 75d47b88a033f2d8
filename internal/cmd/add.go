package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adrianmross/objnav/pkg/config"
	"github.com/adrianmross/objnav/pkg/storage"
)

func newAddCmd() *cobra.Command {
	var cfgPath string
	var useGlobal bool
	var backend string
	var ctx config.Context

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or update a context",
		Long: `Add or update a named storage context.

Examples:
  objnav add -n lake -b s3 -p data -r eu-west-1
  objnav add -n local-minio -b minio -e http://localhost:9000
  objnav add -n tenancy -b oci -p DEFAULT -m ocid1.compartment.oc1..aaaa
  objnav add -n exports -b file --root /srv/exports`,
		RunE: func(cmd *cobra.Command, args []string) error {
			useGlobal, err := cmd.Flags().GetBool("global")
			if err != nil {
				return err
			}
			path, err := resolveConfigPath(cfgPath, useGlobal)
			if err != nil {
				return err
			}
			ctx.Backend = storage.Backend(strings.ToLower(backend))
			if err := ctx.Validate(); err != nil {
				return err
			}
			if err := config.EnsureDefaultConfig(path); err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if err := cfg.UpsertContext(ctx); err != nil {
				return err
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added/updated context %s\n", ctx.Name)
			return nil
		},
	}

	addConfigFlags(cmd, &cfgPath, &useGlobal)
	cmd.Flags().StringVarP(&ctx.Name, "name", "n", "", "Context name")
	cmd.Flags().StringVarP(&backend, "backend", "b", string(storage.BackendS3), "Storage backend: s3|minio|oci|file")
	cmd.Flags().StringVarP(&ctx.Profile, "profile", "p", "", "Credentials profile")
	cmd.Flags().StringVarP(&ctx.Region, "region", "r", "", "Region")
	cmd.Flags().StringVarP(&ctx.Endpoint, "endpoint-url", "e", "", "Custom endpoint URL")
	cmd.Flags().BoolVar(&ctx.PathStyle, "path-style", false, "Use path-style S3 addressing")
	cmd.Flags().StringVar(&ctx.Namespace, "namespace", "", "OCI Object Storage namespace")
	cmd.Flags().StringVarP(&ctx.Compartment, "compartment", "m", "", "OCI compartment OCID")
	cmd.Flags().StringVar(&ctx.Root, "root", "", "Root directory for the file backend")
	cmd.Flags().StringVarP(&ctx.Notes, "notes", "N", "", "Notes")

	_ = cmd.MarkFlagRequired("name")

	return cmd
}
