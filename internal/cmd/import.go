package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adrianmross/objnav/pkg/config"
	"github.com/adrianmross/objnav/pkg/profiles"
	"github.com/adrianmross/objnav/pkg/storage"
)

func newImportCmd() *cobra.Command {
	var cfgPath string
	var useGlobal bool
	var source string
	var awsConfig, awsCredentials, ociConfig string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import contexts from AWS and OCI CLI config profiles",
		Long: `Create one context per profile found in the AWS shared config and
credentials files and in the OCI CLI config. Contexts are named
s3-<profile> and oci-<profile>.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := strings.ToLower(source)
			if src != "all" && src != "aws" && src != "oci" {
				return fmt.Errorf("unsupported source: %s", source)
			}
			useGlobal, err := cmd.Flags().GetBool("global")
			if err != nil {
				return err
			}
			path, err := resolveConfigPath(cfgPath, useGlobal)
			if err != nil {
				return err
			}
			if err := config.EnsureDefaultConfig(path); err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			home, err := os.UserHomeDir()
			if err != nil {
				return err
			}

			var found []profiles.Profile
			var sources []string
			if src == "all" || src == "aws" {
				defCfg, defCreds := profiles.AWSPaths(home)
				if awsConfig == "" {
					awsConfig = defCfg
				}
				if awsCredentials == "" {
					awsCredentials = defCreds
				}
				ps, err := profiles.LoadAWS(awsConfig, awsCredentials)
				if err != nil {
					return err
				}
				found = append(found, ps...)
				sources = append(sources, awsConfig, awsCredentials)
			}
			if src == "all" || src == "oci" {
				if ociConfig == "" {
					ociConfig = profiles.OCIPath(home)
				}
				ps, err := profiles.LoadOCI(ociConfig)
				switch {
				case err == nil:
					found = append(found, ps...)
					sources = append(sources, ociConfig)
				case errors.Is(err, os.ErrNotExist) && src == "all":
					// no OCI CLI installed
				default:
					return err
				}
			}
			imported := 0
			skipped := 0
			for _, p := range found {
				ctx := contextFromProfile(p)
				if err := ctx.Validate(); err != nil {
					return fmt.Errorf("profile %s invalid: %w", p.Name, err)
				}
				if !overwrite {
					// if exists, skip
					if _, err := cfg.GetContext(ctx.Name); err == nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "skip: %s (exists)\n", ctx.Name)
						skipped++
						continue
					}
				}
				if err := cfg.UpsertContext(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "import: %s (profile %s)\n", ctx.Name, p.Name)
				imported++
			}

			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d profiles (skipped %d) from %s\n", imported, skipped, strings.Join(sources, ", "))
			return nil
		},
	}

	addConfigFlags(cmd, &cfgPath, &useGlobal)
	cmd.Flags().StringVarP(&source, "source", "s", "all", "Profiles to import: all|aws|oci")
	cmd.Flags().StringVar(&awsConfig, "aws-config", "", "Path to AWS shared config (default ~/.aws/config)")
	cmd.Flags().StringVar(&awsCredentials, "aws-credentials", "", "Path to AWS shared credentials (default ~/.aws/credentials)")
	cmd.Flags().StringVarP(&ociConfig, "oci-config", "o", "", "Path to OCI CLI config (default ~/.oci/config)")
	cmd.Flags().BoolVarP(&overwrite, "overwrite", "w", false, "Overwrite existing contexts with same name")
	return cmd
}

func contextFromProfile(p profiles.Profile) config.Context {
	ctx := config.Context{
		Name:     fmt.Sprintf("%s-%s", p.Backend, p.Name),
		Backend:  p.Backend,
		Profile:  p.Name,
		Region:   p.Region,
		Endpoint: p.Endpoint,
	}
	switch p.Backend {
	case storage.BackendOCI:
		ctx.Compartment = p.Tenancy // default to root compartment
		ctx.Notes = "imported from OCI CLI config"
	default:
		ctx.Notes = "imported from AWS shared config"
	}
	return ctx
}
