package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/adrianmross/objnav/pkg/config"
)

// resolveConfigPath returns the config path based on flags and project discovery.
// Priority:
//  1. explicit --config
//  2. if global flag set -> ~/.objnav/config.yml
//  3. project-local configs (in order):
//     ./.objnav.yml, ./.objnav/config.yml, ./objnav.yml
//  4. fallback to ~/.objnav/config.yml
func resolveConfigPath(cfg string, global bool) (string, error) {
	if cfg != "" {
		return cfg, nil
	}

	// global override
	if global {
		return globalConfigPath()
	}

	// project discovery (cwd)
	if wd, err := os.Getwd(); err == nil {
		candidates := []string{
			".objnav.yml",
			filepath.Join(".objnav", "config.yml"),
			"objnav.yml",
		}
		for _, rel := range candidates {
			p := filepath.Join(wd, rel)
			if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
				return p, nil
			}
		}
	}

	return globalConfigPath()
}

func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".objnav", "config.yml"), nil
}

// addConfigFlags registers the config selection flags every context command
// takes.
func addConfigFlags(cmd *cobra.Command, cfgPath *string, useGlobal *bool) {
	cmd.Flags().StringVarP(cfgPath, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVarP(useGlobal, "global", "g", false, "Use global config (~/.objnav/config.yml)")
}

// loadConfig resolves and reads the config file, which must exist.
func loadConfig(cmd *cobra.Command, cfgPath string) (string, config.Config, error) {
	useGlobal, err := cmd.Flags().GetBool("global")
	if err != nil {
		return "", config.Config{}, err
	}
	path, err := resolveConfigPath(cfgPath, useGlobal)
	if err != nil {
		return "", config.Config{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return "", config.Config{}, err
	}
	return path, cfg, nil
}
