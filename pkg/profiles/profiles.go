// Package profiles discovers named credential profiles in the AWS and OCI CLI
// config files so they can be imported as browse contexts.
package profiles

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adrianmross/objnav/pkg/storage"
)

// Profile is one importable profile.
type Profile struct {
	Name     string
	Backend  storage.Backend
	Region   string
	Endpoint string
	// Tenancy is set for OCI profiles only.
	Tenancy string
}

// section is one [name] block of an INI file, keys lower-cased.
type section struct {
	name   string
	values map[string]string
}

func parseINI(path string) ([]section, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sections []section
	index := map[string]int{}
	current := -1
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.TrimSpace(line[1 : len(line)-1])
			i, ok := index[name]
			if !ok {
				i = len(sections)
				index[name] = i
				sections = append(sections, section{name: name, values: map[string]string{}})
			}
			current = i
			continue
		}
		kv := strings.SplitN(line, "=", 2)
		if len(kv) != 2 || current < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(kv[0]))
		sections[current].values[key] = strings.TrimSpace(kv[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sections, nil
}

// AWSPaths returns the shared config and credentials paths, honoring
// AWS_CONFIG_FILE and AWS_SHARED_CREDENTIALS_FILE.
func AWSPaths(home string) (configPath, credentialsPath string) {
	configPath = os.Getenv("AWS_CONFIG_FILE")
	if configPath == "" {
		configPath = filepath.Join(home, ".aws", "config")
	}
	credentialsPath = os.Getenv("AWS_SHARED_CREDENTIALS_FILE")
	if credentialsPath == "" {
		credentialsPath = filepath.Join(home, ".aws", "credentials")
	}
	return configPath, credentialsPath
}

// OCIPath returns the OCI CLI config path, honoring OCI_CLI_CONFIG_FILE.
func OCIPath(home string) string {
	if p := os.Getenv("OCI_CLI_CONFIG_FILE"); p != "" {
		return p
	}
	return filepath.Join(home, ".oci", "config")
}

// LoadAWS merges the profiles of the shared config and credentials files.
// Config sections are named "default" or "profile <name>"; credentials
// sections are bare names. A missing file contributes nothing.
func LoadAWS(configPath, credentialsPath string) ([]Profile, error) {
	byName := map[string]*Profile{}
	get := func(name string) *Profile {
		p, ok := byName[name]
		if !ok {
			p = &Profile{Name: name, Backend: storage.BackendS3}
			byName[name] = p
		}
		return p
	}

	cfgSections, err := parseINI(configPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", configPath, err)
	}
	for _, s := range cfgSections {
		name := s.name
		if after, ok := strings.CutPrefix(name, "profile "); ok {
			name = strings.TrimSpace(after)
		} else if name != "default" {
			// sso-session and services blocks are not profiles
			continue
		}
		p := get(name)
		p.Region = s.values["region"]
		p.Endpoint = s.values["endpoint_url"]
	}

	credSections, err := parseINI(credentialsPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", credentialsPath, err)
	}
	for _, s := range credSections {
		get(s.name)
	}

	return sorted(byName), nil
}

// LoadOCI parses the OCI CLI config. Every profile needs a tenancy and a
// region.
func LoadOCI(path string) ([]Profile, error) {
	sections, err := parseINI(path)
	if err != nil {
		return nil, err
	}
	byName := map[string]*Profile{}
	for _, s := range sections {
		p := &Profile{
			Name:    s.name,
			Backend: storage.BackendOCI,
			Region:  s.values["region"],
			Tenancy: s.values["tenancy"],
		}
		if p.Tenancy == "" {
			return nil, fmt.Errorf("profile %s missing tenancy", s.name)
		}
		if p.Region == "" {
			return nil, fmt.Errorf("profile %s missing region", s.name)
		}
		byName[s.name] = p
	}
	return sorted(byName), nil
}

func sorted(byName map[string]*Profile) []Profile {
	out := make([]Profile, 0, len(byName))
	for _, p := range byName {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
