package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/adrianmross/objnav/internal/nav"
	"github.com/adrianmross/objnav/pkg/config"
	"github.com/adrianmross/objnav/pkg/storage"
)

// envPrefix namespaces environment overrides: OBJNAV_PROFILE,
// OBJNAV_ENDPOINT_URL and so on.
const envPrefix = "OBJNAV"

// target is everything needed to open a backend and start browsing.
type target struct {
	Context config.Context
	Options config.Options
	Start   nav.Scope
	Scheme  string
}

// addTargetFlags registers the backend selection flags shared by the root
// command and ls.
func addTargetFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("context", "", "Named context from the config file (default: current context)")
	f.String("backend", "", "Storage backend: s3|minio|oci|file")
	f.StringP("profile", "p", "", "Credentials profile")
	f.StringP("endpoint-url", "e", "", "Custom endpoint URL for S3-compatible stores")
	f.StringP("region", "r", "", "Region")
	f.Bool("path-style", false, "Use path-style S3 addressing")
	f.String("namespace", "", "OCI Object Storage namespace")
	f.String("compartment", "", "OCI compartment OCID scoping the bucket list")
	f.String("root", "", "Root directory for the file backend")
	f.String("log-file", "", "Log file path; - disables logging (default ~/.objnav/objnav.log)")
	f.String("log-level", "", "Log level: debug|info|warn|error")
}

// newViper binds the command's flags and OBJNAV_* environment variables.
func newViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	return v, nil
}

// resolveTarget layers the selected config context, then flags and
// environment, then the optional start URI.
func resolveTarget(v *viper.Viper, args []string) (target, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return target{}, err
	}
	path, err := resolveConfigPath(v.GetString("config"), v.GetBool("global"))
	if err != nil {
		return target{}, err
	}
	cfg, err := config.LoadOrDefault(path, home)
	if err != nil {
		return target{}, err
	}
	ctx, err := cfg.Resolve(v.GetString("context"))
	if err != nil {
		return target{}, err
	}

	explicitBackend := false
	if b := v.GetString("backend"); b != "" {
		ctx.Backend = storage.Backend(strings.ToLower(b))
		explicitBackend = true
	}
	override := func(dst *string, key string) {
		if s := v.GetString(key); s != "" {
			*dst = s
		}
	}
	override(&ctx.Profile, "profile")
	override(&ctx.Endpoint, "endpoint-url")
	override(&ctx.Region, "region")
	override(&ctx.Namespace, "namespace")
	override(&ctx.Compartment, "compartment")
	override(&ctx.Root, "root")
	if v.IsSet("path-style") {
		ctx.PathStyle = v.GetBool("path-style")
	}

	opts := cfg.Options.WithDefaults(home)
	override(&opts.LogFile, "log-file")
	override(&opts.LogLevel, "log-level")

	t := target{Context: ctx, Options: opts}
	if len(args) > 0 && args[0] != "" {
		loc, err := parseStart(args[0])
		if err != nil {
			return target{}, err
		}
		if !explicitBackend && !sameProtocol(ctx.Backend, loc.Backend()) {
			t.Context.Backend = loc.Backend()
		}
		t.Start = nav.Scope{Container: loc.Container, Prefix: loc.Prefix}
	}
	if t.Context.Backend == "" {
		t.Context.Backend = storage.BackendS3
	}
	switch t.Context.Backend {
	case storage.BackendS3, storage.BackendMinio, storage.BackendOCI, storage.BackendFile:
	default:
		return target{}, fmt.Errorf("unknown backend %q", t.Context.Backend)
	}
	t.Scheme = storage.SchemeFor(t.Context.Backend)
	return t, nil
}

// parseStart accepts a full URI or a bare "scheme://" naming the container
// list.
func parseStart(arg string) (storage.Location, error) {
	if scheme, ok := strings.CutSuffix(arg, "://"); ok && scheme != "" {
		if _, known := storage.LookupScheme(scheme); !known {
			return storage.Location{}, fmt.Errorf("%w: %s", storage.ErrUnsupportedScheme, scheme)
		}
		return storage.Location{Scheme: strings.ToLower(scheme)}, nil
	}
	return storage.ParseURI(arg)
}

// sameProtocol reports whether a URI for uri can be served by backend b.
// MinIO contexts are addressed with s3:// URIs.
func sameProtocol(b, uri storage.Backend) bool {
	if b == uri {
		return true
	}
	return b == storage.BackendMinio && uri == storage.BackendS3
}
