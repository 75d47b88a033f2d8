package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/adrianmross/objnav/internal/nav"
	"github.com/adrianmross/objnav/pkg/storage"
)

// lsRecord is one listed item in json/yaml output.
type lsRecord struct {
	Kind         string `json:"kind" yaml:"kind"`
	Name         string `json:"name" yaml:"name"`
	URI          string `json:"uri" yaml:"uri"`
	Size         *int64 `json:"size,omitempty" yaml:"size,omitempty"`
	LastModified string `json:"last_modified,omitempty" yaml:"last_modified,omitempty"`
	Location     string `json:"location,omitempty" yaml:"location,omitempty"`
}

func newLsCmd() *cobra.Command {
	var cfgPath string
	var useGlobal bool
	var output string
	var match string

	cmd := &cobra.Command{
		Use:   "ls [uri]",
		Short: "List one level without the interactive browser",
		Long: `List the containers, or the prefixes and objects directly under a location.

Examples:
  objnav ls
  objnav ls s3://bucket/logs/ --match '*.gz'
  objnav ls oci://bucket/ -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper(cmd)
			if err != nil {
				return err
			}
			t, err := resolveTarget(v, args)
			if err != nil {
				return err
			}
			return runListing(cmd, t, output, match)
		},
	}

	addConfigFlags(cmd, &cfgPath, &useGlobal)
	addTargetFlags(cmd)
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output format: json|yaml|plain (default: table)")
	cmd.Flags().StringVar(&match, "match", "", "Only list names matching a glob (e.g. '*.csv', 'logs-*')")
	return cmd
}

// runListing fetches the start level once and prints it.
func runListing(cmd *cobra.Command, t target, output, match string) error {
	if match != "" && !doublestar.ValidatePattern(match) {
		return fmt.Errorf("invalid --match pattern: %s", match)
	}
	format := strings.ToLower(output)
	switch format {
	case "", "json", "yaml", "yml", "plain":
	default:
		return fmt.Errorf("unsupported output format: %s", output)
	}

	s, err := openSession(cmd.Context(), t)
	if err != nil {
		return err
	}
	defer s.Close()

	scope, items, err := listOnce(cmd.Context(), s.ctl)
	if err != nil {
		return err
	}
	items, err = filterItems(items, match)
	if err != nil {
		return err
	}
	return writeListing(cmd.OutOrStdout(), format, t.Scheme, scope, items)
}

// filterItems drops Up and, with a pattern, every item whose name does not
// match it. Prefix names are matched without their trailing delimiter.
func filterItems(items []nav.Item, pattern string) ([]nav.Item, error) {
	out := make([]nav.Item, 0, len(items))
	for _, it := range items {
		if it.Kind == nav.KindUp {
			continue
		}
		if pattern != "" {
			ok, err := doublestar.Match(pattern, strings.TrimSuffix(it.Name(), storage.Delimiter))
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		out = append(out, it)
	}
	return out, nil
}

func itemURI(scheme string, scope nav.Scope, it nav.Item) string {
	switch it.Kind {
	case nav.KindContainer:
		return storage.FormatURI(scheme, it.Container.ID, "")
	case nav.KindPrefix:
		return storage.FormatURI(scheme, scope.Container, it.Prefix)
	case nav.KindEntry:
		return storage.FormatURI(scheme, scope.Container, it.Entry.Key)
	default:
		return storage.FormatURI(scheme, scope.Container, scope.Prefix)
	}
}

func toRecord(scheme string, scope nav.Scope, it nav.Item) lsRecord {
	rec := lsRecord{Kind: it.Kind.String(), Name: it.Name(), URI: itemURI(scheme, scope, it)}
	switch it.Kind {
	case nav.KindContainer:
		rec.Location = it.Container.Location
	case nav.KindEntry:
		size := it.Entry.Size
		rec.Size = &size
		rec.LastModified = nav.FormatTimestamp(it.Entry.LastModified)
	}
	return rec
}

func writeListing(w io.Writer, format, scheme string, scope nav.Scope, items []nav.Item) error {
	switch format {
	case "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, it := range items {
			row := it.Row()
			fmt.Fprintf(tw, "%s\t%s\t%s\n", row.Left, row.Mid, row.Right)
		}
		return tw.Flush()
	case "plain":
		for _, it := range items {
			fmt.Fprintln(w, itemURI(scheme, scope, it))
		}
		return nil
	}

	records := make([]lsRecord, 0, len(items))
	for _, it := range items {
		records = append(records, toRecord(scheme, scope, it))
	}
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(records)
}
