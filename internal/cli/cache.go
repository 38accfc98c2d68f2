package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/esterpost/internal/store"
)

// CacheOptions holds flags for the cache commands.
type CacheOptions struct {
	*RootOptions
}

// SnapshotList is the output of cache list.
type SnapshotList struct {
	Snapshots []store.Summary `json:"snapshots" yaml:"snapshots"`
}

func (l SnapshotList) String() string {
	if len(l.Snapshots) == 0 {
		return "No snapshots found in cache.\n"
	}
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "seq\tid\tdimension\trecords\tsource")
	for _, s := range l.Snapshots {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", s.Seq, s.ID, s.Dim, s.RecordCount, shortKey(s.SourceKey))
	}
	_ = tw.Flush()
	return b.String()
}

// shortKey abbreviates a source hash for display.
func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}

// NewCacheCommand creates the cache command group.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CacheOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the catalog snapshot cache",
		Long: `Inspect the SQLite database holding catalog snapshots saved with
"scatter --save". The database path comes from --cache.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved snapshots in save order",
		Long: `List saved snapshots in save order.

Exit codes:
  0 - Snapshots listed
  2 - Command error (cache cannot be opened)

Examples:
  esterpost cache list
  esterpost cache list --cache runs/cache.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheList(opts, cmd)
		},
	})

	return cmd
}

func runCacheList(opts *CacheOptions, cmd *cobra.Command) error {
	st, err := openStore(opts.RootOptions)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open cache", err)
	}
	defer st.Close()

	snapshots, err := st.ListSnapshots(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list snapshots", err)
	}
	return opts.formatter(cmd).Success(SnapshotList{Snapshots: snapshots})
}
