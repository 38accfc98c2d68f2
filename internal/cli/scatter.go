package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/esterpost/internal/catalog"
	"github.com/roach88/esterpost/internal/discover"
	"github.com/roach88/esterpost/internal/plot"
	"github.com/roach88/esterpost/internal/star"
	"github.com/roach88/esterpost/internal/store"
)

// DefaultPlot is the attribute triple plotted when --plot is not given.
const DefaultPlot = "M,R,Omega_bk"

// Catalog sources reported by the scatter command.
const (
	SourceModels     = "models"
	SourceCache      = "cache"
	SourceHistorical = "historical"
)

// ScatterOptions holds flags for the scatter command.
type ScatterOptions struct {
	*RootOptions
	Folders   []string
	Ester     int
	Plot      string
	Scatter3D bool
	Recursive bool
	Filter    string
	Where     string
	Print     bool
	Save      bool
	Output    string
}

// ScatterResult is the output of the scatter command.
type ScatterResult struct {
	Source   string       `json:"source" yaml:"source"`
	Snapshot string       `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`
	Records  int          `json:"records" yaml:"records"`
	Removed  int          `json:"removed" yaml:"removed"`
	Output   string       `json:"output,omitempty" yaml:"output,omitempty"`
	Catalog  []RecordView `json:"catalog,omitempty" yaml:"catalog,omitempty"`

	raw catalog.Catalog
}

func (r ScatterResult) String() string {
	var b strings.Builder
	if r.raw != nil {
		fmt.Fprintf(&b, "stars: %d record(s) from %s\n", len(r.raw), r.Source)
		_ = writeCatalog(&b, r.raw)
	}
	if r.Snapshot != "" {
		fmt.Fprintf(&b, "Snapshot: %s\n", r.Snapshot)
	}
	if r.Output != "" {
		fmt.Fprintf(&b, "Plot written to %s\n", r.Output)
	}
	return b.String()
}

// scatterPlan is the validated form of the scatter flags.
type scatterPlan struct {
	dim       star.Dimension
	attrs     []catalog.Attribute
	criterion *catalog.Criterion
	selector  *catalog.Selector
}

// NewScatterCommand creates the scatter command.
func NewScatterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScatterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scatter",
		Short: "Scatter plot three attributes over a set of models",
		Long: `Collect attributes from every ESTER model of the given folders and plot
the first two against each other, coloured by the third. With --scatterplot3d
the three attributes are drawn as a projected 3D scatter instead.

Models whose path does not match --ester are skipped: a path containing
"2d" or "w", in the file name or in any folder name, is a 2D model. When no
model file is found, the latest cached snapshot for the same folders is
used, or the historical sample data when there is none.

Masses are shown in solar masses, radii in solar radii, and test residuals
as absolute values on a log scale.

Attributes: M, R, Z, Tc, X, ndomains, eos, Omega_bk, test_virial, test_energy

Exit codes:
  0 - Plot written
  1 - Invalid flags, or nothing left to display
  2 - Command error (unreadable model, cache or plot failure)

Examples:
  esterpost scatter -f models/2d -e 2 --plot M,R,Omega_bk
  esterpost scatter -f models -r --filter Omega_bk,0.1 --print
  esterpost scatter -f models --where 'Omega_bk: <0.5' -3 --output m-r-z.svg
  esterpost scatter -f models --save`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.applyConfig(cmd)
			return runScatter(opts, cmd)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Folders, "folders", "f", []string{"."}, "folders containing models")
	cmd.Flags().IntVarP(&opts.Ester, "ester", "e", 1, "dimension of the models to plot (1 or 2)")
	cmd.Flags().StringVar(&opts.Plot, "plot", DefaultPlot, "three comma-separated attributes: x, y and colour (or z)")
	cmd.Flags().BoolVarP(&opts.Scatter3D, "scatterplot3d", "3", false, "draw a 3D scatter plot")
	cmd.Flags().BoolVarP(&opts.Recursive, "recursive", "r", false, "look for models in subfolders")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "drop models whose attribute equals a value (attr,value)")
	cmd.Flags().StringVar(&opts.Where, "where", "", "keep models satisfying a CUE constraint, e.g. 'Omega_bk: <0.3'")
	cmd.Flags().BoolVarP(&opts.Print, "print", "p", false, "print the catalog before normalization")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "save the catalog as a new cache snapshot")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "scatter.png", "plot file (png, svg, pdf, ...)")

	return cmd
}

// applyConfig fills flags left unset from the configuration file.
func (o *ScatterOptions) applyConfig(cmd *cobra.Command) {
	cfg := o.config().Scatter
	flags := cmd.Flags()
	if len(cfg.Folders) > 0 && !flags.Changed("folders") {
		o.Folders = cfg.Folders
	}
	if cfg.Ester != 0 && !flags.Changed("ester") {
		o.Ester = cfg.Ester
	}
	if len(cfg.Plot) > 0 && !flags.Changed("plot") {
		o.Plot = strings.Join(cfg.Plot, ",")
	}
	if cfg.Recursive && !flags.Changed("recursive") {
		o.Recursive = true
	}
}

// validate checks every flag before any model is read.
func (o *ScatterOptions) validate() (*scatterPlan, error) {
	dim, err := star.ParseDimension(o.Ester)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "invalid --ester", err)
	}

	for _, folder := range o.Folders {
		if !discover.IsDir(folder) {
			return nil, NewExitError(ExitFailure, fmt.Sprintf("'%s' isn't a path to a folder", folder))
		}
	}

	fields := strings.Split(o.Plot, ",")
	if len(fields) != 3 {
		return nil, NewExitError(ExitFailure,
			fmt.Sprintf("exactly 3 attributes are needed with --plot, got %d: %v", len(fields), fields))
	}
	attrs, err := catalog.ParseList(o.Plot)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "invalid --plot", err)
	}
	for _, a := range attrs {
		if !a.Numeric() {
			return nil, NewExitError(ExitFailure, fmt.Sprintf("attribute %s is not numeric and cannot be plotted", a))
		}
	}

	plan := &scatterPlan{dim: dim, attrs: attrs}
	if o.Filter != "" {
		c, err := catalog.ParseCriterion(o.Filter)
		if err != nil {
			return nil, WrapExitError(ExitFailure, "invalid --filter", err)
		}
		plan.criterion = &c
	}
	if o.Where != "" {
		s, err := catalog.CompileWhere(o.Where)
		if err != nil {
			return nil, WrapExitError(ExitFailure, "invalid --where", err)
		}
		plan.selector = s
	}
	return plan, nil
}

func runScatter(opts *ScatterOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	log := opts.logger()

	plan, err := opts.validate()
	if err != nil {
		log.Error(err.Error())
		return err
	}
	log.Info("looking for ESTER models", zap.Stringer("dimension", plan.dim), zap.Strings("folders", opts.Folders))

	paths, err := discover.Find(opts.Folders, discover.Options{Recursive: opts.Recursive})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list models", err)
	}
	log.Debug("found models", zap.Int("count", len(paths)), zap.Strings("paths", paths))

	sourceKey, err := store.SourceKey(opts.Folders, plan.dim, opts.Recursive)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to derive source key", err)
	}

	result := ScatterResult{Source: SourceModels}
	var records catalog.Catalog
	if len(paths) == 0 {
		records, result.Source, result.Snapshot = fallbackCatalog(ctx, opts.RootOptions, sourceKey)
	} else {
		kept, skipped := discover.Select(paths, plan.dim)
		for _, s := range skipped {
			log.Warn("ignoring model of the other dimension", zap.String("path", s.Path), zap.Stringer("seems", s.Dim))
		}
		if records, err = loadCatalog(ctx, opts.reader(), log, kept); err != nil {
			return err
		}
	}

	if opts.Save {
		id, err := saveSnapshot(ctx, opts, sourceKey, plan.dim, records, result.Source)
		if err != nil {
			return err
		}
		if id != "" {
			result.Snapshot = id
		}
	}

	if plan.criterion != nil {
		var removed int
		records, removed = catalog.Filter(records, *plan.criterion)
		log.Info("filter applied", zap.String("filter", opts.Filter), zap.Int("removed", removed))
		result.Removed += removed
	}
	if plan.selector != nil {
		var removed int
		records, removed = catalog.Where(records, plan.selector)
		log.Info("constraint applied", zap.Stringer("where", plan.selector), zap.Int("removed", removed))
		result.Removed += removed
	}
	result.Records = len(records)

	if opts.Print {
		result.raw = records
		result.Catalog = newRecordViews(records)
	}

	if len(records) == 0 {
		log.Error("Nothing to display, stars' empty")
		if opts.Print {
			_ = opts.formatter(cmd).Success(result)
		}
		return emptyResult("nothing to display: no model left", nil)
	}

	out := opts.outputPath(opts.Output)
	if err := renderScatter(out, records.Normalize(), plan.attrs, opts.Scatter3D); err != nil {
		if errors.Is(err, plot.ErrEmpty) {
			log.Error("Nothing to display, every point has a missing value")
			return emptyResult("nothing to display", err)
		}
		return WrapExitError(ExitCommandError, "failed to render plot", err)
	}
	log.Info("plot written", zap.String("path", out))
	result.Output = out

	return opts.formatter(cmd).Success(result)
}

// fallbackCatalog returns the latest snapshot cached for sourceKey, or the
// historical sample data. Cache failures only cost the cached data.
func fallbackCatalog(ctx context.Context, opts *RootOptions, sourceKey string) (catalog.Catalog, string, string) {
	log := opts.logger()

	st, err := openStore(opts)
	if err == nil {
		defer st.Close()
		snap, err := st.LatestSnapshot(ctx, sourceKey)
		switch {
		case err == nil:
			log.Warn("no models found, using cached snapshot",
				zap.String("snapshot", snap.ID), zap.Int("records", len(snap.Records)))
			return snap.Records, SourceCache, snap.ID
		case !errors.Is(err, store.ErrNotFound):
			log.Warn("cannot read cache", zap.Error(err))
		}
	} else {
		log.Warn("cannot open cache", zap.Error(err))
	}

	log.Warn("No models found in this directory, using older values for stars")
	records, err := catalog.Historical()
	if err != nil {
		log.Error("cannot decode historical data", zap.Error(err))
		return nil, SourceHistorical, ""
	}
	return records, SourceHistorical, ""
}

// saveSnapshot stores freshly loaded records. Fallback data is already
// stored or built in, so it is not saved again.
func saveSnapshot(ctx context.Context, opts *ScatterOptions, sourceKey string, dim star.Dimension, records catalog.Catalog, source string) (string, error) {
	log := opts.logger()
	if source != SourceModels {
		log.Warn("nothing new to save", zap.String("source", source))
		return "", nil
	}

	st, err := openStore(opts.RootOptions)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to open cache", err)
	}
	defer st.Close()

	snap, err := st.SaveSnapshot(ctx, sourceKey, dim, records)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to save snapshot", err)
	}
	log.Info("catalog saved", zap.String("snapshot", snap.ID), zap.Int64("seq", snap.Seq), zap.Int("records", len(records)))
	return snap.ID, nil
}

// isLogAttribute reports whether an attribute is drawn on a log scale.
func isLogAttribute(a catalog.Attribute) bool {
	return a == catalog.AttrTestVirial || a == catalog.AttrTestEnergy
}

func renderScatter(path string, records catalog.Catalog, attrs []catalog.Attribute, threeD bool) error {
	if err := ensureParent(path); err != nil {
		return err
	}

	var cols [3]plot.Column
	for i, a := range attrs {
		values, err := records.Column(a)
		if err != nil {
			return err
		}
		cols[i] = plot.Column{
			Axis:   plot.Axis{Label: axisLabel(a), Log: isLogAttribute(a)},
			Values: values,
		}
	}

	if threeD {
		return plot.Scatter3D(path, cols[0], cols[1], cols[2], plot.DefaultView, plot.Size{})
	}
	return plot.Scatter2D(path, cols[0], cols[1], cols[2], plot.Size{})
}

func axisLabel(a catalog.Attribute) string {
	switch a {
	case catalog.AttrM:
		return "M/M_sun"
	case catalog.AttrR:
		return "R/R_sun"
	case catalog.AttrTestVirial, catalog.AttrTestEnergy:
		return "|" + string(a) + "|"
	default:
		return string(a)
	}
}
