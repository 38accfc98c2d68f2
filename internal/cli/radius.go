package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/esterpost/internal/catalog"
	"github.com/roach88/esterpost/internal/discover"
	"github.com/roach88/esterpost/internal/plot"
	"github.com/roach88/esterpost/internal/star"
)

// RadiusOptions holds flags for the radius command.
type RadiusOptions struct {
	*RootOptions
	Folder string
	Output string
}

// MassRadius is one model's mass and radius in cgs units.
type MassRadius struct {
	M float64 `json:"M" yaml:"M"`
	R float64 `json:"R" yaml:"R"`
}

// RadiusGroup holds the models sharing one metallicity.
type RadiusGroup struct {
	Z      string       `json:"Z" yaml:"Z"`
	Models []MassRadius `json:"models" yaml:"models"`
}

// RadiusResult is the output of the radius command.
type RadiusResult struct {
	Folder string        `json:"folder" yaml:"folder"`
	Groups []RadiusGroup `json:"groups" yaml:"groups"`
	Output string        `json:"output,omitempty" yaml:"output,omitempty"`
}

func (r RadiusResult) String() string {
	var b strings.Builder
	if len(r.Groups) == 0 {
		fmt.Fprintf(&b, "No models found in %s.\n", r.Folder)
	}
	for _, g := range r.Groups {
		pairs := make([]string, len(g.Models))
		for i, m := range g.Models {
			pairs[i] = fmt.Sprintf("(%s, %s)", catalog.FormatFloat(m.M), catalog.FormatFloat(m.R))
		}
		fmt.Fprintf(&b, "Z=%s: [%s]\n", g.Z, strings.Join(pairs, ", "))
	}
	if r.Output != "" {
		fmt.Fprintf(&b, "Plot written to %s\n", r.Output)
	}
	return b.String()
}

// NewRadiusCommand creates the radius command.
func NewRadiusCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RadiusOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "radius",
		Short: "Group 1D models by metallicity and list their mass and radius",
		Long: `Read every .h5 model of a folder and print, for each central
metallicity Z, the (M, R) pairs of its models in order of discovery. With
--output, also plot R/R_sun against M/M_sun with one curve per Z.

A folder that does not exist falls back to the working directory.

Exit codes:
  0 - Groups printed
  1 - Nothing to plot
  2 - Command error (unreadable model, plot failure)

Examples:
  esterpost radius --folder models/1d
  esterpost radius -f models/1d --output radius.png`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("folder") && opts.config().Radius.Folder != "" {
				opts.Folder = opts.config().Radius.Folder
			}
			return runRadius(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Folder, "folder", "f", ".", "folder containing 1D models")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "plot R(M) to this file (png, svg, pdf, ...)")

	return cmd
}

func runRadius(opts *RadiusOptions, cmd *cobra.Command) error {
	log := opts.logger()

	folder := opts.Folder
	if !discover.IsDir(folder) {
		log.Warn("not a directory, using working directory", zap.String("folder", folder))
		folder = "."
	}

	paths, err := discover.Find([]string{folder}, discover.Options{})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list models", err)
	}
	records, err := loadCatalog(cmd.Context(), opts.reader(), log, paths)
	if err != nil {
		return err
	}

	result := RadiusResult{Folder: folder, Groups: []RadiusGroup{}}
	for _, g := range catalog.GroupBy(records, catalog.ZKey) {
		log.Info("new metallicity group", zap.String("Z", g.Key), zap.Int("models", len(g.Records)))
		group := RadiusGroup{Z: g.Key, Models: make([]MassRadius, len(g.Records))}
		for i, r := range g.Records {
			group.Models[i] = MassRadius{M: r.M, R: r.R}
		}
		result.Groups = append(result.Groups, group)
	}

	if opts.Output != "" {
		out := opts.outputPath(opts.Output)
		if err := plotRadius(out, result.Groups); err != nil {
			if errors.Is(err, plot.ErrEmpty) {
				log.Error("Nothing to display, no models found")
				return emptyResult("nothing to display", err)
			}
			return WrapExitError(ExitCommandError, "failed to render plot", err)
		}
		log.Info("plot written", zap.String("path", out))
		result.Output = out
	}

	return opts.formatter(cmd).Success(result)
}

func plotRadius(path string, groups []RadiusGroup) error {
	if err := ensureParent(path); err != nil {
		return err
	}
	series := make([]plot.Series, len(groups))
	for i, g := range groups {
		s := plot.Series{Name: "Z=" + g.Z}
		for _, m := range g.Models {
			s.X = append(s.X, m.M/star.MSun)
			s.Y = append(s.Y, m.R/star.RSun)
		}
		series[i] = s
	}
	return plot.Lines(path, "R(M)",
		plot.Axis{Label: "M/M_sun"}, plot.Axis{Label: "R/R_sun"},
		series, plot.Size{})
}
