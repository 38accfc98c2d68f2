package cli

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/roach88/esterpost/internal/plot"
)

// ProfileOptions holds flags for the profile command.
type ProfileOptions struct {
	*RootOptions
	Output string
}

// ProfileResult is the output of the profile command.
type ProfileResult struct {
	Model       string `json:"model" yaml:"model"`
	Points      int    `json:"points" yaml:"points"`
	Colatitudes int    `json:"colatitudes" yaml:"colatitudes"`
	Output      string `json:"output" yaml:"output"`
}

func (r ProfileResult) String() string {
	return fmt.Sprintf("Plot written to %s\n", r.Output)
}

// NewProfileCommand creates the profile command.
func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProfileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "profile <model>",
		Short: "Plot log10(rho) and log10(T) against r for every colatitude",
		Long: `Plot the density and temperature profiles of an ESTER model as
log10(rho) and log10(T) against the dimensionless radius, one curve per
colatitude of the model grid.

Exit codes:
  0 - Plot written
  1 - Nothing to plot
  2 - Command error (unreadable model, plot failure)

Examples:
  esterpost profile models/M5_O95.h5
  esterpost profile models/M5_O95.h5 --output M5_O95.svg`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfile(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "profile.png", "plot file (png, svg, pdf, ...)")

	return cmd
}

func runProfile(opts *ProfileOptions, cmd *cobra.Command, path string) error {
	log := opts.logger()

	model, err := opts.reader().Read(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read model", err)
	}
	nr, nth := model.Points()
	log.Debug("model loaded", zap.String("path", path), zap.Int("nr", nr), zap.Int("nth", nth))

	out := opts.outputPath(opts.Output)
	if err := ensureParent(out); err != nil {
		return WrapExitError(ExitCommandError, "failed to prepare output", err)
	}
	err = plot.Profiles(out, model.Path,
		plot.Axis{Label: "r"}, plot.Axis{Label: "log10"},
		[]plot.Profile{
			{Name: "log10 rho", R: model.Radius, V: log10(model.Rho), Th: model.Th},
			{Name: "log10 T", R: model.Radius, V: log10(model.T), Th: model.Th},
		},
		plot.Size{})
	if err != nil {
		if errors.Is(err, plot.ErrEmpty) {
			log.Error("Nothing to display, profiles have no positive value")
			return emptyResult("nothing to display", err)
		}
		return WrapExitError(ExitCommandError, "failed to render plot", err)
	}
	log.Info("plot written", zap.String("path", out))

	return opts.formatter(cmd).Success(ProfileResult{
		Model:       path,
		Points:      nr,
		Colatitudes: nth,
		Output:      out,
	})
}

// log10 applies log10 element-wise. Non-positive entries become NaN or
// -Inf and are left out of the plot.
func log10(m *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 { return math.Log10(v) }, m)
	return &out
}
