package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/esterpost/internal/integrate"
)

// CoreMassOptions holds flags for the core-mass command.
type CoreMassOptions struct {
	*RootOptions
}

// CoreMassResult is the convective core mass of one model.
type CoreMassResult struct {
	Model   string  `json:"model" yaml:"model"`
	Domains int     `json:"domains" yaml:"domains"`
	Points  int     `json:"points" yaml:"points"`
	Mass    float64 `json:"mass_msun" yaml:"mass_msun"`
}

func (r CoreMassResult) String() string {
	return fmt.Sprintf("nb of domains in the core %d\nM core = %6.5f  M sun\n", r.Domains, r.Mass)
}

// NewCoreMassCommand creates the core-mass command.
func NewCoreMassCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CoreMassOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "core-mass <model>",
		Short: "Integrate the density over the convective core",
		Long: `Compute the convective core mass of an ESTER model by integrating
rho * r^2 * dr/dzeta over colatitude, then over the radial points of the core
domains, and scaling the result to solar masses.

Exit codes:
  0 - Core mass printed
  2 - Command error (unreadable model, inconsistent grid)

Examples:
  esterpost core-mass models/M5_O95.h5
  esterpost core-mass models/M5_O95.h5 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCoreMass(opts, cmd, args[0])
		},
	}

	return cmd
}

func runCoreMass(opts *CoreMassOptions, cmd *cobra.Command, path string) error {
	log := opts.logger()

	model, err := opts.reader().Read(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read model", err)
	}
	log.Debug("model loaded", zap.String("path", path), zap.Int("conv", model.Conv))

	core, err := integrate.Core(model)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to integrate core mass", err)
	}

	return opts.formatter(cmd).Success(CoreMassResult{
		Model:   path,
		Domains: core.Domains,
		Points:  core.Points,
		Mass:    core.Mass,
	})
}
