package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/esterpost/internal/config"
	"github.com/roach88/esterpost/internal/star"
	"github.com/roach88/esterpost/internal/store"
)

// RootOptions holds global flags and the collaborators shared by all
// commands.
type RootOptions struct {
	Verbose    int
	Format     string // "text" | "json" | "yaml"
	ConfigPath string
	CachePath  string

	// Set by the root command before any subcommand runs. Tests may set
	// them directly.
	Config *config.Config
	Logger *zap.Logger
	Reader star.Reader
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command reading models from HDF5 files.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithOptions(&RootOptions{Reader: star.HDF5Reader{}})
}

// NewRootCommandWithOptions creates the root command around opts.
func NewRootCommandWithOptions(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "esterpost",
		Short: "Post-processing for ESTER stellar models",
		Long: `esterpost reads ESTER stellar model files, extracts physical quantities
(mass, radius, metallicity, rotation, temperature and density profiles, virial
and energy test residuals), aggregates them across model folders and prints a
summary or renders a 2D or 3D plot.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Logger != nil {
				_ = opts.Logger.Sync()
			}
		},
	}

	// Global flags
	cmd.PersistentFlags().IntVarP(&opts.Verbose, "verbose", "v", DefaultVerbosity, "verbosity from 0 (critical only) to 4 (debug)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.CachePath, "cache", store.DefaultPath, "snapshot cache database")

	// Add subcommands
	cmd.AddCommand(NewCoreMassCommand(opts))
	cmd.AddCommand(NewRadiusCommand(opts))
	cmd.AddCommand(NewScatterCommand(opts))
	cmd.AddCommand(NewProfileCommand(opts))
	cmd.AddCommand(NewCacheCommand(opts))

	return cmd
}

// setup validates global flags, loads the configuration file and builds
// the logger. Flags given on the command line win over file values.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	if !isValidFormat(o.Format) {
		return NewExitError(ExitFailure, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitFailure, "invalid configuration", err)
	}
	o.Config = cfg

	flags := cmd.Flags()
	if cfg.Verbose != nil && !flags.Changed("verbose") {
		o.Verbose = *cfg.Verbose
	}
	if cfg.Cache != "" && !flags.Changed("cache") {
		o.CachePath = cfg.Cache
	}

	if _, err := LevelForVerbosity(o.Verbose); err != nil {
		return WrapExitError(ExitFailure, "invalid --verbose", err)
	}
	if o.Logger == nil {
		logger, err := NewLogger(cmd.ErrOrStderr(), o.Verbose)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to initialize logger", err)
		}
		o.Logger = logger
	}
	return nil
}

func (o *RootOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o *RootOptions) reader() star.Reader {
	if o.Reader == nil {
		return star.HDF5Reader{}
	}
	return o.Reader
}

func (o *RootOptions) config() *config.Config {
	if o.Config == nil {
		return &config.Config{}
	}
	return o.Config
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

// outputPath places a relative plot path under the configured output
// directory.
func (o *RootOptions) outputPath(path string) string {
	dir := o.config().OutputDir
	if path == "" || dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func (o *RootOptions) cachePath() string {
	if o.CachePath == "" {
		return store.DefaultPath
	}
	return o.CachePath
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
