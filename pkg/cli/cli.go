package cli

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"

	goerrors "github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/Fepozopo/bicubic/pkg/bicubic"
	"github.com/Fepozopo/bicubic/pkg/stdimg"
)

// app carries state shared between the root command and its subcommands.
type app struct {
	debug    bool
	envFile  string
	logLevel string

	cfg    Config
	logger *slog.Logger
}

// NewRootCmd builds the bicubic command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "bicubic",
		Short:         "bicubic image resampler",
		Long:          "Resize images with bicubic cubic convolution (a=-0.5), sequentially or in parallel.",
		SilenceUsage:  true,
		Version:       Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	pf := root.PersistentFlags()
	pf.BoolVar(&a.debug, "debug", false, "print error stack traces")
	pf.StringVar(&a.envFile, "env-file", "", "dotenv file to read settings from (default ./.env)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (env "+EnvLogLevel+")")

	root.AddCommand(
		a.resizeCmd(),
		a.scaleCmd(),
		a.fitCmd(),
		a.applyCmd(),
		a.commandsCmd(),
		a.benchCmd(),
		a.identifyCmd(),
		a.versionCmd(),
		a.updateCmd(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	defer exitOnPanic()
	if err := NewRootCmd().Execute(); err != nil {
		return 1
	}
	return 0
}

func (a *app) init(cmd *cobra.Command) error {
	var files []string
	if a.envFile != "" {
		files = append(files, a.envFile)
	}
	cfg, err := LoadConfig(files...)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		if cfg.LogLevel, err = parseLogLevel(a.logLevel); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	bicubic.SetLogger(a.logger)
	return nil
}

// run executes fn and, with --debug, prints the stack of the first
// stack-carrying error in the chain.
func (a *app) run(cmd *cobra.Command, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}
	if a.debug {
		var stackErr *goerrors.Error
		if !errors.As(err, &stackErr) {
			stackErr = goerrors.Wrap(err, 1)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), stackErr.ErrorStack())
	}
	return err
}

// procFlags are the resampling flags shared by image commands.
type procFlags struct {
	strategy string
	workers  int
	alpha    string
	source   string
	preview  bool
}

func (f *procFlags) register(cmd *cobra.Command, withPreview bool) {
	fs := cmd.Flags()
	fs.StringVar(&f.strategy, "strategy", "", "execution strategy: sequential or parallel (env "+EnvStrategy+")")
	fs.IntVar(&f.workers, "workers", 0, "parallel worker limit, 0 = GOMAXPROCS (env "+EnvWorkers+")")
	fs.StringVar(&f.alpha, "alpha", "", "alpha handling: opaque or copy (env "+EnvAlpha+")")
	fs.StringVar(&f.source, "source", "", "source layout: image, bgr or bgra (env "+EnvSource+")")
	if withPreview {
		fs.BoolVar(&f.preview, "preview", false, "show the result in the terminal (env "+EnvPreview+")")
	}
}

// apply overlays explicitly set flags on cfg.
func (f *procFlags) apply(cmd *cobra.Command, cfg Config) (Config, error) {
	fs := cmd.Flags()
	var err error
	if fs.Changed("strategy") {
		if cfg.Strategy, err = bicubic.ParseStrategy(f.strategy); err != nil {
			return cfg, err
		}
	}
	if fs.Changed("workers") {
		if f.workers < 0 {
			return cfg, fmt.Errorf("--workers must not be negative")
		}
		if f.workers > 0 {
			cfg.Workers = f.workers
		}
	}
	if fs.Changed("alpha") {
		if cfg.Alpha, err = bicubic.ParseAlphaMode(f.alpha); err != nil {
			return cfg, err
		}
	}
	if fs.Changed("source") {
		if cfg.Source, err = stdimg.ParseSourceLayout(f.source); err != nil {
			return cfg, err
		}
	}
	if fs.Changed("preview") {
		cfg.Preview = f.preview
	}
	return cfg, nil
}

// transform loads in, runs fn on a processor built from the effective
// configuration, saves the result to out and optionally previews it.
func (a *app) transform(cmd *cobra.Command, pf *procFlags, in, out string, fn func(img image.Image, p *bicubic.Processor) (image.Image, error)) error {
	cfg, err := pf.apply(cmd, a.cfg)
	if err != nil {
		return err
	}
	p := cfg.Processor(a.logger)
	img, format, err := LoadImage(in)
	if err != nil {
		return err
	}
	a.logger.Debug("loaded image", "path", in, "format", format, "size", img.Bounds().Size())
	if img, err = cfg.Source.Prepare(img); err != nil {
		return err
	}
	res, err := timeIt(a.logger, "resample", func() (image.Image, error) {
		return fn(img, p)
	}, "strategy", cfg.Strategy.String(), "source", cfg.Source.String())
	if err != nil {
		return err
	}
	if err := SaveImage(out, res); err != nil {
		return err
	}
	b := res.Bounds()
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", out, b.Dx(), b.Dy())
	if cfg.Preview {
		pv := &Previewer{Out: cmd.OutOrStdout(), Backend: cfg.PreviewBackend, Logger: a.logger, Processor: p}
		if err := pv.Preview(res); err != nil {
			a.logger.Warn("preview failed", "err", err)
		}
	}
	return nil
}

// exitOnPanic prints an unexpected panic with its stack and exits.
func exitOnPanic() {
	if r := recover(); r != nil {
		fmt.Fprintln(os.Stderr, goerrors.Wrap(r, 2).ErrorStack())
		os.Exit(2)
	}
}
