package cli

import (
	"fmt"
	"image"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Fepozopo/bicubic/pkg/bicubic"
	"github.com/Fepozopo/bicubic/pkg/stdimg"
)

func (a *app) resizeCmd() *cobra.Command {
	var (
		pf            procFlags
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "resize <in> <out>",
		Short: "resample an image to an exact size",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func() error {
				return a.transform(cmd, &pf, args[0], args[1], func(img image.Image, p *bicubic.Processor) (image.Image, error) {
					return stdimg.Resample(img, width, height, p)
				})
			})
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "output width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "output height in pixels")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")
	pf.register(cmd, true)
	return cmd
}

func (a *app) scaleCmd() *cobra.Command {
	var (
		pf     procFlags
		factor string
	)
	cmd := &cobra.Command{
		Use:   "scale <in> <out>",
		Short: "resample an image by a uniform factor",
		Long:  "Resample an image by a uniform factor. The factor is a number (2, 0.5) or a percentage (150%).",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func() error {
				f, err := parsePercentValue(factor)
				if err != nil {
					return fmt.Errorf("--factor: %w", err)
				}
				return a.transform(cmd, &pf, args[0], args[1], func(img image.Image, p *bicubic.Processor) (image.Image, error) {
					return stdimg.Scale(img, f, p)
				})
			})
		},
	}
	cmd.Flags().StringVar(&factor, "factor", "", "scale factor, e.g. 2, 0.5 or 150%")
	_ = cmd.MarkFlagRequired("factor")
	pf.register(cmd, true)
	return cmd
}

func (a *app) fitCmd() *cobra.Command {
	var (
		pf            procFlags
		width, height int
	)
	cmd := &cobra.Command{
		Use:   "fit <in> <out>",
		Short: "resample to a width or height, keeping the aspect ratio",
		Long:  "Resample an image. A width or height of 0 is derived from the other side so the aspect ratio is kept.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func() error {
				return a.transform(cmd, &pf, args[0], args[1], func(img image.Image, p *bicubic.Processor) (image.Image, error) {
					return stdimg.AdaptiveResize(img, width, height, p)
				})
			})
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "output width (0 = keep aspect)")
	cmd.Flags().IntVar(&height, "height", 0, "output height (0 = keep aspect)")
	pf.register(cmd, true)
	return cmd
}

func (a *app) applyCmd() *cobra.Command {
	var pf procFlags
	store := NewMetaStore(stdimg.Commands)
	cmd := &cobra.Command{
		Use:   "apply <in> <out> <command> [args...]",
		Short: "run a registry command, see 'commands'",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func() error {
				name := args[2]
				norm, err := store.NormalizeArgs(name, args[3:])
				if err != nil {
					return err
				}
				if name == "identify" {
					img, format, err := LoadImage(args[0])
					if err != nil {
						return err
					}
					info, err := GetImageInfo(img, format)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), info)
					return nil
				}
				return a.transform(cmd, &pf, args[0], args[1], func(img image.Image, p *bicubic.Processor) (image.Image, error) {
					return stdimg.ApplyCommand(p, img, name, norm)
				})
			})
		},
	}
	pf.register(cmd, true)
	return cmd
}

func (a *app) commandsCmd() *cobra.Command {
	store := NewMetaStore(stdimg.Commands)
	return &cobra.Command{
		Use:   "commands [name]",
		Short: "list registry commands usable with 'apply'",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				tip, _, err := store.GetCommandHelp(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, tip)
				return nil
			}
			for _, c := range store.Commands {
				fmt.Fprintf(out, "%-28s %s\n", c.Usage, c.Description)
			}
			return nil
		},
	}
}

func (a *app) benchCmd() *cobra.Command {
	var (
		pf         procFlags
		cases      []string
		strategies []string
		pattern    string
		verify     bool
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "time resampling of synthetic images",
		Long: "Time resampling of synthetic images under each strategy.\n\nDefault cases: " +
			strings.Join(defaultBenchCases, ", ") + ".",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func() error {
				cfg, err := pf.apply(cmd, a.cfg)
				if err != nil {
					return err
				}
				bc, err := parseBenchCases(cases)
				if err != nil {
					return err
				}
				ss, err := parseStrategies(strategies)
				if err != nil {
					return err
				}
				return runBench(cmd.OutOrStdout(), cfg.Processor(a.logger), a.logger, benchOptions{
					cases:      bc,
					strategies: ss,
					pattern:    pattern,
					layout:     cfg.Source,
					verify:     verify,
				})
			})
		},
	}
	cmd.Flags().StringSliceVar(&cases, "case", nil, "case as <w>x<h>:<w>x<h>, repeatable")
	cmd.Flags().StringSliceVar(&strategies, "strategies", nil, "strategies to run (default sequential,parallel)")
	cmd.Flags().StringVar(&pattern, "pattern", "gradient", "source pattern: blank or gradient")
	cmd.Flags().BoolVar(&verify, "verify", false, "fail if strategies produce different output")
	pf.register(cmd, false)
	return cmd
}

func (a *app) identifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "identify <in>",
		Short: "print image format and size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func() error {
				img, format, err := LoadImage(args[0])
				if err != nil {
					return err
				}
				info, err := GetImageInfo(img, format)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), info)
				return nil
			})
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}

func (a *app) updateCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "update",
		Short: "check GitHub for a newer release and install it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, func() error {
				return newUpdater(cmd.OutOrStdout(), cmd.InOrStdin(), yes).run(cmd.Context())
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "update without asking")
	return cmd
}
