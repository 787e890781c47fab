package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xob0t/bggen/internal/config"
	"github.com/xob0t/bggen/pkg/export"
	"github.com/xob0t/bggen/pkg/palette"
	"github.com/xob0t/bggen/pkg/raster"
	"github.com/xob0t/bggen/pkg/session"
)

// errExportFailed is returned when background.png could not be written.
// The cause has already been logged by the exporter.
var errExportFailed = errors.New("export failed")

type generateOptions struct {
	Dir    string
	Seed   uint64
	Seeded bool
	Colors []string
	Raster raster.Options
	Logger zerolog.Logger
}

func newGenerateCmd(setup setupFunc) *cobra.Command {
	var (
		dir    string
		seed   uint64
		colors string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one background and save it as background.png",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closeLog, err := setup(cmd)
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				return err
			}
			defer closeLog()

			opts := generateOptions{
				Dir:    dir,
				Seed:   seed,
				Seeded: cmd.Flags().Changed("seed"),
				Colors: splitColors(colors),
				Raster: cfg.RasterOptions(),
				Logger: log.Logger,
			}
			if err := runGenerate(cmd.Context(), opts, cmd.OutOrStdout()); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				return err
			}
			return nil
		},
	}
	config.DefineFlags(cmd)
	cmd.Flags().StringVarP(&dir, "output", "o", ".", "directory to write background.png into")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for a reproducible background")
	cmd.Flags().StringVar(&colors, "colors", "", "comma separated #rrggbb colours overriding the generated palette from the left")
	return cmd
}

func splitColors(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// runGenerate runs one headless widget session: Generate, apply colour
// overrides, then export to opts.Dir.
func runGenerate(ctx context.Context, opts generateOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	for _, c := range opts.Colors {
		if !palette.IsHex(c) {
			return fmt.Errorf("%w: %q", palette.ErrInvalidColor, c)
		}
	}

	canvas := raster.NewCanvas(opts.Raster)
	sessOpts := []session.Option{
		session.WithSurface(canvas),
		session.WithExporter(export.NewExporter(
			export.FileDownloader{Dir: opts.Dir},
			export.WithLogger(opts.Logger),
		)),
	}
	if opts.Seeded {
		sessOpts = append(sessOpts, session.WithSource(palette.NewSource(opts.Seed)))
	}

	sess := session.New(sessOpts...)
	sess.Generate()
	for i, c := range opts.Colors {
		if err := sess.TrySetColorAt(i, c); err != nil {
			return fmt.Errorf("--colors has %d entries for a palette of %d: %w", len(opts.Colors), len(sess.Colors()), err)
		}
	}

	outcome := sess.Export(ctx)
	if outcome.Status != export.Downloaded {
		return errExportFailed
	}

	fmt.Fprintf(out, "colors:   %s\n", strings.Join(sess.Colors(), " "))
	fmt.Fprintf(out, "gradient: %s\n", sess.Gradient())
	fmt.Fprintf(out, "saved:    %s\n", export.FileDownloader{Dir: opts.Dir}.Path(outcome.Filename))
	return nil
}
