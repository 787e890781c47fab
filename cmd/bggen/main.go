// bggen - Random gradient background generator.
//
// Usage:
//
//	bggen generate [-o <dir>] [--seed N] [--colors #rrggbb,...] [-W width -H height]
//	bggen serve [-p 8080] [--open]
//	bggen version
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xob0t/bggen/clients/server"
	"github.com/xob0t/bggen/internal/build"
	"github.com/xob0t/bggen/internal/config"
	"github.com/xob0t/bggen/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile, envFile string

	rootCmd := &cobra.Command{
		Use:           "bggen",
		Short:         "Background generator",
		Long:          "bggen generates random linear-gradient backgrounds with decorative shapes and saves them as PNG.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configFile, config.ConfigFlag, "c", "config.json", "path to config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "optional .env file loaded before reading the environment")

	// setup loads configuration for cmd and installs the global logger.
	setup := func(cmd *cobra.Command) (config.Config, func(), error) {
		cfg, err := config.GetConfig(cmd, configFile, envFile)
		if err != nil {
			return config.Config{}, nil, err
		}
		closeLog, err := logging.Setup(cfg.Log.Level, cfg.Log.File)
		if err != nil {
			return config.Config{}, nil, err
		}
		return cfg, closeLog, nil
	}

	rootCmd.AddCommand(newGenerateCmd(setup), newServeCmd(setup), newVersionCmd())
	return rootCmd
}

type setupFunc func(cmd *cobra.Command) (config.Config, func(), error)

func newServeCmd(setup setupFunc) *cobra.Command {
	var openUI bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generator widget over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closeLog, err := setup(cmd)
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				return err
			}
			defer closeLog()

			srv, err := server.New(cfg, log.Logger)
			if err != nil {
				log.Error().Err(err).Msg("error creating server")
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info().Str("version", build.Version).Int("pid", os.Getpid()).Msg("starting bggen")
			if err := srv.Run(ctx, openUI); err != nil {
				log.Error().Err(err).Msg("server stopped")
				return err
			}
			log.Info().Msg("shutdown completed")
			return nil
		},
	}
	config.DefineFlags(cmd)
	cmd.Flags().BoolVar(&openUI, "open", false, "open the widget in the default browser")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "bggen version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bggen v%s\n", build.Version)
		},
	}
}
