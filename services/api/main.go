package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/icewatch/great-lakes-ice-watch/internal/noaa"
	"github.com/icewatch/great-lakes-ice-watch/services/api/config"
	httpserver "github.com/icewatch/great-lakes-ice-watch/services/api/http"
)

var (
	flagHost     string
	flagPort     int
	flagSiteRoot string
)

var rootCmd = &cobra.Command{
	Use:           "icewatch-api",
	Short:         "Serve the Great Lakes Ice Watch site and its NOAA proxy endpoints",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Flags win over the environment when given explicitly.
		if cmd.Flags().Changed("host") {
			cfg.Host = flagHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = flagPort
		}
		if cmd.Flags().Changed("site-root") {
			cfg.SiteRoot = flagSiteRoot
		}

		return run(cfg)
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagHost, "host", "0.0.0.0", "address to bind")
	rootCmd.Flags().IntVar(&flagPort, "port", 8080, "port to listen on")
	rootCmd.Flags().StringVar(&flagSiteRoot, "site-root", "site", "directory holding the static site")
}

func run(cfg config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ice := noaa.NewService(cfg.BaseEndpoint, noaa.NewClient(cfg.FetchTimeout))

	srv := httpserver.New(cfg, ice)
	log.Printf("Serving Great Lakes Ice Watch at http://%s", cfg.ListenAddr())

	return srv.Run(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("icewatch-api: %v", err)
	}
}
