package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/openstandia/dc-dashboard/lib"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard page",
	Long:  `Serve the dashboard page until interrupted.`,
	Run:   serve,
}

func init() {
	serveCmd.Flags().StringP("listen", "l", "", "Listen address (default 127.0.0.1:8080)")
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, args []string) {
	settings, err := loadSettings(cmd)
	if err != nil {
		lib.Exit(err)
	}
	logger := lib.NewLogger(settings.LogLevel)
	b, err := lib.NewBootstrapperFromSettings(settings, logger)
	if err != nil {
		lib.Exit(fmt.Errorf("cannot start dashboard: %w", err))
	}
	view, err := lib.NewView()
	if err != nil {
		lib.Exit(err)
	}
	srv, err := lib.NewServer(b, view, logger)
	if err != nil {
		lib.Exit(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = srv.ListenAndServe(ctx, settings.Listen)
	stop()
	lib.Exit(err)
}
