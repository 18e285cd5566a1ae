package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cachesim/cachesim/server"
)

var serveAddr string // Listen address for the HTTP server

// serveCmd runs the simulation server until interrupted
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve simulations over HTTP and WebSocket",
	Run: func(cmd *cobra.Command, args []string) {
		srv := server.New(serveAddr)
		if err := srv.Start(); err != nil {
			logrus.Fatalf("Cannot start server: %v", err)
		}

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		logrus.Info("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			logrus.Errorf("Shutdown: %v", err)
		}
	},
}

// init sets up CLI flags for the serve subcommand
func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")

	rootCmd.AddCommand(serveCmd)
}
