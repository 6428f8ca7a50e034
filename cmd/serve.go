package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/karbar/resumeforge/pkg/config"
	"github.com/karbar/resumeforge/pkg/transport"
)

//nolint:gochecknoglobals // Cobra boilerplate
var listenAddr string

//nolint:gochecknoglobals // Cobra boilerplate
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP chat API",
	Long: `Run the HTTP API a chat frontend talks to.

Exposes the conversation endpoints (text input, choice taps, background
updates) plus a health check.

Example:
  resumeforge serve
  resumeforge serve --listen :9000`,
	RunE: runServe,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) (err error) {
	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return err
	}
	if listenAddr != "" {
		cfg.Listen = listenAddr
	}

	server := transport.New()
	controller, store, err := buildController(cfg, server.Notify)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := store.Close()
		if closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()
	server.SetController(controller)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		slog.Info("shutting down")
		_ = server.Shutdown()
	}()

	slog.Info("listening", "addr", cfg.Listen)
	err = server.Listen(cfg.Listen)
	if err != nil {
		err = errors.Wrap(err, "server failed")
	}
	return err
}
