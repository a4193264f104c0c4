/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/taskdeck/apiserver/config"
	"github.com/taskdeck/apiserver/internal/server"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Starts the taskdeck backend server",
	Long: `Starts the taskdeck backend server. Usage:

	taskdeck server
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadConfig()

		logger := logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		if cfg.Env == "dev" {
			logger.SetLevel(logrus.DebugLevel)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv, err := server.New(ctx, cfg, logger)
		if err != nil {
			logger.WithError(err).Fatal("failed to start server")
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		logger.WithFields(logrus.Fields{
			"port": cfg.ServerPort,
			"env":  cfg.Env,
		}).Info("server listening")

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.WithError(err).Fatal("server error")
			}
		case <-ctx.Done():
			logger.Info("shutting down")
			if err := srv.Shutdown(); err != nil {
				logger.WithError(err).Error("shutdown error")
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
