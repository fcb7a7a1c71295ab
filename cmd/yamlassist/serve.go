package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/amishk599/yamlassist/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  "Serve POST /analyze and GET / until SIGINT/SIGTERM.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug, os.Stdout)

	cfg, err := loadConfig(cfgPath, logger)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"addr", cfg.Server.Addr,
		"base_url", cfg.LLM.BaseURL,
		"model", cfg.LLM.Model,
		"llm_timeout", cfg.LLM.Timeout.String(),
		"history", cfg.History.Driver,
	)

	analyzer, closeHistory, err := setupAnalyzer(cfg, "http", logger)
	if err != nil {
		logger.Error("failed to open history store", "error", err)
		os.Exit(1)
	}
	defer closeHistory()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Server, analyzer, logger)
	if err := server.Run(ctx, srv, cfg.Server.ShutdownTimeout, logger); err != nil {
		logger.Error("server error", "error", err)
		closeHistory()
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
