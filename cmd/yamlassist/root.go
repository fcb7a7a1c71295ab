package main

import (
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/amishk599/yamlassist/internal/ai"
	"github.com/amishk599/yamlassist/internal/config"
	"github.com/amishk599/yamlassist/internal/model"
	"github.com/amishk599/yamlassist/internal/store"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	envFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "yamlassist",
	Short: "AI review for Kubernetes YAML",
	Long:  "yamlassist sends Kubernetes manifests to an LLM and returns an explanation, likely issues and suggestions.",
	// Default to `serve` so that `yamlassist` with no args runs the API.
	RunE:         runServe,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: YAMLASSIST_CONFIG env var or ./config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// resolveConfigPath picks the config file to read.
// Priority: explicit path arg > YAMLASSIST_CONFIG env var > "./config.yaml" if it exists.
// An empty result means built-in defaults plus environment.
func resolveConfigPath(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv("YAMLASSIST_CONFIG"); env != "" {
		return env
	}
	if _, err := os.Stat("config.yaml"); err == nil {
		return "config.yaml"
	}
	return ""
}

// loadConfig loads the env file, then resolves and parses the config.
func loadConfig(path string, logger *slog.Logger) (*config.Config, error) {
	loadEnvFile(logger)
	return config.Load(resolveConfigPath(path))
}

func loadEnvFile(logger *slog.Logger) {
	if err := config.LoadEnvFile(envFile); err != nil {
		logger.Debug("no env file loaded", "path", envFile, "error", err)
		return
	}
	logger.Debug("env file loaded", "path", envFile)
}

func setupLogger(dbg bool, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// setupAnalyzer builds the provider-backed analyzer and, when history is
// configured, wraps it so results are recorded under source. The returned
// func closes the history store.
func setupAnalyzer(cfg *config.Config, source string, logger *slog.Logger) (model.Analyzer, func(), error) {
	httpClient := &http.Client{Timeout: cfg.LLM.Timeout}
	provider := ai.NewOpenRouterProvider(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, httpClient)
	provider.SetAppInfo(cfg.LLM.Referer, cfg.LLM.Title)

	var analyzer model.Analyzer = ai.NewYAMLAnalyzer(provider, ai.YAMLAnalysisTemplate, logger)
	if !cfg.History.Enabled() {
		return analyzer, func() {}, nil
	}

	historyStore, err := store.Open(cfg.History)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("recording analysis history", "driver", cfg.History.Driver)
	closeFn := func() {
		if err := historyStore.Close(); err != nil {
			logger.Warn("failed to close history store", "error", err)
		}
	}
	return store.NewRecordingAnalyzer(analyzer, historyStore, source, logger), closeFn, nil
}
