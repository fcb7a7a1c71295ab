package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/amishk599/yamlassist/internal/config"
	"github.com/amishk599/yamlassist/internal/store"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent analyses",
	Long:  "Reads the configured history store and prints a table of the most recent analyses.",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of analyses to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug, os.Stderr)
	loadEnvFile(logger)

	historyCfg, err := config.LoadHistory(resolveConfigPath(cfgPath))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	out := cmd.OutOrStdout()
	if !historyCfg.Enabled() {
		fmt.Fprintln(out, "History is disabled. Set history.driver and history.dsn in the config to enable it.")
		return nil
	}

	historyStore, err := store.Open(historyCfg)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer historyStore.Close()

	records, err := historyStore.Recent(context.Background(), historyLimit)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%-20s %-36s %-6s %-18s %8s %8s\n", "When", "ID", "Source", "Outcome", "Bytes", "Took")
	fmt.Fprintln(out, strings.Repeat("─", 101))

	for _, r := range records {
		fmt.Fprintf(out, "%-20s %-36s %-6s %-18s %8d %8s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.ID,
			r.Source,
			r.Outcome,
			r.InputBytes,
			r.Duration.Round(time.Millisecond),
		)
	}

	fmt.Fprintf(out, "\nShowing %d analyses\n", len(records))
	return nil
}
