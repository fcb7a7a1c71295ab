package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/amishk599/yamlassist/internal/ai"
	"github.com/amishk599/yamlassist/internal/console"
	"github.com/amishk599/yamlassist/internal/model"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	analyzeJSON  bool
	analyzePager bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze one YAML file and print the result",
	Long:  "Reads YAML from a file (or stdin when the argument is omitted or \"-\"), sends it to the LLM once and prints the analysis.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, `print {"analysis": ...} instead of formatted text`)
	analyzeCmd.Flags().BoolVar(&analyzePager, "pager", false, "show the result in a scrollable view")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// Logs go to stderr so stdout carries only the analysis.
	logger := setupLogger(debug, os.Stderr)

	cfg, err := loadConfig(cfgPath, logger)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	text, err := readInput(path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return model.ErrEmptyInput
	}

	analyzer, closeHistory, err := setupAnalyzer(cfg, "cli", logger)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer closeHistory()

	label := inputLabel(path)
	ctx := context.Background()
	interactive := isatty.IsTerminal(os.Stdout.Fd())

	var result model.Analysis
	if !analyzeJSON && interactive {
		result, err = console.RunLoader(ctx, label, analyzer, text)
		if err != nil {
			return err
		}
	} else {
		result = analyzer.Analyze(ctx, text)
	}

	out := cmd.OutOrStdout()
	return writeAnalysis(out, label, result, analyzeJSON, analyzePager && interactive)
}

// writeAnalysis prints result as JSON, in the pager, or as rendered text.
// The pager takes over the terminal, so callers only ask for it on a TTY.
func writeAnalysis(out io.Writer, label string, result model.Analysis, asJSON, pager bool) error {
	switch {
	case asJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]string{"analysis": result.String()})
	case pager:
		return console.RunPager(label, console.Render(result.String(), ai.SectionHeadings))
	default:
		fmt.Fprintln(out, console.Render(result.String(), ai.SectionHeadings))
		return nil
	}
}

// readInput returns the contents of path, or of stdin when path is "-".
func readInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func inputLabel(path string) string {
	if path == "-" {
		return "stdin"
	}
	return filepath.Base(path)
}
