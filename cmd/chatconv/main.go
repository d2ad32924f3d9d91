package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/chatconv/internal/config"
	"github.com/user/chatconv/internal/convert"
	"github.com/user/chatconv/internal/format"
	"github.com/user/chatconv/internal/parsers"
	"github.com/user/chatconv/internal/stats"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "chatconv",
	Short: "Convert chat-history exports into the canonical v2.0 schema",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() *config.Config {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func newConverter(cfg *config.Config, skipValidation bool) (*convert.Converter, error) {
	computer, err := stats.NewComputer(cfg.TokenizerModel)
	if err != nil {
		return nil, fmt.Errorf("create statistics computer: %w", err)
	}
	opts := convert.Options{
		MaxConcurrent:  int64(cfg.MaxConcurrent),
		DocTimeout:     time.Duration(cfg.DocTimeoutSeconds) * time.Second,
		SkipValidation: cfg.SkipValidation || skipValidation,
	}
	return convert.New(parsers.Default(), format.Default(cfg.HTMLTheme), computer, opts), nil
}
