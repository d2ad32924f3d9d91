package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/chatconv/internal/convert"
)

var (
	convertOutput  string
	convertFormat  string
	convertPreview bool
	convertSkipVal bool
)

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file (default stdout)")
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "", "output encoding: json, yaml, markdown, html")
	convertCmd.Flags().BoolVar(&convertPreview, "preview", false, "run the pipeline without writing output")
	convertCmd.Flags().BoolVar(&convertSkipVal, "skip-validation", false, "skip schema validation (exploratory use only)")
}

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert one chat export to the v2.0 schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		converter, err := newConverter(cfg, convertSkipVal)
		if err != nil {
			return err
		}

		src, err := readSource(args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		if convertPreview {
			result, err := converter.Preview(ctx, src)
			if err != nil {
				return err
			}
			printPreview(result)
			return nil
		}

		result, err := converter.ConvertToV2(ctx, src)
		if err != nil {
			return err
		}

		name := convertFormat
		if name == "" {
			name = cfg.OutputFormat
		}
		data, err := converter.Render(result.Record, name)
		if err != nil {
			return err
		}

		if convertOutput == "" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(convertOutput, data, 0644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s (%s, %d messages)\n", convertOutput, result.SourceName, result.Record.Metadata.Statistics.MessageCount)
		return nil
	},
}

func readSource(path string) (convert.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return convert.Source{}, fmt.Errorf("read source: %w", err)
	}
	src := convert.Source{Data: data, Filename: path}
	if info, err := os.Stat(path); err == nil {
		src.ModTime = info.ModTime()
	}
	return src, nil
}

func printPreview(result *convert.Result) {
	meta := result.Record.Metadata
	fmt.Printf("source:    %s (%s encoding)\n", result.SourceName, result.Encoding)
	fmt.Printf("chat_id:   %s\n", meta.ChatID)
	fmt.Printf("title:     %s\n", meta.Title)
	fmt.Printf("platform:  %s\n", meta.Platform)
	fmt.Printf("created:   %s\n", meta.CreatedAt.Format(time.RFC3339))
	fmt.Printf("messages:  %d (%d words, ~%d tokens)\n",
		meta.Statistics.MessageCount, meta.Statistics.WordCount, meta.Statistics.TokenCount)
	if len(result.Warnings) > 0 {
		fmt.Printf("warnings:  %d\n", len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
}
