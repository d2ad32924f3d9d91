package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/chatconv/internal/convert"
)

var (
	batchFormat string
	batchOutDir string
)

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringVarP(&batchFormat, "format", "f", "", "output encoding: json, yaml, markdown, html")
	batchCmd.Flags().StringVarP(&batchOutDir, "out-dir", "d", "", "output directory (default alongside each source)")
}

// batchExtensions limits directory walks to files the detector can classify
// by extension.
var batchExtensions = map[string]bool{
	".json": true, ".jsonl": true,
	".yaml": true, ".yml": true,
	".md": true, ".markdown": true,
	".html": true, ".htm": true,
}

var batchCmd = &cobra.Command{
	Use:   "batch <file|dir>...",
	Short: "Convert many chat exports; one failure never aborts the batch",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		setupLogging(cfg)

		converter, err := newConverter(cfg, false)
		if err != nil {
			return err
		}

		paths, err := collectPaths(args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Println("No convertible files found.")
			return nil
		}

		sources := make([]convert.Source, 0, len(paths))
		for _, p := range paths {
			src, err := readSource(p)
			if err != nil {
				return err
			}
			sources = append(sources, src)
		}

		outcomes := converter.ConvertBatch(context.Background(), sources)

		name := batchFormat
		if name == "" {
			name = cfg.OutputFormat
		}
		for _, o := range outcomes {
			if !o.Success {
				fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", o.Filename, o.Err)
				continue
			}
			outPath := outputPath(o.Filename, name)
			data, err := converter.Render(o.Result.Record, name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", o.Filename, err)
				continue
			}
			if err := os.WriteFile(outPath, data, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", o.Filename, err)
				continue
			}
			fmt.Printf("ok   %s -> %s (%s)\n", o.Filename, outPath, o.SourceName)
		}

		succeeded, failed := convert.Summarize(outcomes)
		fmt.Printf("Converted %d/%d documents (%d failed)\n", succeeded, len(outcomes), failed)
		if failed > 0 {
			return fmt.Errorf("%d documents failed", failed)
		}
		return nil
	},
}

// collectPaths expands directories into convertible files; plain file
// arguments are taken as-is.
func collectPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && batchExtensions[strings.ToLower(filepath.Ext(path))] {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}
	return paths, nil
}

func outputPath(source, formatName string) string {
	ext := map[string]string{
		"json":     ".v2.json",
		"yaml":     ".v2.yaml",
		"markdown": ".v2.md",
		"html":     ".v2.html",
	}[formatName]
	if ext == "" {
		ext = ".v2." + formatName
	}
	base := strings.TrimSuffix(source, filepath.Ext(source))
	if batchOutDir != "" {
		return filepath.Join(batchOutDir, filepath.Base(base)+ext)
	}
	return base + ext
}
