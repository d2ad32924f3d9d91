package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/chatconv/internal/format"
	"github.com/user/chatconv/internal/parsers"
)

func init() {
	rootCmd.AddCommand(parsersCmd, formatsCmd)
}

var parsersCmd = &cobra.Command{
	Use:   "parsers",
	Short: "List registered source parsers in detection priority order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PRIORITY\tSOURCE")
		for i, name := range parsers.Default().Names() {
			fmt.Fprintf(w, "%d\t%s\n", i+1, name)
		}
		return w.Flush()
	},
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List available output encodings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		for _, name := range format.Default(cfg.HTMLTheme).Names() {
			fmt.Println(name)
		}
		return nil
	},
}
