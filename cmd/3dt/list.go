package main

import (
	"fmt"
	"io"

	"github.com/bgrewell/opera-kit/pkg/directory"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <image> [prefix]",
	Short: "list disc content",
	Long: `List every directory and file of the image in walk order.

When prefix is given only paths whose leading components equal the
components of prefix are printed, so "System" matches "System/Kernel" but
not "SystemData".`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		prefix := ""
		if len(args) > 1 {
			prefix = args[1]
		}

		img, err := openImage(args[0])
		if err != nil {
			return err
		}
		defer img.Close()

		entries, err := img.Records(prefix)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		return printRecords(cmd.OutOrStdout(), format, entries)
	},
}

func init() {
	addFormatFlag(listCmd, "human", "csv")
	rootCmd.AddCommand(listCmd)
}

func printRecords(w io.Writer, format string, entries []directory.Entry) error {
	if format == "csv" {
		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, recordCSV(e.Path, e.Record))
		}
		return csvRows(w, rows...)
	}
	for _, e := range entries {
		fmt.Fprintln(w, recordLine(e.Path, e.Record))
	}
	return nil
}
