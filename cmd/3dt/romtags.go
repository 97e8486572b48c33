package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/bgrewell/opera-kit/pkg/romtag"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var errNoROMTags = errors.New("does not contain ROM tags")

var romtagHeader = []string{"File", "SubSysType", "Type", "TypeName", "Version", "Revision", "Flags", "TypeSpecific", "Offset", "Size"}

var romtagsCmd = &cobra.Command{
	Use:   "romtags <image>...",
	Short: "print out image romtags",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}

		var rows [][]string
		runErr := forEach(cmd, args, func(path string) error {
			img, err := openImage(path)
			if err != nil {
				return err
			}
			defer img.Close()

			tags, err := img.ROMTags()
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if len(tags) == 0 {
				return fmt.Errorf("%s %w", path, errNoROMTags)
			}
			rows = append(rows, romtagRows(path, tags)...)
			return nil
		})

		if len(rows) > 0 {
			if err := printROMTags(cmd.OutOrStdout(), format, rows); err != nil {
				return err
			}
		}
		return runErr
	},
}

func init() {
	addFormatFlag(romtagsCmd, "human", "csv")
	rootCmd.AddCommand(romtagsCmd)
}

func romtagRows(path string, tags []romtag.ROMTag) [][]string {
	rows := make([][]string, 0, len(tags))
	for _, tag := range tags {
		rows = append(rows, []string{
			path,
			fmt.Sprintf("0x%02x", tag.SubSysType),
			fmt.Sprintf("0x%02x", tag.Type),
			tag.TypeName(),
			fmt.Sprint(tag.Version),
			fmt.Sprint(tag.Revision),
			fmt.Sprintf("%x", tag.Flags),
			fmt.Sprint(tag.TypeSpecific),
			fmt.Sprint(tag.Offset),
			fmt.Sprint(tag.Size),
		})
	}
	return rows
}

func printROMTags(w io.Writer, format string, rows [][]string) error {
	if format == "csv" {
		return csvRows(w, append([][]string{romtagHeader}, rows...)...)
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader(romtagHeader)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
	return nil
}
