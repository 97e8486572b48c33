package main

import (
	"fmt"
	"io"

	"github.com/bgrewell/opera-kit/pkg/identify"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var identifyCmd = &cobra.Command{
	Use:   "identify <image>...",
	Short: "attempt to identify disc image",
	Long: `Compute the signature of each image (volume id, volume unique id, volume
block count, root unique id, file count, total data size) and look it up in
the signature table.

The table is a yaml document with a top level "discs" list and is named by
--signatures, the OPERA_SIGNATURES environment variable or the "signatures"
key of the config file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		sigs, err := loadSignatures()
		if err != nil {
			return err
		}
		return forEach(cmd, args, func(path string) error {
			img, err := openImage(path)
			if err != nil {
				return err
			}
			defer img.Close()

			res, err := img.Identify(sigs)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return printIdentity(cmd.OutOrStdout(), format, path, res)
		})
	},
}

func init() {
	addFormatFlag(identifyCmd, "human", "csv", "yaml")
	rootCmd.AddCommand(identifyCmd)
}

type identityDocument struct {
	File           string        `yaml:"file"`
	Signature      identify.ID   `yaml:"signature"`
	ImageExtension string        `yaml:"image_extension"`
	Matches        []identify.ID `yaml:"matches"`
	PartialMatches []identify.ID `yaml:"partial_matches"`
}

func printIdentity(w io.Writer, format string, path string, res *identify.Result) error {
	id := res.ID
	switch format {
	case "csv":
		base := []string{
			path,
			fmt.Sprintf("0x%08X", id.VolumeUniqueID),
			fmt.Sprint(id.VolumeBlockCount),
			fmt.Sprintf("0x%08X", id.RootUniqueID),
			fmt.Sprint(id.FileCount),
			fmt.Sprint(id.TotalDataSize),
		}
		var rows [][]string
		for _, m := range res.FullMatches {
			rows = append(rows, append(base[:len(base):len(base)], "full", m.Name))
		}
		for _, m := range res.PartialMatches {
			rows = append(rows, append(base[:len(base):len(base)], "partial", m.Name))
		}
		if !res.Matched() {
			rows = append(rows, append(base, "no_match", ""))
		}
		return csvRows(w, rows...)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(identityDocument{
			File:           path,
			Signature:      id,
			ImageExtension: res.ImageExtension,
			Matches:        res.FullMatches,
			PartialMatches: res.PartialMatches,
		})
	}

	fmt.Fprintf(w, "%s:\n", path)
	fmt.Fprintf(w, " - volume_unique_identifier: 0x%08X\n", id.VolumeUniqueID)
	fmt.Fprintf(w, " - volume_block_count: %d\n", id.VolumeBlockCount)
	fmt.Fprintf(w, " - root_unique_identifier: 0x%08X\n", id.RootUniqueID)
	fmt.Fprintf(w, " - file_count: %d\n", id.FileCount)
	fmt.Fprintf(w, " - total_data_size: %d\n", id.TotalDataSize)
	if !res.Matched() {
		fmt.Fprintf(w, " - no_matches:\n")
		return nil
	}
	if len(res.FullMatches) > 0 {
		fmt.Fprintf(w, " - matches:\n")
		for _, m := range res.FullMatches {
			fmt.Fprintf(w, "   - %s\n", m.Name)
		}
	}
	if len(res.PartialMatches) > 0 {
		fmt.Fprintf(w, " - partial_matches:\n")
		for _, m := range res.PartialMatches {
			fmt.Fprintf(w, "   - %s\n", m.Name)
		}
	}
	return nil
}
