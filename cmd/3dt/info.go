package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	opera "github.com/bgrewell/opera-kit"
	"github.com/bgrewell/opera-kit/pkg/label"
	"github.com/bgrewell/opera-kit/pkg/stats"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var infoCmd = &cobra.Command{
	Use:   "info <image>...",
	Short: "prints lowlevel info on disc",
	Long: `Print the disc label of each image together with its file count and
total data size.

Formats:
  human    one " - field: value" line per label field
  csv      one row per image
  cheader  one C initializer per image, in signature table field order
  yaml     the label and statistics as a yaml document`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		return forEach(cmd, args, func(path string) error {
			img, err := openImage(path)
			if err != nil {
				return err
			}
			defer img.Close()
			return printInfo(cmd.OutOrStdout(), format, img)
		})
	},
}

func init() {
	addFormatFlag(infoCmd, "human", "csv", "cheader", "yaml")
	rootCmd.AddCommand(infoCmd)
}

// infoDocument is the yaml rendition of the info command.
type infoDocument struct {
	File             string           `yaml:"file"`
	Layout           string           `yaml:"layout"`
	VolumeIdentifier string           `yaml:"volume_identifier"`
	VolumeCommentary string           `yaml:"volume_commentary"`
	Label            *label.DiscLabel `yaml:"label"`
	Stats            *stats.Collector `yaml:"stats"`
}

func printInfo(w io.Writer, format string, img *opera.Image) error {
	st, err := img.Stats()
	if err != nil {
		return fmt.Errorf("%s: %w", img.Location(), err)
	}
	lbl := img.Label()
	name := filepath.Base(img.Location())

	switch format {
	case "csv":
		return csvRows(w, []string{
			name,
			lbl.VolumeCommentary(),
			lbl.VolumeIdentifier(),
			fmt.Sprintf("0x%08X", lbl.UniqueIdentifier),
			fmt.Sprint(lbl.BlockSize),
			fmt.Sprint(lbl.BlockCount),
			fmt.Sprintf("0x%08X", lbl.RootUniqueIdentifier),
			fmt.Sprint(lbl.RootDirectoryBlockCount),
			fmt.Sprint(lbl.RootDirectoryBlockSize),
			fmt.Sprint(lbl.RootDirectoryLastAvatarIndex),
			fmt.Sprint(st.FileCount),
			fmt.Sprint(st.TotalDataSize),
		})
	case "cheader":
		fmt.Fprintf(w, "{\"%s\",\"%s\",0x%08X,%d,0x%08X,%d,%d},\n",
			strings.TrimSuffix(name, filepath.Ext(name)),
			lbl.VolumeIdentifier(),
			lbl.UniqueIdentifier,
			lbl.BlockCount,
			lbl.RootUniqueIdentifier,
			st.FileCount,
			st.TotalDataSize)
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(infoDocument{
			File:             img.Location(),
			Layout:           img.Geometry().Layout.String(),
			VolumeIdentifier: lbl.VolumeIdentifier(),
			VolumeCommentary: lbl.VolumeCommentary(),
			Label:            lbl,
			Stats:            st,
		})
	}

	fmt.Fprintf(w, "%s:\n", name)
	fmt.Fprintf(w, " - record_type: 0x%02X\n", lbl.RecordType)
	fmt.Fprintf(w, " - volume_sync_bytes: 0x%02X\n", lbl.SyncBytes[0])
	fmt.Fprintf(w, " - volume_structure_version: 0x%02X\n", lbl.StructureVersion)
	fmt.Fprintf(w, " - volume_flags: 0x%02X\n", lbl.Flags)
	fmt.Fprintf(w, " - volume_commentary: %s\n", lbl.VolumeCommentary())
	fmt.Fprintf(w, " - volume_identifier: %s\n", lbl.VolumeIdentifier())
	fmt.Fprintf(w, " - volume_unique_identifier: 0x%08X\n", lbl.UniqueIdentifier)
	fmt.Fprintf(w, " - volume_block_size: %d\n", lbl.BlockSize)
	fmt.Fprintf(w, " - volume_block_count: %d\n", lbl.BlockCount)
	fmt.Fprintf(w, " - root_unique_identifier: 0x%08X\n", lbl.RootUniqueIdentifier)
	fmt.Fprintf(w, " - root_directory_block_count: %d\n", lbl.RootDirectoryBlockCount)
	fmt.Fprintf(w, " - root_directory_block_size: %d\n", lbl.RootDirectoryBlockSize)
	fmt.Fprintf(w, " - root_directory_last_avatar_index: %d\n", lbl.RootDirectoryLastAvatarIndex)
	fmt.Fprintf(w, " - root_directory_avatar_list:\n")
	for i := uint32(0); i <= lbl.RootDirectoryLastAvatarIndex && int(i) < len(lbl.RootDirectoryAvatarList); i++ {
		fmt.Fprintf(w, "   - %d\n", lbl.RootDirectoryAvatarList[i])
	}
	if lbl.IsM2() {
		fmt.Fprintf(w, " - num_rom_tags: %d\n", lbl.NumROMTags)
		fmt.Fprintf(w, " - application_id: %d\n", lbl.ApplicationID)
	}
	fmt.Fprintf(w, " - file_count: %d\n", st.FileCount)
	fmt.Fprintf(w, " - total_data_size: %d\n", st.TotalDataSize)
	return nil
}
