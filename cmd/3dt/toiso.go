package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bgrewell/opera-kit/pkg/helpers"
	"github.com/spf13/cobra"
)

var toISOCmd = &cobra.Command{
	Use:   "to-iso <image> [output]",
	Short: "convert a .bin or similar disc image to .iso",
	Long: `Copy the 2048 byte data region of every device block of the image into a
plain sector image. The output defaults to the input path with its
extension replaced by .iso and must not already exist.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		output := ""
		if len(args) > 1 {
			output = args[1]
		}
		return convertToISO(cmd.OutOrStdout(), args[0], output)
	},
}

func init() {
	rootCmd.AddCommand(toISOCmd)
}

func isoOutputPath(input, output string) (string, error) {
	if output == "" {
		output = helpers.ReplaceExtension(input, ".iso")
	}
	if filepath.Clean(output) == filepath.Clean(input) {
		return "", fmt.Errorf("input == output: %s", input)
	}
	if _, err := os.Stat(output); err == nil {
		return "", fmt.Errorf("%s already exists", output)
	}
	return output, nil
}

func convertToISO(w io.Writer, input, output string) (err error) {
	output, err = isoOutputPath(input, output)
	if err != nil {
		return err
	}

	img, err := openImage(input)
	if err != nil {
		return err
	}
	defer img.Close()

	f, err := os.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", output, cerr)
		}
	}()

	buf := bufio.NewWriter(f)
	err = img.WriteISO(buf, func(sector, total int64) {
		fmt.Fprintf(w, "\r%s: sector %d of %d written", output, sector, total-1)
	})
	fmt.Fprintln(w)
	if err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	return nil
}
