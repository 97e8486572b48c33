package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bgrewell/opera-kit/pkg/directory"
	"github.com/bgrewell/opera-kit/pkg/option"
	"github.com/bgrewell/opera-kit/pkg/unpack"
	"github.com/spf13/cobra"
)

var unpackCmd = &cobra.Command{
	Use:   "unpack <image>...",
	Short: "unpack disc image",
	Long: `Extract every directory and file of each image into
<output>/<image filename>.unpacked.

Each entry is printed before it is extracted unless --progress is given, in
which case a spinner reports the file being written instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(cmd)
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")
		progress, _ := cmd.Flags().GetBool("progress")
		if output != "" {
			if st, err := os.Stat(output); err != nil || !st.IsDir() {
				return fmt.Errorf("output directory %s does not exist", output)
			}
		}

		return forEach(cmd, args, func(path string) error {
			dst := filepath.Join(output, filepath.Base(path)+".unpacked")
			if progress {
				return unpackWithSpinner(path, dst)
			}
			return unpackImage(cmd.OutOrStdout(), cmd.ErrOrStderr(), format, path, dst)
		})
	},
}

func init() {
	addFormatFlag(unpackCmd, "human", "csv")
	unpackCmd.Flags().StringP("output", "o", "", "output directory")
	unpackCmd.Flags().BoolP("progress", "p", false, "show a progress spinner instead of listing entries")
	rootCmd.AddCommand(unpackCmd)
}

// printingCallback prints every record before it is extracted and reports records that could not be extracted
// completely.
func printingCallback(out, errOut io.Writer, format string) unpack.Callback {
	return unpack.Callback{
		Before: func(path string, rec *directory.Record) {
			if format == "csv" {
				_ = csvRows(out, recordCSV(path, rec))
				return
			}
			fmt.Fprintln(out, recordLine(path, rec))
		},
		After: func(path string, rec *directory.Record, err error) {
			if err != nil {
				fmt.Fprintf(errOut, "3dt: %v\n", err)
			}
		},
	}
}

func unpackImage(out, errOut io.Writer, format, path, dst string) error {
	img, err := openImage(path)
	if err != nil {
		return err
	}
	defer img.Close()

	if err := img.Unpack(dst, printingCallback(out, errOut, format)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func unpackWithSpinner(path, dst string) error {
	spinner, err := InitializeSpinner(" unpacking " + filepath.Base(path))
	if err != nil {
		logger.Debug("progress updates disabled", "error", err.Error())
	}

	opts := []option.OpenOption{}
	if spinner != nil {
		opts = append(opts, option.WithExtractionProgress(CreateProgressCallback(spinner)))
	}
	img, err := openImage(path, opts...)
	if err != nil {
		finishSpinner(spinner, err, "")
		return err
	}
	defer img.Close()

	err = img.Unpack(dst, unpack.Callback{})
	if err != nil {
		err = fmt.Errorf("%s: %w", path, err)
	}
	finishSpinner(spinner, err, fmt.Sprintf(" all files extracted to %s", dst))
	return err
}
