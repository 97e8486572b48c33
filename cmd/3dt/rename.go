package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bgrewell/opera-kit/pkg/identify"
	"github.com/bgrewell/opera-kit/pkg/validation"
	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <image>...",
	Short: "rename disc image as identified",
	Long: `Identify each image and rename it to "<disc name>.<ext>" in the same
directory, where ext is iso or bin depending on the image layout.

Images with no full match are left alone, as are images with several full
matches unless --take-first is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		takeFirst, _ := cmd.Flags().GetBool("take-first")
		sigs, err := loadSignatures()
		if err != nil {
			return err
		}
		return forEach(cmd, args, func(path string) error {
			return renameImage(cmd.OutOrStdout(), sigs, path, takeFirst)
		})
	},
}

func init() {
	renameCmd.Flags().BoolP("take-first", "t", false, "if there are multiple matches use the first one found")
	rootCmd.AddCommand(renameCmd)
}

// renamedPath returns the path an image identified as name should be moved to.
func renamedPath(path, name, ext string) string {
	return filepath.Join(filepath.Dir(path), validation.SanitizeFilename(name)+"."+ext)
}

func renameImage(w io.Writer, sigs identify.Signatures, path string, takeFirst bool) error {
	img, err := openImage(path)
	if err != nil {
		return err
	}
	res, err := img.Identify(sigs)
	img.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	switch {
	case len(res.FullMatches) == 0:
		return fmt.Errorf("%s: no match found", path)
	case len(res.FullMatches) > 1 && !takeFirst:
		names := make([]string, 0, len(res.FullMatches))
		for _, m := range res.FullMatches {
			names = append(names, m.Name)
		}
		fmt.Fprintf(w, "%s: skipping due to multiple matches - %s\n", path, strings.Join(names, ", "))
		return nil
	}

	target := renamedPath(path, res.FullMatches[0].Name, res.ImageExtension)
	if target == path {
		return nil
	}
	if _, err := os.Stat(target); err == nil {
		return fmt.Errorf("%s: %s already exists", path, target)
	}
	if err := os.Rename(path, target); err != nil {
		return fmt.Errorf("error renaming %s -> %s: %w", path, target, err)
	}
	fmt.Fprintf(w, "%s: renamed to %s\n", path, target)
	return nil
}
