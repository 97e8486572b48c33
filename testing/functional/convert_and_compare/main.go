package main

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"

	"github.com/bgrewell/opera-kit"
	"github.com/bgrewell/opera-kit/pkg/directory"
	"github.com/bgrewell/opera-kit/pkg/logging"
	"github.com/bgrewell/opera-kit/pkg/option"
	"github.com/bgrewell/opera-kit/pkg/stream"
	"github.com/bgrewell/opera-kit/pkg/walker"
	"github.com/bgrewell/usage"
)

// fileDigests walks img and hashes the byte_count bytes of every file.
func fileDigests(img *opera.Image) (map[string]string, error) {
	digests := map[string]string{}
	err := img.Walk(walker.Funcs{
		Record: func(path string, rec *directory.Record, s *stream.Stream) error {
			if rec.IsDirectory() {
				digests[path] = "dir"
				return nil
			}
			if err := s.DataBlockSeek(int64(rec.Avatar())); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			hash := md5.New()
			if _, err := io.CopyN(hash, s, int64(rec.ByteCount)); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			digests[path] = fmt.Sprintf("%x", hash.Sum(nil))
			return nil
		},
	})
	return digests, err
}

func main() {

	u := usage.NewUsage(
		usage.WithApplicationName("convert_and_compare"),
		usage.WithApplicationDescription("convert_and_compare is a functional testing application that is part of opera-kit and is designed to verify that converting a disc image to a plain 2048 byte sector image preserves every file."),
	)
	help := u.AddBooleanOption("h", "help", false, "Display this help message", "", nil)
	rm := u.AddBooleanOption("rm", "remove-test-file", true, "Remove the converted image after running the tests", "", nil)
	input := u.AddArgument(1, "input", "The input disc image to run the tests against", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}

	if *help {
		u.PrintUsage()
		os.Exit(0)
	}

	if input == nil || *input == "" {
		u.PrintError(fmt.Errorf("location of the input disc image <input> must be provided"))
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.NewSimpleLogger(os.Stderr, logging.LEVEL_DEBUG, true))
	src, err := opera.Open(*input, option.WithLogger(logger))
	if err != nil {
		fmt.Printf("Failed to open disc image: %s\n", err)
		os.Exit(1)
	}
	defer src.Close()

	o, err := os.CreateTemp("", "convert_and_compare_test_*.iso")
	if err != nil {
		fmt.Printf("Failed to create temporary file: %s\n", err)
		os.Exit(1)
	}

	if *rm {
		defer os.Remove(o.Name())
	} else {
		fmt.Printf("Temporary file: %s\n", o.Name())
	}

	if err := src.WriteISO(o, nil); err != nil {
		fmt.Printf("Failed to convert disc image: %s\n", err)
		os.Exit(1)
	}
	o.Close()

	dst, err := opera.Open(o.Name(), option.WithLogger(logger))
	if err != nil {
		fmt.Printf("Failed to open converted image: %s\n", err)
		os.Exit(1)
	}
	defer dst.Close()

	want, err := fileDigests(src)
	if err != nil {
		fmt.Printf("Failed to read input image: %s\n", err)
		os.Exit(1)
	}
	got, err := fileDigests(dst)
	if err != nil {
		fmt.Printf("Failed to read converted image: %s\n", err)
		os.Exit(1)
	}

	failed := false
	for path, digest := range want {
		if got[path] != digest {
			fmt.Printf("Mismatch for %s:\n  Input:  %s\n  Output: %s\n", path, digest, got[path])
			failed = true
		}
	}
	if len(got) != len(want) {
		fmt.Printf("Entry count differs: input %d, output %d\n", len(want), len(got))
		failed = true
	}
	if failed {
		os.Exit(1)
	}
	fmt.Printf("%d entries match\n", len(want))
}
