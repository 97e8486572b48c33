package main

import (
	"fmt"
	"os"

	"github.com/bgrewell/opera-kit"
	"github.com/bgrewell/opera-kit/pkg/logging"
	"github.com/bgrewell/opera-kit/pkg/option"
	"github.com/bgrewell/usage"
)

func main() {

	u := usage.NewUsage(
		usage.WithApplicationName("operaview"),
		usage.WithApplicationDescription("operaview prints where the disc label, ROM tag table, directory blocks and files of an Opera (3DO) disc image are stored."),
	)
	help := u.AddBooleanOption("h", "help", false, "Show this help message", "optional", nil)
	verbose := u.AddBooleanOption("v", "verbose", false, "Include file extents in the layout", "", nil)
	debug := u.AddBooleanOption("d", "debug", false, "Enable debug logging", "", nil)
	useColor := u.AddBooleanOption("c", "color", true, "Colorize the output", "", nil)
	hex := u.AddBooleanOption("x", "hex", false, "Print offsets in hexadecimal", "", nil)
	asJSON := u.AddBooleanOption("j", "json", false, "Print the layout as json", "", nil)
	path := u.AddArgument(1, "image-path", "Path to the disc image to inspect", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}

	if *help {
		u.PrintUsage()
		os.Exit(0)
	}

	if path == nil || *path == "" {
		u.PrintError(fmt.Errorf("location of the disc image <image-path> must be provided"))
		os.Exit(1)
	}

	level := logging.LEVEL_INFO
	if *debug {
		level = logging.LEVEL_DEBUG
	}
	logger := logging.NewLogger(logging.NewSimpleLogger(os.Stderr, level, *useColor))

	img, err := opera.Open(*path, option.WithLogger(logger))
	if err != nil {
		u.PrintError(err)
		os.Exit(1)
	}
	defer img.Close()

	layout, err := img.Layout()
	if err != nil {
		u.PrintError(err)
		os.Exit(1)
	}

	if *asJSON {
		fmt.Println(layout.PrettyJSON())
		return
	}
	layout.Print(os.Stdout, *verbose, *useColor, *hex)
}
