package main

import (
	"fmt"
	"os"
	"slices"
	"strings"

	opera "github.com/bgrewell/opera-kit"
	"github.com/bgrewell/opera-kit/pkg/identify"
	"github.com/bgrewell/opera-kit/pkg/logging"
	"github.com/bgrewell/opera-kit/pkg/option"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "OPERA"

var (
	// cfg merges the config file, OPERA_* environment variables and the persistent flags.
	cfg    *viper.Viper
	logger = logging.DefaultLogger()
)

// rootCmd is the 3dt command tree. Every subcommand that takes several images handles them one at a time and keeps
// going after a failure.
var rootCmd = &cobra.Command{
	Use:   "3dt",
	Short: "3dt: 3DO Disc Tool",
	Long: `3dt reads Opera (3DO) filesystem disc images.

Plain 2048 byte sector images (.iso), raw 2352 byte CD dumps (.bin) and
bare device images are detected automatically.

Examples:
  3dt info game.bin
  3dt list game.iso System
  3dt identify --signatures discs.yaml *.bin
  3dt unpack -o ./out game.bin
  3dt to-iso game.bin`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "3dt: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (yaml, toml or json)")
	flags.CountP("verbose", "v", "increase log verbosity (-v debug, -vv trace)")
	flags.Bool("color", false, "colorize log output")
	flags.String("signatures", "", "disc signature table (yaml)")
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg = viper.New()
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.AutomaticEnv()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg.SetConfigFile(path)
		if err := cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	if err := bindFlags(cfg, cmd.Flags()); err != nil {
		return err
	}

	logger = logging.NewLogger(logging.NewSimpleLogger(cmd.ErrOrStderr(), cfg.GetInt("verbose"), cfg.GetBool("color")))
	return nil
}

// bindFlags lets the flags that were set on the command line override the config file and environment.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, name := range []string{"verbose", "color", "signatures", "format"} {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(name, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// addFormatFlag registers -f/--format on cmd, defaulting to the first of formats.
func addFormatFlag(cmd *cobra.Command, formats ...string) {
	cmd.Flags().StringP("format", "f", formats[0], "output format ("+strings.Join(formats, "|")+")")
	cmd.Annotations = map[string]string{"formats": strings.Join(formats, ",")}
}

// outputFormat returns the effective output format of cmd. A -f value cmd does not support is an error. The format
// key of the config file and OPERA_FORMAT are shared by every command, so a value cmd cannot produce falls back to
// its default instead.
func outputFormat(cmd *cobra.Command) (string, error) {
	format := cfg.GetString("format")
	formats := strings.Split(cmd.Annotations["formats"], ",")
	if !slices.Contains(formats, format) {
		if f := cmd.Flags().Lookup("format"); f != nil && !f.Changed {
			logger.Debug("configured format not supported, using default", "format", format, "default", formats[0])
			return formats[0], nil
		}
		return "", fmt.Errorf("unsupported format %q, expected one of %s", format, strings.Join(formats, ", "))
	}
	return format, nil
}

func openImage(path string, opts ...option.OpenOption) (*opera.Image, error) {
	opts = append([]option.OpenOption{option.WithLogger(logger)}, opts...)
	img, err := opera.Open(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// loadSignatures reads the table named by --signatures, OPERA_SIGNATURES or the config file.
func loadSignatures() (*identify.Table, error) {
	path := cfg.GetString("signatures")
	if path == "" {
		return nil, fmt.Errorf("%w: pass --signatures or set %s_SIGNATURES", identify.ErrNoSignatures, envPrefix)
	}
	return identify.LoadTableFile(path)
}

// forEach calls fn for every path, logging failures instead of stopping.
func forEach(cmd *cobra.Command, paths []string, fn func(path string) error) error {
	failed := 0
	for _, path := range paths {
		if err := fn(path); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "3dt: %v\n", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(paths))
	}
	return nil
}
