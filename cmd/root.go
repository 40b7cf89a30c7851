package cmd

import (
	"fmt"
	"runtime"

	"github.com/AnyUserName/avifconv/internal/logging"
	"github.com/spf13/cobra"
)

var (
	version  = "0.1.0"
	verbose  bool
	colorArg string
	logFile  string
)

var rootCmd = &cobra.Command{
	Use:   "avifconv",
	Short: "Batch-convert JPEG, PNG, WEBP, BMP, TIFF and GIF images to AVIF",
	Long: `avifconv — converts single images or whole folders to AVIF.

Pixels are encoded by libavif's avifenc; EXIF is kept on request and ICC
color profiles are always carried over. Existing outputs are never
overwritten unless asked: name clashes get _2, _3, ... suffixes.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&colorArg, "color", "auto", "colored output: auto, always, never")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also append log lines to this file")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"avifconv %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// newLogger builds the logger from the persistent flags.
func newLogger() (*logging.Logger, error) {
	mode, err := logging.ParseColorMode(colorArg)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		Color:   mode,
		Verbose: verbose,
		LogFile: logFile,
	})
}
