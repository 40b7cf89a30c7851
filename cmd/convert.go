package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/AnyUserName/avifconv/internal/codec"
	"github.com/AnyUserName/avifconv/internal/pipeline"
	"github.com/AnyUserName/avifconv/internal/preset"
	"github.com/AnyUserName/avifconv/internal/report"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	convertOut        string
	convertRecursive  bool
	convertOverwrite  bool
	convertQuality    int
	convertSpeed      int
	convertLossless   bool
	convertKeepEXIF   bool
	convertPrefix     string
	convertWorkers    int
	convertPreset     string
	convertConfig     string
	convertReport     string
	convertAvifenc    string
	convertNoProgress bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <file_or_dir>",
	Short: "Convert an image or a folder of images to AVIF",
	Long: `Converts one image, or every image in a folder (jpg, jpeg, png, webp,
bmp, tif, tiff, gif; matched case-insensitively), to AVIF.

Output names are <prefix>_<stem>.avif. Without --overwrite an existing
output is kept and the new file is named <stem>_2.avif, <stem>_3.avif, ...

Settings are layered: built-in defaults, then the config file's defaults,
then --preset, then any flag given explicitly.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	d := preset.Defaults()
	f := convertCmd.Flags()
	f.StringVarP(&convertOut, "out", "o", d.OutDir, "output directory")
	f.BoolVarP(&convertRecursive, "recursive", "r", d.Recursive, "descend into subfolders")
	f.BoolVar(&convertOverwrite, "overwrite", d.Options.Overwrite, "replace existing outputs")
	f.IntVarP(&convertQuality, "quality", "q", d.Options.Quality, "quality 0-100")
	f.IntVarP(&convertSpeed, "speed", "s", d.Options.Speed, "encoder speed 0-10 (higher is faster)")
	f.BoolVar(&convertLossless, "lossless", d.Options.Lossless, "lossless encoding (ignores --quality)")
	f.BoolVar(&convertKeepEXIF, "keep-exif", d.Options.KeepEXIF, "copy EXIF metadata (ICC profiles are always copied)")
	f.StringVar(&convertPrefix, "prefix", d.Options.Prefix, "output filename prefix")
	f.IntVarP(&convertWorkers, "workers", "w", d.Options.Workers, "parallel conversions")
	f.StringVarP(&convertPreset, "preset", "p", "", "named preset (default, web, archival, fast, or from --config)")
	f.StringVar(&convertConfig, "config", "", "YAML config file with defaults and presets")
	f.StringVar(&convertReport, "report", "", "write a JSON run report to this path")
	f.StringVar(&convertAvifenc, "avifenc", "", "avifenc binary (default: from PATH)")
	f.BoolVar(&convertNoProgress, "no-progress", false, "hide the progress bar")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Close()

	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	// Resolve absolute paths.
	absSource, err := filepath.Abs(expandHome(strings.TrimSpace(args[0])))
	if err != nil {
		return fmt.Errorf("resolve source path: %w", err)
	}
	outDir := expandHome(strings.TrimSpace(settings.OutDir))
	if outDir == "" {
		return pipeline.ErrNoDestination
	}
	absOutput, err := filepath.Abs(outDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	enc := codec.NewAVIFEncoder(convertAvifenc)
	src := pipeline.SourceSpec{Path: absSource, Recursive: settings.Recursive}
	p := pipeline.New(pipeline.Config{
		Source:  src,
		DestDir: absOutput,
		Options: settings.Options,
		Encoder: enc,
	})
	opts := p.Config().Options

	log.Debug("source:   %s (recursive=%v)", absSource, settings.Recursive)
	log.Debug("output:   %s", absOutput)
	log.Debug("options:  quality=%d speed=%d lossless=%v keep-exif=%v overwrite=%v prefix=%q workers=%d",
		opts.Quality, opts.Speed, opts.Lossless, opts.KeepEXIF, opts.Overwrite, opts.Prefix, opts.Workers)
	log.Debug("encoder:  %s", enc.Path())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	job, err := p.Start(ctx)
	switch {
	case errors.Is(err, pipeline.ErrNothingToDo):
		log.Warn("Nothing to do: %v", err)
		return nil
	case errors.Is(err, codec.ErrEncoderUnavailable):
		return fmt.Errorf("%w: install libavif (brew install libavif / apt install libavif-bin) or pass --avifenc", err)
	case err != nil:
		return err
	}

	log.Info("Converting %d file(s)...", job.Total())
	summary := follow(job, !convertNoProgress)
	elapsed := time.Since(start)

	for _, r := range summary.Failures() {
		log.Error("%s", r.Reason)
	}
	for _, r := range summary.Results {
		if r.OK() {
			log.Debug("%s -> %s", filepath.Base(r.Source), filepath.Base(r.Output))
		}
	}

	reportPath := ""
	if convertReport != "" {
		reportPath, err = writeReport(convertReport, src, absOutput, opts, enc, summary)
		if err != nil {
			log.Error("write report: %v", err)
		}
	}

	printConvertReport(summary, elapsed, reportPath)

	if summary.Failed == 0 {
		log.Success("%s", summary)
	} else {
		log.Warn("%s", summary)
	}
	if ctx.Err() != nil {
		return fmt.Errorf("interrupted after %d of %d file(s)", countStarted(summary), summary.Attempted)
	}
	if summary.Succeeded == 0 {
		return fmt.Errorf("all %d images failed to convert", summary.Failed)
	}
	return nil
}

// resolveSettings layers config file, preset and explicitly set flags.
func resolveSettings(cmd *cobra.Command) (preset.Settings, error) {
	var file *preset.File
	if convertConfig != "" {
		f, err := preset.Load(expandHome(convertConfig))
		if err != nil {
			return preset.Settings{}, err
		}
		file = f
	}

	s, err := preset.Resolve(file, convertPreset)
	if err != nil {
		return s, err
	}

	flags := cmd.Flags()
	if flags.Changed("out") {
		s.OutDir = convertOut
	}
	if flags.Changed("recursive") {
		s.Recursive = convertRecursive
	}
	if flags.Changed("overwrite") {
		s.Options.Overwrite = convertOverwrite
	}
	if flags.Changed("quality") {
		s.Options.Quality = convertQuality
	}
	if flags.Changed("speed") {
		s.Options.Speed = convertSpeed
	}
	if flags.Changed("lossless") {
		s.Options.Lossless = convertLossless
	}
	if flags.Changed("keep-exif") {
		s.Options.KeepEXIF = convertKeepEXIF
	}
	if flags.Changed("prefix") {
		s.Options.Prefix = convertPrefix
	}
	if flags.Changed("workers") {
		s.Options.Workers = convertWorkers
	}
	return s, nil
}

// follow drives the progress bar until the job finishes.
func follow(job *pipeline.Job, show bool) pipeline.Summary {
	if !show {
		return job.Wait()
	}

	bar := progressbar.NewOptions(job.Total(),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Converting"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	for range job.Updates() {
		if p, ok := job.Latest(); ok {
			_ = bar.Set(p.Completed)
		}
	}
	if p, ok := job.Latest(); ok {
		_ = bar.Set(p.Completed)
	}
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)
	return job.Wait()
}

func writeReport(path string, src pipeline.SourceSpec, destDir string, opts pipeline.Options, enc codec.Encoder, s pipeline.Summary) (string, error) {
	r := report.New(src, destDir, opts)
	r.Encoder = enc.Name()
	if err := r.AddResults(s.Results); err != nil {
		return "", err
	}

	path = expandHome(path)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, report.FileName)
	}
	if err := report.WriteJSON(r, path); err != nil {
		return "", err
	}
	return path, nil
}

func printConvertReport(s pipeline.Summary, elapsed time.Duration, reportPath string) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║             avifconv convert complete            ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	var in, out int64
	for _, r := range s.Results {
		if r.OK() {
			in += r.InputSize
			out += r.OutputSize
		}
	}
	ratio := float64(0)
	if in > 0 {
		ratio = float64(out) / float64(in) * 100
	}

	fmt.Printf("  Images:      %d\n", s.Attempted)
	fmt.Printf("  Converted:   %d\n", s.Succeeded)
	fmt.Printf("  Failed:      %d\n", s.Failed)
	fmt.Printf("  Input size:  %s\n", formatBytes(in))
	fmt.Printf("  Output size: %s\n", formatBytes(out))
	fmt.Printf("  Ratio:       %.1f%% of original\n", ratio)
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("  Output:      %s\n", s.DestDir)
	if reportPath != "" {
		fmt.Printf("  Report:      %s\n", reportPath)
	}
	fmt.Println()

	failures := s.Failures()
	if len(failures) > 0 {
		fmt.Printf("  Failures (%d):\n", len(failures))
		for i, r := range failures {
			if i == 10 {
				fmt.Printf("    ... and %d more\n", len(failures)-10)
				break
			}
			fmt.Printf("    ✗ %s\n", r.Reason)
		}
		fmt.Println()
	}
}

// countStarted counts results that did not fail by cancellation.
func countStarted(s pipeline.Summary) int {
	n := 0
	for _, r := range s.Results {
		if r.Stage != pipeline.StageCanceled {
			n++
		}
	}
	return n
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
