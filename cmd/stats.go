package cmd

import (
	"fmt"
	"sort"

	"github.com/AnyUserName/avifconv/internal/report"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_report>",
	Short: "Display statistics for a conversion report",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	r, err := report.Load(expandHome(args[0]))
	if err != nil {
		return err
	}
	printStats(r)
	return nil
}

func printStats(r *report.Report) {
	fmt.Println()
	fmt.Printf("  Report version:   %d\n", r.Version)
	fmt.Printf("  Generated:        %s\n", r.GeneratedAt)
	fmt.Printf("  Source:           %s (recursive=%v)\n", r.Source, r.Recursive)
	fmt.Printf("  Output:           %s\n", r.DestDir)
	if r.Encoder != "" {
		fmt.Printf("  Encoder:          %s\n", r.Encoder)
	}
	o := r.Options
	if o.Lossless {
		fmt.Printf("  Settings:         lossless, speed %d, workers %d\n", o.Speed, o.Workers)
	} else {
		fmt.Printf("  Settings:         quality %d, speed %d, workers %d\n", o.Quality, o.Speed, o.Workers)
	}
	fmt.Println()

	s := r.Stats
	fmt.Printf("  Attempted:        %d\n", s.Attempted)
	fmt.Printf("  Succeeded:        %d\n", s.Succeeded)
	fmt.Printf("  Failed:           %d\n", s.Failed)
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", formatBytes(s.TotalOutputBytes))
	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Printf("  Compression:      %.1f%% of original\n", ratio)
	}
	fmt.Println()

	// Per source format breakdown.
	type formatInfo struct {
		count     int
		in, out   int64
		rgba      int
		exif, icc int
	}
	formats := map[string]*formatInfo{}
	for _, e := range r.Entries {
		if !e.OK {
			continue
		}
		fi := formats[e.Format]
		if fi == nil {
			fi = &formatInfo{}
			formats[e.Format] = fi
		}
		fi.count++
		fi.in += e.InputSize
		fi.out += e.OutputSize
		if e.Mode == "RGBA" {
			fi.rgba++
		}
		if e.EXIF {
			fi.exif++
		}
		if e.ICC {
			fi.icc++
		}
	}
	names := make([]string, 0, len(formats))
	for f := range formats {
		names = append(names, f)
	}
	sort.Strings(names)

	if len(names) > 0 {
		fmt.Println("  Source formats:")
		for _, f := range names {
			fi := formats[f]
			fmt.Printf("    %-5s  %4d files  %9s -> %9s  rgba=%d exif=%d icc=%d\n",
				f, fi.count, formatBytes(fi.in), formatBytes(fi.out), fi.rgba, fi.exif, fi.icc)
		}
		fmt.Println()
	}

	// Failures grouped by stage.
	stages := map[string]int{}
	for _, e := range r.Entries {
		if !e.OK {
			stages[e.Stage]++
		}
	}
	if len(stages) > 0 {
		keys := make([]string, 0, len(stages))
		for k := range stages {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Println("  Failures by stage:")
		for _, k := range keys {
			fmt.Printf("    %-8s  %4d\n", k, stages[k])
		}
		fmt.Println()
	}

	// Warnings.
	var warnings []string
	for _, e := range r.Entries {
		if e.OK && e.InputSize > 0 && e.OutputSize > e.InputSize {
			warnings = append(warnings, fmt.Sprintf("%s grew from %s to %s",
				e.Output, formatBytes(e.InputSize), formatBytes(e.OutputSize)))
		}
	}
	if len(warnings) > 0 {
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
		fmt.Println()
	}
}
