package cmd

import (
	"fmt"

	"github.com/AnyUserName/avifconv/internal/report"
	"github.com/spf13/cobra"
)

var validateDest string

var validateCmd = &cobra.Command{
	Use:   "validate <out_dir_or_report>",
	Short: "Validate a conversion report and check the outputs it lists",
	Long: `Checks that a report is consistent and that every converted file it lists
exists with the recorded size and hash. Use --dest when the output folder
has been moved since the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateDest, "dest", "", "output directory (default: dest_dir from the report)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	r, err := report.Load(expandHome(args[0]))
	if err != nil {
		return err
	}

	errs := report.Validate(r, expandHome(validateDest))
	if len(errs) == 0 {
		fmt.Println("  ✓ Report is valid")
		fmt.Printf("  ✓ %d converted, %d failed, all outputs present\n", r.Stats.Succeeded, r.Stats.Failed)
		return nil
	}

	fmt.Printf("  ✗ Report has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}
