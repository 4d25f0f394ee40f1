package cmd

import (
	"fmt"
	"os"
	"slices"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-analyzer/internal/measure"
)

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Describe the available measurements",
	RunE:  runGuide,
}

func init() {
	rootCmd.AddCommand(guideCmd)

	guideCmd.Flags().Bool("json", false, "Output as JSON")
}

func runGuide(cmd *cobra.Command, args []string) error {
	guide := measure.Guide()

	if mustGetBool(cmd, "json") {
		return outputJSON(guide)
	}

	names := make([]string, 0, len(guide.Measurements))
	for name := range guide.Measurements {
		names = append(names, name)
	}
	slices.Sort(names)

	fmt.Println("Measurements:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%s\n", name, guide.Measurements[name])
	}
	w.Flush()

	fmt.Println("\nNotes:")
	for _, note := range guide.Notes {
		fmt.Printf("  - %s\n", note)
	}
	return nil
}

// outputJSON writes data to stdout as indented JSON.
func outputJSON(data any) error {
	encoder := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
