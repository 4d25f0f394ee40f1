package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/kozaktomas/photo-analyzer/internal/analyzer"
	"github.com/kozaktomas/photo-analyzer/internal/config"
	"github.com/kozaktomas/photo-analyzer/internal/constants"
	"github.com/kozaktomas/photo-analyzer/internal/logging"
	"github.com/kozaktomas/photo-analyzer/internal/measure"
	"github.com/kozaktomas/photo-analyzer/internal/pose"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>...",
	Short: "Analyze local photos",
	Long: `Run pose detection and body measurements on local image files.

Results are printed as JSON. With --table a summary of the measurements is
printed instead.

Examples:
  # Analyze a single front photo
  photo-analyzer analyze front.jpg

  # Analyze side photos as a table
  photo-analyzer analyze --view side --table side-*.jpg

  # Analyze a folder with 2 parallel workers
  photo-analyzer analyze --concurrency 2 photos/*.jpg`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("view", constants.DefaultView, "View label of the photos (front, side or back)")
	analyzeCmd.Flags().Bool("table", false, "Print a measurement table instead of JSON")
	analyzeCmd.Flags().Int("concurrency", 4, "Number of parallel workers")
	analyzeCmd.Flags().Bool("verbose", false, "Log pipeline details to stderr")
}

// fileResult is the outcome for one analysed file.
type fileResult struct {
	File     string             `json:"file"`
	Success  bool               `json:"success"`
	Analysis *analyzer.Analysis `json:"analysis,omitempty"`
	Error    string             `json:"error,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	view := mustGetString(cmd, "view")
	table := mustGetBool(cmd, "table")
	concurrency := max(mustGetInt(cmd, "concurrency"), 1)
	verbose := mustGetBool(cmd, "verbose")

	cfg := config.Load()

	logger := logging.Discard()
	if verbose {
		logger = logging.New(cfg.Log)
	}

	ctx := context.Background()

	detector, err := pose.NewDetector(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating pose detector: %w", err)
	}
	a := analyzer.New(detector, cfg.Pose.MaxImageSize, logger)

	results := analyzeFiles(ctx, a, args, view, concurrency, len(args) > 1, logger)

	if table {
		printResultsTable(results)
	} else if err := outputJSON(results); err != nil {
		return err
	}

	for _, r := range results {
		if !r.Success {
			return errors.New("some photos could not be analysed")
		}
	}
	return nil
}

// analyzeFiles runs the pipeline over files with a bounded number of workers.
// Results keep the order of files.
func analyzeFiles(ctx context.Context, a *analyzer.Analyzer, files []string, view string, concurrency int, showProgress bool, logger logrus.FieldLogger) []fileResult {
	results := make([]fileResult, len(files))

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Analyzing photos"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("photos"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
		)
	}

	var failed int64
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, file := range files {
		wg.Add(1)
		go func(i int, file string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = analyzeFile(ctx, a, file, view)
			if !results[i].Success {
				atomic.AddInt64(&failed, 1)
				logger.WithFields(logrus.Fields{"file": file, "error": results[i].Error}).Warn("photo not analysed")
			}

			if bar != nil {
				bar.Add(1)
			}
		}(i, file)
	}

	wg.Wait()

	if bar != nil {
		bar.Finish()
		fmt.Fprintf(os.Stderr, "\nAnalysed %d photos, %d failed\n", len(files), atomic.LoadInt64(&failed))
	}

	return results
}

func analyzeFile(ctx context.Context, a *analyzer.Analyzer, file, view string) fileResult {
	result := fileResult{File: file}

	data, err := os.ReadFile(file)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read file: %v", err)
		return result
	}

	analysis, err := a.Analyze(ctx, data, view)
	var inputErr *analyzer.InputError
	switch {
	case err == nil:
		result.Success = true
		result.Analysis = analysis
	case errors.Is(err, pose.ErrNoPose):
		result.Error = constants.MsgNoPoseShort
	case errors.As(err, &inputErr):
		result.Error = inputErr.Error()
	default:
		result.Error = fmt.Sprintf("%s: %v", constants.MsgAnalysisFailed, err)
	}

	return result
}

// measurementColumns is the column order of the table output.
var measurementColumns = []string{
	measure.ShoulderWidth,
	measure.HipWidth,
	measure.TorsoLength,
	measure.LeftArmLength,
	measure.RightArmLength,
	measure.LeftLegLength,
	measure.RightLegLength,
	measure.ArmSymmetryRatio,
	measure.LegSymmetryRatio,
}

var columnTitles = map[string]string{
	measure.ShoulderWidth:    "SHOULDERS",
	measure.HipWidth:         "HIPS",
	measure.TorsoLength:      "TORSO",
	measure.LeftArmLength:    "L ARM",
	measure.RightArmLength:   "R ARM",
	measure.LeftLegLength:    "L LEG",
	measure.RightLegLength:   "R LEG",
	measure.ArmSymmetryRatio: "ARM SYM",
	measure.LegSymmetryRatio: "LEG SYM",
}

// printResultsTable prints one row per file. Distances are in pixels, missing values are "-".
func printResultsTable(results []fileResult) {
	p := message.NewPrinter(language.English)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprint(w, "FILE\tSIZE\tCONF")
	for _, col := range measurementColumns {
		fmt.Fprintf(w, "\t%s", columnTitles[col])
	}
	fmt.Fprintln(w)

	var failures []fileResult
	for _, r := range results {
		if !r.Success {
			failures = append(failures, r)
			continue
		}

		dims := r.Analysis.ImageDimensions
		fmt.Fprintf(w, "%s\t%s\t%s", filepath.Base(r.File),
			p.Sprintf("%dx%d", dims.Width, dims.Height),
			p.Sprintf("%.0f%%", r.Analysis.Confidence*100))

		for _, col := range measurementColumns {
			value, ok := r.Analysis.Measurements[col]
			switch {
			case !ok:
				fmt.Fprint(w, "\t-")
			case col == measure.ArmSymmetryRatio || col == measure.LegSymmetryRatio:
				fmt.Fprint(w, p.Sprintf("\t%.3f", value))
			default:
				fmt.Fprint(w, p.Sprintf("\t%.1f", value))
			}
		}
		fmt.Fprintln(w)
	}
	w.Flush()

	if len(failures) > 0 {
		sort.Slice(failures, func(i, j int) bool { return failures[i].File < failures[j].File })
		fmt.Printf("\nFailed (%d):\n", len(failures))
		for _, f := range failures {
			fmt.Printf("  - %s: %s\n", f.File, f.Error)
		}
	}
}
