package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/start-again-06/Travel-Agent-Voice-Based/cmd/tripeval/internal"
	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/eval"
	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/itinerary"
	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/types"
)

var runFlags struct {
	contextFile  string
	originalFile string
	instruction  string
	sections     []string
	resultsFile  string
	noSave       bool
	strict       bool
}

var runCmd = &cobra.Command{
	Use:   "run <itinerary-file>",
	Short: "Evaluate an itinerary",
	Long: `Run the feasibility and grounding evaluations over an itinerary, plus
edit correctness when --original is given. Use "-" to read the itinerary
from stdin. If the input is a full agent message, only the part after the
---ITINERARY--- separator is evaluated.

The report is printed and saved to <output_dir>/evaluation_results.json.`,
	Example: `  tripeval run paris.md --context paris-context.yaml
  tripeval run edited.md --original paris.md --instruction "change day 2 morning"
  cat reply.txt | tripeval run - -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluation,
}

func init() {
	runCmd.Flags().StringVarP(&runFlags.contextFile, "context", "c", "", "Evaluation context file (YAML or JSON)")
	runCmd.Flags().StringVar(&runFlags.originalFile, "original", "", "Original itinerary; enables the edit-correctness check")
	runCmd.Flags().StringVar(&runFlags.instruction, "instruction", "", "Edit instruction used to infer intended sections")
	runCmd.Flags().StringSliceVar(&runFlags.sections, "section", nil, "Intended section (day_N or travel_tips); repeatable")
	runCmd.Flags().StringVar(&runFlags.resultsFile, "results", "", "Results file (default: <output_dir>/evaluation_results.json)")
	runCmd.Flags().BoolVar(&runFlags.noSave, "no-save", false, "Do not write the results file")
	runCmd.Flags().BoolVar(&runFlags.strict, "strict", false, "Exit with status 2 when any evaluation fails")
}

func runEvaluation(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	text, err := readItinerary(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	var ectx eval.EvalContext
	if runFlags.contextFile != "" {
		loaded, err := eval.LoadContext(runFlags.contextFile)
		if err != nil {
			return err
		}
		ectx = *loaded
	}
	if runFlags.originalFile != "" {
		original, err := readItinerary(cmd.InOrStdin(), runFlags.originalFile)
		if err != nil {
			return err
		}
		ectx.OriginalItinerary = original
	}
	if runFlags.instruction != "" {
		ectx.EditInstruction = runFlags.instruction
	}
	if len(runFlags.sections) > 0 {
		ectx.IntendedSections = runFlags.sections
	}

	tel, err := setupTelemetry(ctx, appConfig, appLogger)
	if err != nil {
		return err
	}
	defer tel.shutdown()

	runner, err := tel.newRunner(appConfig)
	if err != nil {
		return err
	}

	report := runner.RunAll(ctx, text, ectx)

	if !runFlags.noSave {
		path := runFlags.resultsFile
		if path == "" {
			path = filepath.Join(appConfig.Core.OutputDir, eval.DefaultResultsFile)
		}
		if err := eval.WriteResults(ctx, report, path); err != nil {
			return err
		}
		appLogger.Info("results saved", "path", path)
	}

	if err := printReport(cmd, report); err != nil {
		return err
	}

	if runFlags.strict && !report.Overall.AllPassed {
		return internal.NewCLIError(internal.ExitEvaluationFailed,
			fmt.Sprintf("itinerary failed %d of %d evaluations", report.Overall.FailedEvals, report.Overall.TotalEvals))
	}
	return nil
}

// readItinerary reads an itinerary from path, or from stdin when path is "-".
// Agent messages are reduced to their itinerary body.
func readItinerary(stdin io.Reader, path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return "", types.NewError(types.ITINERARY_NOT_FOUND, fmt.Sprintf("itinerary file not found: %s", path))
		}
		return "", types.WrapError(types.ITINERARY_NOT_FOUND, fmt.Sprintf("failed to read itinerary: %s", path), err)
	}

	text := string(data)
	if body, ok := itinerary.ExtractBody(text); ok {
		return body, nil
	}
	return text, nil
}

// printReport prints the text report, or the JSON report with -o json.
func printReport(cmd *cobra.Command, report *eval.Report) error {
	if globalFlags.GetOutputFormat() == internal.FormatJSON {
		return formatter(cmd).PrintJSON(report)
	}

	f := internal.NewTextFormatter(cmd.OutOrStdout())
	if err := f.PrintText(eval.GenerateReport(report)); err != nil {
		return err
	}
	summary := fmt.Sprintf("%d/%d evaluations passed", report.Overall.PassedEvals, report.Overall.TotalEvals)
	if report.Overall.AllPassed {
		return f.PrintSuccess(summary)
	}
	return f.PrintError(summary)
}
