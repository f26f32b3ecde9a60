package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/start-again-06/Travel-Agent-Voice-Based/cmd/tripeval/internal"
	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/tracking"
	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/types"
)

var replayCmd = &cobra.Command{
	Use:   "replay <transcript.jsonl>",
	Short: "Replay a recorded conversation through the evaluation tracker",
	Long: `Replay a JSONL conversation transcript. Each line is a message with a
role of user, tool or assistant. Tool outputs build the evaluation context,
user messages with edit keywords set the edit instruction, and every new or
changed itinerary in an assistant message is evaluated and saved to
<output_dir>/evaluation_results.json.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func runReplay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	f, err := os.Open(args[0])
	if err != nil {
		return types.WrapError(types.TRANSCRIPT_READ_FAILED, fmt.Sprintf("failed to open transcript: %s", args[0]), err)
	}
	defer f.Close()

	tel, err := setupTelemetry(ctx, appConfig, appLogger)
	if err != nil {
		return err
	}
	defer tel.shutdown()

	runner, err := tel.newRunner(appConfig)
	if err != nil {
		return err
	}

	tracker := tracking.NewTracker(runner, appConfig.Core.OutputDir, appLogger)
	reports, err := tracking.Replay(ctx, tracker, f)
	if err != nil {
		return err
	}

	out := formatter(cmd)
	if globalFlags.GetOutputFormat() == internal.FormatJSON {
		return out.PrintJSON(reports)
	}

	if len(reports) == 0 {
		return out.PrintError("no itinerary found in transcript")
	}
	for i, report := range reports {
		kind := "new itinerary"
		if report.Evaluations.EditCorrectness != nil {
			kind = "edit"
		}
		msg := fmt.Sprintf("evaluation %d (%s): %d/%d evaluations passed, %d issues",
			i+1, kind, report.Overall.PassedEvals, report.Overall.TotalEvals, report.Overall.TotalIssues)
		if report.Overall.AllPassed {
			err = out.PrintSuccess(msg)
		} else {
			err = out.PrintError(msg)
		}
		if err != nil {
			return err
		}
	}
	return out.PrintSuccess(fmt.Sprintf("last report saved to %s", tracker.ResultsPath()))
}
