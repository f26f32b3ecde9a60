package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/eval"
)

var reportCmd = &cobra.Command{
	Use:   "report [results-file]",
	Short: "Render a saved evaluation report",
	Long: `Render a saved evaluation report as text (or re-emit it as JSON with -o json).
Without an argument the report in <output_dir>/evaluation_results.json is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(appConfig.Core.OutputDir, eval.DefaultResultsFile)
		if len(args) == 1 {
			path = args[0]
		}

		report, err := eval.ReadResults(path)
		if err != nil {
			return err
		}
		return printReport(cmd, report)
	},
}
