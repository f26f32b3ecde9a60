package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/start-again-06/Travel-Agent-Voice-Based/internal/types"
)

// DefaultResultsFile is the report file name used inside an output directory.
const DefaultResultsFile = "evaluation_results.json"

// WriteResults writes a report as indented JSON. The file is written to a
// temporary sibling and renamed into place, so readers never observe a
// partial report.
func WriteResults(ctx context.Context, report *Report, path string) error {
	if err := ctx.Err(); err != nil {
		return types.WrapError(types.RESULTS_WRITE_FAILED, "results write cancelled", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return types.WrapError(types.RESULTS_WRITE_FAILED, "failed to encode results", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return types.WrapError(types.RESULTS_WRITE_FAILED,
			fmt.Sprintf("failed to create output directory: %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, ".evaluation-*.json")
	if err != nil {
		return types.WrapError(types.RESULTS_WRITE_FAILED, "failed to create temporary results file", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		// No-op once the rename has succeeded.
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return types.WrapError(types.RESULTS_WRITE_FAILED, "failed to write results", err)
	}
	if err := tmp.Close(); err != nil {
		return types.WrapError(types.RESULTS_WRITE_FAILED, "failed to close results file", err)
	}

	if err := ctx.Err(); err != nil {
		return types.WrapError(types.RESULTS_WRITE_FAILED, "results write cancelled", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return types.WrapError(types.RESULTS_WRITE_FAILED,
			fmt.Sprintf("failed to move results into place: %s", path), err)
	}
	return nil
}

// SaveResults persists a report on a best-effort basis. A failure is logged
// and reported through the return value only; the report itself is unaffected.
func (r *Runner) SaveResults(ctx context.Context, report *Report, path string) bool {
	if err := WriteResults(ctx, report, path); err != nil {
		r.logger.Error("failed to save results", "path", path, "error", err)
		return false
	}
	r.logger.Info("results saved", "path", path)
	return true
}

// ReadResults loads a report previously written by WriteResults.
func ReadResults(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.WrapError(types.RESULTS_READ_FAILED,
			fmt.Sprintf("failed to read results file: %s", path), err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, types.WrapError(types.RESULTS_READ_FAILED,
			fmt.Sprintf("failed to parse results file: %s", path), err)
	}
	return &report, nil
}
