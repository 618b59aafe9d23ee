package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/manufgue/Monitor/internal/engine"
	"github.com/manufgue/Monitor/internal/format"
	"github.com/manufgue/Monitor/internal/model"
)

func newSweepCmd(flags *rootFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one aggregation sweep and print the result",
		Long: "sweep queries every configured region once, folds the counters into one\n" +
			"aggregation, and prints the sorted table with per-region and per-host\n" +
			"breakdowns. A sweep that obtained no data is a normal zero result and\n" +
			"exits 0; only configuration problems and internal faults exit non-zero.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSweep(cmd, flags, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the aggregation result as JSON")

	return cmd
}

func runSweep(cmd *cobra.Command, flags *rootFlags, asJSON bool) error {
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

	rt, err := buildRuntime(flags)
	if err != nil {
		return err
	}
	logger.Info("sweep: starting", "targets", len(rt.targets), "regions", countRegions(rt.targets))

	coord := engine.NewCoordinator(rt.engine)
	defer coord.Close()

	started := time.Now()
	completion := coord.Submit(rt.targets, rt.creds).Wait()
	if completion.Err != nil {
		return completion.Err
	}
	result := completion.Result
	logger.Info("sweep: finished",
		"total", result.TotalSum,
		"calls", result.TotalCalls,
		"failed", len(result.FailedRegions),
		"elapsed", time.Since(started).Round(time.Millisecond))

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printResult(cmd.OutOrStdout(), rt, result)
	return nil
}

func printResult(out io.Writer, rt *runtime, result *model.AggregationResult) {
	rows := model.SortCounts(result.ByPctName)
	fmt.Fprintf(out, "Active PCTs (%d)\n", len(rows))
	if len(rows) == 0 {
		fmt.Fprintln(out, "  (no data)")
	}
	for _, row := range rows {
		fmt.Fprintf(out, "  %-32s%10s%8s\n",
			format.Truncate(row.Name, 30), format.FormatCount(row.Count), share(row.Count, result.TotalSum))
	}
	fmt.Fprintf(out, "  total %s across %d calls\n", format.FormatCount(result.TotalSum), result.TotalCalls)

	printBreakdown(out, "By region", result.ByRegion)
	printBreakdown(out, "By host", result.ByHost)

	if len(result.FailedRegions) > 0 {
		fmt.Fprintf(out, "\nFailed endpoints (%d)\n", len(result.FailedRegions))
		for _, ref := range result.FailedRegions {
			fmt.Fprintf(out, "  %s/%s\n", ref.Host, ref.Region)
		}
	}

	if findings := engine.Findings(rt.targets, rt.creds, result); len(findings) > 0 {
		fmt.Fprintln(out, "\nFindings")
		for _, f := range findings {
			fmt.Fprintf(out, "  [%s] %s\n", severityTag(f.Severity), f.Text)
		}
	}
}

func printBreakdown(out io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s\n", title)
	for _, row := range model.SortCounts(counts) {
		fmt.Fprintf(out, "  %-32s%10s\n", format.Truncate(row.Name, 30), format.FormatCount(row.Count))
	}
}

func share(count, total int) string {
	if total <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(count)*100/float64(total))
}

func severityTag(s model.FindingSeverity) string {
	switch s {
	case model.FindingCritical:
		return "CRIT"
	case model.FindingWarning:
		return "WARN"
	default:
		return "INFO"
	}
}

func countRegions(targets []model.HostTarget) int {
	n := 0
	for _, t := range targets {
		n += len(t.Regions)
	}
	return n
}
