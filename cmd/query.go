package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/spf13/cobra"

	"github.com/manufgue/Monitor/internal/format"
	"github.com/manufgue/Monitor/internal/model"
)

func newQueryCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "query HOST REGION",
		Short: "Fetch active PCT counters for one region",
		Long: "query performs a single fetch against HOST for REGION and prints the\n" +
			"decoded counters. A host present in the targets file keeps its configured\n" +
			"port; unknown hosts use the default admin port.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, flags, args[0], args[1])
		},
	}
}

func runQuery(cmd *cobra.Command, flags *rootFlags, host, region string) error {
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

	rt, err := buildRuntime(flags)
	if err != nil {
		return err
	}

	target := model.HostTarget{Host: host, Regions: []string{region}}
	for _, t := range rt.targets {
		if t.Host == host {
			target = t
			break
		}
	}
	logger.Info("query: fetching", "host", host, "port", target.EffectivePort(), "region", region)

	outcome := rt.engine.FetchRegion(cmd.Context(), target, region, rt.creds)
	if outcome.Failed() {
		return errors.New(outcome.Describe())
	}

	records := append([]model.PctRecord(nil), outcome.Records...)
	sort.Slice(records, func(i, j int) bool {
		if records[i].Count != records[j].Count {
			return records[i].Count > records[j].Count
		}
		return records[i].Name < records[j].Name
	})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s/%s: %d PCTs\n", host, region, len(records))
	total := 0
	for _, rec := range records {
		fmt.Fprintf(out, "  %-32s%10s  %s\n", format.Truncate(rec.Name, 30), format.FormatCount(rec.Count), rec.Group)
		total += rec.Count
	}
	fmt.Fprintf(out, "  total %s\n", format.FormatCount(total))
	return nil
}
