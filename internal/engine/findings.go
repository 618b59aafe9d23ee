package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/manufgue/Monitor/internal/model"
)

// Findings derives operator advisories from a completed run. Rules are
// evaluated in a fixed order and hosts follow the configured target order,
// so the same inputs always produce the same list.
func Findings(targets []model.HostTarget, creds model.Credentials, result *model.AggregationResult) []model.Finding {
	findings := []model.Finding{}
	if result == nil {
		return findings
	}

	pairs := 0
	for _, target := range targets {
		if target.Queryable() {
			pairs += len(target.Regions)
		}
	}
	if pairs == 0 {
		findings = append(findings, model.Finding{
			Severity: model.FindingInfo,
			Text:     "no queryable targets configured; add hosts with regions to the targets file",
		})
		return findings
	}

	if result.TotalCalls == 0 {
		findings = append(findings, model.Finding{
			Severity: model.FindingCritical,
			Text:     "no host answered; check connectivity and the targets file",
		})
	} else if result.TotalSum == 0 {
		findings = append(findings, model.Finding{
			Severity: model.FindingWarning,
			Text:     "every region reported zero active executions",
		})
	}

	failedByHost := map[string]int{}
	for _, ref := range result.FailedRegions {
		failedByHost[ref.Host]++
	}
	for _, target := range targets {
		if !target.Queryable() {
			continue
		}
		failed := failedByHost[target.Host]
		if failed == 0 {
			continue
		}
		if failed >= len(target.Regions) {
			findings = append(findings, model.Finding{
				Severity: model.FindingCritical,
				Text:     fmt.Sprintf("host %s: all %d regions failed", target.Host, len(target.Regions)),
			})
			continue
		}
		findings = append(findings, model.Finding{
			Severity: model.FindingWarning,
			Text:     fmt.Sprintf("host %s: %d of %d regions failed", target.Host, failed, len(target.Regions)),
		})
	}

	idle := []string{}
	for region, count := range result.ByRegion {
		if count == 0 {
			idle = append(idle, region)
		}
	}
	if len(idle) > 0 && result.TotalSum > 0 {
		sort.Strings(idle)
		findings = append(findings, model.Finding{
			Severity: model.FindingInfo,
			Text:     fmt.Sprintf("regions with zero active executions: %s", strings.Join(idle, ", ")),
		})
	}

	if !creds.Valid() && len(result.FailedRegions) > 0 {
		findings = append(findings, model.Finding{
			Severity: model.FindingInfo,
			Text:     "no credentials configured; rejected sessions were not renewed",
		})
	}

	return findings
}
