package engine

import (
	"github.com/manufgue/Monitor/internal/client"
	"github.com/manufgue/Monitor/internal/model"
)

// fold applies one terminal outcome to the running result.
//
// Calls are counted whenever the server answered, whatever the status;
// only transport failures leave TotalCalls untouched. Every non-success
// outcome records the pair in FailedRegions. A successful fetch folds its
// records into all three breakdowns and always materializes the region and
// host entries, so a region that answered with zero executions stays
// distinguishable from one that was never reached.
func fold(result *model.AggregationResult, host, region string, outcome client.Outcome) {
	if outcome.Kind != client.OutcomeTransport {
		result.TotalCalls++
	}
	if outcome.Kind != client.OutcomeSuccess {
		result.FailedRegions = append(result.FailedRegions, model.RegionRef{Host: host, Region: region})
		return
	}

	regionSum := 0
	for _, record := range outcome.Records {
		result.ByPctName[record.Name] += record.Count
		result.TotalSum += record.Count
		regionSum += record.Count
	}
	result.ByRegion[region] += regionSum
	result.ByHost[host] += regionSum
}
