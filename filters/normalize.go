package filters

import (
	"go-spotscout/types"
)

// remotePriority orders the remote-eligible criteria from most to least
// important. When the remote-filter budget is exceeded, active filters are
// downgraded from the bottom of this list upward.
var remotePriority = []types.FilterName{
	types.FilterOpenNow,
	types.FilterPriceLevel,
	types.FilterGoodForStudying,
	types.FilterGoodForMeetings,
}

// clientOnly criteria are always evaluated locally and never downgraded.
var clientOnly = map[types.FilterName]bool{
	types.FilterDistance:   true,
	types.FilterNoiseLevel: true,
	types.FilterNotCrowded: true,
	types.FilterHighRated:  true,
}

func init() {
	// The two classifications must stay disjoint.
	for _, name := range remotePriority {
		if clientOnly[name] {
			panic("filter " + string(name) + " classified both remote and client-only")
		}
	}
}

// Result is the outcome of normalizing a filter set against a remote budget.
type Result struct {
	Normalized          types.FilterState
	Downgraded          []types.FilterName
	ActiveRemoteFilters []types.FilterName
}

// Normalize splits the requested filters into a remote-applied set and a
// residual client-applied set. If more remote-eligible filters are active than
// remoteBudget allows, the lowest-priority ones are switched off one at a time
// until the count fits. Pure: the input is never mutated, and the downgraded
// set is identical for identical inputs.
func Normalize(filter types.FilterState, remoteBudget int) Result {
	normalized := filter
	normalized.PriceLevels = append([]int(nil), filter.PriceLevels...)

	res := Result{Normalized: normalized}

	active := 0
	for _, name := range remotePriority {
		if remoteActive(res.Normalized, name) {
			active++
		}
	}

	// Walk the priority list bottom-up, shedding filters until within budget.
	for i := len(remotePriority) - 1; i >= 0 && active > remoteBudget; i-- {
		name := remotePriority[i]
		if !remoteActive(res.Normalized, name) {
			continue
		}
		disableRemote(&res.Normalized, name)
		res.Downgraded = append(res.Downgraded, name)
		active--
	}

	for _, name := range remotePriority {
		if remoteActive(res.Normalized, name) {
			res.ActiveRemoteFilters = append(res.ActiveRemoteFilters, name)
		}
	}

	return res
}

// IsClientOnly reports whether a criterion is evaluated locally.
func IsClientOnly(name types.FilterName) bool {
	return clientOnly[name]
}

// RemoteEligible returns the remote criteria in priority order.
func RemoteEligible() []types.FilterName {
	return append([]types.FilterName(nil), remotePriority...)
}

func remoteActive(f types.FilterState, name types.FilterName) bool {
	switch name {
	case types.FilterOpenNow:
		return f.OpenNow
	case types.FilterPriceLevel:
		return len(f.PriceLevels) > 0
	case types.FilterGoodForStudying:
		return f.GoodForStudying
	case types.FilterGoodForMeetings:
		return f.GoodForMeetings
	}
	return false
}

func disableRemote(f *types.FilterState, name types.FilterName) {
	switch name {
	case types.FilterOpenNow:
		f.OpenNow = false
	case types.FilterPriceLevel:
		f.PriceLevels = nil
	case types.FilterGoodForStudying:
		f.GoodForStudying = false
	case types.FilterGoodForMeetings:
		f.GoodForMeetings = false
	}
}
