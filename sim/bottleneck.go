// sim/bottleneck.go
package sim

import (
	"fmt"
	"math"
	"sort"
)

// Strict enables postcondition panics in the resolver and the step loop.
// Tests turn this on so an oversubscribed resource or an admitted rate above
// desired fails loudly; production runs leave it off.
var Strict bool

// utilizationEpsilon absorbs float accumulation noise in the <= 1 checks.
const utilizationEpsilon = 1e-9

// Resolution is the outcome of admitting desired demand against the resource
// budget for one step.
type Resolution struct {
	Admitted     map[string]float64 // category ID -> admitted tx/s
	Backpressure map[string]float64 // category ID -> unmet tx/s, always >= 0
	Utilization  map[string]float64 // resource ID -> fraction of effective capacity used
	Bottleneck   string             // resource with the highest utilization, "" when all idle
	Scale        float64            // global admission scale in (0, 1]
}

// MaxUtilization returns the utilization of the bottleneck resource.
// This is the fee controller's input: the true bottleneck, never an average,
// so a saturated resource cannot hide behind idle ones.
func (r Resolution) MaxUtilization() float64 {
	max := 0.0
	for _, u := range r.Utilization {
		if u > max {
			max = u
		}
	}
	return max
}

// ResolveBottleneck converts unconstrained desired rates into an admissible
// throughput using proportional-fair scaling: one global scale factor, set by
// the most constrained resource, is applied uniformly to every category.
// Admission is therefore order-independent, deliberately unlike a greedy
// first-fit loop whose results depend on category iteration order.
//
// Postconditions (checked when Strict is set):
//   - every resource's utilization <= 1
//   - no category's admitted rate exceeds its desired rate
//
// The function is total: zero demand, zero consumption, and empty inputs all
// resolve without error.
func ResolveBottleneck(
	desired map[string]float64,
	resources []Resource,
	consumption map[string]map[string]float64,
	techMultipliers map[string]float64,
) Resolution {
	catIDs := sortedKeys(desired)

	// Scale factor per resource: capacity over aggregate desired load.
	// A resource nobody touches is unconstrained.
	scale := 1.0
	for _, res := range resources {
		load := 0.0
		for _, catID := range catIDs {
			load += desired[catID] * consumption[catID][res.ID]
		}
		if load <= 0 {
			continue
		}
		if s := res.EffectiveMax(techMultipliers[res.ID]) / load; s < scale {
			scale = s
		}
	}

	admitted := make(map[string]float64, len(desired))
	backpressure := make(map[string]float64, len(desired))
	for _, catID := range catIDs {
		adm := desired[catID] * scale
		if consumesNothing(consumption[catID]) {
			// A zero-consumption category cannot load any resource;
			// it rides through every bottleneck untouched.
			adm = desired[catID]
		}
		admitted[catID] = adm
		bp := desired[catID] - adm
		if bp < 0 {
			bp = 0
		}
		backpressure[catID] = bp
	}

	// Recompute utilization from what was actually admitted.
	utilization := make(map[string]float64, len(resources))
	bottleneck := ""
	maxUtil := 0.0
	for _, res := range resources {
		used := 0.0
		for _, catID := range catIDs {
			used += admitted[catID] * consumption[catID][res.ID]
		}
		u := used / res.EffectiveMax(techMultipliers[res.ID])
		utilization[res.ID] = u
		if u > maxUtil {
			maxUtil = u
			bottleneck = res.ID
		}
	}

	r := Resolution{
		Admitted:     admitted,
		Backpressure: backpressure,
		Utilization:  utilization,
		Bottleneck:   bottleneck,
		Scale:        scale,
	}
	if Strict {
		r.assertPostconditions(desired)
	}
	return r
}

// assertPostconditions panics on contract violations. Only called under
// Strict; a violation here is an engine bug, not bad input.
func (r Resolution) assertPostconditions(desired map[string]float64) {
	for resID, u := range r.Utilization {
		if u > 1+utilizationEpsilon || math.IsNaN(u) {
			panic(fmt.Sprintf("bottleneck resolver oversubscribed resource %q: utilization %v", resID, u))
		}
	}
	for catID, adm := range r.Admitted {
		if adm > desired[catID]+utilizationEpsilon {
			panic(fmt.Sprintf("bottleneck resolver admitted %v for category %q, above desired %v", adm, catID, desired[catID]))
		}
	}
}

func consumesNothing(row map[string]float64) bool {
	for _, v := range row {
		if v > 0 {
			return false
		}
	}
	return true
}

// sortedKeys fixes the iteration order so float accumulation and tie-breaks
// are reproducible across runs.
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
