// sim/state.go
package sim

// ResourceStatus is the per-resource outcome of one step: how much of the
// effective budget was consumed and how much demand pressed against it unmet.
type ResourceStatus struct {
	ResourceID     string
	ThroughputUsed float64 // units/s actually consumed after admission
	Utilization    float64 // ThroughputUsed / effective max, in [0,1]
	Backpressure   float64 // units/s of unmet demand attributable to this resource
}

// SimulationState is one point of the simulation's history. States are
// advanced by pure replacement: Step never mutates its input, it returns a
// fresh value, so any prefix of a run can be replayed or inspected later.
type SimulationState struct {
	Timestamp      float64            // simulated seconds since the run started
	Complete       bool               // true once Timestamp has reached the scenario duration
	BaseFee        float64            // the fee in effect for the NEXT step's demand
	Admitted       map[string]float64 // category ID -> admitted tx/s this step
	Backpressure   map[string]float64 // category ID -> unmet tx/s this step
	Resources      []ResourceStatus   // per-resource usage, ordered by resource ID
	PendingBacklog float64            // accumulated unserved transactions (mempool proxy)
}

// NewSimulationState returns the t=0 state for a run: configured initial fee,
// empty backlog, nothing admitted yet.
func NewSimulationState(cfg *SimulationConfig) SimulationState {
	resources := make([]ResourceStatus, 0, len(cfg.Resources.Resources))
	for _, id := range cfg.Resources.IDs() {
		resources = append(resources, ResourceStatus{ResourceID: id})
	}
	return SimulationState{
		Timestamp:    0,
		BaseFee:      cfg.InitialFee,
		Admitted:     map[string]float64{},
		Backpressure: map[string]float64{},
		Resources:    resources,
	}
}

// MaxUtilization returns the bottleneck utilization recorded in this state.
func (s SimulationState) MaxUtilization() float64 {
	max := 0.0
	for _, rs := range s.Resources {
		if rs.Utilization > max {
			max = rs.Utilization
		}
	}
	return max
}

// BottleneckResource returns the ID of the most utilized resource, or "" when
// every resource is idle. Ties break to the first in ID order.
func (s SimulationState) BottleneckResource() string {
	id := ""
	max := 0.0
	for _, rs := range s.Resources {
		if rs.Utilization > max {
			max = rs.Utilization
			id = rs.ResourceID
		}
	}
	return id
}
