// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Step advances the simulation by one fixed interval of dt simulated seconds.
// The pipeline per step is demand -> bottleneck resolution -> fee update ->
// backlog update, in that order. Demand is priced against the PREVIOUS step's
// fee: the one-step delay models real fee-discovery latency and is part of
// the contract, not an accident of sequencing.
//
// Step is pure over its arguments (calling it twice with the same state and
// config yields the same result) and returns the input unchanged once the
// state is complete.
func Step(state SimulationState, cfg *SimulationConfig, dt float64) SimulationState {
	if state.Complete {
		return state
	}

	multiplier := cfg.Scenario.Multiplier(state.Timestamp / cfg.Duration)

	desired := make(map[string]float64, len(cfg.Categories.Categories))
	for _, cat := range cfg.Categories.Categories {
		desired[cat.ID] = Demand(cat, state.Timestamp, state.BaseFee, multiplier, cfg.Demand)
	}

	consumption := cfg.Categories.ConsumptionMatrix()
	res := ResolveBottleneck(desired, cfg.Resources.Resources, consumption, cfg.TechMultipliers)

	fee := NextFee(state.BaseFee, res.MaxUtilization(), cfg.Fee)

	// Backlog accrues unmet demand and drains as a fraction of what the chain
	// actually carried. A scalar, not a priority queue: backlogged demand does
	// not re-enter the resolver.
	totalAdmitted, totalBackpressure := 0.0, 0.0
	for _, catID := range cfg.Categories.IDs() {
		totalAdmitted += res.Admitted[catID]
		totalBackpressure += res.Backpressure[catID]
	}
	backlog := state.PendingBacklog + totalBackpressure*dt - cfg.DrainFraction*totalAdmitted*dt
	if backlog < 0 {
		backlog = 0
	}

	next := SimulationState{
		Timestamp:      state.Timestamp + dt,
		BaseFee:        fee,
		Admitted:       res.Admitted,
		Backpressure:   res.Backpressure,
		Resources:      resourceStatuses(res, consumption, cfg),
		PendingBacklog: backlog,
	}
	if next.Timestamp >= cfg.Duration-utilizationEpsilon {
		next.Complete = true
	}

	logrus.Debugf("[t=%8.2fs] multiplier=%.3f scale=%.4f maxUtil=%.4f (%s) fee=%.4f backlog=%.1f",
		state.Timestamp, multiplier, res.Scale, res.MaxUtilization(), res.Bottleneck, fee, backlog)

	return next
}

// resourceStatuses flattens a Resolution into the per-resource view stored on
// the state, ordered by resource ID.
func resourceStatuses(res Resolution, consumption map[string]map[string]float64, cfg *SimulationConfig) []ResourceStatus {
	statuses := make([]ResourceStatus, 0, len(cfg.Resources.Resources))
	for _, resID := range cfg.Resources.IDs() {
		used, unmet := 0.0, 0.0
		for catID, row := range consumption {
			used += res.Admitted[catID] * row[resID]
			unmet += res.Backpressure[catID] * row[resID]
		}
		statuses = append(statuses, ResourceStatus{
			ResourceID:     resID,
			ThroughputUsed: used,
			Utilization:    res.Utilization[resID],
			Backpressure:   unmet,
		})
	}
	return statuses
}

// RunToCompletion drives a run synchronously from t=0 until the scenario
// duration is reached and returns the full state history, initial state
// included. There are no timers here: an embedding UI may poll one Step per
// tick, but batch and test use is a plain loop.
func RunToCompletion(cfg *SimulationConfig, dt float64) ([]SimulationState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if dt <= 0 {
		return nil, fmt.Errorf("step size must be > 0, got %v", dt)
	}

	state := NewSimulationState(cfg)
	history := []SimulationState{state}
	for !state.Complete {
		state = Step(state, cfg, dt)
		history = append(history, state)
	}

	logrus.Infof("simulation %q complete: %d steps over %.1fs simulated, final fee %.4f, final backlog %.1f",
		cfg.Scenario.Name, len(history)-1, state.Timestamp, state.BaseFee, state.PendingBacklog)
	return history, nil
}
