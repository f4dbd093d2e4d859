package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// saturatedConfig builds a minimal config whose single category demands 2x
// the single resource's capacity at the initial fee (cpu 2.5, demand 5).
func saturatedConfig(t *testing.T) *SimulationConfig {
	t.Helper()
	resources, err := NewResourceCatalog([]Resource{{ID: "cpu", Unit: "CU/s", MaxThroughput: 2.5}})
	require.NoError(t, err)
	categories, err := NewCategoryCatalog([]TxCategory{
		{ID: "A", BaseDemand: 5, Consumption: map[string]float64{"cpu": 1}},
	}, resources)
	require.NoError(t, err)
	scenario, err := ScenarioByName("steady")
	require.NoError(t, err)
	cfg := NewSimulationConfig(resources, categories, scenario)
	cfg.Duration = 10
	return cfg
}

func TestStep_SaturatedResource_AdmitsCapacityAndRaisesFee(t *testing.T) {
	// GIVEN demand at 2x capacity and the fee at baseline
	cfg := saturatedConfig(t)
	state := NewSimulationState(cfg)

	// WHEN one step runs
	next := Step(state, cfg, 1)

	// THEN capacity is fully used, half the demand is backpressure,
	// and the controller raises the fee by the full change rate
	assert.InDelta(t, 2.5, next.Admitted["A"], 1e-9)
	assert.InDelta(t, 2.5, next.Backpressure["A"], 1e-9)
	assert.InDelta(t, 1.0, next.MaxUtilization(), 1e-9)
	assert.Equal(t, "cpu", next.BottleneckResource())
	assert.InDelta(t, 22.5, next.BaseFee, 1e-9)
	// Backlog: 2.5 unmet minus drain of 0.1 * 2.5 admitted
	assert.InDelta(t, 2.25, next.PendingBacklog, 1e-9)
}

func TestStep_UsesPreviousStepsFee(t *testing.T) {
	// GIVEN an elastic category whose demand fits under capacity, so the
	// admitted rate tracks the priced demand exactly
	cfg := saturatedConfig(t)
	cfg.Categories.Categories[0].PriceElasticity = 1
	cfg.Categories.Categories[0].BaseDemand = 2
	cat := cfg.Categories.Categories[0]
	state := NewSimulationState(cfg)

	// WHEN two steps run
	first := Step(state, cfg, 1)
	second := Step(first, cfg, 1)

	// THEN the fee moved after step one, and step two's demand is priced at
	// the fee the first step produced: the explicit one-step delay
	assert.NotEqual(t, state.BaseFee, first.BaseFee)
	wantDesired := Demand(cat, first.Timestamp, first.BaseFee, 1, cfg.Demand)
	assert.Less(t, wantDesired, 2.5)
	assert.InDelta(t, wantDesired, second.Admitted["A"], 1e-9)
}

func TestStep_Idempotent(t *testing.T) {
	cfg := saturatedConfig(t)
	state := NewSimulationState(cfg)
	state = Step(state, cfg, 0.5)

	first := Step(state, cfg, 0.5)
	second := Step(state, cfg, 0.5)

	assert.Equal(t, first, second)
}

func TestStep_CompleteState_IsAFixedPoint(t *testing.T) {
	cfg := saturatedConfig(t)
	state := NewSimulationState(cfg)
	state.Complete = true
	state.Timestamp = cfg.Duration

	assert.Equal(t, state, Step(state, cfg, 1))
}

func TestRunToCompletion_ReachesDurationExactly(t *testing.T) {
	cfg := saturatedConfig(t)

	history, err := RunToCompletion(cfg, 1)
	require.NoError(t, err)

	// Initial state plus 10 steps of dt=1 over a 10s duration
	assert.Len(t, history, 11)
	final := history[len(history)-1]
	assert.True(t, final.Complete)
	assert.InDelta(t, 10.0, final.Timestamp, 1e-9)
	for _, state := range history[:len(history)-1] {
		assert.False(t, state.Complete)
	}
}

func TestRunToCompletion_RejectsBadInputs(t *testing.T) {
	cfg := saturatedConfig(t)

	_, err := RunToCompletion(cfg, 0)
	assert.Error(t, err)

	cfg.Duration = -1
	_, err = RunToCompletion(cfg, 1)
	assert.Error(t, err)
}

func TestRunToCompletion_DeterministicReplay(t *testing.T) {
	cfg := saturatedConfig(t)
	cfg.Categories.Categories[0].DemandVolatility = 0.5
	cfg.Categories.Categories[0].PriceElasticity = 0.9

	first, err := RunToCompletion(cfg, 0.25)
	require.NoError(t, err)
	second, err := RunToCompletion(cfg, 0.25)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunToCompletion_ZeroDemand_FeeDecaysToFloor(t *testing.T) {
	// GIVEN a category that never demands anything
	cfg := saturatedConfig(t)
	cfg.Categories.Categories[0].BaseDemand = 0
	cfg.Duration = 400

	// WHEN the run completes
	history, err := RunToCompletion(cfg, 1)
	require.NoError(t, err)

	// THEN nothing is ever admitted and the fee has decayed to the floor
	final := history[len(history)-1]
	assert.Equal(t, 0.0, final.Admitted["A"])
	assert.Equal(t, 0.0, final.MaxUtilization())
	assert.Equal(t, 0.0, final.PendingBacklog)
	assert.Equal(t, cfg.Fee.MinFee, final.BaseFee)
}

func TestRunToCompletion_FeeSteersUtilizationTowardTarget(t *testing.T) {
	// With elastic demand pressing 2x capacity, the rising fee should pull
	// the bottleneck utilization down toward the 0.5 target by the end
	cfg := saturatedConfig(t)
	cfg.Categories.Categories[0].PriceElasticity = 1
	cfg.Duration = 600

	history, err := RunToCompletion(cfg, 1)
	require.NoError(t, err)

	final := history[len(history)-1]
	assert.InDelta(t, cfg.Fee.TargetUtilization, final.MaxUtilization(), 0.1)
	assert.Greater(t, final.BaseFee, cfg.InitialFee)
}

func TestRunToCompletion_IndependentRunsDoNotInteract(t *testing.T) {
	// GIVEN two configs differing only in tech multipliers
	base := saturatedConfig(t)
	boosted := base.WithTechMultipliers(map[string]float64{"cpu": 2})

	// WHEN both run
	baseHistory, err := RunToCompletion(base, 1)
	require.NoError(t, err)
	boostedHistory, err := RunToCompletion(boosted, 1)
	require.NoError(t, err)
	baseAgain, err := RunToCompletion(base, 1)
	require.NoError(t, err)

	// THEN the boosted run admits everything while the base run is capped,
	// and running the boosted config did not perturb the base config
	assert.InDelta(t, 5.0, boostedHistory[1].Admitted["A"], 1e-9)
	assert.InDelta(t, 2.5, baseHistory[1].Admitted["A"], 1e-9)
	assert.Equal(t, baseHistory, baseAgain)
}
