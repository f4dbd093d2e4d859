// sim/config.go
package sim

import "fmt"

// SimulationConfig gathers everything one run needs. Catalogs are injected
// here rather than read from package state, so two runs with different tech
// multipliers or catalogs can execute side by side without sharing anything.
type SimulationConfig struct {
	Resources       *ResourceCatalog
	Categories      *CategoryCatalog
	Scenario        Scenario
	TechMultipliers map[string]float64 // resource ID -> capacity multiplier; missing = 1.0
	Fee             FeeParams
	Demand          DemandParams
	InitialFee      float64 // base fee at t=0
	Duration        float64 // simulated seconds the scenario spans
	DrainFraction   float64 // share of admitted throughput clearing backlog per second
}

// NewSimulationConfig assembles a config from validated catalogs and a
// scenario, filling controller and demand parameters with defaults.
func NewSimulationConfig(resources *ResourceCatalog, categories *CategoryCatalog, scenario Scenario) *SimulationConfig {
	return &SimulationConfig{
		Resources:       resources,
		Categories:      categories,
		Scenario:        scenario,
		TechMultipliers: map[string]float64{},
		Fee: FeeParams{
			TargetUtilization: 0.5,
			MaxChangeRate:     0.125,
			MinFee:            0.01,
		},
		Demand: DemandParams{
			BaselineFee:     20,
			VolatilityOmega: 0.25,
		},
		InitialFee:    20,
		Duration:      120,
		DrainFraction: 0.1,
	}
}

// DefaultSimulationConfig builds a runnable config from the built-in catalogs
// and the steady scenario. Only construction of the defaults can fail, and
// the defaults are covered by tests, so errors here indicate a broken build.
func DefaultSimulationConfig() (*SimulationConfig, error) {
	resources, err := NewResourceCatalog(DefaultResources())
	if err != nil {
		return nil, fmt.Errorf("default resources: %w", err)
	}
	categories, err := NewCategoryCatalog(DefaultCategories(), resources)
	if err != nil {
		return nil, fmt.Errorf("default categories: %w", err)
	}
	scenario, err := ScenarioByName("steady")
	if err != nil {
		return nil, err
	}
	return NewSimulationConfig(resources, categories, scenario), nil
}

// Validate rejects configurations the engine cannot run. Called once before
// the first step; the step functions themselves assume a valid config.
func (c *SimulationConfig) Validate() error {
	if c.Resources == nil || len(c.Resources.Resources) == 0 {
		return fmt.Errorf("config: no resource catalog")
	}
	if c.Categories == nil || len(c.Categories.Categories) == 0 {
		return fmt.Errorf("config: no category catalog")
	}
	if c.Scenario.multiplier == nil {
		return fmt.Errorf("config: no scenario")
	}
	if c.Duration <= 0 {
		return fmt.Errorf("config: duration must be > 0, got %v", c.Duration)
	}
	if c.Fee.TargetUtilization <= 0 || c.Fee.TargetUtilization > 1 {
		return fmt.Errorf("config: target utilization must be in (0,1], got %v", c.Fee.TargetUtilization)
	}
	if c.Fee.MaxChangeRate < 0 {
		return fmt.Errorf("config: max change rate must be >= 0, got %v", c.Fee.MaxChangeRate)
	}
	if c.Fee.MinFee < 0 {
		return fmt.Errorf("config: min fee must be >= 0, got %v", c.Fee.MinFee)
	}
	if c.InitialFee < c.Fee.MinFee {
		return fmt.Errorf("config: initial fee %v below min fee %v", c.InitialFee, c.Fee.MinFee)
	}
	if c.Demand.BaselineFee <= 0 {
		return fmt.Errorf("config: baseline fee must be > 0, got %v", c.Demand.BaselineFee)
	}
	if c.DrainFraction < 0 {
		return fmt.Errorf("config: drain fraction must be >= 0, got %v", c.DrainFraction)
	}
	for resID, mult := range c.TechMultipliers {
		if _, ok := c.Resources.Get(resID); !ok {
			return fmt.Errorf("config: tech multiplier for unknown resource %q", resID)
		}
		if mult <= 0 {
			return fmt.Errorf("config: tech multiplier for %q must be > 0, got %v", resID, mult)
		}
	}
	return nil
}

// WithTechMultipliers returns a copy of the config carrying a different tech
// multiplier set. The catalogs are shared (read-only); everything mutable is
// fresh, per the independent-runs rule.
func (c *SimulationConfig) WithTechMultipliers(multipliers map[string]float64) *SimulationConfig {
	dup := *c
	dup.TechMultipliers = make(map[string]float64, len(multipliers))
	for k, v := range multipliers {
		dup.TechMultipliers[k] = v
	}
	return &dup
}
