package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/blockspace-sim/blockspace-sim/sim"
)

// Define structs for the catalog YAML
type CatalogFile struct {
	Resources  []ResourceEntry            `yaml:"resources"`
	Categories []CategoryEntry            `yaml:"categories"`
	Scenarios  map[string][]ScenarioEntry `yaml:"scenarios,omitempty"`
}

type ResourceEntry struct {
	ID            string  `yaml:"id"`
	Unit          string  `yaml:"unit"`
	MaxThroughput float64 `yaml:"max_throughput"`
}

type CategoryEntry struct {
	ID               string             `yaml:"id"`
	BaseDemand       float64            `yaml:"base_demand"`
	DemandVolatility float64            `yaml:"demand_volatility"`
	PriceElasticity  float64            `yaml:"price_elasticity"`
	Consumption      map[string]float64 `yaml:"consumption"`
}

type ScenarioEntry struct {
	Time       float64 `yaml:"time"`
	Multiplier float64 `yaml:"multiplier"`
}

// LoadCatalogFile reads resource and category catalogs, plus any custom
// piecewise scenarios, from a YAML file. Everything is validated here, before
// the first simulation step runs.
func LoadCatalogFile(path string) (*sim.ResourceCatalog, *sim.CategoryCatalog, map[string]sim.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, err
	}

	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, nil, fmt.Errorf("parse yaml: %w", err)
	}

	resourceList := make([]sim.Resource, 0, len(file.Resources))
	for _, entry := range file.Resources {
		resourceList = append(resourceList, sim.Resource{
			ID:            entry.ID,
			Unit:          entry.Unit,
			MaxThroughput: entry.MaxThroughput,
		})
	}
	resources, err := sim.NewResourceCatalog(resourceList)
	if err != nil {
		return nil, nil, nil, err
	}

	categoryList := make([]sim.TxCategory, 0, len(file.Categories))
	for _, entry := range file.Categories {
		categoryList = append(categoryList, sim.TxCategory{
			ID:               entry.ID,
			BaseDemand:       entry.BaseDemand,
			DemandVolatility: entry.DemandVolatility,
			PriceElasticity:  entry.PriceElasticity,
			Consumption:      entry.Consumption,
		})
	}
	categories, err := sim.NewCategoryCatalog(categoryList, resources)
	if err != nil {
		return nil, nil, nil, err
	}

	scenarios := make(map[string]sim.Scenario, len(file.Scenarios))
	for name, entries := range file.Scenarios {
		points := make([]sim.ScenarioPoint, 0, len(entries))
		for _, entry := range entries {
			points = append(points, sim.ScenarioPoint{Time: entry.Time, Multiplier: entry.Multiplier})
		}
		scenario, err := sim.PiecewiseScenario(name, points)
		if err != nil {
			return nil, nil, nil, err
		}
		scenarios[name] = scenario
	}

	return resources, categories, scenarios, nil
}
