// sim/catalog.go
package sim

import (
	"fmt"
	"sort"
)

// Resource is one dimension of the per-slot execution budget, e.g. compute
// units or propagated bytes.
type Resource struct {
	ID            string  // stable identifier, e.g. "compute"
	Unit          string  // human-readable unit, e.g. "CU/s"
	MaxThroughput float64 // capacity per simulated second, must be > 0
}

// EffectiveMax returns the capacity after applying a tech multiplier.
// Scaling produces a new value; the catalog entry itself is never mutated,
// so side-by-side runs with different multipliers can share a catalog.
func (r Resource) EffectiveMax(multiplier float64) float64 {
	if multiplier <= 0 {
		return r.MaxThroughput
	}
	return r.MaxThroughput * multiplier
}

// TxCategory describes one class of transaction demand and what each
// transaction of that class consumes per resource.
type TxCategory struct {
	ID               string
	BaseDemand       float64            // unconstrained tx/s at the baseline fee
	DemandVolatility float64            // sine amplitude in [0,1]
	PriceElasticity  float64            // demand response exponent in [0,1]
	Consumption      map[string]float64 // resource ID -> units consumed per tx, all >= 0
}

// ConsumesNothing reports whether the category has an all-zero consumption
// vector. Such a category can never become a bottleneck and is always
// admitted in full.
func (c TxCategory) ConsumesNothing() bool {
	for _, v := range c.Consumption {
		if v > 0 {
			return false
		}
	}
	return true
}

// ResourceCatalog is a validated, read-only set of resources.
type ResourceCatalog struct {
	Resources []Resource
	byID      map[string]Resource
}

// NewResourceCatalog validates catalog entries and builds the lookup index.
// Validation happens here, before any simulation step runs; the engine's pure
// functions assume a valid catalog.
func NewResourceCatalog(resources []Resource) (*ResourceCatalog, error) {
	if len(resources) == 0 {
		return nil, fmt.Errorf("resource catalog is empty")
	}
	byID := make(map[string]Resource, len(resources))
	for _, r := range resources {
		if r.ID == "" {
			return nil, fmt.Errorf("resource with empty ID")
		}
		if _, dup := byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate resource %q", r.ID)
		}
		if r.MaxThroughput <= 0 {
			return nil, fmt.Errorf("resource %q: max throughput must be > 0, got %v", r.ID, r.MaxThroughput)
		}
		byID[r.ID] = r
	}
	return &ResourceCatalog{Resources: resources, byID: byID}, nil
}

// Get returns the resource with the given ID.
func (c *ResourceCatalog) Get(id string) (Resource, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// IDs returns all resource IDs in sorted order, the engine's canonical
// iteration order.
func (c *ResourceCatalog) IDs() []string {
	ids := make([]string, 0, len(c.Resources))
	for _, r := range c.Resources {
		ids = append(ids, r.ID)
	}
	sort.Strings(ids)
	return ids
}

// CategoryCatalog is a validated, read-only set of transaction categories.
type CategoryCatalog struct {
	Categories []TxCategory
	byID       map[string]TxCategory
}

// NewCategoryCatalog validates category entries against the resource catalog
// their consumption vectors reference.
func NewCategoryCatalog(categories []TxCategory, resources *ResourceCatalog) (*CategoryCatalog, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("category catalog is empty")
	}
	if resources == nil {
		return nil, fmt.Errorf("category catalog requires a resource catalog")
	}
	byID := make(map[string]TxCategory, len(categories))
	for _, cat := range categories {
		if cat.ID == "" {
			return nil, fmt.Errorf("category with empty ID")
		}
		if _, dup := byID[cat.ID]; dup {
			return nil, fmt.Errorf("duplicate category %q", cat.ID)
		}
		if cat.BaseDemand < 0 {
			return nil, fmt.Errorf("category %q: base demand must be >= 0, got %v", cat.ID, cat.BaseDemand)
		}
		if cat.DemandVolatility < 0 || cat.DemandVolatility > 1 {
			return nil, fmt.Errorf("category %q: demand volatility must be in [0,1], got %v", cat.ID, cat.DemandVolatility)
		}
		if cat.PriceElasticity < 0 || cat.PriceElasticity > 1 {
			return nil, fmt.Errorf("category %q: price elasticity must be in [0,1], got %v", cat.ID, cat.PriceElasticity)
		}
		for resID, units := range cat.Consumption {
			if _, ok := resources.Get(resID); !ok {
				return nil, fmt.Errorf("category %q: consumption references unknown resource %q", cat.ID, resID)
			}
			if units < 0 {
				return nil, fmt.Errorf("category %q: consumption of %q must be >= 0, got %v", cat.ID, resID, units)
			}
		}
		byID[cat.ID] = cat
	}
	return &CategoryCatalog{Categories: categories, byID: byID}, nil
}

// Get returns the category with the given ID.
func (c *CategoryCatalog) Get(id string) (TxCategory, bool) {
	cat, ok := c.byID[id]
	return cat, ok
}

// IDs returns all category IDs in sorted order.
func (c *CategoryCatalog) IDs() []string {
	ids := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		ids = append(ids, cat.ID)
	}
	sort.Strings(ids)
	return ids
}

// ConsumptionMatrix returns category ID -> resource ID -> units per tx,
// in the shape ResolveBottleneck consumes.
func (c *CategoryCatalog) ConsumptionMatrix() map[string]map[string]float64 {
	m := make(map[string]map[string]float64, len(c.Categories))
	for _, cat := range c.Categories {
		row := make(map[string]float64, len(cat.Consumption))
		for resID, units := range cat.Consumption {
			row[resID] = units
		}
		m[cat.ID] = row
	}
	return m
}

// DefaultResources returns the built-in resource catalog: a stylized per-slot
// budget for a high-throughput chain.
func DefaultResources() []Resource {
	return []Resource{
		{ID: "compute", Unit: "CU/s", MaxThroughput: 48_000_000},
		{ID: "bandwidth", Unit: "bytes/s", MaxThroughput: 125_000_000},
		{ID: "state-growth", Unit: "bytes/s", MaxThroughput: 400_000},
		{ID: "sig-verify", Unit: "sigs/s", MaxThroughput: 8_000},
	}
}

// DefaultCategories returns the built-in transaction category catalog.
// Consumption figures are per transaction, matched to DefaultResources.
func DefaultCategories() []TxCategory {
	return []TxCategory{
		{
			ID:               "transfer",
			BaseDemand:       3000,
			DemandVolatility: 0.2,
			PriceElasticity:  0.6,
			Consumption:      map[string]float64{"compute": 1500, "bandwidth": 250, "state-growth": 10, "sig-verify": 1},
		},
		{
			ID:               "swap",
			BaseDemand:       800,
			DemandVolatility: 0.5,
			PriceElasticity:  0.9,
			Consumption:      map[string]float64{"compute": 30_000, "bandwidth": 900, "state-growth": 120, "sig-verify": 2},
		},
		{
			ID:               "nft-mint",
			BaseDemand:       150,
			DemandVolatility: 0.9,
			PriceElasticity:  1.0,
			Consumption:      map[string]float64{"compute": 45_000, "bandwidth": 1200, "state-growth": 800, "sig-verify": 1},
		},
		{
			ID:               "oracle-update",
			BaseDemand:       200,
			DemandVolatility: 0.05,
			PriceElasticity:  0.1,
			Consumption:      map[string]float64{"compute": 8_000, "bandwidth": 400, "state-growth": 60, "sig-verify": 1},
		},
	}
}
