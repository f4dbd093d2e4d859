package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResourceCatalog_RejectsInvalidEntries(t *testing.T) {
	cases := []struct {
		name      string
		resources []Resource
	}{
		{"empty catalog", nil},
		{"empty ID", []Resource{{ID: "", MaxThroughput: 1}}},
		{"zero throughput", []Resource{{ID: "cpu", MaxThroughput: 0}}},
		{"negative throughput", []Resource{{ID: "cpu", MaxThroughput: -5}}},
		{"duplicate ID", []Resource{{ID: "cpu", MaxThroughput: 1}, {ID: "cpu", MaxThroughput: 2}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewResourceCatalog(tc.resources)
			assert.Error(t, err)
		})
	}
}

func TestNewCategoryCatalog_RejectsInvalidEntries(t *testing.T) {
	resources, err := NewResourceCatalog([]Resource{{ID: "cpu", MaxThroughput: 10}})
	require.NoError(t, err)

	cases := []struct {
		name       string
		categories []TxCategory
	}{
		{"empty catalog", nil},
		{"empty ID", []TxCategory{{ID: ""}}},
		{"negative base demand", []TxCategory{{ID: "a", BaseDemand: -1}}},
		{"volatility above 1", []TxCategory{{ID: "a", DemandVolatility: 1.5}}},
		{"elasticity below 0", []TxCategory{{ID: "a", PriceElasticity: -0.1}}},
		{"negative consumption", []TxCategory{{ID: "a", Consumption: map[string]float64{"cpu": -1}}}},
		{"unknown resource", []TxCategory{{ID: "a", Consumption: map[string]float64{"gpu": 1}}}},
		{"duplicate ID", []TxCategory{{ID: "a"}, {ID: "a"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCategoryCatalog(tc.categories, resources)
			assert.Error(t, err)
		})
	}
}

func TestDefaultCatalogs_AreValid(t *testing.T) {
	resources, err := NewResourceCatalog(DefaultResources())
	require.NoError(t, err)
	_, err = NewCategoryCatalog(DefaultCategories(), resources)
	require.NoError(t, err)
}

func TestResource_EffectiveMax(t *testing.T) {
	r := Resource{ID: "cpu", MaxThroughput: 100}

	assert.Equal(t, 250.0, r.EffectiveMax(2.5))
	// No multiplier configured (zero value) means no scaling
	assert.Equal(t, 100.0, r.EffectiveMax(0))
	// The catalog entry itself is untouched
	assert.Equal(t, 100.0, r.MaxThroughput)
}

func TestTxCategory_ConsumesNothing(t *testing.T) {
	assert.True(t, TxCategory{ID: "a"}.ConsumesNothing())
	assert.True(t, TxCategory{ID: "a", Consumption: map[string]float64{"cpu": 0}}.ConsumesNothing())
	assert.False(t, TxCategory{ID: "a", Consumption: map[string]float64{"cpu": 1}}.ConsumesNothing())
}

func TestCatalog_IDs_Sorted(t *testing.T) {
	resources, err := NewResourceCatalog([]Resource{
		{ID: "zeta", MaxThroughput: 1},
		{ID: "alpha", MaxThroughput: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, resources.IDs())
}
