package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTechSpecs_Valid(t *testing.T) {
	got, err := parseTechSpecs([]string{"compute=10", "bandwidth=2.5"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"compute": 10, "bandwidth": 2.5}, got)
}

func TestParseTechSpecs_Empty(t *testing.T) {
	got, err := parseTechSpecs(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseTechSpecs_Invalid(t *testing.T) {
	cases := []string{"compute", "=2", "compute=fast"}
	for _, spec := range cases {
		_, err := parseTechSpecs([]string{spec})
		assert.Error(t, err, "spec %q should be rejected", spec)
	}
}
