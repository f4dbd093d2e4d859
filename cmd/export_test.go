package cmd

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/blockspace-sim/blockspace-sim/sim"
)

func TestWriteHistoryCSV_RoundTrip(t *testing.T) {
	// GIVEN a short completed run
	cfg, err := sim.DefaultSimulationConfig()
	require.NoError(t, err)
	cfg.Duration = 5
	history, err := sim.RunToCompletion(cfg, 1)
	require.NoError(t, err)

	// WHEN the history is exported
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, WriteHistoryCSV(path, history, cfg))

	// THEN the file has a header row plus one row per state,
	// with a column per resource and per category
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, len(history)+1)
	header := rows[0]
	assert.Equal(t, "timestamp", header[0])
	assert.Contains(t, header, "util_compute")
	assert.Contains(t, header, "admitted_transfer")
	assert.Len(t, header, 3+len(cfg.Resources.Resources)+len(cfg.Categories.Categories))

	// Every data row is fully populated
	for i, row := range rows[1:] {
		assert.Len(t, row, len(header), "row %d", i)
	}
}

func TestWriteHistoryCSV_BadPath(t *testing.T) {
	cfg, err := sim.DefaultSimulationConfig()
	require.NoError(t, err)
	err = WriteHistoryCSV(filepath.Join(t.TempDir(), "missing-dir", "x.csv"), nil, cfg)
	assert.Error(t, err)
}
