package cmd

import (
	"encoding/csv"
	"fmt"
	"os"

	sim "github.com/blockspace-sim/blockspace-sim/sim"
)

// WriteHistoryCSV flattens a run's state history into a CSV file: one row per
// state, one column per resource utilization and per category admitted rate.
// Serialization lives here rather than in sim; the engine's states are plain
// data and the export shape is a presentation choice.
func WriteHistoryCSV(path string, history []sim.SimulationState, cfg *sim.SimulationConfig) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	resourceIDs := cfg.Resources.IDs()
	categoryIDs := cfg.Categories.IDs()

	header := []string{"timestamp", "base_fee", "pending_backlog"}
	for _, id := range resourceIDs {
		header = append(header, "util_"+id)
	}
	for _, id := range categoryIDs {
		header = append(header, "admitted_"+id)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, state := range history {
		row := []string{
			fmt.Sprintf("%.3f", state.Timestamp),
			fmt.Sprintf("%.6f", state.BaseFee),
			fmt.Sprintf("%.3f", state.PendingBacklog),
		}
		utilByID := make(map[string]float64, len(state.Resources))
		for _, rs := range state.Resources {
			utilByID[rs.ResourceID] = rs.Utilization
		}
		for _, id := range resourceIDs {
			row = append(row, fmt.Sprintf("%.6f", utilByID[id]))
		}
		for _, id := range categoryIDs {
			row = append(row, fmt.Sprintf("%.3f", state.Admitted[id]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
