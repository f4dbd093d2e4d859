// sim/metrics.go
package sim

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Metrics aggregates statistics over a completed run's history for final
// reporting: fee and bottleneck-utilization series plus integrated throughput
// per category.
type Metrics struct {
	Steps             int
	FeeSeries         []float64          // base fee after each step
	UtilizationSeries []float64          // bottleneck (max) utilization per step
	TotalAdmitted     map[string]float64 // category ID -> transactions carried over the run
	TotalBackpressure map[string]float64 // category ID -> transactions turned away over the run
	FinalFee          float64
	FinalBacklog      float64
	PeakBacklog       float64
}

// CollectMetrics walks a state history as produced by RunToCompletion.
// The initial t=0 state carries no admission data and is skipped.
func CollectMetrics(history []SimulationState, dt float64) *Metrics {
	m := &Metrics{
		TotalAdmitted:     map[string]float64{},
		TotalBackpressure: map[string]float64{},
	}
	if len(history) == 0 {
		return m
	}
	for _, state := range history[1:] {
		m.Steps++
		m.FeeSeries = append(m.FeeSeries, state.BaseFee)
		m.UtilizationSeries = append(m.UtilizationSeries, state.MaxUtilization())
		for catID, rate := range state.Admitted {
			m.TotalAdmitted[catID] += rate * dt
		}
		for catID, rate := range state.Backpressure {
			m.TotalBackpressure[catID] += rate * dt
		}
		if state.PendingBacklog > m.PeakBacklog {
			m.PeakBacklog = state.PendingBacklog
		}
	}
	final := history[len(history)-1]
	m.FinalFee = final.BaseFee
	m.FinalBacklog = final.PendingBacklog
	return m
}

// Print displays the run summary on stdout.
func (m *Metrics) Print() {
	fmt.Println("=== Simulation Summary ===")
	fmt.Printf("Steps                : %d\n", m.Steps)
	if m.Steps == 0 {
		return
	}
	fmt.Printf("Base Fee             : final=%.4f mean=%.4f p50=%.4f p95=%.4f max=%.4f\n",
		m.FinalFee, stat.Mean(m.FeeSeries, nil),
		quantile(m.FeeSeries, 0.50), quantile(m.FeeSeries, 0.95), seriesMax(m.FeeSeries))
	fmt.Printf("Bottleneck Util      : mean=%.4f p95=%.4f peak=%.4f\n",
		stat.Mean(m.UtilizationSeries, nil),
		quantile(m.UtilizationSeries, 0.95), seriesMax(m.UtilizationSeries))
	fmt.Printf("Backlog              : final=%.1f peak=%.1f\n", m.FinalBacklog, m.PeakBacklog)
	for _, catID := range sortedKeys(m.TotalAdmitted) {
		fmt.Printf("Category %-12s: admitted=%.0f tx, backpressure=%.0f tx\n",
			catID, m.TotalAdmitted[catID], m.TotalBackpressure[catID])
	}
}

// quantile sorts a copy of the series; stat.Quantile needs sorted input.
func quantile(series []float64, p float64) float64 {
	if len(series) == 0 {
		return 0
	}
	sorted := make([]float64, len(series))
	copy(sorted, series)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

func seriesMax(series []float64) float64 {
	max := 0.0
	for _, v := range series {
		if v > max {
			max = v
		}
	}
	return max
}
