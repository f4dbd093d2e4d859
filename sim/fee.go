// sim/fee.go
package sim

// FeeParams configures the base fee feedback controller.
type FeeParams struct {
	TargetUtilization float64 // utilization the controller steers toward, in (0, 1]
	MaxChangeRate     float64 // largest fractional fee change per step, e.g. 0.125
	MinFee            float64 // floor the fee can never fall below
}

// NextFee computes the next base fee from the previous fee and the bottleneck
// resource's utilization:
//
//	delta   = (maxUtilization - target) / target
//	nextFee = max(minFee, prevFee * (1 + maxChangeRate * delta))
//
// At target utilization the fee is unchanged; at full utilization it rises by
// exactly maxChangeRate when target is 0.5; at zero utilization it falls by
// maxChangeRate, floored at minFee. The controller is pure and keeps no
// memory beyond its numeric inputs, so the fee series replays exactly.
func NextFee(prevFee, maxUtilization float64, p FeeParams) float64 {
	delta := (maxUtilization - p.TargetUtilization) / p.TargetUtilization
	next := prevFee * (1 + p.MaxChangeRate*delta)
	if next < p.MinFee {
		next = p.MinFee
	}
	return next
}
