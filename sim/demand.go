// sim/demand.go
package sim

import "math"

// MaxPriceEffect caps the demand amplification from a collapsing price.
// At currentPrice = 0 the price-response term would otherwise be infinite;
// it saturates here instead, representing elasticity's maximum effect.
const MaxPriceEffect = 10.0

// DemandParams holds the knobs shared by all categories' demand curves.
type DemandParams struct {
	BaselineFee     float64 // fee at which the price-response term equals 1
	VolatilityOmega float64 // sine frequency, radians per simulated second
}

// Demand maps (category, time, price) to the category's unconstrained desired
// transaction rate. Pure and deterministic: identical inputs always produce
// identical output, which the replay tests rely on.
//
// desiredRate = baseDemand * volatilityFactor * multiplier * priceEffect
//
// The volatility factor 1 + sin(t*omega)*volatility is clamped at 0 so the
// trough of a fully volatile category never drives demand negative. The price
// effect (baselineFee/price)^elasticity shrinks demand when the fee runs above
// baseline and amplifies it below, saturating at MaxPriceEffect.
func Demand(cat TxCategory, timestamp, currentPrice, multiplier float64, p DemandParams) float64 {
	volatilityFactor := 1 + math.Sin(timestamp*p.VolatilityOmega)*cat.DemandVolatility
	if volatilityFactor < 0 {
		volatilityFactor = 0
	}

	priceEffect := MaxPriceEffect
	if currentPrice > 0 {
		priceEffect = math.Pow(p.BaselineFee/currentPrice, cat.PriceElasticity)
		if priceEffect > MaxPriceEffect {
			priceEffect = MaxPriceEffect
		}
	}

	desired := cat.BaseDemand * volatilityFactor * multiplier * priceEffect
	if desired < 0 {
		desired = 0
	}
	return desired
}
