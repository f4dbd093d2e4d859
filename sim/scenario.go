// sim/scenario.go
package sim

import (
	"fmt"
	"math"
	"sort"
)

// Scenario supplies a time-varying demand multiplier. The engine only reads
// Multiplier; how the curve is produced (built-in shape or piecewise custom)
// is the driver's concern.
type Scenario struct {
	Name       string
	multiplier func(u float64) float64
}

// Multiplier returns the demand multiplier at normalized time u. The input is
// clamped to [0,1] and the output floored at 0, so a sloppy custom curve can
// never feed negative demand into the engine.
func (s Scenario) Multiplier(normalizedTime float64) float64 {
	u := normalizedTime
	if u < 0 {
		u = 0
	} else if u > 1 {
		u = 1
	}
	m := s.multiplier(u)
	if m < 0 {
		m = 0
	}
	return m
}

// Built-in scenario shapes. The spike models a mint-rush burst: a short
// gaussian pulse on top of a quiet baseline.
var builtinScenarios = map[string]func(u float64) float64{
	"steady": func(u float64) float64 { return 1.0 },
	"ramp":   func(u float64) float64 { return 0.5 + 1.5*u },
	"spike": func(u float64) float64 {
		d := (u - 0.5) / 0.08
		return 0.8 + 3.2*math.Exp(-d*d)
	},
	"daily-cycle": func(u float64) float64 { return 1 + 0.6*math.Sin(2*math.Pi*u) },
}

// ScenarioNames lists the built-in scenarios in sorted order, for CLI help.
func ScenarioNames() []string {
	names := make([]string, 0, len(builtinScenarios))
	for name := range builtinScenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ScenarioByName returns a built-in scenario. An unknown name is a
// configuration error, not a fallback to steady.
func ScenarioByName(name string) (Scenario, error) {
	fn, ok := builtinScenarios[name]
	if !ok {
		return Scenario{}, fmt.Errorf("unknown scenario %q (built-ins: %v)", name, ScenarioNames())
	}
	return Scenario{Name: name, multiplier: fn}, nil
}

// ScenarioPoint is one breakpoint of a piecewise-linear custom scenario.
type ScenarioPoint struct {
	Time       float64 // normalized time in [0,1], strictly increasing across points
	Multiplier float64 // demand multiplier, >= 0
}

// PiecewiseScenario builds a custom scenario by linear interpolation between
// breakpoints. Before the first point the first multiplier holds; after the
// last point the last one does.
func PiecewiseScenario(name string, points []ScenarioPoint) (Scenario, error) {
	if len(points) == 0 {
		return Scenario{}, fmt.Errorf("scenario %q: no breakpoints", name)
	}
	for i, p := range points {
		if p.Time < 0 || p.Time > 1 {
			return Scenario{}, fmt.Errorf("scenario %q: breakpoint %d time %v outside [0,1]", name, i, p.Time)
		}
		if p.Multiplier < 0 {
			return Scenario{}, fmt.Errorf("scenario %q: breakpoint %d multiplier %v is negative", name, i, p.Multiplier)
		}
		if i > 0 && p.Time <= points[i-1].Time {
			return Scenario{}, fmt.Errorf("scenario %q: breakpoint times must be strictly increasing", name)
		}
	}
	pts := make([]ScenarioPoint, len(points))
	copy(pts, points)
	return Scenario{
		Name: name,
		multiplier: func(u float64) float64 {
			if u <= pts[0].Time {
				return pts[0].Multiplier
			}
			if u >= pts[len(pts)-1].Time {
				return pts[len(pts)-1].Multiplier
			}
			for i := 1; i < len(pts); i++ {
				if u <= pts[i].Time {
					span := pts[i].Time - pts[i-1].Time
					frac := (u - pts[i-1].Time) / span
					return pts[i-1].Multiplier + frac*(pts[i].Multiplier-pts[i-1].Multiplier)
				}
			}
			return pts[len(pts)-1].Multiplier
		},
	}, nil
}
