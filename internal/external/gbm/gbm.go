// Package gbm sketches an independent geometric Brownian motion price
// path generator — an alternative reference price feed a caller can
// compare a simulated book's last-traded price against, separate from
// the matching engine's own price discovery.
package gbm

import "math"

// Generator produces a daily GBM price path seeded from an initial
// price, annualized drift, and annualized volatility.
type Generator struct {
	initial, current  float64
	drift, volatility float64
	haveSpare         bool
	spare             float64
	next              func() float64
}

// New builds a generator whose random shocks come from nextUniform,
// a caller-supplied source of independent Uniform(0,1) draws. Plugging
// in the source keeps this package free of global RNG state.
func New(initialPrice, drift, volatility float64, nextUniform func() float64) *Generator {
	return &Generator{
		initial:    initialPrice,
		current:    initialPrice,
		drift:      drift,
		volatility: volatility,
		next:       nextUniform,
	}
}

// Step advances the path by one trading day and returns the new price.
func (g *Generator) Step() float64 {
	const tradingDaysPerYear = 252.0
	dailyDrift := g.drift / tradingDaysPerYear
	dailyVol := g.volatility / math.Sqrt(tradingDaysPerYear)

	shock := g.standardNormal()
	g.current *= math.Exp((dailyDrift-0.5*dailyVol*dailyVol) + dailyVol*shock)
	return g.current
}

// CurrentPrice returns the most recently generated price.
func (g *Generator) CurrentPrice() float64 { return g.current }

// Reset returns the path to its initial price.
func (g *Generator) Reset() {
	g.current = g.initial
	g.haveSpare = false
}

// standardNormal draws N(0,1) via the Box-Muller transform, caching the
// second of each generated pair.
func (g *Generator) standardNormal() float64 {
	if g.haveSpare {
		g.haveSpare = false
		return g.spare
	}
	u1 := math.Max(g.next(), 1e-12)
	u2 := g.next()
	mag := math.Sqrt(-2 * math.Log(u1))
	g.spare = mag * math.Sin(2*math.Pi*u2)
	g.haveSpare = true
	return mag * math.Cos(2*math.Pi*u2)
}
