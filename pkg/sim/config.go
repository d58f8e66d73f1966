package sim

import "math"

// Config holds the force parameters. A zero field selects its default, with
// two exceptions: zero LinkStrength is degree-based and zero Seed is
// time-based. Start from DefaultConfig to get the explorer's values.
type Config struct {
	// LinkDistance is the rest length of the link spring.
	LinkDistance float64
	// LinkStrength scales the spring. Zero selects the degree-based default
	// 1/min(degree(source), degree(target)).
	LinkStrength float64

	// Charge is the many-body strength; negative values repel.
	Charge float64
	// ChargeDistanceMin bounds the squared distance from below to keep the
	// force finite for near-coincident nodes.
	ChargeDistanceMin float64

	CollideRadius   float64
	CollideStrength float64

	// CenterStrength is the fraction of the centroid offset removed per tick.
	CenterStrength float64

	// Friction is the fraction of velocity kept after each tick.
	Friction float64

	AlphaDecay float64
	AlphaMin   float64

	// BarnesHutThreshold is the node count at which many-body and collision
	// forces switch from pairwise evaluation to the quadtree.
	BarnesHutThreshold int
	// Theta is the Barnes-Hut accuracy parameter. Smaller is more exact.
	Theta float64

	// Jitter is the radius of the random offset used when placing a node
	// whose coordinates became non-finite.
	Jitter float64

	Seed uint64
}

// DefaultAlphaDecay makes alpha fall from 1 to AlphaMin in about 300 ticks.
var DefaultAlphaDecay = 1 - math.Pow(0.001, 1.0/300)

// DefaultConfig returns the explorer's force parameters.
func DefaultConfig() Config {
	return Config{
		LinkDistance:       80,
		LinkStrength:       0.6,
		Charge:             -250,
		ChargeDistanceMin:  1,
		CollideRadius:      24,
		CollideStrength:    1,
		CenterStrength:     1,
		Friction:           0.6,
		AlphaDecay:         DefaultAlphaDecay,
		AlphaMin:           0.001,
		BarnesHutThreshold: 500,
		Theta:              0.9,
		Jitter:             5,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.LinkDistance <= 0 {
		c.LinkDistance = d.LinkDistance
	}
	if c.LinkStrength < 0 {
		c.LinkStrength = d.LinkStrength
	}
	if c.Charge == 0 {
		c.Charge = d.Charge
	}
	if c.ChargeDistanceMin <= 0 {
		c.ChargeDistanceMin = d.ChargeDistanceMin
	}
	if c.CollideRadius <= 0 {
		c.CollideRadius = d.CollideRadius
	}
	if c.CollideStrength <= 0 {
		c.CollideStrength = d.CollideStrength
	}
	if c.CenterStrength <= 0 {
		c.CenterStrength = d.CenterStrength
	}
	if c.Friction <= 0 || c.Friction >= 1 {
		c.Friction = d.Friction
	}
	if c.AlphaDecay <= 0 || c.AlphaDecay >= 1 {
		c.AlphaDecay = d.AlphaDecay
	}
	if c.AlphaMin <= 0 {
		c.AlphaMin = d.AlphaMin
	}
	if c.BarnesHutThreshold <= 0 {
		c.BarnesHutThreshold = d.BarnesHutThreshold
	}
	if c.Theta <= 0 {
		c.Theta = d.Theta
	}
	if c.Jitter <= 0 {
		c.Jitter = d.Jitter
	}
	return c
}
