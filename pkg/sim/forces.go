package sim

import "math"

// link is a resolved spring between two node indices.
type link struct {
	source, target int
	bias           float64 // share of the correction applied to target
	strength       float64
}

// jiggle returns a tiny random offset for separating coincident nodes.
func (s *Simulation) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}

// applyLinks pulls or pushes linked nodes toward LinkDistance. Positions are
// projected by one step of velocity, and the correction is split by degree
// so hubs move less than leaves.
func (s *Simulation) applyLinks(alpha float64) {
	ns := s.nodes
	for _, l := range s.links {
		src, dst := &ns[l.source], &ns[l.target]
		x := dst.X + dst.VX - src.X - src.VX
		y := dst.Y + dst.VY - src.Y - src.VY
		if x == 0 {
			x = s.jiggle()
		}
		if y == 0 {
			y = s.jiggle()
		}
		d := math.Sqrt(x*x + y*y)
		k := (d - s.cfg.LinkDistance) / d * alpha * l.strength
		x, y = x*k, y*k
		dst.VX -= x * l.bias
		dst.VY -= y * l.bias
		src.VX += x * (1 - l.bias)
		src.VY += y * (1 - l.bias)
	}
}

// applyCharge applies the many-body force v += Δ·q·alpha/l² between every
// node pair, exactly below the Barnes-Hut threshold and approximated above.
func (s *Simulation) applyCharge(alpha float64) {
	if len(s.nodes) < 2 {
		return
	}
	if s.barnesHut() {
		s.applyChargeBarnesHut(alpha)
		return
	}
	s.applyChargeNaive(alpha)
}

func (s *Simulation) applyChargeNaive(alpha float64) {
	ns := s.nodes
	for i := range ns {
		for j := range ns {
			if i == j {
				continue
			}
			s.chargePair(&ns[i], ns[j].X-ns[i].X, ns[j].Y-ns[i].Y, 1, alpha)
		}
	}
}

func (s *Simulation) applyChargeBarnesHut(alpha float64) {
	xs, ys := s.scratch()
	for i := range s.nodes {
		xs[i], ys[i] = s.nodes[i].X, s.nodes[i].Y
	}
	tree := newQuadtree(xs, ys)
	theta2 := s.cfg.Theta * s.cfg.Theta

	for i := range s.nodes {
		n := &s.nodes[i]
		tree.visit(func(q *quad) bool {
			if q.count == 0 {
				return true
			}
			x, y := q.cx-n.X, q.cy-n.Y
			w := q.x1 - q.x0
			l := x*x + y*y
			if w*w/theta2 < l {
				s.chargePair(n, x, y, float64(q.count), alpha)
				return true
			}
			if q.internal {
				return false
			}
			for _, j := range q.points {
				if j != i {
					s.chargePair(n, xs[j]-n.X, ys[j]-n.Y, 1, alpha)
				}
			}
			return true
		})
	}
}

// chargePair applies weight units of charge located at offset (x, y) from n.
func (s *Simulation) chargePair(n *Node, x, y, weight, alpha float64) {
	if x == 0 {
		x = s.jiggle()
	}
	if y == 0 {
		y = s.jiggle()
	}
	l := x*x + y*y
	if min2 := s.cfg.ChargeDistanceMin * s.cfg.ChargeDistanceMin; l < min2 {
		l = math.Sqrt(min2 * l)
	}
	k := s.cfg.Charge * weight * alpha / l
	n.VX += x * k
	n.VY += y * k
}

// applyCenter translates all positions so the centroid moves toward the
// center. It shifts positions, not velocities, so it adds no energy.
func (s *Simulation) applyCenter() {
	if len(s.nodes) == 0 {
		return
	}
	var sx, sy float64
	for i := range s.nodes {
		sx += s.nodes[i].X
		sy += s.nodes[i].Y
	}
	n := float64(len(s.nodes))
	sx = (sx/n - s.cx) * s.cfg.CenterStrength
	sy = (sy/n - s.cy) * s.cfg.CenterStrength
	for i := range s.nodes {
		s.nodes[i].X -= sx
		s.nodes[i].Y -= sy
	}
}

// applyCollide separates nodes whose circles overlap, using positions
// projected by one step of velocity.
func (s *Simulation) applyCollide() {
	if len(s.nodes) < 2 {
		return
	}
	xs, ys := s.scratch()
	for i := range s.nodes {
		xs[i] = s.nodes[i].X + s.nodes[i].VX
		ys[i] = s.nodes[i].Y + s.nodes[i].VY
	}
	r := s.cfg.CollideRadius
	reach := 2 * r

	if !s.barnesHut() {
		for i := range s.nodes {
			for j := i + 1; j < len(s.nodes); j++ {
				s.collidePair(i, j, xs[i], ys[i], reach)
			}
		}
		return
	}

	tree := newQuadtree(xs, ys)
	for i := range s.nodes {
		xi, yi := xs[i], ys[i]
		tree.visit(func(q *quad) bool {
			if q.x0 > xi+reach || q.x1 < xi-reach || q.y0 > yi+reach || q.y1 < yi-reach {
				return true
			}
			if q.internal {
				return false
			}
			for _, j := range q.points {
				if j > i {
					s.collidePair(i, j, xi, yi, reach)
				}
			}
			return true
		})
	}
}

// collidePair pushes i and j apart in proportion to their overlap. Radii
// are uniform, so each node takes half the correction.
func (s *Simulation) collidePair(i, j int, xi, yi, reach float64) {
	a, b := &s.nodes[i], &s.nodes[j]
	x := xi - b.X - b.VX
	y := yi - b.Y - b.VY
	l := x*x + y*y
	if l >= reach*reach {
		return
	}
	if x == 0 {
		x = s.jiggle()
		l += x * x
	}
	if y == 0 {
		y = s.jiggle()
		l += y * y
	}
	d := math.Sqrt(l)
	k := (reach - d) / d * s.cfg.CollideStrength
	x, y = x*k*0.5, y*k*0.5
	a.VX += x
	a.VY += y
	b.VX -= x
	b.VY -= y
}

// scratch returns reusable coordinate buffers sized to the node count.
func (s *Simulation) scratch() ([]float64, []float64) {
	if cap(s.xs) < len(s.nodes) {
		s.xs = make([]float64, len(s.nodes))
		s.ys = make([]float64, len(s.nodes))
	}
	return s.xs[:len(s.nodes)], s.ys[:len(s.nodes)]
}
