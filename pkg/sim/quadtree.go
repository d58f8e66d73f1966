package sim

import "math"

// maxQuadDepth stops subdivision for clusters of nearly coincident points.
const maxQuadDepth = 32

// quad is one cell of a point-region quadtree. Leaves hold point indices;
// internal cells hold up to four children. count, cx and cy aggregate the
// points below the cell for the Barnes-Hut approximation.
type quad struct {
	x0, y0, x1, y1 float64
	children       [4]*quad
	internal       bool
	points         []int

	count  int
	cx, cy float64
}

type quadtree struct {
	root   *quad
	xs, ys []float64
}

// newQuadtree indexes the finite points of xs/ys. The root is a square
// covering every point so all cells stay square.
func newQuadtree(xs, ys []float64) *quadtree {
	t := &quadtree{xs: xs, ys: ys}
	x0, y0 := math.Inf(1), math.Inf(1)
	x1, y1 := math.Inf(-1), math.Inf(-1)
	for i := range xs {
		if !finite(xs[i]) || !finite(ys[i]) {
			continue
		}
		x0, y0 = math.Min(x0, xs[i]), math.Min(y0, ys[i])
		x1, y1 = math.Max(x1, xs[i]), math.Max(y1, ys[i])
	}
	if x0 > x1 {
		return t
	}
	size := math.Max(math.Max(x1-x0, y1-y0), 1)
	t.root = &quad{x0: x0, y0: y0, x1: x0 + size, y1: y0 + size}
	for i := range xs {
		if finite(xs[i]) && finite(ys[i]) {
			t.insert(t.root, i, 0)
		}
	}
	t.accumulate(t.root)
	return t
}

func (t *quadtree) insert(q *quad, i, depth int) {
	if !q.internal {
		if len(q.points) == 0 || depth >= maxQuadDepth || t.coincident(q.points[0], i) {
			q.points = append(q.points, i)
			return
		}
		existing := q.points
		q.points = nil
		q.internal = true
		for _, j := range existing {
			t.insert(t.child(q, j), j, depth+1)
		}
	}
	t.insert(t.child(q, i), i, depth+1)
}

func (t *quadtree) coincident(i, j int) bool {
	return t.xs[i] == t.xs[j] && t.ys[i] == t.ys[j]
}

// child returns the quadrant of q containing point i, creating it on demand.
func (t *quadtree) child(q *quad, i int) *quad {
	mx, my := (q.x0+q.x1)/2, (q.y0+q.y1)/2
	k := 0
	if t.xs[i] >= mx {
		k |= 1
	}
	if t.ys[i] >= my {
		k |= 2
	}
	if q.children[k] == nil {
		c := &quad{x0: q.x0, y0: q.y0, x1: mx, y1: my}
		if k&1 != 0 {
			c.x0, c.x1 = mx, q.x1
		}
		if k&2 != 0 {
			c.y0, c.y1 = my, q.y1
		}
		q.children[k] = c
	}
	return q.children[k]
}

// accumulate computes the point count and centroid of every cell. Charges
// are uniform, so the charge-weighted centroid is the plain mean.
func (t *quadtree) accumulate(q *quad) {
	if !q.internal {
		for _, i := range q.points {
			q.cx += t.xs[i]
			q.cy += t.ys[i]
		}
		q.count = len(q.points)
	} else {
		for _, c := range q.children {
			if c == nil {
				continue
			}
			t.accumulate(c)
			q.cx += c.cx * float64(c.count)
			q.cy += c.cy * float64(c.count)
			q.count += c.count
		}
	}
	if q.count > 0 {
		q.cx /= float64(q.count)
		q.cy /= float64(q.count)
	}
}

// visit calls fn for every cell in pre-order. Returning true skips the
// children of that cell.
func (t *quadtree) visit(fn func(q *quad) bool) {
	if t.root == nil {
		return
	}
	var walk func(q *quad)
	walk = func(q *quad) {
		if fn(q) || !q.internal {
			return
		}
		for _, c := range q.children {
			if c != nil {
				walk(c)
			}
		}
	}
	walk(t.root)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
