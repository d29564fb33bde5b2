package treemap

import "math"

// squarify peels rows of areas onto the shorter side of r, emitting one
// rectangle per area through place. Areas must be positive and already
// normalized to sum to r's area; the caller's order is the layout order.
func squarify(areas []float64, r Rect, place func(i int, rc Rect)) {
	i := 0
	for i < len(areas) {
		fixed := math.Min(r.W, r.H)

		start := i
		sum := areas[i]
		lo, hi := areas[i], areas[i]
		i++
		// Grow the row while the worst aspect ratio does not get worse;
		// ties grow, so equal-ratio members share a strip.
		for i < len(areas) {
			nsum := sum + areas[i]
			nlo := math.Min(lo, areas[i])
			nhi := math.Max(hi, areas[i])
			if worst(sum, lo, hi, fixed) < worst(nsum, nlo, nhi, fixed) {
				break
			}
			sum, lo, hi = nsum, nlo, nhi
			i++
		}

		r = layRow(areas[start:i], sum, r, start, place)
	}
}

// worst is the highest aspect ratio any member of a row takes when the
// row, of total area sum with extreme member areas lo and hi, is laid
// against a fixed side of length w. The extremes decide it: the
// smallest member is the most elongated one way, the largest the other.
func worst(sum, lo, hi, w float64) float64 {
	s2 := sum * sum
	w2 := w * w
	return math.Max(s2/(w2*lo), w2*hi/s2)
}

// layRow subdivides one strip of r proportionally to areas and returns
// the rectangle left over. The strip is a column on the left edge when
// r is at least as wide as tall, otherwise a band along the top edge.
func layRow(areas []float64, sum float64, r Rect, base int, place func(int, Rect)) Rect {
	if r.W >= r.H {
		thick := sum / r.H
		y := r.Y
		for j, a := range areas {
			h := a / thick
			place(base+j, Rect{X: r.X, Y: y, W: thick, H: h})
			y += h
		}
		return Rect{X: r.X + thick, Y: r.Y, W: r.W - thick, H: r.H}
	}

	thick := sum / r.W
	x := r.X
	for j, a := range areas {
		w := a / thick
		place(base+j, Rect{X: x, Y: r.Y, W: w, H: thick})
		x += w
	}
	return Rect{X: r.X, Y: r.Y + thick, W: r.W, H: r.H - thick}
}
