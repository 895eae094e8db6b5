package geo

// SignedArea returns the signed area of a closed ring via the shoelace
// formula. Positive for counter-clockwise winding.
func SignedArea(ring []XY) float64 {
	if len(ring) < 3 {
		return 0
	}
	sum := 0.0
	for i := range ring {
		j := (i + 1) % len(ring)
		sum += ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
	}
	return sum / 2
}

// Centroid returns the area centroid of a closed ring. Degenerate rings
// (near-zero area) fall back to the vertex mean.
func Centroid(ring []XY) XY {
	area := SignedArea(ring)
	if area > -1e-9 && area < 1e-9 {
		var mean XY
		if len(ring) == 0 {
			return mean
		}
		for _, p := range ring {
			mean.X += p.X
			mean.Y += p.Y
		}
		mean.X /= float64(len(ring))
		mean.Y /= float64(len(ring))
		return mean
	}

	var cx, cy float64
	for i := range ring {
		j := (i + 1) % len(ring)
		cross := ring[i].X*ring[j].Y - ring[j].X*ring[i].Y
		cx += (ring[i].X + ring[j].X) * cross
		cy += (ring[i].Y + ring[j].Y) * cross
	}
	return XY{X: cx / (6 * area), Y: cy / (6 * area)}
}

// Contains reports whether p lies inside the ring, via ray casting. Points
// exactly on an edge may land either way; the assignment pipeline treats
// that as acceptable noise.
func Contains(ring []XY, p XY) bool {
	inside := false
	for i := range ring {
		j := (i + len(ring) - 1) % len(ring)
		a, b := ring[i], ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			atX := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < atX {
				inside = !inside
			}
		}
	}
	return inside
}

// BoundingBox returns the min and max corners of a ring.
func BoundingBox(ring []XY) (min, max XY) {
	if len(ring) == 0 {
		return
	}
	min, max = ring[0], ring[0]
	for _, p := range ring[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return
}
