package geometry

import "github.com/paulmach/orb"

// clipRingToConvex clips a subject ring against a convex counterclockwise ring
// using the Sutherland-Hodgman algorithm. Both rings are open vertex lists
// (no repeated closing vertex). Returns nil when the intersection is empty.
func clipRingToConvex(subject, clip []orb.Point) []orb.Point {
	output := subject

	for i := 0; i < len(clip); i++ {
		if len(output) == 0 {
			return nil
		}

		a := clip[i]
		b := clip[(i+1)%len(clip)]

		input := output
		output = nil

		for j := 0; j < len(input); j++ {
			cur := input[j]
			prev := input[(j+len(input)-1)%len(input)]

			curInside := cross(a, b, cur) >= 0
			prevInside := cross(a, b, prev) >= 0

			switch {
			case curInside && prevInside:
				output = append(output, cur)
			case curInside && !prevInside:
				output = append(output, lineIntersection(prev, cur, a, b), cur)
			case !curInside && prevInside:
				output = append(output, lineIntersection(prev, cur, a, b))
			}
		}
	}

	if len(output) < 3 {
		return nil
	}
	return output
}

// cross returns the z component of (b-a) x (p-a). Positive means p is left of a->b.
func cross(a, b, p orb.Point) float64 {
	return (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
}

// lineIntersection returns the intersection of segment p1->p2 with the infinite
// line through a->b. Callers only invoke it when the segment crosses the line.
func lineIntersection(p1, p2, a, b orb.Point) orb.Point {
	d1 := cross(a, b, p1)
	d2 := cross(a, b, p2)
	t := d1 / (d1 - d2)
	return orb.Point{
		p1[0] + t*(p2[0]-p1[0]),
		p1[1] + t*(p2[1]-p1[1]),
	}
}
