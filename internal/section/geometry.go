package section

import (
	"math"
	"sort"
)

// Vertices returns the section outline counter-clockwise from the
// bottom-left corner of the web, with the flange (if any) centred on top.
func (g Geometry) Vertices() []Point {
	if !g.IsFlanged() {
		return []Point{
			{X: 0, Y: 0},
			{X: g.Width, Y: 0},
			{X: g.Width, Y: g.Depth},
			{X: 0, Y: g.Depth},
		}
	}
	overhang := (g.FlangeWidth - g.Width) / 2
	webTop := g.Depth - g.FlangeThickness
	return []Point{
		{X: 0, Y: 0},
		{X: g.Width, Y: 0},
		{X: g.Width, Y: webTop},
		{X: g.Width + overhang, Y: webTop},
		{X: g.Width + overhang, Y: g.Depth},
		{X: -overhang, Y: g.Depth},
		{X: -overhang, Y: webTop},
		{X: 0, Y: webTop},
	}
}

// Properties computes gross geometric properties of the section
func (g Geometry) Properties() Properties {
	pts := g.Vertices()
	props := Properties{Height: g.Depth, Width: g.Width}
	if g.IsFlanged() {
		props.Width = g.FlangeWidth
	}

	var area, cy float64
	area, _, cy = areaAndCentroid(pts)
	props.Area = area
	props.CentroidY = cy

	// Second moment about the X axis, then shift to the centroid
	ix := secondMomentX(pts)
	props.Inertia = ix - area*cy*cy

	return props
}

// areaAndCentroid uses the shoelace formula
func areaAndCentroid(pts []Point) (area, cx, cy float64) {
	n := len(pts)
	if n < 3 {
		return 0, 0, 0
	}

	var signedArea float64
	var sumX, sumY float64

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
		signedArea += cross
		sumX += (pts[i].X + pts[j].X) * cross
		sumY += (pts[i].Y + pts[j].Y) * cross
	}

	signedArea /= 2
	area = math.Abs(signedArea)

	if area > 0 {
		cx = sumX / (6 * signedArea)
		cy = sumY / (6 * signedArea)
	}

	return area, cx, cy
}

// secondMomentX returns Ix about the global X axis (y = 0)
func secondMomentX(pts []Point) float64 {
	n := len(pts)
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
		sum += cross * (pts[i].Y*pts[i].Y + pts[i].Y*pts[j].Y + pts[j].Y*pts[j].Y)
	}
	return math.Abs(sum / 12)
}

// WidthAtDepth returns the total solid width at a depth below the
// compression face, zero outside the section.
func (g Geometry) WidthAtDepth(depthFromTop float64) float64 {
	xs := Crossings(g.Vertices(), g.Depth-depthFromTop)
	var w float64
	for i := 0; i+1 < len(xs); i += 2 {
		w += xs[i+1] - xs[i]
	}
	return w
}

// Crossings returns the sorted X coordinates where the horizontal line at
// y crosses the outline. Pairs of crossings bound the solid parts.
func Crossings(pts []Point, y float64) []float64 {
	var xs []float64
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		if (a.Y <= y) == (b.Y <= y) {
			continue
		}
		t := (y - a.Y) / (b.Y - a.Y)
		xs = append(xs, a.X+t*(b.X-a.X))
	}
	sort.Float64s(xs)
	return xs
}
