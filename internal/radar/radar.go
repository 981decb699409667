// Package radar derives polar coordinates for radar chart series.
package radar

import "math"

// Point is one projected series value.
type Point struct {
	Category string  `json:"category"`
	Angle    float64 `json:"angle"`
	Radius   float64 `json:"radius"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// AxisAngle is the angle of axis i out of n. Axis 0 points straight up.
func AxisAngle(i, n int) float64 {
	return float64(i)*2*math.Pi/float64(n) - math.Pi/2
}

// Project places each value of series on its axis. Only categories present
// in series are projected, in axis order, each at its own axis angle so a
// missing category leaves a gap rather than shifting the others. A
// non-positive maxValue projects everything at the centre.
func Project(axes []string, series map[string]float64, maxValue, outerRadius float64) []Point {
	n := len(axes)
	out := make([]Point, 0, len(series))
	for i, cat := range axes {
		v, ok := series[cat]
		if !ok {
			continue
		}
		angle := AxisAngle(i, n)
		var radius float64
		if maxValue > 0 {
			radius = v / maxValue * outerRadius
		}
		out = append(out, Point{
			Category: cat,
			Angle:    angle,
			Radius:   radius,
			X:        radius * math.Cos(angle),
			Y:        radius * math.Sin(angle),
		})
	}
	return out
}

// MaxAcross returns the largest value across all series, or 1 when none is
// positive.
func MaxAcross(series ...map[string]float64) float64 {
	max := 0.0
	for _, s := range series {
		for _, v := range s {
			if v > max {
				max = v
			}
		}
	}
	if max <= 0 {
		return 1
	}
	return max
}

// Grid returns the radii of levels evenly spaced rings out to outerRadius.
func Grid(levels int, outerRadius float64) []float64 {
	if levels <= 0 {
		return nil
	}
	out := make([]float64, levels)
	for i := range out {
		out[i] = outerRadius * float64(i+1) / float64(levels)
	}
	return out
}

// AxisEnd returns the outer endpoint of axis i out of n at radius r.
func AxisEnd(i, n int, r float64) (x, y float64) {
	a := AxisAngle(i, n)
	return r * math.Cos(a), r * math.Sin(a)
}
