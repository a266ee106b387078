// Package geo measures polygons.
package geo

// Polygon is a closed path.
type Polygon struct {
	// Points holds the corners in order.
	Points []float64
}

// Perimeter returns the length of the path.
func Perimeter(p Polygon) float64 {
	var total float64
	for _, v := range p.Points {
		total += v
	}
	return total
}
