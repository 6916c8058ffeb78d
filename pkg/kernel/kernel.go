// Package kernel defines the planar geometry kernel used to measure laid-out
// slices. Implementations (sdfx) turn flattened outlines into regions that
// can be moved, combined and measured behind this interface.
package kernel

// Region is an opaque handle to a kernel region.
// Implementations wrap their internal representation.
type Region interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [2]float64)

	// Contains reports whether (x, y) lies strictly inside the region.
	Contains(x, y float64) bool
}

// Kernel is the abstract planar geometry kernel interface.
type Kernel interface {
	// Primitives
	Polygon(p *Polyline) (Region, error)
	Rect(w, h float64) (Region, error) // min corner at the origin

	// Boolean operations
	Union(a, b Region) Region
	Difference(a, b Region) Region
	Intersection(a, b Region) Region

	// Transforms
	Translate(r Region, x, y float64) Region

	// Measurement
	Area(r Region) float64
}
