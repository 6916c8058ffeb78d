package kernel

// Polyline is a closed outline flattened to straight segments.
// Points is flat: two floats per vertex (x, y). The closing segment from the
// last vertex back to the first is implied.
type Polyline struct {
	Points   []float64 `json:"points"`   // [x0,y0, x1,y1, ...]
	PartName string    `json:"partName"` // which slice this came from
}

// Append adds a vertex.
func (p *Polyline) Append(x, y float64) {
	p.Points = append(p.Points, x, y)
}

// At returns vertex i.
func (p *Polyline) At(i int) (x, y float64) {
	return p.Points[2*i], p.Points[2*i+1]
}

// VertexCount returns the number of vertices.
func (p *Polyline) VertexCount() int {
	return len(p.Points) / 2
}

// IsEmpty returns true if the polyline has no vertices.
func (p *Polyline) IsEmpty() bool {
	return len(p.Points) == 0
}
