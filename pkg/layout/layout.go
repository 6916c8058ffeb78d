// Package layout tiles rendered slices across a sheet of fixed width. Each
// model is cut twice: once with slots in the outer edge and once with slots
// in the inner edge. The outer-slotted set fills rows from the top of the
// sheet; the inner-slotted set follows below it.
package layout

import (
	"iter"
	"math"

	"github.com/pkg/errors"

	"github.com/chazu/sliceform/pkg/geom"
	"github.com/chazu/sliceform/pkg/shape"
	"github.com/chazu/sliceform/pkg/slot"
)

// Sheet is the stock the templates are cut from.
type Sheet struct {
	Width   float64 `yaml:"width" json:"width"`
	Spacing float64 `yaml:"spacing" json:"spacing"`
}

// Placement positions one template on the sheet.
type Placement struct {
	Index  int        `json:"index"` // position within its set
	Edge   slot.Edge  `json:"edge"`
	Row    int        `json:"row"`
	Column int        `json:"column"`
	Offset geom.Point `json:"offset"`
}

// Plan is the row layout of count templates per set.
type Plan struct {
	Footprint shape.Footprint
	Sheet     Sheet
	Count     int
	PerRow    int
	Rows      int
}

// NewPlan works out how many templates fit in one row and how many rows
// each set needs. A sheet too narrow for a single template is a
// configuration error.
func NewPlan(fp shape.Footprint, sheet Sheet, count int) (Plan, error) {
	if count <= 0 {
		return Plan{}, errors.Wrapf(slot.ErrInvalidConfig, "template count %d", count)
	}
	if !(sheet.Width > 0) || sheet.Spacing < 0 {
		return Plan{}, errors.Wrapf(slot.ErrInvalidConfig, "sheet width %g spacing %g", sheet.Width, sheet.Spacing)
	}
	if !(fp.FirstWidth > 0) || !(fp.AdditionalWidth > 0) || !(fp.Height > 0) {
		return Plan{}, errors.Wrapf(slot.ErrInvalidConfig, "degenerate footprint %+v", fp)
	}

	var perRow int
	if fp.Nested {
		if fp.FirstWidth <= sheet.Width {
			perRow = 1 + int(math.Floor((sheet.Width-fp.FirstWidth)/(fp.AdditionalWidth+sheet.Spacing)))
		}
	} else {
		perRow = int(math.Floor(sheet.Width / (fp.FirstWidth + sheet.Spacing)))
	}
	if perRow < 1 {
		return Plan{}, errors.Wrapf(slot.ErrInvalidConfig,
			"sheet width %g cannot hold a template %g wide", sheet.Width, fp.FirstWidth)
	}

	return Plan{
		Footprint: fp,
		Sheet:     sheet,
		Count:     count,
		PerRow:    perRow,
		Rows:      (count + perRow - 1) / perRow,
	}, nil
}

// advance is the horizontal step between two templates in a row.
func (p Plan) advance() float64 {
	return p.Footprint.AdditionalWidth + p.Sheet.Spacing
}

// SetHeight is the vertical space taken by one set of templates.
func (p Plan) SetHeight() float64 {
	return float64(p.Rows) * (p.Footprint.Height + p.Sheet.Spacing)
}

// Size is the extent of both sets.
func (p Plan) Size() (w, h float64) {
	cols := min(p.Count, p.PerRow)
	w = float64(cols-1)*p.advance() + p.Footprint.FirstWidth
	h = 2*p.SetHeight() - p.Sheet.Spacing
	return w, h
}

// At returns the placement of template i of the set for edge e.
func (p Plan) At(e slot.Edge, i int) Placement {
	row, col := i/p.PerRow, i%p.PerRow
	y := float64(row) * (p.Footprint.Height + p.Sheet.Spacing)
	if e == slot.Inner {
		y += p.SetHeight()
	}
	return Placement{
		Index:  i,
		Edge:   e,
		Row:    row,
		Column: col,
		Offset: geom.Pt(float64(col)*p.advance(), y),
	}
}

// Placements yields every placement: the outer-slotted set, then the
// inner-slotted set. The sequence can be ranged over any number of times.
func (p Plan) Placements() iter.Seq[Placement] {
	return func(yield func(Placement) bool) {
		for _, e := range slot.Edges {
			for i := 0; i < p.Count; i++ {
				if !yield(p.At(e, i)) {
					return
				}
			}
		}
	}
}
