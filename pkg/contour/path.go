// Package contour assembles slot intersections into closed slice outlines.
//
// A Path is an ordered list of drawing commands in a slice's local frame:
// absolute moves, lines and elliptical arcs, a relative vertical line and a
// close. Paths render to SVG path data and are flattened to polylines by the
// tessellate package.
package contour

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chazu/sliceform/pkg/geom"
)

// Op identifies a path command.
type Op int

const (
	OpMove     Op = iota // absolute move
	OpLine               // absolute line
	OpVLineRel           // vertical line relative to the pen
	OpArc                // absolute elliptical arc
	OpClose              // close the subpath
)

func (o Op) String() string {
	switch o {
	case OpMove:
		return "move"
	case OpLine:
		return "line"
	case OpVLineRel:
		return "vline-rel"
	case OpArc:
		return "arc"
	case OpClose:
		return "close"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// ArcSize selects between the two arcs joining the same endpoints.
type ArcSize int

const (
	Small ArcSize = iota
	Large
)

// Winding is the drawing direction of an arc in display coordinates, where
// the y-axis points down.
type Winding int

const (
	CW Winding = iota
	CCW
)

// Command is one drawing step.
type Command struct {
	Op      Op
	To      geom.Point // target of move, line and arc
	DY      float64    // offset of a relative vertical line
	RX, RY  float64    // arc radii
	Size    ArcSize
	Winding Winding
}

// Path is a sequence of drawing commands.
type Path struct {
	Commands []Command
}

// NewPath returns a path starting with a move to start.
func NewPath(start geom.Point) *Path {
	p := &Path{}
	p.MoveTo(start)
	return p
}

// MoveTo starts a new subpath at pt.
func (p *Path) MoveTo(pt geom.Point) {
	p.Commands = append(p.Commands, Command{Op: OpMove, To: pt})
}

// LineTo draws a straight line to pt.
func (p *Path) LineTo(pt geom.Point) {
	p.Commands = append(p.Commands, Command{Op: OpLine, To: pt})
}

// VLineRel draws a vertical line dy units from the pen.
func (p *Path) VLineRel(dy float64) {
	p.Commands = append(p.Commands, Command{Op: OpVLineRel, DY: dy})
}

// ArcTo draws an elliptical arc with radii (rx, ry) to pt.
func (p *Path) ArcTo(rx, ry float64, size ArcSize, w Winding, pt geom.Point) {
	p.Commands = append(p.Commands, Command{
		Op: OpArc, To: pt, RX: rx, RY: ry, Size: size, Winding: w,
	})
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.Commands = append(p.Commands, Command{Op: OpClose})
}

// Len returns the number of commands.
func (p *Path) Len() int {
	return len(p.Commands)
}

// Closed reports whether the last command closes the path.
func (p *Path) Closed() bool {
	return len(p.Commands) > 0 && p.Commands[len(p.Commands)-1].Op == OpClose
}

// Vertices returns the pen position after every command that moves the pen,
// resolving relative lines. Arc interiors are not included.
func (p *Path) Vertices() []geom.Point {
	var pts []geom.Point
	var pen, start geom.Point
	for _, c := range p.Commands {
		switch c.Op {
		case OpMove:
			pen, start = c.To, c.To
		case OpLine, OpArc:
			pen = c.To
		case OpVLineRel:
			pen = geom.Translate(pen, 0, c.DY)
		case OpClose:
			pen = start
			continue
		}
		pts = append(pts, pen)
	}
	return pts
}

// Translate returns a copy of the path moved by d.
func (p *Path) Translate(d geom.Point) *Path {
	out := &Path{Commands: make([]Command, len(p.Commands))}
	for i, c := range p.Commands {
		if c.Op != OpVLineRel && c.Op != OpClose {
			c.To = c.To.Add(d)
		}
		out.Commands[i] = c
	}
	return out
}

// ---------------------------------------------------------------------------
// SVG path data
// ---------------------------------------------------------------------------

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func pt(p geom.Point) string {
	return num(p.X) + "," + num(p.Y)
}

// SVG renders the path as an SVG path data string.
func (p *Path) SVG() string {
	var sb strings.Builder
	for i, c := range p.Commands {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch c.Op {
		case OpMove:
			sb.WriteString("M " + pt(c.To))
		case OpLine:
			sb.WriteString("L " + pt(c.To))
		case OpVLineRel:
			sb.WriteString("v " + num(c.DY))
		case OpArc:
			large, sweep := 0, 0
			if c.Size == Large {
				large = 1
			}
			if c.Winding == CW {
				sweep = 1
			}
			fmt.Fprintf(&sb, "A %s,%s 0 %d,%d %s", num(c.RX), num(c.RY), large, sweep, pt(c.To))
		case OpClose:
			sb.WriteString("Z")
		}
	}
	return sb.String()
}

func (p *Path) String() string {
	return p.SVG()
}
