package board

import "github.com/domino14/slide2048/transform"

// Transform applies one of the eight grid symmetries.
func (b Board) Transform(t transform.Transform) Board {
	return Board(t.Apply(uint64(b)))
}

func (b Board) Identity() Board  { return b }
func (b Board) Rotate90() Board  { return b.Transform(transform.Rotate90) }
func (b Board) Rotate180() Board { return b.Transform(transform.Rotate180) }
func (b Board) Rotate270() Board { return b.Transform(transform.Rotate270) }
func (b Board) ReflectH() Board  { return b.Transform(transform.ReflectH) }
func (b Board) ReflectV() Board  { return b.Transform(transform.ReflectV) }
func (b Board) ReflectTL() Board { return b.Transform(transform.ReflectTL) }
func (b Board) ReflectTR() Board { return b.Transform(transform.ReflectTR) }

// Orbit returns the image of b under every transform, in transform.All order.
func (b Board) Orbit() [8]Board {
	var o [8]Board
	for i, t := range transform.All {
		o[i] = b.Transform(t)
	}
	return o
}
