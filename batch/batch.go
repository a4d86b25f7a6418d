// Package batch runs board operations over groups of 1, 2, 4 or 8 boards.
// Lanes never interact: lane i of any result is the single-board operation
// applied to lane i.
package batch

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/slide2048/board"
	"github.com/domino14/slide2048/transform"
)

const MaxLanes = 8

// ValidWidth reports whether n is a supported lane count.
func ValidWidth(n int) bool {
	return n == 1 || n == 2 || n == 4 || n == 8
}

// A Batch is a value holding Width() boards. Lanes past the width are always
// zero.
type Batch struct {
	n     int
	tiles [MaxLanes]uint64
}

func checkWidth(n int) {
	if !ValidWidth(n) {
		panic(fmt.Sprintf("batch: unsupported width %d", n))
	}
}

// New returns an all-empty batch of the given width.
func New(width int) Batch {
	checkWidth(width)
	return Batch{n: width}
}

// Load copies boards into a batch as wide as the slice.
func Load(boards []board.Board) Batch {
	checkWidth(len(boards))
	b := Batch{n: len(boards)}
	for i, x := range boards {
		b.tiles[i] = uint64(x)
	}
	return b
}

// Store copies the lanes into dst, which must hold at least Width() boards.
func (b Batch) Store(dst []board.Board) {
	if len(dst) < b.n {
		panic(fmt.Sprintf("batch: store into %d boards, need %d", len(dst), b.n))
	}
	for i := 0; i < b.n; i++ {
		dst[i] = board.Board(b.tiles[i])
	}
}

// Boards returns the lanes as a new slice.
func (b Batch) Boards() []board.Board {
	out := make([]board.Board, b.n)
	b.Store(out)
	return out
}

func (b Batch) Width() int {
	return b.n
}

func (b Batch) checkLane(i int) {
	if i < 0 || i >= b.n {
		panic(fmt.Sprintf("batch: lane %d out of range for width %d", i, b.n))
	}
}

func (b Batch) Lane(i int) board.Board {
	b.checkLane(i)
	return board.Board(b.tiles[i])
}

// WithLane returns a copy of b with lane i replaced.
func (b Batch) WithLane(i int, x board.Board) Batch {
	b.checkLane(i)
	b.tiles[i] = uint64(x)
	return b
}

func (b *Batch) lanes() []uint64 {
	return b.tiles[:b.n]
}

// Transform applies t to every lane.
func (b Batch) Transform(t transform.Transform) Batch {
	out := Batch{n: b.n}
	Active().Permute(out.lanes(), b.lanes(), t)
	return out
}

func (b Batch) Identity() Batch  { return b }
func (b Batch) Rotate90() Batch  { return b.Transform(transform.Rotate90) }
func (b Batch) Rotate180() Batch { return b.Transform(transform.Rotate180) }
func (b Batch) Rotate270() Batch { return b.Transform(transform.Rotate270) }
func (b Batch) ReflectH() Batch  { return b.Transform(transform.ReflectH) }
func (b Batch) ReflectV() Batch  { return b.Transform(transform.ReflectV) }
func (b Batch) ReflectTL() Batch { return b.Transform(transform.ReflectTL) }
func (b Batch) ReflectTR() Batch { return b.Transform(transform.ReflectTR) }

// Move slides every lane in direction d. Bit i of changed is set iff lane i
// changed.
func (b Batch) Move(d board.Direction) (Batch, uint8) {
	be := Active()
	out := Batch{n: b.n}
	dst := out.lanes()
	to, back := d.Orientation()
	if to == transform.Identity {
		be.MoveRight(dst, b.lanes())
	} else {
		be.Permute(dst, b.lanes(), to)
		be.MoveRight(dst, dst)
		be.Permute(dst, dst, back)
	}
	return out, changedMask(b, out)
}

func changedMask(before, after Batch) uint8 {
	var m uint8
	for i := 0; i < before.n; i++ {
		if before.tiles[i] != after.tiles[i] {
			m |= 1 << i
		}
	}
	return m
}

// Canonical replaces every lane with its canonical form.
func (b Batch) Canonical() Batch {
	out := Batch{n: b.n}
	Active().Canonical(out.lanes(), b.lanes())
	return out
}

// InsertRandomTiles spawns a tile in each lane, in lane order. Bit i of ok is
// set iff lane i had an empty cell.
func (b Batch) InsertRandomTiles(src board.Source) (Batch, uint8) {
	var ok uint8
	for i := 0; i < b.n; i++ {
		nb, inserted := board.Board(b.tiles[i]).InsertRandomTile(src)
		b.tiles[i] = uint64(nb)
		if inserted {
			ok |= 1 << i
		}
	}
	return b, ok
}

// TileSums returns the tile sum of each lane.
func (b Batch) TileSums() []int {
	return lo.Map(b.Boards(), func(x board.Board, _ int) int {
		return x.TileSum()
	})
}

func (b Batch) String() string {
	var sb strings.Builder
	for i := 0; i < b.n; i++ {
		fmt.Fprintf(&sb, "lane %d:\n%s", i, board.Board(b.tiles[i]))
	}
	return sb.String()
}
