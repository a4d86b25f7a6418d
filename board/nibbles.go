package board

import "math/bits"

const (
	loNibbles = 0x0f0f0f0f0f0f0f0f
	nibbleLSB = 0x1111111111111111
)

// nonzeroNibbles returns a word with bit 0 of each nibble set iff that nibble
// of x is nonzero: the upper bits of each nibble are folded down twice.
func nonzeroNibbles(x uint64) uint64 {
	hi2 := x & 0xcccccccccccccccc
	lo2 := (x - hi2) | hi2>>2
	hi1 := lo2 & 0x2222222222222222
	return (lo2 - hi1) | hi1>>1
}

// EmptyMask has 0xf in every empty cell and 0 elsewhere.
func (b Board) EmptyMask() uint64 {
	return ^(nonzeroNibbles(uint64(b)) * 0xf)
}

// CountTiles counts occupied cells.
func (b Board) CountTiles() int {
	return bits.OnesCount64(nonzeroNibbles(uint64(b)))
}

func (b Board) CountEmpty() int {
	return NumCells - b.CountTiles()
}

// RowCounts returns the number of tiles in each row, top row first.
func (b Board) RowCounts() [4]int {
	m := nonzeroNibbles(uint64(b))
	var rc [4]int
	for r := range rc {
		rc[r] = bits.OnesCount16(uint16(m >> (16 * r)))
	}
	return rc
}

// PackedRowCounts is RowCounts with each count in its own 16-bit lane.
func (b Board) PackedRowCounts() uint64 {
	rc := b.RowCounts()
	return uint64(rc[0]) | uint64(rc[1])<<16 | uint64(rc[2])<<32 | uint64(rc[3])<<48
}

// EmptyIndices lists the empty cells in ascending order.
func (b Board) EmptyIndices() []int {
	m := b.EmptyMask() & nibbleLSB
	idx := make([]int, 0, bits.OnesCount64(m))
	for m != 0 {
		tz := bits.TrailingZeros64(m)
		idx = append(idx, tz/4)
		m &= m - 1
	}
	return idx
}
