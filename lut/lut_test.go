package lut

import (
	"testing"

	"github.com/matryer/is"
)

// slideRight is a straightforward list-based model of a single row.
func slideRight(cells [4]uint8) [4]uint8 {
	// Walk from the right edge, collecting nonzero cells.
	var stack []uint8
	for i := 3; i >= 0; i-- {
		if cells[i] != 0 {
			stack = append(stack, cells[i])
		}
	}
	var merged []uint8
	for i := 0; i < len(stack); i++ {
		if i+1 < len(stack) && stack[i] == stack[i+1] {
			merged = append(merged, min(stack[i]+1, maxExponent))
			i++
			continue
		}
		merged = append(merged, stack[i])
	}
	var out [4]uint8
	for i, v := range merged {
		out[3-i] = v
	}
	return out
}

func TestAllRowsMatchModel(t *testing.T) {
	tables := Build()
	for r := 0; r < NumRows; r++ {
		in := [4]uint8{uint8(r & 0xf), uint8(r >> 4 & 0xf), uint8(r >> 8 & 0xf), uint8(r >> 12)}
		want := slideRight(in)
		w := uint16(want[0]) | uint16(want[1])<<4 | uint16(want[2])<<8 | uint16(want[3])<<12
		if tables.Right16[r] != w {
			t.Fatalf("row %#04x: got %#04x want %#04x", r, tables.Right16[r], w)
		}
		if tables.Right32[r] != uint32(w) {
			t.Fatalf("row %#04x: 32-bit entry %#08x want %#04x", r, tables.Right32[r], w)
		}
	}
}

func TestKnownRows(t *testing.T) {
	is := is.New(t)
	is.Equal(CollapseRow(0x0000), uint16(0x0000))
	is.Equal(CollapseRow(0x0001), uint16(0x1000))
	is.Equal(CollapseRow(0x1111), uint16(0x2200))
	is.Equal(CollapseRow(0x2211), uint16(0x3200))
	is.Equal(CollapseRow(0x1122), uint16(0x2300))
	is.Equal(CollapseRow(0x0112), uint16(0x2200))
	is.Equal(CollapseRow(0x1230), uint16(0x1230))
	is.Equal(CollapseRow(0xff00), uint16(0xf000))
}

func TestMoveRightBoards(t *testing.T) {
	is := is.New(t)
	tables := Get()
	cases := []struct{ in, out uint64 }{
		{0, 0},
		{0x0100, 0x1000},
		{0x00220100, 0x30001000},
		{0x22220100, 0x33001000},
		{0x40040102, 0x50001200},
		{0x4004330002020110, 0x5000400030002000},
	}
	for _, c := range cases {
		is.Equal(tables.MoveRight(c.in), c.out)
		is.Equal(tables.MoveRight32(c.in), c.out)
	}
}

func TestGetIsShared(t *testing.T) {
	is := is.New(t)
	is.True(Get() == Get())
}

func BenchmarkMoveRight(b *testing.B) {
	tables := Get()
	var sink uint64
	for i := 0; i < b.N; i++ {
		sink ^= tables.MoveRight(uint64(i) * 0x9e3779b97f4a7c15)
	}
	_ = sink
}
