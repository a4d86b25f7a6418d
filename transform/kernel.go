package transform

// Delta-swap kernels. Every element of the group is a composition of the
// transpose and the two reflections, and each of those is a handful of
// mask/shift steps on the whole word.

// transpose reflects about the main diagonal: cell (r, c) takes (c, r).
func transpose(x uint64) uint64 {
	a1 := x & 0xf0f00f0ff0f00f0f
	a2 := x & 0x0000f0f00000f0f0
	a3 := x & 0x0f0f00000f0f0000
	a := a1 | a2<<12 | a3>>12
	b1 := a & 0xff00ff0000ff00ff
	b2 := a & 0x00ff00ff00000000
	b3 := a & 0x00000000ff00ff00
	return b1 | b2>>24 | b3<<24
}

// mirrorRows reverses the cells inside each row.
func mirrorRows(x uint64) uint64 {
	x = (x&0x0f0f0f0f0f0f0f0f)<<4 | (x>>4)&0x0f0f0f0f0f0f0f0f
	return (x&0x00ff00ff00ff00ff)<<8 | (x>>8)&0x00ff00ff00ff00ff
}

// mirrorCols reverses the order of the rows.
func mirrorCols(x uint64) uint64 {
	x = x<<32 | x>>32
	return (x&0x0000ffff0000ffff)<<16 | (x>>16)&0x0000ffff0000ffff
}

// Kernel computes the same permutation as Apply without the shuffle.
func (t Transform) Kernel(x uint64) uint64 {
	switch t {
	case Identity:
		return x
	case Rotate90:
		return mirrorCols(transpose(x))
	case Rotate180:
		return mirrorCols(mirrorRows(x))
	case Rotate270:
		return mirrorRows(transpose(x))
	case ReflectH:
		return mirrorRows(x)
	case ReflectV:
		return mirrorCols(x)
	case ReflectTL:
		return transpose(x)
	case ReflectTR:
		return mirrorCols(mirrorRows(transpose(x)))
	}
	panic("transform: kernel for " + t.String())
}
