// Package shuffle implements the nibble shuffle: a permutation of the sixteen
// 4-bit fields of a 64-bit word. Every board symmetry and every move
// re-orientation is expressed through it.
//
// Convention: nibble i of a word x is (x >> (4*i)) & 0xf, so nibble 0 is the
// least significant.
package shuffle

const (
	loNibbles = 0x0f0f0f0f0f0f0f0f
	hiNibbles = 0xf0f0f0f0f0f0f0f0
)

// Ref is the scalar reference shuffle. Output nibble i is the nibble of data
// found at the position named by nibble i of idx. Only the low four bits of
// each index nibble are meaningful, so every input is valid.
func Ref(data, idx uint64) uint64 {
	var result uint64
	for i := 0; i < 16; i++ {
		// Rotate so the most significant index nibble is consumed first;
		// after sixteen steps it ends up back in the top nibble of result.
		idx = idx>>60 | idx<<4
		src := idx & 0xf
		result = result<<4 | (data>>(4*src))&0xf
	}
	return result
}

// unpacked splits data into its low and high nibble planes (the same split a
// byte shuffle works on), lays the cells out as a 16-entry table, and gathers
// from it two output cells per index byte.
func unpacked(data, idx uint64) uint64 {
	var cells [16]byte
	lo := data & loNibbles
	hi := (data & hiNibbles) >> 4
	for i := 0; i < 8; i++ {
		cells[2*i] = byte(lo >> (8 * i))
		cells[2*i+1] = byte(hi >> (8 * i))
	}

	var result uint64
	for i := 0; i < 8; i++ {
		b := byte(idx >> (8 * i))
		pair := cells[b&0xf] | cells[b>>4]<<4
		result |= uint64(pair) << (8 * i)
	}
	return result
}

// Nibbles shuffles data by idx using the implementation selected at startup.
// All implementations agree with Ref on every input.
func Nibbles(data, idx uint64) uint64 {
	if current == ImplUnpacked {
		return unpacked(data, idx)
	}
	return Ref(data, idx)
}

// Slice shuffles each data[i] by its own idx[i] into dst[i]. The three
// slices must have the same length; dst may alias data.
func Slice(dst, data, idx []uint64) {
	for i, d := range data {
		dst[i] = Nibbles(d, idx[i])
	}
}

// SliceSame shuffles every data[i] by the same index word.
func SliceSame(dst, data []uint64, idx uint64) {
	for i, d := range data {
		dst[i] = Nibbles(d, idx)
	}
}
