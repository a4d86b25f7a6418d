// Package zobrist hashes boards by XOR-ing one random word per occupied
// (cell, exponent) pair.
// https://en.wikipedia.org/wiki/Zobrist_hashing
package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/slide2048/board"
)

const bignum = 1<<63 - 2

type Zobrist struct {
	// posTable[i][0] stays zero so empty cells do not contribute.
	posTable [board.NumCells][board.MaxExponent + 1]uint64
}

// New returns a table filled from the OS entropy source.
func New() *Zobrist {
	z := &Zobrist{}
	z.Initialize(frand.New())
	return z
}

// NewSeeded returns a reproducible table.
func NewSeeded(seed uint64) *Zobrist {
	var key [32]byte
	for i := 0; i < 8; i++ {
		key[i] = byte(seed >> (8 * i))
	}
	z := &Zobrist{}
	z.Initialize(frand.NewCustom(key[:], 1024, 12))
	return z
}

func (z *Zobrist) Initialize(r *frand.RNG) {
	for i := range z.posTable {
		z.posTable[i][0] = 0
		for e := 1; e <= board.MaxExponent; e++ {
			z.posTable[i][e] = r.Uint64n(bignum) + 1
		}
	}
}

// Hash takes a raw board so it can serve as a visited-set hasher.
func (z *Zobrist) Hash(x uint64) uint64 {
	key := uint64(0)
	for i := 0; i < board.NumCells; i++ {
		key ^= z.posTable[i][(x>>(4*i))&0xf]
	}
	return key
}

func (z *Zobrist) HashBoard(b board.Board) uint64 {
	return z.Hash(b.Raw())
}

// Update returns h with cell i changed from exponent from to exponent to.
func (z *Zobrist) Update(h uint64, i int, from, to uint8) uint64 {
	return h ^ z.posTable[i][from] ^ z.posTable[i][to]
}
