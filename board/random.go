package board

import (
	"math/bits"
	"slices"
)

// A Source produces uniformly distributed 32-bit values.
type Source interface {
	Next() uint32
}

// fourThreshold gives a 4 roughly one time in ten.
const fourThreshold = (1 << 31) / 5

// InsertRandomTile places a 2 (or, about 10% of the time, a 4) in a uniformly
// chosen empty cell. It reports false, leaving b unchanged, when b is full.
// The tile is drawn before the cell, so a full board still consumes one value
// from src.
func (b Board) InsertRandomTile(src Source) (Board, bool) {
	e := uint8(1)
	if src.Next() < fourThreshold {
		e = 2
	}
	empty := b.EmptyIndices()
	if len(empty) == 0 {
		return b, false
	}
	idx := empty[src.Next()%uint32(len(empty))]
	return b.WithExponent(idx, e), true
}

// Start returns a random one-tile base position.
func Start(src Source) Board {
	idx := int(src.Next() % NumCells)
	e := uint8(1)
	if src.Next()%10 == 0 {
		e = 2
	}
	return Board(0).WithExponent(idx, e)
}

// StartFromSeed enumerates the one-tile base positions: the low four bits
// of seed pick the cell and bit 4 picks a 2 or a 4. Only the low five bits
// are used.
func StartFromSeed(seed int) Board {
	seed &= 31
	return Board(0).WithExponent(seed&0xf, uint8(1+seed>>4))
}

// AllStarting returns all 32 one-tile base positions.
func AllStarting() []Board {
	s := make([]Board, 32)
	for i := range s {
		s[i] = StartFromSeed(i)
	}
	return s
}

// GenNewTiles returns every board reachable from b by one spawn: twos[i] and
// fours[i] put a 2 and a 4 in the i-th empty cell, in ascending cell order.
func (b Board) GenNewTiles() (twos, fours []Board) {
	empty := b.EmptyIndices()
	twos = make([]Board, len(empty))
	fours = make([]Board, len(empty))
	for i, idx := range empty {
		twos[i] = b.WithExponent(idx, 1)
		fours[i] = b.WithExponent(idx, 2)
	}
	return twos, fours
}

// IsValidGenTile reports whether generated is base plus a single spawned 2
// or 4 in a cell that was empty.
func IsValidGenTile(generated, base Board) bool {
	kk := uint64(generated ^ base)
	if kk == 0 {
		return false
	}
	tzr := bits.TrailingZeros64(kk) &^ 3
	if kk != 1<<tzr && kk != 2<<tzr {
		return false
	}
	return uint64(base)&(0xf<<tzr) == 0
}

// DedupConsecutive collapses runs of equal boards, returning each distinct
// run value and its length.
func DedupConsecutive(boards []Board) ([]Board, []int) {
	if len(boards) == 0 {
		return nil, nil
	}
	out := []Board{boards[0]}
	freq := []int{1}
	for _, b := range boards[1:] {
		if b == out[len(out)-1] {
			freq[len(freq)-1]++
			continue
		}
		out = append(out, b)
		freq = append(freq, 1)
	}
	return out, freq
}

// CanonicalDedup canonicalizes every board and returns the distinct
// canonical forms in ascending order with the number of inputs mapping to
// each.
func CanonicalDedup(boards []Board) ([]Board, []int) {
	c := make([]Board, len(boards))
	for i, b := range boards {
		c[i] = b.Canonical()
	}
	slices.Sort(c)
	return DedupConsecutive(c)
}
