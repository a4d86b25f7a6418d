// Package board implements the packed 2048 board: sixteen 4-bit exponent
// cells in a uint64, row-major, with cell 0 (top left) in the least
// significant nibble.
package board

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

const (
	NumCells = 16
	// MaxExponent is the largest exponent a cell can hold.
	MaxExponent = 15
	MaxTile     = 1 << MaxExponent
	// maxValidatedExponent bounds the tiles the validator recognizes at all;
	// anything between MaxTile and this is a real tile that does not fit.
	maxValidatedExponent = 17
)

var (
	ErrInvalidTile  = errors.New("tile must be 0 or a power of two between 2 and 131072")
	ErrTileTooLarge = errors.New("tile exceeds the packed format maximum of 32768")
)

// A Board is an immutable packed position. Every operation returns a new
// value.
type Board uint64

// TileExponent converts a tile value to the exponent stored in a cell.
func TileExponent(tile int) (uint8, error) {
	if tile == 0 {
		return 0, nil
	}
	if tile < 0 || tile&(tile-1) != 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidTile, tile)
	}
	k := bits.TrailingZeros(uint(tile))
	if k == 0 || k > maxValidatedExponent {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidTile, tile)
	}
	if k > MaxExponent {
		return 0, fmt.Errorf("%w: got %d", ErrTileTooLarge, tile)
	}
	return uint8(k), nil
}

// New builds a board from sixteen tile values in row-major order. It panics
// if any value cannot be represented; that is always a caller bug.
func New(tiles [NumCells]int) Board {
	var b Board
	for i, t := range tiles {
		e, err := TileExponent(t)
		if err != nil {
			panic(fmt.Sprintf("board.New: cell %d: %v", i, err))
		}
		b |= Board(e) << (4 * i)
	}
	return b
}

// FromRaw wraps a packed value without validation. Every uint64 is a
// well-formed board.
func FromRaw(x uint64) Board {
	return Board(x)
}

func (b Board) Raw() uint64 {
	return uint64(b)
}

// Exponent returns the exponent at cell i (0 for empty).
func (b Board) Exponent(i int) uint8 {
	return uint8(b>>(4*i)) & 0xf
}

// Tile returns the tile value at cell i (0 for empty).
func (b Board) Tile(i int) int {
	return tileValue(b.Exponent(i))
}

// WithExponent returns b with cell i set to e.
func (b Board) WithExponent(i int, e uint8) Board {
	shift := 4 * i
	return b&^(0xf<<shift) | Board(e&0xf)<<shift
}

func tileValue(e uint8) int {
	if e == 0 {
		return 0
	}
	return 1 << e
}

// TileSum adds up tile values. It grows by 2 or 4 with every spawned tile and
// is unchanged by moves.
func (b Board) TileSum() int {
	s := 0
	for x := uint64(b); x != 0; x >>= 4 {
		s += tileValue(uint8(x & 0xf))
	}
	return s
}

// Score is the classic 2048 score for b, assuming every spawned tile was a 2.
// Each tile of value 2^e (e >= 2) was produced by merges worth (e-1)*2^e.
func (b Board) Score() int {
	s := 0
	for i := 0; i < NumCells; i++ {
		e := int(b.Exponent(i))
		if e >= 2 {
			s += (e - 1) << e
		}
	}
	return s
}

// MaxExponent returns the largest exponent on the board.
func (b Board) MaxExponent() uint8 {
	var m uint8
	for i := 0; i < NumCells; i++ {
		m = max(m, b.Exponent(i))
	}
	return m
}

// MaxTile returns the largest tile value on the board.
func (b Board) MaxTile() int {
	return tileValue(b.MaxExponent())
}

// Tiles returns the sixteen tile values, row-major.
func (b Board) Tiles() [NumCells]int {
	var t [NumCells]int
	for i := range t {
		t[i] = b.Tile(i)
	}
	return t
}

// String dumps the grid as tile values, tab-separated within a row and one
// row per line.
func (b Board) String() string {
	var sb strings.Builder
	for i := 0; i < NumCells; i++ {
		sb.WriteString(strconv.Itoa(b.Tile(i)))
		if i%4 == 3 {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte('\t')
		}
	}
	return sb.String()
}
