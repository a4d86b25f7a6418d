package board

import (
	"fmt"

	"github.com/domino14/slide2048/lut"
	"github.com/domino14/slide2048/transform"
)

type Direction uint8

const (
	Right Direction = iota
	Up
	Left
	Down
)

// Directions lists every direction, in the order the self-play policy
// tries them.
var Directions = [4]Direction{Right, Up, Left, Down}

func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Up:
		return "up"
	case Left:
		return "left"
	case Down:
		return "down"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// Orientation returns the transform that turns d into a right move and the
// one that turns the result back.
func (d Direction) Orientation() (to, back transform.Transform) {
	switch d {
	case Up:
		return transform.Rotate270, transform.Rotate90
	case Left:
		return transform.Rotate180, transform.Rotate180
	case Down:
		return transform.Rotate90, transform.Rotate270
	}
	return transform.Identity, transform.Identity
}

// Move slides b in direction d. changed reports whether any cell differs.
func (b Board) Move(d Direction) (Board, bool) {
	var nb Board
	if d == Right {
		nb = Board(lut.Get().MoveRight(uint64(b)))
	} else {
		to, back := d.Orientation()
		x := to.Apply(uint64(b))
		x = lut.Get().MoveRight(x)
		nb = Board(back.Apply(x))
	}
	return nb, nb != b
}

func (b Board) MoveRight() (Board, bool) { return b.Move(Right) }
func (b Board) MoveUp() (Board, bool)    { return b.Move(Up) }
func (b Board) MoveLeft() (Board, bool)  { return b.Move(Left) }
func (b Board) MoveDown() (Board, bool)  { return b.Move(Down) }

// LegalMoves returns the directions that change b.
func (b Board) LegalMoves() []Direction {
	var ds []Direction
	for _, d := range Directions {
		if _, ok := b.Move(d); ok {
			ds = append(ds, d)
		}
	}
	return ds
}

// GameOver reports whether no move changes b.
func (b Board) GameOver() bool {
	for _, d := range Directions {
		if _, ok := b.Move(d); ok {
			return false
		}
	}
	return true
}
