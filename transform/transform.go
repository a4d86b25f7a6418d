// Package transform holds the eight symmetries of the 4x4 grid (the dihedral
// group D4) as nibble-shuffle index patterns.
//
// A pattern is applied with shuffle.Nibbles: output cell i takes the input
// cell named by nibble i of the pattern. Rotations are counterclockwise.
package transform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/domino14/slide2048/shuffle"
)

type Transform uint8

const (
	Identity Transform = iota
	Rotate90
	Rotate180
	Rotate270
	ReflectH
	ReflectV
	ReflectTL
	ReflectTR

	numTransforms
)

var ErrUnknownTransform = errors.New("unknown transform")

var perms = [numTransforms]uint64{
	Identity:  0xfedcba9876543210,
	Rotate90:  0xc840d951ea62fb73,
	Rotate180: 0x0123456789abcdef,
	Rotate270: 0x37bf26ae159d048c,
	ReflectH:  0xcdef89ab45670123,
	ReflectV:  0x32107654ba98fedc,
	ReflectTL: 0xfb73ea62d951c840,
	ReflectTR: 0x048c159d26ae37bf,
}

var names = [numTransforms]string{
	Identity:  "identity",
	Rotate90:  "rotate-90",
	Rotate180: "rotate-180",
	Rotate270: "rotate-270",
	ReflectH:  "reflect-h",
	ReflectV:  "reflect-v",
	ReflectTL: "reflect-tl",
	ReflectTR: "reflect-tr",
}

// All lists the group elements in declaration order.
var All = [numTransforms]Transform{
	Identity, Rotate90, Rotate180, Rotate270,
	ReflectH, ReflectV, ReflectTL, ReflectTR,
}

var (
	byPerm  = map[uint64]Transform{}
	inverse [numTransforms]Transform
	compose [numTransforms][numTransforms]Transform
)

func init() {
	for _, t := range All {
		byPerm[perms[t]] = t
	}
	for _, t := range All {
		for _, u := range All {
			p := composePerms(perms[t], perms[u])
			c, ok := byPerm[p]
			if !ok {
				panic(fmt.Sprintf("transform: %v then %v is not in the group (%#016x)", t, u, p))
			}
			compose[t][u] = c
			if c == Identity {
				inverse[t] = u
			}
		}
	}
}

// composePerms returns the pattern equal to shuffling by first, then by
// second.
func composePerms(first, second uint64) uint64 {
	var out uint64
	for i := 0; i < 16; i++ {
		j := (second >> (4 * i)) & 0xf
		out |= ((first >> (4 * j)) & 0xf) << (4 * i)
	}
	return out
}

// Perm returns the 64-bit nibble index pattern.
func (t Transform) Perm() uint64 {
	return perms[t]
}

// Indices returns the pattern as a table: entry i is the source cell of
// output cell i.
func (t Transform) Indices() [16]uint8 {
	var idx [16]uint8
	p := perms[t]
	for i := range idx {
		idx[i] = uint8((p >> (4 * i)) & 0xf)
	}
	return idx
}

func (t Transform) String() string {
	if t < numTransforms {
		return names[t]
	}
	return fmt.Sprintf("transform(%d)", uint8(t))
}

// Parse accepts the names printed by String, case-insensitively, with either
// '-' or '_' as separator.
func Parse(s string) (Transform, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for _, t := range All {
		if names[t] == n {
			return t, nil
		}
	}
	return Identity, fmt.Errorf("%w: %q", ErrUnknownTransform, s)
}

// Apply permutes the cells of x.
func (t Transform) Apply(x uint64) uint64 {
	return shuffle.Nibbles(x, perms[t])
}

func (t Transform) Inverse() Transform {
	return inverse[t]
}

// Then returns the single transform equal to applying t and then u.
func (t Transform) Then(u Transform) Transform {
	return compose[t][u]
}
