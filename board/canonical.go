package board

import "github.com/domino14/slide2048/transform"

// Per column (for x) and per row (for y) weights of the center of mass. The
// outer weight exceeds the largest possible inner sum, 16 cells * 15 / 4.
var comWeights = [4]int{-63, -1, 1, 63}

// CenterOfMass returns the weighted exponent sums across columns (x) and
// rows (y). Positive x means mass toward the right, positive y toward the
// bottom.
func (b Board) CenterOfMass() (x, y int) {
	return centerOfMass(uint64(b))
}

func centerOfMass(b uint64) (x, y int) {
	for i := 0; i < NumCells; i++ {
		e := int(b>>(4*i)) & 0xf
		x += e * comWeights[i&3]
		y += e * comWeights[i>>2]
	}
	return x, y
}

// degenerateSequence is applied cumulatively to a board whose center of mass
// is zero on both axes; it visits all eight orbit members.
var degenerateSequence = [7]transform.Transform{
	transform.ReflectV, transform.ReflectH, transform.ReflectV,
	transform.ReflectTR,
	transform.ReflectH, transform.ReflectV, transform.ReflectH,
}

// Canonicalizer is the canonical-form procedure with pluggable transform and
// center-of-mass kernels, so batch backends can run their own primitives
// through the same decisions.
type Canonicalizer struct {
	Apply        func(t transform.Transform, x uint64) uint64
	CenterOfMass func(x uint64) (int, int)
}

// DefaultCanonicalizer uses the shuffle-based transforms.
var DefaultCanonicalizer = Canonicalizer{
	Apply:        func(t transform.Transform, x uint64) uint64 { return t.Apply(x) },
	CenterOfMass: centerOfMass,
}

// Canonical maps every board of a symmetry orbit to the same member. Mass is
// first pushed toward the bottom right and below the main diagonal; whatever
// symmetry is left undecided by that is settled by taking the largest packed
// value among the remaining candidates.
func (c Canonicalizer) Canonical(x uint64) uint64 {
	cx, cy := c.CenterOfMass(x)
	if cx < 0 {
		x = c.Apply(transform.ReflectH, x)
		cx = -cx
	}
	if cy < 0 {
		x = c.Apply(transform.ReflectV, x)
		cy = -cy
	}
	if cx > cy {
		x = c.Apply(transform.ReflectTL, x)
		cx, cy = cy, cx
	}

	switch {
	case cx == 0 && cy == 0:
		best := x
		for _, t := range degenerateSequence {
			x = c.Apply(t, x)
			best = max(best, x)
		}
		return best
	case cx == 0:
		return max(x, c.Apply(transform.ReflectH, x))
	case cy == 0:
		// Unreachable after the diagonal step (cx <= cy, so cy == 0 forces
		// cx == 0); kept for kernels that skip that step.
		return max(x, c.Apply(transform.ReflectV, x))
	case cx == cy:
		// Mass is balanced across the main diagonal, so the transpose is
		// still a candidate.
		return max(x, c.Apply(transform.ReflectTL, x))
	}
	return x
}

// Canonical returns the representative of b's symmetry orbit.
func (b Board) Canonical() Board {
	return Board(DefaultCanonicalizer.Canonical(uint64(b)))
}
