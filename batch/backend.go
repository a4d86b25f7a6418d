package batch

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/domino14/slide2048/board"
	"github.com/domino14/slide2048/lut"
	"github.com/domino14/slide2048/shuffle"
	"github.com/domino14/slide2048/transform"
)

// A Backend runs the per-lane primitives over a slice of packed boards. dst
// and src have equal length and may alias. Implementations must treat every
// element independently.
type Backend interface {
	Name() string
	Permute(dst, src []uint64, t transform.Transform)
	MoveRight(dst, src []uint64)
	Canonical(dst, src []uint64)
}

const (
	ScalarBackend = "scalar"
	SWARBackend   = "swar"
)

var backends = map[string]Backend{
	ScalarBackend: scalar{},
	SWARBackend:   swar{},
}

var active atomic.Pointer[Backend]

func init() {
	name := ScalarBackend
	if shuffle.Accelerated() {
		name = SWARBackend
	}
	b := backends[name]
	active.Store(&b)
}

// Backends lists the registered backend names.
func Backends() []string {
	names := lo.Keys(backends)
	slices.Sort(names)
	return names
}

// Use selects the backend used by every batch operation.
func Use(name string) error {
	b, ok := backends[name]
	if !ok {
		return fmt.Errorf("unknown batch backend %q (have %v)", name, Backends())
	}
	active.Store(&b)
	log.Debug().Str("backend", name).Msg("batch-backend-selected")
	return nil
}

// Active returns the selected backend.
func Active() Backend {
	return *active.Load()
}

// scalar loops over the board-level reference operations.
type scalar struct{}

func (scalar) Name() string { return ScalarBackend }

func (scalar) Permute(dst, src []uint64, t transform.Transform) {
	shuffle.SliceSame(dst, src, t.Perm())
}

func (scalar) MoveRight(dst, src []uint64) {
	tables := lut.Get()
	for i, x := range src {
		dst[i] = tables.MoveRight(x)
	}
}

func (scalar) Canonical(dst, src []uint64) {
	for i, x := range src {
		dst[i] = board.DefaultCanonicalizer.Canonical(x)
	}
}

// swar replaces the shuffles with delta-swap kernels, gathers rows from the
// 32-bit table and computes the center of mass with multiply-accumulate
// tricks instead of a per-cell loop.
type swar struct{}

var swarCanonicalizer = board.Canonicalizer{
	Apply:        func(t transform.Transform, x uint64) uint64 { return t.Kernel(x) },
	CenterOfMass: swarCenterOfMass,
}

func (swar) Name() string { return SWARBackend }

func (swar) Permute(dst, src []uint64, t transform.Transform) {
	for i, x := range src {
		dst[i] = t.Kernel(x)
	}
}

func (swar) MoveRight(dst, src []uint64) {
	tables := lut.Get()
	for i, x := range src {
		dst[i] = tables.MoveRight32(x)
	}
}

func (swar) Canonical(dst, src []uint64) {
	for i, x := range src {
		dst[i] = swarCanonicalizer.Canonical(x)
	}
}

// swarCenterOfMass matches board.Board.CenterOfMass.
func swarCenterOfMass(x uint64) (int, int) {
	var cols [4]int
	for c := range cols {
		// One cell per 16-bit lane; the multiply sums the lanes into the top.
		cols[c] = int(((x >> (4 * c)) & 0x000f000f000f000f) * 0x0001000100010001 >> 48)
	}
	y := (x & 0x0f0f0f0f0f0f0f0f) + ((x >> 4) & 0x0f0f0f0f0f0f0f0f)
	z := (y & 0x00ff00ff00ff00ff) + ((y >> 8) & 0x00ff00ff00ff00ff)
	var rows [4]int
	for r := range rows {
		rows[r] = int((z >> (16 * r)) & 0xffff)
	}
	cx := 63*(cols[3]-cols[0]) + (cols[2] - cols[1])
	cy := 63*(rows[3]-rows[0]) + (rows[2] - rows[1])
	return cx, cy
}
