package batch

import (
	"math/rand/v2"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/slide2048/board"
	"github.com/domino14/slide2048/transform"
)

var widths = []int{1, 2, 4, 8}

func useBackend(t *testing.T, name string) {
	t.Helper()
	prev := Active().Name()
	require.NoError(t, Use(name))
	t.Cleanup(func() { _ = Use(prev) })
}

// randomBoard mixes fully random words with small-exponent boards, which hit
// the symmetric and degenerate canonical cases far more often.
func randomBoard(r *rand.Rand) board.Board {
	if r.IntN(2) == 0 {
		return board.FromRaw(r.Uint64())
	}
	var v uint64
	for i := 0; i < 16; i++ {
		v |= uint64(r.IntN(3)) << (4 * i)
	}
	return board.FromRaw(v)
}

func randomBoards(r *rand.Rand, n int) []board.Board {
	bs := make([]board.Board, n)
	for i := range bs {
		bs[i] = randomBoard(r)
	}
	return bs
}

func TestBatchMatchesScalar(t *testing.T) {
	for _, name := range Backends() {
		t.Run(name, func(t *testing.T) {
			useBackend(t, name)
			r := rand.New(rand.NewPCG(8, uint64(len(name))))
			for _, w := range widths {
				for iter := 0; iter < 500; iter++ {
					boards := randomBoards(r, w)
					b := Load(boards)

					for _, tr := range transform.All {
						got := b.Transform(tr)
						for i, x := range boards {
							if got.Lane(i) != x.Transform(tr) {
								t.Fatalf("width %d lane %d %v: got %#016x want %#016x",
									w, i, tr, uint64(got.Lane(i)), uint64(x.Transform(tr)))
							}
						}
					}

					for _, d := range board.Directions {
						got, changed := b.Move(d)
						for i, x := range boards {
							want, ok := x.Move(d)
							if got.Lane(i) != want {
								t.Fatalf("width %d lane %d move %v: got %#016x want %#016x",
									w, i, d, uint64(got.Lane(i)), uint64(want))
							}
							if (changed>>i&1 == 1) != ok {
								t.Fatalf("width %d lane %d move %v: changed bit wrong", w, i, d)
							}
						}
						assert.Zero(t, changed>>w, "bits past the width must be clear")
					}

					c := b.Canonical()
					for i, x := range boards {
						if c.Lane(i) != x.Canonical() {
							t.Fatalf("width %d lane %d canonical: got %#016x want %#016x",
								w, i, uint64(c.Lane(i)), uint64(x.Canonical()))
						}
					}

					sums := b.TileSums()
					for i, x := range boards {
						if sums[i] != x.TileSum() {
							t.Fatalf("width %d lane %d tile sum: got %d want %d", w, i, sums[i], x.TileSum())
						}
					}
				}
			}
		})
	}
}

func TestNoCrossLaneEffects(t *testing.T) {
	for _, name := range Backends() {
		t.Run(name, func(t *testing.T) {
			useBackend(t, name)
			r := rand.New(rand.NewPCG(31, 7))
			for iter := 0; iter < 200; iter++ {
				base := Load(randomBoards(r, MaxLanes))
				lane := r.IntN(MaxLanes)
				other := base.WithLane(lane, randomBoard(r))

				ops := []func(Batch) Batch{
					func(b Batch) Batch { return b.Rotate90() },
					func(b Batch) Batch { return b.ReflectTR() },
					func(b Batch) Batch { nb, _ := b.Move(board.Up); return nb },
					func(b Batch) Batch { nb, _ := b.Move(board.Right); return nb },
					func(b Batch) Batch { return b.Canonical() },
				}
				for _, op := range ops {
					x, y := op(base), op(other)
					for i := 0; i < MaxLanes; i++ {
						if i != lane && x.Lane(i) != y.Lane(i) {
							t.Fatalf("changing lane %d altered lane %d", lane, i)
						}
					}
				}
			}
		})
	}
}

func TestBackendsAgree(t *testing.T) {
	r := rand.New(rand.NewPCG(100, 200))
	for iter := 0; iter < 2000; iter++ {
		src := make([]uint64, 8)
		for i := range src {
			src[i] = uint64(randomBoard(r))
		}
		a, b := make([]uint64, 8), make([]uint64, 8)
		s, w := backends[ScalarBackend], backends[SWARBackend]

		for _, tr := range transform.All {
			s.Permute(a, src, tr)
			w.Permute(b, src, tr)
			require.Equal(t, a, b, tr.String())
		}
		s.MoveRight(a, src)
		w.MoveRight(b, src)
		require.Equal(t, a, b)
		s.Canonical(a, src)
		w.Canonical(b, src)
		require.Equal(t, a, b)
	}
}

func TestSWARCenterOfMass(t *testing.T) {
	is := is.New(t)
	r := rand.New(rand.NewPCG(1, 1))
	for i := 0; i < 50000; i++ {
		x := r.Uint64()
		cx, cy := swarCenterOfMass(x)
		wx, wy := board.FromRaw(x).CenterOfMass()
		is.Equal(cx, wx)
		is.Equal(cy, wy)
	}
	cx, cy := swarCenterOfMass(^uint64(0))
	is.Equal(cx, 0)
	is.Equal(cy, 0)
}

func TestLanes(t *testing.T) {
	is := is.New(t)
	b := New(4)
	is.Equal(b.Width(), 4)
	b = b.WithLane(2, board.FromRaw(0x21))
	is.Equal(b.Lane(2), board.FromRaw(0x21))
	is.Equal(b.Lane(0), board.Board(0))

	out := make([]board.Board, 4)
	b.Store(out)
	is.Equal(out, []board.Board{0, 0, 0x21, 0})
	is.Equal(b.Boards(), out)

	is.Equal(Load(out), b)
}

func TestInvalidWidths(t *testing.T) {
	for _, w := range []int{0, 3, 5, 6, 7, 9, 16} {
		assert.Panics(t, func() { New(w) }, "width %d", w)
		assert.Panics(t, func() { Load(make([]board.Board, w)) }, "width %d", w)
	}
	b := New(2)
	assert.Panics(t, func() { b.Lane(2) })
	assert.Panics(t, func() { b.WithLane(-1, 0) })
	assert.Panics(t, func() { b.Store(make([]board.Board, 1)) })
}

func TestInsertRandomTiles(t *testing.T) {
	is := is.New(t)
	src := &countingSource{}
	full := board.FromRaw(0x1234123412341234)
	b := Load([]board.Board{0, full})
	nb, ok := b.InsertRandomTiles(src)
	is.Equal(ok, uint8(1))
	is.Equal(nb.Lane(1), full)
	is.True(board.IsValidGenTile(nb.Lane(0), 0))
}

type countingSource struct{ n uint32 }

func (c *countingSource) Next() uint32 {
	c.n += 0x9e3779b9
	return c.n
}

func TestUseUnknownBackend(t *testing.T) {
	is := is.New(t)
	prev := Active().Name()
	err := Use("avx9000")
	is.True(err != nil)
	is.Equal(Active().Name(), prev)
}

func TestString(t *testing.T) {
	is := is.New(t)
	b := Load([]board.Board{board.FromRaw(1)})
	is.Equal(b.String(), "lane 0:\n2\t0\t0\t0\n0\t0\t0\t0\n0\t0\t0\t0\n0\t0\t0\t0\n")
}

func BenchmarkCanonical8(b *testing.B) {
	r := rand.New(rand.NewPCG(5, 5))
	for _, name := range Backends() {
		b.Run(name, func(b *testing.B) {
			prev := Active().Name()
			_ = Use(name)
			defer func() { _ = Use(prev) }()
			x := Load(randomBoards(r, 8))
			for i := 0; i < b.N; i++ {
				x = x.Canonical()
			}
		})
	}
}
