package transform

import (
	"math/rand/v2"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermutationsAreBijections(t *testing.T) {
	for _, tr := range All {
		seen := map[uint8]bool{}
		for _, s := range tr.Indices() {
			require.Less(t, s, uint8(16), tr.String())
			seen[s] = true
		}
		assert.Len(t, seen, 16, tr.String())
	}
}

func TestKnownPositions(t *testing.T) {
	is := is.New(t)
	// Cell 0 (top left) holds exponent 1, cell 1 holds 2.
	x := uint64(0x21)
	is.Equal(ReflectH.Apply(x), uint64(0x1200))
	is.Equal(ReflectV.Apply(x), uint64(0x21)<<48)
	is.Equal(ReflectTL.Apply(x), uint64(0x20001))
	is.Equal(Rotate180.Apply(x), uint64(0x12)<<56)
	// Counterclockwise: the top row becomes the left column, read bottom up.
	is.Equal(Rotate90.Apply(x), uint64(0x1)<<48|uint64(0x2)<<32)
	is.Equal(Rotate270.Apply(x), uint64(0x2)<<28|uint64(0x1)<<12)
	is.Equal(ReflectTR.Apply(x), uint64(0x1)<<60|uint64(0x2)<<44)
}

func TestRoundTrip(t *testing.T) {
	is := is.New(t)
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 2000; i++ {
		x := r.Uint64()
		for _, tr := range All {
			is.Equal(tr.Inverse().Apply(tr.Apply(x)), x)
		}
	}
}

func TestInverses(t *testing.T) {
	is := is.New(t)
	is.Equal(Rotate90.Inverse(), Rotate270)
	is.Equal(Rotate270.Inverse(), Rotate90)
	for _, tr := range []Transform{Identity, Rotate180, ReflectH, ReflectV, ReflectTL, ReflectTR} {
		is.Equal(tr.Inverse(), tr)
	}
}

func TestClosure(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	xs := make([]uint64, 200)
	for i := range xs {
		xs[i] = r.Uint64()
	}
	for _, a := range All {
		for _, b := range All {
			c := a.Then(b)
			assert.Contains(t, All[:], c)
			for _, x := range xs {
				if b.Apply(a.Apply(x)) != c.Apply(x) {
					t.Fatalf("%v then %v != %v on %#016x", a, b, c, x)
				}
			}
		}
	}
}

func TestKnownCompositions(t *testing.T) {
	is := is.New(t)
	is.Equal(Rotate90.Then(Rotate90), Rotate180)
	is.Equal(Rotate90.Then(Rotate180), Rotate270)
	is.Equal(ReflectH.Then(ReflectV), Rotate180)
	is.Equal(ReflectTL.Then(ReflectV), Rotate90)
	is.Equal(ReflectTL.Then(ReflectH), Rotate270)
}

func TestKernelMatchesApply(t *testing.T) {
	is := is.New(t)
	r := rand.New(rand.NewPCG(99, 1))
	for i := 0; i < 20000; i++ {
		x := r.Uint64()
		for _, tr := range All {
			is.Equal(tr.Kernel(x), tr.Apply(x))
		}
	}
}

func TestParse(t *testing.T) {
	is := is.New(t)
	for _, tr := range All {
		got, err := Parse(tr.String())
		is.NoErr(err)
		is.Equal(got, tr)
	}
	got, err := Parse("Reflect_TR")
	is.NoErr(err)
	is.Equal(got, ReflectTR)

	_, err = Parse("rotate-45")
	require.ErrorIs(t, err, ErrUnknownTransform)
}

func BenchmarkApplyRotate90(b *testing.B) {
	var sink uint64
	for i := 0; i < b.N; i++ {
		sink ^= Rotate90.Apply(uint64(i) * 0x9e3779b97f4a7c15)
	}
	_ = sink
}

func BenchmarkKernelRotate90(b *testing.B) {
	var sink uint64
	for i := 0; i < b.N; i++ {
		sink ^= Rotate90.Kernel(uint64(i) * 0x9e3779b97f4a7c15)
	}
	_ = sink
}
