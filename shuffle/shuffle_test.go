package shuffle

import (
	"math/rand/v2"
	"testing"

	"github.com/matryer/is"
)

func TestFixedShuffles(t *testing.T) {
	is := is.New(t)
	for _, impl := range []Impl{ImplRef, ImplUnpacked} {
		Use(impl)
		is.Equal(Nibbles(0xfedcba9876543210, 0xaa025411fe034102), uint64(0xaa025411fe034102))
		is.Equal(Nibbles(0x0123456789abcdef, 0xaa025411fe034102), uint64(0x55fdabee01fcbefd))
		is.Equal(Nibbles(0xaa025411fe034102, 0xeeee11110000ffff), uint64(0xaaaa00002222aaaa))
	}
	initDispatch()
}

func TestIdentityIndex(t *testing.T) {
	is := is.New(t)
	r := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 1000; i++ {
		x := r.Uint64()
		is.Equal(Ref(x, 0xfedcba9876543210), x)
		is.Equal(unpacked(x, 0xfedcba9876543210), x)
	}
}

func TestBroadcastIndex(t *testing.T) {
	is := is.New(t)
	// All index nibbles 7: every output cell copies cell 7.
	is.Equal(Ref(0x00000000b0000000, 0x7777777777777777), uint64(0xbbbbbbbbbbbbbbbb))
	is.Equal(unpacked(0x00000000b0000000, 0x7777777777777777), uint64(0xbbbbbbbbbbbbbbbb))
}

// The unpacked implementation must agree with the reference bit for bit.
func TestUnpackedMatchesRef(t *testing.T) {
	is := is.New(t)
	// A cheap LCG walk over data and indices, plus a seeded PCG.
	var a, idx uint64
	for i := 0; i < 10000; i++ {
		a = 3082*a + 1010
		idx = 2308208*idx + 102
		is.Equal(unpacked(a, idx), Ref(a, idx))
	}
	r := rand.New(rand.NewPCG(17, 42))
	for i := 0; i < 100000; i++ {
		a, idx = r.Uint64(), r.Uint64()
		if unpacked(a, idx) != Ref(a, idx) {
			t.Fatalf("mismatch for data=%#x idx=%#x: got %#x want %#x",
				a, idx, unpacked(a, idx), Ref(a, idx))
		}
	}
}

func TestSliceForms(t *testing.T) {
	is := is.New(t)
	r := rand.New(rand.NewPCG(9, 9))
	data := make([]uint64, 37)
	idx := make([]uint64, 37)
	for i := range data {
		data[i], idx[i] = r.Uint64(), r.Uint64()
	}
	dst := make([]uint64, len(data))
	Slice(dst, data, idx)
	for i := range data {
		is.Equal(dst[i], Ref(data[i], idx[i]))
	}

	same := uint64(0x0123456789abcdef)
	SliceSame(dst, data, same)
	for i := range data {
		is.Equal(dst[i], Ref(data[i], same))
	}

	// in place
	cp := append([]uint64(nil), data...)
	SliceSame(cp, cp, same)
	for i := range data {
		is.Equal(cp[i], Ref(data[i], same))
	}
}

func TestFeatures(t *testing.T) {
	// Result depends on the CPU; just make sure it runs.
	t.Logf("features: %v, impl: %v", Features(), Current())
}

func BenchmarkRef(b *testing.B) {
	var sink uint64
	x := uint64(0x0123456789abcdef)
	for i := 0; i < b.N; i++ {
		sink ^= Ref(x+uint64(i), 0xc840d951ea62fb73)
	}
	_ = sink
}

func BenchmarkUnpacked(b *testing.B) {
	var sink uint64
	x := uint64(0x0123456789abcdef)
	for i := 0; i < b.N; i++ {
		sink ^= unpacked(x+uint64(i), 0xc840d951ea62fb73)
	}
	_ = sink
}
