// Package visited is an open-addressing set of canonical board keys, shared
// by self-play workers to count distinct positions.
package visited

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

const (
	entrySize   = 8
	MinSizeBits = 8
	MaxSizeBits = 42
)

type TableLock interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

// Hasher maps a key to its home slot before masking.
type Hasher func(key uint64) uint64

type FakeLock struct{}

func (f FakeLock) Lock()    {}
func (f FakeLock) Unlock()  {}
func (f FakeLock) RLock()   {}
func (f FakeLock) RUnlock() {}

// Stats are cumulative since the last Reset.
type Stats struct {
	Lookups uint64 `yaml:"lookups"`
	Hits    uint64 `yaml:"hits"`
	Inserts uint64 `yaml:"inserts"`
	Probes  uint64 `yaml:"probes"`
	Grows   uint64 `yaml:"grows"`
}

// Set holds uint64 keys. Slot value 0 marks an empty slot; the key 0 itself
// is tracked out of band.
type Set struct {
	TableLock
	hash         Hasher
	table        []uint64
	sizePowerOf2 int
	sizeMask     uint64
	count        int
	hasZero      bool

	lookups atomic.Uint64
	hits    atomic.Uint64
	inserts atomic.Uint64
	probes  atomic.Uint64
	grows   atomic.Uint64
}

// New returns a set with 2^sizePowerOf2 slots, clamped to the supported
// range. It starts in single-threaded mode.
func New(sizePowerOf2 int) *Set {
	s := &Set{TableLock: FakeLock{}, hash: XXHash}
	s.allocate(sizePowerOf2)
	return s
}

// NewFromMemory sizes the set to use about fractionOfMemory of physical
// memory.
func NewFromMemory(fractionOfMemory float64) *Set {
	s := &Set{TableLock: FakeLock{}, hash: XXHash}
	s.Reset(fractionOfMemory)
	return s
}

func clampBits(b int) int {
	return min(max(b, MinSizeBits), MaxSizeBits)
}

func (s *Set) allocate(sizePowerOf2 int) {
	s.sizePowerOf2 = clampBits(sizePowerOf2)
	n := 1 << s.sizePowerOf2
	s.sizeMask = uint64(n - 1)
	if len(s.table) == n {
		clear(s.table)
	} else {
		s.table = make([]uint64, n)
	}
	s.count = 0
	s.hasZero = false
}

func (s *Set) SetSingleThreadedMode() {
	s.TableLock = FakeLock{}
}

func (s *Set) SetMultiThreadedMode() {
	s.TableLock = new(sync.RWMutex)
}

// Reset empties the set and resizes it to a fraction of system memory.
func (s *Set) Reset(fractionOfMemory float64) {
	s.Lock()
	defer s.Unlock()
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	bits := MinSizeBits
	if desiredNElems >= 1 {
		// biggest power of 2 not above the target
		bits = int(math.Log2(desiredNElems))
	}
	reset := len(s.table) == 1<<clampBits(bits)
	s.allocate(bits)
	s.resetCounters()

	log.Info().Int("num-elems", len(s.table)).
		Float64("desired-num-elems", desiredNElems).
		Int("estimated-total-memory-bytes", len(s.table)*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Bool("reset", reset).
		Msg("visited-set-size")
}

// Clear empties the set, keeping its capacity.
func (s *Set) Clear() {
	s.Lock()
	defer s.Unlock()
	s.allocate(s.sizePowerOf2)
	s.resetCounters()
}

func (s *Set) resetCounters() {
	s.lookups.Store(0)
	s.hits.Store(0)
	s.inserts.Store(0)
	s.probes.Store(0)
	s.grows.Store(0)
}

// XXHash is the default hasher.
func XXHash(key uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	return xxhash.Sum64(buf[:])
}

// UseHasher replaces the slot hash. The set is cleared since existing keys
// would sit in the wrong slots.
func (s *Set) UseHasher(h Hasher) {
	s.Lock()
	defer s.Unlock()
	s.hash = h
	s.allocate(s.sizePowerOf2)
	s.resetCounters()
}

// find returns the slot holding key, or the empty slot where it would go.
func (s *Set) find(key uint64) (uint64, bool) {
	idx := s.hash(key) & s.sizeMask
	var probes uint64
	for {
		v := s.table[idx]
		if v == key {
			s.probes.Add(probes)
			return idx, true
		}
		if v == 0 {
			s.probes.Add(probes)
			return idx, false
		}
		probes++
		idx = (idx + 1) & s.sizeMask
	}
}

// Contains reports whether key was added.
func (s *Set) Contains(key uint64) bool {
	s.RLock()
	defer s.RUnlock()
	s.lookups.Add(1)
	var ok bool
	if key == 0 {
		ok = s.hasZero
	} else {
		_, ok = s.find(key)
	}
	if ok {
		s.hits.Add(1)
	}
	return ok
}

// Add inserts key and reports whether it was new.
func (s *Set) Add(key uint64) bool {
	s.Lock()
	defer s.Unlock()
	s.lookups.Add(1)
	if key == 0 {
		if s.hasZero {
			s.hits.Add(1)
			return false
		}
		s.hasZero = true
		s.count++
		s.inserts.Add(1)
		return true
	}
	idx, ok := s.find(key)
	if ok {
		s.hits.Add(1)
		return false
	}
	s.table[idx] = key
	s.count++
	s.inserts.Add(1)
	if s.count*4 > len(s.table)*3 && s.sizePowerOf2 < MaxSizeBits {
		s.grow()
	}
	return true
}

func (s *Set) grow() {
	old := s.table
	hasZero, count := s.hasZero, s.count
	s.allocate(s.sizePowerOf2 + 1)
	for _, k := range old {
		if k != 0 {
			idx, _ := s.find(k)
			s.table[idx] = k
		}
	}
	s.hasZero, s.count = hasZero, count
	s.grows.Add(1)
	log.Debug().Int("num-elems", len(s.table)).Int("count", count).Msg("visited-set-grow")
}

// Len returns the number of distinct keys.
func (s *Set) Len() int {
	s.RLock()
	defer s.RUnlock()
	return s.count
}

// Cap returns the number of slots.
func (s *Set) Cap() int {
	s.RLock()
	defer s.RUnlock()
	return len(s.table)
}

func (s *Set) Stats() Stats {
	return Stats{
		Lookups: s.lookups.Load(),
		Hits:    s.hits.Load(),
		Inserts: s.inserts.Load(),
		Probes:  s.probes.Load(),
		Grows:   s.grows.Load(),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("lookups=%d hits=%d inserts=%d probes=%d grows=%d",
		s.Lookups, s.Hits, s.Inserts, s.Probes, s.Grows)
}
