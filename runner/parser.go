package runner

import (
	"fmt"
	"strings"

	"github.com/domino14/slide2048/rng"
)

// Policy picks moves during self-play.
type Policy int

const (
	// PolicyDumb tries right; if that does nothing it rotates the board a
	// quarter turn and tries again, giving up after four tries.
	PolicyDumb Policy = iota
	// PolicyRandom picks uniformly among the moves that change the board.
	PolicyRandom
)

func (p Policy) String() string {
	switch p {
	case PolicyDumb:
		return "dumb"
	case PolicyRandom:
		return "random"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dumb", "":
		return PolicyDumb, nil
	case "random":
		return PolicyRandom, nil
	}
	return PolicyDumb, fmt.Errorf("unknown policy %q; valid options: 'dumb', 'random'", s)
}

func ParseRNG(s string) (rng.Kind, error) {
	switch k := rng.Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case rng.KindLCG, rng.KindFrand:
		return k, nil
	case "":
		return rng.KindLCG, nil
	}
	return rng.KindLCG, fmt.Errorf("unknown rng %q; valid options: 'lcg', 'frand'", s)
}
