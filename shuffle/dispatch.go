package shuffle

import (
	"os"
	"runtime"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/cpu"
)

// Impl names a shuffle implementation.
type Impl int

const (
	// ImplRef is the cell-by-cell reference.
	ImplRef Impl = iota
	// ImplUnpacked gathers from a 16-entry cell table built from the low and
	// high nibble planes.
	ImplUnpacked
)

// NoAccelEnv, when set to any non-empty value, pins every accelerated path
// in this module to its reference implementation.
const NoAccelEnv = "SLIDE2048_NO_ACCEL"

var current Impl

func init() {
	initDispatch()
}

func initDispatch() {
	if os.Getenv(NoAccelEnv) != "" {
		current = ImplRef
		return
	}
	current = ImplUnpacked
}

func (i Impl) String() string {
	switch i {
	case ImplRef:
		return "ref"
	case ImplUnpacked:
		return "unpacked"
	}
	return "unknown"
}

// Use selects the implementation behind Nibbles. It is meant to be called
// once during startup, before any concurrent use.
func Use(i Impl) {
	current = i
	log.Debug().Str("impl", i.String()).Msg("nibble-shuffle-impl")
}

// Current returns the implementation behind Nibbles.
func Current() Impl {
	return current
}

// Accelerated reports whether accelerated paths are allowed in this process.
func Accelerated() bool {
	return os.Getenv(NoAccelEnv) == ""
}

// Features lists the CPU features that matter for wide nibble shuffles
// (multishift byte permutes on x86, table lookups on arm64).
func Features() []string {
	var f []string
	switch runtime.GOARCH {
	case "amd64", "386":
		if cpu.X86.HasSSSE3 {
			f = append(f, "ssse3")
		}
		if cpu.X86.HasAVX2 {
			f = append(f, "avx2")
		}
		if cpu.X86.HasBMI2 {
			f = append(f, "bmi2")
		}
		if cpu.X86.HasAVX512F && cpu.X86.HasAVX512VL && cpu.X86.HasAVX512BW {
			f = append(f, "avx512")
		}
		if cpu.X86.HasAVX512VBMI {
			f = append(f, "avx512vbmi")
		}
		if cpu.X86.HasAVX512VNNI {
			f = append(f, "avx512vnni")
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			f = append(f, "asimd")
		}
		if cpu.ARM64.HasSVE {
			f = append(f, "sve")
		}
	}
	return f
}
