package shader

import (
	"cmp"
	"errors"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/drawqueue/internal/logger"
)

// Handle identifies a compiled program. Zero is never a valid program.
type Handle uint32

// Variant is a compiled program and the flags it was built for.
type Variant struct {
	Handle Handle
	Flags  Flags
}

// NoVariant is returned when no program can serve a request. Callers draw
// through the fixed path instead.
var NoVariant = Variant{}

// Valid reports whether v refers to a compiled program.
func (v Variant) Valid() bool {
	return v.Handle != 0
}

// Compiler builds a program from the preprocessor block for flags.
type Compiler interface {
	Compile(flags Flags, defines string) (Handle, error)
}

// Mode is the session's shading path.
type Mode uint8

const (
	// ModeProgrammable draws models with variant programs.
	ModeProgrammable Mode = iota
	// ModeNoModelShading draws models through the fixed path while
	// post-processing programs stay available.
	ModeNoModelShading
	// ModeFixed has no programmable path at all.
	ModeFixed
)

func (m Mode) String() string {
	switch m {
	case ModeProgrammable:
		return "programmable"
	case ModeNoModelShading:
		return "no-model-shading"
	case ModeFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// errZeroHandle is reported when a compiler returns no program and no error.
var errZeroHandle = errors.New("compiler returned zero handle")

// Options configure a Resolver.
type Options struct {
	ShaderModel  int
	NormalMaps   bool
	HeightMaps   bool
	ModelShading bool
}

// ResolverStats counts resolver work since creation.
type ResolverStats struct {
	Compiles int
	Failures int
	FastHits int
}

// Resolver maps flags to compiled variants for the whole session. It holds
// at most one variant per flags value.
type Resolver struct {
	compiler    Compiler
	shaderModel int

	mode     Mode
	noNormal bool
	noHeight bool
	variants map[Flags]Variant
	last     Variant
	haveLast bool
	stats    ResolverStats
}

// NewResolver creates a resolver compiling through c.
func NewResolver(c Compiler, opts Options) *Resolver {
	r := &Resolver{
		compiler:    c,
		shaderModel: opts.ShaderModel,
		noNormal:    !opts.NormalMaps,
		noHeight:    !opts.HeightMaps,
		variants:    make(map[Flags]Variant),
	}
	if !opts.ModelShading {
		r.mode = ModeNoModelShading
	}
	return r
}

// Mode returns the current shading path.
func (r *Resolver) Mode() Mode {
	return r.mode
}

// PostProcessingAvailable reports whether post-processing programs may
// still be used.
func (r *Resolver) PostProcessingAvailable() bool {
	return r.mode != ModeFixed
}

// Stats returns resolver counters.
func (r *Resolver) Stats() ResolverStats {
	return r.stats
}

// Effective strips the features disabled for the session from f. Height
// mapping needs normal mapping, so losing normals also drops height.
func (r *Resolver) Effective(f Flags) Flags {
	if r.noNormal {
		f &^= FlagNormalMap | FlagHeightMap
	}
	if r.noHeight {
		f &^= FlagHeightMap
	}
	return f
}

// Resolve returns the variant for f, compiling it on first use. It
// returns NoVariant once the session has left the programmable path.
func (r *Resolver) Resolve(f Flags) Variant {
	if r.mode != ModeProgrammable {
		return NoVariant
	}
	f = r.Effective(f)

	if r.haveLast && r.last.Flags == f {
		r.stats.FastHits++
		return r.last
	}
	if v, ok := r.variants[f]; ok {
		r.last, r.haveLast = v, true
		return v
	}

	r.stats.Compiles++
	h, err := r.compiler.Compile(f, Defines(f, r.shaderModel))
	if err == nil && h == 0 {
		err = errZeroHandle
	}
	if err != nil {
		r.stats.Failures++
		return r.fallBack(f, err)
	}

	v := Variant{Handle: h, Flags: f}
	r.variants[f] = v
	r.last, r.haveLast = v, true
	logger.Debug("shader variant compiled",
		zap.Uint32("handle", uint32(h)),
		zap.Stringer("flags", f))
	return v
}

// fallBack narrows the session after a failed compile of f.
func (r *Resolver) fallBack(f Flags, err error) Variant {
	switch {
	case f&(FlagNormalMap|FlagHeightMap) != 0:
		if f&FlagNormalMap != 0 {
			logger.Warn("shader failed, disabling normal and height maps",
				zap.Stringer("flags", f), zap.Error(err))
			r.noNormal = true
			r.noHeight = true
		} else {
			logger.Warn("shader failed, disabling height maps",
				zap.Stringer("flags", f), zap.Error(err))
			r.noHeight = true
		}
		return r.Resolve(r.Effective(f))

	case f == 0:
		logger.Error("baseline shader failed, disabling programmable shading",
			zap.Error(err))
		r.mode = ModeFixed
		r.noNormal = true
		r.noHeight = true
		clear(r.variants)
		r.haveLast = false
		return NoVariant

	default:
		logger.Warn("shader failed, disabling model shading",
			zap.Stringer("flags", f), zap.Error(err))
		r.mode = ModeNoModelShading
		r.noNormal = true
		r.noHeight = true
		r.haveLast = false
		return NoVariant
	}
}

// Variants returns the compiled variants ordered by flags.
func (r *Resolver) Variants() []Variant {
	out := make([]Variant, 0, len(r.variants))
	for _, v := range r.variants {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b Variant) int {
		return cmp.Compare(a.Flags, b.Flags)
	})
	return out
}
