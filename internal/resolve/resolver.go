package resolve

import (
	"github.com/quara-dev/fw-decoder/internal/dict"
)

// Kind classifies how an offset reference was matched against the table.
type Kind int

const (
	// Exact means the reference matched a dictionary offset directly.
	Exact Kind = iota
	// Fallback means a degraded-mode strategy supplied a best-effort entry.
	Fallback
	// Unresolved means no entry could be found at all.
	Unresolved
)

// Strategy supplies a best-effort dictionary entry for an offset reference
// that failed exact lookup. Strategies must not modify the table.
type Strategy interface {
	Resolve(offsetRef uint32, t *dict.Table) (*dict.Entry, bool)
}

// Modulo maps the reference onto the offset-ordered entry list by
// offset_ref mod table size. A dictionary built from one firmware revision
// and a log captured from a slightly different one can have offsets shifted
// by a constant or wrapped stride; exact-only resolution would silently
// lose entire logs on minor drift, while the modular mapping keeps the
// decoder usable at the cost of the occasional misattributed template.
type Modulo struct{}

// Resolve implements Strategy.
func (Modulo) Resolve(offsetRef uint32, t *dict.Table) (*dict.Entry, bool) {
	n := t.Len()
	if n == 0 {
		return nil, false
	}
	return t.At(int(offsetRef % uint32(n))), true
}

// Resolver chains exact lookup with a pluggable fallback strategy.
type Resolver struct {
	fallback Strategy
}

// New returns a resolver using the given fallback strategy. A nil strategy
// disables degraded-mode resolution entirely.
func New(fallback Strategy) *Resolver {
	return &Resolver{fallback: fallback}
}

// Default returns the resolver the pipeline normally uses: exact lookup
// with modulo fallback.
func Default() *Resolver {
	return New(Modulo{})
}

// Strict returns a resolver without any fallback; misses are unresolved.
func Strict() *Resolver {
	return New(nil)
}

// Resolve maps an offset reference to a dictionary entry. The returned
// Kind tells the caller whether the match is trustworthy, best-effort, or
// absent; an Unresolved result carries a nil entry.
func (r *Resolver) Resolve(offsetRef uint32, t *dict.Table) (*dict.Entry, Kind) {
	if e, ok := t.Lookup(offsetRef); ok {
		return e, Exact
	}
	if r.fallback != nil {
		if e, ok := r.fallback.Resolve(offsetRef, t); ok {
			return e, Fallback
		}
	}
	return nil, Unresolved
}
