package derive

import "github.com/siko-lang/sikoc/internal/hir"

// Ordering/Option variant indices. spec.md leaves the exact declaration
// order of these two well-known types unspecified (original_source's
// filtered Rust sources reference siko's interpreter-level Ordering/
// Option handling but not the stdlib declarations themselves); this
// core follows the conventional declaration order (Less, Equal,
// Greater) and (None, Some), recorded as an Open Question decision in
// DESIGN.md.
const (
	OrderingLess    = 0
	OrderingEqual   = 1
	OrderingGreater = 2

	OptionNone = 0
	OptionSome = 1
)

// WellKnown resolves the handful of typedef ids spec §6 singles out by
// name ("Option"/"Option", "Ordering"/"Ordering") plus the Bool
// primitive, every one of which internal/derive's generators construct
// values of directly.
type WellKnown struct {
	Bool     hir.TypeDefID
	String   hir.TypeDefID
	Ordering hir.TypeDefID
	Option   hir.TypeDefID
}

// ResolveWellKnown looks up every type WellKnown names in p. Failure
// indicates the host program never registered one of these
// compiler-known types, an internal-error condition the caller reports
// through diag.
func ResolveWellKnown(p *hir.Program) (WellKnown, bool) {
	var wk WellKnown
	var ok bool

	if wk.Bool, ok = p.FindTypeDefByName("Bool"); !ok {
		return wk, false
	}
	if wk.String, ok = p.FindTypeDefByName("String"); !ok {
		return wk, false
	}
	if wk.Ordering, ok = p.FindTypeDef(hir.OrderingModule, hir.OrderingType); !ok {
		if wk.Ordering, ok = p.FindTypeDefByName(hir.OrderingType); !ok {
			return wk, false
		}
	}
	if wk.Option, ok = p.FindTypeDef(hir.OptionModule, hir.OptionType); !ok {
		if wk.Option, ok = p.FindTypeDefByName(hir.OptionType); !ok {
			return wk, false
		}
	}
	return wk, true
}
