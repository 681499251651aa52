// Package cache is a content-addressed disk cache of a finished
// mir.Program, serving the external-emitter contract of spec §6: sikoc
// build writes internal/pipeline's result once per distinct encoded
// program, keyed by the SHA-256 of the snapshot's own encoding, for an
// external emitter to read. Nothing reads an entry back to skip work:
// sikoc build recompiles on every invocation, and dump-mir does not use
// the cache.
//
// Ported in shape from driver.DiskCache: a content hash names the file,
// the payload is msgpack-encoded, and Put writes through a temp file
// plus atomic rename so a concurrent reader never observes a partial
// write.
package cache

import (
	"github.com/siko-lang/sikoc/internal/mir"
)

// schemaVersion guards against decoding a Snapshot written by an
// incompatible prior layout.
const schemaVersion uint16 = 1

// ExprEntry, PatternEntry, FuncEntry, TypeDefEntry, ClosureEntry and
// PartialCallEntry pair an id with its value. Snapshot stores slices of
// these, built from idmap.Map's ascending Each order, rather than Go
// maps: msgpack does not guarantee encoding a map's keys in a stable
// order, and spec §8 property 2 (determinism) requires byte-identical
// output for identical input.
type ExprEntry struct {
	ID   mir.ExprID
	Expr mir.Expr
}

type PatternEntry struct {
	ID      mir.PatternID
	Pattern mir.Pattern
}

type FuncEntry struct {
	ID   mir.FuncID
	Func mir.Function
}

type TypeDefEntry struct {
	ID      mir.TypeDefID
	TypeDef mir.TypeDef
}

type ClosureEntry struct {
	ID      mir.ClosureID
	Closure mir.Closure
}

type PartialCallEntry struct {
	ID          mir.PartialCallID
	PartialCall mir.PartialCall
}

// Snapshot is the serializable form of a mir.Program: every table,
// flattened to an id-ordered entry slice.
type Snapshot struct {
	Schema       uint16
	Exprs        []ExprEntry
	Patterns     []PatternEntry
	Funcs        []FuncEntry
	TypeDefs     []TypeDefEntry
	Closures     []ClosureEntry
	PartialCalls []PartialCallEntry
}

// NewSnapshot flattens prog into a Snapshot ready for msgpack encoding.
func NewSnapshot(prog *mir.Program) *Snapshot {
	s := &Snapshot{Schema: schemaVersion}
	prog.Exprs.Each(func(id mir.ExprID, e mir.Expr) {
		s.Exprs = append(s.Exprs, ExprEntry{ID: id, Expr: e})
	})
	prog.Patterns.Each(func(id mir.PatternID, p mir.Pattern) {
		s.Patterns = append(s.Patterns, PatternEntry{ID: id, Pattern: p})
	})
	prog.Funcs.Each(func(id mir.FuncID, f mir.Function) {
		s.Funcs = append(s.Funcs, FuncEntry{ID: id, Func: f})
	})
	prog.TypeDefs.Each(func(id mir.TypeDefID, td mir.TypeDef) {
		s.TypeDefs = append(s.TypeDefs, TypeDefEntry{ID: id, TypeDef: td})
	})
	prog.Closures.Each(func(id mir.ClosureID, c mir.Closure) {
		s.Closures = append(s.Closures, ClosureEntry{ID: id, Closure: c})
	})
	prog.PartialCalls.Each(func(id mir.PartialCallID, pc mir.PartialCall) {
		s.PartialCalls = append(s.PartialCalls, PartialCallEntry{ID: id, PartialCall: pc})
	})
	return s
}
