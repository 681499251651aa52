// Package hirio serializes and deserializes an *hir.Program, giving
// spec §6's external interface ("HIR handed to this core by an
// out-of-scope parser/checker") a concrete wire format: the same
// id-ordered-map idiom internal/cache uses for the MIR side of the
// boundary, msgpack-encoded to a single file. The frontend that
// produces the HIR (lexer, parser, name resolver, type checker) stays
// out of scope per spec §6; this package only carries its output
// across a process boundary to cmd/sikoc.
package hirio

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/siko-lang/sikoc/internal/hir"
)

// Snapshot is the serializable form of an hir.Program.
type Snapshot struct {
	Modules   []ModuleEntry
	Exprs     []ExprEntry
	Patterns  []PatternEntry
	Functions []FunctionEntry
	TypeDefs  []TypeDefEntry
	Classes   []ClassEntry
	Instances []InstanceEntry
}

type ModuleEntry struct {
	ID   hir.ModuleID
	Name string
}

type ExprEntry struct {
	ID   hir.ExprID
	Expr hir.Expr
}

type PatternEntry struct {
	ID      hir.PatternID
	Pattern hir.Pattern
}

type FunctionEntry struct {
	ID       hir.FunctionID
	Function hir.Function
}

type TypeDefEntry struct {
	ID      hir.TypeDefID
	TypeDef hir.TypeDef
}

type ClassEntry struct {
	ID    hir.ClassID
	Class hir.Class
}

type InstanceEntry struct {
	ID       hir.InstanceID
	Instance hir.Instance
}

// NewSnapshot flattens p into a Snapshot ready for msgpack encoding.
// Exprs and Patterns are included as their own id-ordered tables: a
// Function/TypeDef only ever holds an ExprID/PatternID, resolved back
// to its node through p.Exprs/p.Patterns, so the tables themselves have
// to travel across the wire too.
func NewSnapshot(p *hir.Program) *Snapshot {
	s := &Snapshot{}
	p.Modules.Each(func(id hir.ModuleID, name string) {
		s.Modules = append(s.Modules, ModuleEntry{ID: id, Name: name})
	})
	p.Exprs.Each(func(id hir.ExprID, e *hir.Expr) {
		if e != nil {
			s.Exprs = append(s.Exprs, ExprEntry{ID: id, Expr: *e})
		}
	})
	p.Patterns.Each(func(id hir.PatternID, pat *hir.Pattern) {
		if pat != nil {
			s.Patterns = append(s.Patterns, PatternEntry{ID: id, Pattern: *pat})
		}
	})
	p.Functions.Each(func(id hir.FunctionID, f *hir.Function) {
		if f != nil {
			s.Functions = append(s.Functions, FunctionEntry{ID: id, Function: *f})
		}
	})
	p.TypeDefs.Each(func(id hir.TypeDefID, td *hir.TypeDef) {
		if td != nil {
			s.TypeDefs = append(s.TypeDefs, TypeDefEntry{ID: id, TypeDef: *td})
		}
	})
	p.Classes.Each(func(id hir.ClassID, c *hir.Class) {
		if c != nil {
			s.Classes = append(s.Classes, ClassEntry{ID: id, Class: *c})
		}
	})
	p.Instances.Each(func(id hir.InstanceID, inst *hir.Instance) {
		if inst != nil {
			s.Instances = append(s.Instances, InstanceEntry{ID: id, Instance: *inst})
		}
	})
	return s
}

// Save encodes p and writes it to path.
func Save(path string, p *hir.Program) error {
	data, err := msgpack.Marshal(NewSnapshot(p))
	if err != nil {
		return fmt.Errorf("hirio: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("hirio: %w", err)
	}
	return nil
}

// Load reads path and reconstructs an hir.Program from it.
func Load(path string) (*hir.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hirio: %w", err)
	}
	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("hirio: decode: %w", err)
	}

	p := hir.NewProgram()
	for _, e := range snap.Modules {
		p.Modules.Set(e.ID, e.Name)
	}
	for _, e := range snap.Exprs {
		expr := e.Expr
		p.Exprs.Set(e.ID, &expr)
	}
	for _, e := range snap.Patterns {
		pat := e.Pattern
		p.Patterns.Set(e.ID, &pat)
	}
	for _, e := range snap.Functions {
		f := e.Function
		p.Functions.Set(e.ID, &f)
	}
	for _, e := range snap.TypeDefs {
		td := e.TypeDef
		p.TypeDefs.Set(e.ID, &td)
	}
	for _, e := range snap.Classes {
		c := e.Class
		p.Classes.Set(e.ID, &c)
	}
	for _, e := range snap.Instances {
		inst := e.Instance
		p.Instances.Set(e.ID, &inst)
		p.IndexInstance(&inst)
	}
	return p, nil
}
