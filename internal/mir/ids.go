// Package mir is the monomorphic intermediate representation this core
// produces (spec §3.3): no polymorphism, no class constraints, explicit
// boxing and closure nodes, every node typed. It is built incrementally
// by internal/mono and then mutated in place by internal/legalize,
// internal/boxprop and internal/mirpass; after legalization no new
// typedefs are created (spec §3.5).
package mir

// ExprID identifies a MIR expression.
type ExprID uint32

// PatternID identifies a MIR pattern.
type PatternID uint32

// FuncID identifies a MIR function.
type FuncID uint32

// TypeDefID identifies a MIR typedef (ADT or record).
type TypeDefID uint32

// ClosureID identifies a program-interned closure descriptor.
type ClosureID uint32

// PartialCallID identifies a program-interned partial-application
// descriptor.
type PartialCallID uint32

const (
	NoExprID        ExprID        = 0
	NoPatternID     PatternID     = 0
	NoFuncID        FuncID        = 0
	NoTypeDefID     TypeDefID     = 0
	NoClosureID     ClosureID     = 0
	NoPartialCallID PartialCallID = 0
)

func (id ExprID) IsValid() bool        { return id != NoExprID }
func (id PatternID) IsValid() bool     { return id != NoPatternID }
func (id FuncID) IsValid() bool        { return id != NoFuncID }
func (id TypeDefID) IsValid() bool     { return id != NoTypeDefID }
func (id ClosureID) IsValid() bool     { return id != NoClosureID }
func (id PartialCallID) IsValid() bool { return id != NoPartialCallID }
