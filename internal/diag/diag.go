// Package diag is the shared error-context collaborator of spec §7.
//
// Every user-facing error (type mismatches, missing instances, syntax
// errors) is produced upstream of this core by the parser/checker. This
// core surfaces exactly one error class: internal invariant violations.
// Every pass that hits one builds an ICE diagnostic and returns it as an
// error instead of panicking, so the pipeline driver (internal/pipeline)
// can abort cleanly at a known point.
package diag

import (
	"fmt"

	"github.com/siko-lang/sikoc/internal/source"
)

// Severity classifies a diagnostic. The core only ever emits SeverityICE,
// but the type carries the other levels so internal/diag can be reused
// by collaborators that do produce user-facing diagnostics.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityICE
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityICE:
		return "internal error"
	default:
		return "unknown"
	}
}

// Code identifies a diagnostic kind, grouped by the pass that raises it.
type Code uint16

const (
	UnknownCode Code = 0

	// Monomorphizer (§4.3)
	ICEUnresolvedTypeVar     Code = 1001
	ICEDuplicateQueueInsert  Code = 1002
	ICEMissingFunctionBody   Code = 1003
	ICEUnsupportedDerivation Code = 1004

	// Type & typedef store (§4.2)
	ICERefOfNonStruct Code = 1101
	ICETypeVarEscaped Code = 1102

	// Data-type legalization (§4.4)
	ICEEmptySCC           Code = 1201
	ICEUnresolvedTypedef  Code = 1202
	ICENonFiniteAfterBox Code = 1203

	// Box propagation / closure conversion (§4.5-4.6)
	ICEPatternTypeMissing Code = 1301
	ICEBareFunctionType   Code = 1302
	ICEOverApplication    Code = 1303
)

// Note is auxiliary context attached to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one reported condition.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Span     source.Span
	Message  string
	Notes    []Note
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s [%s %d]", d.Span, d.Message, d.Severity, d.Code)
}

// Bag collects diagnostics in insertion order. The core's passes each own
// one Bag for the duration of a single pass invocation.
type Bag struct {
	items []Diagnostic
}

// NewBag returns an empty diagnostic bag.
func NewBag() *Bag {
	return &Bag{}
}

// ICE appends an internal-invariant-violation diagnostic and returns it
// as an error, so callers can write `return b.ICE(...)`.
func (b *Bag) ICE(code Code, span source.Span, format string, args ...any) error {
	d := Diagnostic{
		Code:     code,
		Severity: SeverityICE,
		Span:     span,
		Message:  fmt.Sprintf(format, args...),
	}
	b.items = append(b.items, d)
	return d
}

// Note attaches an auxiliary note to the most recently added diagnostic.
func (b *Bag) Note(span source.Span, format string, args ...any) {
	if len(b.items) == 0 {
		return
	}
	last := &b.items[len(b.items)-1]
	last.Notes = append(last.Notes, Note{Span: span, Msg: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether the bag contains any diagnostic of
// SeverityError or above.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity >= SeverityError {
			return true
		}
	}
	return false
}

// Items returns the diagnostics collected so far, in insertion order.
func (b *Bag) Items() []Diagnostic {
	return b.items
}
