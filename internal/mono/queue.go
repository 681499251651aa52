// Package mono enumerates every concrete (HIR function, arg-type list,
// result type) reachable from main and generates one MIR function for
// each (spec §4.3).
package mono

import (
	"fmt"

	"github.com/siko-lang/sikoc/internal/hir"
	"github.com/siko-lang/sikoc/internal/mir"
)

// WorkKind discriminates a WorkItem.
type WorkKind uint8

const (
	// WorkNormal requests a MIR function for one concrete instantiation
	// of an HIR function.
	WorkNormal WorkKind = iota
	// WorkExternalCallImpl requests that an auto-derived class member
	// for ClassID on ConcreteType be materialized.
	WorkExternalCallImpl
)

// WorkItem is one request on the monomorphizer's work queue.
type WorkItem struct {
	Kind WorkKind

	// WorkNormal
	FunctionID hir.FunctionID
	ArgTypes   []hir.Type
	ResultType hir.Type

	// WorkExternalCallImpl
	ClassID      hir.ClassID
	ConcreteType hir.Type
	ModuleName   string
}

// key renders the canonical (kind, arg_types, result_type) fingerprint
// spec §4.3 step 2 dedups on.
func (w WorkItem) key() string {
	switch w.Kind {
	case WorkNormal:
		s := fmt.Sprintf("N#%d(", w.FunctionID)
		for i, a := range w.ArgTypes {
			if i > 0 {
				s += ","
			}
			s += a.Signature()
		}
		return s + ")->" + w.ResultType.Signature()
	case WorkExternalCallImpl:
		return fmt.Sprintf("E#%d@%s#%s", w.ClassID, w.ModuleName, w.ConcreteType.Signature())
	default:
		return "?"
	}
}

type queued struct {
	item WorkItem
	id   mir.FuncID
}

// Queue is the deduplicating worklist of spec §4.3/§9: its canonical
// key is the tuple (kind, arg types, result type).
type Queue struct {
	assigned map[string]mir.FuncID
	fifo     []queued
}

func NewQueue() *Queue {
	return &Queue{assigned: make(map[string]mir.FuncID)}
}

// Enqueue requests a MIR function id for item. If an equivalent item
// (same canonical key) was already requested, its existing id is
// returned and nothing new is queued — spec §8 property 4,
// "work-queue idempotence".
func (q *Queue) Enqueue(item WorkItem, reserve func() mir.FuncID) mir.FuncID {
	key := item.key()
	if id, ok := q.assigned[key]; ok {
		return id
	}
	id := reserve()
	q.assigned[key] = id
	q.fifo = append(q.fifo, queued{item: item, id: id})
	return id
}

// Pop removes and returns the oldest unprocessed item, if any.
func (q *Queue) Pop() (WorkItem, mir.FuncID, bool) {
	if len(q.fifo) == 0 {
		return WorkItem{}, 0, false
	}
	qd := q.fifo[0]
	q.fifo = q.fifo[1:]
	return qd.item, qd.id, true
}
