package mono_test

import (
	"testing"

	"github.com/siko-lang/sikoc/internal/hir"
	"github.com/siko-lang/sikoc/internal/mir"
	"github.com/siko-lang/sikoc/internal/mono"
)

func makeReserver(calls *int) func() mir.FuncID {
	return func() mir.FuncID {
		*calls++
		return mir.FuncID(*calls)
	}
}

// TestQueueDedupesEquivalentWorkItems covers spec §8 property 4,
// "work-queue idempotence": two requests with the same canonical
// (kind, arg types, result type) key must resolve to one function id
// without a second reservation.
func TestQueueDedupesEquivalentWorkItems(t *testing.T) {
	q := mono.NewQueue()

	intType := hir.Named("Int", 1)
	item := mono.WorkItem{Kind: mono.WorkNormal, FunctionID: 7, ArgTypes: []hir.Type{intType}, ResultType: intType}
	sameItem := mono.WorkItem{Kind: mono.WorkNormal, FunctionID: 7, ArgTypes: []hir.Type{intType}, ResultType: intType}
	differentResult := mono.WorkItem{Kind: mono.WorkNormal, FunctionID: 7, ArgTypes: []hir.Type{intType}, ResultType: hir.Named("Bool", 2)}

	var calls int
	id1 := q.Enqueue(item, makeReserver(&calls))
	id2 := q.Enqueue(sameItem, makeReserver(&calls))
	id3 := q.Enqueue(differentResult, makeReserver(&calls))

	if id1 != id2 {
		t.Fatalf("expected equivalent work items to share a function id, got %d and %d", id1, id2)
	}
	if id3 == id1 {
		t.Fatal("expected a different result type to get a distinct function id")
	}
	if calls != 2 {
		t.Fatalf("expected exactly 2 reservations (dedup must skip the third), got %d", calls)
	}

	_, _, ok := q.Pop()
	if !ok {
		t.Fatal("expected the first queued item to be poppable")
	}
	_, _, ok = q.Pop()
	if !ok {
		t.Fatal("expected the second distinct item to be poppable")
	}
	_, _, ok = q.Pop()
	if ok {
		t.Fatal("expected the queue to be empty after popping both distinct items")
	}
}

// TestWorkExternalCallImplKeyIsDistinctFromNormal guards against the
// two WorkKinds colliding on the same canonical key for otherwise
// similar-looking fields.
func TestWorkExternalCallImplKeyIsDistinctFromNormal(t *testing.T) {
	q := mono.NewQueue()
	intType := hir.Named("Int", 1)

	normal := mono.WorkItem{Kind: mono.WorkNormal, FunctionID: 1, ResultType: intType}
	external := mono.WorkItem{Kind: mono.WorkExternalCallImpl, ClassID: 1, ConcreteType: intType, ModuleName: "Prelude"}

	var calls int
	id1 := q.Enqueue(normal, makeReserver(&calls))
	id2 := q.Enqueue(external, makeReserver(&calls))
	if id1 == id2 {
		t.Fatal("expected WorkNormal and WorkExternalCallImpl to never collide on key")
	}
}
