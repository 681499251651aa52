package hir

// Class is a type class: a named set of members, each with its own
// signature, plus the classes it structurally entails (spec §4.3 step 5
// promotes Ord -> PartialEq/PartialOrd/Eq, Eq -> PartialEq).
type Class struct {
	ID          ClassID
	Name        string
	Module      ModuleID
	Constraints []ClassID
	Members     map[string]ClassMemberID
	AutoDerivable bool
}

// ClassMember is one member signature within a class, optionally with a
// default implementation used when no instance overrides it.
type ClassMember struct {
	ID                    ClassMemberID
	ClassID               ClassID
	Name                  string
	Type                  Type
	DefaultImplementation FunctionID
}

// Instance is a user-written implementation of a class for one type.
type Instance struct {
	ID      InstanceID
	ClassID ClassID
	Type    Type
	Members map[string]FunctionID
}

// ResolutionKind discriminates ResolutionResult.
type ResolutionKind uint8

const (
	ResolutionUserDefined ResolutionKind = iota
	ResolutionAutoDerived
)

// ResolutionResult is the outcome of resolving a class instance for a
// concrete type: either a user-written instance, or a request to
// auto-derive the member structurally (spec §4.7).
type ResolutionResult struct {
	Kind       ResolutionKind
	InstanceID InstanceID // UserDefined only
}
