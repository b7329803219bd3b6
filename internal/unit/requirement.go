package unit

import "reflect"

// Requirement is a prerequisite declared by a unit.
type Requirement struct {
	// Target is the identity of the required unit.
	Target string

	// NeedOK requires the target to have completed with every outcome
	// passing. Without it the target only has to have been attempted.
	NeedOK bool

	// New builds a fresh instance of the target when it has not run yet.
	New func() Unit
}

// Identified lets a unit choose its own identity instead of its type name.
type Identified interface {
	UnitID() string
}

// IdentityOf returns the identity of u: UnitID when u implements
// Identified, otherwise the import path qualified name of its concrete type.
func IdentityOf(u any) string {
	if id, ok := u.(Identified); ok {
		return id.UnitID()
	}
	t := reflect.TypeOf(u)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// Require declares that the unit *T must have been attempted first.
func Require[T any, P interface {
	*T
	Unit
}]() Requirement {
	return requirementFor[T, P](false)
}

// RequireOK declares that the unit *T must have completed and passed.
func RequireOK[T any, P interface {
	*T
	Unit
}]() Requirement {
	return requirementFor[T, P](true)
}

func requirementFor[T any, P interface {
	*T
	Unit
}](needOK bool) Requirement {
	factory := func() Unit { return P(new(T)) }
	return Requirement{
		Target: IdentityOf(factory()),
		NeedOK: needOK,
		New:    factory,
	}
}

// RequireFunc declares a requirement built by factory. An empty id is
// derived from the unit the factory returns. A nil factory panics with a
// *MisuseError since a requirement that cannot be built can never be met.
func RequireFunc(id string, factory func() Unit, needOK bool) Requirement {
	if factory == nil {
		panic(&MisuseError{Func: "RequireFunc", Reason: "factory is nil"})
	}
	if id == "" {
		id = IdentityOf(factory())
	}
	return Requirement{Target: id, NeedOK: needOK, New: factory}
}
