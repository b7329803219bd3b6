package unit

import (
	"reflect"
	"sort"

	"golang.org/x/text/cases"
)

// Operation is one invokable test operation of a unit.
type Operation struct {
	Name string
	Fn   func() error
}

// Operable units supply their own operation table. Units that do not
// implement it have their operations discovered by Reflect.
type Operable interface {
	Operations() []Operation
}

// reservedNames are the lifecycle hook names, case folded. They are never
// operations.
var reservedNames = foldAll("BeforeAll", "AfterAll", "BeforeEach", "AfterEach", "OnFailure")

func foldAll(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[cases.Fold().String(n)] = true
	}
	return set
}

// IsReserved reports whether name is a lifecycle hook name, ignoring case.
func IsReserved(name string) bool {
	// A Caser holds state, so each call folds with its own.
	return reservedNames[cases.Fold().String(name)]
}

// Table builds an operation table. Entries with a reserved name, an empty
// name or a nil function are dropped, as are repeated names after the
// first.
func Table(ops ...Operation) []Operation {
	seen := make(map[string]bool, len(ops))
	table := make([]Operation, 0, len(ops))
	for _, op := range ops {
		if op.Name == "" || op.Fn == nil || IsReserved(op.Name) || seen[op.Name] {
			continue
		}
		seen[op.Name] = true
		table = append(table, op)
	}
	return table
}

// Operations returns the operation table of u.
func Operations(u Unit) []Operation {
	if o, ok := u.(Operable); ok {
		return Table(o.Operations()...)
	}
	return Reflect(u)
}

var errorType = reflect.TypeFor[error]()

// Reflect discovers the operations of u: its exported methods of type
// func() error or func(), excluding reserved hook names. The helpers Base
// promotes never have an operation signature, so a unit method that
// shadows one (Contains, Equal) is an operation. Operations are sorted by
// name.
func Reflect(u Unit) []Operation {
	v := reflect.ValueOf(u)
	t := v.Type()
	var ops []Operation
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if IsReserved(m.Name) {
			continue
		}
		fn := operationFunc(v.Method(i))
		if fn == nil {
			continue
		}
		ops = append(ops, Operation{Name: m.Name, Fn: fn})
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
	return ops
}

func operationFunc(m reflect.Value) func() error {
	mt := m.Type()
	if mt.NumIn() != 0 {
		return nil
	}
	switch {
	case mt.NumOut() == 0:
		f := m.Interface().(func())
		return func() error { f(); return nil }
	case mt.NumOut() == 1 && mt.Out(0) == errorType:
		return m.Interface().(func() error)
	}
	return nil
}
