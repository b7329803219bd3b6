package unit

import (
	"errors"
	"fmt"
	"reflect"
)

// Kind classifies failures for AssertError and AssertNoError.
type Kind interface {
	// Match reports whether err is of this kind.
	Match(err error) bool
	String() string

	validate() error
}

// KindOf matches failures that are, or wrap, a value of type T.
//
//	b.AssertError(unit.KindOf[*fs.PathError](), open, "missing file")
func KindOf[T error]() Kind {
	return typeKind[T]{}
}

// KindIs matches failures for which errors.Is(err, target) holds.
func KindIs(target error) Kind {
	return sentinelKind{target: target}
}

type typeKind[T error] struct{}

func (typeKind[T]) Match(err error) bool {
	var target T
	return errors.As(err, &target)
}

func (typeKind[T]) String() string {
	return reflect.TypeFor[T]().String()
}

func (typeKind[T]) validate() error { return nil }

type sentinelKind struct {
	target error
}

func (k sentinelKind) Match(err error) bool {
	return errors.Is(err, k.target)
}

func (k sentinelKind) String() string {
	return fmt.Sprintf("%q", k.target)
}

func (k sentinelKind) validate() error {
	if k.target == nil {
		return errors.New("sentinel kind has a nil target")
	}
	return nil
}

// checkKind validates the arguments of an error-expectation helper.
func checkKind(helper string, kind Kind, fn func() error) error {
	if kind == nil {
		return &MisuseError{Func: helper, Reason: "kind is nil"}
	}
	if err := kind.validate(); err != nil {
		return &MisuseError{Func: helper, Reason: err.Error()}
	}
	if fn == nil {
		return &MisuseError{Func: helper, Reason: "function is nil"}
	}
	return nil
}
