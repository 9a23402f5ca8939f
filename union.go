package structargs

import (
	"fmt"
	"reflect"
)

// Union is implemented by the OneOf types. A record field of a Union type
// becomes a sub-command group with one sub-command per member record type.
// Only the OneOf types form sub-command groups.
type Union interface {
	// Value returns the chosen member, nil if none was chosen.
	Value() any
	// Members returns the member record types in invocation order.
	Members() []reflect.Type
}

// unionSetter is implemented by pointers to the OneOf types.
type unionSetter interface {
	Union
	set(v any) error
}

var (
	_ Union       = OneOf2[struct{}, struct{}]{}
	_ Union       = OneOf3[struct{}, struct{}, struct{}]{}
	_ Union       = OneOf4[struct{}, struct{}, struct{}, struct{}]{}
	_ unionSetter = &OneOf2[struct{}, struct{}]{}
	_ unionSetter = &OneOf3[struct{}, struct{}, struct{}]{}
	_ unionSetter = &OneOf4[struct{}, struct{}, struct{}, struct{}]{}
)

// OneOf2 holds one value of the record types A or B.
type OneOf2[A, B any] struct{ v any }

func (u OneOf2[A, B]) Value() any { return u.v }

func (OneOf2[A, B]) Members() []reflect.Type {
	return []reflect.Type{typeOf[A](), typeOf[B]()}
}

func (u *OneOf2[A, B]) set(v any) error { return setMember(&u.v, v, u.Members()) }

// OneOf3 holds one value of the record types A, B or C.
type OneOf3[A, B, C any] struct{ v any }

func (u OneOf3[A, B, C]) Value() any { return u.v }

func (OneOf3[A, B, C]) Members() []reflect.Type {
	return []reflect.Type{typeOf[A](), typeOf[B](), typeOf[C]()}
}

func (u *OneOf3[A, B, C]) set(v any) error { return setMember(&u.v, v, u.Members()) }

// OneOf4 holds one value of the record types A, B, C or D.
type OneOf4[A, B, C, D any] struct{ v any }

func (u OneOf4[A, B, C, D]) Value() any { return u.v }

func (OneOf4[A, B, C, D]) Members() []reflect.Type {
	return []reflect.Type{typeOf[A](), typeOf[B](), typeOf[C](), typeOf[D]()}
}

func (u *OneOf4[A, B, C, D]) set(v any) error { return setMember(&u.v, v, u.Members()) }

// As returns the chosen member of u if it is an M.
//
//	if install, ok := structargs.As[Install](args.Action); ok {
//		...
//	}
func As[M any](u Union) (M, bool) {
	m, ok := u.Value().(M)
	return m, ok
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func setMember(dst *any, v any, members []reflect.Type) error {
	if v == nil {
		*dst = nil
		return nil
	}
	t := reflect.TypeOf(v)
	for _, m := range members {
		if t == m {
			*dst = v
			return nil
		}
	}
	return fmt.Errorf("%v is not a member of %v", t, members)
}
