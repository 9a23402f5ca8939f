package structargs

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/canoriz/structargs/argparse"
)

// Value is a custom argument type parsed from one command line token.
// It is implemented on the pointer, FromString is called on a fresh value.
type Value interface {
	FromString(s string) error
}

// Exampler is optionally implemented by Values. The example must be accepted
// by FromString, it is shown in help.
type Exampler interface {
	Example() string
}

// newTarget returns a fresh pointer to decode a t into and a function
// returning the decoded t. t is either the pointer type itself or the type
// whose pointer implements the decoder.
func newTarget(t reflect.Type, iface reflect.Type) (any, func() any) {
	if t.Kind() == reflect.Pointer && t.Implements(iface) {
		p := reflect.New(t.Elem())
		return p.Interface(), p.Interface
	}
	p := reflect.New(t)
	return p.Interface(), func() any { return p.Elem().Interface() }
}

func valueClass(t reflect.Type) (*typeClass, error) {
	convert := func(s string) (any, error) {
		target, result := newTarget(t, valueType)
		if err := target.(Value).FromString(s); err != nil {
			return nil, err
		}
		return result(), nil
	}
	c := &typeClass{tag: classValue, typ: t, convert: argparse.Converter(convert)}

	target, _ := newTarget(t, valueType)
	if ex, ok := target.(Exampler); ok {
		c.example = ex.Example()
		if _, err := convert(c.example); err != nil {
			return nil, fmt.Errorf(errNotValidExample, c.example, t, err)
		}
	}
	return c, nil
}

func textClass(t reflect.Type) (*typeClass, error) {
	convert := func(s string) (any, error) {
		target, result := newTarget(t, textUnmarshalerType)
		if err := target.(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return nil, err
		}
		return result(), nil
	}
	return &typeClass{tag: classValue, typ: t, convert: argparse.Converter(convert)}, nil
}
