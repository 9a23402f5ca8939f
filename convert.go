package structargs

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/canoriz/structargs/argparse"
)

var durationType = reflect.TypeOf(time.Duration(0))

// scalarConverter returns the converter of the basic kinds, or false when t
// has none.
func scalarConverter(t reflect.Type) (argparse.Converter, bool) {
	if t == durationType {
		return func(s string) (any, error) {
			return time.ParseDuration(s)
		}, true
	}
	switch t.Kind() {
	case reflect.String:
		return func(s string) (any, error) {
			return reflect.ValueOf(s).Convert(t).Interface(), nil
		}, true
	case reflect.Bool:
		return func(s string) (any, error) {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return nil, err
			}
			return reflect.ValueOf(b).Convert(t).Interface(), nil
		}, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(s string) (any, error) {
			n, err := strconv.ParseInt(s, 0, t.Bits())
			if err != nil {
				return nil, err
			}
			return reflect.ValueOf(n).Convert(t).Interface(), nil
		}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return func(s string) (any, error) {
			n, err := strconv.ParseUint(s, 0, t.Bits())
			if err != nil {
				return nil, err
			}
			return reflect.ValueOf(n).Convert(t).Interface(), nil
		}, true
	case reflect.Float32, reflect.Float64:
		return func(s string) (any, error) {
			f, err := strconv.ParseFloat(s, t.Bits())
			if err != nil {
				return nil, err
			}
			return reflect.ValueOf(f).Convert(t).Interface(), nil
		}, true
	}
	return nil, false
}

// parseDefault converts a default given as text. Sequences split on ",",
// optionals hold the converted element.
func parseDefault(c *typeClass, s string) (any, error) {
	switch c.tag {
	case classUnion:
		return nil, fmt.Errorf(errUnionDefault)
	case classOptional:
		return parseDefault(c.elem, s)
	case classSequence:
		seq := reflect.MakeSlice(c.typ, 0, 0)
		if strings.TrimSpace(s) == "" {
			return seq.Interface(), nil
		}
		for _, part := range strings.Split(s, ",") {
			v, err := parseDefault(c.elem, strings.TrimSpace(part))
			if err != nil {
				return nil, err
			}
			seq = reflect.Append(seq, reflect.ValueOf(v))
		}
		return seq.Interface(), nil
	}
	v, err := c.convert(s)
	if err != nil {
		return nil, fmt.Errorf(errParseDefault, s, err)
	}
	return v, nil
}

// coerce turns a parsed or declared value into a t. nil gives the zero
// value, pointers are allocated and lists are converted element wise.
func coerce(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		out := reflect.New(t).Elem()
		out.Set(rv)
		return out, nil
	}
	switch {
	case t.Kind() == reflect.Pointer:
		elem, err := coerce(v, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(elem)
		return p, nil
	case t.Kind() == reflect.Slice && rv.Kind() != reflect.Slice:
		// a single token of nargs "?"
		elem, err := coerce(v, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.MakeSlice(t, 1, 1)
		out.Index(0).Set(elem)
		return out, nil
	case t.Kind() == reflect.Slice && rv.Kind() == reflect.Slice:
		out := reflect.MakeSlice(t, rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			elem, err := coerce(rv.Index(i).Interface(), t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(elem)
		}
		return out, nil
	case sameKindGroup(rv.Kind(), t.Kind()):
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %v (%T) as %v", v, v, t)
}

func kindGroup(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return 1
	case reflect.String:
		return 2
	case reflect.Bool:
		return 3
	}
	return 0
}

func sameKindGroup(a, b reflect.Kind) bool {
	g := kindGroup(a)
	return g != 0 && g == kindGroup(b)
}
