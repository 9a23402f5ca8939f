package structargs

import (
	"fmt"
	"reflect"
)

// Declarer is implemented by record types describing their fields in code
// instead of struct tags. Only declared fields take part, in declaration
// order.
//
//	func (Args) DeclareArgs() []structargs.Arg {
//		return []structargs.Arg{
//			structargs.Field("Num", structargs.Default(0), structargs.Aliases("-n")),
//			structargs.Field("Files", structargs.Positional()),
//		}
//	}
type Declarer interface {
	DeclareArgs() []Arg
}

var declarerType = typeOf[Declarer]()

// Arg declares one struct field of a Declarer.
type Arg struct {
	field      string
	name       string
	def        any
	hasDefault bool
	meta       Metadata
}

// ArgOption configures an Arg.
type ArgOption func(*Arg)

// Field declares the struct field named goName.
func Field(goName string, opts ...ArgOption) Arg {
	a := Arg{field: goName, meta: Metadata{}}
	for _, o := range opts {
		o(&a)
	}
	return a
}

// Name overrides the command line name.
func Name(name string) ArgOption {
	return func(a *Arg) { a.name = name }
}

// Default sets a typed default. Optional fields take either the element or
// the pointer.
func Default(v any) ArgOption {
	return func(a *Arg) { a.def, a.hasDefault = v, true }
}

func Help(s string) ArgOption    { return Meta(MetaHelp, s) }
func Metavar(s string) ArgOption { return Meta(MetaMetavar, s) }

// Nargs accepts "?", "*", "+" or a positive int.
func Nargs(n any) ArgOption { return Meta(MetaNargs, n) }

func Choices(vs ...any) ArgOption { return Meta(MetaChoices, vs) }
func Const(v any) ArgOption       { return Meta(MetaConst, v) }

func Aliases(as ...string) ArgOption { return Meta(MetaAliases, as) }

// AliasesOverrides makes the aliases replace the long option.
func AliasesOverrides() ArgOption { return Meta(MetaAliasesOverrides, true) }

func Positional() ArgOption { return Meta(MetaPositional, true) }

// ActionKind passes a backend action such as "count" or "append".
func ActionKind(action string) ArgOption { return Meta(MetaAction, action) }

func Required(b bool) ArgOption { return Meta(MetaRequired, b) }

// Meta sets a raw metadata key. The key set is closed: nargs, choices,
// const, help, metavar, action and required are forwarded verbatim to
// argparse.Parser.AddArgument, aliases, aliases_overrides and positional
// shape the option strings. Any other key fails at Wrap.
func Meta(key string, v any) ArgOption {
	return func(a *Arg) { a.meta[key] = v }
}

func isDeclarer(t reflect.Type) bool {
	return t.Implements(declarerType) || reflect.PointerTo(t).Implements(declarerType)
}

func declaredArgs(t reflect.Type) []Arg {
	if t.Implements(declarerType) {
		return reflect.Zero(t).Interface().(Declarer).DeclareArgs()
	}
	return reflect.New(t).Interface().(Declarer).DeclareArgs()
}

func declaredFields(t reflect.Type) ([]*FieldDescriptor, error) {
	var fields []*FieldDescriptor
	for _, a := range declaredArgs(t) {
		sf, ok := t.FieldByName(a.field)
		if !ok || len(sf.Index) != 1 {
			return nil, configErrorf(t.Name(), a.field, errNoSuchField, a.field)
		}
		if !sf.IsExported() {
			return nil, configErrorf(t.Name(), a.field, errUnexported, a.field)
		}
		f, err := describeField(t, sf, a.name)
		if err != nil {
			return nil, err
		}
		for k, v := range a.meta {
			f.Metadata[k] = v
		}
		if a.hasDefault {
			v, err := declaredDefault(f.class, a.def)
			if err != nil {
				return nil, &ConfigError{Record: t.Name(), Field: a.field, Err: err}
			}
			f.Default, f.HasDefault = v, true
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// declaredDefault checks that v can be bound to a field of class c.
func declaredDefault(c *typeClass, v any) (any, error) {
	switch c.tag {
	case classUnion:
		return nil, fmt.Errorf(errUnionDefault)
	case classOptional:
		if v == nil {
			return nil, nil
		}
		if reflect.TypeOf(v) == c.typ {
			rv := reflect.ValueOf(v)
			if rv.IsNil() {
				return nil, nil
			}
			v = rv.Elem().Interface()
		}
		return declaredDefault(c.elem, v)
	}
	rv, err := coerce(v, c.typ)
	if err != nil {
		return nil, fmt.Errorf(errDefaultType, v, v, c.typ)
	}
	return rv.Interface(), nil
}
