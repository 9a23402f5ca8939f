package structargs

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"

	"github.com/canoriz/structargs/argparse"
)

type classTag int

const (
	classScalar classTag = iota
	classString
	classBool
	classEnum
	classValue
	classSequence
	classOptional
	classUnion
)

var classNames = [...]string{
	classScalar:   "scalar",
	classString:   "string",
	classBool:     "bool",
	classEnum:     "enum",
	classValue:    "value",
	classSequence: "sequence",
	classOptional: "optional",
	classUnion:    "union",
}

func (t classTag) String() string {
	return classNames[t]
}

// typeClass is the classification of a field type, computed once per field.
type typeClass struct {
	tag  classTag
	typ  reflect.Type
	elem *typeClass // sequence and optional

	convert argparse.Converter
	names   []string // enum member names
	example string   // value example
}

var (
	unionType           = typeOf[unionSetter]()
	enumerationType     = typeOf[Enumeration]()
	valueType           = typeOf[Value]()
	textUnmarshalerType = typeOf[encoding.TextUnmarshaler]()
)

// dispatchRule classifies the types implementing iface or, when iface is
// nil, the types of kind.
type dispatchRule struct {
	iface    reflect.Type
	kind     reflect.Kind
	classify func(t reflect.Type) (*typeClass, error)
}

var (
	// specialRules are tried before kindRules, in order
	specialRules []dispatchRule
	kindRules    []dispatchRule
)

func init() {
	specialRules = []dispatchRule{
		{iface: unionType, classify: unionClass},
		{iface: enumerationType, classify: enumClass},
		{iface: valueType, classify: valueClass},
		{iface: textUnmarshalerType, classify: textClass},
	}
	kindRules = []dispatchRule{
		{kind: reflect.String, classify: stringClass},
		{kind: reflect.Slice, classify: sequenceClass},
		{kind: reflect.Pointer, classify: optionalClass},
		{kind: reflect.Bool, classify: boolClass},
	}
}

// implements reports whether t, or *t, implements iface. A pointer type does
// not match through the methods of its element, so *Color stays optional.
func implements(t, iface reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		return t.Implements(iface) && !t.Elem().Implements(iface)
	}
	return t.Implements(iface) || reflect.PointerTo(t).Implements(iface)
}

func classify(t reflect.Type) (*typeClass, error) {
	for _, r := range specialRules {
		if implements(t, r.iface) {
			return r.classify(t)
		}
	}
	for _, r := range kindRules {
		if t.Kind() == r.kind {
			return r.classify(t)
		}
	}
	return scalarClass(t)
}

func scalarClass(t reflect.Type) (*typeClass, error) {
	convert, ok := scalarConverter(t)
	if !ok {
		return nil, fmt.Errorf(errUnsupported, t)
	}
	return &typeClass{tag: classScalar, typ: t, convert: convert}, nil
}

func stringClass(t reflect.Type) (*typeClass, error) {
	convert, _ := scalarConverter(t)
	return &typeClass{tag: classString, typ: t, convert: convert}, nil
}

func boolClass(t reflect.Type) (*typeClass, error) {
	convert, _ := scalarConverter(t)
	return &typeClass{tag: classBool, typ: t, convert: convert}, nil
}

func sequenceClass(t reflect.Type) (*typeClass, error) {
	elem, err := classify(t.Elem())
	if err != nil {
		return nil, err
	}
	switch elem.tag {
	case classSequence, classOptional, classUnion:
		return nil, fmt.Errorf(errNested, t.Elem(), t)
	}
	return &typeClass{tag: classSequence, typ: t, elem: elem}, nil
}

func optionalClass(t reflect.Type) (*typeClass, error) {
	elem, err := classify(t.Elem())
	if err != nil {
		return nil, err
	}
	switch elem.tag {
	case classOptional, classUnion:
		return nil, fmt.Errorf(errNested, t.Elem(), t)
	}
	return &typeClass{tag: classOptional, typ: t, elem: elem}, nil
}

func unionClass(t reflect.Type) (*typeClass, error) {
	if t.Kind() == reflect.Pointer {
		return nil, fmt.Errorf(errUnsupported, t)
	}
	return &typeClass{tag: classUnion, typ: t}, nil
}

func unionMembers(t reflect.Type) []reflect.Type {
	return reflect.New(t).Interface().(Union).Members()
}

// elementClass is the class converting each token of c.
func (c *typeClass) elementClass() *typeClass {
	for c.elem != nil {
		c = c.elem
	}
	return c
}

// dispatch returns the kwargs the class c contributes for f, over being the
// overrides carried from enclosing containers.
func dispatch(f *FieldDescriptor, c *typeClass, over argparse.Kwargs) (argparse.Kwargs, error) {
	kw := over.Clone()
	switch c.tag {
	case classBool:
		if _, ok := kw[argparse.KeyNargs]; ok || kw[argparse.KeyAction] == argparse.Append {
			// element of a sequence: each token is parsed as a bool
			kw[argparse.KeyType] = c.convert
			return kw, nil
		}
		delete(kw, argparse.KeyType)
		if f.HasDefault && truthy(f.Default) {
			kw[argparse.KeyAction] = argparse.StoreFalse
		} else {
			kw[argparse.KeyAction] = argparse.StoreTrue
		}
		if !f.HasDefault {
			if _, ok := kw[argparse.KeyDefault]; !ok {
				kw[argparse.KeyDefault] = false
			}
		}
		return kw, nil

	case classSequence:
		if metaAction(f) == argparse.Append {
			// one value per occurrence
			if n, ok := f.Metadata[MetaNargs]; ok {
				return nil, fmt.Errorf(errAppendNargs, n)
			}
			kw[argparse.KeyAction] = argparse.Append
			return dispatch(f, c.elem, kw)
		}
		nargs, err := sequenceNargs(f)
		if err != nil {
			return nil, err
		}
		empty := reflect.MakeSlice(c.typ, 0, 0).Interface()
		if nargs == argparse.NargsZeroOrMore && !f.HasDefault {
			if _, ok := kw[argparse.KeyDefault]; !ok {
				kw[argparse.KeyDefault] = empty
			}
		}
		if nargs == argparse.NargsOptional {
			// a single token, bound as a one element slice
			if _, ok := f.Metadata[MetaConst]; !ok {
				kw[argparse.KeyConst] = empty
			}
		}
		kw[argparse.KeyNargs] = nargs
		return dispatch(f, c.elem, kw)

	case classOptional:
		if !f.HasDefault {
			kw[argparse.KeyDefault] = nil
		}
		return dispatch(f, c.elem, kw)

	case classEnum:
		kw[argparse.KeyType] = c.convert
		kw[argparse.KeyChoices] = c.enumChoices()
		if _, ok := f.Metadata[MetaMetavar]; !ok {
			kw[argparse.KeyMetavar] = c.enumMetavar()
		}
		return kw, nil

	case classValue:
		kw[argparse.KeyType] = c.convert
		if c.example != "" {
			help, _ := f.Metadata[MetaHelp].(string)
			if help != "" {
				help += " "
			}
			kw[argparse.KeyHelp] = help + fmt.Sprintf("(example: %s)", c.example)
		}
		return kw, nil

	case classScalar, classString:
		kw[argparse.KeyType] = c.convert
		return kw, nil
	}
	return nil, fmt.Errorf(errUnsupported, c.typ)
}

// sequenceNargs is the nargs of a sequence field: the declared one, else
// "+" without a default and "*" with one.
func sequenceNargs(f *FieldDescriptor) (argparse.Nargs, error) {
	v, ok := f.Metadata[MetaNargs]
	if !ok {
		if f.HasDefault {
			return argparse.NargsZeroOrMore, nil
		}
		return argparse.NargsOneOrMore, nil
	}
	switch n := v.(type) {
	case int:
		if n > 0 {
			return argparse.NargsN(n), nil
		}
	case string:
		switch argparse.Nargs(n) {
		case argparse.NargsOptional, argparse.NargsZeroOrMore, argparse.NargsOneOrMore:
			return argparse.Nargs(n), nil
		}
		if i, err := strconv.Atoi(n); err == nil && i > 0 {
			return argparse.NargsN(i), nil
		}
	case argparse.Nargs:
		return sequenceNargs(&FieldDescriptor{Metadata: Metadata{MetaNargs: string(n)}})
	}
	return "", fmt.Errorf(errSeqNargs, v)
}

// metaAction is the backend action declared for f, empty if none.
func metaAction(f *FieldDescriptor) argparse.ActionKind {
	switch a := f.Metadata[MetaAction].(type) {
	case string:
		return argparse.ActionKind(a)
	case argparse.ActionKind:
		return a
	}
	return ""
}

func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Bool {
		return rv.Bool()
	}
	return !rv.IsZero()
}
