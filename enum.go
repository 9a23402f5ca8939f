package structargs

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/canoriz/structargs/argparse"
)

// Member is one named value of an Enumeration.
type Member struct {
	Name  string
	Value any
}

// Enumeration is implemented by types with a fixed set of named values.
// Command line tokens select a member by its Name, case sensitively.
//
//	type Color int
//
//	func (Color) EnumMembers() []structargs.Member {
//		return []structargs.Member{{"red", Red}, {"green", Green}}
//	}
type Enumeration interface {
	EnumMembers() []Member
}

func enumMembers(t reflect.Type) []Member {
	if t.Implements(enumerationType) {
		return reflect.Zero(t).Interface().(Enumeration).EnumMembers()
	}
	return reflect.New(t).Interface().(Enumeration).EnumMembers()
}

// enumClass checks that every member value is a t and builds the converter
// matching member names.
func enumClass(t reflect.Type) (*typeClass, error) {
	members := enumMembers(t)
	names := make([]string, len(members))
	byName := make(map[string]any, len(members))
	for i, m := range members {
		if m.Value == nil || !reflect.TypeOf(m.Value).ConvertibleTo(t) {
			return nil, fmt.Errorf(errEnumValue, m.Name, t, m.Value)
		}
		v := reflect.ValueOf(m.Value).Convert(t).Interface()
		names[i] = m.Name
		byName[m.Name] = v
	}
	convert := func(s string) (any, error) {
		v, ok := byName[s]
		if !ok {
			return nil, fmt.Errorf(errInvalidMember, s, strings.Join(names, ", "))
		}
		return v, nil
	}
	return &typeClass{
		tag:     classEnum,
		typ:     t,
		convert: argparse.Converter(convert),
		names:   names,
	}, nil
}

func (c *typeClass) enumChoices() []any {
	choices := make([]any, len(c.names))
	for i, n := range c.names {
		choices[i], _ = c.convert(n)
	}
	return choices
}

func (c *typeClass) enumMetavar() string {
	return "{" + strings.Join(c.names, ",") + "}"
}
