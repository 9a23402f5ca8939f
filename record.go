package structargs

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// metadata keys of a FieldDescriptor
const (
	MetaNargs            = "nargs"
	MetaChoices          = "choices"
	MetaConst            = "const"
	MetaHelp             = "help"
	MetaMetavar          = "metavar"
	MetaAliases          = "aliases"
	MetaAliasesOverrides = "aliases_overrides"
	MetaPositional       = "positional"
	MetaAction           = "action"
	MetaRequired         = "required"
)

// metaKeys is the closed metadata set, kwargsMeta the part of it passed
// through to the backend.
var metaKeys = map[string]bool{
	MetaNargs: true, MetaChoices: true, MetaConst: true, MetaHelp: true,
	MetaMetavar: true, MetaAliases: true, MetaAliasesOverrides: true,
	MetaPositional: true, MetaAction: true, MetaRequired: true,
}

// Metadata holds the parsing options of a field. It must not be modified
// after Wrap returns.
type Metadata map[string]any

func (m Metadata) flag(key string) bool {
	b, _ := m[key].(bool)
	return b
}

func (m Metadata) aliases() []string {
	as, _ := m[MetaAliases].([]string)
	return as
}

// FieldDescriptor describes one field of a record type taking part in the
// command line.
type FieldDescriptor struct {
	// Name is the command line name in snake case, unique in its record.
	Name       string
	Type       reflect.Type
	Default    any
	HasDefault bool
	Metadata   Metadata

	goName string
	index  []int
	class  *typeClass
}

// IsRequired reports whether the field has no default.
func (f *FieldDescriptor) IsRequired() bool {
	return !f.HasDefault
}

// IsPositional reports whether the field is identified by position.
func (f *FieldDescriptor) IsPositional() bool {
	return f.Metadata.flag(MetaPositional)
}

// GoName is the name of the struct field.
func (f *FieldDescriptor) GoName() string {
	return f.goName
}

// RecordType is a struct type wrapped for parser construction.
type RecordType struct {
	typ       reflect.Type
	ecosystem string
	fields    []*FieldDescriptor
	config    Config
}

// ecosystem is one way of describing the fields of a record type.
type ecosystem struct {
	name    string
	matches func(t reflect.Type) bool
	fields  func(t reflect.Type) ([]*FieldDescriptor, error)
}

// ecosystems are probed in order, the first match wins.
var ecosystems = []ecosystem{
	{"declared", isDeclarer, declaredFields},
	{"tagged", func(reflect.Type) bool { return true }, taggedFields},
}

// Wrap introspects the struct type t. Errors other than ErrNotARecordType are
// *ConfigError.
func Wrap(t reflect.Type) (*RecordType, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: "+errNotStruct, ErrNotARecordType, t)
	}
	r := &RecordType{typ: t, config: recordConfig(t)}
	for _, e := range ecosystems {
		if !e.matches(t) {
			continue
		}
		fields, err := e.fields(t)
		if err != nil {
			return nil, err
		}
		r.ecosystem, r.fields = e.name, fields
		break
	}

	names := make(map[string]bool, len(r.fields))
	for _, f := range r.fields {
		if names[f.Name] {
			return nil, configErrorf(r.Name(), f.goName, errFieldRedefined, f.Name)
		}
		names[f.Name] = true
		for k := range f.Metadata {
			if !metaKeys[k] {
				return nil, configErrorf(r.Name(), f.goName, errUnknownMeta, k)
			}
		}
	}
	return r, nil
}

func recordConfig(t reflect.Type) Config {
	switch {
	case t.Implements(configurerType):
		return reflect.Zero(t).Interface().(Configurer).ArgsConfig()
	case reflect.PointerTo(t).Implements(configurerType):
		return reflect.New(t).Interface().(Configurer).ArgsConfig()
	}
	return Config{}
}

var configurerType = typeOf[Configurer]()

// Type returns the wrapped struct type.
func (r *RecordType) Type() reflect.Type { return r.typ }

// Name returns the Go name of the wrapped type.
func (r *RecordType) Name() string { return r.typ.Name() }

// Fields returns the fields in declaration order.
func (r *RecordType) Fields() []*FieldDescriptor {
	return append([]*FieldDescriptor(nil), r.fields...)
}

// Field returns the field with the command line name.
func (r *RecordType) Field(name string) (*FieldDescriptor, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

func (r *RecordType) Config() Config { return r.config }

func (r *RecordType) SubcommandsConfig() SubcommandsConfig { return r.config.Subcommands }

// DisplayName is the name invoking r as a sub-command: Config.Name, else the
// type name in kebab case.
func (r *RecordType) DisplayName() string {
	if r.config.Name != "" {
		return r.config.Name
	}
	return kebabCase(r.typ.Name())
}

// unionField returns the field holding sub-commands, nil if there is none.
func (r *RecordType) unionField() *FieldDescriptor {
	for _, f := range r.fields {
		if f.class.tag == classUnion {
			return f
		}
	}
	return nil
}

// describeField classifies the struct field and fills the descriptor parts
// shared by all ecosystems.
func describeField(t reflect.Type, sf reflect.StructField, name string) (*FieldDescriptor, error) {
	class, err := classify(sf.Type)
	if err != nil {
		return nil, &ConfigError{Record: t.Name(), Field: sf.Name, Err: err}
	}
	if name == "" {
		name = snakeCase(sf.Name)
	}
	return &FieldDescriptor{
		Name:     name,
		Type:     sf.Type,
		Metadata: Metadata{},
		goName:   sf.Name,
		index:    sf.Index,
		class:    class,
	}, nil
}

const (
	tagFlag             = "flag"
	tagDefault          = "default"
	tagHelp             = "help"
	tagUsage            = "usage"
	tagMetavar          = "metavar"
	tagNargs            = "nargs"
	tagChoices          = "choices"
	tagConst            = "const"
	tagAliases          = "aliases"
	tagAliasesOverrides = "aliases_overrides"
	tagArg              = "arg"
	tagAction           = "action"
	tagRequired         = "required"
)

// taggedFields describes every exported field of t by its struct tags.
//
//	type Args struct {
//		Num   int      `default:"1" aliases:"-n" help:"how many"`
//		Files []string `arg:"FILE"`
//		Skip  string   `flag:"-"`
//	}
func taggedFields(t reflect.Type) ([]*FieldDescriptor, error) {
	var fields []*FieldDescriptor
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Tag.Get(tagFlag)
		if name == "-" {
			continue
		}
		f, err := describeField(t, sf, name)
		if err != nil {
			return nil, err
		}
		if err := readTags(f, sf.Tag); err != nil {
			return nil, &ConfigError{Record: t.Name(), Field: sf.Name, Err: err}
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func readTags(f *FieldDescriptor, tag reflect.StructTag) error {
	if s, ok := tag.Lookup(tagDefault); ok {
		v, err := parseDefault(f.class, s)
		if err != nil {
			return err
		}
		f.Default, f.HasDefault = v, true
	}

	m := f.Metadata
	for _, k := range []string{tagUsage, tagHelp} {
		if s, ok := tag.Lookup(k); ok {
			m[MetaHelp] = s
		}
	}
	for k, meta := range map[string]string{
		tagMetavar: MetaMetavar, tagNargs: MetaNargs, tagAction: MetaAction,
	} {
		if s, ok := tag.Lookup(k); ok {
			m[meta] = s
		}
	}
	if s, ok := tag.Lookup(tagArg); ok {
		m[MetaPositional] = true
		if _, ok := m[MetaMetavar]; !ok && s != "" {
			m[MetaMetavar] = s
		}
	}
	if s, ok := tag.Lookup(tagAliases); ok {
		m[MetaAliases] = splitList(s)
	}

	for k, meta := range map[string]string{
		tagAliasesOverrides: MetaAliasesOverrides, tagRequired: MetaRequired,
	} {
		s, ok := tag.Lookup(k)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("tag %s: %w", k, err)
		}
		m[meta] = b
	}

	// choices and const are compared with converted tokens
	elem := f.class.elementClass()
	if s, ok := tag.Lookup(tagChoices); ok {
		var choices []any
		for _, c := range splitList(s) {
			v, err := parseDefault(elem, c)
			if err != nil {
				return fmt.Errorf("tag %s: %w", tagChoices, err)
			}
			choices = append(choices, v)
		}
		m[MetaChoices] = choices
	}
	if s, ok := tag.Lookup(tagConst); ok {
		v, err := parseDefault(elem, s)
		if err != nil {
			return fmt.Errorf("tag %s: %w", tagConst, err)
		}
		m[MetaConst] = v
	}
	return nil
}

func splitList(s string) []string {
	var r []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			r = append(r, part)
		}
	}
	return r
}
