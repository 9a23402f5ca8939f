// Package structargs derives command line parsers from struct types.
//
// Each field of a record type becomes an argument: long options from field
// names, boolean switches, whitespace separated lists, enumerations chosen by
// member name, and sub-commands from a OneOf field.
//
//	type Args struct {
//		Num     int  `aliases:"-n"`
//		Verbose bool `help:"talk more"`
//	}
//
//	args, err := structargs.Parse[Args](os.Args[1:])
package structargs

import (
	"fmt"
	"log/slog"
	"os"
	"reflect"

	"github.com/canoriz/structargs/argparse"
)

type builder struct {
	logger *slog.Logger
}

// addFields registers every field of rec on p in declaration order.
func (b *builder) addFields(p *argparse.Parser, rec *RecordType) error {
	kept, err := rec.keptDestField()
	if err != nil {
		return err
	}
	var union *FieldDescriptor
	for _, f := range rec.fields {
		if f == kept {
			continue
		}
		if f.class.tag == classUnion {
			if union != nil {
				return configErrorf(rec.Name(), f.goName, errUnionRedefined, union.goName)
			}
			union = f
			if err := b.addSubcommands(p, rec, f); err != nil {
				return err
			}
			continue
		}
		a, err := BuildAction(f, nil)
		if err != nil {
			return &ConfigError{Record: rec.Name(), Field: f.goName, Err: err}
		}
		if _, err := p.AddArgument(a.Args, a.Kwargs); err != nil {
			return &ConfigError{Record: rec.Name(), Field: f.goName, Err: fmt.Errorf(errBackend, err)}
		}
		b.logger.Debug("registered argument",
			"record", rec.Name(), "field", f.Name, "options", a.Args, "class", f.class.tag.String())
	}
	return nil
}

func makeParser(rec *RecordType, o *options) (*argparse.Parser, error) {
	p := o.parser
	if p == nil {
		cfg := rec.Config()
		prog := cfg.Prog
		if o.prog != "" {
			prog = o.prog
		}
		p = argparse.New(argparse.Config{
			Prog:        prog,
			Description: cfg.Description,
			Epilog:      cfg.Epilog,
		})
	}
	b := &builder{logger: o.logger}
	if err := b.addFields(p, rec); err != nil {
		return nil, err
	}
	return p, nil
}

// MakeParser returns a parser for the record type of v, which is a struct
// value, a pointer to one or its reflect.Type.
func MakeParser(v any, opts ...Option) (*argparse.Parser, error) {
	var t reflect.Type
	switch x := v.(type) {
	case reflect.Type:
		t = x
	default:
		t = reflect.TypeOf(v)
	}
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	rec, err := Wrap(t)
	if err != nil {
		return nil, err
	}
	return makeParser(rec, newOptions(opts))
}

// bind constructs a rec value from ns. Every field must have its key and
// ns must not hold other keys.
func bind(rec *RecordType, ns argparse.Namespace) (reflect.Value, error) {
	v := reflect.New(rec.typ).Elem()
	ns = stripDest(rec, ns)
	for _, f := range rec.fields {
		raw, ok := ns[f.Name]
		if !ok {
			return reflect.Value{}, fmt.Errorf(errMissingKey, f.goName)
		}
		if f.class.tag == classUnion {
			if err := bindUnion(v, f, raw); err != nil {
				return reflect.Value{}, fmt.Errorf("field %s: %w", f.goName, err)
			}
			continue
		}
		fv, err := coerce(raw, f.Type)
		if err != nil {
			return reflect.Value{}, fmt.Errorf(errAssign, raw, raw, f.goName, f.Type)
		}
		v.FieldByIndex(f.index).Set(fv)
	}
	for k := range ns {
		if _, ok := rec.Field(k); !ok {
			return reflect.Value{}, fmt.Errorf(errUnexpectedKey, k)
		}
	}
	return v, nil
}

// stripDest returns ns without the sub-command bookkeeping key of rec.
func stripDest(rec *RecordType, ns argparse.Namespace) argparse.Namespace {
	if rec.unionField() == nil || rec.SubcommandsConfig().KeepDest {
		return ns
	}
	dest := rec.SubcommandsConfig().DestKey()
	if _, ok := ns[dest]; !ok {
		return ns
	}
	r := make(argparse.Namespace, len(ns))
	for k, v := range ns {
		if k != dest {
			r[k] = v
		}
	}
	return r
}

// keptDestField returns the field receiving the sub-command name when the
// sub-command dest is kept, nil otherwise.
func (r *RecordType) keptDestField() (*FieldDescriptor, error) {
	cfg := r.SubcommandsConfig()
	if !cfg.KeepDest || r.unionField() == nil {
		return nil, nil
	}
	dest := cfg.DestKey()
	f, ok := r.Field(dest)
	if !ok || f.Type.Kind() != reflect.String {
		return nil, configErrorf(r.Name(), "", errKeepDest, dest, dest)
	}
	return f, nil
}

// Parser parses command lines into T values.
type Parser[T any] struct {
	backend *argparse.Parser
	rec     *RecordType

	checkFn func(T) error
}

// Build returns a parser for the struct type T.
func Build[T any](opts ...Option) (Parser[T], error) {
	rec, err := Wrap(typeOf[T]())
	if err != nil {
		return Parser[T]{}, err
	}
	p, err := makeParser(rec, newOptions(opts))
	if err != nil {
		return Parser[T]{}, err
	}
	return Parser[T]{backend: p, rec: rec}, nil
}

// MustBuild is like Build but panics on configuration errors.
func MustBuild[T any](opts ...Option) Parser[T] {
	p, err := Build[T](opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse builds a parser for T and parses args with it.
func Parse[T any](args []string, opts ...Option) (T, error) {
	p, err := Build[T](opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return p.ParseArgs(args)
}

// Checker returns a copy of p running checkFn on every parsed value.
func (p Parser[T]) Checker(checkFn func(T) error) Parser[T] {
	p.checkFn = checkFn
	return p
}

// ParseArgs parses args. Command line errors are *argparse.Error, a help
// request matches argparse.ErrHelp and a failed check is *CheckError.
func (p Parser[T]) ParseArgs(args []string) (zero T, err error) {
	ns, err := p.backend.ParseArgs(args)
	if err != nil {
		return zero, err
	}
	v, err := bind(p.rec, ns)
	if err != nil {
		return zero, err
	}
	res := v.Interface().(T)
	if p.checkFn != nil {
		if err := p.checkFn(res); err != nil {
			return res, &CheckError{Err: err}
		}
	}
	return res, nil
}

// Parse parses os.Args. On errors it prints them and exits: help with status
// 0, command line errors with status 2, anything else with status 1.
func (p Parser[T]) Parse() T {
	res, err := p.ParseArgs(os.Args[1:])
	if err != nil {
		p.backend.Exit(err)
	}
	return res
}

func (p Parser[T]) Help() string {
	return p.backend.Help()
}

// Backend returns the underlying parser.
func (p Parser[T]) Backend() *argparse.Parser {
	return p.backend
}
