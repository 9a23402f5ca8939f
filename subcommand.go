package structargs

import (
	"fmt"
	"reflect"

	"github.com/canoriz/structargs/argparse"
)

// addSubcommands registers one sub-command per member record type of the
// union field f and recurses into each member.
func (b *builder) addSubcommands(p *argparse.Parser, rec *RecordType, f *FieldDescriptor) error {
	cfg := rec.SubcommandsConfig()
	binders := make(map[string]func(argparse.Namespace) (any, error))
	group, err := p.AddSubcommands(argparse.SubcommandsConfig{
		Dest:     cfg.DestKey(),
		Required: cfg.Required(),
		Title:    cfg.Title,
		Help:     cfg.Help,
		Field:    f.Name,
		Handler: func(name string, ns argparse.Namespace) (any, error) {
			return binders[name](ns)
		},
	})
	if err != nil {
		return &ConfigError{Record: rec.Name(), Field: f.goName, Err: fmt.Errorf(errSubcommand, err)}
	}

	for _, m := range unionMembers(f.Type) {
		member, err := Wrap(m)
		if err != nil {
			return configErrorf(rec.Name(), f.goName, errUnionMember, f.Type)
		}
		mcfg := member.Config()
		name := member.DisplayName()
		child, err := group.AddParser(name, mcfg.Aliases, argparse.Config{
			Prog:        mcfg.Prog,
			Description: mcfg.Description,
			Epilog:      mcfg.Epilog,
		})
		if err != nil {
			return &ConfigError{Record: rec.Name(), Field: f.goName, Err: fmt.Errorf(errSubcommand, err)}
		}
		b.logger.Debug("registered sub-command",
			"record", rec.Name(), "field", f.Name, "name", name, "aliases", mcfg.Aliases)

		if err := b.addFields(child, member); err != nil {
			return err
		}
		bind := memberBinder(member)
		for _, n := range append([]string{name}, mcfg.Aliases...) {
			binders[n] = bind
		}
	}
	return nil
}

// memberBinder builds the member value from the namespace of its parser.
func memberBinder(member *RecordType) func(argparse.Namespace) (any, error) {
	return func(ns argparse.Namespace) (any, error) {
		own := argparse.Namespace{}
		for _, f := range member.fields {
			if v, ok := ns[f.Name]; ok {
				own[f.Name] = v
			}
		}
		v, err := bind(member, own)
		if err != nil {
			return nil, err
		}
		return v.Interface(), nil
	}
}

// bindUnion stores the member value chosen for the union field at index.
func bindUnion(record reflect.Value, f *FieldDescriptor, v any) error {
	if v == nil {
		return nil
	}
	u := record.FieldByIndex(f.index).Addr().Interface().(unionSetter)
	return u.set(v)
}
