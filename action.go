package structargs

import (
	"fmt"

	"github.com/canoriz/structargs/argparse"
)

// Action is the resolved registration of one field: the option strings and
// keyword configuration handed to argparse.Parser.AddArgument.
type Action struct {
	// Args is empty for positional fields.
	Args   []string
	Kwargs argparse.Kwargs
}

// metadata passed to the backend as kwargs of the same name
var kwargsMeta = []string{
	MetaNargs, MetaChoices, MetaConst, MetaHelp, MetaMetavar, MetaAction, MetaRequired,
}

// BuildAction resolves the registration of f. Later layers win: the default,
// the metadata, the type dispatch and finally override.
func BuildAction(f *FieldDescriptor, override argparse.Kwargs) (Action, error) {
	if f.class.tag == classUnion {
		return Action{}, fmt.Errorf("field %s is a union and registers sub-commands", f.goName)
	}
	if metaAction(f) == argparse.Append && f.class.tag != classSequence {
		return Action{}, fmt.Errorf(errAppendField, f.Type)
	}
	dispatched, err := dispatch(f, f.class, argparse.Kwargs{})
	if err != nil {
		return Action{}, err
	}

	base := argparse.Kwargs{}
	if f.HasDefault {
		base[argparse.KeyDefault] = f.Default
	}
	meta := argparse.Kwargs{}
	for _, k := range kwargsMeta {
		if v, ok := f.Metadata[k]; ok {
			meta[k] = v
		}
	}
	kw := base.Merge(meta, dispatched, override)

	if !f.IsPositional() {
		_, hasRequired := kw[argparse.KeyRequired]
		_, hasDefault := kw[argparse.KeyDefault]
		if !hasRequired && !hasDefault && !zeroOrMore(kw) {
			kw[argparse.KeyRequired] = true
		}
	}
	kw[argparse.KeyDest] = f.Name

	a := Action{Args: optionStrings(f), Kwargs: kw}
	fixCountAction(&a)
	return a, nil
}

func optionStrings(f *FieldDescriptor) []string {
	if f.IsPositional() {
		return nil
	}
	aliases := f.Metadata.aliases()
	if f.Metadata.flag(MetaAliasesOverrides) && len(aliases) > 0 {
		return append([]string(nil), aliases...)
	}
	return append([]string{optionName(f.Name)}, aliases...)
}

func zeroOrMore(kw argparse.Kwargs) bool {
	v, ok := kw[argparse.KeyNargs]
	if !ok {
		return false
	}
	n, err := argparse.ParseNargs(v)
	return err == nil && n == argparse.NargsZeroOrMore
}

// fixCountAction drops the converter of count actions, which take no value.
func fixCountAction(a *Action) {
	switch a.Kwargs[argparse.KeyAction] {
	case argparse.Count, string(argparse.Count):
		delete(a.Kwargs, argparse.KeyType)
	}
}
