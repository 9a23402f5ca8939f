package argparse

import (
	"fmt"
	"strings"
)

// Argument is a registered argument of a Parser.
type Argument struct {
	// OptionStrings is empty for positional arguments.
	OptionStrings []string
	Dest          string
	Action        ActionKind
	Type          Converter
	Default       any
	HasDefault    bool
	Required      bool
	Choices       []any
	Const         any
	Nargs         Nargs
	Metavar       string
	Help          string
}

// IsPositional reports whether a is identified by position.
func (a *Argument) IsPositional() bool {
	return len(a.OptionStrings) == 0
}

// display is the name used in error messages.
func (a *Argument) display() string {
	if a.IsPositional() {
		if a.Metavar != "" {
			return a.Metavar
		}
		return a.Dest
	}
	return strings.Join(a.OptionStrings, "/")
}

func (a *Argument) defaultValue() any {
	switch {
	case a.HasDefault:
		return a.Default
	case a.Action == StoreTrue:
		return false
	case a.Action == StoreFalse:
		return true
	}
	return nil
}

func newArgument(optionStrings []string, kw Kwargs) (*Argument, error) {
	a := &Argument{
		OptionStrings: append([]string(nil), optionStrings...),
		Action:        Store,
	}
	name := fmt.Sprintf("%v", optionStrings)
	if d, ok := kw[KeyDest].(string); ok && a.IsPositional() {
		name = d
	}
	for k := range kw {
		if !knownKeys[k] {
			return nil, fmt.Errorf(errUnknownKwarg, k, name)
		}
	}
	for _, o := range a.OptionStrings {
		if len(o) < 2 || o[0] != '-' {
			return nil, fmt.Errorf(errOptionPrefix, o, name)
		}
	}

	if v, ok := kw[KeyAction]; ok {
		switch t := v.(type) {
		case ActionKind:
			a.Action = t
		case string:
			a.Action = ActionKind(t)
		default:
			return nil, fmt.Errorf(errKwargType, KeyAction, name, "an ActionKind", v)
		}
		if !a.Action.valid() {
			return nil, fmt.Errorf(errUnknownAction, a.Action, name)
		}
	}
	if v, ok := kw[KeyDest]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf(errKwargType, KeyDest, name, "a string", v)
		}
		a.Dest = s
	}
	if a.Dest == "" {
		a.Dest = destFromOptions(a.OptionStrings)
	}
	if a.Dest == "" {
		return nil, fmt.Errorf(errNoDest, optionStrings)
	}
	if v, ok := kw[KeyType]; ok && v != nil {
		switch t := v.(type) {
		case Converter:
			a.Type = t
		case func(string) (any, error):
			a.Type = t
		default:
			return nil, fmt.Errorf(errKwargType, KeyType, name, "a Converter", v)
		}
	}
	if v, ok := kw[KeyDefault]; ok {
		a.Default = v
		a.HasDefault = true
	}
	if v, ok := kw[KeyRequired]; ok {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf(errKwargType, KeyRequired, name, "a bool", v)
		}
		a.Required = b
	}
	if v, ok := kw[KeyChoices]; ok && v != nil {
		switch t := v.(type) {
		case []any:
			a.Choices = t
		case []string:
			for _, s := range t {
				a.Choices = append(a.Choices, s)
			}
		default:
			return nil, fmt.Errorf(errKwargType, KeyChoices, name, "a []any", v)
		}
	}
	if v, ok := kw[KeyNargs]; ok && v != nil {
		n, err := ParseNargs(v)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", name, err)
		}
		a.Nargs = n
	}
	if v, ok := kw[KeyMetavar]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf(errKwargType, KeyMetavar, name, "a string", v)
		}
		a.Metavar = s
	}
	if v, ok := kw[KeyHelp]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf(errKwargType, KeyHelp, name, "a string", v)
		}
		a.Help = s
	}
	if v, ok := kw[KeyConst]; ok {
		a.Const = v
	}

	if a.IsPositional() {
		if _, ok := kw[KeyRequired]; ok {
			return nil, fmt.Errorf(errPositionalReq, name)
		}
		if a.Action != Store {
			return nil, fmt.Errorf(errPositionalAction, a.Action, name)
		}
		min, _ := a.Nargs.bounds()
		a.Required = min > 0
	}
	if !a.Action.takesValue() {
		for _, k := range []string{KeyType, KeyNargs, KeyChoices} {
			if _, ok := kw[k]; ok {
				return nil, fmt.Errorf(errNoValueAction, k, a.Action, name)
			}
		}
	}
	return a, nil
}

// destFromOptions derives a dest from the first long option string, or the
// first short one when there is no long option.
func destFromOptions(options []string) string {
	if len(options) == 0 {
		return ""
	}
	pick := options[0]
	for _, o := range options {
		if strings.HasPrefix(o, "--") {
			pick = o
			break
		}
	}
	return strings.ReplaceAll(strings.TrimLeft(pick, "-"), "-", "_")
}
