package argparse

import (
	"fmt"
	"strconv"
)

// Kwargs is the keyword configuration of one argument.
type Kwargs map[string]any

// keys understood by AddArgument
const (
	KeyType     = "type"
	KeyDefault  = "default"
	KeyRequired = "required"
	KeyChoices  = "choices"
	KeyNargs    = "nargs"
	KeyMetavar  = "metavar"
	KeyHelp     = "help"
	KeyConst    = "const"
	KeyAction   = "action"
	KeyDest     = "dest"
)

var knownKeys = map[string]bool{
	KeyType: true, KeyDefault: true, KeyRequired: true, KeyChoices: true,
	KeyNargs: true, KeyMetavar: true, KeyHelp: true, KeyConst: true,
	KeyAction: true, KeyDest: true,
}

// Clone returns a shallow copy of kw.
func (kw Kwargs) Clone() Kwargs {
	r := make(Kwargs, len(kw))
	for k, v := range kw {
		r[k] = v
	}
	return r
}

// Merge returns a copy of kw updated by every map in over, later maps winning.
func (kw Kwargs) Merge(over ...Kwargs) Kwargs {
	r := kw.Clone()
	for _, o := range over {
		for k, v := range o {
			r[k] = v
		}
	}
	return r
}

// Converter turns one command line token into a value.
type Converter func(s string) (any, error)

// ActionKind selects what happens when an argument is encountered.
type ActionKind string

const (
	Store      ActionKind = "store"
	StoreTrue  ActionKind = "store_true"
	StoreFalse ActionKind = "store_false"
	StoreConst ActionKind = "store_const"
	Count      ActionKind = "count"
	Append     ActionKind = "append"
)

// takesValue reports whether the action consumes tokens.
func (a ActionKind) takesValue() bool {
	return a == Store || a == Append
}

func (a ActionKind) valid() bool {
	switch a {
	case Store, StoreTrue, StoreFalse, StoreConst, Count, Append:
		return true
	}
	return false
}

// Nargs is the number of tokens an argument consumes: "" for exactly one,
// "?", "*", "+" or a positive decimal count.
type Nargs string

const (
	NargsOne        Nargs = ""
	NargsOptional   Nargs = "?"
	NargsZeroOrMore Nargs = "*"
	NargsOneOrMore  Nargs = "+"
)

// NargsN returns a Nargs consuming exactly n tokens.
func NargsN(n int) Nargs {
	return Nargs(strconv.Itoa(n))
}

// ParseNargs accepts a Nargs, a string or a positive int.
func ParseNargs(v any) (Nargs, error) {
	var n Nargs
	switch t := v.(type) {
	case Nargs:
		n = t
	case string:
		n = Nargs(t)
	case int:
		n = NargsN(t)
	default:
		return "", fmt.Errorf(errNargsType, v)
	}
	if err := n.validate(); err != nil {
		return "", err
	}
	return n, nil
}

func (n Nargs) validate() error {
	switch n {
	case NargsOne, NargsOptional, NargsZeroOrMore, NargsOneOrMore:
		return nil
	}
	i, err := strconv.Atoi(string(n))
	if err != nil || i < 1 {
		return fmt.Errorf(errNargsValue, string(n))
	}
	return nil
}

// bounds returns minimum and maximum token counts, max < 0 meaning unbounded.
func (n Nargs) bounds() (int, int) {
	switch n {
	case NargsOne:
		return 1, 1
	case NargsOptional:
		return 0, 1
	case NargsZeroOrMore:
		return 0, -1
	case NargsOneOrMore:
		return 1, -1
	}
	i, _ := strconv.Atoi(string(n))
	return i, i
}

// multiple reports whether parsed values are collected into a list.
func (n Nargs) multiple() bool {
	return n != NargsOne && n != NargsOptional
}
