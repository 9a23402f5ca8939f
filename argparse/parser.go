// Package argparse is a small command line parser. Arguments are registered
// with option strings and keyword configuration, and parsing yields a flat
// Namespace keyed by dest.
package argparse

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/fatih/color"
)

// Namespace is the flat result of parsing, keyed by dest.
type Namespace map[string]any

// Config configures a Parser.
type Config struct {
	Prog        string
	Description string
	Epilog      string

	// Stdout and Stderr default to os.Stdout and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
	// ExitFunc defaults to os.Exit.
	ExitFunc func(code int)
}

// Parser holds registered arguments and parses command lines against them.
type Parser struct {
	cfg Config

	arguments   []*Argument // declaration order
	optionals   map[string]*Argument
	positionals []*Argument
	dests       map[string]bool
	subcommands *Subcommands

	negativeNumberOptions bool
}

var negativeNumber = regexp.MustCompile(`^-\d+$|^-\d*\.\d+$`)

// New returns an empty parser. An empty Prog is the base name of os.Args[0].
func New(cfg Config) *Parser {
	if cfg.Prog == "" && len(os.Args) > 0 {
		cfg.Prog = filepath.Base(os.Args[0])
	}
	return &Parser{
		cfg:       cfg,
		optionals: make(map[string]*Argument),
		dests:     make(map[string]bool),
	}
}

func (p *Parser) Prog() string        { return p.cfg.Prog }
func (p *Parser) Description() string { return p.cfg.Description }

// Arguments returns the registered arguments in declaration order.
func (p *Parser) Arguments() []*Argument {
	return append([]*Argument(nil), p.arguments...)
}

// Subcommands returns the sub-command group, nil if there is none.
func (p *Parser) Subcommands() *Subcommands {
	return p.subcommands
}

// AddArgument registers an argument. Empty optionStrings registers a
// positional argument, whose dest must be given in kw.
func (p *Parser) AddArgument(optionStrings []string, kw Kwargs) (*Argument, error) {
	a, err := newArgument(optionStrings, kw)
	if err != nil {
		return nil, err
	}
	for _, o := range a.OptionStrings {
		if o == "-h" || o == "--help" {
			return nil, fmt.Errorf(errHelpIsReserved, o, a.display())
		}
		if _, ok := p.optionals[o]; ok {
			return nil, fmt.Errorf(errOptionConflict, o)
		}
	}
	if p.dests[a.Dest] {
		return nil, fmt.Errorf(errDestConflict, a.Dest)
	}

	p.dests[a.Dest] = true
	for _, o := range a.OptionStrings {
		p.optionals[o] = a
		if negativeNumber.MatchString(o) {
			p.negativeNumberOptions = true
		}
	}
	if a.IsPositional() {
		p.positionals = append(p.positionals, a)
	}
	p.arguments = append(p.arguments, a)
	return a, nil
}

// ParseArgs parses args. User input errors are *Error, help requests match
// ErrHelp.
func (p *Parser) ParseArgs(args []string) (Namespace, error) {
	ns := Namespace{}
	if err := p.parseInto(ns, args); err != nil {
		return nil, err
	}
	return ns, nil
}

func (p *Parser) parseInto(ns Namespace, args []string) error {
	p.setDefaults(ns)

	seen := make(map[*Argument]bool)
	var (
		positionals []string
		subcmdName  string
		subcmdArgs  []string
		fired       bool
		onlyPos     bool
	)
	minBefore := p.positionalMin()

	i := 0
	for i < len(args) {
		tok := args[i]
		if !onlyPos && tok == "--" {
			onlyPos = true
			i++
			continue
		}
		if !onlyPos && p.looksLikeOption(tok) {
			n, err := p.consumeOptional(ns, args, i, seen)
			if err != nil {
				return err
			}
			i += n
			continue
		}
		if p.subcommands != nil && len(positionals) == minBefore {
			subcmdName, subcmdArgs, fired = tok, args[i+1:], true
			break
		}
		positionals = append(positionals, tok)
		i++
	}

	if err := p.consumePositionals(ns, positionals); err != nil {
		return err
	}
	if fired {
		if err := p.subcommands.invoke(ns, subcmdName, subcmdArgs); err != nil {
			return err
		}
	}
	return p.checkRequired(seen, fired)
}

func (p *Parser) setDefaults(ns Namespace) {
	for _, a := range p.arguments {
		ns[a.Dest] = a.defaultValue()
	}
	if s := p.subcommands; s != nil {
		if s.cfg.Dest != "" {
			ns[s.cfg.Dest] = nil
		}
		if s.cfg.Field != "" {
			ns[s.cfg.Field] = nil
		}
	}
}

// positionalMin is the number of tokens positionals need before a
// sub-command token.
func (p *Parser) positionalMin() int {
	n := 0
	for _, a := range p.positionals {
		min, _ := a.Nargs.bounds()
		n += min
	}
	return n
}

func (p *Parser) looksLikeOption(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	if negativeNumber.MatchString(tok) && !p.negativeNumberOptions {
		return false
	}
	return true
}

func (p *Parser) consumeOptional(
	ns Namespace, args []string, i int, seen map[*Argument]bool,
) (int, error) {
	tok := args[i]
	name, explicit, hasExplicit := tok, "", false
	if strings.HasPrefix(tok, "--") {
		if k := strings.IndexByte(tok, '='); k >= 0 {
			name, explicit, hasExplicit = tok[:k], tok[k+1:], true
		}
	}
	if name == "-h" || name == "--help" {
		return 0, &Error{Parser: p, Err: ErrHelp}
	}
	a, ok := p.optionals[name]
	if !ok {
		if !strings.HasPrefix(tok, "--") && len(tok) > 2 {
			return p.consumeShortCluster(ns, args, i, seen)
		}
		return 0, p.errorf("", errUnrecognized, tok)
	}
	return p.consumeValues(ns, a, args, i, explicit, hasExplicit, seen)
}

// consumeShortCluster handles "-vv", "-n5" and "-n=5".
func (p *Parser) consumeShortCluster(
	ns Namespace, args []string, i int, seen map[*Argument]bool,
) (int, error) {
	tok := args[i]
	chars := tok[1:]
	for j := 0; j < len(chars); j++ {
		opt := "-" + chars[j:j+1]
		if opt == "-h" {
			return 0, &Error{Parser: p, Err: ErrHelp}
		}
		a, ok := p.optionals[opt]
		if !ok {
			return 0, p.errorf("", errUnrecognized, tok)
		}
		if a.Action.takesValue() {
			rest := chars[j+1:]
			if rest == "" {
				return p.consumeValues(ns, a, args, i, "", false, seen)
			}
			return p.consumeValues(ns, a, args, i, strings.TrimPrefix(rest, "="), true, seen)
		}
		seen[a] = true
		if err := p.apply(ns, a, nil); err != nil {
			return 0, err
		}
	}
	return 1, nil
}

func (p *Parser) consumeValues(
	ns Namespace, a *Argument, args []string, i int,
	explicit string, hasExplicit bool, seen map[*Argument]bool,
) (int, error) {
	seen[a] = true
	if !a.Action.takesValue() {
		if hasExplicit {
			return 0, p.errorf(a.display(), errIgnoredExplicit, explicit)
		}
		return 1, p.apply(ns, a, nil)
	}

	min, max := a.Nargs.bounds()
	var values []string
	consumed := 1
	if hasExplicit {
		values = []string{explicit}
	} else {
		j := i + 1
		for j < len(args) && (max < 0 || len(values) < max) {
			if args[j] == "--" || p.looksLikeOption(args[j]) {
				break
			}
			values = append(values, args[j])
			j++
		}
		consumed = j - i
	}
	if len(values) < min {
		var msg string
		switch {
		case a.Nargs == NargsOne:
			msg = errExpectedOne
		case a.Nargs == NargsOneOrMore:
			msg = errExpectedAtLeast
		default:
			msg = fmt.Sprintf(errExpectedN, min)
		}
		return 0, p.errorf(a.display(), "%s", msg)
	}
	if max >= 0 && len(values) > max {
		return 0, p.errorf(a.display(), "%s", errExpectedAtMostN)
	}
	return consumed, p.apply(ns, a, values)
}

func (p *Parser) apply(ns Namespace, a *Argument, values []string) error {
	switch a.Action {
	case StoreTrue:
		ns[a.Dest] = true
	case StoreFalse:
		ns[a.Dest] = false
	case StoreConst:
		ns[a.Dest] = a.Const
	case Count:
		ns[a.Dest] = increment(ns[a.Dest])
	case Store:
		v, err := p.convertValues(a, values)
		if err != nil {
			return err
		}
		ns[a.Dest] = v
	case Append:
		v, err := p.convertValues(a, values)
		if err != nil {
			return err
		}
		ns[a.Dest] = append(listOf(ns[a.Dest]), v)
	}
	return nil
}

// increment adds one to a count of any integer kind, nil counting as 0.
func increment(v any) any {
	if v == nil {
		return 1
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		return reflect.ValueOf(rv.Int() + 1).Convert(rv.Type()).Interface()
	case rv.CanUint():
		return reflect.ValueOf(rv.Uint() + 1).Convert(rv.Type()).Interface()
	}
	return 1
}

// listOf copies the values collected so far, or the default list, into a
// fresh []any.
func listOf(v any) []any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return []any{v}
	}
	list := make([]any, rv.Len(), rv.Len()+1)
	for i := range list {
		list[i] = rv.Index(i).Interface()
	}
	return list
}

func (p *Parser) convertValues(a *Argument, values []string) (any, error) {
	if a.Nargs == NargsOptional && len(values) == 0 {
		return a.Const, nil
	}
	converted := make([]any, 0, len(values))
	for _, s := range values {
		v, err := p.convert(a, s)
		if err != nil {
			return nil, err
		}
		converted = append(converted, v)
	}
	if a.Nargs.multiple() {
		return converted, nil
	}
	return converted[0], nil
}

func (p *Parser) convert(a *Argument, s string) (any, error) {
	var v any = s
	if a.Type != nil {
		var err error
		if v, err = a.Type(s); err != nil {
			return nil, p.errorf(a.display(), "%v", err)
		}
	}
	if len(a.Choices) > 0 && !containsChoice(a.Choices, v) {
		return nil, p.errorf(a.display(), errInvalidChoice, s, formatChoices(a.Choices))
	}
	return v, nil
}

func containsChoice(choices []any, v any) bool {
	for _, c := range choices {
		if reflect.DeepEqual(c, v) {
			return true
		}
	}
	return false
}

func formatChoices(choices []any) string {
	ss := make([]string, len(choices))
	for i, c := range choices {
		ss[i] = fmt.Sprint(c)
	}
	return strings.Join(ss, ", ")
}

// consumePositionals hands tokens to positionals in declaration order,
// keeping enough tokens for the minimum counts of later positionals.
func (p *Parser) consumePositionals(ns Namespace, tokens []string) error {
	rest := tokens
	var missing []string
	for k, a := range p.positionals {
		after := 0
		for _, b := range p.positionals[k+1:] {
			min, _ := b.Nargs.bounds()
			after += min
		}
		min, max := a.Nargs.bounds()
		n := len(rest) - after
		if max >= 0 && n > max {
			n = max
		}
		if n < min {
			n = min
		}
		if n > len(rest) {
			missing = append(missing, a.display())
			rest = rest[:0]
			continue
		}
		if n == 0 {
			if a.Nargs == NargsZeroOrMore && !a.HasDefault {
				ns[a.Dest] = []any{}
			}
			continue
		}
		v, err := p.convertValues(a, rest[:n])
		if err != nil {
			return err
		}
		ns[a.Dest] = v
		rest = rest[n:]
	}
	if len(missing) > 0 {
		return p.errorf("", errRequired, strings.Join(missing, ", "))
	}
	if len(rest) > 0 {
		return p.errorf("", errUnrecognized, strings.Join(rest, " "))
	}
	return nil
}

func (p *Parser) checkRequired(seen map[*Argument]bool, fired bool) error {
	var missing []string
	for _, a := range p.arguments {
		if !a.IsPositional() && a.Required && !seen[a] {
			missing = append(missing, a.display())
		}
	}
	if s := p.subcommands; s != nil && s.cfg.Required && !fired {
		missing = append(missing, s.display())
	}
	if len(missing) > 0 {
		return p.errorf("", errRequired, strings.Join(missing, ", "))
	}
	return nil
}

// Exit reports err the way command line programs do: help goes to stdout
// with status 0, user input errors go to stderr with the usage and status 2,
// anything else goes to stderr with status 1.
func (p *Parser) Exit(err error) {
	var pe *Error
	if !errors.As(err, &pe) {
		fmt.Fprintf(p.stderr(), "%s: %s %v\n", p.Prog(), color.RedString("error:"), err)
		p.exit(1)
		return
	}
	at := pe.Parser
	if at == nil {
		at = p
	}
	if errors.Is(err, ErrHelp) {
		fmt.Fprint(p.stdout(), at.Help())
		p.exit(0)
		return
	}
	fmt.Fprint(p.stderr(), at.Usage())
	fmt.Fprintf(p.stderr(), "%s: %s %v\n", at.Prog(), color.RedString("error:"), err)
	p.exit(2)
}

func (p *Parser) stdout() io.Writer {
	if p.cfg.Stdout != nil {
		return p.cfg.Stdout
	}
	return os.Stdout
}

func (p *Parser) stderr() io.Writer {
	if p.cfg.Stderr != nil {
		return p.cfg.Stderr
	}
	return os.Stderr
}

func (p *Parser) exit(code int) {
	if p.cfg.ExitFunc != nil {
		p.cfg.ExitFunc(code)
		return
	}
	os.Exit(code)
}
