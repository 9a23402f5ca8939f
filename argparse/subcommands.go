package argparse

import (
	"fmt"
	"strings"
)

// Handler turns the namespace produced by the chosen child parser into the
// value stored under SubcommandsConfig.Field. name is the token that selected
// the child, which may be an alias.
type Handler func(name string, ns Namespace) (any, error)

// SubcommandsConfig configures a sub-command group.
type SubcommandsConfig struct {
	// Dest receives the selecting token. Empty means it is not stored.
	Dest     string
	Required bool
	Title    string
	Help     string
	Metavar  string

	// Field receives the Handler result. When Handler is nil the child
	// namespace is merged into the parent namespace instead.
	Field   string
	Handler Handler
}

// Subcommands dispatches to one of several named child parsers based on the
// first positional token.
type Subcommands struct {
	cfg   SubcommandsConfig
	owner *Parser

	names   []string // primary names, registration order
	aliases map[string][]string
	parsers map[string]*Parser
}

// AddSubcommands registers the sub-command group of p. A parser has at most
// one group.
func (p *Parser) AddSubcommands(cfg SubcommandsConfig) (*Subcommands, error) {
	if p.subcommands != nil {
		return nil, fmt.Errorf(errSubcmdsRedefined)
	}
	for _, d := range []string{cfg.Dest, cfg.Field} {
		if d != "" && p.dests[d] {
			return nil, fmt.Errorf(errDestConflict, d)
		}
	}
	if cfg.Dest != "" && cfg.Dest == cfg.Field {
		return nil, fmt.Errorf(errDestConflict, cfg.Dest)
	}
	for _, d := range []string{cfg.Dest, cfg.Field} {
		if d != "" {
			p.dests[d] = true
		}
	}
	p.subcommands = &Subcommands{
		cfg:     cfg,
		owner:   p,
		aliases: make(map[string][]string),
		parsers: make(map[string]*Parser),
	}
	return p.subcommands, nil
}

// AddParser registers a child parser invoked by name or any of aliases.
// Names must be unique across the group.
func (s *Subcommands) AddParser(name string, aliases []string, cfg Config) (*Parser, error) {
	for _, n := range append([]string{name}, aliases...) {
		if n == "" || strings.HasPrefix(n, "-") {
			return nil, fmt.Errorf(errSubcmdName, n)
		}
		if _, ok := s.parsers[n]; ok {
			return nil, fmt.Errorf(errSubcmdRedefined, n)
		}
	}
	if cfg.Prog == "" {
		cfg.Prog = s.owner.Prog() + " " + name
	}
	if cfg.Stdout == nil {
		cfg.Stdout = s.owner.cfg.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = s.owner.cfg.Stderr
	}
	if cfg.ExitFunc == nil {
		cfg.ExitFunc = s.owner.cfg.ExitFunc
	}
	child := New(cfg)
	s.names = append(s.names, name)
	s.aliases[name] = append([]string(nil), aliases...)
	for _, n := range append([]string{name}, aliases...) {
		s.parsers[n] = child
	}
	return child, nil
}

// Choices returns the primary names in registration order.
func (s *Subcommands) Choices() []string {
	return append([]string(nil), s.names...)
}

// Parser returns the child registered under name or one of its aliases.
func (s *Subcommands) Parser(name string) (*Parser, bool) {
	c, ok := s.parsers[name]
	return c, ok
}

func (s *Subcommands) Dest() string  { return s.cfg.Dest }
func (s *Subcommands) Field() string { return s.cfg.Field }

func (s *Subcommands) display() string {
	if s.cfg.Metavar != "" {
		return s.cfg.Metavar
	}
	return "{" + strings.Join(s.names, ",") + "}"
}

func (s *Subcommands) invoke(ns Namespace, name string, args []string) error {
	child, ok := s.parsers[name]
	if !ok {
		return s.owner.errorf(
			s.display(), errSubcmdChoice, name, strings.Join(s.names, ", "),
		)
	}
	if s.cfg.Dest != "" {
		ns[s.cfg.Dest] = name
	}
	childNs := Namespace{}
	if err := child.parseInto(childNs, args); err != nil {
		return err
	}
	if s.cfg.Handler == nil {
		for k, v := range childNs {
			ns[k] = v
		}
		return nil
	}
	v, err := s.cfg.Handler(name, childNs)
	if err != nil {
		return err
	}
	ns[s.cfg.Field] = v
	return nil
}
