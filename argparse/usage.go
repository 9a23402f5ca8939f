package argparse

import (
	"fmt"
	"strings"
)

// Usage returns the one line usage of p.
func (p *Parser) Usage() string {
	parts := []string{"usage:", p.Prog(), "[-h]"}
	for _, a := range p.arguments {
		if a.IsPositional() {
			continue
		}
		part := a.OptionStrings[0]
		if a.Action.takesValue() {
			part += " " + formatArgs(a, metavarFor(a))
		}
		if !a.Required {
			part = "[" + part + "]"
		}
		parts = append(parts, part)
	}
	for _, a := range p.positionals {
		parts = append(parts, formatArgs(a, metavarFor(a)))
	}
	if s := p.subcommands; s != nil {
		parts = append(parts, s.display()+" ...")
	}
	return strings.Join(parts, " ") + "\n"
}

// Help returns the full help text of p.
func (p *Parser) Help() string {
	usage := p.Usage()
	if p.cfg.Description != "" {
		usage += "\n" + p.cfg.Description + "\n"
	}

	type row struct{ head, help string }
	var positionals, options []row
	for _, a := range p.positionals {
		positionals = append(positionals, row{formatArgs(a, metavarFor(a)), helpFor(a)})
	}
	if s := p.subcommands; s != nil {
		positionals = append(positionals, row{s.display(), s.cfg.Help})
		for _, n := range s.names {
			head := "  " + n
			if al := s.aliases[n]; len(al) > 0 {
				head = fmt.Sprintf("  %s (%s)", n, strings.Join(al, ", "))
			}
			positionals = append(positionals, row{head, s.parsers[n].Description()})
		}
	}
	options = append(options, row{"-h, --help", "show this help message and exit"})
	for _, a := range p.arguments {
		if a.IsPositional() {
			continue
		}
		head := strings.Join(a.OptionStrings, ", ")
		if a.Action.takesValue() {
			head += " " + formatArgs(a, metavarFor(a))
		}
		options = append(options, row{head, helpFor(a)})
	}

	maxHeadLength := 0
	for _, r := range append(append([]row(nil), positionals...), options...) {
		maxHeadLength = maxInt(maxHeadLength, len(r.head))
	}
	render := func(rows []row) []string {
		lines := make([]string, 0, len(rows))
		for _, r := range rows {
			if r.help == "" {
				lines = append(lines, r.head)
				continue
			}
			lines = append(lines, fmt.Sprintf(
				"%s  %s", appendSpacesToLength(r.head, maxHeadLength), r.help,
			))
		}
		return lines
	}

	if len(positionals) > 0 {
		title := "positional arguments"
		if s := p.subcommands; s != nil && s.cfg.Title != "" {
			title = s.cfg.Title
		}
		usage += fmt.Sprintf(
			"\n%s:\n%s\n", title, strings.Join(fmap(render(positionals), shiftTwo), "\n"),
		)
	}
	// options always have -h, --help, thus not empty
	usage += fmt.Sprintf("\noptions:\n%s\n", strings.Join(fmap(render(options), shiftTwo), "\n"))
	if p.cfg.Epilog != "" {
		usage += "\n" + p.cfg.Epilog + "\n"
	}
	return usage
}

func metavarFor(a *Argument) string {
	switch {
	case a.Metavar != "":
		return a.Metavar
	case len(a.Choices) > 0:
		ss := make([]string, len(a.Choices))
		for i, c := range a.Choices {
			ss[i] = fmt.Sprint(c)
		}
		return "{" + strings.Join(ss, ",") + "}"
	case a.IsPositional():
		return a.Dest
	}
	return strings.ToUpper(a.Dest)
}

func formatArgs(a *Argument, metavar string) string {
	switch a.Nargs {
	case NargsOne:
		return metavar
	case NargsOptional:
		return "[" + metavar + "]"
	case NargsZeroOrMore:
		return "[" + metavar + " ...]"
	case NargsOneOrMore:
		return metavar + " [" + metavar + " ...]"
	}
	n, _ := a.Nargs.bounds()
	ms := make([]string, n)
	for i := range ms {
		ms[i] = metavar
	}
	return strings.Join(ms, " ")
}

func helpFor(a *Argument) string {
	help := a.Help
	if a.HasDefault && a.Action.takesValue() && a.Default != nil {
		// a default helps users learn the expected input
		d := fmt.Sprintf("[default: %v]", a.Default)
		if help == "" {
			return d
		}
		return help + "  " + d
	}
	return help
}

func maxInt(a, b int) int {
	if a < b {
		return b
	}
	return a
}

func shiftTwo(s string) string {
	const twoSpace = "  "
	return twoSpace + s
}

func fmap(ss []string, f func(string) string) []string {
	for i, s := range ss {
		ss[i] = f(s)
	}
	return ss
}

func appendSpacesToLength(s string, toLength int) string {
	needSpace := toLength - len(s)
	for i := 0; i < needSpace; i++ {
		s += " "
	}
	return s
}
