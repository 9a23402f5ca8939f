package argparse

import (
	"errors"
	"fmt"
)

// ErrHelp is returned by ParseArgs when -h or --help is encountered.
var ErrHelp = errors.New("help requested")

const ( // build time errors
	errUnknownKwarg     = `unknown keyword %q for argument %s`
	errKwargType        = `keyword %q of argument %s must be %s, got %T`
	errNargsType        = `nargs must be a string or an int, got %T`
	errNargsValue       = `invalid nargs value %q, want "?", "*", "+" or a positive integer`
	errUnknownAction    = `unknown action %q for argument %s`
	errPositionalReq    = `"required" is an invalid argument for positionals, at %s`
	errPositionalAction = `action %q cannot be used by positional argument %s`
	errNoValueAction    = `keyword %q cannot be used by %s argument %s`
	errOptionPrefix     = `option string %q of argument %s must start with "-"`
	errOptionConflict   = `conflicting option string %s`
	errHelpIsReserved   = `%s is reserved for help, at argument %s`
	errDestConflict     = `dest %q is redefined`
	errNoDest           = `argument %v has no dest`
	errSubcmdsRedefined = `cannot have multiple sub-command groups`
	errSubcmdRedefined  = `sub-command %s is redefined`
	errSubcmdName       = `invalid sub-command name %q`
)

const ( // parse time errors
	errRequired        = `the following arguments are required: %s`
	errUnrecognized    = `unrecognized arguments: %s`
	errExpectedOne     = `expected one argument`
	errExpectedAtMostN = `expected at most one argument`
	errExpectedN       = `expected %d arguments`
	errExpectedAtLeast = `expected at least one argument`
	errIgnoredExplicit = `ignored explicit argument %q`
	errInvalidChoice   = `invalid choice: %q (choose from %s)`
	errSubcmdChoice    = `invalid choice: %q (choose from %s)`
)

// Error is a user input error: the command line does not satisfy the grammar
// of Parser.
type Error struct {
	Parser *Parser
	// Argument is the display name of the offending argument, empty when the
	// error is not about a single argument.
	Argument string
	Err      error
}

func (e *Error) Error() string {
	if e.Argument == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("argument %s: %v", e.Argument, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (p *Parser) errorf(argument string, format string, a ...any) *Error {
	return &Error{Parser: p, Argument: argument, Err: fmt.Errorf(format, a...)}
}
