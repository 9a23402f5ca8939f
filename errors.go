package structargs

import (
	"errors"
	"fmt"
)

// ErrNotARecordType is matched by errors from Wrap when the type is not a
// struct.
var ErrNotARecordType = errors.New("not a record type")

const ( // build time errors
	errNotStruct       = `type %v is not a struct`
	errParseDefault    = `error parsing default value %q: %w`
	errDefaultType     = `default value %v of type %T cannot be used as %v`
	errUnknownMeta     = `unknown metadata key %q`
	errNoSuchField     = `declared field %q does not exist`
	errUnexported      = `declared field %q is not exported`
	errFieldRedefined  = `argument name %q is redefined`
	errUnsupported     = `type %v is not supported`
	errNested          = `type %v cannot be nested in %v`
	errSeqNargs        = `invalid nargs %v, want "?", "*", "+" or a positive integer`
	errUnionMember     = `union must be used with record types and creates a sub-command (got: %v)`
	errUnionRedefined  = `only one union field is allowed, %s is already one`
	errUnionDefault    = `a union field cannot have a default`
	errEnumValue       = `member %s of %v has value of type %T`
	errNotValidExample = `Example() %q of %v cannot be parsed by FromString: %w`
	errBackend         = `cannot register argument: %w`
	errSubcommand      = `cannot register sub-command: %w`
	errAppendNargs     = `action append takes one value per occurrence, nargs %v is not supported`
	errAppendField     = `action append needs a sequence field (got: %v)`
	errKeepDest        = `sub-command dest %q is kept but the record has no string field named %q`
)

const ( // parse time errors
	errInvalidMember = `invalid choice: %q (choose from %s)`
	errMissingKey    = `no value parsed for field %s`
	errUnexpectedKey = `unexpected parsed key %q`
	errAssign        = `cannot assign %v (%T) to field %s of type %v`
)

// ConfigError reports a record type that cannot be turned into a parser.
type ConfigError struct {
	Record string
	// Field is empty when the error is about the record itself.
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	switch {
	case e.Record != "" && e.Field != "":
		return fmt.Sprintf("%s.%s: %v", e.Record, e.Field, e.Err)
	case e.Record != "":
		return fmt.Sprintf("%s: %v", e.Record, e.Err)
	case e.Field != "":
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErrorf(record, field string, format string, a ...any) *ConfigError {
	return &ConfigError{Record: record, Field: field, Err: fmt.Errorf(format, a...)}
}

// CheckError is returned when parsing succeeded but the Checker of a Parser
// rejected the value.
type CheckError struct {
	Err error
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("parse ok, but check failed: %v", e.Err)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}
