package argparse

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func atoi(s string) (any, error) {
	return strconv.Atoi(s)
}

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	return New(Config{Prog: "prog", Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
}

func mustAdd(t *testing.T, p *Parser, opts []string, kw Kwargs) *Argument {
	t.Helper()
	a, err := p.AddArgument(opts, kw)
	require.NoError(t, err)
	return a
}

func TestParseOptionals(t *testing.T) {
	p := newTestParser(t)
	mustAdd(t, p, []string{"--num", "-n"}, Kwargs{KeyType: Converter(atoi), KeyRequired: true})
	mustAdd(t, p, []string{"--name"}, Kwargs{KeyDefault: "x"})
	mustAdd(t, p, []string{"--flag"}, Kwargs{KeyAction: StoreTrue})
	mustAdd(t, p, []string{"--no-flag"}, Kwargs{KeyAction: StoreFalse})
	mustAdd(t, p, []string{"--verbose", "-v"}, Kwargs{KeyAction: Count, KeyDefault: 0})

	for _, c := range []struct {
		about string
		args  []string
		exp   Namespace
	}{{
		"long options",
		[]string{"--num", "3", "--name", "y", "--flag"},
		Namespace{"num": 3, "name": "y", "flag": true, "no_flag": true, "verbose": 0},
	}, {
		"alias and equals",
		[]string{"-n", "4", "--name=z", "--no-flag"},
		Namespace{"num": 4, "name": "z", "flag": false, "no_flag": false, "verbose": 0},
	}, {
		"attached short value and count cluster",
		[]string{"-n5", "-vv", "-v"},
		Namespace{"num": 5, "name": "x", "flag": false, "no_flag": true, "verbose": 3},
	}, {
		"negative number value",
		[]string{"--num", "-7"},
		Namespace{"num": -7, "name": "x", "flag": false, "no_flag": true, "verbose": 0},
	}} {
		t.Run(c.about, func(t *testing.T) {
			ns, err := p.ParseArgs(c.args)
			require.NoError(t, err)
			if diff := cmp.Diff(c.exp, ns); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestCountAndAppendDefaults(t *testing.T) {
	p := newTestParser(t)
	mustAdd(t, p, []string{"-v"}, Kwargs{KeyAction: Count, KeyDefault: int64(2)})
	mustAdd(t, p, []string{"-q"}, Kwargs{KeyAction: Count, KeyDefault: uint8(0)})
	mustAdd(t, p, []string{"--tag"}, Kwargs{KeyAction: Append, KeyDefault: []string{"a"}})
	mustAdd(t, p, []string{"--num"}, Kwargs{KeyAction: Append, KeyType: Converter(atoi)})

	ns, err := p.ParseArgs([]string{"-vv", "-q", "--tag", "x", "--tag", "y", "--num", "1"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), ns["v"])
	assert.Equal(t, uint8(1), ns["q"])
	assert.Equal(t, []any{"a", "x", "y"}, ns["tag"])
	assert.Equal(t, []any{1}, ns["num"])

	ns, err = p.ParseArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), ns["v"])
	assert.Equal(t, []string{"a"}, ns["tag"], "the default is not modified")
	assert.Nil(t, ns["num"])
}

func TestParseNargs(t *testing.T) {
	p := newTestParser(t)
	mustAdd(t, p, []string{"--plus"}, Kwargs{KeyType: Converter(atoi), KeyNargs: NargsOneOrMore})
	mustAdd(t, p, []string{"--star"}, Kwargs{KeyNargs: "*", KeyDefault: []int{9}})
	mustAdd(t, p, []string{"--opt"}, Kwargs{KeyNargs: "?", KeyConst: "c", KeyDefault: "d"})
	mustAdd(t, p, []string{"--two"}, Kwargs{KeyNargs: 2})

	ns, err := p.ParseArgs([]string{"--plus", "1", "2", "--opt", "--two", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, ns["plus"])
	assert.Equal(t, []int{9}, ns["star"])
	assert.Equal(t, "c", ns["opt"])
	assert.Equal(t, []any{"a", "b"}, ns["two"])

	ns, err = p.ParseArgs([]string{"--star"})
	require.NoError(t, err)
	assert.Equal(t, []any{}, ns["star"])
	assert.Equal(t, "d", ns["opt"])
	assert.Nil(t, ns["plus"])
}

func TestParsePositionals(t *testing.T) {
	p := newTestParser(t)
	mustAdd(t, p, nil, Kwargs{KeyDest: "src", KeyNargs: "+"})
	mustAdd(t, p, nil, Kwargs{KeyDest: "dst"})
	mustAdd(t, p, []string{"--force"}, Kwargs{KeyAction: StoreTrue})

	ns, err := p.ParseArgs([]string{"a", "--force", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, ns["src"])
	assert.Equal(t, "c", ns["dst"])
	assert.Equal(t, true, ns["force"])

	ns, err = p.ParseArgs([]string{"--", "-a", "-b"})
	require.NoError(t, err)
	assert.Equal(t, []any{"-a"}, ns["src"])
	assert.Equal(t, "-b", ns["dst"])
}

func TestOptionalPositionalKeepsDefault(t *testing.T) {
	p := newTestParser(t)
	mustAdd(t, p, nil, Kwargs{KeyDest: "files", KeyNargs: "*", KeyDefault: []string{}})
	mustAdd(t, p, nil, Kwargs{KeyDest: "mode", KeyNargs: "?", KeyDefault: "r"})

	ns, err := p.ParseArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{}, ns["files"])
	assert.Equal(t, "r", ns["mode"])
}

func TestParseErrors(t *testing.T) {
	build := func(t *testing.T) *Parser {
		p := newTestParser(t)
		mustAdd(t, p, []string{"--num"}, Kwargs{KeyType: Converter(atoi), KeyRequired: true})
		mustAdd(t, p, []string{"--color"}, Kwargs{KeyChoices: []any{"red", "blue"}, KeyDefault: "red"})
		mustAdd(t, p, nil, Kwargs{KeyDest: "file"})
		return p
	}
	for _, c := range []struct {
		about     string
		args      []string
		expectErr []string
	}{
		{"missing required", []string{"f"}, []string{"the following arguments are required: --num"}},
		{"missing positional", []string{"--num", "1"}, []string{"required: file"}},
		{"bad int", []string{"--num", "x", "f"}, []string{"argument --num:", "invalid syntax"}},
		{"no value", []string{"f", "--num"}, []string{"argument --num: expected one argument"}},
		{"bad choice", []string{"--num", "1", "--color", "green", "f"}, []string{`invalid choice: "green" (choose from red, blue)`}},
		{"unknown option", []string{"--nope"}, []string{"unrecognized arguments: --nope"}},
		{"extra positional", []string{"--num", "1", "f", "g"}, []string{"unrecognized arguments: g"}},
	} {
		t.Run(c.about, func(t *testing.T) {
			_, err := build(t).ParseArgs(c.args)
			require.Error(t, err)
			var pe *Error
			require.True(t, errors.As(err, &pe), "want *Error, got %T", err)
			for _, s := range c.expectErr {
				assert.Contains(t, err.Error(), s)
			}
		})
	}
}

func TestAddArgumentErrors(t *testing.T) {
	for _, c := range []struct {
		about  string
		opts   []string
		kw     Kwargs
		expErr string
	}{
		{"unknown key", []string{"--a"}, Kwargs{"bogus": 1}, `unknown keyword "bogus"`},
		{"required positional", nil, Kwargs{KeyDest: "a", KeyRequired: true}, `"required" is an invalid argument for positionals`},
		{"type on count", []string{"--a"}, Kwargs{KeyAction: Count, KeyType: Converter(atoi)}, `keyword "type" cannot be used by count`},
		{"nargs on store_true", []string{"--a"}, Kwargs{KeyAction: StoreTrue, KeyNargs: "+"}, `keyword "nargs" cannot be used`},
		{"bad nargs", []string{"--a"}, Kwargs{KeyNargs: "x"}, "invalid nargs value"},
		{"zero nargs", []string{"--a"}, Kwargs{KeyNargs: 0}, "invalid nargs value"},
		{"bad action", []string{"--a"}, Kwargs{KeyAction: "explode"}, `unknown action "explode"`},
		{"no prefix", []string{"a"}, Kwargs{}, `must start with "-"`},
		{"help reserved", []string{"--help"}, Kwargs{}, "reserved for help"},
		{"positional without dest", nil, Kwargs{}, "has no dest"},
	} {
		t.Run(c.about, func(t *testing.T) {
			_, err := newTestParser(t).AddArgument(c.opts, c.kw)
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.expErr)
		})
	}

	t.Run("conflicts", func(t *testing.T) {
		p := newTestParser(t)
		mustAdd(t, p, []string{"--a", "-a"}, Kwargs{})
		_, err := p.AddArgument([]string{"-a"}, Kwargs{KeyDest: "other"})
		assert.ErrorContains(t, err, "conflicting option string -a")
		mustAdd(t, p, nil, Kwargs{KeyDest: "pos"})
		_, err = p.AddArgument(nil, Kwargs{KeyDest: "pos"})
		assert.ErrorContains(t, err, `dest "pos" is redefined`)
	})
}

func TestSubcommands(t *testing.T) {
	p := newTestParser(t)
	mustAdd(t, p, []string{"--verbose"}, Kwargs{KeyAction: StoreTrue})
	var gotName string
	s, err := p.AddSubcommands(SubcommandsConfig{
		Dest:     "__cmd__",
		Required: true,
		Field:    "action",
		Handler: func(name string, ns Namespace) (any, error) {
			gotName = name
			return ns, nil
		},
	})
	require.NoError(t, err)
	install, err := s.AddParser("install", []string{"i"}, Config{Description: "install things"})
	require.NoError(t, err)
	mustAdd(t, install, nil, Kwargs{KeyDest: "package"})
	helpCmd, err := s.AddParser("help", nil, Config{})
	require.NoError(t, err)
	mustAdd(t, helpCmd, []string{"--verbose"}, Kwargs{KeyAction: StoreTrue})

	_, err = s.AddParser("i", nil, Config{})
	assert.ErrorContains(t, err, "sub-command i is redefined")
	_, err = p.AddSubcommands(SubcommandsConfig{})
	assert.ErrorContains(t, err, "multiple sub-command groups")

	ns, err := p.ParseArgs([]string{"--verbose", "i", "foo"})
	require.NoError(t, err)
	assert.Equal(t, "i", gotName)
	assert.Equal(t, "i", ns["__cmd__"])
	assert.Equal(t, Namespace{"package": "foo"}, ns["action"])
	assert.Equal(t, true, ns["verbose"])

	ns, err = p.ParseArgs([]string{"help", "--verbose"})
	require.NoError(t, err)
	assert.Equal(t, Namespace{"verbose": true}, ns["action"])
	assert.Equal(t, false, ns["verbose"])

	_, err = p.ParseArgs([]string{"remove"})
	assert.ErrorContains(t, err, `argument {install,help}: invalid choice: "remove" (choose from install, help)`)
	_, err = p.ParseArgs(nil)
	assert.ErrorContains(t, err, "the following arguments are required: {install,help}")
	_, err = p.ParseArgs([]string{"install"})
	assert.ErrorContains(t, err, "required: package")
}

func TestHelpAndExit(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := -1
	p := New(Config{
		Prog:        "prog",
		Description: "does things",
		Stdout:      stdout,
		Stderr:      stderr,
		ExitFunc:    func(c int) { code = c },
	})
	mustAdd(t, p, []string{"--num", "-n"}, Kwargs{KeyRequired: true, KeyHelp: "a number"})
	mustAdd(t, p, []string{"--list"}, Kwargs{KeyNargs: "+", KeyDefault: []int{1}})
	mustAdd(t, p, nil, Kwargs{KeyDest: "file", KeyHelp: "input file"})

	_, err := p.ParseArgs([]string{"--help"})
	require.True(t, errors.Is(err, ErrHelp))
	p.Exit(err)
	assert.Equal(t, 0, code)
	help := stdout.String()
	for _, s := range []string{
		"usage: prog [-h] --num NUM [--list LIST [LIST ...]] file",
		"does things",
		"positional arguments:",
		"input file",
		"--num, -n NUM",
		"a number",
		"[default: [1]]",
	} {
		assert.Contains(t, help, s)
	}

	_, err = p.ParseArgs([]string{"f"})
	p.Exit(err)
	assert.Equal(t, 2, code)
	assert.True(t, strings.HasPrefix(stderr.String(), "usage: prog"))
	assert.Contains(t, stderr.String(), "the following arguments are required: --num/-n")
}

func TestNargsBounds(t *testing.T) {
	for _, c := range []struct {
		n        Nargs
		min, max int
	}{
		{NargsOne, 1, 1}, {NargsOptional, 0, 1}, {NargsZeroOrMore, 0, -1},
		{NargsOneOrMore, 1, -1}, {NargsN(3), 3, 3},
	} {
		min, max := c.n.bounds()
		assert.Equal(t, c.min, min, "min of %q", c.n)
		assert.Equal(t, c.max, max, "max of %q", c.n)
	}
}
