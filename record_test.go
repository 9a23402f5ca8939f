package structargs

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type HTTPServer struct {
	ListenAddr string   `default:":80" aliases:"-l" help:"address to listen"`
	Workers    int      `nargs:"?" const:"4" default:"1"`
	Hosts      []string `arg:"HOST"`
	Debug      bool     `required:"true"`
	Skipped    string   `flag:"-"`
	Limit      *int     `flag:"max"`
	internal   int
}

func (HTTPServer) ArgsConfig() Config {
	return Config{Description: "serve things"}
}

type declaredRecord struct {
	Num   int
	Names []string
	Mode  string `default:"ignored"`
}

func (declaredRecord) DeclareArgs() []Arg {
	return []Arg{
		Field("Names", Positional(), Nargs("*")),
		Field("Num", Name("count"), Default(3), Aliases("-n"), Help("a number")),
	}
}

func TestWrapTagged(t *testing.T) {
	rec, err := Wrap(reflect.TypeOf(HTTPServer{}))
	require.NoError(t, err)

	assert.Equal(t, "HTTPServer", rec.Name())
	assert.Equal(t, "http-server", rec.DisplayName())
	assert.Equal(t, "serve things", rec.Config().Description)
	assert.True(t, rec.SubcommandsConfig().Required())

	var names []string
	for _, f := range rec.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"listen_addr", "workers", "hosts", "debug", "max"}, names)

	f, ok := rec.Field("listen_addr")
	require.True(t, ok)
	assert.Equal(t, "ListenAddr", f.GoName())
	assert.Equal(t, reflect.TypeOf(""), f.Type)
	assert.Equal(t, ":80", f.Default)
	assert.True(t, f.HasDefault)
	assert.False(t, f.IsRequired())
	assert.Equal(t, []string{"-l"}, f.Metadata[MetaAliases])
	assert.Equal(t, "address to listen", f.Metadata[MetaHelp])

	f, _ = rec.Field("workers")
	assert.Equal(t, 1, f.Default)
	assert.Equal(t, 4, f.Metadata[MetaConst])
	assert.Equal(t, "?", f.Metadata[MetaNargs])

	f, _ = rec.Field("hosts")
	assert.True(t, f.IsPositional())
	assert.True(t, f.IsRequired())
	assert.Equal(t, "HOST", f.Metadata[MetaMetavar])

	f, _ = rec.Field("debug")
	assert.Equal(t, true, f.Metadata[MetaRequired])

	_, ok = rec.Field("internal")
	assert.False(t, ok)
	_, ok = rec.Field("skipped")
	assert.False(t, ok)
}

func TestWrapDeclared(t *testing.T) {
	rec, err := Wrap(reflect.TypeOf(declaredRecord{}))
	require.NoError(t, err)
	assert.Equal(t, "declared", rec.ecosystem)

	fields := rec.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "names", fields[0].Name)
	assert.True(t, fields[0].IsPositional())
	assert.Equal(t, "count", fields[1].Name)
	assert.Equal(t, 3, fields[1].Default)
	assert.Equal(t, []string{"-n"}, fields[1].Metadata[MetaAliases])

	_, ok := rec.Field("mode")
	assert.False(t, ok, "undeclared fields do not take part")
}

type badDeclared struct {
	A int
}

var badDeclaration []Arg

func (badDeclared) DeclareArgs() []Arg { return badDeclaration }

func TestWrapErrors(t *testing.T) {
	_, err := Wrap(reflect.TypeOf(3))
	assert.True(t, errors.Is(err, ErrNotARecordType))
	_, err = Wrap(reflect.TypeOf(&HTTPServer{}))
	assert.True(t, errors.Is(err, ErrNotARecordType))

	for _, c := range []struct {
		about  string
		typ    reflect.Type
		decl   []Arg
		expErr []string
	}{{
		about:  "bad default",
		typ:    reflect.TypeOf(struct{ N int `default:"x"` }{}),
		expErr: []string{`N: error parsing default value "x"`},
	}, {
		about:  "bad list default",
		typ:    reflect.TypeOf(struct{ N []int `default:"1,y"` }{}),
		expErr: []string{`error parsing default value "y"`},
	}, {
		about:  "unsupported type",
		typ:    reflect.TypeOf(struct{ M map[string]int }{}),
		expErr: []string{"type map[string]int is not supported"},
	}, {
		about:  "nested sequence",
		typ:    reflect.TypeOf(struct{ M [][]int }{}),
		expErr: []string{"type []int cannot be nested in [][]int"},
	}, {
		about:  "bad bool tag",
		typ:    reflect.TypeOf(struct{ A string `required:"maybe"` }{}),
		expErr: []string{"tag required"},
	}, {
		about:  "duplicate names",
		typ:    reflect.TypeOf(struct{ A, B string `flag:"a"` }{}),
		expErr: []string{`argument name "a" is redefined`},
	}, {
		about:  "missing declared field",
		typ:    reflect.TypeOf(badDeclared{}),
		decl:   []Arg{Field("Nope")},
		expErr: []string{`badDeclared.Nope: declared field "Nope" does not exist`},
	}, {
		about:  "unknown metadata",
		typ:    reflect.TypeOf(badDeclared{}),
		decl:   []Arg{Field("A", Meta("bogus", 1))},
		expErr: []string{`badDeclared.A: unknown metadata key "bogus"`},
	}, {
		about:  "declared default of wrong type",
		typ:    reflect.TypeOf(badDeclared{}),
		decl:   []Arg{Field("A", Default("three"))},
		expErr: []string{"cannot be used as int"},
	}} {
		t.Run(c.about, func(t *testing.T) {
			badDeclaration = c.decl
			_, err := Wrap(c.typ)
			require.Error(t, err)
			var ce *ConfigError
			assert.True(t, errors.As(err, &ce), "want *ConfigError, got %T", err)
			for _, s := range c.expErr {
				assert.Contains(t, err.Error(), s)
			}
		})
	}
}

func TestNames(t *testing.T) {
	for in, exp := range map[string]string{
		"HTTPServer": "http-server",
		"PipInstall": "pip-install",
		"install":    "install",
		"V2Api":      "v2-api",
		"ID":         "id",
		"getURLPath": "get-url-path",
	} {
		assert.Equal(t, exp, kebabCase(in), "kebab case of %s", in)
	}
	assert.Equal(t, "store_true", snakeCase("StoreTrue"))
	assert.Equal(t, "--store-true", optionName("store_true"))
}
