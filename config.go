package structargs

// DefaultSubcommandDest is the namespace key that records which sub-command
// was chosen when SubcommandsConfig.Dest is empty.
const DefaultSubcommandDest = "__subcommand__"

// Config is the parser level configuration of a record type.
type Config struct {
	Description string
	Prog        string
	Epilog      string

	// Name invokes the record when it is a union member. Empty means the
	// kebab case form of the type name.
	Name    string
	Aliases []string

	Subcommands SubcommandsConfig
}

// SubcommandsConfig configures the sub-command group created for the union
// field of a record type. The zero value is a required group.
type SubcommandsConfig struct {
	Optional bool
	Dest     string
	// KeepDest binds the chosen sub-command name to the string field named
	// Dest instead of dropping it. That field is not a command line argument.
	KeepDest bool
	Title    string
	Help     string
}

// Required reports whether a sub-command must be given.
func (c SubcommandsConfig) Required() bool {
	return !c.Optional
}

// DestKey returns Dest or DefaultSubcommandDest.
func (c SubcommandsConfig) DestKey() string {
	if c.Dest == "" {
		return DefaultSubcommandDest
	}
	return c.Dest
}

// Configurer is implemented by record types that carry a Config.
//
//	func (Pip) ArgsConfig() structargs.Config {
//		return structargs.Config{Description: "package installer"}
//	}
type Configurer interface {
	ArgsConfig() Config
}
