package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/canoriz/structargs"
)

type add struct {
	All   bool     `aliases:"-a" help:"add all files"`
	Files []string `arg:"FILE" nargs:"*" help:"file to be added"`
}

func (add) ArgsConfig() structargs.Config {
	return structargs.Config{Description: "add file contents to the index"}
}

type commit struct {
	Message string `aliases:"-m" help:"commit message"`
}

func (commit) ArgsConfig() structargs.Config {
	return structargs.Config{Description: "record changes to the repository", Aliases: []string{"ci"}}
}

type origin struct{}

type upstream struct {
	Name string `arg:"NAME"`
}

// sub-commands can be nested inside of sub-commands
type push struct {
	Remote structargs.OneOf2[origin, upstream]
}

func (push) ArgsConfig() structargs.Config {
	return structargs.Config{Description: "push to remote repository"}
}

type config struct {
	File  *structargs.File[map[string]any] `arg:"PATH"`
	Watch bool                             `help:"reload on change"`
}

func (config) ArgsConfig() structargs.Config {
	return structargs.Config{Description: "show a configuration file"}
}

type arg struct {
	Name  string `default:"you" help:"your name"`
	Email string `default:"you@example.com" help:"your email"`

	// union fields are sub-commands
	Command structargs.OneOf4[add, commit, push, config]
}

func (arg) ArgsConfig() structargs.Config {
	return structargs.Config{
		Description: "a tiny git",
		Subcommands: structargs.SubcommandsConfig{Title: "commands", Dest: "command"},
	}
}

func main() {
	a := structargs.MustBuild[arg]().Parse()
	fmt.Println(prettyPrint(a))

	switch c := a.Command.Value().(type) {
	case add:
		fmt.Printf("add %v, all: %v\n", c.Files, c.All)
	case commit:
		fmt.Printf("commit %q\n", c.Message)
	case push:
		if u, ok := structargs.As[upstream](c.Remote); ok {
			fmt.Printf("push to %s\n", u.Name)
		} else {
			fmt.Println("push to origin")
		}
	case config:
		fmt.Println(prettyPrint(c.File.Get()))
		if !c.Watch {
			return
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		events, err := c.File.Watch(ctx, nil)
		if err != nil {
			fmt.Println(err)
			return
		}
		for range events {
			fmt.Println(prettyPrint(c.File.Get()))
		}
	}
}

func prettyPrint(i any) string {
	s, _ := json.MarshalIndent(i, "", "  ")
	return string(s)
}
