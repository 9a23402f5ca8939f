package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/canoriz/structargs"
)

type addr struct {
	ip   string
	port string
}

func (a *addr) FromString(s string) error {
	r := strings.Split(s, ":")
	if len(r) < 2 {
		return errors.New("not correct")
	}
	a.ip = r[0]
	a.port = r[1]
	return nil
}

func (*addr) Example() string { return "127.0.0.1:80" }

func (a addr) String() string { return a.ip + ":" + a.port }

type level int

const (
	debug level = iota
	info
	warn
)

func (level) EnumMembers() []structargs.Member {
	return []structargs.Member{
		{Name: "debug", Value: debug},
		{Name: "info", Value: info},
		{Name: "warn", Value: warn},
	}
}

type arg struct {
	Size    int    `flag:"sz" default:"12" help:"block size"`
	VSize   *int   `flag:"vsz" help:"vblock size"`
	Source  addr   `aliases:"-s" default:"127.0.0.1:1001" help:"source"`
	Peers   []addr `nargs:"*" help:"peers"`
	Level   level  `default:"info"`
	Verbose int    `action:"count" default:"0" aliases:"-v"`
}

func main() {
	a := structargs.MustBuild[arg]().Parse()
	fmt.Printf("%+v\n", a)
}
