package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/canoriz/structargs"
)

// define arguments struct
// define flag, default and help in struct field's tags
type options struct {
	Host string `aliases:"-H" help:"hostname"`
	Port string `aliases:"-p" default:"80" help:"port"`

	Num   *int    `aliases:"-n"`
	Ratio float64 `default:"3.14159"`

	TCP bool `flag:"tcp" aliases:"-t" help:"use tcp"`
	UDP bool `flag:"udp" aliases:"-u" help:"use udp"`

	Names []string `default:"alice,bob" help:"names"`
	Index []int    `aliases:"-i" default:"1,2,3"`
}

func main() {
	// build parser with a checker, checker is optional
	parser := structargs.MustBuild[options]().Checker(checkArgumentValidity)

	op, err := parser.ParseArgs(strings.Fields(
		"-H host.com -n 70 -i 1 3 5 -t --names cindy david",
	))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("parse []string\n%+v\n", op)

	// parse command line arguments, exits on error
	op = parser.Parse()
	fmt.Printf("parse command line\n%+v\n", op)
}

// a post parse checker, return error if none of tcp or udp is enabled,
// Parse() will exit and print the error, ParseArgs() will return it
func checkArgumentValidity(v options) error {
	if v.TCP == v.UDP {
		return errors.New("exactly one of tcp or udp must be enabled")
	}
	return nil
}
