// Command unitgate runs the unitgate selftest suite.
//
// Projects embedding unitgate write their own driver the same way,
// passing their suite to cli.Execute.
package main

import (
	"os"

	"github.com/roach88/unitgate/internal/cli"
	"github.com/roach88/unitgate/internal/selftest"
)

func main() {
	os.Exit(cli.Execute(selftest.Suite))
}
