package main

import (
	"github.com/gitship/gitship/internal/cli"
)

// version is set during build via ldflags.
var version = "dev"

func main() {
	cli.Version = version
	cli.Execute(cli.NewRootCommand())
}
