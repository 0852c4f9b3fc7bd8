package main

import (
	"github.com/rackpulse/rackpulse/pkg/cli"
)

func main() {
	cli.Execute()
}
