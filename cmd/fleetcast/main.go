package main

import (
	"github.com/vsinha/fleetcast/pkg/interfaces/cli/commands"
)

func main() {
	commands.Execute()
}
