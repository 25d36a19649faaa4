package main

import (
	"github.com/ngld/pvm-contract/cmd"
)

func main() {
	cmd.Execute()
}
