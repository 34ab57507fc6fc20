package main

import (
	"github.com/lmoreno/h2hpipe/cmd"
)

func main() {
	cmd.Execute()
}
