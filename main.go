package main

import (
	"github.com/mewais/archtools.io/cmd"
)

func main() {
	cmd.Execute()
}
