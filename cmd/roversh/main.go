package main

//go-build: CGO_ENABLED=0

import (
	"github.com/dreampi/rover.go/pkg/cli/sh"

	_ "github.com/dreampi/rover.go/pkg/cli/cmds/all"
)

func main() {
	sh.Main()
}
