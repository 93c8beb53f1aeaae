// Package all registers every shell command provider.
package all

import (
	_ "github.com/dreampi/rover.go/pkg/cli/cmds/drive"
	_ "github.com/dreampi/rover.go/pkg/cli/cmds/tmc"
)
