// Package drive provides shell commands speaking the muscle's motion
// verbs.
package drive

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/dreampi/rover.go/pkg/cli/sh"
	"github.com/dreampi/rover.go/pkg/link"
)

func stepped(verb link.Verb) func(c *ishell.Context) {
	return sh.MustBeConnected(func(c *ishell.Context) {
		cmd := link.Command{Verb: verb}
		if len(c.Args) > 0 {
			steps, err := strconv.Atoi(c.Args[0])
			if err != nil || steps <= 0 {
				c.Err(fmt.Errorf("invalid STEPS: %q", c.Args[0]))
				return
			}
			cmd.Steps = steps
		}
		sh.Do(c, cmd)
	})
}

var cruiseVerbs = map[string]link.Verb{
	"fwd":    link.ContinuousForward,
	"left":   link.ContinuousTurnLeft,
	"right":  link.ContinuousTurnRight,
	"sleft":  link.ContinuousSlightLeft,
	"sright": link.ContinuousSlightRight,
}

var (
	// FwdCmd drives forward.
	FwdCmd = ishell.Cmd{
		Name:    "fwd",
		Aliases: []string{"forward"},
		Help:    "[STEPS]",
		Func:    stepped(link.Forward),
	}

	// RevCmd drives backward.
	RevCmd = ishell.Cmd{
		Name:    "rev",
		Aliases: []string{"reverse"},
		Help:    "[STEPS]",
		Func:    stepped(link.Reverse),
	}

	// LeftCmd pivots left.
	LeftCmd = ishell.Cmd{
		Name: "left",
		Help: "[STEPS]",
		Func: stepped(link.TurnLeft),
	}

	// RightCmd pivots right.
	RightCmd = ishell.Cmd{
		Name: "right",
		Help: "[STEPS]",
		Func: stepped(link.TurnRight),
	}

	// SLeftCmd veers left.
	SLeftCmd = ishell.Cmd{
		Name: "sleft",
		Help: "[STEPS]",
		Func: stepped(link.SlightLeft),
	}

	// SRightCmd veers right.
	SRightCmd = ishell.Cmd{
		Name: "sright",
		Help: "[STEPS]",
		Func: stepped(link.SlightRight),
	}

	// CruiseCmd latches a continuous verb.
	CruiseCmd = ishell.Cmd{
		Name: "cruise",
		Help: "fwd|left|right|sleft|sright",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("direction required"))
				return
			}
			verb, ok := cruiseVerbs[c.Args[0]]
			if !ok {
				c.Err(fmt.Errorf("unknown direction %q", c.Args[0]))
				return
			}
			sh.Do(c, link.Command{Verb: verb})
		}),
	}

	// StopCmd stops all motion.
	StopCmd = ishell.Cmd{
		Name:    "stop",
		Aliases: []string{"s"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.Do(c, link.Command{Verb: link.Stop})
		}),
	}
)

func init() {
	sh.AddCmds(
		&FwdCmd,
		&RevCmd,
		&LeftCmd,
		&RightCmd,
		&SLeftCmd,
		&SRightCmd,
		&CruiseCmd,
		&StopCmd,
	)
}
