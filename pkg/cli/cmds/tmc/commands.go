// Package tmc provides shell commands for direct TMC2209 register
// access over a driver UART.
package tmc

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/dreampi/rover.go/pkg/cli/sh"
	"github.com/dreampi/rover.go/pkg/tmc"
)

func mustHaveDriver(fn func(c *ishell.Context, drv *tmc.Driver)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		drv := sh.ShellFrom(c).Driver()
		if drv == nil {
			c.Err(fmt.Errorf("no driver attached, use tmc.attach"))
			return
		}
		fn(c, drv)
	}
}

var (
	// AttachCmd opens a driver UART.
	AttachCmd = ishell.Cmd{
		Name: "tmc.attach",
		Help: "DEVICE [SLAVE]",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("DEVICE required"))
				return
			}
			var slave byte
			if len(c.Args) > 1 {
				val, err := strconv.ParseUint(c.Args[1], 0, 2)
				if err != nil {
					c.Err(fmt.Errorf("invalid SLAVE: %v", err))
					return
				}
				slave = byte(val)
			}
			if err := sh.ShellFrom(c).AttachDriver(c.Args[0], slave); err != nil {
				c.Err(err)
			}
		},
	}

	// DetachCmd closes the driver UART.
	DetachCmd = ishell.Cmd{
		Name: "tmc.detach",
		Help: "",
		Func: func(c *ishell.Context) {
			sh.ShellFrom(c).DetachDriver()
		},
	}

	// VersionCmd reads the IOIN version field.
	VersionCmd = ishell.Cmd{
		Name: "tmc.version",
		Help: "",
		Func: mustHaveDriver(func(c *ishell.Context, drv *tmc.Driver) {
			version, err := drv.Version()
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("version 0x%02x\n", version)
		}),
	}

	// StatusCmd reads and decodes GSTAT.
	StatusCmd = ishell.Cmd{
		Name: "tmc.status",
		Help: "",
		Func: mustHaveDriver(func(c *ishell.Context, drv *tmc.Driver) {
			status, err := drv.ReadStatus()
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("reset=%v driver-error=%v undervoltage=%v\n",
				status.Reset, status.DriverError, status.Undervoltage)
		}),
	}

	// ReadCmd reads an arbitrary register.
	ReadCmd = ishell.Cmd{
		Name: "tmc.read",
		Help: "REGISTER(hex)",
		Func: mustHaveDriver(func(c *ishell.Context, drv *tmc.Driver) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("REGISTER required"))
				return
			}
			reg, err := strconv.ParseUint(c.Args[0], 16, 7)
			if err != nil {
				c.Err(fmt.Errorf("invalid REGISTER: %v", err))
				return
			}
			value, err := drv.ReadRegister(byte(reg))
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("0x%02x = 0x%08x\n", byte(reg), value)
		}),
	}

	// CurrentCmd sets run and hold current.
	CurrentCmd = ishell.Cmd{
		Name: "tmc.current",
		Help: "RUN% [HOLD%]",
		Func: mustHaveDriver(func(c *ishell.Context, drv *tmc.Driver) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("RUN%% required"))
				return
			}
			run, err := strconv.Atoi(c.Args[0])
			if err != nil {
				c.Err(fmt.Errorf("invalid RUN%%: %v", err))
				return
			}
			hold := run
			if len(c.Args) > 1 {
				if hold, err = strconv.Atoi(c.Args[1]); err != nil {
					c.Err(fmt.Errorf("invalid HOLD%%: %v", err))
					return
				}
			}
			if err := drv.SetRunCurrent(run, hold); err != nil {
				c.Err(err)
			}
		}),
	}

	// MicrostepsCmd sets the microstep resolution.
	MicrostepsCmd = ishell.Cmd{
		Name: "tmc.microsteps",
		Help: "N(1..256, power of two)",
		Func: mustHaveDriver(func(c *ishell.Context, drv *tmc.Driver) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("N required"))
				return
			}
			n, err := strconv.Atoi(c.Args[0])
			if err != nil {
				c.Err(fmt.Errorf("invalid N: %v", err))
				return
			}
			if err := drv.SetMicrosteps(n); err != nil {
				c.Err(err)
			}
		}),
	}
)

func init() {
	sh.AddCmds(
		&AttachCmd,
		&DetachCmd,
		&VersionCmd,
		&StatusCmd,
		&ReadCmd,
		&CurrentCmd,
		&MicrostepsCmd,
	)
}
