// Package sh is the interactive diagnostic shell: it talks the line
// protocol to a live muscle and pokes TMC driver registers directly,
// replacing ad-hoc bench scripts.
package sh

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/dreampi/rover.go/pkg/link"
	"github.com/dreampi/rover.go/pkg/tmc"
)

// Shell provides the ishell backed interactive shell.
type Shell struct {
	Interactive bool

	Shell *ishell.Shell

	client *link.Client
	port   io.Closer
	cancel func()

	driver     *tmc.Driver
	driverPort io.Closer
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly bool
	device   string
	baudRate = link.DefaultBaudRate

	// commands
	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.StringVar(&device, "dev", device, "Serial device of the muscle link to connect at startup.")
	flag.IntVar(&baudRate, "baud", baudRate, "Baud rate of the muscle link.")
}

// AddCmds is used by other command providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New() *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		Shell:       ishell.New(),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps a command func that requires a muscle link.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).client == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// Do sends one command over the link and reports the outcome.
func Do(c *ishell.Context, cmd link.Command) {
	s := ShellFrom(c)
	if s.client == nil {
		c.Err(fmt.Errorf("not connected"))
		return
	}
	start := time.Now()
	if err := s.client.Do(cmd); err != nil {
		c.Err(err)
		return
	}
	c.Printf("OK (%.2fs)\n", time.Since(start).Seconds())
}

// Connect opens the muscle link on a serial device.
func (s *Shell) Connect(dev string, baud int) error {
	port, err := link.OpenSerial(dev, baud)
	if err != nil {
		return err
	}
	s.Disconnect()

	ctx, cancel := context.WithCancel(context.Background())
	s.client, s.port, s.cancel = link.NewClient(port), port, cancel
	go s.client.Run(ctx)
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", dev))
	return nil
}

// Disconnect closes the muscle link.
func (s *Shell) Disconnect() {
	if s.client == nil {
		return
	}
	s.cancel()
	s.port.Close()
	s.client, s.port, s.cancel = nil, nil, nil
	s.Shell.SetPrompt(unconnectedPrompt)
}

// AttachDriver opens a TMC driver UART for register access.
func (s *Shell) AttachDriver(dev string, slave byte) error {
	port, err := link.OpenSerial(dev, link.DefaultBaudRate)
	if err != nil {
		return err
	}
	s.DetachDriver()
	s.driver, s.driverPort = tmc.NewDriver(port, slave), port
	return nil
}

// DetachDriver closes the TMC driver UART.
func (s *Shell) DetachDriver() {
	if s.driver == nil {
		return
	}
	s.driverPort.Close()
	s.driver, s.driverPort = nil, nil
}

// Driver gets the attached TMC driver, or nil.
func (s *Shell) Driver() *tmc.Driver {
	return s.driver
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if device != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", device)
		}
		if err := s.Connect(device, baudRate); err != nil {
			log.Fatalf("connect %q failed: %v", device, err)
		}
	}
	defer s.Disconnect()
	defer s.DetachDriver()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// Main is the entry point shared by shell binaries.
func Main() {
	flag.Parse()
	New().Run(flag.Args()...)
}

var (
	// ConnectCmd connects the muscle link.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "DEVICE [BAUD]",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("DEVICE required"))
				return
			}
			baud := baudRate
			if len(c.Args) > 1 {
				if _, err := fmt.Sscanf(c.Args[1], "%d", &baud); err != nil {
					c.Err(fmt.Errorf("invalid BAUD: %v", err))
					return
				}
			}
			if err := ShellFrom(c).Connect(c.Args[0], baud); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects the muscle link.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)
