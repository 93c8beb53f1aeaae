package link

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/golang/glog"

	"github.com/dreampi/rover.go/pkg/framework"
	"github.com/dreampi/rover.go/pkg/motion"
)

// Engine is the motion surface the server drives. *motion.Sequencer
// implements it.
type Engine interface {
	Forward(steps int)
	Reverse(steps int)
	Pivot(t motion.Turn, steps int)
	Veer(t motion.Turn, steps int)
	Stop()
	Revolutions(n int) int
}

// continuousChunk is the burst size used to keep a latched continuous
// verb moving while leaving the loop responsive between chunks.
const continuousChunk = 64

type commandMsg struct {
	cmd  Command
	line string
}

// haltMsg clears any latched continuous command without a reply. The
// reader posts it when the connection is gone so the rover never keeps
// rolling on a dead link.
type haltMsg struct{}

// Server is the muscle side of the protocol. Its reader runnable
// parses request lines into loop messages; the actuate-stage
// controller executes them against the engine and writes the reply
// once motion completes. STOP bypasses the queue and aborts any burst
// in flight before its reply is sequenced normally.
type Server struct {
	engine Engine
	rw     io.ReadWriter

	loop      *framework.Loop
	writeLock sync.Mutex
	latched   *Command
}

// NewServer wraps an open brain connection.
func NewServer(rw io.ReadWriter, engine Engine) *Server {
	return &Server{engine: engine, rw: rw}
}

// Name implements framework.Named.
func (s *Server) Name() string {
	return "link.Server"
}

// AddToLoop implements framework.LoopAdder.
func (s *Server) AddToLoop(loop *framework.Loop) {
	s.loop = loop
	loop.AddController(framework.StageActuate, s)
}

// Run implements framework.Runnable, reading request lines until the
// connection fails or ctx is done. A closable connection is closed on
// cancel to unblock the read.
func (s *Server) Run(ctx context.Context) error {
	if closer, ok := s.rw.(io.Closer); ok {
		return framework.RunWithContextCloser(ctx, closer, func() error {
			return s.serve(ctx)
		})
	}
	return s.serve(ctx)
}

func (s *Server) serve(ctx context.Context) error {
	scanner := bufio.NewScanner(s.rw)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, err := Parse(line)
		if err != nil {
			glog.Warningf("link: reject %q: %v", line, err)
			s.reply(errPrefix + err.Error())
			continue
		}
		if cmd.Verb == Stop {
			// Abort before the message is sequenced so a burst
			// in flight stops now, not at its scheduled end.
			s.engine.Stop()
		}
		s.loop.PostMessage(commandMsg{cmd: cmd, line: line})
		s.loop.TriggerNext()
		if ctx.Err() != nil {
			break
		}
	}
	s.engine.Stop()
	s.loop.PostMessage(haltMsg{})
	s.loop.TriggerNext()
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return err
	}
	return ctx.Err()
}

// Control implements framework.Controller at the actuate stage.
func (s *Server) Control(cc framework.ControlContext) error {
	cc.ProcessMessages(func(msg framework.Message) bool {
		switch m := msg.(type) {
		case commandMsg:
			s.execute(m)
		case haltMsg:
			s.engine.Stop()
			s.latched = nil
		default:
			return false
		}
		return true
	})
	if s.latched != nil {
		s.run(*s.latched, continuousChunk)
		cc.TriggerNext()
	}
	return nil
}

func (s *Server) execute(m commandMsg) {
	cmd := m.cmd
	glog.V(4).Infof("link: execute %q", m.line)
	switch {
	case cmd.Verb == Stop:
		s.engine.Stop()
		s.latched = nil
	case cmd.Verb.Continuous():
		cmd := cmd
		s.latched = &cmd
	default:
		s.latched = nil
		steps := cmd.Steps
		if steps == 0 {
			steps = s.engine.Revolutions(1)
		}
		s.run(cmd, steps)
	}
	s.reply(okPrefix + m.line)
}

func (s *Server) run(cmd Command, steps int) {
	switch cmd.Verb {
	case Forward, ContinuousForward:
		s.engine.Forward(steps)
	case Reverse:
		s.engine.Reverse(steps)
	case TurnLeft, ContinuousTurnLeft:
		s.engine.Pivot(motion.TurnLeft, steps)
	case TurnRight, ContinuousTurnRight:
		s.engine.Pivot(motion.TurnRight, steps)
	case SlightLeft, ContinuousSlightLeft:
		s.engine.Veer(motion.TurnLeft, steps)
	case SlightRight, ContinuousSlightRight:
		s.engine.Veer(motion.TurnRight, steps)
	}
}

func (s *Server) reply(line string) {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()
	if _, err := io.WriteString(s.rw, line+"\n"); err != nil {
		glog.Errorf("link: reply %q: %v", line, err)
	}
}
