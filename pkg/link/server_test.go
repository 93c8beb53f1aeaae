package link

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dreampi/rover.go/pkg/framework"
	"github.com/dreampi/rover.go/pkg/motion"
)

type engineCall struct {
	op    string
	turn  motion.Turn
	steps int
}

type fakeEngine struct {
	lock  sync.Mutex
	calls []engineCall
}

func (e *fakeEngine) record(c engineCall) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.calls = append(e.calls, c)
}

func (e *fakeEngine) snapshot() []engineCall {
	e.lock.Lock()
	defer e.lock.Unlock()
	return append([]engineCall(nil), e.calls...)
}

func (e *fakeEngine) Forward(steps int) { e.record(engineCall{op: "forward", steps: steps}) }
func (e *fakeEngine) Reverse(steps int) { e.record(engineCall{op: "reverse", steps: steps}) }

func (e *fakeEngine) Pivot(t motion.Turn, steps int) {
	e.record(engineCall{op: "pivot", turn: t, steps: steps})
}

func (e *fakeEngine) Veer(t motion.Turn, steps int) {
	e.record(engineCall{op: "veer", turn: t, steps: steps})
}

func (e *fakeEngine) Stop() { e.record(engineCall{op: "stop"}) }
func (e *fakeEngine) Revolutions(n int) int { return n * 3200 }

type serverHarness struct {
	engine  *fakeEngine
	brain   duplex
	replies *bufio.Reader
}

func startServer(t *testing.T) *serverHarness {
	t.Helper()
	brain, muscle := wirePair()
	engine := &fakeEngine{}
	srv := NewServer(muscle, engine)
	loop := framework.NewLoop().Add(srv)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go loop.Run(ctx)

	return &serverHarness{
		engine:  engine,
		brain:   brain,
		replies: bufio.NewReader(brain),
	}
}

func (h *serverHarness) send(t *testing.T, line string) string {
	t.Helper()
	fmt.Fprintln(h.brain, line)
	reply, err := h.replies.ReadString('\n')
	require.NoError(t, err)
	return strings.TrimSpace(reply)
}

func TestServerExecutesAndReplies(t *testing.T) {
	h := startServer(t)

	require.Equal(t, "OK: FORWARD 100", h.send(t, "FORWARD 100"))
	require.Equal(t, []engineCall{{op: "forward", steps: 100}}, h.engine.snapshot())

	require.Equal(t, "OK: TURN_RIGHT 50", h.send(t, "TURN_RIGHT 50"))
	require.Equal(t, "OK: SLIGHT_LEFT 20", h.send(t, "SLIGHT_LEFT 20"))
	calls := h.engine.snapshot()
	require.Equal(t, engineCall{op: "pivot", turn: motion.TurnRight, steps: 50}, calls[1])
	require.Equal(t, engineCall{op: "veer", turn: motion.TurnLeft, steps: 20}, calls[2])
}

func TestServerDefaultMagnitudeIsOneRevolution(t *testing.T) {
	h := startServer(t)

	require.Equal(t, "OK: REVERSE", h.send(t, "REVERSE"))
	require.Equal(t, []engineCall{{op: "reverse", steps: 3200}}, h.engine.snapshot())
}

func TestServerRejectsBadLines(t *testing.T) {
	h := startServer(t)

	require.True(t, strings.HasPrefix(h.send(t, "JUMP"), "ERR: "))
	require.True(t, strings.HasPrefix(h.send(t, "FORWARD ten"), "ERR: "))
	require.Empty(t, h.engine.snapshot())

	// A bad line must not poison the connection.
	require.Equal(t, "OK: STOP", h.send(t, "STOP"))
}

func TestServerStopIsIdempotent(t *testing.T) {
	h := startServer(t)

	require.Equal(t, "OK: STOP", h.send(t, "STOP"))
	require.Equal(t, "OK: STOP", h.send(t, "STOP"))
	for _, c := range h.engine.snapshot() {
		require.Equal(t, "stop", c.op)
	}
}

func TestServerContinuousLatchesUntilStop(t *testing.T) {
	h := startServer(t)

	require.Equal(t, "OK: CONTINUOUS_FORWARD", h.send(t, "CONTINUOUS_FORWARD"))

	deadline := time.Now().Add(2 * time.Second)
	for {
		n := 0
		for _, c := range h.engine.snapshot() {
			if c.op == "forward" {
				require.Equal(t, continuousChunk, c.steps)
				n++
			}
		}
		if n >= 3 {
			break
		}
		require.True(t, time.Now().Before(deadline), "latched verb stopped pumping")
		time.Sleep(time.Millisecond)
	}

	require.Equal(t, "OK: STOP", h.send(t, "STOP"))
	time.Sleep(20 * time.Millisecond)
	before := len(h.engine.snapshot())
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, before, len(h.engine.snapshot()), "engine still moving after stop")
}

func TestServerLinkLossQuiescesLatchedCommand(t *testing.T) {
	h := startServer(t)

	require.Equal(t, "OK: CONTINUOUS_FORWARD", h.send(t, "CONTINUOUS_FORWARD"))
	h.brain.Writer.(io.Closer).Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		calls := h.engine.snapshot()
		if len(calls) > 0 && calls[len(calls)-1].op == "stop" {
			break
		}
		require.True(t, time.Now().Before(deadline), "no stop after link loss")
		time.Sleep(time.Millisecond)
	}

	time.Sleep(20 * time.Millisecond)
	before := len(h.engine.snapshot())
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, before, len(h.engine.snapshot()), "engine still moving on a dead link")
}

func TestServerContinuousSupersededByDiscrete(t *testing.T) {
	h := startServer(t)

	require.Equal(t, "OK: CONTINUOUS_TURN_LEFT", h.send(t, "CONTINUOUS_TURN_LEFT"))
	require.Equal(t, "OK: FORWARD 10", h.send(t, "FORWARD 10"))

	time.Sleep(20 * time.Millisecond)
	before := len(h.engine.snapshot())
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, before, len(h.engine.snapshot()), "latched turn survived a discrete command")
}
