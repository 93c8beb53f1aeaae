package link

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// duplex pairs two pipe halves into the ReadWriter seen by one peer.
type duplex struct {
	io.Reader
	io.Writer
}

// wirePair builds an in-memory serial line. The first ReadWriter is
// the brain end, the second the muscle end.
func wirePair() (duplex, duplex) {
	reqR, reqW := io.Pipe()
	repR, repW := io.Pipe()
	return duplex{repR, reqW}, duplex{reqR, repW}
}

// fakeMuscle answers each request line using the reply func.
func fakeMuscle(t *testing.T, end duplex, reply func(line string) string) {
	t.Helper()
	go func() {
		scanner := bufio.NewScanner(end)
		for scanner.Scan() {
			if r := reply(scanner.Text()); r != "" {
				fmt.Fprintln(end, r)
			}
		}
	}()
}

func startClient(t *testing.T, end duplex) *Client {
	t.Helper()
	c := NewClient(end)
	c.Timeout = time.Second
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go c.Run(ctx)
	return c
}

func TestClientDo(t *testing.T) {
	brain, muscle := wirePair()
	fakeMuscle(t, muscle, func(line string) string {
		return okPrefix + line
	})
	c := startClient(t, brain)

	require.NoError(t, c.Do(Command{Verb: Forward, Steps: 100}))
	require.NoError(t, c.Do(Command{Verb: Stop}))
}

func TestClientRemoteError(t *testing.T) {
	brain, muscle := wirePair()
	fakeMuscle(t, muscle, func(line string) string {
		return errPrefix + "unknown verb"
	})
	c := startClient(t, brain)

	err := c.Do(Command{Verb: TurnLeft})
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	require.Equal(t, "unknown verb", remote.Reason)
}

func TestClientSkipsStaleReply(t *testing.T) {
	brain, muscle := wirePair()
	fakeMuscle(t, muscle, func(line string) string {
		return okPrefix + "STOP\n" + okPrefix + line
	})
	c := startClient(t, brain)

	require.NoError(t, c.Do(Command{Verb: Reverse, Steps: 5}))
}

func TestClientTimeout(t *testing.T) {
	brain, muscle := wirePair()
	fakeMuscle(t, muscle, func(line string) string { return "" })
	c := startClient(t, brain)
	c.Timeout = 20 * time.Millisecond

	err := c.Do(Command{Verb: Forward})
	require.True(t, errors.Is(err, ErrTimeout))
}

func TestClientOutOfBandStop(t *testing.T) {
	brain, muscle := wirePair()
	lines := make(chan string, 2)
	fakeMuscle(t, muscle, func(line string) string {
		lines <- line
		return okPrefix + line
	})
	c := startClient(t, brain)

	require.NoError(t, c.Stop())
	select {
	case line := <-lines:
		require.Equal(t, "STOP", line)
	case <-time.After(time.Second):
		t.Fatal("stop line never reached the muscle")
	}
}
