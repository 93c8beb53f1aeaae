package link

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/dreampi/rover.go/pkg/framework"
)

const (
	okPrefix  = "OK: "
	errPrefix = "ERR: "

	// DefaultTimeout bounds a single request. It must cover the
	// longest blocking burst the muscle executes, not just the wire
	// round trip.
	DefaultTimeout = 30 * time.Second
)

// Client errors.
var (
	ErrTimeout = errors.New("link: reply timeout")
	ErrClosed  = errors.New("link: reader stopped")
)

// RemoteError is an ERR reply from the muscle.
type RemoteError struct {
	Reason string
}

func (e *RemoteError) Error() string {
	return "link: remote: " + e.Reason
}

// Client is the brain side of the protocol. Do is synchronous and
// serialized: one request is on the wire at a time, and the call
// blocks until the muscle's reply line arrives. The reader must be
// spawned with Run before the first Do.
type Client struct {
	// Timeout bounds each Do call.
	Timeout time.Duration

	rw      io.ReadWriter
	replyCh chan string
	doneCh  chan struct{}
	lock    sync.Mutex
}

// NewClient wraps an open connection to the muscle.
func NewClient(rw io.ReadWriter) *Client {
	return &Client{
		Timeout: DefaultTimeout,
		rw:      rw,
		replyCh: make(chan string, 1),
		doneCh:  make(chan struct{}),
	}
}

// Name implements framework.Named.
func (c *Client) Name() string {
	return "link.Client"
}

// Run reads reply lines until the connection fails or ctx is done. A
// closable connection is closed on cancel to unblock the read.
func (c *Client) Run(ctx context.Context) error {
	if closer, ok := c.rw.(io.Closer); ok {
		return framework.RunWithContextCloser(ctx, closer, func() error {
			return c.read(ctx)
		})
	}
	return c.read(ctx)
}

func (c *Client) read(ctx context.Context) error {
	defer close(c.doneCh)
	scanner := bufio.NewScanner(c.rw)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		glog.V(4).Infof("link: recv %q", line)
		select {
		case c.replyCh <- line:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return err
	}
	return ctx.Err()
}

// Do sends one command and waits for its reply. A mismatched OK line
// is treated as a stale leftover and skipped.
func (c *Client) Do(cmd Command) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	line := cmd.String()
	glog.V(4).Infof("link: send %q", line)
	if _, err := io.WriteString(c.rw, line+"\n"); err != nil {
		return fmt.Errorf("link: send %q: %w", line, err)
	}

	deadline := time.NewTimer(c.Timeout)
	defer deadline.Stop()
	for {
		select {
		case reply := <-c.replyCh:
			switch {
			case reply == okPrefix+line:
				return nil
			case strings.HasPrefix(reply, errPrefix):
				return &RemoteError{Reason: strings.TrimPrefix(reply, errPrefix)}
			default:
				glog.Warningf("link: stale reply %q for %q", reply, line)
			}
		case <-c.doneCh:
			return ErrClosed
		case <-deadline.C:
			return fmt.Errorf("%w: %q", ErrTimeout, line)
		}
	}
}

// Stop requests an immediate halt. It is safe to call at any time,
// including while another goroutine has a request in flight: the stop
// line is written past the request lock so the muscle sees it without
// waiting for the current burst to finish. The reply is collected by
// whichever Do is waiting and discarded as stale.
func (c *Client) Stop() error {
	glog.V(4).Info("link: send STOP (out of band)")
	_, err := io.WriteString(c.rw, string(Stop)+"\n")
	if err != nil {
		return fmt.Errorf("link: send STOP: %w", err)
	}
	return nil
}
