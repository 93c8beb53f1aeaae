package nav

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/dreampi/rover.go/pkg/link"
)

// Commander dispatches motion commands to the muscle. *link.Client
// implements it.
type Commander interface {
	Do(link.Command) error
}

// Decision is one completed navigation cycle, for observers such as
// telemetry publishers.
type Decision struct {
	Time    time.Time
	Scan    ScanResult
	Action  Action
	Command link.Command
}

// Navigator runs the scan-classify-dispatch cycle until its context
// is canceled. On exit the muscle is stopped and the pan head parked
// at center.
type Navigator struct {
	// Observer, when set, is called after every dispatched
	// decision, from the navigator's own goroutine.
	Observer func(Decision)

	cfg       *Config
	sweeper   *Sweeper
	head      PanHead
	commander Commander

	lock    sync.Mutex
	current link.Command
}

func NewNavigator(cfg *Config, sweeper *Sweeper, head PanHead, commander Commander) *Navigator {
	return &Navigator{cfg: cfg, sweeper: sweeper, head: head, commander: commander}
}

// Name implements framework.Named.
func (n *Navigator) Name() string {
	return "nav.Navigator"
}

// Current reports the command dispatched by the latest cycle.
func (n *Navigator) Current() link.Command {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.current
}

func (n *Navigator) setCurrent(cmd link.Command) {
	n.lock.Lock()
	n.current = cmd
	n.lock.Unlock()
}

// Run implements framework.Runnable.
func (n *Navigator) Run(ctx context.Context) error {
	defer n.park()
	for {
		start := time.Now()
		if err := n.cycle(ctx, start); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		if err := sleepCtx(ctx, n.cfg.MinCycle-time.Since(start)); err != nil {
			return nil
		}
	}
}

func (n *Navigator) cycle(ctx context.Context, start time.Time) error {
	scan, err := n.sweeper.Sweep(ctx)
	if err != nil {
		return err
	}

	action := EmergencyStop
	if scan.Valid {
		action = Classify(scan.BestAngle, scan.MaxDistance, n.cfg.ObstacleDistance)
		glog.Infof("nav: best %.0f at %.1fcm -> %s", scan.BestAngle, scan.MaxDistance, action)
	} else {
		glog.Warning("nav: sweep produced no valid reading, backing out")
	}

	cmd, err := n.dispatch(ctx, action, scan.BestAngle)
	if err != nil {
		return err
	}
	n.setCurrent(cmd)
	if n.Observer != nil {
		n.Observer(Decision{Time: start, Scan: scan, Action: action, Command: cmd})
	}
	return nil
}

// dispatch sends the command for the action and returns the one that
// characterizes the cycle. Remote rejections are logged and skipped;
// only a dead link ends the run.
func (n *Navigator) dispatch(ctx context.Context, action Action, bestAngle float64) (link.Command, error) {
	left := bestAngle > 0

	var cmd link.Command
	switch action {
	case EmergencyStop:
		if err := n.do(link.Command{Verb: link.Stop}); err != nil {
			return cmd, err
		}
		if err := sleepCtx(ctx, n.cfg.BackoutPause); err != nil {
			return cmd, err
		}
		cmd = link.Command{Verb: link.Reverse, Steps: n.cfg.BackoutSteps}
	case SharpTurn, TurnWhileMoving:
		// Continuous so re-dispatching the same decision next cycle
		// is harmless; a discrete pivot would re-rotate every cycle.
		cmd = link.Command{Verb: pick(left, link.ContinuousTurnLeft, link.ContinuousTurnRight)}
	case SlightCorrection:
		cmd = link.Command{Verb: pick(left, link.ContinuousSlightLeft, link.ContinuousSlightRight)}
	default:
		cmd = link.Command{Verb: link.ContinuousForward}
	}
	return cmd, n.do(cmd)
}

func (n *Navigator) do(cmd link.Command) error {
	err := n.commander.Do(cmd)
	var remote *link.RemoteError
	if errors.As(err, &remote) {
		glog.Errorf("nav: muscle rejected %q: %v", cmd, remote)
		return nil
	}
	return err
}

func (n *Navigator) park() {
	if err := n.commander.Do(link.Command{Verb: link.Stop}); err != nil {
		glog.Errorf("nav: stop on exit: %v", err)
	}
	n.head.Center()
	n.setCurrent(link.Command{Verb: link.Stop})
}

func pick(left bool, l, r link.Verb) link.Verb {
	if left {
		return l
	}
	return r
}
