package nav

import (
	"context"
	"time"

	"github.com/golang/glog"
)

// PanHead points the distance sensor at an absolute bearing.
// *motion.PanAxis implements it.
type PanHead interface {
	MoveTo(deg float64)
	Center()
}

// ScanPoint is one sampled bearing of a sweep.
type ScanPoint struct {
	Angle    float64
	Distance float64
	Valid    bool
}

// ScanResult summarizes one sweep. Valid is false when not a single
// bearing produced a usable reading.
type ScanResult struct {
	Points      []ScanPoint
	BestAngle   float64
	MaxDistance float64
	Valid       bool
}

// Sweeper runs the pan head across the front arc and samples each
// bearing.
type Sweeper struct {
	cfg    *Config
	head   PanHead
	sensor DistanceSensor
}

func NewSweeper(cfg *Config, head PanHead, sensor DistanceSensor) *Sweeper {
	return &Sweeper{cfg: cfg, head: head, sensor: sensor}
}

// Sweep scans from one edge of the arc to the other in even
// increments and reports the clearest bearing. Equally clear bearings
// resolve to the one closest to straight ahead, so a uniformly open
// field does not read as a turn toward the arc's edge. Cancellation is
// checked before every sub-step so a shutdown never waits out a full
// sweep.
func (s *Sweeper) Sweep(ctx context.Context) (ScanResult, error) {
	var res ScanResult
	half := s.cfg.ScanArc / 2
	for angle := -half; angle <= half; angle += s.cfg.ScanStep {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		s.head.MoveTo(angle)
		if err := sleepCtx(ctx, s.cfg.SettleTime); err != nil {
			return res, err
		}
		dist, ok := MedianDistance(s.sensor, s.cfg.Samples, s.cfg.SamplePause)
		pt := ScanPoint{Angle: angle, Distance: dist, Valid: ok}
		res.Points = append(res.Points, pt)
		if !ok {
			glog.V(4).Infof("nav: sweep %.0f: no valid reading", angle)
			continue
		}
		glog.V(4).Infof("nav: sweep %.0f: %.1fcm", angle, dist)
		if !res.Valid || dist > res.MaxDistance ||
			(dist == res.MaxDistance && abs(angle) < abs(res.BestAngle)) {
			res.BestAngle, res.MaxDistance, res.Valid = angle, dist, true
		}
	}
	return res, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
