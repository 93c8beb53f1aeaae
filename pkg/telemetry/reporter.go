package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang/glog"

	"github.com/dreampi/rover.go/pkg/nav"
)

// Meta announces the rover on the broker, retained under
// <rover-id>/meta. An empty retained payload marks it offline.
type Meta struct {
	ID      string `json:"id"`
	Started string `json:"started"`
}

// DecisionEvent is the JSON payload published per navigation cycle.
type DecisionEvent struct {
	Time        string  `json:"time"`
	Action      string  `json:"action"`
	Command     string  `json:"command"`
	BestAngle   float64 `json:"best_angle"`
	MaxDistance float64 `json:"max_distance"`
	ScanValid   bool    `json:"scan_valid"`
	ScanPoints  int     `json:"scan_points"`
}

// Reporter publishes the rover's navigation decisions and listens for
// a remote stop. It is a Runnable: the connection lives as long as its
// context.
type Reporter struct {
	// OnStop is invoked when a remote stop arrives.
	OnStop func()

	queue   *Queue
	roverID string
}

// NewReporter connects rover identity to a broker URL. The rover ID
// names the topic subtree.
func NewReporter(brokerURL, roverID string) (*Reporter, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+roverID+"/meta", nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("rover:" + roverID)
	}
	return &Reporter{queue: NewQueue(opts, topicPrefix), roverID: roverID}, nil
}

// Name implements framework.Named.
func (r *Reporter) Name() string {
	return "telemetry.Reporter"
}

// Run implements framework.Runnable. The retained meta record is
// published on connect and cleared on the way out.
func (r *Reporter) Run(ctx context.Context) error {
	meta, err := json.Marshal(&Meta{
		ID:      r.roverID,
		Started: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	r.queue.Sub(r.roverID+"/stop", func(string, []byte) {
		glog.Warning("telemetry: remote stop")
		if r.OnStop != nil {
			r.OnStop()
		}
	})
	r.queue.Connect()
	r.queue.PubWith(r.roverID+"/meta", meta, 1, true)

	<-ctx.Done()
	r.queue.PubWith(r.roverID+"/meta", nil, 1, true)
	return r.queue.Close()
}

// Observe publishes one navigation decision. It matches the
// nav.Navigator Observer signature.
func (r *Reporter) Observe(d nav.Decision) {
	payload, err := json.Marshal(&DecisionEvent{
		Time:        d.Time.UTC().Format(time.RFC3339Nano),
		Action:      d.Action.String(),
		Command:     d.Command.String(),
		BestAngle:   d.Scan.BestAngle,
		MaxDistance: d.Scan.MaxDistance,
		ScanValid:   d.Scan.Valid,
		ScanPoints:  len(d.Scan.Points),
	})
	if err != nil {
		glog.Errorf("telemetry: encode decision: %v", err)
		return
	}
	r.queue.Pub(r.roverID+"/decision", payload)
}
