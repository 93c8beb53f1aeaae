package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"

	"github.com/golang/glog"

	"github.com/dreampi/rover.go/pkg/brain"
	fx "github.com/dreampi/rover.go/pkg/framework"
	"github.com/dreampi/rover.go/pkg/nav"
	"github.com/dreampi/rover.go/pkg/telemetry"
)

func init() {
	brain.SetupFlags()
	nav.SetupFlags()
	telemetry.SetupFlags()
}

func main() {
	flag.Parse()

	rig, err := brain.NewConfig().Setup(nav.NewConfig())
	if err != nil {
		log.Fatalln(err)
	}
	defer func() {
		if err := rig.Close(); err != nil {
			glog.Errorf("shutdown: %v", err)
		}
	}()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	runner := fx.NewRunnerWith(ctx).HandleSignals()

	if conf := telemetry.NewConfig(); conf.Enabled() {
		reporter, err := conf.NewReporter()
		if err != nil {
			log.Fatalln(err)
		}
		reporter.OnStop = func() {
			// Halt motion right away, then shut down: the canceled
			// context parks the navigator with a final STOP.
			if err := rig.Client.Stop(); err != nil {
				glog.Errorf("remote stop: %v", err)
			}
			stop()
		}
		rig.Navigator.Observer = reporter.Observe
		runner.Go(reporter)
	}

	runner.Go(rig)
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
