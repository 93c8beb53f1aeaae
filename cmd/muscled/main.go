package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"

	"github.com/golang/glog"

	fx "github.com/dreampi/rover.go/pkg/framework"
	"github.com/dreampi/rover.go/pkg/muscle"
)

func init() {
	muscle.SetupFlags()
}

func main() {
	flag.Parse()

	rig, err := muscle.NewConfig().Setup()
	if err != nil {
		log.Fatalln(err)
	}
	defer func() {
		if err := rig.Close(); err != nil {
			glog.Errorf("shutdown: %v", err)
		}
	}()

	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("muscled", fx.NewLoop().Add(rig)))
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
