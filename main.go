package main

import (
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/scrub/internal/cli"
	"github.com/llehouerou/scrub/internal/config"
	"github.com/llehouerou/scrub/internal/mpvengine"
	"github.com/llehouerou/scrub/internal/mpvengine/libmpv"
	"github.com/llehouerou/scrub/internal/pipeline"
)

func main() {
	cli.Execute(map[string]cli.EngineFactory{
		config.BackendMPV: newMPV,
	})
}

func newMPV(cfg config.EngineConfig, log logrus.FieldLogger) (pipeline.Engine, error) {
	client, err := libmpv.Open(libmpv.Options{VO: cfg.VO, HWDec: cfg.HWDec})
	if err != nil {
		return nil, err
	}
	return mpvengine.New(client, mpvengine.Options{Logger: log}), nil
}
