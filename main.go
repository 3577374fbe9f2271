package main

import (
	"encoding/base64"
	"flag"
	"os"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/citybound-go/microtraffic/clock"
	"github.com/citybound-go/microtraffic/scheduler"
	"github.com/citybound-go/microtraffic/trip"
	"github.com/citybound-go/microtraffic/utils/config"
)

var (
	// 配置文件路径
	configPath = flag.String("config", "", "config file path")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")

	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "microtraffic")
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}

	var c config.Config
	var file []byte
	var err error
	if *configPath != "" {
		file, err = os.ReadFile(*configPath)
		if err != nil {
			log.Panicf("config file load err: %v", err)
		}
	} else if *configData != "" {
		file, err = base64.StdEncoding.DecodeString(*configData)
		if err != nil {
			log.Panicf("config data load err: %v", err)
		}
	} else {
		log.Panic("config file or config data must be specified")
	}
	if err := yaml.UnmarshalStrict(file, &c); err != nil {
		log.Panicf("config file load err: %v", err)
	}
	rc := config.NewRuntimeConfig(c)
	log.Infof("%+v", rc.Tuning)

	clk := clock.New(rc.C.Step)

	trips := trip.NewStore()
	sched := scheduler.New(trips)
	defer sched.Close()

	// Lane and TransferLane registration is the road-network topology
	// loader's job (spec §1: out of scope for this engine, consumed
	// read-only). A deployment wires it in before calling Run by calling
	// sched.Register for every lane built from its own map data.
	run(sched, clk, trips)
}

func run(sched *scheduler.Scheduler, clk *clock.Clock, trips *trip.Store) {
	for {
		sched.Tick(clk.DT, clk.Instant())
		log.WithField("t", clk.String()).WithField("trips_finished", trips.Count()).Debug("tick")
		if !clk.Step() {
			break
		}
	}
	log.WithField("t", clk.String()).Info("simulation run complete")
}
