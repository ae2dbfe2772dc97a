package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/alecthomas/kingpin.v2"

	app "github.com/okian/crewcast/internal/app"
	"github.com/okian/crewcast/internal/config"
	"github.com/okian/crewcast/pkg/logger"
)

// sharedFlags are accepted by every command.
type sharedFlags struct {
	envFile string
	model   string
	logFile string
}

func (f *sharedFlags) register(cmd *kingpin.CmdClause) {
	cmd.Flag("envfile", "load the environment variable file").
		Default(".env").
		StringVar(&f.envFile)
	cmd.Flag("model", "model artifact path or http(s) endpoint; defaults to CREWCAST_MODEL_PATH").
		StringVar(&f.model)
	cmd.Flag("log-file", "write logs to this file instead of discarding them").
		StringVar(&f.logFile)
}

// setup loads configuration, initializes logging and returns a service with
// the requested model loaded. The returned func releases resources.
func (f *sharedFlags) setup(ctx context.Context) (*app.Service, func(), error) {
	if err := godotenv.Load(f.envFile); err != nil && !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("load env file: %w", err)
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer = io.Discard
	closeLog := func() {}
	if f.logFile != "" {
		lf, err := os.OpenFile(f.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = lf
		closeLog = func() { _ = lf.Close() }
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(out)); err != nil {
		closeLog()
		return nil, nil, err
	}
	_ = logger.SetLevelString(cfg.LogLevel)

	source := f.model
	if source == "" {
		source = cfg.ModelPath
	}
	svc := app.New(
		app.WithLogger(logger.Get()),
		app.WithStrictLabels(cfg.StrictLabels),
		app.WithRangeChecks(cfg.RangeChecks),
		app.WithDelimiter(cfg.Delimiter()),
		app.WithModelSource(source, false),
		app.WithRemoteTimeout(time.Duration(cfg.RemoteTimeoutMS)*time.Millisecond),
		app.WithRemoteBreaker(cfg.RemoteBreakerFailures, time.Duration(cfg.RemoteBreakerCooldownMS)*time.Millisecond),
	)
	if err := svc.Start(ctx); err != nil {
		closeLog()
		return nil, nil, err
	}
	if _, err := svc.LoadModel(ctx, source); err != nil {
		svc.Stop()
		closeLog()
		return nil, nil, err
	}
	return svc, func() {
		svc.Stop()
		closeLog()
	}, nil
}
