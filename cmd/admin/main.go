package main

import (
	"context"
	"os"

	"github.com/yigit/ratemyteacher/internal/bootstrap"
	"github.com/yigit/ratemyteacher/internal/config"
	"github.com/yigit/ratemyteacher/internal/pkg/logger"
)

func main() {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		os.Exit(1)
	}

	cl := commandLine{
		open: func(ctx context.Context) (*config.Config, *bootstrap.Store, error) {
			store, err := bootstrap.SetupStore(ctx, cfg, lgr)
			return cfg, store, err
		},
		out:    os.Stdout,
		logger: lgr,
	}
	if err := cl.run(context.Background(), os.Args); err != nil {
		logger.Error().Err(err).Msg("Admin command failed")
		os.Exit(1)
	}
}
