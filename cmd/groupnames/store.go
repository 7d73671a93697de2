package main

import (
	"github.com/urfave/cli/v3"

	"github.com/g5becks/groupnames/internal/config"
	"github.com/g5becks/groupnames/internal/manifest"
)

// loadStore reads the manifest from the output directory of the resolved config.
func loadStore(cmd *cli.Command) (*config.Config, *manifest.Manifest, error) {
	cfg, err := config.LoadOrDefault(cmd.String("config"))
	if err != nil {
		return nil, nil, err
	}

	m, err := manifest.Load(cfg.OutputDir())
	if err != nil {
		return nil, nil, err
	}

	return cfg, m, nil
}
