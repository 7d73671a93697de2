package main

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/groupnames/internal/config"
	"github.com/g5becks/groupnames/internal/lockfile"
	"github.com/g5becks/groupnames/internal/manifest"
)

func newCleanCommand() *cli.Command {
	return &cli.Command{
		Name:      "clean",
		Usage:     "Remove stored records, for all sources or the named ones",
		ArgsUsage: "[source-name...]",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: cleanAction,
	}
}

func cleanAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadOrDefault(cmd.String("config"))
	if err != nil {
		return err
	}

	names := cmd.Args().Slice()
	if len(names) == 0 {
		if err := removeOutput(cfg); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(stdout(cmd), "removed %s\n", cfg.OutputDir())
		return nil
	}

	outputDir := cfg.OutputDir()

	m, err := manifest.LoadOrNew(outputDir, cfg.MaxRecords)
	if err != nil {
		return err
	}

	lock, err := lockfile.Load(outputDir)
	if err != nil {
		return err
	}

	removed := 0
	for _, name := range names {
		removed += len(m.RemoveSource(name))
		lock.RemoveEntry(name)
	}

	if err := m.Save(outputDir); err != nil {
		return err
	}
	if err := lock.Save(outputDir); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout(cmd), "removed %d record(s)\n", removed)
	return nil
}

func removeOutput(cfg *config.Config) error {
	if err := os.RemoveAll(cfg.OutputDir()); err != nil {
		return oops.
			Code("CLEAN_FAILED").
			With("path", cfg.OutputDir()).
			Wrapf(err, "removing output directory")
	}
	return nil
}
