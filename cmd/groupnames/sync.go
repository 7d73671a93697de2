package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/g5becks/groupnames/internal/config"
	gnsync "github.com/g5becks/groupnames/internal/sync"
	"github.com/g5becks/groupnames/internal/ui"
)

func newSyncCommand() *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "Fetch and extract configured sources",
		ArgsUsage: "[source-name...]",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Refetch and re-extract even when sources look unchanged"},
			&cli.BoolFlag{Name: "clean", Usage: "Delete the output directory before syncing"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Extract without writing the manifest or lock file"},
			&cli.IntFlag{Name: "parallel", Aliases: []string{"p"}, Usage: "Maximum parallel sources (0 = config value)"},
			&cli.BoolFlag{Name: "progress", Usage: "Show progress bars instead of per-source lines"},
		},
		Action: syncAction,
	}
}

func syncAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}
	ctx = withConfigLogger(ctx, cmd, cfg)

	dryRun := cmd.Bool("dry-run")
	if cmd.Bool("clean") && !dryRun {
		if err := removeOutput(cfg); err != nil {
			return err
		}
	}

	printer := ui.NewSyncPrinterWithWriter(stderr(cmd), dryRun)

	opts := gnsync.Options{
		SourceNames: cmd.Args().Slice(),
		Force:       cmd.Bool("force"),
		DryRun:      dryRun,
		MaxParallel: cmd.Int("parallel"),
	}

	if cmd.Bool("progress") {
		writer := ui.NewProgressWriter(stderr(cmd))
		opts.Progress = writer
		go writer.Render()
		defer func() {
			writer.Stop()
			for writer.IsRenderInProgress() {
				time.Sleep(10 * time.Millisecond)
			}
		}()
	} else {
		opts.OnEvent = printer.HandleEvent
	}

	run, err := gnsync.Run(ctx, cfg, opts)
	printer.PrintSummary(run)

	return err
}
