package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/g5becks/groupnames/internal/manifest"
	"github.com/g5becks/groupnames/internal/ui"
)

func newListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored group records",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "source",
				Usage: "List only records from one source",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Include presentation and location columns",
			},
		},
		Action: listAction,
	}
}

func listAction(_ context.Context, cmd *cli.Command) error {
	_, m, err := loadStore(cmd)
	if err != nil {
		return err
	}

	records := m.Sorted()
	if name := cmd.String("source"); name != "" {
		filtered := make([]*manifest.Record, 0, len(records))
		for _, rec := range records {
			if rec.Source == name {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	return ui.RenderRecordList(stdout(cmd), ui.Summarize(records), ui.ListOptions{
		JSON:    cmd.Bool("json"),
		Verbose: cmd.Bool("verbose"),
	})
}
