package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/groupnames/internal/report"
)

func newReportCommand() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Render a Markdown or HTML report for one group",
		ArgsUsage: "<label>",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "html",
				Usage: "Render the report as a standalone HTML page",
			},
			&cli.BoolFlag{
				Name:  "outline",
				Usage: "Print only the report's section outline",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the report to a file instead of stdout",
			},
		},
		Action: reportAction,
	}
}

func reportAction(_ context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1, "report <label>"); err != nil {
		return err
	}

	_, m, err := loadStore(cmd)
	if err != nil {
		return err
	}

	rec, err := m.Get(cmd.Args().First())
	if err != nil {
		return err
	}

	md := []byte(report.Markdown(rec))

	if cmd.Bool("outline") {
		w := stdout(cmd)
		for _, h := range report.Outline(md) {
			_, _ = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", h.Level-1), h.Text)
		}
		return nil
	}

	out := md
	if cmd.Bool("html") {
		out = report.HTML(md, rec.Label)
	}

	if path := cmd.String("output"); path != "" {
		if writeErr := os.WriteFile(path, out, 0o644); writeErr != nil {
			return oops.
				Code("REPORT_WRITE_ERROR").
				With("path", path).
				Wrapf(writeErr, "writing report")
		}
		return nil
	}

	_, err = stdout(cmd).Write(out)
	return err
}
