package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/g5becks/groupnames/internal/ui"
)

func newShowCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show the presentation and character table of one group",
		ArgsUsage: "<label>",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the stored record as JSON",
			},
		},
		Action: showAction,
	}
}

func showAction(_ context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1, "show <label>"); err != nil {
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

	w := stdout(cmd)
	if cmd.Bool("json") {
		return writeJSON(w, rec)
	}

	_, _ = fmt.Fprintf(w, "group:        %s\n", rec.Label)
	_, _ = fmt.Fprintf(w, "source:       %s\n", rec.Source)
	_, _ = fmt.Fprintf(w, "location:     %s\n", rec.Location)

	if text := rec.PresentationText(); text != "" {
		_, _ = fmt.Fprintf(w, "generators:   %s\n", strings.Join(rec.Generators(), ", "))
		_, _ = fmt.Fprintf(w, "presentation: %s\n", text)
	} else {
		_, _ = fmt.Fprintln(w, "presentation: -")
	}

	if rec.Page == nil {
		return nil
	}

	if len(rec.Page.Series) > 0 {
		_, _ = fmt.Fprintln(w)
		for _, series := range rec.Page.Series {
			_, _ = fmt.Fprintf(w, "%s: %s\n", series.Name, strings.Join(series.Members, " > "))
		}
	}

	if sub := rec.Page.Subgroups; sub != nil {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintf(w, "maximal subgroups: %s\n", strings.Join(sub.Maximal, ", "))
		_, _ = fmt.Fprintf(w, "quotients:         %s\n", strings.Join(sub.Quotients, ", "))
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, ui.RenderCharTable(rec.Page.CharTable))

	return nil
}
