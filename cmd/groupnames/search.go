package main

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/groupnames/internal/manifest"
	"github.com/g5becks/groupnames/internal/search"
)

const (
	formatTable = "table"
	formatCSV   = "csv"
)

func newSearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search stored groups or character table cells",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "source",
				Usage: "Search only records from one source",
			},
			&cli.BoolFlag{
				Name:  "cells",
				Usage: "Search the LaTeX of character table cells instead of group metadata",
			},
			&cli.BoolFlag{
				Name:  "regex",
				Usage: "Treat query as regex (requires --cells)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: table, json, csv",
				Value: formatTable,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Max results (0 = unlimited)",
				Value: 20,
			},
		},
		Action: searchAction,
	}
}

func searchAction(_ context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1, "search <query>"); err != nil {
		return err
	}

	query := strings.TrimSpace(cmd.Args().First())
	if query == "" {
		return oops.
			Code("INVALID_ARGS").
			Hint("Provide a non-empty search query").
			Errorf("search query cannot be empty")
	}

	if cmd.Bool("regex") && !cmd.Bool("cells") {
		return oops.
			Code("INVALID_ARGS").
			Hint("--regex requires --cells flag").
			Errorf("--regex can only be used with --cells")
	}

	_, m, err := loadStore(cmd)
	if err != nil {
		return err
	}

	format := cmd.String("format")
	if cmd.Bool("json") {
		format = formatJSON
	}

	switch format {
	case formatTable, formatJSON, formatCSV:
	default:
		return oops.
			Code("INVALID_ARGS").
			With("format", format).
			Hint("Use one of: table, json, csv").
			Errorf("unknown output format %q", format)
	}

	if cmd.Bool("cells") {
		return runCellSearch(stdout(cmd), m, cmd, query, format)
	}

	return runRecordSearch(stdout(cmd), m, cmd, query, format)
}

func runRecordSearch(w io.Writer, m *manifest.Manifest, cmd *cli.Command, query, format string) error {
	results, err := search.Records(m, search.Options{
		Query:  query,
		Source: cmd.String("source"),
		Limit:  cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	switch format {
	case formatJSON:
		return writeJSON(w, results)
	case formatCSV:
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			rows = append(rows, []string{r.Label, r.Source, r.MatchField, r.MatchValue, strconv.Itoa(r.Score)})
		}
		return writeCSV(w, []string{"label", "source", "match_field", "match_value", "score"}, rows)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"GROUP", "SOURCE", "MATCH FIELD", "MATCH", "SCORE"})
	for _, r := range results {
		t.AppendRow(table.Row{r.Label, r.Source, r.MatchField, r.MatchValue, r.Score})
	}
	t.Render()

	return nil
}

func runCellSearch(w io.Writer, m *manifest.Manifest, cmd *cli.Command, query, format string) error {
	results, err := search.Cells(m, search.CellOptions{
		Query:    query,
		Source:   cmd.String("source"),
		UseRegex: cmd.Bool("regex"),
		Limit:    cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	switch format {
	case formatJSON:
		return writeJSON(w, results)
	case formatCSV:
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			rows = append(rows, []string{r.Label, strconv.Itoa(r.Row), strconv.Itoa(r.Cell), r.LaTeX})
		}
		return writeCSV(w, []string{"label", "row", "cell", "latex"}, rows)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"GROUP", "ROW", "CELL", "LATEX"})
	for _, r := range results {
		t.AppendRow(table.Row{r.Label, r.Row, r.Cell, r.LaTeX})
	}
	t.Render()

	return nil
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return oops.Code("CSV_ERROR").Wrapf(err, "writing CSV header")
	}

	if err := cw.WriteAll(rows); err != nil {
		return oops.Code("CSV_ERROR").Wrapf(err, "writing CSV rows")
	}

	return nil
}
