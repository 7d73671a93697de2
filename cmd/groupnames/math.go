package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/groupnames/internal/config"
	"github.com/g5becks/groupnames/internal/logger"
	"github.com/g5becks/groupnames/internal/markup"
	"github.com/g5becks/groupnames/internal/mathnode"
)

const (
	formatLaTeX = "latex"
	formatJSON  = "json"
	formatTree  = "tree"
)

func newMathCommand() *cli.Command {
	return &cli.Command{
		Name:      "math",
		Usage:     "Parse an HTML math fragment",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: latex, json, tree",
				Value:   formatLaTeX,
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail when any part of the fragment could not be parsed",
			},
			&cli.IntFlag{
				Name:  "max-depth",
				Usage: "Maximum nesting depth (0 = config default)",
			},
		},
		Action: mathAction,
	}
}

func mathAction(ctx context.Context, cmd *cli.Command) error {
	format := strings.ToLower(cmd.String("format"))
	switch format {
	case formatLaTeX, formatJSON, formatTree:
	default:
		return oops.
			Code("INVALID_ARGS").
			With("format", format).
			Hint("Supported formats: latex, json, tree").
			Errorf("unknown format %q", format)
	}

	data, err := readInput(cmd, cmd.Args().First())
	if err != nil {
		return err
	}

	cfg, err := config.LoadOrDefault(cmd.String("config"))
	if err != nil {
		return err
	}

	opts := cfg.MathOptions()
	if depth := cmd.Int("max-depth"); depth > 0 {
		opts.MaxDepth = depth
	}

	el, err := markup.ParseHTML(string(data))
	if err != nil {
		return err
	}

	result, err := mathnode.New(opts).Parse(el)
	if err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	for _, degradation := range result.Degradations {
		log.Warn("math degraded", "at", degradation.Path, "reason", degradation.Reason)
	}

	if cmd.Bool("strict") && result.Partial() {
		return oops.
			Code("PARTIAL_PARSE").
			With("degradations", len(result.Degradations)).
			Hint("Run without --strict to keep the degraded parse").
			Errorf("fragment parsed partially: %s", result.Degradations[0])
	}

	w := stdout(cmd)
	switch format {
	case formatJSON:
		return writeJSON(w, result)
	case formatTree:
		_, err = io.WriteString(w, mathnode.Dump(result.Node))
	default:
		_, err = fmt.Fprintln(w, mathnode.Render(result.Node))
	}

	return err
}

// readInput reads the named file, or the command's standard input for "" and "-".
func readInput(cmd *cli.Command, name string) ([]byte, error) {
	if name == "" || name == "-" {
		reader := cmd.Root().Reader
		if reader == nil {
			reader = os.Stdin
		}

		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, oops.
				Code("READ_FAILED").
				Wrapf(err, "reading standard input")
		}
		return data, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, oops.
			Code("READ_FAILED").
			With("path", name).
			Wrapf(err, "reading input file")
	}
	return data, nil
}
