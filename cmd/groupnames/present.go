package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/groupnames/internal/config"
	"github.com/g5becks/groupnames/internal/presentation"
)

func newPresentCommand() *cli.Command {
	return &cli.Command{
		Name:      "present",
		Usage:     "Parse a generators-and-relations presentation",
		ArgsUsage: "<text>",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "label",
				Usage: "Group label attached to the result",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output as JSON",
			},
			&cli.BoolFlag{
				Name:  "unsigned",
				Usage: "Read a-1 as a with the sign and digits dropped",
			},
			&cli.BoolFlag{
				Name:  "allow-unknown",
				Usage: "Accept relations that use letters not listed as generators",
			},
		},
		Action: presentAction,
	}
}

func presentAction(_ context.Context, cmd *cli.Command) error {
	text := strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
	if text == "" {
		return oops.
			Code("INVALID_ARGS").
			Hint("Usage: groupnames present '< a,b | a4=1, b2=1 >'").
			Errorf("presentation text cannot be empty")
	}

	cfg, err := config.LoadOrDefault(cmd.String("config"))
	if err != nil {
		return err
	}

	opts := cfg.PresentationOptions()
	if cmd.Bool("unsigned") {
		opts.SignedExponents = false
	}
	if cmd.Bool("allow-unknown") {
		opts.AllowUnknownGenerators = true
	}

	group, err := presentation.ParseWithOptions(text, cmd.String("label"), opts)
	if err != nil {
		return err
	}

	w := stdout(cmd)
	if cmd.Bool("json") {
		return writeJSON(w, group)
	}

	if group.Label != "" {
		fmt.Fprintf(w, "label:      %s\n", group.Label)
	}
	fmt.Fprintf(w, "generators: %s\n", strings.Join(group.Generators, ", "))
	fmt.Fprintf(w, "relations:  %d\n", len(group.Relations))
	for _, chain := range group.Relations {
		fmt.Fprintf(w, "  %s\n", chain)
	}
	_, err = fmt.Fprintf(w, "canonical:  %s\n", group)
	return err
}
