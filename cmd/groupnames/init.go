package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"
)

const configFileName = "groupnames.toml"

const starterConfig = `# groupnames configuration
output = ".groupnames"
parallel = 3
max_records = 100000

[math]
max_depth = 256

[presentation]
signed_exponents = true
allow_unknown_generators = false

[log]
level = "info"
json = false

[sources.q8]
type = "url"
url = "https://people.maths.bris.ac.uk/~matyd/GroupNames/1/Q8.html"

# [sources.saved]
# type = "file"
# path = "pages"
# patterns = ["**/*.html"]
# exclude = ["drafts/**"]
`

func newInitCommand() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Write a starter groupnames.toml",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Overwrite an existing config file",
			},
		},
		Action: initAction,
	}
}

func initAction(_ context.Context, cmd *cli.Command) error {
	dir := cmd.Args().First()
	if dir == "" {
		dir = "."
	}

	path := filepath.Join(dir, configFileName)

	if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
		return oops.
			Code("CONFIG_EXISTS").
			With("path", path).
			Hint("Use --force to overwrite it").
			Errorf("%s already exists", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return oops.
			Code("CONFIG_WRITE_ERROR").
			With("path", path).
			Wrapf(err, "checking config file")
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return oops.
			Code("CONFIG_WRITE_ERROR").
			With("path", dir).
			Wrapf(err, "creating config directory")
	}

	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		return oops.
			Code("CONFIG_WRITE_ERROR").
			With("path", path).
			Wrapf(err, "writing config file")
	}

	_, _ = fmt.Fprintf(stdout(cmd), "wrote %s\n", path)
	return nil
}
