package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/groupnames/internal/config"
	"github.com/g5becks/groupnames/internal/logger"
)

var (
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	version = "dev"
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	commit = "unknown"
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	buildTime = "unknown"
)

func main() {
	if err := run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		if oopsErr, ok := oops.AsOops(err); ok && oopsErr.Hint() != "" {
			_, _ = fmt.Fprintln(os.Stderr, "hint:", oopsErr.Hint())
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	return newRootCommand().Run(context.Background(), args)
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "groupnames",
		Usage:   "Parse GroupNames pages into structured group records",
		Version: versionString(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
				Value: config.DefaultLogLevel,
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Emit logs as JSON",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			newMathCommand(),
			newPresentCommand(),
			newExtractCommand(),
			newSyncCommand(),
			newListCommand(),
			newShowCommand(),
			newSearchCommand(),
			newReportCommand(),
			newCleanCommand(),
			newInitCommand(),
		},
	}
}

func setupLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	log := logger.New(logger.Config{
		Level:  cmd.String("log-level"),
		JSON:   cmd.Bool("log-json"),
		Output: cmd.Root().ErrWriter,
	})
	return logger.WithContext(ctx, log), nil
}

// withConfigLogger applies the [log] table of cfg unless logging was set on the
// command line.
func withConfigLogger(ctx context.Context, cmd *cli.Command, cfg *config.Config) context.Context {
	if cmd.IsSet("log-level") || cmd.IsSet("log-json") {
		return ctx
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		JSON:   cfg.Log.JSON,
		Output: cmd.Root().ErrWriter,
	})
	return logger.WithContext(ctx, log)
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to config file",
	}
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return oops.
			Code("JSON_ERROR").
			Wrapf(err, "encoding output")
	}

	return nil
}

func requireArgs(cmd *cli.Command, want int, usage string) error {
	if cmd.Args().Len() != want {
		return oops.
			Code("INVALID_ARGS").
			Hint("Usage: groupnames " + usage).
			Errorf("expected %d argument(s), got %d", want, cmd.Args().Len())
	}
	return nil
}

func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildTime)
}
