package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/g5becks/groupnames/internal/config"
	"github.com/g5becks/groupnames/internal/extract"
	"github.com/g5becks/groupnames/internal/logger"
	"github.com/g5becks/groupnames/internal/manifest"
	"github.com/g5becks/groupnames/internal/source"
	"github.com/g5becks/groupnames/internal/ui"
)

const extractSourceName = "extract"

func newExtractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Extract group data from one page, a directory of pages, or a URL",
		ArgsUsage: "<file-or-url>",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "label",
				Usage: "Override the group label found on the page",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output extracted pages as JSON",
			},
		},
		Action: extractAction,
	}
}

func extractAction(ctx context.Context, cmd *cli.Command) error {
	if err := requireArgs(cmd, 1, "extract <file-or-url>"); err != nil {
		return err
	}

	cfg, err := config.LoadOrDefault(cmd.String("config"))
	if err != nil {
		return err
	}

	src, err := source.New(extractSourceName, inlineSource(cmd.Args().First()))
	if err != nil {
		return err
	}
	defer func() {
		_ = src.Close()
	}()

	fetched, err := src.Fetch(ctx, nil, source.FetchOptions{Force: true}, nil)
	if err != nil {
		return err
	}

	extractor := extract.New(extract.Options{
		Math:         cfg.MathOptions(),
		Presentation: cfg.PresentationOptions(),
	})

	log := logger.FromContext(ctx)
	label := cmd.String("label")
	now := time.Now()

	pages := make([]*extract.Page, 0, len(fetched.Documents))
	records := make([]*manifest.Record, 0, len(fetched.Documents))
	for _, doc := range fetched.Documents {
		page, extractErr := extractor.Read(bytes.NewReader(doc.Content), doc.Location, label)
		if extractErr != nil {
			if len(fetched.Documents) == 1 {
				return extractErr
			}
			log.Warn("page skipped", "location", doc.Location, "err", extractErr)
			continue
		}

		if page.Label == "" {
			base := filepath.Base(doc.Path)
			page.Label = strings.TrimSuffix(base, filepath.Ext(base))
		}

		for _, warning := range page.Warnings {
			log.Warn(warning, "label", page.Label)
		}

		pages = append(pages, page)
		rec, recErr := manifest.NewRecord(extractSourceName, doc.Location, page, now)
		if recErr != nil {
			return recErr
		}
		records = append(records, rec)
	}

	if cmd.Bool("json") {
		if len(pages) == 1 {
			return writeJSON(stdout(cmd), pages[0])
		}
		return writeJSON(stdout(cmd), pages)
	}

	return ui.RenderRecordList(stdout(cmd), ui.Summarize(records), ui.ListOptions{Verbose: true})
}

func inlineSource(target string) config.Source {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return config.Source{Type: config.SourceTypeURL, URL: target}
	}

	return config.Source{
		Type:     config.SourceTypeFile,
		Path:     target,
		Patterns: config.DefaultPatterns(),
	}
}
