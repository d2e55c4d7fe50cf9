package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/Alishbarana/InnoLearn/internal/config"
	"github.com/Alishbarana/InnoLearn/internal/debug"
	"github.com/Alishbarana/InnoLearn/internal/recognition"
	"github.com/Alishbarana/InnoLearn/internal/version"
	"github.com/Alishbarana/InnoLearn/internal/vocabulary"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cwd, wdErr := os.Getwd()
		if wdErr != nil {
			cwd = "."
		}
		cfg, err = config.LoadFromDir(cwd)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if vocab := c.String("vocabulary"); vocab != "" {
		cfg.Vocabulary.Path = vocab
	}
	if c.IsSet("stemming") {
		cfg.Matching.Stemming = c.Bool("stemming")
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newRecognizer builds the vocabulary holder and a recognizer over it. The
// CLI has no OCR or model attached, so only the text paths are live.
func newRecognizer(cfg *config.Config) (*recognition.Recognizer, *vocabulary.Holder, error) {
	table, err := cfg.LoadVocabulary()
	if err != nil {
		return nil, nil, err
	}
	holder := vocabulary.NewHolder(table)
	return recognition.New(holder, nil, nil, cfg.RecognitionOptions()), holder, nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   "innolearn",
		Usage:                  "Recognize technical terms in OCR text and classifier output",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (.kdl or .toml); defaults to " + config.KDLFileName + " in the working or home directory",
			},
			&cli.StringFlag{
				Name:    "vocabulary",
				Aliases: []string{"V"},
				Usage:   "KDL vocabulary file (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "stemming",
				Usage: "Stem keywords before overlap matching (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Write debug output to stderr",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				debug.EnableDebug = "true"
				debug.SetDebugOutput(c.App.ErrWriter)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "recognize",
				Aliases:   []string{"r"},
				Usage:     "Match text against the vocabulary (reads stdin when no text is given)",
				ArgsUsage: "[text...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output as JSON",
					},
				},
				Action: recognizeCommand,
			},
			{
				Name:  "classify",
				Usage: "Adapt a raw classifier score vector into a recognition result",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "scores",
						Aliases:  []string{"s"},
						Usage:    "Comma-separated raw scores, one per label",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "labels",
						Aliases: []string{"l"},
						Usage:   "Comma-separated label order (defaults to the configured labels)",
					},
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output as JSON",
					},
				},
				Action: classifyCommand,
			},
			{
				Name:      "terms",
				Aliases:   []string{"t"},
				Usage:     "List vocabulary categories, or the surface forms of one category",
				ArgsUsage: "[category]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "lookup",
						Usage: "Find the category whose surface forms contain this term",
					},
				},
				Action: termsCommand,
			},
			{
				Name:  "batch",
				Usage: "Recognize every non-empty line of the matched files, printing JSON lines",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Input glob, may repeat (e.g., --input 'captures/**/*.txt')",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Concurrent recognitions (overrides config)",
					},
				},
				Action: batchCommand,
			},
			{
				Name:  "mcp",
				Usage: "Serve recognition tools over MCP stdio",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "Reload the vocabulary file when it changes",
					},
				},
				Action: mcpCommand,
			},
			{
				Name:  "version",
				Usage: "Print build information",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, version.FullInfo())
					return nil
				},
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// splitList parses a comma-separated flag value, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
