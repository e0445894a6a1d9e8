package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	bankFlag := &cli.StringFlag{
		Name:     "bank",
		Aliases:  []string{"b"},
		Usage:    "Path to the question bank JSON document",
		Required: true,
	}
	return &cli.App{
		Name:  "bankctl",
		Usage: "Inspect and query question bank documents offline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "validate",
				Usage:  "Decode a bank and report duplicate or empty questions",
				Action: validateCommand,
				Flags: []cli.Flag{
					bankFlag,
					&cli.BoolFlag{
						Name:  "strict",
						Usage: "Exit non-zero when any issue is found",
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Match one or more titles against a bank",
				ArgsUsage: "TITLE...",
				Action:    queryCommand,
				Flags:     []cli.Flag{bankFlag},
			},
			{
				Name:   "batch",
				Usage:  "Match every line of an input file, printing one JSON result per line",
				Action: batchCommand,
				Flags: []cli.Flag{
					bankFlag,
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "File with one title per line",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent matchers",
						Value: 4,
					},
				},
			},
			{
				Name:   "token",
				Usage:  "Issue a bearer token for the query API",
				Action: tokenCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "secret",
						Usage:    "Signing secret shared with the server",
						EnvVars:  []string{"AUTH_SECRET"},
						Required: true,
					},
					&cli.StringFlag{
						Name:     "subject",
						Usage:    "Caller identity embedded in the token",
						Required: true,
					},
					&cli.DurationFlag{
						Name:  "ttl",
						Usage: "Token lifetime",
						Value: 30 * 24 * time.Hour,
					},
				},
			},
			{
				Name:      "hash-key",
				Usage:     "Print the bcrypt hash of an API key for auth.apiKeyHashes",
				ArgsUsage: "KEY",
				Action:    hashKeyCommand,
			},
		},
	}
}
