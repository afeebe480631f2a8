package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/core"
	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/utils"
)

var globalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level (trace, debug, info, warn, error)",
		Value: "info",
	},
	&cli.IntFlag{
		Name:  "max-script-size",
		Usage: "Script size ceiling in bytes, 0 for tapscript (unbounded)",
	},
	&cli.IntFlag{
		Name:  "max-ops",
		Usage: "Executed op ceiling, 0 for unbounded",
	},
	&cli.IntFlag{
		Name:  "query-bits",
		Usage: "Bits kept per query index",
		Value: 15,
	},
}

var seedFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "seed",
		Aliases: []string{"s"},
		Usage:   "Initial channel digest (hex)",
	},
	&cli.Uint64Flag{
		Name:  "prng-seed",
		Usage: "Derive the initial digest from a ChaCha20 stream when --seed is not set",
	},
}

var commands = []*cli.Command{
	{
		Name:   "sizes",
		Usage:  "Report the size and op count of every fragment",
		Action: ReportSizes,
	},
	{
		Name:  "chart",
		Usage: "Render fragment sizes as an HTML bar chart",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Output path for the HTML page",
				Required: true,
			},
		},
		Action: RenderChart,
	},
	{
		Name:  "absorb",
		Usage: "Absorb digests and elements and print the resulting channel",
		Flags: append([]cli.Flag{
			&cli.StringSliceFlag{
				Name:    "digest",
				Aliases: []string{"d"},
				Usage:   "Commitment to absorb (hex), repeatable",
			},
			&cli.StringSliceFlag{
				Name:    "element",
				Aliases: []string{"e"},
				Usage:   "QM31 element to absorb as c0,c1,c2,c3, repeatable",
			},
			&cli.BoolFlag{
				Name:  "verify",
				Usage: "Also run the absorb fragments for every step",
			},
		}, seedFlags...),
		Action: Absorb,
	},
	{
		Name:  "squeeze",
		Usage: "Squeeze an element or query indices and print the draw with its hint",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Usage:   "What to draw: element or indices",
				Value:   "element",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the draw to this file instead of stdout",
			},
		}, seedFlags...),
		Action: Squeeze,
	},
	{
		Name:  "verify",
		Usage: "Run the squeeze fragment on a draw produced by the squeeze command",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Path to the draw, stdin when omitted",
			},
		},
		Action: Verify,
	},
}

func main() {
	app := &cli.App{
		Name:     "vybium-channel",
		Usage:    "SHA-256 Fiat-Shamir channel fragments for Bitcoin script",
		Flags:    globalFlags,
		Commands: commands,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger writes human readable logs to stderr so stdout stays parseable
func newLogger(cCtx *cli.Context) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cCtx.String("log-level"))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().
		Logger(), nil
}

// loadConfig applies the global flags to the default configuration
func loadConfig(cCtx *cli.Context) (*utils.Config, error) {
	config := utils.DefaultConfig().
		WithMaxScriptSize(cCtx.Int("max-script-size")).
		WithMaxOps(cCtx.Int("max-ops")).
		WithQueryBits(cCtx.Int("query-bits"))
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// loadSeed returns --seed if set, otherwise a digest drawn from --prng-seed
func loadSeed(cCtx *cli.Context) (core.Digest, error) {
	if s := cCtx.String("seed"); s != "" {
		return core.DigestFromHex(s)
	}
	return utils.NewPRNG(cCtx.Uint64("prng-seed")).Digest(), nil
}
