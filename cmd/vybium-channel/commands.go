package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/channel"
	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/core"
	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/report"
	vybiumbtcchannel "github.com/vybium/vybium-btc-channel/pkg/vybium-btc-channel"
)

// Draw is the JSON form of one squeeze and the hint that proves it
type Draw struct {
	Kind      string   `json:"kind"`
	Bits      int      `json:"bits,omitempty"`
	Before    string   `json:"digest_before"`
	After     string   `json:"digest_after"`
	Element   []uint32 `json:"element,omitempty"`
	Indices   []uint32 `json:"indices,omitempty"`
	Values    []int64  `json:"hint_values"`
	Remainder string   `json:"hint_remainder"`
}

// AbsorbOutput is the JSON form of an absorb run
type AbsorbOutput struct {
	Before     string   `json:"digest_before"`
	After      string   `json:"digest_after"`
	Transcript []string `json:"transcript"`
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func ReportSizes(cCtx *cli.Context) error {
	log, err := newLogger(cCtx)
	if err != nil {
		return err
	}
	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	stats, err := report.Fragments(config)
	if err != nil {
		return fmt.Errorf("failed to measure fragments: %w", err)
	}
	report.LogFragments(log, stats)

	for _, f := range stats {
		fmt.Printf("%-20s %s\n", f.Name, f.Stats)
	}
	return nil
}

func RenderChart(cCtx *cli.Context) error {
	log, err := newLogger(cCtx)
	if err != nil {
		return err
	}
	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	stats, err := report.Fragments(config)
	if err != nil {
		return fmt.Errorf("failed to measure fragments: %w", err)
	}

	outputPath := cCtx.String("output")
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := report.RenderChart(f, "Channel fragment sizes", stats); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	log.Info().Str("path", outputPath).Int("fragments", len(stats)).Msg("chart written")
	return nil
}

// parseElement reads "c0,c1,c2,c3"
func parseElement(s string) (core.QM31, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return core.QM31{}, fmt.Errorf("element %q must have 4 coordinates", s)
	}
	var c [4]core.M31
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return core.QM31{}, fmt.Errorf("invalid coordinate %q: %w", p, err)
		}
		if uint32(v) >= core.P {
			return core.QM31{}, fmt.Errorf("coordinate %d is not below 2^31 - 1", v)
		}
		c[i] = core.M31(v)
	}
	return core.FromM31(c[0], c[1], c[2], c[3]), nil
}

func Absorb(cCtx *cli.Context) error {
	log, err := newLogger(cCtx)
	if err != nil {
		return err
	}
	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}
	seed, err := loadSeed(cCtx)
	if err != nil {
		return err
	}

	var verifier *vybiumbtcchannel.Verifier
	if cCtx.Bool("verify") {
		verifier, err = vybiumbtcchannel.NewVerifier(config, vybiumbtcchannel.WithLogger(log))
		if err != nil {
			return err
		}
	}

	ch := channel.NewChannel(seed)
	for _, s := range cCtx.StringSlice("digest") {
		x, err := core.DigestFromHex(s)
		if err != nil {
			return err
		}
		before := ch.Digest()
		ch.AbsorbDigest(x)
		if verifier != nil {
			res, err := verifier.AbsorbDigest(before, x)
			if err != nil {
				return err
			}
			if err := res.Err(); err != nil {
				return err
			}
		}
	}
	for _, s := range cCtx.StringSlice("element") {
		x, err := parseElement(s)
		if err != nil {
			return err
		}
		before := ch.Digest()
		ch.AbsorbElement(x)
		if verifier != nil {
			res, err := verifier.AbsorbElement(before, x)
			if err != nil {
				return err
			}
			if err := res.Err(); err != nil {
				return err
			}
		}
	}

	log.Debug().Int("steps", len(ch.Transcript())).Msg("absorbed")
	return writeJSON(os.Stdout, AbsorbOutput{
		Before:     seed.Hex(),
		After:      ch.Digest().Hex(),
		Transcript: ch.Transcript(),
	})
}

func Squeeze(cCtx *cli.Context) error {
	log, err := newLogger(cCtx)
	if err != nil {
		return err
	}
	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}
	seed, err := loadSeed(cCtx)
	if err != nil {
		return err
	}

	ch := channel.NewChannel(seed)
	draw := Draw{Kind: cCtx.String("kind"), Before: seed.Hex()}
	var hints channel.DrawHints

	switch draw.Kind {
	case "element":
		x, h := ch.SqueezeElement()
		c := x.Coordinates()
		draw.Element = []uint32{c[0].Uint32(), c[1].Uint32(), c[2].Uint32(), c[3].Uint32()}
		hints = h
	case "indices":
		idx, h, err := ch.SqueezeIndices(config.QueryBits)
		if err != nil {
			return err
		}
		draw.Bits = config.QueryBits
		draw.Indices = idx[:]
		hints = h
	default:
		return fmt.Errorf("unknown kind %q, want element or indices", draw.Kind)
	}

	draw.After = ch.Digest().Hex()
	draw.Values = hints.Values
	draw.Remainder = hex.EncodeToString(hints.Remainder)
	log.Info().Str("kind", draw.Kind).Str("digest", draw.After).Msg("squeezed")

	out := io.Writer(os.Stdout)
	if path := cCtx.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return writeJSON(out, draw)
}

func Verify(cCtx *cli.Context) error {
	log, err := newLogger(cCtx)
	if err != nil {
		return err
	}
	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	in := io.Reader(os.Stdin)
	if path := cCtx.String("input"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		in = f
	}

	var draw Draw
	if err := json.NewDecoder(in).Decode(&draw); err != nil {
		return fmt.Errorf("failed to parse draw: %w", err)
	}
	before, err := core.DigestFromHex(draw.Before)
	if err != nil {
		return err
	}
	after, err := core.DigestFromHex(draw.After)
	if err != nil {
		return err
	}
	remainder, err := hex.DecodeString(draw.Remainder)
	if err != nil {
		return fmt.Errorf("invalid hint remainder: %w", err)
	}
	hints := channel.DrawHints{Values: draw.Values, Remainder: remainder}

	var res *vybiumbtcchannel.Result
	switch draw.Kind {
	case "element":
		if len(draw.Element) != 4 {
			return fmt.Errorf("element draw must have 4 coordinates, got %d", len(draw.Element))
		}
		verifier, err := vybiumbtcchannel.NewVerifier(config, vybiumbtcchannel.WithLogger(log))
		if err != nil {
			return err
		}
		x := vybiumbtcchannel.NewQM31(draw.Element[0], draw.Element[1], draw.Element[2], draw.Element[3])
		res, err = verifier.SqueezeElement(before, hints, x, after)
		if err != nil {
			return err
		}
	case "indices":
		if len(draw.Indices) != vybiumbtcchannel.QueryCount {
			return fmt.Errorf("indices draw must have %d indices, got %d",
				vybiumbtcchannel.QueryCount, len(draw.Indices))
		}
		verifier, err := vybiumbtcchannel.NewVerifier(config.WithQueryBits(draw.Bits), vybiumbtcchannel.WithLogger(log))
		if err != nil {
			return err
		}
		var idx [vybiumbtcchannel.QueryCount]uint32
		copy(idx[:], draw.Indices)
		res, err = verifier.SqueezeIndices(before, hints, idx, after)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown kind %q", draw.Kind)
	}

	if err := res.Err(); err != nil {
		return err
	}
	fmt.Printf("accepted: %d bytes, %d ops, max depth %d\n", res.ScriptSize, res.ExecutedOps, res.MaxStackDepth)
	return nil
}
