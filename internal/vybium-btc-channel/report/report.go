// Package report measures the channel fragments. Script size and op count
// are hard ceilings on chain, so every fragment is tracked.
package report

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/channel"
	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/script"
	"github.com/vybium/vybium-btc-channel/internal/vybium-btc-channel/utils"
)

// FragmentStat is the static cost of one named fragment
type FragmentStat struct {
	Name  string
	Stats script.Stats
}

// Fragments builds every channel fragment for the configuration and
// measures it. Fragments larger than cfg.MaxScriptSize are an error.
func Fragments(cfg *utils.Config) ([]FragmentStat, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	type named struct {
		name  string
		build func() (script.Script, error)
	}
	fixed := func(s script.Script) func() (script.Script, error) {
		return func() (script.Script, error) { return s, nil }
	}
	unpack := func(n int) func() (script.Script, error) {
		return func() (script.Script, error) { return channel.UnpackMultiM31(n) }
	}

	list := []named{
		{"reconstruct", fixed(channel.Reconstruct())},
		{"unpack_1", unpack(1)},
		{"unpack_4", unpack(4)},
		{"unpack_5", unpack(5)},
		{"unpack_8", unpack(8)},
		{"absorb_digest", fixed(channel.AbsorbDigestGadget())},
		{"absorb_element", fixed(channel.AbsorbElementGadget())},
		{"squeeze_element", fixed(channel.SqueezeElementGadget())},
		{fmt.Sprintf("squeeze_indices_%d", cfg.QueryBits), func() (script.Script, error) {
			return channel.SqueezeIndicesGadget(cfg.QueryBits)
		}},
		{fmt.Sprintf("trim_%d", cfg.QueryBits), func() (script.Script, error) {
			return utils.TrimM31Gadget(cfg.QueryBits)
		}},
		{"serialize_qm31", fixed(utils.SerializeQM31Gadget())},
	}

	out := make([]FragmentStat, 0, len(list))
	for _, f := range list {
		s, err := f.build()
		if err != nil {
			return nil, fmt.Errorf("failed to build %s: %w", f.name, err)
		}
		st, err := s.Stats()
		if err != nil {
			return nil, fmt.Errorf("failed to measure %s: %w", f.name, err)
		}
		if cfg.MaxScriptSize > 0 && st.Size > cfg.MaxScriptSize {
			return nil, fmt.Errorf("%s is %d bytes, above the %d byte limit",
				f.name, st.Size, cfg.MaxScriptSize)
		}
		out = append(out, FragmentStat{Name: f.name, Stats: st})
	}
	return out, nil
}

// LogFragments writes one structured line per fragment
func LogFragments(log zerolog.Logger, stats []FragmentStat) {
	total := 0
	for _, f := range stats {
		log.Info().
			Str("fragment", f.Name).
			Int("bytes", f.Stats.Size).
			Int("ops", f.Stats.Ops).
			Int("pushes", f.Stats.Pushes).
			Msg("fragment size")
		total += f.Stats.Size
	}
	log.Debug().Int("fragments", len(stats)).Int("bytes", total).Msg("fragment sizes measured")
}
