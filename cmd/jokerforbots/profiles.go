package main

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/lox/jokerforbots/internal/bot"
)

type ProfilesCmd struct {
	File string `arg:"" optional:"" type:"existingfile" help:"HCL profile file to validate"`
}

func (c *ProfilesCmd) Run(logger *log.Logger) error {
	profiles := bot.Presets()
	if c.File != "" {
		loaded, err := bot.LoadProfiles(c.File)
		if err != nil {
			return err
		}
		logger.Info("Loaded profiles", "file", c.File, "count", len(loaded))
		profiles = loaded
	}

	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Println(renderProfile(profiles[name]))
	}
	return nil
}

func renderProfile(p bot.Profile) string {
	rows := []struct {
		label string
		value string
	}{
		{"joker trick value", fmt.Sprintf("%.2f", p.JokerTrickValue)},
		{"trump base / rank", fmt.Sprintf("%.2f / %.2f", p.TrumpBase, p.TrumpRankWeight)},
		{"plain rank / high bonus", fmt.Sprintf("%.2f / %.2f", p.NonTrumpRankWeight, p.HighCardBonus)},
		{"blind far / moderate", fmt.Sprintf("%d (%.0f%%) / %d (%.0f%%)",
			p.BlindFarBehind, p.BlindFarShare*100, p.BlindModerateBehind, p.BlindModerateShare*100)},
		{"trump threshold / visible", fmt.Sprintf("%.2f / -%.2f", p.TrumpPowerThreshold, p.TrumpVisibleBonus)},
		{"win blend / future", fmt.Sprintf("%.2f / %.2f", p.WinProbBlend, p.FutureTrickWeight)},
		{"chase / dump", fmt.Sprintf("%.0f / %.0f", p.ChaseWeight, p.DumpWeight)},
		{"joker spend / dump", fmt.Sprintf("%.0f / %.0f", p.JokerSpendPenalty, p.JokerDumpPenalty)},
		{"threat / noise", fmt.Sprintf("%.0f / %.0f", p.ThreatWeight, p.Noise)},
	}

	out := headerStyle.Render(p.Name)
	for _, r := range rows {
		out += fmt.Sprintf("\n  %s %s", labelStyle.Render(fmt.Sprintf("%-26s", r.label)), r.value)
	}
	return out
}
