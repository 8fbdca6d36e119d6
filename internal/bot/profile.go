package bot

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Profile holds every tunable weight used by the bidding, trump and card play
// services. Presets cover the usual difficulty tiers; custom profiles load
// from HCL.
type Profile struct {
	Name string

	// Bidding: per-card trick chances.
	JokerTrickValue    float64 // chance a joker takes a trick
	TrumpBase          float64 // floor chance of any trump card
	TrumpRankWeight    float64 // extra chance scaled by normalized trump rank
	NonTrumpRankWeight float64 // chance scaled by the cube of normalized rank
	HighCardBonus      float64 // flat bonus for non-trump kings and aces

	// Blind bids, taken before looking at the hand.
	BlindFarBehind      int     // deficit to the leader that counts as far behind
	BlindModerateBehind int     // deficit that counts as moderately behind
	BlindFarShare       float64 // share of the round's cards to bid when far behind
	BlindModerateShare  float64 // share when moderately behind

	// Trump choice.
	TrumpPowerThreshold float64 // per-card suit power needed to name a trump
	TrumpVisibleBonus   float64 // threshold discount when only part of the hand is seen

	// Card play.
	WinProbBlend      float64 // weight of the combinatorial term against card power
	FutureTrickWeight float64 // share of the remaining hand's trick estimate to trust
	ChaseWeight       float64 // reward per unit of win probability while short of the bid
	DumpWeight        float64 // reward per unit of loss probability once the bid is met
	JokerSpendPenalty float64 // cost of a joker spent while tricks are still plentiful
	JokerDumpPenalty  float64 // cost of a joker spent when a losing card would do
	ThreatWeight      float64 // weight of the card's value against the trick's outcome
	Noise             float64 // random jitter added to utilities, in points
}

// Normal is the default profile.
var Normal = Profile{
	Name:                "normal",
	JokerTrickValue:     0.95,
	TrumpBase:           0.35,
	TrumpRankWeight:     0.55,
	NonTrumpRankWeight:  0.45,
	HighCardBonus:       0.15,
	BlindFarBehind:      400,
	BlindModerateBehind: 200,
	BlindFarShare:       0.5,
	BlindModerateShare:  0.25,
	TrumpPowerThreshold: 0.45,
	TrumpVisibleBonus:   0.1,
	WinProbBlend:        0.6,
	FutureTrickWeight:   0.8,
	ChaseWeight:         120,
	DumpWeight:          120,
	JokerSpendPenalty:   60,
	JokerDumpPenalty:    90,
	ThreatWeight:        25,
}

// Easy plays loosely: rougher estimates, no blind bids and noisy card choice.
var Easy = Profile{
	Name:                "easy",
	JokerTrickValue:     0.9,
	TrumpBase:           0.3,
	TrumpRankWeight:     0.5,
	NonTrumpRankWeight:  0.6,
	HighCardBonus:       0.2,
	BlindFarBehind:      math.MaxInt32,
	BlindModerateBehind: math.MaxInt32,
	BlindFarShare:       0,
	BlindModerateShare:  0,
	TrumpPowerThreshold: 0.35,
	TrumpVisibleBonus:   0,
	WinProbBlend:        0.4,
	FutureTrickWeight:   0.6,
	ChaseWeight:         80,
	DumpWeight:          80,
	JokerSpendPenalty:   20,
	JokerDumpPenalty:    30,
	ThreatWeight:        10,
	Noise:               40,
}

// Hard trusts the combinatorial estimate more and guards its jokers.
var Hard = Profile{
	Name:                "hard",
	JokerTrickValue:     0.97,
	TrumpBase:           0.35,
	TrumpRankWeight:     0.6,
	NonTrumpRankWeight:  0.4,
	HighCardBonus:       0.12,
	BlindFarBehind:      300,
	BlindModerateBehind: 150,
	BlindFarShare:       0.6,
	BlindModerateShare:  0.3,
	TrumpPowerThreshold: 0.5,
	TrumpVisibleBonus:   0.15,
	WinProbBlend:        0.75,
	FutureTrickWeight:   0.9,
	ChaseWeight:         150,
	DumpWeight:          150,
	JokerSpendPenalty:   90,
	JokerDumpPenalty:    120,
	ThreatWeight:        35,
}

// Presets returns the built-in profiles keyed by name.
func Presets() map[string]Profile {
	return map[string]Profile{
		Easy.Name:   Easy,
		Normal.Name: Normal,
		Hard.Name:   Hard,
	}
}

// ErrUnknownProfile is returned when a profile name matches no preset.
var ErrUnknownProfile = errors.New("unknown bot profile")

// ProfileByName returns the preset with the given name, case-insensitively.
func ProfileByName(name string) (Profile, error) {
	p, ok := Presets()[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// ProfileNames lists the preset names in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, 3)
	for name := range Presets() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that weights are finite and probabilities lie in [0, 1].
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	unit := map[string]float64{
		"joker_trick_value":     p.JokerTrickValue,
		"trump_base":            p.TrumpBase,
		"trump_rank_weight":     p.TrumpRankWeight,
		"non_trump_rank_weight": p.NonTrumpRankWeight,
		"high_card_bonus":       p.HighCardBonus,
		"blind_far_share":       p.BlindFarShare,
		"blind_moderate_share":  p.BlindModerateShare,
		"win_prob_blend":        p.WinProbBlend,
		"future_trick_weight":   p.FutureTrickWeight,
	}
	for _, key := range sortedKeys(unit) {
		if v := unit[key]; math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("profile %q: %s must be between 0 and 1, got %v", p.Name, key, v)
		}
	}
	weights := map[string]float64{
		"trump_power_threshold": p.TrumpPowerThreshold,
		"trump_visible_bonus":   p.TrumpVisibleBonus,
		"chase_weight":          p.ChaseWeight,
		"dump_weight":           p.DumpWeight,
		"joker_spend_penalty":   p.JokerSpendPenalty,
		"joker_dump_penalty":    p.JokerDumpPenalty,
		"threat_weight":         p.ThreatWeight,
		"noise":                 p.Noise,
	}
	for _, key := range sortedKeys(weights) {
		if v := weights[key]; math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("profile %q: %s must be a non-negative number, got %v", p.Name, key, v)
		}
	}
	if p.BlindFarBehind < 0 || p.BlindModerateBehind < 0 {
		return fmt.Errorf("profile %q: blind thresholds must be non-negative", p.Name)
	}
	if p.BlindFarBehind < p.BlindModerateBehind {
		return fmt.Errorf("profile %q: blind_far_behind (%d) must not be below blind_moderate_behind (%d)",
			p.Name, p.BlindFarBehind, p.BlindModerateBehind)
	}
	return nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// profileFile is the HCL layout of a profile file:
//
//	profile "cautious" {
//	  base         = "hard"
//	  chase_weight = 90
//	}
type profileFile struct {
	Profiles []profileBlock `hcl:"profile,block"`
}

type profileBlock struct {
	Name                string   `hcl:"name,label"`
	Base                *string  `hcl:"base,optional"`
	JokerTrickValue     *float64 `hcl:"joker_trick_value,optional"`
	TrumpBase           *float64 `hcl:"trump_base,optional"`
	TrumpRankWeight     *float64 `hcl:"trump_rank_weight,optional"`
	NonTrumpRankWeight  *float64 `hcl:"non_trump_rank_weight,optional"`
	HighCardBonus       *float64 `hcl:"high_card_bonus,optional"`
	BlindFarBehind      *int     `hcl:"blind_far_behind,optional"`
	BlindModerateBehind *int     `hcl:"blind_moderate_behind,optional"`
	BlindFarShare       *float64 `hcl:"blind_far_share,optional"`
	BlindModerateShare  *float64 `hcl:"blind_moderate_share,optional"`
	TrumpPowerThreshold *float64 `hcl:"trump_power_threshold,optional"`
	TrumpVisibleBonus   *float64 `hcl:"trump_visible_bonus,optional"`
	WinProbBlend        *float64 `hcl:"win_prob_blend,optional"`
	FutureTrickWeight   *float64 `hcl:"future_trick_weight,optional"`
	ChaseWeight         *float64 `hcl:"chase_weight,optional"`
	DumpWeight          *float64 `hcl:"dump_weight,optional"`
	JokerSpendPenalty   *float64 `hcl:"joker_spend_penalty,optional"`
	JokerDumpPenalty    *float64 `hcl:"joker_dump_penalty,optional"`
	ThreatWeight        *float64 `hcl:"threat_weight,optional"`
	Noise               *float64 `hcl:"noise,optional"`
}

// LoadProfiles reads profile blocks from an HCL file. Each block starts from
// its base preset (normal unless base is set) and overrides only the
// attributes it names.
func LoadProfiles(filename string) (map[string]Profile, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	return ParseProfiles(src, filename)
}

// ParseProfiles decodes profile blocks from HCL source.
func ParseProfiles(src []byte, filename string) (map[string]Profile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse profile file: %s", diags.Error())
	}
	return DecodeProfiles(file.Body)
}

// DecodeProfiles decodes the profile blocks of an HCL body. Other files, such
// as simulation configs, embed profile blocks and hand the rest of their body
// here.
func DecodeProfiles(body hcl.Body) (map[string]Profile, error) {
	var pf profileFile
	if diags := gohcl.DecodeBody(body, nil, &pf); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode profiles: %s", diags.Error())
	}

	profiles := make(map[string]Profile, len(pf.Profiles))
	for _, block := range pf.Profiles {
		if _, dup := profiles[block.Name]; dup {
			return nil, fmt.Errorf("duplicate profile %q", block.Name)
		}
		p, err := block.resolve()
		if err != nil {
			return nil, err
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("invalid profile: %w", err)
		}
		profiles[p.Name] = p
	}
	return profiles, nil
}

func (b profileBlock) resolve() (Profile, error) {
	p := Normal
	if b.Base != nil {
		base, err := ProfileByName(*b.Base)
		if err != nil {
			return Profile{}, fmt.Errorf("profile %q: %w", b.Name, err)
		}
		p = base
	}
	p.Name = b.Name

	setFloat(&p.JokerTrickValue, b.JokerTrickValue)
	setFloat(&p.TrumpBase, b.TrumpBase)
	setFloat(&p.TrumpRankWeight, b.TrumpRankWeight)
	setFloat(&p.NonTrumpRankWeight, b.NonTrumpRankWeight)
	setFloat(&p.HighCardBonus, b.HighCardBonus)
	setInt(&p.BlindFarBehind, b.BlindFarBehind)
	setInt(&p.BlindModerateBehind, b.BlindModerateBehind)
	setFloat(&p.BlindFarShare, b.BlindFarShare)
	setFloat(&p.BlindModerateShare, b.BlindModerateShare)
	setFloat(&p.TrumpPowerThreshold, b.TrumpPowerThreshold)
	setFloat(&p.TrumpVisibleBonus, b.TrumpVisibleBonus)
	setFloat(&p.WinProbBlend, b.WinProbBlend)
	setFloat(&p.FutureTrickWeight, b.FutureTrickWeight)
	setFloat(&p.ChaseWeight, b.ChaseWeight)
	setFloat(&p.DumpWeight, b.DumpWeight)
	setFloat(&p.JokerSpendPenalty, b.JokerSpendPenalty)
	setFloat(&p.JokerDumpPenalty, b.JokerDumpPenalty)
	setFloat(&p.ThreatWeight, b.ThreatWeight)
	setFloat(&p.Noise, b.Noise)
	return p, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
