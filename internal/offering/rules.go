package offering

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Rules decide which wiki offerings are kept and how their names are
// corrected before a marketplace lookup.
type Rules struct {
	// Keywords are lowercase substrings marking an offering as untradeable.
	Keywords []string `yaml:"keywords"`
	// Aliases map a normalized wiki name to the marketplace's name.
	Aliases map[string]string `yaml:"aliases"`
	// Dedupe drops repeated names, keeping the first occurrence.
	Dedupe bool `yaml:"dedupe"`
}

// DefaultKeywords lists the untradeable offering categories.
var DefaultKeywords = []string{
	"adapter",
	"ammo restore",
	"armor set",
	"emote",
	"energy restore",
	"health restore",
	"relic pack",
	"scene",
	"sculpture",
	"shield restore",
	"sigil",
	"simulacrum",
	"specter",
	"stencil",
	"syandana",
	"vosfor",
}

// DefaultRules returns the built-in keyword list and alias table.
func DefaultRules() Rules {
	return Rules{
		Keywords: append([]string(nil), DefaultKeywords...),
		Aliases: map[string]string{
			"Negation Armor": "Negation Swarm",
			"Fluctus Limb":   "Fluctus Limbs",
		},
	}
}

// Merge layers override on top of r. Non-empty keywords replace r's list,
// aliases are added or replaced one by one, and Dedupe is enabled if either
// side enables it.
func (r Rules) Merge(override Rules) Rules {
	out := Rules{
		Keywords: r.Keywords,
		Aliases:  make(map[string]string, len(r.Aliases)+len(override.Aliases)),
		Dedupe:   r.Dedupe || override.Dedupe,
	}
	if len(override.Keywords) > 0 {
		out.Keywords = override.Keywords
	}
	for k, v := range r.Aliases {
		out.Aliases[k] = v
	}
	for k, v := range override.Aliases {
		out.Aliases[k] = v
	}
	return out
}

// LoadRules reads offering rules from a YAML file with a top-level
// "offerings" key.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, eris.Wrapf(err, "offering: read rules %s", path)
	}

	var wrapper struct {
		Offerings Rules `yaml:"offerings"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return Rules{}, eris.Wrap(err, "offering: parse rules")
	}
	return wrapper.Offerings, nil
}
