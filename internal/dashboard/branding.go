package dashboard

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

// Layouts.
const (
	LayoutWide     = "wide"
	LayoutCentered = "centered"
)

// ErrUnknownVariant is returned for a branding key that is not configured.
var ErrUnknownVariant = errors.New("unknown dashboard variant")

// Profile is the branding of one dashboard deployment.
type Profile struct {
	Key       string `yaml:"key"`
	Title     string `yaml:"title"`
	Icon      string `yaml:"icon"`
	Layout    string `yaml:"layout"`
	ModelName string `yaml:"model_name"`
	// ModelDescription is the acronym expansion shown in the hero text.
	ModelDescription string `yaml:"model_description"`
	// Accent colors for light and dark themes.
	Accent      string `yaml:"accent"`
	Accent2     string `yaml:"accent2"`
	DarkAccent  string `yaml:"dark_accent"`
	DarkAccent2 string `yaml:"dark_accent2"`
	ThemeName   string `yaml:"theme_name"`
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{3,8}$`)

var builtinProfiles = map[string]Profile{
	"hsel": {
		Key:              "hsel",
		Title:            "Smart Fire Prediction HSEL",
		Icon:             "🔥",
		Layout:           LayoutWide,
		ModelName:        "HSEL",
		ModelDescription: "Hybrid Stacking Ensemble Learning",
		Accent:           "#4F46E5",
		Accent2:          "#059669",
		DarkAccent:       "#7C3AED",
		DarkAccent2:      "#10B981",
		ThemeName:        "Indigo & Emerald",
	},
	"rhsem": {
		Key:              "rhsem",
		Title:            "Smart Fire Prediction RHSEM",
		Icon:             "🔥",
		Layout:           LayoutCentered,
		ModelName:        "RHSEM",
		ModelDescription: "Hybrid Stacking Ensemble Learning",
		Accent:           "#4F46E5",
		Accent2:          "#059669",
		DarkAccent:       "#7C3AED",
		DarkAccent2:      "#10B981",
		ThemeName:        "Indigo & Emerald",
	},
}

// Profiles holds the available branding variants.
type Profiles struct {
	byKey map[string]Profile
}

// LoadProfiles returns the built-in profiles, overridden or extended by the
// YAML file at path when path is not empty. The file holds a list of
// profiles; fields left empty inherit from the built-in profile of the same
// key, or from "hsel" for new keys.
func LoadProfiles(path string) (*Profiles, error) {
	p := &Profiles{byKey: make(map[string]Profile, len(builtinProfiles))}
	for k, v := range builtinProfiles {
		p.byKey[k] = v
	}
	if path == "" {
		return p, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read branding file: %w", err)
	}
	var file struct {
		Profiles []Profile `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode branding file: %w", err)
	}

	for i, override := range file.Profiles {
		if override.Key == "" {
			return nil, fmt.Errorf("branding profile %d has no key", i)
		}
		base, ok := p.byKey[override.Key]
		if !ok {
			base = builtinProfiles["hsel"]
			base.Key = override.Key
		}
		merged := merge(base, override)
		if merged.Layout != LayoutWide && merged.Layout != LayoutCentered {
			return nil, fmt.Errorf("branding profile %q: invalid layout %q", merged.Key, merged.Layout)
		}
		for _, c := range []string{merged.Accent, merged.Accent2, merged.DarkAccent, merged.DarkAccent2} {
			if !hexColor.MatchString(c) {
				return nil, fmt.Errorf("branding profile %q: invalid color %q", merged.Key, c)
			}
		}
		p.byKey[merged.Key] = merged
	}
	return p, nil
}

func merge(base, o Profile) Profile {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&base.Title, o.Title)
	set(&base.Icon, o.Icon)
	set(&base.Layout, o.Layout)
	set(&base.ModelName, o.ModelName)
	set(&base.ModelDescription, o.ModelDescription)
	set(&base.Accent, o.Accent)
	set(&base.Accent2, o.Accent2)
	set(&base.DarkAccent, o.DarkAccent)
	set(&base.DarkAccent2, o.DarkAccent2)
	set(&base.ThemeName, o.ThemeName)
	return base
}

// Get returns the profile for key.
func (p *Profiles) Get(key string) (Profile, error) {
	prof, ok := p.byKey[key]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownVariant, key)
	}
	return prof, nil
}

// Keys returns the configured variant keys, sorted.
func (p *Profiles) Keys() []string {
	keys := make([]string, 0, len(p.byKey))
	for k := range p.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
