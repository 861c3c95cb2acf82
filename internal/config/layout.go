package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sangkips/devis-api/pkg/layout"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// LayoutConfig carries the pagination profile of every document kind
type LayoutConfig struct {
	ProfilesFile string
	Quote        layout.Profile
	Invoice      layout.Profile
}

// Profiles indexes the configured profiles by document kind
func (c LayoutConfig) Profiles() map[string]layout.Profile {
	return map[string]layout.Profile{
		layout.KindQuote:   c.Quote,
		layout.KindInvoice: c.Invoice,
	}
}

// profilesFile is the shape of LAYOUT_PROFILES_FILE. Absent fields keep
// their built-in value.
type profilesFile struct {
	Quote   *layout.Profile `yaml:"quote"`
	Invoice *layout.Profile `yaml:"invoice"`
}

// loadLayout starts from the built-in profiles, applies the YAML file and
// then the LAYOUT_<KIND>_* environment keys.
func loadLayout(v *viper.Viper) (LayoutConfig, error) {
	cfg := LayoutConfig{
		ProfilesFile: v.GetString("LAYOUT_PROFILES_FILE"),
		Quote:        layout.QuoteProfile(),
		Invoice:      layout.InvoiceProfile(),
	}

	if cfg.ProfilesFile != "" {
		if err := readProfilesFile(cfg.ProfilesFile, &cfg.Quote, &cfg.Invoice); err != nil {
			return cfg, err
		}
	}

	overrideProfile(v, &cfg.Quote)
	overrideProfile(v, &cfg.Invoice)

	for _, p := range []layout.Profile{cfg.Quote, cfg.Invoice} {
		if err := p.Validate(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func readProfilesFile(path string, quote, invoice *layout.Profile) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read layout profiles: %w", err)
	}

	file := profilesFile{Quote: quote, Invoice: invoice}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse layout profiles %s: %w", path, err)
	}

	// the kind is fixed by the section, not by the file content
	quote.Kind = layout.KindQuote
	invoice.Kind = layout.KindInvoice
	return nil
}

func overrideProfile(v *viper.Viper, p *layout.Profile) {
	prefix := "LAYOUT_" + strings.ToUpper(p.Kind) + "_"

	if key := prefix + "FIRST_HEIGHT"; v.IsSet(key) {
		p.First.MaxHeight = v.GetFloat64(key)
	}
	if key := prefix + "FIRST_ITEMS"; v.IsSet(key) {
		p.First.MaxItems = v.GetInt(key)
	}
	if key := prefix + "CONTINUATION_HEIGHT"; v.IsSet(key) {
		p.Continuation.MaxHeight = v.GetFloat64(key)
	}
	if key := prefix + "CONTINUATION_ITEMS"; v.IsSet(key) {
		p.Continuation.MaxItems = v.GetInt(key)
	}
	if key := prefix + "PACK_THRESHOLD"; v.IsSet(key) {
		p.PackThreshold = v.GetInt(key)
	}
	if key := prefix + "TRAILING_HEIGHT"; v.IsSet(key) {
		p.TrailingHeight = v.GetFloat64(key)
	}
}
