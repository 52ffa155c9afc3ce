package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Font.Name != "Braille" || cfg.Font.SpacingPt != 50 || cfg.Font.ApplySize {
		t.Errorf("font defaults = %+v", cfg.Font)
	}
	if cfg.LineSpacing != 1.2 {
		t.Errorf("line_spacing = %v", cfg.LineSpacing)
	}
	if cfg.Braille.Command != "lou_translate" || cfg.Braille.Table != "en-ueb-g2.ctb" {
		t.Errorf("braille defaults = %+v", cfg.Braille)
	}
	if cfg.Converter != "libreoffice" {
		t.Errorf("converter = %q", cfg.Converter)
	}
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accessdeck.yaml")
	doc := `
font:
  name: "APH Braille"
  size_pt: 18
  apply_size: true
contract_braille: true
caption:
  base_url: "http://localhost:8080/v1"
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Font.Name != "APH Braille" || cfg.Font.SizePt != 18 || !cfg.Font.ApplySize {
		t.Errorf("font = %+v", cfg.Font)
	}
	if !cfg.ContractBraille {
		t.Error("contract_braille not set")
	}
	// Untouched keys keep their defaults.
	if cfg.Braille.Command != "lou_translate" || cfg.Converter != "libreoffice" {
		t.Errorf("defaults lost: braille=%+v converter=%q", cfg.Braille, cfg.Converter)
	}
	if cfg.Caption.BaseURL != "http://localhost:8080/v1" {
		t.Errorf("caption.base_url = %q", cfg.Caption.BaseURL)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative line spacing", func(c *Config) { c.LineSpacing = -1 }},
		{"negative char spacing", func(c *Config) { c.Font.SpacingPt = -5 }},
		{"apply_size without size", func(c *Config) { c.Font.ApplySize = true; c.Font.SizePt = 0 }},
		{"contraction without command", func(c *Config) { c.ContractBraille = true; c.Braille.Command = "" }},
		{"empty converter", func(c *Config) { c.Converter = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
