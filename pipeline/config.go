package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the full accessdeck pipeline configuration.
type Config struct {
	Font            FontConfig    `yaml:"font"`
	LineSpacing     float64       `yaml:"line_spacing"`
	ContractBraille bool          `yaml:"contract_braille"`
	Braille         BrailleConfig `yaml:"braille"`
	Caption         CaptionConfig `yaml:"caption"`
	// Converter is the headless office binary used for PDF rendering.
	Converter string `yaml:"converter"`
}

// FontConfig configures the run-level style overrides.
type FontConfig struct {
	Name      string  `yaml:"name"`
	SizePt    float64 `yaml:"size_pt"`
	SpacingPt float64 `yaml:"spacing_pt"`
	// ApplySize gates the font size override; everything else in the
	// normalization always applies.
	ApplySize bool `yaml:"apply_size"`
}

// BrailleConfig configures the external translator.
type BrailleConfig struct {
	Command string `yaml:"command"`
	Table   string `yaml:"table"`
}

// CaptionConfig configures the image description service.
type CaptionConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	CachePath string `yaml:"cache_path"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Font: FontConfig{
			Name:      "Braille",
			SizePt:    14,
			SpacingPt: 50,
			ApplySize: false,
		},
		LineSpacing:     1.2,
		ContractBraille: false,
		Braille: BrailleConfig{
			Command: "lou_translate",
			Table:   "en-ueb-g2.ctb",
		},
		Caption: CaptionConfig{
			CachePath: "captions.db",
		},
		Converter: "libreoffice",
	}
}

// LoadConfig reads and parses a YAML config file, merged over DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.LineSpacing < 0 {
		return fmt.Errorf("line_spacing must be >= 0")
	}
	if c.Font.SpacingPt < 0 {
		return fmt.Errorf("font.spacing_pt must be >= 0")
	}
	if c.Font.ApplySize && c.Font.SizePt <= 0 {
		return fmt.Errorf("font.size_pt must be > 0 when apply_size is set")
	}
	if c.ContractBraille && c.Braille.Command == "" {
		return fmt.Errorf("braille.command is required when contract_braille is set")
	}
	if c.Converter == "" {
		return fmt.Errorf("converter is required")
	}
	return nil
}
