package format

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Bucket covers values up to and including Max.
type Bucket struct {
	Max   float64 `mapstructure:"max"`
	Color string  `mapstructure:"color"`
}

// ColorScale is an ascending list of fixed buckets. A value falls in the first
// bucket whose Max is not below it; values above the last bucket clamp to it.
type ColorScale []Bucket

func (s ColorScale) Color(v float64) string {
	for _, b := range s {
		if v <= b.Max {
			return b.Color
		}
	}
	return s[len(s)-1].Color
}

func (s ColorScale) validate(name string) error {
	if len(s) == 0 {
		return fmt.Errorf("%s: empty color scale", name)
	}
	for i, b := range s {
		if b.Color == "" {
			return fmt.Errorf("%s: bucket %d has no color", name, i)
		}
		if i > 0 && b.Max <= s[i-1].Max {
			return fmt.Errorf("%s: bucket %d max %v not above %v", name, i, b.Max, s[i-1].Max)
		}
	}
	return nil
}

type Config struct {
	// MinSamples and MaxGenotypes are set from the dashboard section.
	MinSamples       int        `mapstructure:"-"`
	MaxGenotypes     int        `mapstructure:"-"`
	TooltipGenotypes int        `mapstructure:"tooltip_genotypes"`
	ResistanceScale  ColorScale `mapstructure:"resistance_scale"`
	SusceptibleScale ColorScale `mapstructure:"susceptible_scale"`
	SamplesScale     ColorScale `mapstructure:"samples_scale"`

	NoDataColor           string `mapstructure:"no_data_color"`
	InsufficientDataColor string `mapstructure:"insufficient_data_color"`
	ZeroCountColor        string `mapstructure:"zero_count_color"`
	ZeroResistanceColor   string `mapstructure:"zero_resistance_color"`
	ZeroSusceptibleColor  string `mapstructure:"zero_susceptible_color"`

	GenotypePalette []string          `mapstructure:"genotype_palette"`
	GenotypeColors  map[string]string `mapstructure:"genotype_colors"`
}

func DefaultConfig() Config {
	return Config{
		MinSamples:       20,
		MaxGenotypes:     10,
		TooltipGenotypes: 5,
		ResistanceScale: ColorScale{
			{Max: 2, Color: "#FAAD8F"},
			{Max: 10, Color: "#FA694A"},
			{Max: 50, Color: "#DD2C24"},
			{Max: 100, Color: "#A20F17"},
		},
		SusceptibleScale: ColorScale{
			{Max: 10, Color: "#EDF8E9"},
			{Max: 20, Color: "#BAE4B3"},
			{Max: 50, Color: "#74C476"},
			{Max: 100, Color: "#238B45"},
		},
		SamplesScale: ColorScale{
			{Max: 9, Color: "#DEEBF7"},
			{Max: 99, Color: "#9ECAE1"},
			{Max: 999, Color: "#4292C6"},
			{Max: 9999, Color: "#08519C"},
		},
		NoDataColor:           "#F0F0F0",
		InsufficientDataColor: "#D6D6D6",
		ZeroCountColor:        "#F5F5F5",
		ZeroResistanceColor:   "#727272",
		ZeroSusceptibleColor:  "#A20F17",
		GenotypePalette: []string{
			"#1F77B4", "#FF7F0E", "#2CA02C", "#D62728", "#9467BD",
			"#8C564B", "#E377C2", "#7F7F7F", "#BCBD22", "#17BECF",
			"#393B79", "#637939", "#8C6D31", "#843C39", "#7B4173",
		},
	}
}

func (c Config) Validate() error {
	if c.MinSamples <= 0 {
		return fmt.Errorf("min_samples must be positive, got %d", c.MinSamples)
	}
	if c.MaxGenotypes <= 0 {
		return fmt.Errorf("max_genotypes must be positive, got %d", c.MaxGenotypes)
	}
	if len(c.GenotypePalette) == 0 {
		return fmt.Errorf("genotype_palette is empty")
	}
	if err := c.ResistanceScale.validate("resistance_scale"); err != nil {
		return err
	}
	if err := c.SusceptibleScale.validate("susceptible_scale"); err != nil {
		return err
	}
	return c.SamplesScale.validate("samples_scale")
}

func (c Config) genotypeColor(name string) string {
	if color, ok := c.GenotypeColors[name]; ok {
		return color
	}
	// viper lowercases map keys read from files
	if color, ok := c.GenotypeColors[strings.ToLower(name)]; ok {
		return color
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return c.GenotypePalette[h.Sum32()%uint32(len(c.GenotypePalette))]
}

// WithDefaults fills every unset field from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.MinSamples == 0 {
		c.MinSamples = d.MinSamples
	}
	if c.MaxGenotypes == 0 {
		c.MaxGenotypes = d.MaxGenotypes
	}
	if c.TooltipGenotypes == 0 {
		c.TooltipGenotypes = d.TooltipGenotypes
	}
	if len(c.ResistanceScale) == 0 {
		c.ResistanceScale = d.ResistanceScale
	}
	if len(c.SusceptibleScale) == 0 {
		c.SusceptibleScale = d.SusceptibleScale
	}
	if len(c.SamplesScale) == 0 {
		c.SamplesScale = d.SamplesScale
	}
	for _, color := range []struct {
		dst *string
		def string
	}{
		{&c.NoDataColor, d.NoDataColor},
		{&c.InsufficientDataColor, d.InsufficientDataColor},
		{&c.ZeroCountColor, d.ZeroCountColor},
		{&c.ZeroResistanceColor, d.ZeroResistanceColor},
		{&c.ZeroSusceptibleColor, d.ZeroSusceptibleColor},
	} {
		if *color.dst == "" {
			*color.dst = color.def
		}
	}
	if len(c.GenotypePalette) == 0 {
		c.GenotypePalette = d.GenotypePalette
	}
	return c
}
