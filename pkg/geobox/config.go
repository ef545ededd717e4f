package geobox

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPlaces is the number of decimal places kept in identifiers
	DefaultPlaces int32 = 3
	// DefaultDelimiter separates the four identifier components
	DefaultDelimiter = "|"
)

var (
	defaultScopes = []string{"0.00625", "0.0125", "0.025", "0.05"}
	defaultMargin = "0.3"
)

// Config is the grid definition shared by every Geobox built from it.
// Treat a Config as read-only once it has been handed to New.
type Config struct {
	// Scopes are the grid cell sizes in degrees, strictly increasing
	Scopes []decimal.Decimal
	// Places is the quantization precision for identifiers and scope snapping
	Places int32
	// Margin is the fraction of a scope that counts as "near an edge"
	Margin decimal.Decimal
	// Delimiter joins the identifier components
	Delimiter string
	// AllCorners adds the bottom-right and top-left diagonals to the storage set
	AllCorners bool
	// Logger receives debug output; nil discards it
	Logger *slog.Logger
}

// DefaultConfig returns a fresh copy of the default grid
func DefaultConfig() Config {
	scopes := make([]decimal.Decimal, len(defaultScopes))
	for i, s := range defaultScopes {
		scopes[i] = decimal.RequireFromString(s)
	}

	return Config{
		Scopes:    scopes,
		Places:    DefaultPlaces,
		Margin:    decimal.RequireFromString(defaultMargin),
		Delimiter: DefaultDelimiter,
	}
}

// NewConfig returns the default config with its scopes replaced
func NewConfig(scopes ...decimal.Decimal) (Config, error) {
	cfg := DefaultConfig()
	cfg.Scopes = append([]decimal.Decimal(nil), scopes...)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the grid invariants
func (c Config) Validate() error {
	if len(c.Scopes) == 0 {
		return fmt.Errorf("%w: no scopes configured", ErrInvalidConfig)
	}

	for i, s := range c.Scopes {
		if !s.IsPositive() {
			return fmt.Errorf("%w: scope %s must be positive", ErrInvalidConfig, s)
		}
		if i > 0 && !s.GreaterThan(c.Scopes[i-1]) {
			return fmt.Errorf("%w: scopes must be strictly increasing, %s follows %s",
				ErrInvalidConfig, s, c.Scopes[i-1])
		}
	}

	if !c.Margin.IsPositive() {
		return fmt.Errorf("%w: margin %s must be positive", ErrInvalidConfig, c.Margin)
	}
	if c.Places < 0 {
		return fmt.Errorf("%w: places %d must not be negative", ErrInvalidConfig, c.Places)
	}
	if c.Delimiter == "" {
		return fmt.Errorf("%w: empty delimiter", ErrInvalidConfig)
	}

	return nil
}

// NearestScope snaps scope to a configured scope size. The input is quantized
// to Places; anything at or above the largest scope maps to the largest,
// everything else rounds up to the next coarser scope. Configured sizes map
// to themselves.
func (c Config) NearestScope(scope decimal.Decimal) decimal.Decimal {
	for _, s := range c.Scopes {
		if scope.Equal(s) {
			return s
		}
	}

	quantized := scope.Round(c.Places)
	largest := c.Scopes[len(c.Scopes)-1]
	if quantized.GreaterThanOrEqual(largest) {
		return largest
	}

	for _, s := range c.Scopes {
		if quantized.LessThan(s) {
			return s
		}
	}
	return largest
}

// Smallest returns the finest configured scope
func (c Config) Smallest() decimal.Decimal {
	return c.Scopes[0]
}

// Largest returns the coarsest configured scope
func (c Config) Largest() decimal.Decimal {
	return c.Scopes[len(c.Scopes)-1]
}

func (c Config) clone() Config {
	c.Scopes = append([]decimal.Decimal(nil), c.Scopes...)
	return c
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// decimalValue keeps YAML scalars exact by parsing their source text
type decimalValue struct {
	decimal.Decimal
}

func (d *decimalValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return &ConversionError{Field: "config value", Input: node.Value, Err: fmt.Errorf("line %d: expected a scalar", node.Line)}
	}

	v, err := decimal.NewFromString(node.Value)
	if err != nil {
		return &ConversionError{Field: "config value", Input: node.Value, Err: err}
	}
	d.Decimal = v
	return nil
}

// fileConfig is the YAML form of Config
type fileConfig struct {
	Scopes     []decimalValue `yaml:"scopes"`
	Places     *int32         `yaml:"places"`
	Margin     *decimalValue  `yaml:"margin"`
	Delimiter  *string        `yaml:"delimiter"`
	AllCorners bool           `yaml:"all_corners"`
}

// LoadConfig reads a YAML grid definition. Keys that are not set keep their
// default values.
func LoadConfig(r io.Reader) (Config, error) {
	var fc fileConfig
	if err := yaml.NewDecoder(r).Decode(&fc); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("%w: failed to decode yaml: %w", ErrInvalidConfig, err)
	}

	cfg := DefaultConfig()
	if len(fc.Scopes) > 0 {
		cfg.Scopes = make([]decimal.Decimal, len(fc.Scopes))
		for i, s := range fc.Scopes {
			cfg.Scopes[i] = s.Decimal
		}
	}
	if fc.Places != nil {
		cfg.Places = *fc.Places
	}
	if fc.Margin != nil {
		cfg.Margin = fc.Margin.Decimal
	}
	if fc.Delimiter != nil {
		cfg.Delimiter = *fc.Delimiter
	}
	cfg.AllCorners = fc.AllCorners

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML grid definition from path
func LoadConfigFile(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg, err := LoadConfig(file)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
