package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/spendlens/internal/filter"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. SPENDLENS_DATA_PATH.
const EnvPrefix = "SPENDLENS"

const dirName = ".spendlens"

// IncomeBracket is a labelled disposable income range. A nil bound is open.
type IncomeBracket struct {
	Label string   `mapstructure:"label" yaml:"label"`
	Min   *float64 `mapstructure:"min" yaml:"min,omitempty"`
	Max   *float64 `mapstructure:"max" yaml:"max,omitempty"`
}

// Global configuration structure.
type Global struct {
	DataPath  string `mapstructure:"data_path" yaml:"data_path"`
	SheetName string `mapstructure:"sheet_name" yaml:"sheet_name"`

	// Blob store for the saved visitor input
	StoreDriver string `mapstructure:"store_driver" yaml:"store_driver"`
	StorePath   string `mapstructure:"store_path" yaml:"store_path,omitempty"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// Radar chart geometry
	RadarOuterRadius float64 `mapstructure:"radar_outer_radius" yaml:"radar_outer_radius"`
	RadarLevels      int     `mapstructure:"radar_levels" yaml:"radar_levels"`

	IncomeBrackets []IncomeBracket `mapstructure:"income_brackets" yaml:"income_brackets"`
}

// Dir returns ~/.spendlens.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

func f64(v float64) *float64 { return &v }

// DefaultIncomeBrackets mirrors filter.DefaultBrackets in config form.
func DefaultIncomeBrackets() []IncomeBracket {
	return []IncomeBracket{
		{Label: "0-75", Max: f64(75)},
		{Label: "75-150", Min: f64(75), Max: f64(150)},
		{Label: "150+", Min: f64(150)},
	}
}

// Brackets converts the configured table for the filter pipeline.
func (c *Global) Brackets() (filter.Brackets, error) {
	if len(c.IncomeBrackets) == 0 {
		return filter.DefaultBrackets, nil
	}
	out := make(filter.Brackets, len(c.IncomeBrackets))
	for i, b := range c.IncomeBrackets {
		out[i] = filter.NewBracket(b.Label, b.Min, b.Max)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.spendlens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// loadDotEnv reads .env from the working directory when present. Variables
// already set in the environment win.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load .env: %w", err)
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults; cfgFile replaces the default path.
func Load(cfgFile string) (*Global, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data_path", "data/student_spending.csv")
	v.SetDefault("sheet_name", "")
	v.SetDefault("store_driver", "file")
	v.SetDefault("store_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("radar_outer_radius", 200.0)
	v.SetDefault("radar_levels", 5)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.IncomeBrackets) == 0 {
		c.IncomeBrackets = DefaultIncomeBrackets()
	}
	return &c, nil
}

// StoreLocation returns store_path, or when it is unset the default for the
// current driver: ~/.spendlens/store.json or ~/.spendlens/store.db. The
// default is never written back so a driver change picks its own file.
func (c *Global) StoreLocation() (string, error) {
	if c.StorePath != "" {
		return c.StorePath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	name := "store.json"
	if strings.EqualFold(c.StoreDriver, "sqlite") {
		name = "store.db"
	}
	return filepath.Join(dir, name), nil
}

// Set assigns a scalar key by its config name.
func (c *Global) Set(key, value string) error {
	switch key {
	case "data_path":
		c.DataPath = value
	case "sheet_name":
		c.SheetName = value
	case "store_driver":
		v := strings.ToLower(value)
		if v != "file" && v != "sqlite" {
			return fmt.Errorf("store_driver must be file or sqlite, got %q", value)
		}
		c.StoreDriver = v
	case "store_path":
		c.StorePath = value
	case "log_level":
		c.LogLevel = value
	case "radar_outer_radius":
		var r float64
		if _, err := fmt.Sscanf(value, "%g", &r); err != nil || r <= 0 {
			return fmt.Errorf("radar_outer_radius must be a positive number")
		}
		c.RadarOuterRadius = r
	case "radar_levels":
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil || n <= 0 {
			return fmt.Errorf("radar_levels must be a positive integer")
		}
		c.RadarLevels = n
	default:
		return fmt.Errorf("unknown or non-scalar key: %s", key)
	}
	return nil
}
