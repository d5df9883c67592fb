package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	Delimiter     string `mapstructure:"delimiter" yaml:"delimiter"`
	MaxRows       int    `mapstructure:"max_rows" yaml:"max_rows"`
	TopPairs      int    `mapstructure:"top_pairs" yaml:"top_pairs"`
	PairSeparator string `mapstructure:"pair_separator" yaml:"pair_separator"`
	OutputFormat  string `mapstructure:"output_format" yaml:"output_format"`

	// Charts
	ChartDir    string `mapstructure:"chart_dir" yaml:"chart_dir"`
	ChartFormat string `mapstructure:"chart_format" yaml:"chart_format"`
	ChartHTML   bool   `mapstructure:"chart_html" yaml:"chart_html"`

	// Logging
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogJSON  bool   `mapstructure:"log_json" yaml:"log_json"`
}

// Defaults returns the built-in settings. An empty delimiter is chosen from
// the input file extension; max_rows 0 reads every row.
func Defaults() *Global {
	return &Global{
		TopPairs:      15,
		PairSeparator: " || ",
		OutputFormat:  "text",
		ChartFormat:   "png",
		LogLevel:      "info",
	}
}

// Dir returns ~/.crashpair.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".crashpair"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.crashpair/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
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

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CRASHPAIR")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("delimiter", d.Delimiter)
	v.SetDefault("max_rows", d.MaxRows)
	v.SetDefault("top_pairs", d.TopPairs)
	v.SetDefault("pair_separator", d.PairSeparator)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("chart_dir", d.ChartDir)
	v.SetDefault("chart_format", d.ChartFormat)
	v.SetDefault("chart_html", d.ChartHTML)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_json", d.LogJSON)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
