// Package config loads the YAML pipeline configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bitgate-ml/bitgate/internal/encoding"
)

// Config is the full pipeline configuration.
type Config struct {
	Dataset  DatasetConfig  `yaml:"dataset"`
	Schema   []FieldConfig  `yaml:"schema"`
	Training TrainingConfig `yaml:"training"`
	Export   ExportConfig   `yaml:"export"`
}

// DatasetConfig locates the input files and the label column.
type DatasetConfig struct {
	TrainFile   string `yaml:"train_file"`
	TestFile    string `yaml:"test_file"`
	LabelColumn string `yaml:"label_column"`
	Delimiter   string `yaml:"delimiter"` // default ","
	Workers     int    `yaml:"workers"`   // parallel encoding workers, 0 = GOMAXPROCS
}

// FieldConfig declares one schema field. Scale and bits apply to float
// fields only.
type FieldConfig struct {
	Name  string  `yaml:"name"`
	Kind  string  `yaml:"kind"` // integer | categorical | float
	Scale float64 `yaml:"scale"`
	Bits  int     `yaml:"bits"`
}

// TrainingConfig holds model topology and optimizer hyperparameters.
type TrainingConfig struct {
	Hidden     []int   `yaml:"hidden"`
	Epochs     int     `yaml:"epochs"`
	BatchSize  int     `yaml:"batch_size"`
	LR         float64 `yaml:"lr"`
	Momentum   float64 `yaml:"momentum"`
	Shuffle    bool    `yaml:"shuffle"`
	Seed       int64   `yaml:"seed"`
	WeightBits int     `yaml:"weight_bits"` // 0 = full precision
	ValRatio   float64 `yaml:"val_ratio"`
}

// ExportConfig controls padding and the output file.
type ExportConfig struct {
	PaddedWidth int    `yaml:"padded_width"`
	Output      string `yaml:"output"`
}

// Load reads and validates a YAML config file, filling defaults for
// optional settings.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Dataset.Delimiter == "" {
		c.Dataset.Delimiter = ","
	}
	if c.Dataset.LabelColumn == "" {
		c.Dataset.LabelColumn = "label"
	}
	if c.Training.Epochs == 0 {
		c.Training.Epochs = 10
	}
	if c.Training.BatchSize == 0 {
		c.Training.BatchSize = 64
	}
	if c.Training.LR == 0 {
		c.Training.LR = 0.01
	}
	if c.Training.ValRatio == 0 {
		c.Training.ValRatio = 0.2
	}
	if len(c.Training.Hidden) == 0 {
		c.Training.Hidden = []int{64, 64}
	}
	if c.Export.Output == "" {
		c.Export.Output = "model.bgx"
	}
}

func (c *Config) validate() error {
	if c.Dataset.TrainFile == "" {
		return fmt.Errorf("dataset.train_file is required")
	}
	if c.Dataset.TestFile == "" {
		return fmt.Errorf("dataset.test_file is required")
	}
	if len(c.Schema) == 0 {
		return fmt.Errorf("schema must declare at least one field")
	}
	if len(c.Dataset.Delimiter) != 1 {
		return fmt.Errorf("dataset.delimiter must be a single character, got %q", c.Dataset.Delimiter)
	}
	if c.Training.ValRatio <= 0 || c.Training.ValRatio >= 1 {
		return fmt.Errorf("training.val_ratio must be in (0, 1), got %v", c.Training.ValRatio)
	}
	return nil
}

// BuildSchema converts the config's field list into an encoding schema.
func (c *Config) BuildSchema() (encoding.Schema, error) {
	schema := make(encoding.Schema, 0, len(c.Schema))
	for _, f := range c.Schema {
		kind, err := encoding.ParseFieldKind(f.Kind)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		schema = append(schema, encoding.Field{
			Name:  f.Name,
			Kind:  kind,
			Scale: f.Scale,
			Bits:  f.Bits,
		})
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return schema, nil
}

// DelimiterRune returns the dataset delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	return rune(c.Dataset.Delimiter[0])
}
