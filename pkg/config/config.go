// Package config strgrad 的YAML配置
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// ErrInvalidConfig 配置值不合法
var ErrInvalidConfig = errors.New("invalid config")

// Config 顶层配置
type Config struct {
	Tracer  TracerConfig  `yaml:"tracer" json:"tracer"`
	Taint   TaintConfig   `yaml:"taint" json:"taint"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
	Output  OutputConfig  `yaml:"output" json:"output"`
}

// TracerConfig 执行跟踪器配置
type TracerConfig struct {
	MaxTrackedValues int `yaml:"max_tracked_values" json:"max_tracked_values"` // LRU容量
	MaxHintsPerValue int `yaml:"max_hints_per_value" json:"max_hints_per_value"`
}

// TaintConfig 被跟踪值判定配置
type TaintConfig struct {
	UseRegistry bool `yaml:"use_registry" json:"use_registry"` // true: 只认显式登记的值; false: 按污点命名规则
}

// MetricsConfig Prometheus指标配置
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	Namespace string `yaml:"namespace" json:"namespace"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	Format string `yaml:"format" json:"format"` // "json", "text"
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Tracer: TracerConfig{
			MaxTrackedValues: 1024,
			MaxHintsPerValue: 16,
		},
		Metrics: MetricsConfig{
			Namespace: "strgrad",
		},
		Output: OutputConfig{
			Format: "json",
		},
	}
}

// LoadConfig 从YAML文件加载配置，缺省字段使用默认值
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse 解析YAML内容
func Parse(data []byte) (*Config, error) {
	var file struct {
		Strgrad *Config `yaml:"strgrad"`
	}
	file.Strgrad = DefaultConfig()

	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg := file.Strgrad
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Tracer.MaxTrackedValues <= 0 {
		return fmt.Errorf("%w: tracer.max_tracked_values must be positive, got %d", ErrInvalidConfig, c.Tracer.MaxTrackedValues)
	}
	if c.Tracer.MaxHintsPerValue <= 0 {
		return fmt.Errorf("%w: tracer.max_hints_per_value must be positive, got %d", ErrInvalidConfig, c.Tracer.MaxHintsPerValue)
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("%w: metrics.namespace is required when metrics are enabled", ErrInvalidConfig)
	}
	switch c.Output.Format {
	case "json", "text":
	default:
		return fmt.Errorf("%w: unsupported output format: %s", ErrInvalidConfig, c.Output.Format)
	}
	return nil
}
