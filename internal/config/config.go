package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrorPolicy 单条记录被拒绝时的处理策略
type ErrorPolicy string

const (
	ErrorPolicySkip    ErrorPolicy = "skip"    // 记录日志后继续（默认）
	ErrorPolicyAbort   ErrorPolicy = "abort"   // 遇到第一条失败即停止
	ErrorPolicyCollect ErrorPolicy = "collect" // 继续处理，结束时汇总返回
)

func (p ErrorPolicy) Valid() bool {
	switch p {
	case ErrorPolicySkip, ErrorPolicyAbort, ErrorPolicyCollect:
		return true
	}
	return false
}

// Config 全局配置结构
type Config struct {
	Replay  ReplayConfig  `mapstructure:"replay"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type ReplayConfig struct {
	ErrorPolicy ErrorPolicy `mapstructure:"error_policy"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
}

type MetricsConfig struct {
	// Textfile 非空时运行结束把指标写成 node_exporter textfile 格式
	Textfile string `mapstructure:"textfile"`
}

// ErrReadConfig 配置文件不存在或无法读取
var ErrReadConfig = errors.New("读取配置文件失败")

const envPrefix = "LEDGER"

// flag 名 -> 配置 key
var flagKeys = map[string]string{
	"error-policy":     "replay.error_policy",
	"log-level":        "log.level",
	"log-format":       "log.format",
	"metrics-textfile": "metrics.textfile",
}

// RegisterFlags 注册可以覆盖配置文件的命令行参数
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "YAML 配置文件路径")
	flags.String("error-policy", string(ErrorPolicySkip), "记录失败时的策略: skip | abort | collect")
	flags.String("log-level", "info", "日志级别: debug | info | warn | error")
	flags.String("log-format", "console", "日志格式: json | console")
	flags.String("metrics-textfile", "", "运行结束后写入指标的文件路径")
}

// LoadConfig 加载配置
// 优先级：命令行参数 > 环境变量(LEDGER_*) > 配置文件 > 默认值
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("replay.error_policy", string(ErrorPolicySkip))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("metrics.textfile", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadConfig, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("绑定参数 %s 失败: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Replay.ErrorPolicy = ErrorPolicy(strings.ToLower(string(c.Replay.ErrorPolicy)))
	if !c.Replay.ErrorPolicy.Valid() {
		return fmt.Errorf("无效的错误策略: %q", c.Replay.ErrorPolicy)
	}

	c.Log.Format = strings.ToLower(c.Log.Format)
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("无效的日志格式: %q", c.Log.Format)
	}
	return nil
}
