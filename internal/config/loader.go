package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.toml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyGlobalDefaults(&cfg.Global)
	for i := range cfg.Paths {
		applyPathDefaults(&cfg.Paths[i])
	}
	for i := range cfg.Documents {
		applyDocumentDefaults(&cfg.Documents[i])
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := absolutizeRoots(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenPort", 5000)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
	v.SetDefault("AppName", "pathdoc")
	v.SetDefault("RuntimeContext", "editor")
	v.SetDefault("Platform", "")
	v.SetDefault("ResourceDir", "")
	v.SetDefault("ReadTimeout", "10s")
}

func applyGlobalDefaults(g *GlobalConfig) {
	if g.ListenPort == 0 {
		g.ListenPort = 5000
	}
	if strings.TrimSpace(g.AppName) == "" {
		g.AppName = "pathdoc"
	}
	if strings.TrimSpace(g.RuntimeContext) == "" {
		g.RuntimeContext = "editor"
	}
	g.Platform = strings.ToLower(strings.TrimSpace(g.Platform))
	if g.ReadTimeout.DurationValue() == 0 {
		g.ReadTimeout = Duration(10 * time.Second)
	}
}

func applyPathDefaults(p *PathConfig) {
	p.Name = strings.TrimSpace(p.Name)
	p.Parent = strings.TrimSpace(p.Parent)
	p.Backend = strings.ToLower(strings.TrimSpace(p.Backend))
}

func applyDocumentDefaults(d *DocumentConfig) {
	d.Name = strings.TrimSpace(d.Name)
	d.Path = strings.TrimSpace(d.Path)
	if strings.TrimSpace(d.NotFound) == "" {
		d.NotFound = "warning"
	}
}

// absolutizeRoots 把相对目录转换为绝对路径；AbsoluteURL 保持原样。
func absolutizeRoots(cfg *Config) error {
	targets := []struct {
		field string
		value *string
	}{
		{"ResourceDir", &cfg.Global.ResourceDir},
		{"Roots.GameRoot", &cfg.Roots.GameRoot},
		{"Roots.BundledReadOnly", &cfg.Roots.BundledReadOnly},
		{"Roots.PersistentWritable", &cfg.Roots.PersistentWritable},
		{"Roots.TemporaryCache", &cfg.Roots.TemporaryCache},
		{"Roots.ConsoleLog", &cfg.Roots.ConsoleLog},
	}
	for _, target := range targets {
		if strings.TrimSpace(*target.value) == "" {
			continue
		}
		abs, err := filepath.Abs(*target.value)
		if err != nil {
			return fmt.Errorf("无法解析目录 %s: %w", target.field, err)
		}
		*target.value = abs
	}
	return nil
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if seconds, err := strconv.ParseFloat(v, 64); err == nil {
				return Duration(time.Duration(seconds * float64(time.Second))), nil
			}
			return nil, fmt.Errorf("无法解析 Duration 字段: %s", v)
		case int:
			return Duration(time.Duration(v) * time.Second), nil
		case int64:
			return Duration(time.Duration(v) * time.Second), nil
		case float64:
			return Duration(time.Duration(v * float64(time.Second))), nil
		case time.Duration:
			return Duration(v), nil
		case Duration:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 Duration 类型: %T", v)
		}
	}
}
