package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// GlobalConfig 描述进程级参数：日志、监听端口以及宿主环境。
type GlobalConfig struct {
	ListenPort     int      `mapstructure:"ListenPort"`
	LogLevel       string   `mapstructure:"LogLevel"`
	LogFilePath    string   `mapstructure:"LogFilePath"`
	LogMaxSize     int      `mapstructure:"LogMaxSize"`
	LogMaxBackups  int      `mapstructure:"LogMaxBackups"`
	LogCompress    bool     `mapstructure:"LogCompress"`
	AppName        string   `mapstructure:"AppName"`
	RuntimeContext string   `mapstructure:"RuntimeContext"`
	Platform       string   `mapstructure:"Platform"`
	ResourceDir    string   `mapstructure:"ResourceDir"`
	ReadTimeout    Duration `mapstructure:"ReadTimeout"`
}

// RootsConfig 覆盖各后端的根目录，留空时使用宿主默认值。
type RootsConfig struct {
	GameRoot           string `mapstructure:"GameRoot"`
	BundledReadOnly    string `mapstructure:"BundledReadOnly"`
	PersistentWritable string `mapstructure:"PersistentWritable"`
	TemporaryCache     string `mapstructure:"TemporaryCache"`
	ConsoleLog         string `mapstructure:"ConsoleLog"`
	AbsoluteURL        string `mapstructure:"AbsoluteURL"`
}

// PathConfig 声明一条路径链节点，Parent 可以指向另一条路径或平台表。
type PathConfig struct {
	Name       string `mapstructure:"Name"`
	Parent     string `mapstructure:"Parent"`
	Backend    string `mapstructure:"Backend"`
	CustomRoot string `mapstructure:"CustomRoot"`
	SubPath    string `mapstructure:"SubPath"`
	FileName   string `mapstructure:"FileName"`
	Extension  string `mapstructure:"Extension"`
}

// TableEntryConfig 把一条路径绑定到若干平台。
type TableEntryConfig struct {
	Path      string   `mapstructure:"Path"`
	Platforms []string `mapstructure:"Platforms"`
}

// TableConfig 声明按平台选择路径的表，按顺序第一条命中生效。
type TableConfig struct {
	Name    string             `mapstructure:"Name"`
	Entries []TableEntryConfig `mapstructure:"Entry"`
}

// DocumentConfig 声明一个由路径驱动的文档。
type DocumentConfig struct {
	Name        string                 `mapstructure:"Name"`
	Path        string                 `mapstructure:"Path"`
	UseFile     []string               `mapstructure:"UseFile"`
	NotFound    string                 `mapstructure:"NotFound"`
	Pretty      bool                   `mapstructure:"Pretty"`
	DefaultFile string                 `mapstructure:"DefaultFile"`
	Default     map[string]interface{} `mapstructure:"Default"`
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global    GlobalConfig     `mapstructure:",squash"`
	Roots     RootsConfig      `mapstructure:"Roots"`
	Paths     []PathConfig     `mapstructure:"Path"`
	Tables    []TableConfig    `mapstructure:"Table"`
	Documents []DocumentConfig `mapstructure:"Document"`
}

// DocumentNames 返回所有文档名称，顺序与配置一致。
func DocumentNames(docs []DocumentConfig) []string {
	if len(docs) == 0 {
		return nil
	}
	result := make([]string, len(docs))
	for i, doc := range docs {
		result[i] = doc.Name
	}
	return result
}
