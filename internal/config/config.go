// Package config 提供配置加载和管理功能
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 未配置时的占位值，与前端文档保持一致
const (
	PlaceholderUsername    = "<username>"
	PlaceholderPassword    = "<password>"
	PlaceholderWorkspaceID = "<workspace-id>"
)

// Config 应用程序配置结构
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Conversation ConversationConfig `yaml:"conversation"`
	Weather      WeatherConfig      `yaml:"weather"`
	Redis        RedisConfig        `yaml:"redis"`
	Log          LogConfig          `yaml:"log"`
}

// ServerConfig HTTP服务器配置
type ServerConfig struct {
	Host      string `yaml:"host"`       // 服务器监听地址
	Port      int    `yaml:"port"`       // 服务器监听端口
	StaticDir string `yaml:"static_dir"` // 前端静态文件目录
}

// ConversationConfig 对话服务配置
type ConversationConfig struct {
	URL         string        `yaml:"url"`          // 服务地址
	Username    string        `yaml:"username"`     // 用户名
	Password    string        `yaml:"password"`     // 密码
	WorkspaceID string        `yaml:"workspace_id"` // 工作区ID
	Version     string        `yaml:"version"`      // API版本日期
	Timeout     time.Duration `yaml:"timeout"`      // 请求超时
}

// WeatherConfig 天气服务配置
type WeatherConfig struct {
	URL      string        `yaml:"url"`       // 服务地址
	APIKey   string        `yaml:"api_key"`   // API密钥
	Timeout  time.Duration `yaml:"timeout"`   // 请求超时
	CacheTTL time.Duration `yaml:"cache_ttl"` // 缓存有效期，0表示不缓存

	// ResolveStateValue 为true时，城市与州重复匹配的分支返回.value而不是原始对象
	ResolveStateValue bool `yaml:"resolve_state_value"`
}

// RedisConfig Redis配置，Addr为空时不启用缓存
type RedisConfig struct {
	Addr     string `yaml:"addr"`     // Redis地址
	Password string `yaml:"password"` // Redis密码
	DB       int    `yaml:"db"`       // Redis数据库编号
}

// LogConfig 日志配置
type LogConfig struct {
	Debug     bool   `yaml:"debug"`      // 应用调试日志
	DebugUtil bool   `yaml:"debug_util"` // 天气客户端调试日志
	Format    string `yaml:"format"`     // console 或 json
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      3000,
			StaticDir: "./public",
		},
		Conversation: ConversationConfig{
			URL:         "https://gateway.watsonplatform.net/conversation/api",
			Username:    PlaceholderUsername,
			Password:    PlaceholderPassword,
			WorkspaceID: PlaceholderWorkspaceID,
			Version:     "2016-07-11",
			Timeout:     15 * time.Second,
		},
		Weather: WeatherConfig{
			URL:      "http://api.wunderground.com",
			Timeout:  10 * time.Second,
			CacheTTL: 10 * time.Minute,
		},
		Log: LogConfig{
			Format: "console",
		},
	}
}

// Load 加载配置：YAML文件（可选）、.env文件（可选）、环境变量，依次覆盖
func Load(filename string) (*Config, error) {
	config := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("解析配置文件失败: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist):
			// 没有配置文件时仅使用环境变量
		default:
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	// .env 不存在时忽略
	_ = godotenv.Load()

	if err := applyEnv(config); err != nil {
		return nil, fmt.Errorf("解析环境变量失败: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return config, nil
}

// applyEnv 用环境变量覆盖配置
func applyEnv(config *Config) error {
	setString(&config.Conversation.URL, "CONVERSATION_URL")
	setString(&config.Conversation.Username, "CONVERSATION_USERNAME")
	setString(&config.Conversation.Password, "CONVERSATION_PASSWORD")
	setString(&config.Conversation.Version, "CONVERSATION_VERSION")
	setString(&config.Conversation.WorkspaceID, "WORKSPACE_ID")
	setString(&config.Weather.URL, "WEATHER_URL")
	setString(&config.Weather.APIKey, "WEATHER_UNDERGROUND_API_KEY")
	setString(&config.Redis.Addr, "REDIS_ADDR")
	setString(&config.Redis.Password, "REDIS_PASSWORD")
	setString(&config.Log.Format, "LOG_FORMAT")

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		config.Server.Port = port
	}

	// DEBUG/DEBUG_UTIL 只有值为 "true" 时生效
	if v, ok := os.LookupEnv("DEBUG"); ok {
		config.Log.Debug = v == "true"
	}
	if v, ok := os.LookupEnv("DEBUG_UTIL"); ok {
		config.Log.DebugUtil = v == "true"
	}
	if v, ok := os.LookupEnv("RESOLVE_STATE_VALUE"); ok {
		config.Weather.ResolveStateValue = v == "true"
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// validateConfig 验证配置是否有效
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 {
		return ErrInvalidPort
	}
	if config.Conversation.URL == "" {
		return ErrEmptyConversationURL
	}
	if config.Weather.URL == "" {
		return ErrEmptyWeatherURL
	}
	if config.Conversation.Timeout <= 0 || config.Weather.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if config.Weather.CacheTTL < 0 {
		return ErrInvalidCacheTTL
	}
	if config.Log.Format == "" {
		config.Log.Format = "console"
	}
	return nil
}

// WorkspaceConfigured 工作区ID是否已配置
func (c ConversationConfig) WorkspaceConfigured() bool {
	return c.WorkspaceID != "" && c.WorkspaceID != PlaceholderWorkspaceID
}

// Addr 返回监听地址
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogLevel 根据调试开关返回日志级别
func (c LogConfig) LogLevel() string {
	if c.Debug {
		return "debug"
	}
	return "info"
}
