package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Labor    LaborConfig    `mapstructure:"labor"`
	Feature  FeatureConfig  `mapstructure:"feature"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int        `mapstructure:"port"`
	MaxBodyBytes int64      `mapstructure:"max_body_bytes"`
	CORS         CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 分钟
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 分钟
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置（Token 黑名单 + 限流）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret              string        `mapstructure:"jwt_secret"`
	AccessTokenTTL         time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL        time.Duration `mapstructure:"refresh_token_ttl"`
	BootstrapAdminUsername string        `mapstructure:"bootstrap_admin_username"`
	BootstrapAdminPassword string        `mapstructure:"bootstrap_admin_password"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LaborConfig 业务计算相关配置
type LaborConfig struct {
	Timezone           string        `mapstructure:"timezone"`
	DashboardCacheTTL  time.Duration `mapstructure:"dashboard_cache_ttl"`
	APIKeyCacheTTL     time.Duration `mapstructure:"api_key_cache_ttl"`
	ShiftStart         string        `mapstructure:"shift_start"` // "08:00"
	DefaultWorkHours   float64       `mapstructure:"default_work_hours"`
	DefaultBreakHours  float64       `mapstructure:"default_break_hours"`
	LoginRateLimit     int           `mapstructure:"login_rate_limit"`
	IntegrationRateMax int           `mapstructure:"integration_rate_limit"`
	RateWindow         time.Duration `mapstructure:"rate_window"`
}

// Location 返回业务时区，解析失败时回退到 UTC（Validate 已拒绝无法加载的时区）
func (c *LaborConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FeatureConfig 功能开关配置
type FeatureConfig struct {
	IntegrationAPIEnabled bool `mapstructure:"integration_api_enabled"`
	ExcelImportEnabled    bool `mapstructure:"excel_import_enabled"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > .env > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	// .env 仅用于本地开发，不存在时忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("读取 .env 失败: %w", err)
	}

	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.max_body_bytes", 10<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "laborsync")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "America/Sao_Paulo")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.refresh_token_ttl", "24h")
	v.SetDefault("auth.bootstrap_admin_username", "admin")
	v.SetDefault("auth.bootstrap_admin_password", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("labor.timezone", "America/Sao_Paulo")
	v.SetDefault("labor.dashboard_cache_ttl", "30s")
	v.SetDefault("labor.api_key_cache_ttl", "5m")
	v.SetDefault("labor.shift_start", "08:00")
	v.SetDefault("labor.default_work_hours", 8)
	v.SetDefault("labor.default_break_hours", 1)
	v.SetDefault("labor.login_rate_limit", 10)
	v.SetDefault("labor.integration_rate_limit", 120)
	v.SetDefault("labor.rate_window", "1m")

	v.SetDefault("feature.integration_api_enabled", true)
	v.SetDefault("feature.excel_import_enabled", true)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("LABORSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 不能为空")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("配置校验失败: auth.jwt_secret 长度不能少于 16 字符")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if _, err := time.Parse("15:04", c.Labor.ShiftStart); err != nil {
		return fmt.Errorf("配置校验失败: labor.shift_start 格式应为 HH:MM")
	}
	if _, err := time.LoadLocation(c.Labor.Timezone); err != nil {
		return fmt.Errorf("配置校验失败: labor.timezone 无法加载: %w", err)
	}
	return nil
}
