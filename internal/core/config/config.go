package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec"`
	IdleTimeoutSec  int    `mapstructure:"idle_timeout_sec"`
}

type AdminHTTP struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type App struct {
	Name  string    `mapstructure:"name"`
	Env   string    `mapstructure:"env"`
	HTTP  HTTP      `mapstructure:"http"`
	Admin AdminHTTP `mapstructure:"admin"`
}

type Log struct {
	Level      string `mapstructure:"level"`
	JSON       bool   `mapstructure:"json"`
	File       string `mapstructure:"file"` // 为空则只输出到 stdout
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type JWT struct {
	Secret            string `mapstructure:"secret"`
	Issuer            string `mapstructure:"issuer"`
	AccessTokenTTLMin int    `mapstructure:"access_token_ttl_min"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"` // 为空则不启用缓存
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Cache 统计结果的读穿缓存
type Cache struct {
	StatsTTLSec int    `mapstructure:"stats_ttl_sec"`
	KeyPrefix   string `mapstructure:"key_prefix"`
}

type DB struct {
	Driver             string `mapstructure:"driver"`
	DSN                string `mapstructure:"dsn"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	MaxOpenConns       int    `mapstructure:"max_open_conns"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMin int    `mapstructure:"conn_max_lifetime_min"`
	AutoMigrate        bool   `mapstructure:"auto_migrate"`
	LogLevel           string `mapstructure:"log_level"`
	SlowThresholdMs    int    `mapstructure:"slow_threshold_ms"`
	PrepareStmt        bool   `mapstructure:"prepare_stmt"`
}

type Trace struct {
	Enabled     bool    `mapstructure:"enabled"`
	Exporter    string  `mapstructure:"exporter"` // stdout / otlp
	Endpoint    string  `mapstructure:"endpoint"` // otlp http 地址，如 localhost:4318
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// Limits 入口保护
type Limits struct {
	RPS               float64 `mapstructure:"rps"`
	Burst             int     `mapstructure:"burst"`
	MaxConcurrent     int64   `mapstructure:"max_concurrent"`
	MaxBodyBytes      int64   `mapstructure:"max_body_bytes"`
	RequestTimeoutSec int     `mapstructure:"request_timeout_sec"`
}

type Config struct {
	App    App    `mapstructure:"app"`
	Log    Log    `mapstructure:"log"`
	JWT    JWT    `mapstructure:"jwt"`
	DB     DB     `mapstructure:"db"`
	Redis  Redis  `mapstructure:"redis"`
	Cache  Cache  `mapstructure:"cache"`
	Trace  Trace  `mapstructure:"trace"`
	Limits Limits `mapstructure:"limits"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "llm-usage-ledger")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.read_timeout_sec", 5)
	v.SetDefault("app.http.write_timeout_sec", 10)
	v.SetDefault("app.http.idle_timeout_sec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "llm-usage-ledger")
	v.SetDefault("jwt.access_token_ttl_min", 60)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:ledger.db?cache=shared&_busy_timeout=5000")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.max_open_conns", 20)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime_min", 30)
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.log_level", "warn")
	v.SetDefault("db.slow_threshold_ms", 200)
	v.SetDefault("db.prepare_stmt", true)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.stats_ttl_sec", 30)
	v.SetDefault("cache.key_prefix", "ledger")

	v.SetDefault("trace.enabled", false)
	v.SetDefault("trace.exporter", "stdout")
	v.SetDefault("trace.endpoint", "localhost:4318")
	v.SetDefault("trace.insecure", true)
	v.SetDefault("trace.sample_ratio", 1.0)

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.max_concurrent", 300)
	v.SetDefault("limits.max_body_bytes", 1<<20)
	v.SetDefault("limits.request_timeout_sec", 10)
}

// Read 读取 YAML + APP_ 前缀环境变量（app.http.port → APP_APP_HTTP_PORT）
func Read(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Load 启动用：失败直接退出。path 为空时依次取 CONFIG_PATH、./configs/config.local.yaml（不存在则只用默认值）
func Load(path string) *Config {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		if _, err := os.Stat("./configs/config.local.yaml"); err == nil {
			path = "./configs/config.local.yaml"
		}
	}
	c, err := Read(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return c
}
