package config

import (
	"strings"

	"github.com/blues/mintpad/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Task     TaskConfig     `mapstructure:"task"`
	Log      LogConfig      `mapstructure:"log"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Mint     MintConfig     `mapstructure:"mint"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // postgres 或 sqlite
	Path     string `mapstructure:"path"`   // sqlite 文件路径
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type TaskConfig struct {
	Interval int `mapstructure:"interval"` // 秒
	Workers  int `mapstructure:"workers"`  // 扫描协程池大小
}

// AuthConfig 鉴权配置，管理员钱包列表由外部角色服务同步
type AuthConfig struct {
	AdminWallets []string `mapstructure:"admin_wallets"`
}

// MintConfig 铸造相关配置
type MintConfig struct {
	DefaultTimezone    string `mapstructure:"default_timezone"`     // 表单本地时间的默认时区
	InscriptionLimitKB int    `mapstructure:"inscription_limit_kb"` // 单文件铭文大小上限
	WhitelistCacheSize int    `mapstructure:"whitelist_cache_size"` // 白名单资格缓存条目数
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

// SetDefaults 设置默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.path", "mintpad.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "mintpad")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("task.interval", 60)
	v.SetDefault("task.workers", 8)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("auth.admin_wallets", []string{})
	v.SetDefault("mint.default_timezone", "UTC")
	v.SetDefault("mint.inscription_limit_kb", 200)
	v.SetDefault("mint.whitelist_cache_size", 4096)
}

// Load 加载配置: .env -> config.yaml -> 环境变量
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded: %v", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/mintpad")

	SetDefaults(v)

	// 自动读取环境变量, 如 MINTPAD_DATABASE_HOST
	v.SetEnvPrefix("mintpad")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
